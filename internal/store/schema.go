// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// schemaLockKey serializes schema application across processes sharing a database.
const schemaLockKey int64 = 0x696e6b706f7374 // "inkpost"

// duplicateRowsHint is attached when a step adds a unique index that rows
// already in the database violate. Bootstrap failure is cached, so the
// operator has to fix the data and restart.
const duplicateRowsHint = "existing rows violate a unique index added by this step; " +
	"remove the duplicates (for users: emails that differ only by case) and restart"

var stepFilePattern = regexp.MustCompile(`^(\d{6})_(\w+)\.up\.sql$`)

// Step is one additive, idempotent schema change.
type Step struct {
	Version uint
	Name    string
	SQL     string
}

var (
	stepsOnce   sync.Once
	cachedSteps []Step
	stepsErr    error
)

// Steps returns the embedded up steps ordered by version.
// The returned slice is a copy.
func Steps() ([]Step, error) {
	stepsOnce.Do(func() {
		cachedSteps, stepsErr = loadSteps()
	})
	if stepsErr != nil {
		return nil, stepsErr
	}
	out := make([]Step, len(cachedSteps))
	copy(out, cachedSteps)
	return out, nil
}

func loadSteps() ([]Step, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, oops.Code("MIGRATION_LIST_FAILED").With("operation", "read migrations dir").Wrap(err)
	}

	var steps []Step
	seen := make(map[uint]string)
	for _, entry := range entries {
		m := stepFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		v, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			return nil, oops.Code("MIGRATION_LIST_FAILED").With("file", entry.Name()).Wrap(err)
		}
		if prev, dup := seen[uint(v)]; dup {
			return nil, oops.Code("MIGRATION_LIST_FAILED").
				With("version", v).
				Errorf("duplicate migration version: %s and %s", prev, entry.Name())
		}
		seen[uint(v)] = entry.Name()

		body, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return nil, oops.Code("MIGRATION_READ_FAILED").With("file", entry.Name()).Wrap(err)
		}
		steps = append(steps, Step{Version: uint(v), Name: m[2], SQL: string(body)})
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].Version < steps[j].Version })
	return steps, nil
}

// MigrationName returns the NNNNNN_name label for version, or "" when no such
// step is embedded.
func MigrationName(version uint) (string, error) {
	steps, err := Steps()
	if err != nil {
		return "", err
	}
	for _, s := range steps {
		if s.Version == version {
			return fmt.Sprintf("%06d_%s", s.Version, s.Name), nil
		}
	}
	return "", nil
}

// Beginner starts transactions.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ApplySchema runs every step in order inside one transaction guarded by an
// advisory lock. Each step is safe to re-run, so this is called on every
// process start.
func ApplySchema(ctx context.Context, db Beginner) error {
	steps, err := Steps()
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return oops.Code("SCHEMA_STEP_FAILED").With("operation", "begin").Wrap(err)
	}

	if err := applySteps(ctx, tx, steps); err != nil {
		_ = tx.Rollback(ctx) //nolint:errcheck // step error takes precedence
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("SCHEMA_STEP_FAILED").With("operation", "commit").Wrap(err)
	}
	return nil
}

func applySteps(ctx context.Context, tx pgx.Tx, steps []Step) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", schemaLockKey); err != nil {
		return oops.Code("SCHEMA_STEP_FAILED").With("operation", "acquire schema lock").Wrap(err)
	}

	for _, s := range steps {
		if _, err := tx.Exec(ctx, s.SQL); err != nil {
			b := oops.Code("SCHEMA_STEP_FAILED").
				With("version", s.Version).
				With("step", s.Name)
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				b = b.With("constraint", pgErr.ConstraintName).
					Hint(duplicateRowsHint)
			}
			return b.Wrap(err)
		}
	}
	return nil
}
