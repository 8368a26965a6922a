// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/store"
	"github.com/inkpost/inkpost/pkg/errutil"
)

type fastHasher struct{}

func (fastHasher) Hash(password, _ string) (auth.Digest, error) {
	return auth.Digest{Salt: "salt", Hash: "hash:" + password}, nil
}

func (fastHasher) Verify(password, _, hash string) (bool, error) {
	return hash == "hash:"+password, nil
}

func newUserMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherFunc(func(expected, actual string) error {
		if strings.Contains(actual, expected) {
			return nil
		}
		return fmt.Errorf("sql %q does not contain %q", actual, expected)
	})))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	steps, err := store.Steps()
	require.NoError(t, err)
	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WithArgs(pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("SELECT", 1))
	for _, s := range steps {
		mock.ExpectExec(s.SQL).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	}
	mock.ExpectCommit()
	return mock
}

func runUser(t *testing.T, mock pgxmock.PgxPoolIface, args ...string) (string, error) {
	t.Helper()
	cmd := newUserCmdWithDeps(&UserDeps{
		Opener: func(context.Context, store.Options) (store.Pool, error) { return mock, nil },
		Hasher: fastHasher{},
	})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestUserCreate(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://inkpost@localhost/inkpost")

	mock := newUserMock(t)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("writer@example.com", "hash:pw-123", "salt").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))
	mock.ExpectClose()

	out, err := runUser(t, mock, "create", "--email", " Writer@Example.com ", "--password", "pw-123")

	require.NoError(t, err)
	assert.Contains(t, out, "Created user writer@example.com (id 7)")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate_Duplicate(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://inkpost@localhost/inkpost")

	mock := newUserMock(t)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("writer@example.com", "hash:pw-123", "salt").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := runUser(t, mock, "create", "--email", "writer@example.com", "--password", "pw-123")

	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "USER_EXISTS")
}

func TestUserCreate_RequiresFlags(t *testing.T) {
	_, err := runUser(t, nil, "create", "--email", "writer@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}
