// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate command and its subcommands.
func NewMigrateCmd() *cobra.Command {
	return newMigrateCmdWithDeps(nil)
}

func newMigrateCmdWithDeps(deps *MigrateDeps) *cobra.Command {
	if deps == nil {
		deps = &MigrateDeps{}
	}
	deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema versions",
		Long: `Apply or roll back versioned schema migrations. The same embedded SQL
files are applied idempotently by serve at startup; migrate records versions
so they can be inspected and rolled back.`,
	}

	var all bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration (or all with --all)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(deps, func(m Migrator) error {
				if all {
					if err := m.Down(); err != nil {
						return err
					}
					cmd.Println("Rolled back all migrations")
					return nil
				}
				if err := m.Steps(-1); err != nil {
					return err
				}
				cmd.Println("Rolled back one migration")
				return nil
			})
		},
	}
	down.Flags().BoolVar(&all, "all", false, "roll back every migration")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(deps, func(m Migrator) error {
					pending, err := m.Pending()
					if err != nil {
						return err
					}
					if len(pending) == 0 {
						cmd.Println("No pending migrations")
						return nil
					}
					if err := m.Up(); err != nil {
						return err
					}
					cmd.Printf("Applied %d migration(s)\n", len(pending))
					return nil
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Show the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(deps, func(m Migrator) error {
					v, dirty, err := m.Version()
					if err != nil {
						return err
					}
					switch {
					case v == 0:
						cmd.Println("No migrations applied")
					case dirty:
						cmd.Printf("Version %d (dirty)\n", v)
					default:
						cmd.Printf("Version %d\n", v)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(deps, func(m Migrator) error {
					applied, err := m.Applied()
					if err != nil {
						return err
					}
					pending, err := m.Pending()
					if err != nil {
						return err
					}
					cmd.Printf("Applied: %v\nPending: %v\n", applied, pending)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Set the recorded version without running migrations",
			Long:  `Clear a dirty state after a failed migration has been repaired by hand.`,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil || v < -1 {
					return oops.Code("MIGRATION_INVALID_VERSION").With("version", args[0]).Errorf("version must be an integer >= -1")
				}
				return withMigrator(deps, func(m Migrator) error {
					if err := m.Force(v); err != nil {
						return err
					}
					cmd.Printf("Forced version %d\n", v)
					return nil
				})
			},
		},
	)

	return cmd
}

func withMigrator(deps *MigrateDeps, fn func(Migrator) error) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	m, err := deps.MigratorFactory(cfg.DatabaseURL())
	if err != nil {
		return err
	}
	runErr := fn(m)
	closeErr := m.Close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return oops.Code("MIGRATION_CLOSE_FAILED").Wrap(closeErr)
	}
	return nil
}
