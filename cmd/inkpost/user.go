// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package main

import (
	"errors"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/auth"
	authpg "github.com/inkpost/inkpost/internal/auth/postgres"
	"github.com/inkpost/inkpost/internal/store"
)

// NewUserCmd creates the user command.
func NewUserCmd() *cobra.Command {
	return newUserCmdWithDeps(nil)
}

func newUserCmdWithDeps(deps *UserDeps) *cobra.Command {
	if deps == nil {
		deps = &UserDeps{}
	}
	deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage sign-in credentials",
	}

	var email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUserCreate(cmd, deps, email, password)
		},
	}
	create.Flags().StringVar(&email, "email", "", "email address (required)")
	create.Flags().StringVar(&password, "password", "", "password (required)")
	_ = create.MarkFlagRequired("email")    //nolint:errcheck // flag exists
	_ = create.MarkFlagRequired("password") //nolint:errcheck // flag exists

	cmd.AddCommand(create)
	return cmd
}

func runUserCreate(cmd *cobra.Command, deps *UserDeps, email, password string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	pool, err := deps.Opener(ctx, store.Options{
		URL:             cfg.DatabaseURL(),
		ConnectAttempts: cfg.Database.ConnectAttempts,
		ConnectBackoff:  cfg.Database.ConnectBackoff,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := store.ApplySchema(ctx, pool); err != nil {
		return err
	}

	svc, err := auth.NewService(authpg.NewCredentialRepository(pool), auth.NewMemoryRegistry(), deps.Hasher)
	if err != nil {
		return err
	}

	cred, err := svc.Register(ctx, email, password)
	if errors.Is(err, auth.ErrEmailTaken) {
		return oops.Code("USER_EXISTS").With("email", auth.NormalizeEmail(email)).Errorf("a user with that email already exists")
	}
	if err != nil {
		return err
	}

	cmd.Printf("Created user %s (id %d)\n", cred.Email, cred.ID)
	return nil
}
