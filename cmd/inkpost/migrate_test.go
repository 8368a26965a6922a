// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/pkg/errutil"
)

type fakeMigrator struct {
	pending []uint
	applied []uint
	version uint
	dirty   bool
	upErr   error

	upCalls   int
	downCalls int
	steps     []int
	forced    []int
	closed    bool
}

func (f *fakeMigrator) Up() error                    { f.upCalls++; return f.upErr }
func (f *fakeMigrator) Down() error                  { f.downCalls++; return nil }
func (f *fakeMigrator) Steps(n int) error            { f.steps = append(f.steps, n); return nil }
func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, nil }
func (f *fakeMigrator) Force(v int) error            { f.forced = append(f.forced, v); return nil }
func (f *fakeMigrator) Pending() ([]uint, error)     { return f.pending, nil }
func (f *fakeMigrator) Applied() ([]uint, error)     { return f.applied, nil }
func (f *fakeMigrator) Close() error                 { f.closed = true; return nil }

func runMigrate(t *testing.T, m *fakeMigrator, args ...string) (string, error) {
	t.Helper()
	var gotURL string
	cmd := newMigrateCmdWithDeps(&MigrateDeps{
		MigratorFactory: func(url string) (Migrator, error) {
			gotURL = url
			return m, nil
		},
	})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		assert.Equal(t, "postgres://inkpost@localhost/inkpost", gotURL)
	}
	return buf.String(), err
}

func TestMigrate(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://inkpost@localhost/inkpost")

	t.Run("up applies pending", func(t *testing.T) {
		m := &fakeMigrator{pending: []uint{4, 5}}
		out, err := runMigrate(t, m, "up")
		require.NoError(t, err)
		assert.Equal(t, 1, m.upCalls)
		assert.Contains(t, out, "Applied 2 migration(s)")
		assert.True(t, m.closed)
	})

	t.Run("up with nothing pending", func(t *testing.T) {
		m := &fakeMigrator{}
		out, err := runMigrate(t, m, "up")
		require.NoError(t, err)
		assert.Zero(t, m.upCalls)
		assert.Contains(t, out, "No pending migrations")
	})

	t.Run("up failure still closes", func(t *testing.T) {
		m := &fakeMigrator{pending: []uint{1}, upErr: errors.New("dirty database version 3")}
		_, err := runMigrate(t, m, "up")
		require.Error(t, err)
		assert.True(t, m.closed)
	})

	t.Run("down rolls back one step", func(t *testing.T) {
		m := &fakeMigrator{}
		_, err := runMigrate(t, m, "down")
		require.NoError(t, err)
		assert.Equal(t, []int{-1}, m.steps)
		assert.Zero(t, m.downCalls)
	})

	t.Run("down --all", func(t *testing.T) {
		m := &fakeMigrator{}
		_, err := runMigrate(t, m, "down", "--all")
		require.NoError(t, err)
		assert.Equal(t, 1, m.downCalls)
	})

	t.Run("version", func(t *testing.T) {
		m := &fakeMigrator{version: 5, dirty: true}
		out, err := runMigrate(t, m, "version")
		require.NoError(t, err)
		assert.Contains(t, out, "Version 5 (dirty)")
	})

	t.Run("status", func(t *testing.T) {
		m := &fakeMigrator{applied: []uint{1, 2}, pending: []uint{3}}
		out, err := runMigrate(t, m, "status")
		require.NoError(t, err)
		assert.Contains(t, out, "Applied: [1 2]")
		assert.Contains(t, out, "Pending: [3]")
	})

	t.Run("force", func(t *testing.T) {
		m := &fakeMigrator{}
		_, err := runMigrate(t, m, "force", "3")
		require.NoError(t, err)
		assert.Equal(t, []int{3}, m.forced)
	})

	t.Run("force rejects garbage", func(t *testing.T) {
		m := &fakeMigrator{}
		_, err := runMigrate(t, m, "force", "three")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATION_INVALID_VERSION")
		assert.Empty(t, m.forced)
	})
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_URL_UNPOOLED", "")

	m := &fakeMigrator{}
	_, err := runMigrate(t, m, "up")

	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	assert.False(t, m.closed, "migrator is never created")
}
