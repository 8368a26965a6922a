// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Inkpost CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inkpost",
		Short: "Inkpost - a server-rendered blog",
		Long: `Inkpost is a server-rendered blog with password sign-in and a
protected dashboard, backed by PostgreSQL.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML, default $XDG_CONFIG_HOME/inkpost/config.yaml)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewUserCmd())

	return cmd
}

// loadConfig reads configuration from --config, or the XDG default file when
// the flag is unset, layered with fs and the environment.
func loadConfig(fs *pflag.FlagSet) (config.Config, error) {
	path, err := xdg.ResolveConfigFile(configFile)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path, fs)
}
