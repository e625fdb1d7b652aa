// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the datrunner CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the datrunner CLI.
var rootCmd = &cobra.Command{
	Use:   "datrunner",
	Short: "Batch driver for DAT-file conversion",
	Long: `datrunner walks a directory of DAT files and runs an external converter
(dltool by default) once per file, creating one output directory per DAT
under the output root. Conversions run strictly one at a time.

Use run for a full pass, scan to preview the work without converting, and
history to inspect past runs when a ledger is configured.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./datrunner.yaml or ~/.config/datrunner/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("datrunner")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "datrunner"))
		}
	}

	viper.SetEnvPrefix("DATRUNNER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
