// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the standards-engine CLI.
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

// rootCmd is the base command for the standards-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "standards-engine",
	Short: "Extract structured accreditation-standard records from PDF reports",
	Long: `standards-engine parses accreditation standards reports (functional
area → standard → element → factor) into denormalized CSV rows, and can
index the extracted rows in a local SQLite database for querying.

Use parse-pdf for a single report, parse-dir for a directory of reports,
and the store/retrieve/export commands to work with the row index.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./standards-engine.yaml or ~/.config/standards-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("standards-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "standards-engine"))
		}
	}

	viper.SetEnvPrefix("STANDARDS_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("parse.source_label", "NCQA Health Plan Standards")
	viper.SetDefault("parse.workers", 0)
	viper.SetDefault("store.db_dir", "index")
	viper.SetDefault("store.max_results", 20)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
