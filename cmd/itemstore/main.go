/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/itemstore"
	"github.com/suparena/itemstore/config"
)

var rootCmd = &cobra.Command{
	Use:           "itemstore",
	Short:         "Resolve and provision item containers",
	Long:          `Resolve the storage configuration of declared item types and get or create their containers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := itemstore.GetVersionInfo()
		cmd.Printf("itemstore version %s\n", info.Version)
		cmd.Printf("Git commit: %s\n", info.GitCommit)
		cmd.Printf("Build date: %s\n", info.BuildDate)
		cmd.Printf("Go version: %s\n", info.GoVersion)
		for _, sdk := range info.Backends {
			cmd.Printf("Backend %s: %s %s\n", sdk.Backend, sdk.Module, sdk.Version)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringSlice("env-file", nil, "Environment files to load (default .env)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable development logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(resolveCmd)
}

// loadOptions reads the configuration named by the persistent flags.
func loadOptions(cmd *cobra.Command) (*config.Options, error) {
	path, _ := cmd.Flags().GetString("config")
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	return config.Load(path, envFiles...)
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
