// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command commitloom weaves staged changes into well-grouped commits with
// AI-generated messages.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	// Local overrides such as AWS_PROFILE live in .env; absence is fine.
	godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "commitloom",
		Short: "Weave staged changes into smart commits",
		Long:  "commitloom analyzes your staged files, groups related changes, and generates a conventional commit message for each group via an LLM.",
	}

	// Global flags.
	rootCmd.PersistentFlags().String("workdir", ".", "Repository root directory")
	rootCmd.PersistentFlags().String("model", "", "Bedrock model ID")
	rootCmd.PersistentFlags().String("region", "", "AWS region for Bedrock")
	rootCmd.PersistentFlags().String("profile", "", "AWS credential profile")
	rootCmd.PersistentFlags().Int("max-group-size", 5, "Maximum files per commit group")
	rootCmd.PersistentFlags().Int("small-group-threshold", 3, "Largest bucket committed as one group")
	rootCmd.PersistentFlags().Int("token-limit", 120000, "Diff token ceiling before warning")
	rootCmd.PersistentFlags().Bool("smart-grouping", true, "Group related files into separate commits")
	rootCmd.PersistentFlags().Int("max-tokens", 1000, "Maximum tokens for the AI response")
	rootCmd.PersistentFlags().String("cost-model", "gpt-4o-mini", "Pricing model for cost estimates")

	// Bind flags to viper.
	viper.BindPFlag("workdir", rootCmd.PersistentFlags().Lookup("workdir"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("max-group-size", rootCmd.PersistentFlags().Lookup("max-group-size"))
	viper.BindPFlag("small-group-threshold", rootCmd.PersistentFlags().Lookup("small-group-threshold"))
	viper.BindPFlag("token-limit", rootCmd.PersistentFlags().Lookup("token-limit"))
	viper.BindPFlag("smart-grouping", rootCmd.PersistentFlags().Lookup("smart-grouping"))
	viper.BindPFlag("max-tokens", rootCmd.PersistentFlags().Lookup("max-tokens"))
	viper.BindPFlag("cost-model", rootCmd.PersistentFlags().Lookup("cost-model"))

	// Env vars: COMMITLOOM_MODEL, COMMITLOOM_REGION, etc.
	viper.SetEnvPrefix("COMMITLOOM")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".commitloom")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print commitloom version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("commitloom %s\n", version)
		},
	}
}
