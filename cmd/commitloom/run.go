// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gitpkg "github.com/petar-djukic/commitloom/internal/git"
	"github.com/petar-djukic/commitloom/internal/grouping"
	"github.com/petar-djukic/commitloom/pkg/loom"
)

// newRunCmd creates the "run" command.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Group staged changes and commit them",
		Long:  "Run reads the staging area, groups related files, generates a commit message per group, and creates the commits after confirmation.",
		RunE:  runLoom,
	}

	cmd.Flags().BoolP("yes", "y", false, "Commit without interactive confirmation")
	cmd.Flags().BoolP("combine", "c", false, "Merge all groups into a single commit")

	return cmd
}

// runLoom executes the commit workflow.
func runLoom(cmd *cobra.Command, args []string) error {
	autoConfirm, _ := cmd.Flags().GetBool("yes")
	combine, _ := cmd.Flags().GetBool("combine")

	cfg := loom.Config{
		WorkDir:             viper.GetString("workdir"),
		Model:               viper.GetString("model"),
		Region:              viper.GetString("region"),
		Profile:             viper.GetString("profile"),
		MaxGroupSize:        viper.GetInt("max-group-size"),
		SmallGroupThreshold: viper.GetInt("small-group-threshold"),
		TokenLimit:          viper.GetInt("token-limit"),
		MaxTokens:           viper.GetInt("max-tokens"),
		CostModel:           viper.GetString("cost-model"),
		NoGrouping:          !viper.GetBool("smart-grouping"),
		AutoConfirm:         autoConfirm,
		Combine:             combine,
	}

	l, err := loom.New(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	result, err := l.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if result != nil {
			printResult(result)
		}
		return err
	}

	printResult(result)
	return nil
}

// printResult outputs the result as JSON to stdout.
func printResult(result *loom.Result) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling result: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

// newPlanCmd creates the "plan" command, a dry run that prints the proposed
// groups without calling the AI or committing anything.
func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Preview the proposed commit groups",
		Long:  "Plan analyzes the staging area and prints how commitloom would group the files, without generating messages or committing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir := viper.GetString("workdir")

			repo, err := gitpkg.Open(gitpkg.Config{WorkDir: workDir})
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			files, err := repo.StagedFiles()
			if err != nil {
				return fmt.Errorf("reading staged files: %w", err)
			}
			if len(files) == 0 {
				return fmt.Errorf("no changes detected in the staging area")
			}

			grouper := grouping.NewGrouper(grouping.Config{
				MaxGroupSize:        viper.GetInt("max-group-size"),
				SmallGroupThreshold: viper.GetInt("small-group-threshold"),
				Source:              grouping.OSContentSource{Dir: workDir},
			})

			for i, group := range grouper.AnalyzeFiles(files) {
				fmt.Printf("Group %d:\n%s\n", i+1, grouping.GroupSummary(group))
			}
			return nil
		},
	}
}
