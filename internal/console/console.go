// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package console renders user-facing output: colored status lines, file
// and usage tables, and interactive confirmation prompts.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/petar-djukic/commitloom/internal/analyzer"
	"github.com/petar-djukic/commitloom/pkg/types"
)

// Console writes formatted output and reads interactive answers. Output and
// input are injectable so tests can capture prints and script prompts.
type Console struct {
	out io.Writer
	in  *bufio.Reader
}

// New returns a console bound to stdout and stdin.
func New() *Console {
	return NewWithIO(color.Output, os.Stdin)
}

// NewWithIO returns a console with explicit output and input streams.
func NewWithIO(out io.Writer, in io.Reader) *Console {
	return &Console{out: out, in: bufio.NewReader(in)}
}

// Info prints an informational status line.
func (c *Console) Info(format string, args ...any) {
	color.New(color.FgBlue, color.Bold).Fprintf(c.out, "\nℹ️ "+format+"\n", args...)
}

// Success prints a success status line.
func (c *Console) Success(format string, args ...any) {
	color.New(color.FgGreen, color.Bold).Fprintf(c.out, "\n✅ "+format+"\n", args...)
}

// Warning prints a warning status line.
func (c *Console) Warning(format string, args ...any) {
	color.New(color.FgYellow, color.Bold).Fprintf(c.out, "\n⚠️ "+format+"\n", args...)
}

// Error prints an error status line.
func (c *Console) Error(format string, args ...any) {
	color.New(color.FgRed, color.Bold).Fprintf(c.out, "\n❌ "+format+"\n", args...)
}

// ChangedFiles prints the staged files as a table with sizes.
func (c *Console) ChangedFiles(files []types.GitFile) {
	color.New(color.FgBlue, color.Bold).Fprintf(c.out, "\n📜 Changes detected in the following files:\n")

	tbl := table.NewWriter()
	tbl.SetOutputMirror(c.out)
	tbl.AppendHeader(table.Row{"File", "Size", "Type"})
	for _, f := range files {
		kind := "text"
		if f.Binary {
			kind = "binary"
		}
		size := "-"
		if f.Size > 0 {
			size = humanize.Bytes(uint64(f.Size))
		}
		tbl.AppendRow(table.Row{f.Path, size, kind})
	}
	tbl.Render()
}

// AnalysisWarnings prints commit size warnings and the commit statistics
// block. Nothing is printed when the analysis raised no warnings.
func (c *Console) AnalysisWarnings(analysis *analyzer.CommitAnalysis) {
	if len(analysis.Warnings) == 0 {
		return
	}

	color.New(color.FgYellow, color.Bold).Fprintf(c.out, "\n⚠️ Commit Size Warnings:\n")
	for _, w := range analysis.Warnings {
		icon := "🟡"
		if w.Level == analyzer.LevelHigh {
			icon = "🔴"
		}
		fmt.Fprintf(c.out, "%s %s\n", icon, w.Message)
	}

	color.New(color.FgCyan).Fprintf(c.out, "\n📊 Commit Statistics:\n")
	fmt.Fprintf(c.out, "  • Estimated tokens: %s\n", humanize.Comma(int64(analysis.EstimatedTokens)))
	fmt.Fprintf(c.out, "  • Estimated cost: €%.4f\n", analysis.EstimatedCost)
	fmt.Fprintf(c.out, "  • Files changed: %d\n", analysis.NumFiles)
}

// GroupPlan prints the grouping engine's proposal, one block per group.
func (c *Console) GroupPlan(groups []types.FileGroup) {
	color.New(color.FgBlue, color.Bold).Fprintf(c.out, "\n🔄 Proposed commit groups:\n")
	for i, g := range groups {
		fmt.Fprintf(c.out, "\nGroup %d: %s changes\n", i+1, g.ChangeType)
		fmt.Fprintf(c.out, "  Reason: %s (confidence %.0f%%)\n", g.Reason, g.Confidence*100)
		for _, path := range g.Paths() {
			color.New(color.FgCyan).Fprintf(c.out, "  - %s\n", path)
		}
		if len(g.Dependencies) > 0 {
			fmt.Fprintf(c.out, "  Depends on: %s\n", strings.Join(g.Dependencies, ", "))
		}
	}
}

// BatchStart announces a batch and lists its files.
func (c *Console) BatchStart(batchNum, totalBatches int, files []types.GitFile) {
	color.New(color.FgBlue, color.Bold).Fprintf(c.out, "\n📦 Processing Batch %d/%d\n", batchNum, totalBatches)
	color.New(color.FgCyan).Fprintf(c.out, "Files in this batch:\n")
	for _, f := range files {
		fmt.Fprintf(c.out, "  - %s\n", f.Path)
	}
}

// BatchComplete announces successful completion of a batch.
func (c *Console) BatchComplete(batchNum, totalBatches int) {
	color.New(color.FgGreen, color.Bold).Fprintf(c.out, "\n✅ Batch %d/%d completed successfully\n", batchNum, totalBatches)
}

// TokenUsage prints the token and cost summary for one AI call.
func (c *Console) TokenUsage(usage types.TokenUsage, batchNum int) {
	header := "📊 Token Usage Summary"
	if batchNum > 0 {
		header = fmt.Sprintf("%s (Batch %d)", header, batchNum)
	}
	color.New(color.FgCyan, color.Bold).Fprintf(c.out, "\n%s:\n", header)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(c.out)
	tbl.AppendRow(table.Row{"Prompt Tokens", humanize.Comma(int64(usage.InputTokens))})
	tbl.AppendRow(table.Row{"Completion Tokens", humanize.Comma(int64(usage.OutputTokens))})
	tbl.AppendRow(table.Row{"Total Tokens", humanize.Comma(int64(usage.TotalTokens()))})
	tbl.AppendRow(table.Row{"Input Cost", fmt.Sprintf("€%.8f", usage.InputCost)})
	tbl.AppendRow(table.Row{"Output Cost", fmt.Sprintf("€%.8f", usage.OutputCost)})
	tbl.AppendRow(table.Row{"Total Cost", fmt.Sprintf("€%.8f", usage.TotalCost())})
	tbl.Render()
}

// CommitPreview prints the proposed commit message inside a rule-delimited
// block.
func (c *Console) CommitPreview(message string) {
	rule := strings.Repeat("─", 60)
	color.New(color.FgGreen).Fprintf(c.out, "\n%s\n", rule)
	fmt.Fprintf(c.out, "%s\n", message)
	color.New(color.FgGreen).Fprintf(c.out, "%s\n", rule)
}

// Confirm asks a yes/no question and returns true for a "y"/"yes" answer.
func (c *Console) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "\n%s [y/N]: ", prompt)
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// SelectStrategy asks how multiple groups should be committed and returns
// "individual" or "combined". Anything but "combined" selects individual
// commits.
func (c *Console) SelectStrategy() string {
	color.New(color.FgBlue, color.Bold).Fprintf(c.out, "\n🤔 How would you like to handle the commits?\n")
	fmt.Fprintf(c.out, "Choose strategy [individual/combined] (individual): ")
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return "individual"
	}
	if strings.ToLower(strings.TrimSpace(answer)) == "combined" {
		return "combined"
	}
	return "individual"
}
