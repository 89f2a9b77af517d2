// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docbuild/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent builds recorded in the history database",
	Long: `History prints the runs recorded in the SQLite database configured by
--history (or the history key in docbuild.yaml), newest first. The log is
informational; it never affects which plots a build regenerates.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("history")
	if path == "" {
		return fmt.Errorf("no history database configured: pass --history or set history in docbuild.yaml")
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(cmd.OutOrStdout(), runs, jsonOutput, time.Now())
}

func formatHistory(w io.Writer, runs []history.Run, jsonOutput bool, now time.Time) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No builds recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-16s  %-10s  %-4s  %-6s  %-6s  %s\n",
		"ID", "Started", "Status", "Exit", "Plots", "Images", "Source -> Output")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range runs {
		fmt.Fprintf(w, "%-5d  %-16s  %-10s  %-4d  %-6d  %-6d  %s -> %s\n",
			r.ID, humanize.RelTime(r.StartedAt, now, "ago", "from now"), r.Status, r.ExitCode,
			r.Directives, r.Images, r.Source, r.Output)
		if r.Error != "" {
			fmt.Fprintf(w, "       %s\n", firstLine(r.Error))
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}
