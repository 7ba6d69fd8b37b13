package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/songbook/internal/domain"
)

func printJSON(cmd *cobra.Command, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}

func newTable(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
}

func printSongs(cmd *cobra.Command, songs []domain.Song) error {
	if jsonOutput {
		return printJSON(cmd, songs)
	}
	if len(songs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No songs found")
		return nil
	}

	tw := newTable(cmd)
	fmt.Fprintln(tw, "ID\tNAME\tNAME2\tKEY")
	for _, s := range songs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Name2, s.Key)
	}
	return tw.Flush()
}

// readPayload reads a file, or stdin when path is "-".
func readPayload(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// progressPrinter renders import progress on stderr unless JSON output is on.
func progressPrinter(cmd *cobra.Command) func(int) {
	if jsonOutput {
		return nil
	}
	return func(p int) {
		fmt.Fprintf(cmd.ErrOrStderr(), "\rImporting... %3d%%", p)
		if p == 100 {
			fmt.Fprintln(cmd.ErrOrStderr())
		}
	}
}
