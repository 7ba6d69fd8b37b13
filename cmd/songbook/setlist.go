package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var setlistCmd = &cobra.Command{
	Use:   "setlist",
	Short: "Manage the setlist",
}

var setlistAddCmd = &cobra.Command{
	Use:   "add <songId>...",
	Short: "Append songs to the setlist",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			added, err := services.Setlist.Add(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !jsonOutput {
				if added {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already in the setlist\n", id)
				}
			}
		}
		if jsonOutput {
			return printSetlist(cmd)
		}
		return nil
	},
}

var setlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the setlist in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printSetlist(cmd)
	},
}

var setlistRemoveCmd = &cobra.Command{
	Use:   "remove <entryId>",
	Short: "Remove one setlist entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return services.Setlist.Remove(cmd.Context(), args[0])
	},
}

var setlistClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every setlist entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return services.Setlist.Clear(cmd.Context())
	},
}

var setlistExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the setlist song ids, one per line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := services.Setlist.Export(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, ids)
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var setlistImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Append song ids from a file written by export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readPayload(cmd, args[0])
		if err != nil {
			return err
		}

		var ids []string
		sc := bufio.NewScanner(strings.NewReader(string(data)))
		for sc.Scan() {
			if id := strings.TrimSpace(sc.Text()); id != "" {
				ids = append(ids, id)
			}
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read song ids: %w", err)
		}

		added, err := services.Setlist.Import(cmd.Context(), ids)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, map[string]int{"added": added})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d of %d songs\n", added, len(ids))
		return nil
	},
}

func printSetlist(cmd *cobra.Command) error {
	entries, err := services.Setlist.List(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Setlist is empty")
		return nil
	}

	tw := newTable(cmd)
	fmt.Fprintln(tw, "ORDER\tSONG\tNAME\tENTRY")
	for _, e := range entries {
		name := "(missing)"
		if song, err := services.Queries.GetByID(cmd.Context(), e.SongID); err == nil && song != nil {
			name = song.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Order, e.SongID, name, e.ID)
	}
	return tw.Flush()
}

func init() {
	setlistCmd.AddCommand(setlistAddCmd)
	setlistCmd.AddCommand(setlistListCmd)
	setlistCmd.AddCommand(setlistRemoveCmd)
	setlistCmd.AddCommand(setlistClearCmd)
	setlistCmd.AddCommand(setlistExportCmd)
	setlistCmd.AddCommand(setlistImportCmd)
}
