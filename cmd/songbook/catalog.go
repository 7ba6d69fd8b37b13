package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/songbook/internal/app"
	"github.com/cesargomez89/songbook/internal/domain"
	"github.com/cesargomez89/songbook/internal/http/dto"
)

var (
	songsCategory  string
	searchCategory string
	remoteRefresh  bool
)

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import a category payload",
	Long: `Import replaces one category with the songs of an XML payload. The
category id is read from the payload. Use "-" to read from stdin.

Example:
  songbook import hymns.xml
  curl -s $URL | songbook import -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload(cmd, args[0])
		if err != nil {
			return err
		}
		result, err := services.Importer.ImportCategory(cmd.Context(), payload, progressPrinter(cmd))
		if err != nil {
			return err
		}
		return printImportResult(cmd, result)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <categoryId>",
	Short: "Download one category from the remote and import it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := services.Importer.UpdateCategory(cmd.Context(), args[0], progressPrinter(cmd))
		if err != nil {
			return err
		}
		return printImportResult(cmd, result)
	},
}

func printImportResult(cmd *cobra.Command, result *app.ImportResult) error {
	if jsonOutput {
		return printJSON(cmd, result)
	}
	if result.Skipped {
		fmt.Fprintln(cmd.OutOrStdout(), "Payload had no songs, nothing changed")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d songs into %s (replaced %d)\n",
		result.SongCount, result.CategoryID, result.Replaced)
	return nil
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List local categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, err := services.Queries.ListCategories(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, cats)
		}

		tw := newTable(cmd)
		fmt.Fprintln(tw, "ID\tNAME\tSONGS\tUPDATED")
		for _, c := range cats {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.ID, c.Name, c.SongCount, c.LastUpdated.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "List categories available on the remote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if remoteRefresh {
			if err := services.Importer.RefreshRemote(cmd.Context()); err != nil {
				return err
			}
		}

		catalog, err := services.Importer.RemoteCatalog(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, catalog)
		}

		tw := newTable(cmd)
		fmt.Fprintln(tw, "ID\tNAME\tFILE\tINSTALLED")
		for _, c := range catalog {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", c.ID, c.Name, c.File, c.Installed)
		}
		return tw.Flush()
	},
}

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "List songs sorted by name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		songs, err := services.Queries.ListSongs(cmd.Context(), songsCategory)
		if err != nil {
			return err
		}
		return printSongs(cmd, songs)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search song names",
	Long: `Search matches the query against both song names, ignoring case and
extra whitespace.

Example:
  songbook search "amazing grace"
  songbook search holy --category hymns`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		var (
			songs []domain.Song
			err   error
		)
		if searchCategory == "" {
			songs, err = services.Queries.SearchGlobal(cmd.Context(), query)
		} else {
			songs, err = services.Queries.SearchInCategory(cmd.Context(), searchCategory, query)
		}
		if err != nil {
			return err
		}
		return printSongs(cmd, songs)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <songId>",
	Short: "Print one song with its lyrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		song, err := services.Queries.GetByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if song == nil {
			return fmt.Errorf("song %q not found", args[0])
		}
		inSetlist, err := services.Setlist.Contains(cmd.Context(), song.ID)
		if err != nil {
			return err
		}
		if jsonOutput {
			resp := dto.NewSongResponse(song)
			resp.InSetlist = inSetlist
			return printJSON(cmd, resp)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, song.Name)
		if song.Name2 != "" {
			fmt.Fprintln(out, song.Name2)
		}
		if song.Key != "" {
			fmt.Fprintf(out, "Key: %s\n", song.Key)
		}
		if inSetlist {
			fmt.Fprintln(out, "In setlist")
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.TrimSpace(domain.RenderLyrics(song.Lyrics.PrimaryRaw)))
		if song.Lyrics.HasDual {
			fmt.Fprintln(out)
			fmt.Fprintln(out, strings.TrimSpace(domain.RenderLyrics(song.Lyrics.SecondaryRaw)))
		}
		return nil
	},
}

func init() {
	songsCmd.Flags().StringVar(&songsCategory, "category", "", "only list songs of this category")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "only search this category")
	remoteCmd.Flags().BoolVar(&remoteRefresh, "refresh", false, "refetch the remote index instead of using the cached copy")
}
