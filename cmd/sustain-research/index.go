package main

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/pdiddy/sustain-research/internal/vectorindex"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the documents folder into the vector index",
	Long: heredoc.Doc(`
		Index reads every .pdf and .json file directly inside the documents
		folder, extracts its full text, embeds it as one vector and stores it in the
		vector index under its filename. Other files are ignored. Running index
		again replaces entries with the same filename; entries for files that were
		removed from the folder are kept.

		Use --export to print the stored entries as YAML after indexing.
	`),
	RunE: runIndex,
}

func init() {
	addAssistantFlags(indexCmd)
	indexCmd.Flags().Bool("export", false, "print the index contents as YAML after indexing")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := cmd.Context()
	summary, err := ws.ingest(ctx, os.Stderr)
	if err != nil {
		return err
	}

	if export, _ := cmd.Flags().GetBool("export"); export {
		db, ok := ws.index.(*vectorindex.SQLite)
		if !ok {
			return fmt.Errorf("--export needs a persistent index (drop --ephemeral)")
		}
		if err := db.ExportYAML(ctx, cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d of %d documents failed to index", summary.Failed, summary.Loaded)
	}
	return nil
}
