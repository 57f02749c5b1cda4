package main

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sustain-research/internal/ingest"
	"github.com/pdiddy/sustain-research/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive reporting assistant",
	Long: heredoc.Doc(`
		Chat indexes the documents folder and opens a full-screen assistant.
		Each question is answered independently from the indexed documents; no
		conversation history is kept between questions. Press Esc or Ctrl+C to quit.
	`),
	RunE: runChat,
}

func init() {
	addAssistantFlags(chatCmd)
	chatCmd.Flags().Bool("skip-index", false, "use the existing index without re-indexing")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := cmd.Context()
	var summary ingest.Summary
	if skip, _ := cmd.Flags().GetBool("skip-index"); !skip {
		if summary, err = ws.ingest(ctx, os.Stderr); err != nil {
			return err
		}
	}

	a, err := ws.assistant(viper.GetString("assistant.tokenizer_cache"))
	if err != nil {
		return err
	}
	count, err := ws.index.Count(ctx)
	if err != nil {
		return err
	}
	return tui.Run(ctx, a, summaryLine(summary, count))
}
