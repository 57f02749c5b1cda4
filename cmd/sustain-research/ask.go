package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sustain-research/internal/rag"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question from the indexed documents",
	Long: heredoc.Doc(`
		Ask indexes the documents folder (unless --skip-index), retrieves the
		five documents most similar to the question, joins as many as fit in 15000
		characters and asks the chat model to answer from that context, citing GRI,
		SASB and TCFD where they apply.

		A prompt longer than 8000 tokens is rejected before the chat model is
		called.
	`),
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	addAssistantFlags(askCmd)
	askCmd.Flags().Bool("skip-index", false, "query the existing index without re-indexing")
	askCmd.Flags().Bool("show-sources", false, "list the retrieved documents after the answer")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := cmd.Context()
	if skip, _ := cmd.Flags().GetBool("skip-index"); !skip {
		if _, err := ws.ingest(ctx, os.Stderr); err != nil {
			return err
		}
	}

	a, err := ws.assistant(viper.GetString("assistant.tokenizer_cache"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ans, err := a.Answer(ctx, strings.Join(args, " "))
	if err != nil {
		var tooLong *rag.PromptTooLongError
		if errors.As(err, &tooLong) {
			fmt.Fprintln(out, tooLong.Error())
		} else {
			fmt.Fprintf(out, "An error occurred: %v\n", err)
		}
		return err
	}

	fmt.Fprintln(out, "### Answer")
	fmt.Fprintln(out, ans.Text)

	if show, _ := cmd.Flags().GetBool("show-sources"); show {
		fmt.Fprintf(out, "\nSources (%d of %d in context):\n", ans.Query.Included, len(ans.Sources))
		for _, h := range ans.Sources {
			fmt.Fprintf(out, "  %.4f  %s\n", h.Distance, h.ID)
		}
	}
	return nil
}
