package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sustain-research/internal/download"
	"github.com/pdiddy/sustain-research/internal/harvest"
	"github.com/pdiddy/sustain-research/internal/llm"
	"github.com/pdiddy/sustain-research/internal/search"
	"github.com/pdiddy/sustain-research/internal/summarize"
	"github.com/pdiddy/sustain-research/pkg/types"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Search academic sources for sustainability reporting papers",
	Long: heredoc.Doc(`
		Harvest searches arXiv, PubMed and Semantic Scholar one after another
		for the query and prints every result. A source that fails prints an error
		and contributes no results; the others still run. Results are not
		deduplicated across sources.

		For each paper the abstract is summarized by the chat model when an
		Anthropic API key is configured, and the PDF is downloaded into the output
		directory when the source reports a link. Files are named after the paper
		title with spaces replaced by underscores.

		Use --from-results to reprocess a results file written by --results
		without searching again.
	`),
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().String("query", harvest.DefaultQuery, "free-text search query")
	harvestCmd.Flags().Int("max-results", 5, "maximum results per source")
	harvestCmd.Flags().StringSlice("sources", []string{"arxiv", "pubmed", "scholar"}, "sources to search (arxiv, pubmed, scholar, openalex)")
	harvestCmd.Flags().Bool("no-summarize", false, "skip abstract summarization")
	harvestCmd.Flags().Bool("no-download", false, "skip PDF downloads")
	harvestCmd.Flags().String("output-dir", ".", "directory for downloaded PDFs")
	harvestCmd.Flags().Int("max-retries", 0, "retries on HTTP 429 from Semantic Scholar")
	harvestCmd.Flags().Bool("json", false, "print the search results as JSON and exit")
	harvestCmd.Flags().Bool("csl", false, "print the search results as CSL YAML and exit")
	harvestCmd.Flags().String("results", "", "write the search results to this YAML file")
	harvestCmd.Flags().String("from-results", "", "process records from a results file instead of searching")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"query":       "harvest.query",
		"max-results": "harvest.max_results",
		"sources":     "harvest.sources",
		"output-dir":  "harvest.output_dir",
		"max-retries": "harvest.max_retries",
	}); err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	cfg := searchConfig()

	sources, err := buildSources(cfg)
	if err != nil {
		return err
	}
	h := &harvest.Harvester{
		Sources:          sources,
		SummaryMaxTokens: viper.GetInt("harvest.summary_max_tokens"),
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	asCSL, _ := cmd.Flags().GetBool("csl")
	resultsPath, _ := cmd.Flags().GetString("results")
	fromResults, _ := cmd.Flags().GetString("from-results")

	// Machine-readable output replaces processing; stdout carries only it.
	machine := asJSON || asCSL
	progress := out
	if machine {
		progress = os.Stderr
	} else if err := configureStages(cmd, h, cfg, out); err != nil {
		return err
	}

	var report harvest.Report
	if fromResults != "" {
		rf, err := search.ReadResultsFile(fromResults)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Loaded %d records for %q from %s\n", len(rf.Records), rf.Query, fromResults)
		report = harvest.Report{
			Search: search.Output{Records: rf.Records},
			Papers: h.Process(ctx, rf.Records, progress),
		}
	} else {
		report = h.Run(ctx, cfg.Query, cfg.MaxResults, progress)
		if n := len(report.Search.Errors); n > 0 {
			fmt.Fprintf(os.Stderr, "warning: %d of %d sources failed\n", n, len(sources))
		}
		if resultsPath != "" {
			if err := search.WriteResultsFile(resultsPath, cfg.Query, cfg.MaxResults, report.Search); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", len(report.Search.Records), resultsPath)
		}
	}

	switch {
	case asJSON:
		return search.FormatJSON(report.Search.Records, out)
	case asCSL:
		return search.FormatCSL(report.Search.Records, out)
	}

	if h.Downloader != nil {
		abs, _ := filepath.Abs(h.Downloader.OutputDir)
		fmt.Fprintf(os.Stderr, "\n%d papers, %d PDFs saved to %s\n", len(report.Papers), report.Downloaded(), abs)
	}
	return nil
}

// configureStages enables summarization and downloads on h according to
// flags, configuration and the available API key.
func configureStages(cmd *cobra.Command, h *harvest.Harvester, cfg types.SearchConfig, out io.Writer) error {
	if noSum, _ := cmd.Flags().GetBool("no-summarize"); !noSum && viper.GetBool("harvest.summarize") {
		model, err := llm.New(chatConfig(), &http.Client{})
		switch {
		case err == nil:
			h.Summarizer = &summarize.Summarizer{Model: model, Out: out}
		case errors.Is(err, llm.ErrNoAPIKey):
			fmt.Fprintf(os.Stderr, "warning: no %s configured, skipping summaries\n", secretAnthropic)
		default:
			return err
		}
	}

	if noDl, _ := cmd.Flags().GetBool("no-download"); !noDl && viper.GetBool("harvest.download") {
		dir := viper.GetString("harvest.output_dir")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		h.Downloader = &download.Downloader{
			Client:    &http.Client{Timeout: cfg.Timeout},
			UserAgent: cfg.UserAgent,
			OutputDir: dir,
			Out:       out,
		}
	}
	return nil
}
