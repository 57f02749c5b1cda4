package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sustain-research/internal/container"
	"github.com/pdiddy/sustain-research/internal/embed"
	"github.com/pdiddy/sustain-research/internal/extract"
	"github.com/pdiddy/sustain-research/internal/ingest"
	"github.com/pdiddy/sustain-research/internal/llm"
	"github.com/pdiddy/sustain-research/internal/rag"
	"github.com/pdiddy/sustain-research/internal/tokenizer"
	"github.com/pdiddy/sustain-research/internal/vectorindex"
	"github.com/pdiddy/sustain-research/pkg/types"
)

// assistantFlags maps the flags shared by index, ask and chat to config keys.
var assistantFlags = map[string]string{
	"docs-dir":        "assistant.docs_dir",
	"index-path":      "assistant.index_path",
	"extractor":       "assistant.extractor",
	"embedder":        "embedding.kind",
	"embedding-model": "embedding.model",
}

func addAssistantFlags(cmd *cobra.Command) {
	cmd.Flags().String("docs-dir", "ESRS", "folder of .pdf and .json documents")
	cmd.Flags().String("index-path", vectorindex.DefaultPath, "SQLite file backing the vector index")
	cmd.Flags().Bool("ephemeral", false, "keep the index in memory for this run only")
	cmd.Flags().String("extractor", string(types.ExtractorNative), "PDF text extractor (native, markitdown)")
	cmd.Flags().String("embedder", string(types.EmbedderGemini), "embedding backend (gemini, openai)")
	cmd.Flags().String("embedding-model", "", "embedding model (default depends on --embedder)")
}

// workspace holds the pieces every assistant command needs.
type workspace struct {
	cfg      types.AssistantConfig
	registry extract.Registry
	embedder embed.Embedder
	index    vectorindex.VectorIndex
}

// openWorkspace binds the shared flags and builds the extractor registry,
// the embedder and the vector index. Callers must Close the workspace.
func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	if err := bindFlags(cmd, assistantFlags); err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	cfg := assistantConfig()

	reg, err := buildRegistry(ctx, cfg.Extractor)
	if err != nil {
		return nil, err
	}

	e, err := embed.New(ctx, cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	idx, err := openIndex(cmd, cfg.IndexPath)
	if err != nil {
		return nil, err
	}
	return &workspace{cfg: cfg, registry: reg, embedder: e, index: idx}, nil
}

func buildRegistry(ctx context.Context, kind types.ExtractorKind) (extract.Registry, error) {
	switch kind {
	case "", types.ExtractorNative:
		return extract.NewRegistry(extract.PDF{}), nil
	case types.ExtractorMarkitdown:
		rt, err := container.Detect(ctx)
		if err != nil {
			return nil, err
		}
		md, err := extract.NewMarkitdown(ctx, rt)
		if err != nil {
			return nil, err
		}
		return extract.NewRegistry(md), nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (use native or markitdown)", kind)
	}
}

func openIndex(cmd *cobra.Command, path string) (vectorindex.VectorIndex, error) {
	if ephemeral, _ := cmd.Flags().GetBool("ephemeral"); ephemeral {
		return vectorindex.NewMemory(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	return vectorindex.OpenSQLite(path)
}

// ingest indexes the documents folder, writing progress to w.
func (ws *workspace) ingest(ctx context.Context, w io.Writer) (ingest.Summary, error) {
	return ingest.Run(ctx, ws.cfg.DocsDir, ws.registry, ws.embedder, ws.index, w)
}

// assistant builds the answer pipeline. The tokenizer and the chat client
// are created here so that a missing key or encoding aborts before any
// question is taken.
func (ws *workspace) assistant(cacheDir string) (*rag.Assistant, error) {
	tok, err := tokenizer.New(cacheDir)
	if err != nil {
		return nil, err
	}
	model, err := llm.New(ws.cfg.Chat, &http.Client{})
	if err != nil {
		return nil, fmt.Errorf("creating chat client: %w", err)
	}
	return &rag.Assistant{
		Embedder:        ws.embedder,
		Index:           ws.index,
		Model:           model,
		Tokens:          tok,
		TopK:            ws.cfg.TopK,
		MaxContextChars: ws.cfg.MaxContextChars,
		MaxPromptTokens: ws.cfg.MaxPromptTokens,
	}, nil
}

func (ws *workspace) Close() error {
	return ws.index.Close()
}

// summaryLine renders ingestion counts for display.
func summaryLine(s ingest.Summary, count int) string {
	line := fmt.Sprintf("%d documents loaded, %d indexed, %d in index", s.Loaded, s.Indexed, count)
	if s.HasFailures() {
		line += fmt.Sprintf(", %d failed", s.Failed)
	}
	return line
}
