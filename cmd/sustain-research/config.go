// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sustain-research/internal/harvest"
	"github.com/pdiddy/sustain-research/internal/search"
	"github.com/pdiddy/sustain-research/internal/vectorindex"
	"github.com/pdiddy/sustain-research/pkg/types"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "sustain-research/0.1"
)

// Secret names looked up in .secrets/, .env and the environment.
const (
	secretAnthropic = "anthropic-api-key"
	secretGemini    = "gemini-api-key"
	secretOpenAI    = "openai-api-key"
	secretScholar   = "semantic-scholar-api-key"
	secretPubMed    = "pubmed-api-key"
	secretOpenAlex  = "openalex-email"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", defaultTimeout)
	v.SetDefault("http.user_agent", defaultUserAgent)

	v.SetDefault("harvest.query", harvest.DefaultQuery)
	v.SetDefault("harvest.max_results", 5)
	v.SetDefault("harvest.sources", []string{"arxiv", "pubmed", "scholar"})
	v.SetDefault("harvest.summarize", true)
	v.SetDefault("harvest.download", true)
	v.SetDefault("harvest.output_dir", ".")
	v.SetDefault("harvest.scholar_delay", time.Second)
	v.SetDefault("harvest.max_retries", 0)
	v.SetDefault("harvest.summary_max_tokens", 150)

	v.SetDefault("chat.model", "")

	v.SetDefault("embedding.kind", string(types.EmbedderGemini))
	v.SetDefault("embedding.timeout", 60*time.Second)

	v.SetDefault("assistant.docs_dir", "ESRS")
	v.SetDefault("assistant.index_path", vectorindex.DefaultPath)
	v.SetDefault("assistant.top_k", types.DefaultTopK)
	v.SetDefault("assistant.max_context_chars", types.DefaultMaxContextChars)
	v.SetDefault("assistant.max_prompt_tokens", types.DefaultMaxPromptTokens)
	v.SetDefault("assistant.extractor", string(types.ExtractorNative))
	v.SetDefault("assistant.tokenizer_cache", ".vectordb/tiktoken")
}

// bindFlags binds the named flags of cmd to viper keys. Binding happens
// when a command runs because several commands share flag names.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flag)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

func httpConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
}

func searchConfig() types.SearchConfig {
	cfg := types.SearchConfig{
		HTTPConfig:    httpConfig(),
		Query:         viper.GetString("harvest.query"),
		MaxResults:    viper.GetInt("harvest.max_results"),
		ScholarDelay:  viper.GetDuration("harvest.scholar_delay"),
		MaxRetries:    viper.GetInt("harvest.max_retries"),
		PubMedAPIKey:  secretDefault(secretPubMed, viper.GetString("harvest.pubmed_api_key")),
		ScholarAPIKey: secretDefault(secretScholar, viper.GetString("harvest.scholar_api_key")),
		OpenAlexEmail: secretDefault(secretOpenAlex, viper.GetString("harvest.openalex_email")),
	}
	for _, s := range viper.GetStringSlice("harvest.sources") {
		for _, name := range strings.Split(s, ",") {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "arxiv":
				cfg.EnableArxiv = true
			case "pubmed":
				cfg.EnablePubMed = true
			case "scholar", "semanticscholar":
				cfg.EnableScholar = true
			case "openalex":
				cfg.EnableOpenAlex = true
			}
		}
	}
	return cfg
}

// buildSources returns the enabled sources in harvest order. Scholar and
// chat requests carry no client timeout; the others use cfg.Timeout.
func buildSources(cfg types.SearchConfig) ([]search.Searchable, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	untimed := &http.Client{}

	var sources []search.Searchable
	if cfg.EnableArxiv {
		sources = append(sources, &search.Arxiv{Client: client, UserAgent: cfg.UserAgent})
	}
	if cfg.EnablePubMed {
		sources = append(sources, &search.PubMed{Client: client, UserAgent: cfg.UserAgent, APIKey: cfg.PubMedAPIKey})
	}
	if cfg.EnableScholar {
		sources = append(sources, &search.Scholar{
			Client:     untimed,
			UserAgent:  cfg.UserAgent,
			APIKey:     cfg.ScholarAPIKey,
			Delay:      cfg.ScholarDelay,
			MaxRetries: cfg.MaxRetries,
		})
	}
	if cfg.EnableOpenAlex {
		sources = append(sources, &search.OpenAlex{Client: client, UserAgent: cfg.UserAgent, Email: cfg.OpenAlexEmail})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no search sources enabled (use --sources arxiv,pubmed,scholar,openalex)")
	}
	return sources, nil
}

func chatConfig() types.AIConfig {
	return types.AIConfig{
		Model:   viper.GetString("chat.model"),
		APIKey:  secretDefault(secretAnthropic, viper.GetString("chat.api_key")),
		BaseURL: viper.GetString("chat.base_url"),
	}
}

func embeddingConfig() types.EmbeddingConfig {
	kind := types.EmbedderKind(viper.GetString("embedding.kind"))
	secret := secretGemini
	if kind == types.EmbedderOpenAI {
		secret = secretOpenAI
	}
	return types.EmbeddingConfig{
		Kind:    kind,
		Model:   viper.GetString("embedding.model"),
		APIKey:  secretDefault(secret, viper.GetString("embedding.api_key")),
		BaseURL: viper.GetString("embedding.base_url"),
		Timeout: viper.GetDuration("embedding.timeout"),
	}
}

func assistantConfig() types.AssistantConfig {
	return types.AssistantConfig{
		DocsDir:         viper.GetString("assistant.docs_dir"),
		IndexPath:       viper.GetString("assistant.index_path"),
		TopK:            viper.GetInt("assistant.top_k"),
		MaxContextChars: viper.GetInt("assistant.max_context_chars"),
		MaxPromptTokens: viper.GetInt("assistant.max_prompt_tokens"),
		Extractor:       types.ExtractorKind(viper.GetString("assistant.extractor")),
		Embedding:       embeddingConfig(),
		Chat:            chatConfig(),
	}
}
