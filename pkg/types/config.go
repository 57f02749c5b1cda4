package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout. Zero means no client timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sustain-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the paper search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Query is the free-text search query.
	Query string `json:"query" yaml:"query"`

	// MaxResults caps the number of results per source (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// EnableArxiv, EnablePubMed, EnableScholar and EnableOpenAlex select sources.
	EnableArxiv    bool `json:"enable_arxiv" yaml:"enable_arxiv"`
	EnablePubMed   bool `json:"enable_pubmed" yaml:"enable_pubmed"`
	EnableScholar  bool `json:"enable_scholar" yaml:"enable_scholar"`
	EnableOpenAlex bool `json:"enable_openalex" yaml:"enable_openalex"`

	// ScholarDelay is the fixed pause between Scholar detail requests (default 1s).
	ScholarDelay time.Duration `json:"scholar_delay" yaml:"scholar_delay"`

	// MaxRetries is the number of 429 retries for the Scholar source (default 0).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// PubMedAPIKey is an optional NCBI API key.
	PubMedAPIKey string `json:"pubmed_api_key,omitempty" yaml:"pubmed_api_key,omitempty"`

	// ScholarAPIKey is an optional Semantic Scholar API key.
	ScholarAPIKey string `json:"scholar_api_key,omitempty" yaml:"scholar_api_key,omitempty"`

	// OpenAlexEmail is sent as mailto for the OpenAlex polite pool.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`
}

// DownloadConfig holds settings for PDF downloads.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is where PDFs are written (default: working directory).
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// AIConfig holds shared settings for stages that call a hosted language model.
type AIConfig struct {
	// Model is the chat model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Temperature is the sampling temperature.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens caps the completion length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// EmbedderKind selects the embedding backend.
type EmbedderKind string

const (
	EmbedderGemini EmbedderKind = "gemini"
	EmbedderOpenAI EmbedderKind = "openai"
)

// EmbeddingConfig holds settings for the embedding backend.
type EmbeddingConfig struct {
	Kind    EmbedderKind  `json:"kind" yaml:"kind"`
	Model   string        `json:"model" yaml:"model"`
	APIKey  string        `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL string        `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ExtractorKind selects how PDF text is extracted.
type ExtractorKind string

const (
	ExtractorNative     ExtractorKind = "native"
	ExtractorMarkitdown ExtractorKind = "markitdown"
)

// AssistantConfig holds settings for the retrieval assistant.
type AssistantConfig struct {
	// DocsDir is the folder scanned for documents (default "ESRS").
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// IndexPath is the SQLite file backing the vector index.
	IndexPath string `json:"index_path" yaml:"index_path"`

	// TopK is the number of documents retrieved per query (default 5).
	TopK int `json:"top_k" yaml:"top_k"`

	// MaxContextChars caps the assembled context length (default 15000).
	MaxContextChars int `json:"max_context_chars" yaml:"max_context_chars"`

	// MaxPromptTokens is the token ceiling for the rendered prompt (default 8000).
	MaxPromptTokens int `json:"max_prompt_tokens" yaml:"max_prompt_tokens"`

	// Extractor selects the PDF text extractor.
	Extractor ExtractorKind `json:"extractor" yaml:"extractor"`

	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Chat      AIConfig        `json:"chat" yaml:"chat"`
}

// Defaults for the assistant. They match the values the original
// reporting assistant shipped with.
const (
	DefaultTopK            = 5
	DefaultMaxContextChars = 15000
	DefaultMaxPromptTokens = 8000
)
