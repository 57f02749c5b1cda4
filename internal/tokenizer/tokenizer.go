// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tokenizer counts GPT-2 tokens. The count is used only to refuse
// prompts that are too long, so it does not need to match the chat model's
// own tokenizer exactly.
package tokenizer

import (
	"fmt"
	"os"

	"github.com/pkoukk/tiktoken-go"
)

// Encoding is the byte-pair encoding used by GPT-2.
const Encoding = "r50k_base"

// cacheEnv is read by tiktoken-go to locate downloaded BPE files.
const cacheEnv = "TIKTOKEN_CACHE_DIR"

// GPT2 counts tokens with the GPT-2 vocabulary.
type GPT2 struct {
	enc *tiktoken.Tiktoken
}

// New loads the GPT-2 encoding. The BPE ranks are downloaded on first use
// and cached in cacheDir when it is not empty.
func New(cacheDir string) (*GPT2, error) {
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating tokenizer cache: %w", err)
		}
		os.Setenv(cacheEnv, cacheDir)
	}
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("loading %s tokenizer: %w", Encoding, err)
	}
	return &GPT2{enc: enc}, nil
}

// CountTokens returns the number of tokens in text. Special-token text is
// counted as ordinary text.
func (g *GPT2) CountTokens(text string) int {
	return len(g.enc.Encode(text, nil, nil))
}
