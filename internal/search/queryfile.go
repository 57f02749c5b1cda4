// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sustain-research/pkg/types"
)

// ResultsFile is the on-disk representation of a harvest run. A saved run
// can be reprocessed (summaries, downloads) without re-querying the APIs.
type ResultsFile struct {
	Query      string              `yaml:"query"`
	MaxResults int                 `yaml:"max_results"`
	Records    []types.PaperRecord `yaml:"records"`
	Summary    ResultsSummary      `yaml:"summary"`
}

// ResultsSummary stores result statistics and a timestamp.
type ResultsSummary struct {
	Total        int       `yaml:"total"`
	SourceErrors []string  `yaml:"source_errors,omitempty"`
	Timestamp    time.Time `yaml:"timestamp"`
}

// WriteResultsFile saves a run's query and records to a YAML file.
func WriteResultsFile(path, query string, maxResults int, out Output) error {
	rf := ResultsFile{
		Query:      query,
		MaxResults: maxResults,
		Records:    out.Records,
		Summary: ResultsSummary{
			Total:     len(out.Records),
			Timestamp: time.Now().UTC(),
		},
	}
	for _, e := range out.Errors {
		rf.Summary.SourceErrors = append(rf.Summary.SourceErrors, e.Error())
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling results file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultsFile loads a previously saved results file from disk.
func ReadResultsFile(path string) (*ResultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	var rf ResultsFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing results file: %w", err)
	}
	return &rf, nil
}
