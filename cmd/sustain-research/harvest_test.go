package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sustain-research/internal/harvest"
	"github.com/pdiddy/sustain-research/internal/search"
	"github.com/pdiddy/sustain-research/pkg/types"
)

// setHarvestFlags sets flags on harvestCmd and restores the defaults after the test.
func setHarvestFlags(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		f := harvestCmd.Flags().Lookup(k)
		require.NotNil(t, f, k)
		def := f.DefValue
		require.NoError(t, harvestCmd.Flags().Set(k, v))
		t.Cleanup(func() {
			harvestCmd.Flags().Set(k, def)
			f.Changed = false
		})
	}
}

func TestRunHarvest_FromResultsJSON(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "results.yaml")
	records := []types.PaperRecord{
		{Title: "CSRD Assurance", Summary: "Limited assurance.", Source: "arxiv"},
		{Title: "ESRS Taxonomy", Summary: types.NoAbstract, Source: "pubmed"},
	}
	require.NoError(t, search.WriteResultsFile(path, "CSRD", 5, search.Output{Records: records}))

	setHarvestFlags(t, map[string]string{"from-results": path, "json": "true"})
	var out bytes.Buffer
	harvestCmd.SetOut(&out)
	harvestCmd.SetContext(context.Background())
	t.Cleanup(func() { harvestCmd.SetOut(nil) })

	require.NoError(t, runHarvest(harvestCmd, nil))

	var got []types.PaperRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "CSRD Assurance", got[0].Title)
	assert.Equal(t, "pubmed", got[1].Source)
}

func TestConfigureStages(t *testing.T) {
	resetViper(t)
	t.Setenv("ANTHROPIC_API_KEY", "")
	dir := filepath.Join(t.TempDir(), "papers")
	viper.Set("harvest.output_dir", dir)

	h := &harvest.Harvester{}
	var out bytes.Buffer
	require.NoError(t, configureStages(harvestCmd, h, searchConfig(), &out))

	assert.Nil(t, h.Summarizer)
	require.NotNil(t, h.Downloader)
	assert.Equal(t, dir, h.Downloader.OutputDir)
	assert.DirExists(t, dir)
}

func TestConfigureStages_Disabled(t *testing.T) {
	resetViper(t)
	loadedSecrets = map[string]string{secretAnthropic: "key"}
	setHarvestFlags(t, map[string]string{"no-summarize": "true", "no-download": "true"})

	h := &harvest.Harvester{}
	require.NoError(t, configureStages(harvestCmd, h, searchConfig(), &bytes.Buffer{}))
	assert.Nil(t, h.Summarizer)
	assert.Nil(t, h.Downloader)
}
