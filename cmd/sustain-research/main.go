// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sustain-research CLI. The harvest
// command collects academic papers about sustainability reporting; index,
// ask and chat run the retrieval assistant over a local documents folder.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sustain-research/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ and .env at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret for key from
// the loaded secrets or the environment.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return secrets.Lookup(loadedSecrets, key)
}

// rootCmd is the base command for the sustain-research CLI.
var rootCmd = &cobra.Command{
	Use:   "sustain-research",
	Short: "Harvest sustainability reporting papers and query reporting documents",
	Long: heredoc.Doc(`
		sustain-research has two pipelines.

		The harvester searches arXiv, PubMed and Semantic Scholar for papers about
		sustainability reporting, prints each result, optionally asks a chat model
		for a short summary of the abstract and optionally downloads the PDF.

		The assistant indexes a folder of PDF and JSON reporting documents into a
		local vector index and answers questions about them with a chat model,
		grounded on the most similar documents.
	`),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.LoadAll(viper.GetString("secrets_dir"), viper.GetString("env_file"))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sustain-research.yaml or ~/.config/sustain-research/sustain-research.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of API key files")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file with API keys")
	viper.BindPFlag("secrets_dir", rootCmd.PersistentFlags().Lookup("secrets-dir"))
	viper.BindPFlag("env_file", rootCmd.PersistentFlags().Lookup("env-file"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sustain-research")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sustain-research"))
		}
	}

	viper.SetEnvPrefix("SUSTAIN_RESEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
