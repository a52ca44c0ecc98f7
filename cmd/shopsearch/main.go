// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the shopsearch CLI.
// See docs/ARCHITECTURE.md § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/shopsearch/internal/secrets"
	"github.com/pdiddy/shopsearch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the shopsearch CLI.
var rootCmd = &cobra.Command{
	Use:   "shopsearch",
	Short: "Conversational product search with ranking and result fusion",
	Long: `shopsearch runs a staged product-search pipeline: query planning,
multi-source retrieval with fusion, personalization, composite ranking,
business-rule adjustment, response generation, and a content guardrail pass.

Search runs a query end to end; catalog and profile manage the local SQLite
stores backing the keyword-fallback and personalization stages.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./shopsearch.yaml or ~/.config/shopsearch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("shopsearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "shopsearch"))
		}
	}

	viper.SetEnvPrefix("SHOPSEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig builds the pipeline configuration from defaults, the config
// file, environment, and loaded secrets, in increasing precedence.
func pipelineConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	cfg.MockResponses = viper.GetBool("mock_responses")
	cfg.Debug = viper.GetBool("debug")
	if v := viper.GetDuration("stage_timeout"); v > 0 {
		cfg.StageTimeout = v
	}

	if v := viper.GetString("ai.model"); v != "" {
		cfg.AI.Model = v
	}
	if viper.IsSet("ai.temperature") {
		cfg.AI.Temperature = viper.GetFloat64("ai.temperature")
	}
	if v := viper.GetInt("ai.max_retries"); v > 0 {
		cfg.AI.MaxRetries = v
	}
	cfg.AI.APIKey = secretDefault("openai-api-key", viper.GetString("ai.api_key"))

	if v := viper.GetString("retrieval.endpoint"); v != "" {
		cfg.Retrieval.Endpoint = v
	}
	cfg.Retrieval.Token = secretDefault("vector-api-token", viper.GetString("retrieval.token"))
	if v := viper.GetString("retrieval.collection"); v != "" {
		cfg.Retrieval.Collection = v
	}
	if v := viper.GetInt("retrieval.top_k"); v > 0 {
		cfg.Retrieval.TopK = v
	}
	if v := viper.GetInt("retrieval.vector_dimension"); v > 0 {
		cfg.Retrieval.VectorDimension = v
	}
	if v := viper.GetDuration("retrieval.timeout"); v > 0 {
		cfg.Retrieval.Timeout = v
	}

	if v := viper.GetString("catalog.db_path"); v != "" {
		cfg.Catalog.DBPath = v
	}
	if v := viper.GetString("profile.db_path"); v != "" {
		cfg.Profile.DBPath = v
	}

	if viper.IsSet("rules") {
		rules := cfg.Rules
		if err := viper.UnmarshalKey("rules", &rules); err == nil {
			cfg.Rules = rules
		}
	}

	return cfg
}

func httpTimeout(cfg types.PipelineConfig) time.Duration {
	if cfg.Retrieval.Timeout > 0 {
		return cfg.Retrieval.Timeout
	}
	return 10 * time.Second
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
