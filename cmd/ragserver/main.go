package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/storechat/ragengine"
	"github.com/storechat/ragengine/common/logger"
	"github.com/storechat/ragengine/config"
)

const version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
	)

	root := &cobra.Command{
		Use:     "ragserver",
		Short:   "Storefront RAG assistant server",
		Version: version,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, envFile)
			if err != nil {
				return err
			}
			engine, err := ragengine.NewEngine(cfg)
			if err != nil {
				return fmt.Errorf("create engine failed, err: %w", err)
			}
			defer engine.Close()
			return serveStdio(engine)
		},
	}
	serve.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	serve.Flags().StringVar(&envFile, "env-file", "", "path to .env file with credentials")

	root.AddCommand(serve)
	return root
}

// loadConfig reads the YAML config and layers credential env vars on top so
// API keys stay out of config files.
func loadConfig(path, envFile string) (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file failed, err: %w", err)
		}
	} else {
		// best effort: a .env next to the binary is optional
		_ = godotenv.Load()
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		logger.Warnf("no config file given, running with defaults")
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = key
		}
		if cfg.Embedding.APIKey == "" {
			cfg.Embedding.APIKey = key
		}
	}
	if key := os.Getenv("PLAN_API_KEY"); key != "" && cfg.Plan.APIKey == "" {
		cfg.Plan.APIKey = key
	}
	return cfg, nil
}
