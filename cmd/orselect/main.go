package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/orselect/orselect"
	"github.com/orselect/orselect/internal/config"
	"github.com/orselect/orselect/internal/httpclient"
	"github.com/orselect/orselect/internal/respcache"
)

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orselect",
		Short: "Select OpenRouter models by requirements",
		Long:  "Fetches the OpenRouter model catalog and selects the models best matching cost, context, feature, and modality requirements.",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	rootCmd.AddCommand(
		selectCmd(),
		listCmd(),
		configCmd(),
	)

	return rootCmd
}

func selectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select models matching the given requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(false)
			if err != nil {
				return err
			}

			maxCost, _ := cmd.Flags().GetFloat64("max-cost")
			minContext, _ := cmd.Flags().GetInt("min-context")
			features, _ := cmd.Flags().GetString("features")
			inputMods, _ := cmd.Flags().GetString("input-mods")
			outputMods, _ := cmd.Flags().GetString("output-mods")
			preferUnmoderated, _ := cmd.Flags().GetBool("prefer-unmoderated")
			limit, _ := cmd.Flags().GetInt("limit")
			noAuto, _ := cmd.Flags().GetBool("no-auto")
			nameFilter, _ := cmd.Flags().GetString("name-filter")
			output, _ := cmd.Flags().GetString("output")

			req := &orselect.Requirements{
				RequiredFeatures:  splitCSV(features),
				InputModalities:   splitCSV(inputMods),
				OutputModalities:  splitCSV(outputMods),
				PreferUnmoderated: preferUnmoderated,
			}
			// Flag value 0 means "no bound" for both numeric flags.
			if maxCost > 0 {
				req.MaxCostPerToken = orselect.Float(maxCost)
			}
			if minContext > 0 {
				req.MinContextLength = orselect.Int(minContext)
			}
			if noAuto {
				req.ExcludeModels = []string{"openrouter/auto"}
			}

			models, err := client.SelectModels(cmd.Context(), req, limit)
			if err != nil {
				return err
			}
			models = filterByName(models, nameFilter)

			if len(models) == 0 && (output == "text" || output == "brief") {
				fmt.Println("No model found matching the requirements")
				return nil
			}
			return render(models, output)
		},
	}

	cmd.Flags().Float64("max-cost", 0, "Maximum prompt cost per token (0 for no limit)")
	cmd.Flags().Int("min-context", 8000, "Minimum context length required (0 for no limit)")
	cmd.Flags().String("features", "", "Comma-separated list of required features")
	cmd.Flags().String("input-mods", "text", "Comma-separated list of required input modalities")
	cmd.Flags().String("output-mods", "text", "Comma-separated list of required output modalities")
	cmd.Flags().Bool("prefer-unmoderated", false, "Rank unmoderated models first")
	cmd.Flags().Int("limit", 10, "Maximum number of models to return (0 for all)")
	cmd.Flags().Bool("no-auto", true, "Exclude the openrouter/auto router model")
	cmd.Flags().String("name-filter", "", "Keep only models whose name contains this string")
	cmd.Flags().String("output", "text", "Output format (text, brief, json, yaml)")

	return cmd
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the full model catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			refresh, _ := cmd.Flags().GetBool("refresh")
			nameFilter, _ := cmd.Flags().GetString("name-filter")
			output, _ := cmd.Flags().GetString("output")

			client, err := buildClient(refresh)
			if err != nil {
				return err
			}

			models, err := client.FetchModels(cmd.Context(), refresh)
			if err != nil {
				return err
			}
			models = filterByName(models, nameFilter)

			if err := render(models, output); err != nil {
				return err
			}
			if snap := client.Snapshot(); snap != nil && (output == "text" || output == "brief") {
				fmt.Printf("\nTotal: %d models (captured %s)\n",
					len(models), snap.FetchedAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().Bool("refresh", false, "Evict the cached catalog response and refetch from upstream")
	cmd.Flags().String("name-filter", "", "Keep only models whose name contains this string")
	cmd.Flags().String("output", "brief", "Output format (text, brief, json, yaml)")

	return cmd
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			// The credential is reported by presence only.
			resolved := struct {
				APIKey    string  `yaml:"api_key"`
				BaseURL   string  `yaml:"base_url"`
				CacheDir  string  `yaml:"cache_dir"`
				CacheTTL  string  `yaml:"cache_ttl"`
				NoCache   bool    `yaml:"no_cache"`
				RateLimit float64 `yaml:"rate_limit"`
				LogLevel  string  `yaml:"log_level"`
			}{
				APIKey:    maskKey(cfg.APIKey),
				BaseURL:   cfg.BaseURL,
				CacheDir:  cfg.CacheDir,
				CacheTTL:  cfg.CacheTTL,
				NoCache:   cfg.NoCache,
				RateLimit: cfg.RateLimit,
				LogLevel:  cfg.LogLevel,
			}

			data, err := yaml.Marshal(resolved)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func maskKey(key string) string {
	if key == "" {
		return "(unset)"
	}
	return "(set)"
}

// buildClient assembles the client from config. refreshCatalog evicts the
// cached catalog response first, so the next fetch reaches the upstream
// and re-primes the cache.
func buildClient(refreshCatalog bool) (*orselect.Client, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	setupLogging(cfg.LogLevel)

	opts := []httpclient.Option{
		httpclient.WithRateLimit(cfg.RateLimit),
		httpclient.WithHTTPClient(orselect.BearerHTTPClient(cfg.APIKey, nil)),
	}
	if cfg.NoCache {
		opts = append(opts, httpclient.WithNoCache())
	} else {
		ttl, err := time.ParseDuration(cfg.CacheTTL)
		if err != nil {
			ttl = time.Hour
		}
		store, err := respcache.New(cfg.CacheDir, ttl)
		if err != nil {
			slog.Warn("failed to create response cache, continuing without", "error", err)
		} else {
			if refreshCatalog {
				store.Remove(cfg.BaseURL + "/models")
			}
			opts = append(opts, httpclient.WithCache(store))
		}
	}

	client := orselect.New(
		orselect.WithAPIKey(cfg.APIKey),
		orselect.WithBaseURL(cfg.BaseURL),
		orselect.WithTransport(httpclient.New(opts...)),
	)
	return client, nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func filterByName(models []orselect.Model, filter string) []orselect.Model {
	if filter == "" {
		return models
	}
	needle := strings.ToLower(filter)
	var out []orselect.Model
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.Name), needle) {
			out = append(out, m)
		}
	}
	return out
}

func render(models []orselect.Model, output string) error {
	switch output {
	case "json":
		data, err := json.MarshalIndent(models, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(models)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	case "brief":
		for i, m := range models {
			fmt.Printf("%d. %s (ID: %s)\n", i+1, m.Name, m.ID)
		}
	default: // text
		for i, m := range models {
			fmt.Printf("%d. %s (ID: %s)\n", i+1, m.Name, m.ID)
			fmt.Printf("  - Context length: %d\n", m.ContextLength)
			fmt.Printf("  - Pricing: %g per prompt token, %g per completion token\n",
				m.Pricing.PromptCostPerToken, m.Pricing.CompletionCostPerToken)
			fmt.Printf("  - Supported parameters: %s\n", strings.Join(m.SupportedParams, ", "))
		}
	}
	return nil
}
