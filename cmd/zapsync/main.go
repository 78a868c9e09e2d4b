package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jediamps/ZapSync/internal/classifier"
	"github.com/jediamps/ZapSync/internal/config"
	"github.com/jediamps/ZapSync/internal/engine"
	"github.com/jediamps/ZapSync/internal/extract"
	"github.com/jediamps/ZapSync/internal/fetch"
	"github.com/jediamps/ZapSync/internal/server"
	"github.com/jediamps/ZapSync/internal/spinner"
)

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig merges the config file with command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("artifact") {
		cfg.ArtifactPath, _ = cmd.Flags().GetString("artifact")
	}
	if cmd.Flags().Changed("remote") {
		cfg.RemoteURL, _ = cmd.Flags().GetString("remote")
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold, _ = cmd.Flags().GetFloat64("threshold")
	}

	// environment wins for the service URL so hosted deployments can point
	// at their classifier without editing config files
	if url := os.Getenv("ZAPSYNC_CLASSIFIER_URL"); url != "" && !cmd.Flags().Changed("remote") {
		cfg.RemoteURL = url
	}

	return cfg, nil
}

// buildEngine constructs the classifier capability and the engine around it.
// Construction fails fast when the artifact is missing or malformed.
func buildEngine(cfg config.Config) (*engine.Engine, error) {
	var capability classifier.Capability
	if cfg.RemoteURL != "" {
		capability = classifier.NewRemote(cfg.RemoteURL, cfg.ScorerTimeout())
	} else {
		local, err := classifier.NewLocalFromFile(cfg.ArtifactPath)
		if err != nil {
			return nil, err
		}
		capability = local
	}

	return engine.New(capability, engine.Options{
		Threshold: cfg.Threshold,
		Limits: extract.Limits{
			MaxDepth:        cfg.MaxDepth,
			MaxArchiveBytes: cfg.MaxArchiveBytes,
		},
		ScorerTimeout: cfg.ScorerTimeout(),
		TopKeywords:   cfg.TopKeywords,
	}), nil
}

// declaredName derives the name used for extension dispatch from a source.
func declaredName(source string) string {
	if source == "-" {
		return "stdin.txt"
	}
	return filepath.Base(source)
}

var rootCmd = &cobra.Command{
	Use:   "zapsync",
	Short: "Content classification engine for uploads and search queries",
	Long: `ZapSync classifies content before it is accepted: uploaded files are
extracted, scored word by word against the trained profanity model, and
accepted or rejected; search queries are parsed into structured entities and
an intent category.

Examples:
  zapsync moderate notes.pdf
  zapsync query "Dr Partey lecture notes week 5"
  zapsync serve`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(debug)
	},
}

var moderateCmd = &cobra.Command{
	Use:   "moderate [source]",
	Short: "Analyze a file for objectionable content",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		source := "-"
		if len(args) > 0 {
			source = args[0]
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		data, err := fetch.GetContent(ctx, source)
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		var sp *spinner.Spinner
		if !quiet {
			sp = spinner.New(ctx, os.Stderr, "Analyzing content...")
			sp.Start()
		}
		verdict, err := eng.Moderate(ctx, declaredName(source), data)
		if sp != nil {
			sp.Stop()
		}
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return printJSON(verdict)
		}

		fmt.Printf("words analyzed: %d\n", verdict.WordsAnalyzed)
		fmt.Printf("flagged words:  %d\n", verdict.TotalFlagged)
		if verdict.MostOffensive != nil {
			fmt.Printf("most offensive: %q (%.2f)\n",
				verdict.MostOffensive.Word, verdict.MostOffensive.Confidence)
		}
		if verdict.ShouldReject {
			fmt.Println("verdict: REJECT")
		} else {
			fmt.Println("verdict: accept")
		}
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Extract entities and intent from a search query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		verdict, err := eng.UnderstandQuery(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return printJSON(verdict)
		}

		fmt.Printf("category:   %s (%.2f)\n", verdict.Category, verdict.Confidence)
		for name, values := range verdict.Filters {
			if name == "category" {
				continue
			}
			fmt.Printf("%-10s  %s\n", name+":", strings.Join(values, ", "))
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the classification HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		srv := server.New(eng, server.Options{RequestsPerSec: cfg.RequestsPerSec})
		slog.Debug("Starting HTTP service", "addr", cfg.ListenAddr)
		return srv.Run(cfg.ListenAddr)
	},
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().String("config", "zapsync.toml", "Path to the configuration file")
	rootCmd.PersistentFlags().String("artifact", "", "Path to the classifier artifact (overrides config)")
	rootCmd.PersistentFlags().String("remote", "", "Base URL of a hosted classifier service (overrides config)")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")
	_ = rootCmd.PersistentFlags().MarkHidden("debug")

	moderateCmd.Flags().Float64P("threshold", "t", 0, "Rejection threshold (overrides config)")
	moderateCmd.Flags().Bool("json", false, "Output the verdict as JSON")
	moderateCmd.Flags().BoolP("quiet", "q", false, "Suppress progress output")

	queryCmd.Flags().Float64P("threshold", "t", 0, "Rejection threshold (overrides config)")
	queryCmd.Flags().Bool("json", false, "Output the verdict as JSON")

	rootCmd.AddCommand(moderateCmd, queryCmd, serveCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
