// Command foxread-worker fetches one URL in a headless browser, normalizes
// the page to plain text and prints a single JSON record on stdout.
//
// It is spawned once per request by the foxread server and exits when the
// record is written. Diagnostics go to stderr only.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/use-agent/foxread/config"
	"github.com/use-agent/foxread/engine"
	"github.com/use-agent/foxread/policy"
)

var version = "dev"

var (
	outputFile string
	pretty     bool
	engineName string
	markdown   bool
)

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:     "foxread-worker [flags] -- URL",
		Short:   "Extract readable text from one web page as JSON",
		Version: version,
		Long: `foxread-worker opens URL with a site-appropriate browser profile,
strips scripts and styles, and prints {title, url, content, content_type}.

A page that cannot be loaded still produces a record whose content is the
failure sentinel; the exit status is 0 whenever a record was written.`,
		Example: `  foxread-worker -- https://zhuanlan.zhihu.com/p/579628061
  foxread-worker --engine http --pretty -o out.json -- example.com`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, args[0])
		},
	}

	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the record to a file instead of stdout")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON record")
	rootCmd.Flags().StringVar(&engineName, "engine", cfg.Worker.Engine, "fetch engine: browser or http")
	rootCmd.Flags().BoolVar(&markdown, "markdown", cfg.Worker.Markdown, "also convert the cleaned page to markdown")

	initLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, url string) error {
	sel := policy.NewSelector(cfg.Policy.SocialDomains, cfg.Policy.ComplexDomains)
	eng := engine.New(engineName, cfg.Policy.BrowserBin, cfg.Policy.FullEvasions)

	slog.Debug("worker starting", "url", url, "engine", eng.Name(), "pid", os.Getpid())
	rec := extract(ctx, eng, sel, url, markdown)

	if outputFile == "" {
		if err := writeRecord(os.Stdout, rec, pretty); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		return nil
	}
	if err := writeRecordFile(outputFile, rec, pretty); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "record written to %s\n", outputFile)
	return nil
}

// initLogger sends text logs to stderr so stdout carries only the record.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
