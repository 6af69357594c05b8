package main

import (
	"fmt"
	"os"
	"path/filepath"

	"chatwrapped-go/internal/config"
	"chatwrapped-go/internal/logger"
	"chatwrapped-go/internal/processor"
	"chatwrapped-go/internal/render"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

// globalOptions are shared by every subcommand and override the config.
type globalOptions struct {
	year     int
	timezone string
	server   string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts globalOptions
	rootCmd := &cobra.Command{
		Use:           "chatwrapped",
		Short:         "ChatWrapped - a yearly summary of your ChatGPT conversation export",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().IntVar(&opts.year, "year", 0, "calendar year to summarize (default: current year)")
	rootCmd.PersistentFlags().StringVar(&opts.timezone, "tz", "", "IANA time zone for local-time statistics")
	rootCmd.PersistentFlags().StringVar(&opts.server, "server", "", "analyze through a running ChatWrapped API at this URL")

	rootCmd.AddCommand(analyzeCmd(&opts))
	rootCmd.AddCommand(renderCmd(&opts))
	rootCmd.AddCommand(reportCmd(&opts))
	return rootCmd
}

// loadConfig layers the command-line flags over config.Load.
func loadConfig(opts *globalOptions) (config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	if opts.timezone != "" {
		cfg.Timezone = opts.timezone
		if _, err := cfg.Location(); err != nil {
			return cfg, nil, err
		}
	}
	if opts.year > 0 {
		cfg.Year = opts.year
	}
	if opts.server != "" {
		cfg.ServerURL = opts.server
	}
	log := logger.NewWithOptions(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	return cfg, log, nil
}

func newProcessor(cfg config.Config, log *logger.Logger, withRenderer bool) (*processor.Processor, error) {
	if !withRenderer {
		return processor.New(cfg, nil, log)
	}
	r, err := render.New(cfg, log)
	if err != nil {
		return nil, err
	}
	return processor.New(cfg, r, log)
}

func readExport(path string) (string, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read file: %w", err)
	}
	return filepath.Base(path), data, nil
}
