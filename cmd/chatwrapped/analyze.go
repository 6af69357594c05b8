package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"chatwrapped-go/internal/client"
	"chatwrapped-go/internal/config"
	"chatwrapped-go/internal/dashboard"
	"chatwrapped-go/internal/dataset"
	"chatwrapped-go/internal/logger"
	"chatwrapped-go/internal/processor"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func analyzeCmd(opts *globalOptions) *cobra.Command {
	var asJSON, titles bool

	cmd := &cobra.Command{
		Use:   "analyze <export.json>",
		Short: "Summarize one year of a conversation export",
		Long: `Analyze a ChatGPT conversations.json export and print the yearly summary.

A styled dashboard is printed when stdout is a terminal; JSON otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(opts)
			if err != nil {
				return err
			}
			name, data, err := readExport(args[0])
			if err != nil {
				return err
			}

			out, err := analyzeExport(cmd.Context(), cfg, log, name, data)
			if err != nil {
				return err
			}
			jsonOut := asJSON || !term.IsTerminal(int(os.Stdout.Fd()))

			if titles {
				summary := out.Summary
				if cfg.ServerURL != "" {
					records, err := dataset.Decode(name, data)
					if err != nil {
						return err
					}
					summary = dataset.Summarize(records)
				}
				// keep stdout parseable in JSON mode
				w := cmd.OutOrStdout()
				if jsonOut {
					w = cmd.ErrOrStderr()
				}
				fmt.Fprintln(w, dashboard.RenderTitles(summary))
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out.Analysis)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dashboard.Render(out.Analysis, out.Year))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON even on a terminal")
	cmd.Flags().BoolVar(&titles, "titles", false, "also list conversation titles from the export")
	return cmd
}

// analyzeExport runs locally, or remotely when a server URL is configured.
// Remote results carry no Summary.
func analyzeExport(ctx context.Context, cfg config.Config, log *logger.Logger, name string, data []byte) (processor.Result, error) {
	proc, err := newProcessor(cfg, log, false)
	if err != nil {
		return processor.Result{}, err
	}
	year := proc.ResolveYear(cfg.Year)

	if cfg.ServerURL != "" {
		log.WithField("server", cfg.ServerURL).WithField("tz", cfg.Timezone).Info("analyzing remotely")
		res, err := newClient(cfg).Analyze(ctx, name, data, year, cfg.Timezone)
		return processor.Result{Analysis: res, Year: year}, err
	}
	return proc.Analyze(name, data, year, nil)
}

// newClient sizes the create-video deadline past the server's render timeout.
func newClient(cfg config.Config) *client.Client {
	c := client.New(cfg.ServerURL)
	if cfg.RenderTimeout > 0 {
		c.RenderTimeout = cfg.RenderTimeout + time.Minute
	}
	return c
}
