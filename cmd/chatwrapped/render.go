package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func renderCmd(opts *globalOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "render <export.json>",
		Short: "Analyze an export and render the ChatWrapped video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(opts)
			if err != nil {
				return err
			}
			name, data, err := readExport(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			out, err := analyzeExport(ctx, cfg, log, name, data)
			if err != nil {
				return err
			}

			if cfg.ServerURL != "" {
				c := newClient(cfg)
				video, err := c.CreateVideo(ctx, out.Analysis)
				if err != nil {
					return err
				}
				dst := outPath
				if dst == "" {
					dst = video.Filename
				}
				f, err := os.Create(dst)
				if err != nil {
					return err
				}
				defer f.Close()
				if _, err := c.DownloadVideo(ctx, video.Filename, f); err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, dst)
				return nil
			}

			proc, err := newProcessor(cfg, log, true)
			if err != nil {
				return err
			}
			art, err := proc.CreateVideo(ctx, out.Analysis)
			if err != nil {
				return err
			}
			path := art.Path
			if outPath != "" {
				if err := os.Rename(art.Path, outPath); err != nil {
					return fmt.Errorf("move video: %w", err)
				}
				path = outPath
			}
			abs, _ := filepath.Abs(path)
			fmt.Fprintln(os.Stdout, abs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "where to write the video (default: the render output dir)")
	return cmd
}
