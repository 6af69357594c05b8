package main

import (
	"fmt"
	"os"

	"chatwrapped-go/internal/report"
	"github.com/spf13/cobra"
)

func reportCmd(opts *globalOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "report <export.json>",
		Short: "Write the yearly summary as an Excel workbook",
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

			out, err := analyzeExport(cmd.Context(), cfg, log, name, data)
			if err != nil {
				return err
			}
			path := outPath
			if path == "" {
				path = fmt.Sprintf("chatwrapped-%d.xlsx", out.Year)
			}
			if err := report.Save(path, out.Analysis, out.Year); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default: chatwrapped-<year>.xlsx)")
	return cmd
}
