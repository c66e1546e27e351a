package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "exoml-cli",
		Short:         "ExoML CLI for inspecting and exporting transit candidates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "Catalog file (.json, .csv, .xlsx); overrides CATALOG_FILE")

	rootCmd.AddCommand(
		newSamplesCmd(opts),
		newShowCmd(opts),
		newConfidenceCmd(opts),
		newExportCmd(opts),
		newChartCmd(opts),
	)
	return rootCmd
}
