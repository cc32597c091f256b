package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drakos74/free-transit/internal/catalogue"
)

// batchCmd classifies all signals of a csv file.
func batchCmd() *cobra.Command {
	var (
		in      string
		out     string
		workers int
		store   bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Classify the transit signals of a csv file",
		Long: `Classify all transit signals of a csv file, e.g. an export of the kepler archive.

Examples:
  # Classify and write the verdicts as csv
  transit batch --in=cumulative.csv --out=verdicts.csv

  # Classify and keep the verdicts in the catalogue
  transit batch --in=cumulative.csv --store`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return fmt.Errorf("no input file specified")
			}
			engine, cfg, done, err := open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer done()

			f, err := os.Open(in)
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()
			rows, err := catalogue.ParseCSV(f, cfg.Aliases)
			if err != nil {
				return fmt.Errorf("failed to parse input: %w", err)
			}

			if workers <= 0 {
				workers = cfg.Workers
			}
			entries, err := catalogue.Classify(cmd.Context(), engine, rows, workers)
			if err != nil {
				return err
			}
			if store {
				if entries, err = engine.Append(entries...); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if out != "" {
				o, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer o.Close()
				w = o
			}
			return catalogue.WriteCSV(w, entries)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "csv file with the transit signals")
	cmd.Flags().StringVar(&out, "out", "", "csv file for the verdicts, stdout if empty")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of signals classified in parallel")
	cmd.Flags().BoolVar(&store, "store", false, "append the verdicts to the catalogue")

	return cmd
}
