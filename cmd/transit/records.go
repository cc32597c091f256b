package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/drakos74/free-transit/internal/catalogue"
)

// recordsCmd inspects the catalogue.
func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect the classified records of the catalogue",
	}
	cmd.AddCommand(listCmd())
	cmd.AddCommand(clearCmd())
	cmd.AddCommand(statsCmd())
	return cmd
}

func listCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the records of the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, done, err := open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			entries, err := engine.Entries()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, entries)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"id", "name", "disposition", "classification", "confidence", "model"})
			for _, e := range entries {
				row := []string{e.ID, e.Name, e.Disposition.String(), "", "", ""}
				if e.Classified() {
					row[3] = e.Verdict.Label.String()
					row[4] = strconv.FormatFloat(e.Verdict.Confidence, 'f', 3, 64)
					row[5] = e.Verdict.ModelUsed
				} else {
					row[3] = e.Error
				}
				table.Append(row)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the records as json")
	return cmd
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all records from the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, done, err := open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			if err := engine.Clear(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "catalogue cleared")
			return err
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise the verdicts of the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, done, err := open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			entries, err := engine.Entries()
			if err != nil {
				return err
			}
			labels, confidence := summarise(entries)
			if len(confidence) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no classified records")
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"classification", "count"})
			names := make([]string, 0, len(labels))
			for name := range labels {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				table.Append([]string{name, strconv.Itoa(labels[name])})
			}
			table.Render()

			graph := asciigraph.Plot(confidence,
				asciigraph.Height(10),
				asciigraph.Caption("confidence of the verdicts, ascending"))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), graph)
			return err
		},
	}
}

// summarise counts the verdicts by label and returns their confidence in ascending order.
func summarise(entries []catalogue.Entry) (map[string]int, []float64) {
	labels := make(map[string]int)
	confidence := make([]float64, 0, len(entries))
	for _, e := range entries {
		if !e.Classified() {
			labels["unclassified"]++
			continue
		}
		labels[e.Verdict.Label.String()]++
		confidence = append(confidence, e.Verdict.Confidence)
	}
	sort.Float64s(confidence)
	return labels, confidence
}
