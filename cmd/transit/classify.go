package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drakos74/free-transit/internal/classifier"
	"github.com/drakos74/free-transit/internal/model"
)

// classifyCmd classifies one signal given on the command line.
func classifyCmd() *cobra.Command {
	var (
		values = make(map[model.Field]*float64)
		fields map[string]string
	)

	flags := map[string]model.Field{
		"period":      model.OrbitalPeriod,
		"duration":    model.TransitDuration,
		"depth":       model.TransitDepth,
		"snr":         model.SNR,
		"radius":      model.PlanetRadius,
		"insolation":  model.InsolationFlux,
		"temperature": model.StellarTemperature,
		"star-radius": model.StellarRadius,
		"magnitude":   model.StellarMagnitude,
	}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single transit signal",
		Long: `Classify a single transit signal and print the verdict.

Examples:
  # Hot jupiter like signal
  transit classify --period=3.52 --duration=2.8 --depth=0.012 --snr=25.4 --radius=1.8

  # Any other field by its canonical or kepler archive name
  transit classify --period=10 --duration=3 --depth=0.02 --field=koi_impact=0.3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, done, err := open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer done()

			raw := make(map[string]interface{})
			for name, v := range fields {
				raw[name] = v
			}
			record, unknown := engine.Aliases().Resolve(raw)
			if len(unknown) > 0 {
				return fmt.Errorf("unknown fields %v", unknown)
			}
			for name, f := range flags {
				if cmd.Flags().Changed(name) {
					record[f] = *values[f]
				}
			}

			verdict, err := engine.Classify(record)
			var verr *classifier.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("%s: %v", classifier.MissingFeatures, verr)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, verdict)
		},
	}

	for name, f := range flags {
		v := new(float64)
		values[f] = v
		cmd.Flags().Float64Var(v, name, 0, fmt.Sprintf("value of %s", f))
	}
	cmd.Flags().StringToStringVar(&fields, "field", nil, "additional fields as name=value")

	return cmd
}
