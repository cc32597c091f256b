package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliases_Resolve(t *testing.T) {

	type test struct {
		raw     map[string]interface{}
		record  FeatureRecord
		unknown []string
	}

	tests := map[string]test{
		"canonical": {
			raw: map[string]interface{}{
				"orbital_period":   3.52,
				"transit_duration": 2.8,
				"transit_depth":    0.012,
			},
			record: FeatureRecord{
				OrbitalPeriod:   3.52,
				TransitDuration: 2.8,
				TransitDepth:    0.012,
			},
			unknown: []string{},
		},
		"short": {
			raw: map[string]interface{}{
				"period":   3.52,
				"duration": "2.8",
				"radius":   1.8,
			},
			record: FeatureRecord{
				OrbitalPeriod:   3.52,
				TransitDuration: "2.8",
				PlanetRadius:    1.8,
			},
			unknown: []string{},
		},
		"koi": {
			raw: map[string]interface{}{
				"koi_period":    3.52,
				"koi_depth":     "12000",
				"koi_model_snr": 25.4,
				"KOI_KEPMAG":    15.1,
			},
			record: FeatureRecord{
				OrbitalPeriod:    3.52,
				TransitDepth:     0.012,
				SNR:              25.4,
				StellarMagnitude: 15.1,
			},
			unknown: []string{},
		},
		"canonical-wins": {
			raw: map[string]interface{}{
				"depth":         0.5,
				"transit_depth": 0.012,
				"koi_depth":     100.0,
			},
			record: FeatureRecord{
				TransitDepth: 0.012,
			},
			unknown: []string{},
		},
		"unknown": {
			raw: map[string]interface{}{
				"period": 3.52,
				"colour": "red",
				"albedo": 0.3,
			},
			record: FeatureRecord{
				OrbitalPeriod: 3.52,
			},
			unknown: []string{"albedo", "colour"},
		},
		"unscaled-garbage": {
			raw: map[string]interface{}{
				"koi_depth": "deep",
			},
			record: FeatureRecord{
				TransitDepth: "deep",
			},
			unknown: []string{},
		},
	}

	aliases := DefaultAliases()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			record, unknown := aliases.Resolve(tt.raw)
			assert.Equal(t, tt.unknown, unknown)
			require.Equal(t, len(tt.record), len(record))
			for f, v := range tt.record {
				if expected, ok := v.(float64); ok {
					actual, err := Float(record[f])
					require.NoError(t, err)
					assert.InDelta(t, expected, actual, 1e-12)
				} else {
					assert.Equal(t, v, record[f])
				}
			}
		})
	}
}

func TestAliases_Add(t *testing.T) {
	aliases := DefaultAliases().Add(Alias{Name: " Star_Temp ", Field: StellarTemperature})
	alias, ok := aliases.Lookup("STAR_TEMP")
	require.True(t, ok)
	assert.Equal(t, StellarTemperature, alias.Field)

	_, ok = aliases.Lookup("star_mass")
	assert.False(t, ok)
}

func TestFloat(t *testing.T) {

	type test struct {
		v   interface{}
		f   float64
		err bool
	}

	tests := map[string]test{
		"float":       {v: 1.5, f: 1.5},
		"int":         {v: 3, f: 3},
		"json-number": {v: json.Number("2.25"), f: 2.25},
		"string":      {v: " 4.5 ", f: 4.5},
		"empty":       {v: "  ", err: true},
		"nil":         {v: nil, err: true},
		"text":        {v: "abc", err: true},
		"bool":        {v: true, err: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := Float(tt.v)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.f, f)
		})
	}
}

func TestFeatures_GetSet(t *testing.T) {
	var f Features
	for i, field := range Fields {
		f.Set(field, float64(i+1))
	}
	for i, field := range Fields {
		v, ok := f.Get(field)
		require.True(t, ok, field)
		assert.Equal(t, float64(i+1), v, field)
	}

	_, ok := Features{}.Get(SNR)
	assert.False(t, ok)
	_, ok = Features{}.Get(Field("albedo"))
	assert.False(t, ok)

	v := Features{TransitDepth: 0.01}.Vector([]Field{TransitDepth, SNR}, func(field Field) float64 {
		return -1
	})
	assert.Equal(t, []float64{0.01, -1}, v)
}

func TestFeatureRecord_Has(t *testing.T) {
	r := FeatureRecord{
		OrbitalPeriod:   "",
		TransitDuration: nil,
		TransitDepth:    0.0,
	}
	assert.False(t, r.Has(OrbitalPeriod))
	assert.False(t, r.Has(TransitDuration))
	assert.True(t, r.Has(TransitDepth))
	assert.False(t, r.Has(SNR))
}

func TestLabel(t *testing.T) {

	type test struct {
		s     string
		label Label
		err   bool
	}

	tests := map[string]test{
		"confirmed":      {s: "CONFIRMED", label: Confirmed},
		"candidate":      {s: "Candidate", label: Candidate},
		"false-positive": {s: "FALSE POSITIVE", label: FalsePositive},
		"snake":          {s: "false_positive", label: FalsePositive},
		"short":          {s: "fp", label: FalsePositive},
		"empty":          {s: " ", label: NoLabel},
		"unknown":        {s: "planet", err: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			label, err := LabelFromString(tt.s)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.label, label)
		})
	}

	assert.True(t, Confirmed.Exoplanet())
	assert.True(t, Candidate.Exoplanet())
	assert.False(t, FalsePositive.Exoplanet())
	assert.False(t, NoLabel.Exoplanet())
}

func TestVerdict_JSON(t *testing.T) {
	b, err := json.Marshal(Verdict{Label: FalsePositive, Confidence: 0.99, ModelUsed: "heuristic"})
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &payload))
	assert.Equal(t, "False Positive", payload["classification"])
	assert.Equal(t, "heuristic", payload["model_used"])
	_, hasReasons := payload["reasons"]
	assert.False(t, hasReasons)

	var v Verdict
	require.NoError(t, json.Unmarshal(b, &v))
	assert.Equal(t, FalsePositive, v.Label)
}
