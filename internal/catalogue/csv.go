package catalogue

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/free-transit/internal/model"
)

var (
	idColumns          = []string{"id", "kepoi_name", "koi_id", "kepid"}
	nameColumns        = []string{"name", "kepler_name", "planet_name"}
	dispositionColumns = []string{"disposition", "koi_disposition", "classification"}
)

// EmptyCSVErr is returned for input without any data rows.
var EmptyCSVErr = errors.New("no rows in csv")

// ParseCSV reads the transit signals from a csv with a header row.
// Columns are mapped onto fields through the aliases, unknown columns are ignored.
// Lines starting with '#' are comments, as in the kepler archive exports.
// Rows are not validated here, empty cells are left out of the features.
func ParseCSV(r io.Reader, aliases model.Aliases) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, EmptyCSVErr
	}
	if err != nil {
		return nil, fmt.Errorf("could not read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	idCol := column(header, idColumns)
	nameCol := column(header, nameColumns)
	dispositionCol := column(header, dispositionColumns)

	rows := make([]Row, 0)
	unknown := make(map[string]bool)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		raw := make(map[string]interface{})
		for i, v := range record {
			if i >= len(header) || i == idCol || i == nameCol || i == dispositionCol {
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				raw[header[i]] = v
			}
		}
		features, skipped := aliases.Resolve(raw)
		for _, s := range skipped {
			unknown[s] = true
		}

		row := Row{
			Line:     line,
			ID:       cell(record, idCol),
			Name:     cell(record, nameCol),
			Features: features,
		}
		if d := cell(record, dispositionCol); d != "" {
			label, err := model.LabelFromString(d)
			if err != nil {
				log.Warn().Err(err).Int("line", line).Msg("ignoring disposition")
			}
			row.Disposition = label
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, EmptyCSVErr
	}
	if len(unknown) > 0 {
		log.Debug().Int("columns", len(unknown)).Msg("ignored unknown csv columns")
	}
	return rows, nil
}

func column(header []string, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if h == name {
				return i
			}
		}
	}
	return -1
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

var verdictColumns = []string{
	"classification",
	"confidence",
	"probability_exoplanet",
	"probability_false_positive",
	"model_used",
	"error",
}

// WriteCSV writes the entries with the canonical field names as header.
// Classified entries carry the validated features the verdict was computed on.
// Defaulted fields are left empty, so that the export classifies the same way when imported again.
func WriteCSV(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "name", "disposition"}
	for _, f := range model.Fields {
		header = append(header, string(f))
	}
	header = append(header, verdictColumns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("could not write csv header: %w", err)
	}

	for _, e := range entries {
		record := []string{e.ID, e.Name, e.Disposition.String()}
		for _, f := range model.Fields {
			record = append(record, value(e, f))
		}
		if e.Verdict != nil {
			record = append(record,
				e.Verdict.Label.String(),
				format(e.Verdict.Confidence),
				format(e.Verdict.ProbabilityExoplanet),
				format(e.Verdict.ProbabilityFalsePositive),
				e.Verdict.ModelUsed,
				"",
			)
		} else {
			record = append(record, "", "", "", "", "", e.Error)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("could not write csv row for '%s': %w", e.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func value(e Entry, f model.Field) string {
	if e.Verdict != nil {
		if e.Verdict.Features.IsDefaulted(f) {
			return ""
		}
		if v, ok := e.Verdict.Features.Get(f); ok {
			return format(v)
		}
		return ""
	}
	v, ok := e.Features[f]
	if !ok || v == nil {
		return ""
	}
	if n, err := model.Float(v); err == nil {
		return format(n)
	}
	return fmt.Sprintf("%v", v)
}

func format(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
