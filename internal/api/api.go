// Package api exposes the classification service over http.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	transit "github.com/drakos74/free-transit/internal"
	"github.com/drakos74/free-transit/internal/catalogue"
	"github.com/drakos74/free-transit/internal/classifier"
	"github.com/drakos74/free-transit/internal/model"
	"github.com/drakos74/free-transit/internal/server"
	"github.com/drakos74/free-transit/internal/storage"
	"github.com/drakos74/free-transit/internal/trainer"
)

// Engine is the service behind the api.
type Engine interface {
	Aliases() model.Aliases
	Classify(raw model.FeatureRecord) (model.Verdict, error)
	Report() (trainer.Report, error)
	Import(ctx context.Context, rows []catalogue.Row) ([]catalogue.Entry, error)
	Entries() ([]catalogue.Entry, error)
	Clear() error
}

// ValidationResponse is the payload for records that failed validation.
type ValidationResponse struct {
	Error   string            `json:"error"`
	Missing []string          `json:"missing"`
	Invalid []string          `json:"invalid,omitempty"`
	Reasons map[string]string `json:"reasons,omitempty"`
	Unknown []string          `json:"unknown,omitempty"`
}

// CatalogueResponse is the payload for the catalogue listing.
type CatalogueResponse struct {
	Exoplanets []catalogue.Entry `json:"exoplanets"`
	Count      int               `json:"count"`
	Timestamp  time.Time         `json:"timestamp"`
}

// ImportResponse is the payload for a csv import.
type ImportResponse struct {
	Imported   int               `json:"imported"`
	Classified int               `json:"classified"`
	Failed     int               `json:"failed"`
	Exoplanets []catalogue.Entry `json:"exoplanets"`
}

// ClearResponse is the payload for clearing the catalogue.
type ClearResponse struct {
	Cleared bool `json:"cleared"`
}

// Api binds the engine to the http routes.
type Api struct {
	engine Engine
	debug  bool
	now    func() time.Time
}

// New creates a new api for the given engine.
func New(engine Engine, debug bool) *Api {
	return &Api{
		engine: engine,
		debug:  debug,
		now:    time.Now,
	}
}

// Routes returns all routes of the api.
func (a *Api) Routes() []server.Route {
	return []server.Route{
		server.Live(),
		{Action: server.Api, Path: "classify", Method: server.POST, Exec: a.classify},
		{Action: server.Api, Path: "predict", Method: server.POST, Exec: a.classify},
		{Action: server.Api, Path: "model-stats", Method: server.GET, Exec: a.modelStats},
		{Action: server.Api, Path: "exoplanets", Method: server.GET, Exec: a.list},
		{Action: server.Api, Path: "exoplanets", Method: server.POST, Exec: a.importCSV},
		{Action: server.Api, Path: "exoplanets", Method: server.DELETE, Exec: a.clear},
		{Action: server.Api, Path: "exoplanets/export", Method: server.GET, ContentType: server.CsvContent, Exec: a.export},
	}
}

func (a *Api) classify(r *http.Request) ([]byte, int, error) {
	raw := make(map[string]interface{})
	if err := server.JsonRead(r, a.debug, &raw); err != nil {
		return server.Error("Invalid request body", err.Error()), http.StatusBadRequest, nil
	}
	record, unknown := a.engine.Aliases().Resolve(raw)

	verdict, err := a.engine.Classify(record)
	var verr *classifier.ValidationError
	switch {
	case errors.As(err, &verr):
		return encode(validation(verr, unknown), http.StatusBadRequest)
	case err != nil:
		log.Error().Err(err).Msg("could not classify")
		return server.Error("Failed to classify", err.Error()), http.StatusInternalServerError, nil
	}
	return encode(verdict, http.StatusOK)
}

func validation(verr *classifier.ValidationError, unknown []string) ValidationResponse {
	response := ValidationResponse{
		Error:   classifier.MissingFeatures,
		Missing: names(verr.Missing),
		Invalid: names(verr.Invalid),
		Reasons: make(map[string]string, len(verr.Reasons)),
		Unknown: unknown,
	}
	if len(verr.Missing) == 0 {
		response.Error = "Invalid features"
	}
	for f, reason := range verr.Reasons {
		response.Reasons[string(f)] = reason
	}
	if len(unknown) == 0 {
		response.Unknown = nil
	}
	return response
}

func names(ff []model.Field) []string {
	nn := make([]string, len(ff))
	for i, f := range ff {
		nn[i] = string(f)
	}
	return nn
}

func (a *Api) modelStats(r *http.Request) ([]byte, int, error) {
	report, err := a.engine.Report()
	if err != nil {
		if errors.Is(err, storage.NotFoundErr) || errors.Is(err, transit.NoReportErr) {
			return server.Error("No trained model", err.Error()), http.StatusNotFound, nil
		}
		return server.Error("Failed to load model stats", err.Error()), http.StatusInternalServerError, nil
	}
	return encode(report, http.StatusOK)
}

func (a *Api) list(r *http.Request) ([]byte, int, error) {
	entries, err := a.engine.Entries()
	if err != nil {
		return server.Error("Failed to load catalogue", err.Error()), http.StatusInternalServerError, nil
	}
	return encode(CatalogueResponse{
		Exoplanets: entries,
		Count:      len(entries),
		Timestamp:  a.now().UTC(),
	}, http.StatusOK)
}

func (a *Api) importCSV(r *http.Request) ([]byte, int, error) {
	rows, err := catalogue.ParseCSV(io.LimitReader(r.Body, server.MaxBody), a.engine.Aliases())
	if err != nil {
		return server.Error("Invalid csv", err.Error()), http.StatusBadRequest, nil
	}
	entries, err := a.engine.Import(r.Context(), rows)
	if err != nil {
		return server.Error("Failed to import", err.Error()), http.StatusInternalServerError, nil
	}
	response := ImportResponse{
		Imported:   len(entries),
		Exoplanets: entries,
	}
	for _, e := range entries {
		if e.Classified() {
			response.Classified++
		} else {
			response.Failed++
		}
	}
	return encode(response, http.StatusOK)
}

func (a *Api) clear(r *http.Request) ([]byte, int, error) {
	if err := a.engine.Clear(); err != nil {
		return server.Error("Failed to clear catalogue", err.Error()), http.StatusInternalServerError, nil
	}
	return encode(ClearResponse{Cleared: true}, http.StatusOK)
}

func (a *Api) export(r *http.Request) ([]byte, int, error) {
	entries, err := a.engine.Entries()
	if err != nil {
		return server.Error("Failed to load catalogue", err.Error()), http.StatusInternalServerError, nil
	}
	buffer := new(bytes.Buffer)
	if err := catalogue.WriteCSV(buffer, entries); err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("could not export catalogue: %w", err)
	}
	return buffer.Bytes(), http.StatusOK, nil
}

func encode(v interface{}, code int) ([]byte, int, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("could not encode response: %w", err)
	}
	return b, code, nil
}
