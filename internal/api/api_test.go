package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	transit "github.com/drakos74/free-transit/internal"
	"github.com/drakos74/free-transit/internal/catalogue"
	"github.com/drakos74/free-transit/internal/model"
	"github.com/drakos74/free-transit/internal/server"
	jsonstorage "github.com/drakos74/free-transit/internal/storage/file/json"
	"github.com/drakos74/free-transit/internal/trainer"
)

func newRouter(t *testing.T, opts transit.Options) http.Handler {
	shard := jsonstorage.LocalShard()
	repository, err := catalogue.NewRepository(shard)
	require.NoError(t, err)
	reports, err := trainer.NewReports(shard)
	require.NoError(t, err)
	engine := transit.NewEngine(opts, repository, reports)
	require.NoError(t, engine.Start())
	return server.NewServer("test", 0).Add(New(engine, false).Routes()...).Router()
}

func call(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestApi_Classify(t *testing.T) {

	type test struct {
		path    string
		body    string
		code    int
		label   string
		missing []string
		invalid []string
	}

	tests := map[string]test{
		"confirmed": {
			path:  "/api/classify",
			body:  `{"period": 3.52, "duration": 2.8, "depth": 0.012, "snr": 25.4, "radius": 1.8}`,
			code:  http.StatusOK,
			label: "Confirmed",
		},
		"low-snr": {
			path:  "/api/classify",
			body:  `{"orbital_period": 10, "transit_duration": 3, "transit_depth": 0.02, "snr": 5}`,
			code:  http.StatusOK,
			label: "False Positive",
		},
		"koi-names": {
			path:  "/api/predict",
			body:  `{"koi_period": 3.52, "koi_duration": 2.8, "koi_depth": 12000, "koi_model_snr": 25.4}`,
			code:  http.StatusOK,
			label: "Confirmed",
		},
		"string-values": {
			path:  "/api/classify",
			body:  `{"period": "3.52", "duration": "2.8", "depth": "0.012"}`,
			code:  http.StatusOK,
			label: "Confirmed",
		},
		"missing-depth": {
			path:    "/api/classify",
			body:    `{"period": 3.52, "duration": 2.8}`,
			code:    http.StatusBadRequest,
			missing: []string{"transit_depth"},
		},
		"empty": {
			path:    "/api/classify",
			body:    ``,
			code:    http.StatusBadRequest,
			missing: []string{"orbital_period", "transit_duration", "transit_depth"},
		},
		"bad-optional": {
			path:    "/api/classify",
			body:    `{"period": 3.52, "duration": 2.8, "depth": 0.012, "snr": -3}`,
			code:    http.StatusBadRequest,
			missing: []string{},
			invalid: []string{"snr"},
		},
		"not-json": {
			path: "/api/classify",
			body: `period=3.52`,
			code: http.StatusBadRequest,
		},
	}

	router := newRouter(t, transit.Options{})
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := call(router, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())

			if tt.code == http.StatusOK {
				var verdict model.Verdict
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
				assert.Equal(t, tt.label, verdict.Label.String())
				assert.InDelta(t, 1.0, verdict.ProbabilityExoplanet+verdict.ProbabilityFalsePositive, 1e-9)
				assert.Equal(t, "heuristic", verdict.ModelUsed)
				return
			}
			if tt.missing == nil && tt.invalid == nil {
				return
			}
			var response ValidationResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Equal(t, tt.missing, response.Missing)
			assert.Equal(t, tt.invalid, response.Invalid)
			if len(tt.missing) > 0 {
				assert.Equal(t, "Missing required features", response.Error)
			}
		})
	}
}

func TestApi_ClassifyUnknownFields(t *testing.T) {
	router := newRouter(t, transit.Options{})
	rec := call(router, http.MethodPost, "/api/classify", `{"period": 3.52, "albedo": 0.3}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var response ValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, []string{"albedo"}, response.Unknown)
}

func TestApi_ModelStats(t *testing.T) {
	rec := call(newRouter(t, transit.Options{}), http.MethodGet, "/api/model-stats", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	router := newRouter(t, transit.Options{
		Forest:   true,
		Training: trainer.Config{Trees: 10, Samples: 200},
	})
	rec = call(router, http.MethodGet, "/api/model-stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	for _, key := range []string{"accuracy", "precision", "recall", "f1_score", "confusion_matrix", "feature_importance", "model_version", "samples"} {
		assert.Contains(t, stats, key)
	}

	rec = call(router, http.MethodPost, "/api/classify", `{"period": 3.52, "duration": 2.8, "depth": 0.012}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var verdict model.Verdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.Equal(t, "random-forest", verdict.ModelUsed)
}

const upload = `kepoi_name,kepler_name,koi_disposition,koi_period,koi_duration,koi_depth,koi_model_snr
K00752.01,Kepler-227 b,CONFIRMED,9.488,2.957,12000,35.8
K00752.02,,FALSE POSITIVE,54.418,4.507,874.8,5.2
K00753.01,,CANDIDATE,19.899,1.782,,40.9
`

func TestApi_Catalogue(t *testing.T) {
	router := newRouter(t, transit.Options{})

	rec := call(router, http.MethodGet, "/api/exoplanets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list CatalogueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Count)

	rec = call(router, http.MethodPost, "/api/exoplanets", upload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var imported ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))
	assert.Equal(t, 3, imported.Imported)
	assert.Equal(t, 2, imported.Classified)
	assert.Equal(t, 1, imported.Failed)

	rec = call(router, http.MethodGet, "/api/exoplanets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 3, list.Count)
	assert.Equal(t, "K00752.01", list.Exoplanets[0].ID)
	assert.False(t, list.Timestamp.IsZero())

	rec = call(router, http.MethodGet, "/api/exoplanets/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, server.CsvContent, rec.Header().Get("Content-Type"))
	assert.Equal(t, 4, len(strings.Split(strings.TrimSpace(rec.Body.String()), "\n")))

	rec = call(router, http.MethodPost, "/api/exoplanets", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(router, http.MethodDelete, "/api/exoplanets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = call(router, http.MethodGet, "/api/exoplanets", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Count)
}
