package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Router(t *testing.T) {

	type test struct {
		method      string
		path        string
		code        int
		contentType string
		body        string
	}

	router := NewServer("test", 0).Add(
		Live(),
		Route{
			Action: Api,
			Path:   "echo",
			Method: POST,
			Exec: func(r *http.Request) ([]byte, int, error) {
				var v map[string]interface{}
				if err := JsonRead(r, true, &v); err != nil {
					return Error("Invalid json", err.Error()), http.StatusBadRequest, nil
				}
				b, err := json.Marshal(v)
				return b, http.StatusOK, err
			},
		},
		Route{
			Action: Api,
			Path:   "fail",
			Method: GET,
			Exec: func(r *http.Request) ([]byte, int, error) {
				return nil, 0, fmt.Errorf("broken")
			},
		},
		Route{
			Action:      Api,
			Path:        "export",
			Method:      GET,
			ContentType: CsvContent,
			Exec: func(r *http.Request) ([]byte, int, error) {
				return []byte("a,b\n1,2\n"), http.StatusOK, nil
			},
		},
	).Router()

	tests := map[string]test{
		"live": {
			method: http.MethodGet, path: "/health",
			code: http.StatusOK, contentType: JsonContent, body: `{"status":"ok"}`,
		},
		"echo": {
			method: http.MethodPost, path: "/api/echo", body: `{"a":1}`,
			code: http.StatusOK, contentType: JsonContent,
		},
		"bad-json": {
			method: http.MethodPost, path: "/api/echo", body: `{"a":`,
			code: http.StatusBadRequest, contentType: JsonContent,
		},
		"internal-error": {
			method: http.MethodGet, path: "/api/fail",
			code: http.StatusInternalServerError, contentType: JsonContent,
		},
		"csv": {
			method: http.MethodGet, path: "/api/export",
			code: http.StatusOK, contentType: CsvContent, body: "a,b\n1,2\n",
		},
		"not-found": {
			method: http.MethodGet, path: "/api/unknown",
			code: http.StatusNotFound, contentType: JsonContent,
		},
		"wrong-method": {
			method: http.MethodGet, path: "/api/echo",
			code: http.StatusMethodNotAllowed, contentType: JsonContent,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			if tt.code == http.StatusOK && tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
			if tt.code >= http.StatusBadRequest {
				var response ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
				assert.NotEmpty(t, response.Error)
			}
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	router := NewServer("test", 0).Add(Live()).Router()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `transit_request_duration_seconds_count{route="/health"}`)
}

func TestServer_CORS(t *testing.T) {
	router := NewServer("test", 0).AllowOrigins("http://localhost:3000").Add(Live()).Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
