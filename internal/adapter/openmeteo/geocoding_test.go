package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testGeocodingClient(baseURL string) *GeocodingClient {
	return &GeocodingClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		language:   "ja",
		metrics:    observability.NewMetricsForTesting(),
		logger:     discardLogger(),
	}
}

func TestGeocodingClient_Search_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "西宮", q.Get("name"))
		assert.Equal(t, "5", q.Get("count"))
		assert.Equal(t, "ja", q.Get("language"))
		assert.Equal(t, "json", q.Get("format"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"results":[
			{"id":1856358,"name":"西宮市","latitude":34.7376,"longitude":135.3415,"country_code":"JP","admin1":"兵庫県"},
			{"id":1856359,"name":"西宮","latitude":35.1,"longitude":136.2,"country_code":"JP"}
		],"generationtime_ms":0.5}`))
	}))
	defer srv.Close()

	got, err := testGeocodingClient(srv.URL).Search(context.Background(), "西宮", HybridCount)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, domain.Candidate{
		Source:      domain.ProvenanceOpenMeteo,
		ID:          1856358,
		Name:        "西宮市",
		Admin1:      "兵庫県",
		CountryCode: "JP",
		Latitude:    34.7376,
		Longitude:   135.3415,
	}, got[0])
	assert.Empty(t, got[1].Admin1)
}

func TestGeocodingClient_Search_StandaloneCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("count"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := testGeocodingClient(srv.URL).Search(context.Background(), "大阪", StandaloneCount)
	require.NoError(t, err)
}

func TestGeocodingClient_Search_NoResultsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"generationtime_ms":0.3}`))
	}))
	defer srv.Close()

	got, err := testGeocodingClient(srv.URL).Search(context.Background(), "zzzz", HybridCount)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGeocodingClient_Search_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"reason":"Parameter count must be between 1 and 100."}`))
	}))
	defer srv.Close()

	_, err := testGeocodingClient(srv.URL).Search(context.Background(), "西宮", HybridCount)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestGeocodingClient_Search_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":`))
	}))
	defer srv.Close()

	_, err := testGeocodingClient(srv.URL).Search(context.Background(), "西宮", HybridCount)
	require.Error(t, err)
}
