package gsi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func featureJSON(title string, lon, lat float64) string {
	return fmt.Sprintf(`{"geometry":{"coordinates":[%v,%v],"type":"Point"},"type":"Feature","properties":{"addressCode":"","title":%q}}`, lon, lat, title)
}

func TestClient_Search_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "西宮", r.URL.Query().Get("q"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte("[" + featureJSON("兵庫県西宮市六湛寺町", 135.3415, 34.7376) + "]"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.Search(context.Background(), "西宮", 5)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, domain.Candidate{
		Source:      domain.ProvenanceGSI,
		ID:          domain.GSIIDOffset,
		Name:        "兵庫県西宮市六湛寺町",
		Admin1:      domain.GSIRegionMarker,
		CountryCode: "JP",
		Latitude:    34.7376,
		Longitude:   135.3415,
	}, got[0])
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("gsi", "success")), 0)
}

func TestClient_Search_TruncatesToFive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		items := make([]string, 8)
		for i := range items {
			items[i] = featureJSON(fmt.Sprintf("東京都千代田区%d", i), 139.75, 35.68)
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte("[" + strings.Join(items, ",") + "]"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.Search(context.Background(), "千代田", 10)
	require.NoError(t, err)

	require.Len(t, got, MaxResults)
	for i, cand := range got {
		assert.Equal(t, int64(domain.GSIIDOffset+i), cand.ID)
		assert.Equal(t, fmt.Sprintf("東京都千代田区%d", i), cand.Name)
	}
}

func TestClient_Search_SkipsFeatureWithoutCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte("[" +
			featureJSON("兵庫県西宮市六湛寺町", 135.3415, 34.7376) + "," +
			`{"geometry":{"coordinates":[],"type":"Point"},"type":"Feature","properties":{"title":"兵庫県西宮市不明"}},` +
			featureJSON("兵庫県西宮市甲子園町", 135.3617, 34.7212) + "]"))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Search(context.Background(), "西宮", 5)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, int64(domain.GSIIDOffset), got[0].ID)
	assert.Equal(t, int64(domain.GSIIDOffset+2), got[1].ID, "ids keep the position in the response")
	assert.Equal(t, "兵庫県西宮市甲子園町", got[1].Name)
}

func TestClient_Search_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	_, err := c.Search(ctx, "西宮", 5)

	require.ErrorIs(t, err, context.Canceled)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("gsi", "canceled")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("gsi", "error")), 0)
}

func TestClient_Search_SmallerLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte("[" + featureJSON("a", 1, 2) + "," + featureJSON("b", 3, 4) + "]"))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Search(context.Background(), "ab", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
}

func TestClient_Search_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.Search(context.Background(), "zzzz", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("gsi", "empty")), 0)
}

func TestClient_Search_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), "西宮", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Search_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"error":"not an array"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), "西宮", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestClient_Search_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Search(context.Background(), "西宮", 5)
	require.Error(t, err)
}
