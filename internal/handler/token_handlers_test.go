package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/domain"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/service"
)

type stubStore struct {
	records map[string]domain.TokenRecord
}

func (s *stubStore) Persist(ctx context.Context, records []domain.TokenRecord) error {
	return nil
}

func (s *stubStore) Get(ctx context.Context, address string) (domain.TokenRecord, bool, error) {
	record, ok := s.records[address]
	return record, ok, nil
}

func (s *stubStore) RangeByRank(ctx context.Context, metric domain.Metric, period domain.Timeframe, dir domain.SortDir, start, count int) ([]string, error) {
	addresses := make([]string, 0, len(s.records))
	for address := range s.records {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		si := s.records[addresses[i]].Score(metric, period)
		sj := s.records[addresses[j]].Score(metric, period)
		if dir == domain.SortAsc {
			return si < sj
		}
		return si > sj
	})
	if start >= len(addresses) {
		return nil, nil
	}
	end := start + count + 1
	if end > len(addresses) {
		end = len(addresses)
	}
	return addresses[start:end], nil
}

func newTestRouter(records ...domain.TokenRecord) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := &stubStore{records: make(map[string]domain.TokenRecord)}
	for _, record := range records {
		store.records[record.Address] = record
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := service.NewTokenService(store, service.NewCursorCodec(), 100)
	h := NewTokenHandler(svc, 100, logger.WithField("component", "handler"))

	router := gin.New()
	tokens := router.Group("/v1/tokens")
	tokens.GET("", h.List)
	tokens.GET("/:address", h.Get)
	return router
}

func volumeToken(address string, volume24h float64) domain.TokenRecord {
	return domain.TokenRecord{
		Address: address,
		Symbol:  address,
		Volume: map[domain.Timeframe]*float64{
			domain.TimeframeDay: &volume24h,
		},
	}
}

func doRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListDefaults(t *testing.T) {
	router := newTestRouter(
		volumeToken("low", 10), volumeToken("high", 30), volumeToken("mid", 20),
	)

	rec := doRequest(t, router, "/v1/tokens")
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Items, 3)
	assert.Equal(t, "high", result.Items[0].Address, "defaults to volume desc over 24h")
	assert.Empty(t, result.NextCursor)
}

func TestListPagination(t *testing.T) {
	router := newTestRouter(
		volumeToken("low", 10), volumeToken("high", 30), volumeToken("mid", 20),
	)

	rec := doRequest(t, router, "/v1/tokens?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var page1 domain.ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page1))
	require.Len(t, page1.Items, 2)
	require.NotEmpty(t, page1.NextCursor)

	rec = doRequest(t, router, "/v1/tokens?limit=2&cursor="+page1.NextCursor)
	require.Equal(t, http.StatusOK, rec.Code)

	var page2 domain.ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page2))
	require.Len(t, page2.Items, 1)
	assert.Equal(t, "low", page2.Items[0].Address)
	assert.Empty(t, page2.NextCursor)
}

func TestListValidation(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name string
		path string
	}{
		{"limit not a number", "/v1/tokens?limit=abc"},
		{"limit too small", "/v1/tokens?limit=0"},
		{"limit too large", "/v1/tokens?limit=500"},
		{"unknown sortBy", "/v1/tokens?sortBy=holders"},
		{"unknown sortDir", "/v1/tokens?sortDir=sideways"},
		{"unknown period", "/v1/tokens?period=3d"},
		{"garbage cursor", "/v1/tokens?cursor=%25%25%25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, tt.path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetTokenFound(t *testing.T) {
	router := newTestRouter(volumeToken("abc123", 42))

	rec := doRequest(t, router, "/v1/tokens/abc123")
	require.Equal(t, http.StatusOK, rec.Code)

	var record domain.TokenRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "abc123", record.Address)
}

func TestGetTokenNotFound(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "/v1/tokens/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
