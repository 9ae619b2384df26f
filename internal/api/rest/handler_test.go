package rest_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-smartdial/internal/api/middleware"
	"github.com/feral-file/ff-smartdial/internal/api/rest"
	"github.com/feral-file/ff-smartdial/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-smartdial/internal/api/shared/errors"
	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/mocks"
)

const testAPIKey = "test-api-key"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(t *testing.T) (*gin.Engine, *mocks.MockAPIExecutor) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	exec := mocks.NewMockAPIExecutor(ctrl)
	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(exec), middleware.AuthConfig{APIKeys: []string{testAPIKey}})
	return router, exec
}

func serve(router *gin.Engine, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(t)

	w := serve(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"ff-smartdial"}`, w.Body.String())
}

func TestLookup(t *testing.T) {
	t.Run("returns confirmed matches", func(t *testing.T) {
		router, exec := setupRouter(t)

		exec.EXPECT().Lookup(gomock.Any(), "266", domain.MAX_RESULTS).Return(&dto.LookupResponse{
			Results: []domain.ConfirmedMatch{{
				EntryID:     1,
				ContactID:   7,
				LookupKey:   "ann-lee",
				DisplayName: "Ann Lee",
				PhoneNumber: "555-1234",
				NameSpans:   []domain.Span{{Start: 0, End: 3}},
			}},
		})

		w := serve(router, http.MethodGet, "/api/v1/lookup?q=266", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.LookupResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "Ann Lee", resp.Results[0].DisplayName)
		assert.Equal(t, []domain.Span{{Start: 0, End: 3}}, resp.Results[0].NameSpans)
		assert.False(t, resp.Syncing)
	})

	t.Run("reports syncing", func(t *testing.T) {
		router, exec := setupRouter(t)

		exec.EXPECT().Lookup(gomock.Any(), "5551", 5).Return(&dto.LookupResponse{
			Results: []domain.ConfirmedMatch{},
			Syncing: true,
		})

		w := serve(router, http.MethodGet, "/api/v1/lookup?q=5551&limit=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"results":[],"syncing":true}`, w.Body.String())
	})

	t.Run("empty query is passed through", func(t *testing.T) {
		router, exec := setupRouter(t)

		exec.EXPECT().Lookup(gomock.Any(), "", domain.MAX_RESULTS).Return(&dto.LookupResponse{Results: []domain.ConfirmedMatch{}})

		w := serve(router, http.MethodGet, "/api/v1/lookup", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		router, _ := setupRouter(t)

		for _, target := range []string{
			"/api/v1/lookup?q=2&limit=0",
			"/api/v1/lookup?q=2&limit=21",
			"/api/v1/lookup?q=2&limit=abc",
			"/api/v1/lookup?q=" + strings.Repeat("2", 65),
		} {
			w := serve(router, http.MethodGet, target, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, target)
			assert.Equal(t, apierrors.ErrCodeValidationFailed, decodeAPIError(t, w).Code, target)
		}
	})
}

func TestTriggerSync(t *testing.T) {
	t.Run("accepted with api key", func(t *testing.T) {
		router, exec := setupRouter(t)

		exec.EXPECT().TriggerSync(gomock.Any()).Return(&dto.TriggerSyncResponse{Accepted: true})

		w := serve(router, http.MethodPost, "/api/v1/sync", http.Header{
			"Authorization": []string{"ApiKey " + testAPIKey},
		})
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.JSONEq(t, `{"accepted":true}`, w.Body.String())
	})

	t.Run("dropped while a pass is in flight", func(t *testing.T) {
		router, exec := setupRouter(t)

		exec.EXPECT().TriggerSync(gomock.Any()).Return(&dto.TriggerSyncResponse{Accepted: false})

		w := serve(router, http.MethodPost, "/api/v1/sync", http.Header{
			"Authorization": []string{"ApiKey " + testAPIKey},
		})
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.JSONEq(t, `{"accepted":false}`, w.Body.String())
	})

	t.Run("requires authentication", func(t *testing.T) {
		router, _ := setupRouter(t)

		for _, header := range []http.Header{
			nil,
			{"Authorization": []string{"ApiKey wrong"}},
			{"Authorization": []string{"Bearer not-a-jwt"}},
		} {
			w := serve(router, http.MethodPost, "/api/v1/sync", header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, apierrors.ErrCodeUnauthorized, decodeAPIError(t, w).Code)
		}
	})
}

func TestGetSyncStatus(t *testing.T) {
	t.Run("default runs limit", func(t *testing.T) {
		router, exec := setupRouter(t)

		exec.EXPECT().GetSyncStatus(gomock.Any(), 10).Return(&dto.SyncStatusResponse{
			State:      "idle",
			Watermark:  42,
			Index:      dto.IndexStatsResponse{Entries: 3, Prefixes: 30, Contacts: 2},
			RecentRuns: []dto.SyncRunResponse{},
		}, nil)

		w := serve(router, http.MethodGet, "/api/v1/sync/status", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.SyncStatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "idle", resp.State)
		assert.Equal(t, int64(42), resp.Watermark)
		assert.Equal(t, int64(2), resp.Index.Contacts)
	})

	t.Run("runs limit is capped", func(t *testing.T) {
		router, exec := setupRouter(t)

		exec.EXPECT().GetSyncStatus(gomock.Any(), 50).Return(&dto.SyncStatusResponse{State: "syncing"}, nil)

		w := serve(router, http.MethodGet, "/api/v1/sync/status?runs.limit=500", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative runs limit", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := serve(router, http.MethodGet, "/api/v1/sync/status?runs.limit=-1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		router, exec := setupRouter(t)

		exec.EXPECT().GetSyncStatus(gomock.Any(), 10).
			Return(nil, apierrors.NewDatabaseError("Failed to read watermark: disk I/O error"))

		w := serve(router, http.MethodGet, "/api/v1/sync/status", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, apierrors.ErrCodeDatabaseError, decodeAPIError(t, w).Code)
	})

	t.Run("unexpected failure", func(t *testing.T) {
		router, exec := setupRouter(t)

		exec.EXPECT().GetSyncStatus(gomock.Any(), 10).Return(nil, errors.New("boom"))

		w := serve(router, http.MethodGet, "/api/v1/sync/status", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		apiErr := decodeAPIError(t, w)
		assert.Equal(t, apierrors.ErrCodeInternalError, apiErr.Code)
		assert.Equal(t, "Failed to get sync status", apiErr.Message)
	})
}
