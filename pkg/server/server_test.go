package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ahmadsufyan455/star-one/pkg/feedback"
	"github.com/ahmadsufyan455/star-one/pkg/model"
	"github.com/ahmadsufyan455/star-one/pkg/pipeline"
	"github.com/ahmadsufyan455/star-one/pkg/quota"
)

type fakeService struct {
	report   *model.AnalysisReport
	err      error
	identity string
}

func (f *fakeService) Analyze(_ context.Context, identity string, _ model.AnalysisRequest) (*model.AnalysisReport, error) {
	f.identity = identity
	return f.report, f.err
}

func newTestServer(service AnalysisService) (*Server, *feedback.MemoryStore, *quota.Tracker) {
	store := feedback.NewMemoryStore()
	tracker := quota.New(2, 24*time.Hour)
	return New(service, tracker, store, nil), store, tracker
}

func postJSON(handler http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestAnalyzeSuccess(t *testing.T) {
	service := &fakeService{report: &model.AnalysisReport{
		AppInfo: model.AppInfo{AppName: "Example", Free: true},
	}}
	srv, _, _ := newTestServer(service)

	resp := postJSON(srv.Router(), "/api/analyze",
		map[string]string{"appId": "com.example.app"},
		map[string]string{identityHeader: "a@example.com"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "a@example.com", service.identity)

	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Equal(t, "Example", out["appName"])
}

func TestAnalyzeAnonymousIdentity(t *testing.T) {
	service := &fakeService{report: &model.AnalysisReport{}}
	srv, _, _ := newTestServer(service)

	resp := postJSON(srv.Router(), "/api/analyze", map[string]string{"appId": "x"}, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, pipeline.AnonymousIdentity, service.identity)
}

func TestAnalyzeErrorMapping(t *testing.T) {
	cases := []struct {
		kind   pipeline.Kind
		status int
	}{
		{pipeline.KindInvalidRequest, http.StatusBadRequest},
		{pipeline.KindAppNotFound, http.StatusNotFound},
		{pipeline.KindReviewsUnavailable, http.StatusServiceUnavailable},
		{pipeline.KindInsufficientData, http.StatusUnprocessableEntity},
		{pipeline.KindGenerationFailed, http.StatusInternalServerError},
		{pipeline.KindQuotaExceeded, http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		service := &fakeService{err: &pipeline.Error{Kind: tc.kind, Details: "details"}}
		srv, _, _ := newTestServer(service)

		resp := postJSON(srv.Router(), "/api/analyze", map[string]string{"appId": "x"}, nil)
		require.Equal(t, tc.status, resp.Code, tc.kind.Label())

		var out model.ErrorResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
		require.Equal(t, tc.kind.Label(), out.Error)
	}
}

func TestAnalyzeUnexpectedErrorHidesDetail(t *testing.T) {
	service := &fakeService{err: context.DeadlineExceeded}
	srv, _, _ := newTestServer(service)

	resp := postJSON(srv.Router(), "/api/analyze", map[string]string{"appId": "x"}, nil)
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var out model.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Equal(t, "Internal server error", out.Error)
	require.NotContains(t, out.Details, "deadline")
}

func TestAnalyzeBadBody(t *testing.T) {
	srv, _, _ := newTestServer(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader([]byte("not json")))
	resp := httptest.NewRecorder()
	srv.Router().ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestFeedback(t *testing.T) {
	srv, store, _ := newTestServer(&fakeService{})

	resp := postJSON(srv.Router(), "/api/feedback",
		map[string]any{"email": "a@example.com", "rating": 4, "feedback": "  nice tool  "}, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	entries := store.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "a@example.com", entries[0].Email)
	require.Equal(t, 4, entries[0].Rating)
	require.Equal(t, "nice tool", entries[0].Feedback)
}

func TestFeedbackValidation(t *testing.T) {
	srv, store, _ := newTestServer(&fakeService{})

	for _, body := range []map[string]any{
		{"rating": 4},
		{"feedback": "missing rating"},
		{"rating": 0, "feedback": "zero"},
		{"rating": 6, "feedback": "out of range"},
	} {
		resp := postJSON(srv.Router(), "/api/feedback", body, nil)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	}
	require.Empty(t, store.Entries())
}

func TestQuotaEndpoint(t *testing.T) {
	srv, _, tracker := newTestServer(&fakeService{})
	tracker.Record("a@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/quota", nil)
	req.Header.Set(identityHeader, "a@example.com")
	resp := httptest.NewRecorder()
	srv.Router().ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var out map[string]int
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Equal(t, 1, out["used"])
	require.Equal(t, 1, out["remaining"])
	require.Equal(t, 2, out["limit"])
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	srv.Router().ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
}
