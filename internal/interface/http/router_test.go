package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/brew-advisor/internal/domain/feedback"
	"github.com/yanqian/brew-advisor/internal/domain/recommendation"
	"github.com/yanqian/brew-advisor/internal/infra/config"
	apperrors "github.com/yanqian/brew-advisor/pkg/errors"
)

func TestRouter_RecommendSuccess(t *testing.T) {
	resp := recommendation.Response{RecommendedBeverage: "Iced Tea", Reason: "Refreshing."}
	svc := &stubRecommender{
		recommendFn: func(ctx context.Context, req recommendation.ManualRequest) (recommendation.Response, error) {
			require.Equal(t, "Hot", req.Weather)
			require.Equal(t, "Happy", req.Mood)
			require.NotNil(t, req.Temperature)
			require.InDelta(t, 32, *req.Temperature, 0.001)
			return resp, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/beverages/recommend",
		`{"weather":"Hot","mood":"Happy","temperature":32,"humidity":40}`, newRouterUnderTest(t, svc, &stubFeedback{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got recommendation.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, resp.RecommendedBeverage, got.RecommendedBeverage)
	require.Equal(t, resp.Reason, got.Reason)
}

func TestRouter_RecommendInvalidJSON(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/v1/beverages/recommend",
		`{"weather":123}`, newRouterUnderTest(t, &stubRecommender{}, &stubFeedback{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_RecommendErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", apperrors.Wrap(apperrors.CodeInvalidInput, "mood must be one of the known moods", nil), http.StatusBadRequest, "invalid_request"},
		{"predictor down", apperrors.Wrap(apperrors.CodePredictionUnavailable, "prediction failed", errors.New("timeout")), http.StatusBadGateway, "prediction_unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "recommendation_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubRecommender{
				recommendFn: func(ctx context.Context, req recommendation.ManualRequest) (recommendation.Response, error) {
					return recommendation.Response{}, tc.err
				},
			}
			recorder := performRequest(http.MethodPost, "/api/v1/beverages/recommend", `{}`, newRouterUnderTest(t, svc, &stubFeedback{}))
			require.Equal(t, tc.status, recorder.Code)
			errBody := decodeErrorBody(t, recorder.Body.Bytes())
			require.Equal(t, tc.code, errBody["error"]["code"])
		})
	}
}

func TestRouter_RecommendByLocation(t *testing.T) {
	svc := &stubRecommender{
		locationFn: func(ctx context.Context, req recommendation.LocationRequest) (recommendation.Response, error) {
			require.NotNil(t, req.Latitude)
			require.InDelta(t, 26.2, *req.Latitude, 0.001)
			return recommendation.Response{RecommendedBeverage: "Masala Chai"}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/beverages/recommend-location",
		`{"latitude":26.2,"longitude":73.0,"mood":"Tired"}`, newRouterUnderTest(t, svc, &stubFeedback{}))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "Masala Chai")
}

func TestRouter_SubmitFeedback(t *testing.T) {
	fb := &stubFeedback{
		submitFn: func(ctx context.Context, req feedback.SubmitRequest) (feedback.SubmitResponse, error) {
			require.Equal(t, "Hot Chocolate", req.RecommendedBeverage)
			require.NotNil(t, req.Liked)
			require.False(t, *req.Liked)
			return feedback.SubmitResponse{Success: true, FeedbackID: "abc"}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/beverages/feedback",
		`{"recommended_beverage":"Hot Chocolate","liked":false,"weather":"Cold"}`, newRouterUnderTest(t, &stubRecommender{}, fb))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got feedback.SubmitResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.True(t, got.Success)
	require.Equal(t, "abc", got.FeedbackID)
}

func TestRouter_SubmitFeedbackPersistenceFailure(t *testing.T) {
	fb := &stubFeedback{
		submitFn: func(ctx context.Context, req feedback.SubmitRequest) (feedback.SubmitResponse, error) {
			return feedback.SubmitResponse{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "feedback could not be recorded", errors.New("disk full"))
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/beverages/feedback",
		`{"recommended_beverage":"Tea","liked":true}`, newRouterUnderTest(t, &stubRecommender{}, fb))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "persistence_failure", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "disk full")
}

func TestRouter_FeedbackStats(t *testing.T) {
	fb := &stubFeedback{
		reportFn: func(ctx context.Context) (feedback.Report, error) {
			return feedback.Report{Statistics: feedback.Statistics{Total: 3, Satisfied: 2}, Message: "ok"}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/beverages/feedback/stats", "", newRouterUnderTest(t, &stubRecommender{}, fb))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got feedback.Report
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, 3, got.Statistics.Total)
	require.Equal(t, 2, got.Statistics.Satisfied)
}

func TestRouter_ExportFeedbackFailure(t *testing.T) {
	fb := &stubFeedback{
		exportFn: func(ctx context.Context) (feedback.ExportResponse, error) {
			return feedback.ExportResponse{}, apperrors.Wrap(apperrors.CodeExportFailure, "snapshot upload failed", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/beverages/feedback/export", "", newRouterUnderTest(t, &stubRecommender{}, fb))
	require.Equal(t, http.StatusBadGateway, recorder.Code)
	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "export_failure", errBody["error"]["code"])
}

func TestRouter_Vocabularies(t *testing.T) {
	server := newRouterUnderTest(t, &stubRecommender{}, &stubFeedback{})

	recorder := performRequest(http.MethodGet, "/api/v1/beverages/moods", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	var moods map[string][]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &moods))
	require.Len(t, moods["moods"], 8)
	require.Equal(t, "Happy", moods["moods"][0])

	recorder = performRequest(http.MethodGet, "/api/v1/beverages/weather-types", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	var types map[string][]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &types))
	require.Len(t, types["weatherTypes"], 9)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	server := newRouterUnderTest(t, &stubRecommender{}, &stubFeedback{})

	recorder := performRequest(http.MethodGet, "/health", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())

	recorder = performRequest(http.MethodGet, "/metrics", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/beverages/recommend", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	newRouterUnderTest(t, &stubRecommender{}, &stubFeedback{}).Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimit(t *testing.T) {
	handler := NewHandler(&stubRecommender{}, &stubFeedback{}, newTestLogger())
	cfg := testConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 2}
	server := NewRouter(cfg, handler)

	for i := 0; i < 2; i++ {
		recorder := performRequest(http.MethodGet, "/api/v1/beverages/moods", "", server)
		require.Equal(t, http.StatusOK, recorder.Code)
	}
	recorder := performRequest(http.MethodGet, "/api/v1/beverages/moods", "", server)
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
	require.Equal(t, "60", recorder.Header().Get("Retry-After"))

	recorder = performRequest(http.MethodGet, "/health", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestIPRateLimiterRefillsPerAddress(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 1}, func() time.Time { return now })

	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.2"))

	now = now.Add(time.Second)
	require.True(t, limiter.allow("10.0.0.1"))

	now = now.Add(10 * time.Minute)
	require.True(t, limiter.allow("10.0.0.3"))
	require.Len(t, limiter.visitors, 1)
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
}

func newRouterUnderTest(t *testing.T, recommender recommendation.Service, fb feedback.Service) *http.Server {
	t.Helper()
	handler := NewHandler(recommender, fb, newTestLogger())
	return NewRouter(testConfig(), handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubRecommender struct {
	recommendFn func(ctx context.Context, req recommendation.ManualRequest) (recommendation.Response, error)
	locationFn  func(ctx context.Context, req recommendation.LocationRequest) (recommendation.Response, error)
}

func (s *stubRecommender) Recommend(ctx context.Context, req recommendation.ManualRequest) (recommendation.Response, error) {
	if s.recommendFn != nil {
		return s.recommendFn(ctx, req)
	}
	return recommendation.Response{}, nil
}

func (s *stubRecommender) RecommendByLocation(ctx context.Context, req recommendation.LocationRequest) (recommendation.Response, error) {
	if s.locationFn != nil {
		return s.locationFn(ctx, req)
	}
	return recommendation.Response{}, nil
}

type stubFeedback struct {
	submitFn func(ctx context.Context, req feedback.SubmitRequest) (feedback.SubmitResponse, error)
	reportFn func(ctx context.Context) (feedback.Report, error)
	exportFn func(ctx context.Context) (feedback.ExportResponse, error)
}

func (s *stubFeedback) Submit(ctx context.Context, req feedback.SubmitRequest) (feedback.SubmitResponse, error) {
	if s.submitFn != nil {
		return s.submitFn(ctx, req)
	}
	return feedback.SubmitResponse{}, nil
}

func (s *stubFeedback) Report(ctx context.Context) (feedback.Report, error) {
	if s.reportFn != nil {
		return s.reportFn(ctx)
	}
	return feedback.Report{}, nil
}

func (s *stubFeedback) Export(ctx context.Context) (feedback.ExportResponse, error) {
	if s.exportFn != nil {
		return s.exportFn(ctx)
	}
	return feedback.ExportResponse{}, nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestResolveOrigin(t *testing.T) {
	require.Equal(t, "*", resolveOrigin("http://a.test", nil))
	require.Equal(t, "http://b.test", resolveOrigin("http://B.test", []string{"http://a.test", "http://b.test"}))
	require.Equal(t, "http://a.test", resolveOrigin("http://evil.test", []string{"http://a.test"}))
}
