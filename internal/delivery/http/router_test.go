package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualbarcamp/internal/delivery/http/controllers"
	"virtualbarcamp/internal/delivery/http/helpers"
	"virtualbarcamp/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeVerifier map[string]*domain.Claims

func (f fakeVerifier) Verify(token string) (*domain.Claims, error) {
	if claims, ok := f[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

type fakeSettings struct {
	state domain.EventState
}

func (f *fakeSettings) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	return &domain.GlobalSettings{EventState: f.state}, nil
}

func (f *fakeSettings) TransitionEventState(ctx context.Context, to domain.EventState) (*domain.GlobalSettings, error) {
	f.state = to
	return &domain.GlobalSettings{EventState: to}, nil
}

func newTestRouter(settings *fakeSettings) http.Handler {
	verifier := fakeVerifier{
		"user":  {UserID: "0b4c8a5e-9d4e-4d47-9f0a-1a2b3c4d5e6f"},
		"staff": {UserID: "99999999-8888-4777-8666-555555555555", IsStaff: true},
	}
	cfg := RouterConfig{
		AllowedOrigins: []string{"https://barcamp.example"},
		CSRFKey:        []byte("0123456789abcdef0123456789abcdef"),
	}
	c := Controllers{
		Grid:          controllers.NewGridController(testLogger, nil),
		Settings:      controllers.NewSettingsController(testLogger, settings, nil),
		Subscriptions: controllers.NewSubscriptionController(testLogger, nil, nil, cfg.AllowedOrigins),
	}
	return NewRouter(cfg, c, verifier, testLogger)
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		token        string
		body         string
		wantStatus   int
		wantBodyCode string
	}{
		{name: "health check", method: http.MethodGet, path: "/up", wantStatus: http.StatusOK},
		{name: "grid requires auth", method: http.MethodGet, path: "/grid", wantStatus: http.StatusUnauthorized, wantBodyCode: helpers.ErrCodeUnauthorized},
		{name: "bad token", method: http.MethodGet, path: "/settings", token: "nope", wantStatus: http.StatusUnauthorized, wantBodyCode: helpers.ErrCodeUnauthorized},
		{name: "settings for users", method: http.MethodGet, path: "/settings", token: "user", wantStatus: http.StatusOK},
		{name: "event state is staff only", method: http.MethodPost, path: "/settings/event-state", token: "user", body: `{"event_state":"GRID_OPEN"}`, wantStatus: http.StatusForbidden, wantBodyCode: helpers.ErrCodeForbidden},
		{name: "staff opens the grid", method: http.MethodPost, path: "/settings/event-state", token: "staff", body: `{"event_state":"GRID_OPEN"}`, wantStatus: http.StatusOK},
		{name: "subscriptions require auth", method: http.MethodGet, path: "/subscriptions", wantStatus: http.StatusUnauthorized, wantBodyCode: helpers.ErrCodeUnauthorized},
		{name: "wrong method", method: http.MethodPut, path: "/grid", token: "user", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := &fakeSettings{state: domain.EventStateDraft}
			router := newTestRouter(settings)

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, body)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestRouter_CSRFOnCookieForms(t *testing.T) {
	router := newTestRouter(&fakeSettings{state: domain.EventStateDraft})

	req := httptest.NewRequest(http.MethodPost, "http://test/settings/event-state", strings.NewReader("event_state=GRID_OPEN"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "staff"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(&fakeSettings{})

	req := httptest.NewRequest(http.MethodOptions, "http://test/grid/talks", nil)
	req.Header.Set("Origin", "https://barcamp.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "https://barcamp.example", rr.Header().Get("Access-Control-Allow-Origin"))
}
