package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveCORS(cfg CORSConfig, method, origin string) *httptest.ResponseRecorder {
	h := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("view"))
	}))
	req := httptest.NewRequest(method, "/api/v1/sessions", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCORS_AllowOrigin(t *testing.T) {
	caixa := "https://caixa.padaria.local"

	tests := []struct {
		name       string
		cfg        CORSConfig
		origin     string
		wantOrigin string
		wantVary   bool
	}{
		{
			name:       "development wildcard",
			cfg:        CORSConfig{AllowedOrigins: []string{"*"}, Environment: "development"},
			origin:     "https://anywhere.test",
			wantOrigin: "*",
		},
		{
			name:       "development without origin header",
			cfg:        CORSConfig{Environment: "development"},
			wantOrigin: "*",
		},
		{
			name:       "listed register origin",
			cfg:        CORSConfig{AllowedOrigins: []string{"http://localhost:3000", caixa}, Environment: "production"},
			origin:     caixa,
			wantOrigin: caixa,
			wantVary:   true,
		},
		{
			name:   "unlisted origin in production",
			cfg:    CORSConfig{AllowedOrigins: []string{caixa}, Environment: "production"},
			origin: "https://anywhere.test",
		},
		{
			name: "no origin in production",
			cfg:  CORSConfig{AllowedOrigins: []string{caixa}, Environment: "production"},
		},
		{
			name:       "wildcard listed in production",
			cfg:        CORSConfig{AllowedOrigins: []string{caixa, "*"}, Environment: "production"},
			origin:     "https://anywhere.test",
			wantOrigin: "*",
		},
		{
			name:       "credentialed wildcard echoes origin",
			cfg:        CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true, Environment: "development"},
			origin:     "http://localhost:5000",
			wantOrigin: "http://localhost:5000",
			wantVary:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveCORS(tt.cfg, http.MethodGet, tt.origin)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantVary {
				assert.Equal(t, "Origin", rr.Header().Get("Vary"))
			} else {
				assert.Empty(t, rr.Header().Get("Vary"))
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	rr := serveCORS(DefaultCORSConfig(), http.MethodOptions, "http://localhost:3000")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Accept, Content-Type, X-Correlation-ID", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Correlation-ID", rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_CustomHeaders(t *testing.T) {
	rr := serveCORS(CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedHeaders:   []string{"Content-Type", "X-Operator"},
		MaxAge:           600,
		AllowCredentials: true,
		Environment:      "production",
	}, http.MethodGet, "http://localhost:3000")

	assert.Equal(t, "Content-Type, X-Operator", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Empty(t, rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "view", rr.Body.String())
}
