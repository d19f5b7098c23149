// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig_Development(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, true, 9090)

	assert.Len(t, cfg.AuthKey, 32)
	assert.Equal(t, []string{"localhost:9090", "127.0.0.1:9090"}, cfg.TrustedOrigins)
	for _, origin := range cfg.TrustedOrigins {
		assert.False(t, strings.HasPrefix(origin, "http"), "origins are host:port, not URLs")
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false, 8080)
	assert.Empty(t, cfg.TrustedOrigins)
}

func TestCSRF_RejectsCrossSitePost(t *testing.T) {
	var rejected bool
	cfg := DefaultCSRFConfig(testAuthKey, false, 8080)
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		rejected = true
		http.Error(w, "forbidden", http.StatusForbidden)
	})
	handler := CSRF(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/view/kpis", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, rejected)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRF_AllowsSameOriginAndSafeRequests(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testAuthKey, false, 8080))(okHandler())

	tests := []struct {
		name   string
		method string
		site   string
	}{
		{"same-origin post", http.MethodPost, "same-origin"},
		{"cross-site get", http.MethodGet, "cross-site"},
		{"non-browser post", http.MethodPost, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/dashboard/sidebar", nil)
			if tt.site != "" {
				req.Header.Set("Sec-Fetch-Site", tt.site)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
