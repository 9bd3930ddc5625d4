package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/schmic75-gasos/fody/internal/config"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func TestIdentityWithAuthDisabledUsesDebugHeader(t *testing.T) {
	v := &Validator{cfg: &config.Config{AuthEnabled: false}, log: zerolog.Nop()}

	c, _ := testContext(t)
	if name, ok := v.Identity(c); ok || name != "" {
		t.Errorf("Identity() = (%q, %v), want absent", name, ok)
	}

	c, _ = testContext(t)
	c.Request.Header.Set("X-Debug-Identity", "walker")
	name, ok := v.Identity(c)
	if !ok || name != "walker" {
		t.Errorf("Identity() = (%q, %v), want (walker, true)", name, ok)
	}
}

func TestIdentityWithAuthEnabledRejectsMissingToken(t *testing.T) {
	v := &Validator{cfg: &config.Config{AuthEnabled: true}, log: zerolog.Nop()}

	c, _ := testContext(t)
	c.Request.Header.Set("X-Debug-Identity", "walker") // ignored when auth is on
	if name, ok := v.Identity(c); ok {
		t.Errorf("Identity() = (%q, %v), want rejection without a token", name, ok)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"Bearer  abc ", "abc"},
	}

	for _, tt := range tests {
		if got := bearerToken(tt.header); got != tt.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestAudienceMatches(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   bool
	}{
		{"no aud claim", jwt.MapClaims{}, true},
		{"matching string", jwt.MapClaims{"aud": "fody"}, true},
		{"wrong string", jwt.MapClaims{"aud": "other"}, false},
		{"list containing audience", jwt.MapClaims{"aud": []any{"other", "fody"}}, true},
		{"list without audience", jwt.MapClaims{"aud": []any{"other"}}, false},
		{"unexpected type", jwt.MapClaims{"aud": 42}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := audienceMatches(tt.claims, "fody"); got != tt.want {
				t.Errorf("audienceMatches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReady(t *testing.T) {
	disabled := &Validator{cfg: &config.Config{AuthEnabled: false}}
	if !disabled.Ready() {
		t.Error("validator with auth disabled must always be ready")
	}

	unprimed := &Validator{cfg: &config.Config{AuthEnabled: true}}
	if unprimed.Ready() {
		t.Error("validator without JWKS must not be ready")
	}
}
