package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewProducesValidIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if !IsValid(id) {
			t.Fatalf("New() produced invalid id %q", id)
		}
		if seen[id] {
			t.Fatalf("New() produced duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"missing prefix", "01h2xcejqtf2nbrexx3vqjhp41", false},
		{"wrong prefix", "jan_01h2xcejqtf2nbrexx3vqjhp41", false},
		{"garbage suffix", "req_not-a-ulid", false},
		{"empty", "", false},
		{"valid", "req_01h2xcejqtf2nbrexx3vqjhp41", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.value); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestMiddlewareInjectsIDIntoContextAndHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())

	var fromCtx string
	r.GET("/", func(c *gin.Context) {
		fromCtx, _ = c.Request.Context().Value(ContextKey).(string)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if !IsValid(fromCtx) {
		t.Errorf("context id %q is not a valid request id", fromCtx)
	}
	if got := w.Header().Get(HeaderName); got != fromCtx {
		t.Errorf("header id %q differs from context id %q", got, fromCtx)
	}
}
