package requestid

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

// ContextKey is the request-context key platformerrors reads the id from.
const ContextKey = "requestID"

// HeaderName carries the id back to the client for support workflows.
const HeaderName = "X-Request-ID"

var (
	entropyOnce sync.Once
	entropy     *ulid.MonotonicEntropy
)

func newEntropy() *ulid.MonotonicEntropy {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	return entropy
}

// New returns a req_* ULID string.
func New() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), newEntropy())
	return "req_" + strings.ToLower(id.String())
}

// IsValid reports whether the string is a req_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, "req_") {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// Parse strips the req_ prefix and returns the ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "req_")
	value = strings.TrimPrefix(value, "REQ_")
	return ulid.Parse(value)
}

// Middleware assigns each request a fresh id, stores it where the error
// layer expects it, and echoes it in the response headers.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := New()
		ctx := context.WithValue(c.Request.Context(), ContextKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderName, id)
		c.Next()
	}
}
