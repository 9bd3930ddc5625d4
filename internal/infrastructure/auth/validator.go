package auth

import (
	"context"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/schmic75-gasos/fody/internal/config"
)

// SessionCookie is the cookie mobile clients carry the token in.
const SessionCookie = "fody_session"

// debugIdentityHeader lets development setups exercise the pipeline without a
// token. Only honored when auth is disabled.
const debugIdentityHeader = "X-Debug-Identity"

// Validator resolves the caller's identity from JWTs using JWKS. Absence of
// an identity is a normal outcome; handlers decide whether it is fatal.
type Validator struct {
	cfg  *config.Config
	log  zerolog.Logger
	jwks *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	if !cfg.AuthEnabled {
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:  cfg,
		log:  log,
		jwks: jwks,
	}, nil
}

// Identity returns the caller's identity name, or false when the request
// carries no valid session.
func (v *Validator) Identity(c *gin.Context) (string, bool) {
	if v == nil {
		return "", false
	}

	if !v.cfg.AuthEnabled {
		if name := strings.TrimSpace(c.GetHeader(debugIdentityHeader)); name != "" {
			return name, true
		}
		return "", false
	}

	tokenString := bearerToken(c.GetHeader("Authorization"))
	if tokenString == "" {
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			tokenString = strings.TrimSpace(cookie)
		}
	}
	if tokenString == "" {
		return "", false
	}

	token, err := jwt.Parse(tokenString, v.jwks.Keyfunc,
		jwt.WithIssuer(v.cfg.AuthIssuer),
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	)
	if err != nil || !token.Valid {
		v.log.Debug().Err(err).Msg("token validation failed")
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}

	if audience := strings.TrimSpace(v.cfg.AuthAudience); audience != "" {
		if !audienceMatches(claims, audience) {
			return "", false
		}
	}

	if name, _ := claims["preferred_username"].(string); name != "" {
		return name, true
	}
	if sub, _ := claims["sub"].(string); sub != "" {
		return sub, true
	}
	return "", false
}

// Ready indicates if the validator is prepared.
func (v *Validator) Ready() bool {
	if v == nil || !v.cfg.AuthEnabled {
		return true
	}
	return v.jwks != nil
}

func audienceMatches(claims jwt.MapClaims, audience string) bool {
	audClaim, hasAud := claims["aud"]
	if !hasAud {
		return true
	}
	switch aud := audClaim.(type) {
	case string:
		return aud == audience
	case []any:
		for _, entry := range aud {
			if s, ok := entry.(string); ok && s == audience {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
