package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/lore-backend/internal/platform/apierr"
	"github.com/yungbote/lore-backend/internal/platform/envutil"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

// Identity is the caller as asserted by the external identity provider.
type Identity struct {
	UserID string
	Email  string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type Config struct {
	JWKSURL    string
	Issuer     string
	Audience   string
	HMACSecret string
	Leeway     time.Duration
	JWKSTTL    time.Duration
}

func LoadConfig() Config {
	return Config{
		JWKSURL:    envutil.String("AUTH_JWKS_URL", ""),
		Issuer:     envutil.String("AUTH_ISSUER", ""),
		Audience:   envutil.String("AUTH_AUDIENCE", ""),
		HMACSecret: envutil.String("AUTH_JWT_SECRET", ""),
		Leeway:     envutil.Duration("AUTH_LEEWAY", 30*time.Second),
		JWKSTTL:    envutil.Duration("AUTH_JWKS_TTL", 6*time.Hour),
	}
}

type verifier struct {
	log     *logger.Logger
	cfg     Config
	jwks    *jwksCache
	methods []string
}

// NewVerifier prefers the JWKS endpoint; AUTH_JWT_SECRET (HS256) is the local-dev fallback.
func NewVerifier(log *logger.Logger, cfg Config, httpClient *http.Client) (Verifier, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	v := &verifier{log: log.With("service", "IdentityVerifier"), cfg: cfg}
	switch {
	case strings.TrimSpace(cfg.JWKSURL) != "":
		v.jwks = newJWKSCache(httpClient, cfg.JWKSURL, cfg.JWKSTTL)
		v.methods = []string{"RS256", "ES256"}
	case strings.TrimSpace(cfg.HMACSecret) != "":
		v.methods = []string{"HS256"}
		v.log.Warn("identity verifier using shared HMAC secret; set AUTH_JWKS_URL in production")
	default:
		return nil, fmt.Errorf("identity: AUTH_JWKS_URL or AUTH_JWT_SECRET is required")
	}
	return v, nil
}

func (v *verifier) Verify(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apierr.ErrUnauthenticated
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.cfg.Leeway),
		jwt.WithIssuedAt(),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if v.jwks == nil {
			return []byte(v.cfg.HMACSecret), nil
		}
		kid, _ := t.Header["kid"].(string)
		if strings.TrimSpace(kid) == "" {
			return nil, errors.New("missing kid")
		}
		return v.jwks.getKey(ctx, kid)
	})
	if err != nil {
		v.log.Debug("token rejected", "error", err)
		return nil, fmt.Errorf("%w: %v", apierr.ErrUnauthenticated, err)
	}

	sub, _ := claims.GetSubject()
	if strings.TrimSpace(sub) == "" {
		return nil, fmt.Errorf("%w: missing sub", apierr.ErrUnauthenticated)
	}
	out := &Identity{UserID: sub}
	if email, _ := claims["email"].(string); strings.TrimSpace(email) != "" {
		out.Email = strings.TrimSpace(email)
	}
	return out, nil
}
