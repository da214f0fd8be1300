package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

// Config holds JWT verification settings.
type Config struct {
	Secret    string
	Issuer    string
	ExpiresIn time.Duration
}

// Claims represents the JWT payload.
type Claims struct {
	Role  string `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider verifies HS256 bearer tokens and keeps role claims in Redis.
// A Redis claim overrides the role carried by the token, so role changes
// take effect without reissuing credentials.
type JWTProvider struct {
	cfg Config
	rdb redis.UniversalClient
}

// NewJWTProvider creates an identity provider backed by rdb.
func NewJWTProvider(cfg Config, rdb redis.UniversalClient) *JWTProvider {
	return &JWTProvider{cfg: cfg, rdb: rdb}
}

func claimKey(uid string) string {
	return "claims:" + uid
}

// Verify validates the token and overlays the stored role claim.
func (p *JWTProvider) Verify(ctx context.Context, token string) (domain.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if p.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.cfg.Issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(p.cfg.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, port.ErrTokenExpired
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", port.ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return domain.Identity{}, port.ErrTokenInvalid
	}

	id := domain.Identity{
		UID:   claims.Subject,
		Role:  domain.RoleOrDefault(claims.Role),
		Name:  claims.Name,
		Email: claims.Email,
	}

	role, err := p.roleClaim(ctx, claims.Subject)
	switch {
	case err == nil:
		id.Role = role
	case errors.Is(err, port.ErrClaimStoreNotFound):
	default:
		slog.Warn("role claim lookup failed, using token role", "uid", claims.Subject, "error", err)
	}
	return id, nil
}

// SetRoleClaim stores the role for later verifications.
func (p *JWTProvider) SetRoleClaim(ctx context.Context, uid string, role domain.Role) error {
	if err := p.rdb.HSet(ctx, claimKey(uid), "role", string(role)).Err(); err != nil {
		return fmt.Errorf("set role claim: %w", err)
	}
	return nil
}

func (p *JWTProvider) roleClaim(ctx context.Context, uid string) (domain.Role, error) {
	v, err := p.rdb.HGet(ctx, claimKey(uid), "role").Result()
	if errors.Is(err, redis.Nil) {
		return "", port.ErrClaimStoreNotFound
	}
	if err != nil {
		return "", err
	}
	return domain.RoleOrDefault(v), nil
}

// IssueToken signs a token for uid. Used by the admin CLI and tests.
func (p *JWTProvider) IssueToken(uid string, role domain.Role, name, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:  string(role),
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    p.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.cfg.ExpiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
