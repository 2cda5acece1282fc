package tokens

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"spendly/internal/shared/clock"
	"spendly/internal/shared/config"
)

// ErrInvalidToken is the single error every token validation failure
// collapses to: bad signature, wrong issuer or audience, expiry,
// unknown refresh token, owner mismatch. Callers translate it
// uniformly to an unauthorized response without learning which check
// failed.
var ErrInvalidToken = errors.New("invalid token")

const refreshTokenBytes = 32

// Manager mints access+refresh token pairs, persists and rotates them
// in the ledger, and validates presented tokens. It is constructed
// once and shared across request handlers; the embedded cache is safe
// for concurrent use.
type Manager struct {
	cfg    config.JWTConfig
	secret []byte
	ledger LedgerRepository
	cache  *RefreshTokenCache
	clock  clock.Clock
}

func NewManager(cfg config.JWTConfig, ledger LedgerRepository, clk clock.Clock) *Manager {
	return &Manager{
		cfg:    cfg,
		secret: []byte(cfg.Secret),
		ledger: ledger,
		cache:  NewRefreshTokenCache(),
		clock:  clk,
	}
}

// Issue signs a new access token for the user, generates a fresh
// refresh token, and writes both to the ledger and the cache.
// existingAccessToken is the previously issued token string used only
// as a ledger lookup key; it is empty on first login.
func (m *Manager) Issue(ctx context.Context, userGUID string, claims *AccessClaims, existingAccessToken string) (*AuthResult, error) {
	now := m.clock.Now()
	validTill := now.Add(m.cfg.AccessExpiration)

	claims.Subject = userGUID
	claims.Issuer = m.cfg.Issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(validTill)
	// A claim set recovered from a decoded token already carries the
	// audience; adding it again would duplicate the claim.
	if len(claims.Audience) == 0 {
		claims.Audience = jwt.ClaimStrings{m.cfg.Audience}
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshString, err := newRefreshTokenString()
	if err != nil {
		return nil, err
	}
	refreshToken := &RefreshToken{
		UserName:    userGUID,
		TokenString: refreshString,
		ExpireAt:    validTill.Add(m.cfg.RefreshExpiration),
	}

	row := &UserToken{
		UserGuid:           userGUID,
		Token:              accessToken,
		RefreshToken:       refreshToken.TokenString,
		TokenCreatedOn:     now,
		TokenValidTill:     validTill,
		RefreshTokenExpire: refreshToken.ExpireAt,
	}
	if existingAccessToken != "" {
		existing, err := m.ledger.FindByAccessToken(ctx, existingAccessToken)
		if err != nil {
			return nil, fmt.Errorf("find user token row: %w", err)
		}
		if existing != nil {
			row.ID = existing.ID
		}
	}
	if err := m.ledger.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("persist user token row: %w", err)
	}

	m.cache.Upsert(refreshToken)

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserName:     userGUID,
	}, nil
}

// Refresh validates the presented refresh token against the cache and
// the claims recovered from the old access token (signature, issuer
// and audience are enforced, expiry is not), then rotates both tokens.
// The superseded refresh token is evicted from the cache.
func (m *Manager) Refresh(ctx context.Context, refreshTokenString, oldAccessToken string) (*AuthResult, error) {
	now := m.clock.Now()

	claims, err := m.decodeExpired(oldAccessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userName := claims.Subject

	existing, ok := m.cache.Get(refreshTokenString)
	if !ok {
		return nil, ErrInvalidToken
	}
	// Expiry exactly equal to now is still accepted; rejection needs
	// the expiry to be strictly in the past.
	if existing.UserName != userName || existing.ExpireAt.Before(now) {
		return nil, ErrInvalidToken
	}

	result, err := m.Issue(ctx, userName, claims, oldAccessToken)
	if err != nil {
		return nil, err
	}
	m.cache.Delete(refreshTokenString)
	return result, nil
}

// Decode validates an access token for a protected call: signature,
// issuer, audience and expiry are all enforced.
func (m *Manager) Decode(tokenString string) (*AccessClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, m.keyFunc)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(m.cfg.Issuer, true) || !claims.VerifyAudience(m.cfg.Audience, true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// StartCacheSweeper evicts expired refresh tokens on the given
// interval until ctx is cancelled.
func (m *Manager) StartCacheSweeper(ctx context.Context, interval time.Duration) {
	m.cache.sweepLoop(ctx, interval, m.clock.Now)
}

// Cache exposes the refresh-token cache, mainly for tests and metrics.
func (m *Manager) Cache() *RefreshTokenCache {
	return m.cache
}

// decodeExpired recovers the claim set from an access token without
// enforcing its lifetime. Used on refresh so the client does not have
// to resend credentials after the access token expires.
func (m *Manager) decodeExpired(tokenString string) (*AccessClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, m.keyFunc, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(m.cfg.Issuer, true) || !claims.VerifyAudience(m.cfg.Audience, true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, ErrInvalidToken
	}
	return m.secret, nil
}

func newRefreshTokenString() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
