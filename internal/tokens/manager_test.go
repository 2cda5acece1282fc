package tokens_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendly/internal/shared/config"
	"spendly/internal/tokens"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now().UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// fakeLedger mirrors the unique user_guid constraint of the real table.
type fakeLedger struct {
	mu      sync.Mutex
	rows    map[string]*tokens.UserToken
	nextID  uint
	failing bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[string]*tokens.UserToken)}
}

func (l *fakeLedger) FindByAccessToken(_ context.Context, accessToken string) (*tokens.UserToken, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing {
		return nil, errors.New("ledger unavailable")
	}
	if accessToken == "" {
		return nil, nil
	}
	for _, row := range l.rows {
		if row.Token == accessToken {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (l *fakeLedger) Upsert(_ context.Context, row *tokens.UserToken) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing {
		return errors.New("ledger unavailable")
	}
	if existing, ok := l.rows[row.UserGuid]; ok {
		row.ID = existing.ID
	} else {
		l.nextID++
		row.ID = l.nextID
	}
	copied := *row
	l.rows[row.UserGuid] = &copied
	return nil
}

func (l *fakeLedger) rowCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

func (l *fakeLedger) rowFor(userGUID string) *tokens.UserToken {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows[userGUID]
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-signing-secret",
		Issuer:            "spendly",
		Audience:          "spendly-api",
		AccessExpiration:  20 * time.Minute,
		RefreshExpiration: 60 * time.Minute,
	}
}

func newTestManager(t *testing.T) (*tokens.Manager, *fakeLedger, *fakeClock) {
	t.Helper()
	ledger := newFakeLedger()
	clk := newFakeClock()
	return tokens.NewManager(testJWTConfig(), ledger, clk), ledger, clk
}

func baseClaims() *tokens.AccessClaims {
	return &tokens.AccessClaims{
		ClientIP: "203.0.113.7",
		Role:     tokens.RoleUser,
		UserType: tokens.UserTypeCAUser,
	}
}

func TestIssueDecodeRoundTrip(t *testing.T) {
	mgr, ledger, clk := newTestManager(t)

	issuedAt := clk.Now()
	result, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotNil(t, result.RefreshToken)
	assert.Equal(t, "alice-guid", result.UserName)

	decoded, err := mgr.Decode(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice-guid", decoded.Subject)
	assert.Equal(t, "203.0.113.7", decoded.ClientIP)
	assert.Equal(t, tokens.RoleUser, decoded.Role)
	assert.Equal(t, tokens.UserTypeCAUser, decoded.UserType)
	require.Len(t, decoded.Audience, 1)
	assert.Equal(t, "spendly-api", decoded.Audience[0])
	assert.WithinDuration(t, issuedAt.Add(20*time.Minute), decoded.ExpiresAt.Time, time.Second)

	row := ledger.rowFor("alice-guid")
	require.NotNil(t, row)
	assert.Equal(t, result.AccessToken, row.Token)
	assert.Equal(t, result.RefreshToken.TokenString, row.RefreshToken)
	assert.WithinDuration(t, issuedAt.Add(80*time.Minute), row.RefreshTokenExpire, time.Second)
}

func TestIssueRefreshTokenExpiryIsAdditive(t *testing.T) {
	mgr, _, clk := newTestManager(t)

	issuedAt := clk.Now()
	result, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)

	// refresh expiry = access expiry + refresh lifetime
	assert.WithinDuration(t, issuedAt.Add(20*time.Minute).Add(60*time.Minute), result.RefreshToken.ExpireAt, time.Second)
}

func TestDoubleIssueUpsertsSingleRow(t *testing.T) {
	mgr, ledger, clk := newTestManager(t)

	first, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)
	clk.Set(clk.Now().Add(time.Second))
	second, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, ledger.rowCount())
	row := ledger.rowFor("alice-guid")
	require.NotNil(t, row)
	assert.Equal(t, second.AccessToken, row.Token)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
}

func TestRefreshRotatesPair(t *testing.T) {
	mgr, ledger, clk := newTestManager(t)

	issued, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)

	clk.Set(clk.Now().Add(time.Second))
	refreshed, err := mgr.Refresh(context.Background(), issued.RefreshToken.TokenString, issued.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, issued.AccessToken, refreshed.AccessToken)
	assert.NotEqual(t, issued.RefreshToken.TokenString, refreshed.RefreshToken.TokenString)

	// the superseded refresh token is evicted, the new one cached
	_, ok := mgr.Cache().Get(issued.RefreshToken.TokenString)
	assert.False(t, ok)
	_, ok = mgr.Cache().Get(refreshed.RefreshToken.TokenString)
	assert.True(t, ok)

	// the ledger row was updated in place, not duplicated
	assert.Equal(t, 1, ledger.rowCount())
	row := ledger.rowFor("alice-guid")
	assert.Equal(t, refreshed.AccessToken, row.Token)
}

func TestRefreshPreservesClaims(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	issued, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)

	refreshed, err := mgr.Refresh(context.Background(), issued.RefreshToken.TokenString, issued.AccessToken)
	require.NoError(t, err)

	decoded, err := mgr.Decode(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice-guid", decoded.Subject)
	assert.Equal(t, "203.0.113.7", decoded.ClientIP)
	assert.Equal(t, tokens.RoleUser, decoded.Role)
	assert.Equal(t, tokens.UserTypeCAUser, decoded.UserType)
	// recovered claim set already carried an audience; no duplicate added
	require.Len(t, decoded.Audience, 1)
	assert.Equal(t, "spendly-api", decoded.Audience[0])
}

func TestRefreshUnknownToken(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	issued, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)

	_, err = mgr.Refresh(context.Background(), "bm90LWEtcmVhbC10b2tlbg==", issued.AccessToken)
	assert.ErrorIs(t, err, tokens.ErrInvalidToken)
}

func TestRefreshOwnerMismatch(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	alice, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)
	bob, err := mgr.Issue(context.Background(), "bob-guid", baseClaims(), "")
	require.NoError(t, err)

	_, err = mgr.Refresh(context.Background(), alice.RefreshToken.TokenString, bob.AccessToken)
	assert.ErrorIs(t, err, tokens.ErrInvalidToken)
}

func TestRefreshExpiryBoundary(t *testing.T) {
	mgr, _, clk := newTestManager(t)

	issued, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)

	// expiry exactly equal to the current instant is still accepted
	clk.Set(issued.RefreshToken.ExpireAt)
	refreshed, err := mgr.Refresh(context.Background(), issued.RefreshToken.TokenString, issued.AccessToken)
	require.NoError(t, err)

	// one second past expiry is rejected
	clk.Set(refreshed.RefreshToken.ExpireAt.Add(time.Second))
	_, err = mgr.Refresh(context.Background(), refreshed.RefreshToken.TokenString, refreshed.AccessToken)
	assert.ErrorIs(t, err, tokens.ErrInvalidToken)
}

func TestRefreshAcceptsExpiredAccessToken(t *testing.T) {
	mgr, _, clk := newTestManager(t)

	// issue far enough in the past that the access token is expired
	clk.Set(time.Now().UTC().Add(-time.Hour))
	issued, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)

	clk.Set(time.Now().UTC())
	_, err = mgr.Decode(issued.AccessToken)
	assert.ErrorIs(t, err, tokens.ErrInvalidToken)

	refreshed, err := mgr.Refresh(context.Background(), issued.RefreshToken.TokenString, issued.AccessToken)
	require.NoError(t, err)

	_, err = mgr.Decode(refreshed.AccessToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsTamperedAccessToken(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "a-different-secret"
	other := tokens.NewManager(otherCfg, newFakeLedger(), newFakeClock())

	issued, err := other.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)

	mine, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.NoError(t, err)

	_, err = mgr.Refresh(context.Background(), mine.RefreshToken.TokenString, issued.AccessToken)
	assert.ErrorIs(t, err, tokens.ErrInvalidToken)
}

func TestDecodeFailures(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	t.Run("empty token", func(t *testing.T) {
		_, err := mgr.Decode("")
		assert.ErrorIs(t, err, tokens.ErrInvalidToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := mgr.Decode("not.a.jwt")
		assert.ErrorIs(t, err, tokens.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		otherCfg := testJWTConfig()
		otherCfg.Issuer = "someone-else"
		other := tokens.NewManager(otherCfg, newFakeLedger(), newFakeClock())
		issued, err := other.Issue(context.Background(), "alice-guid", baseClaims(), "")
		require.NoError(t, err)

		_, err = mgr.Decode(issued.AccessToken)
		assert.ErrorIs(t, err, tokens.ErrInvalidToken)
	})

	t.Run("wrong signature", func(t *testing.T) {
		otherCfg := testJWTConfig()
		otherCfg.Secret = "a-different-secret"
		other := tokens.NewManager(otherCfg, newFakeLedger(), newFakeClock())
		issued, err := other.Issue(context.Background(), "alice-guid", baseClaims(), "")
		require.NoError(t, err)

		_, err = mgr.Decode(issued.AccessToken)
		assert.ErrorIs(t, err, tokens.ErrInvalidToken)
	})
}

func TestIssuePropagatesLedgerFailure(t *testing.T) {
	ledger := newFakeLedger()
	ledger.failing = true
	mgr := tokens.NewManager(testJWTConfig(), ledger, newFakeClock())

	_, err := mgr.Issue(context.Background(), "alice-guid", baseClaims(), "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, tokens.ErrInvalidToken)

	// nothing was cached for the failed issuance
	assert.Equal(t, 0, mgr.Cache().Len())
}
