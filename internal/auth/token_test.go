package auth

import (
	"strings"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registre-medical/registry-api/internal/domain"
)

var testKey = []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestTokens(t *testing.T, opts ...TokenOption) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testKey, time.Hour, opts...)
	require.NoError(t, err)
	return ts
}

func TestNewTokenServiceRejectsWeakConfig(t *testing.T) {
	_, err := NewTokenService([]byte("short"), time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(testKey[:MinKeyLength-1], time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(testKey, 0)
	assert.Error(t, err)

	_, err = NewTokenService(testKey[:MinKeyLength], time.Minute)
	assert.NoError(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	ts := newTestTokens(t, WithClock(clock.Now))

	token, exp, err := ts.Issue(42, "doc@example.com", domain.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(time.Hour), exp)
	assert.Len(t, strings.Split(token, "."), 3)

	id, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "doc@example.com", id.Subject)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, domain.RoleDoctor, id.Role)
	assert.NotEmpty(t, id.TokenID)
	assert.Equal(t, time.Hour, id.ExpiresAt.Sub(id.IssuedAt))
	assert.True(t, id.ExpiresAt.Equal(exp))
}

func TestIssueRejectsMissingIdentity(t *testing.T) {
	ts := newTestTokens(t)

	_, _, err := ts.Issue(1, "", domain.RoleAdmin)
	assert.Error(t, err)

	_, _, err = ts.Issue(0, "a@example.com", domain.RoleAdmin)
	assert.Error(t, err)
}

func TestIssueUsesDistinctTokenIDs(t *testing.T) {
	ts := newTestTokens(t)
	a, _, err := ts.Issue(1, "a@example.com", domain.RoleEmployer)
	require.NoError(t, err)
	b, _, err := ts.Issue(1, "a@example.com", domain.RoleEmployer)
	require.NoError(t, err)

	idA, err := ts.Verify(a)
	require.NoError(t, err)
	idB, err := ts.Verify(b)
	require.NoError(t, err)
	assert.NotEqual(t, idA.TokenID, idB.TokenID)
}

func TestVerifyExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	ts := newTestTokens(t, WithClock(clock.Now))

	token, _, err := ts.Issue(7, "zone@example.com", domain.RoleZoneChief)
	require.NoError(t, err)

	clock.Advance(time.Hour - time.Second)
	_, err = ts.Verify(token)
	assert.NoError(t, err)

	clock.Advance(time.Second)
	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)

	clock.Advance(24 * time.Hour)
	_, err = ts.ExtractRole(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	ts := newTestTokens(t)
	token, _, err := ts.Issue(3, "emp@example.com", domain.RoleEmployer)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = ts.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	ts := newTestTokens(t)
	token, _, err := ts.Issue(3, "emp@example.com", domain.RoleEmployer)
	require.NoError(t, err)

	admin, _, err := ts.Issue(3, "emp@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	// Splice the ADMIN payload onto the EMPLOYEUR signature.
	parts := strings.Split(token, ".")
	forged := parts[0] + "." + strings.Split(admin, ".")[1] + "." + parts[2]

	_, err = ts.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	other, err := NewTokenService([]byte(strings.Repeat("k", 64)), time.Hour)
	require.NoError(t, err)
	token, _, err := other.Issue(5, "dir@example.com", domain.RoleRegionalDirector)
	require.NoError(t, err)

	_, err = newTestTokens(t).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	ts := newTestTokens(t)
	claims := &Claims{
		UserID: 9,
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "root@example.com",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)
	_, err = ts.Verify(hs256)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ts.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyMalformed(t *testing.T) {
	ts := newTestTokens(t)
	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := ts.Verify(raw)
		assert.ErrorIs(t, err, ErrMalformed, raw)
	}
}

func TestVerifyRequiresExpiry(t *testing.T) {
	ts := newTestTokens(t)
	claims := &Claims{
		UserID:           2,
		Role:             domain.RoleDoctor,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "doc@example.com"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyToleratesUnknownRole(t *testing.T) {
	ts := newTestTokens(t)
	token, _, err := ts.Issue(11, "legacy@example.com", domain.Role("SUPERVISEUR"))
	require.NoError(t, err)

	role, err := ts.ExtractRole(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Role("SUPERVISEUR"), role)
	assert.False(t, role.Valid())
}

func TestExtractRole(t *testing.T) {
	ts := newTestTokens(t)
	for _, role := range domain.AllRoles() {
		token, _, err := ts.Issue(1, "user@example.com", role)
		require.NoError(t, err)
		got, err := ts.ExtractRole(token)
		require.NoError(t, err)
		assert.Equal(t, role, got)
	}
}

func TestConcurrentIssueVerify(t *testing.T) {
	ts := newTestTokens(t)

	var wg sync.WaitGroup
	for i := 1; i <= 64; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			token, _, err := ts.Issue(id, "user@example.com", domain.RoleDoctor)
			if !assert.NoError(t, err) {
				return
			}
			identity, err := ts.Verify(token)
			if assert.NoError(t, err) {
				assert.Equal(t, id, identity.UserID)
			}
		}(int64(i))
	}
	wg.Wait()
}
