package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSigningKey(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}

func TestLoadDefaults(t *testing.T) {
	key := make([]byte, 64)
	for i := range key {
		key[i] = byte(i)
	}
	t.Setenv("AUTH_JWT_SECRET", base64.StdEncoding.EncodeToString(key))
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("AUTH_REVOCATION_STORE", "")
	t.Setenv("AUTH_PUBLIC_PATHS", "/api/public/specialites, /api/health")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, key, cfg.Auth.SigningKey)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, RevocationStoreMemory, cfg.Auth.RevocationStore)
	assert.Equal(t, []string{"/api/public/specialites", "/api/health"}, cfg.Auth.PublicPaths)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoadRejectsUnknownRevocationStore(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "a-raw-secret-that-is-long-enough-for-hmac-use")
	t.Setenv("AUTH_REVOCATION_STORE", "etcd")

	_, err := Load()
	assert.Error(t, err)
}

func TestDecodeSigningKey(t *testing.T) {
	raw := "not base64 because of spaces and !!"
	assert.Equal(t, []byte(raw), DecodeSigningKey(raw))

	encoded := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), DecodeSigningKey(encoded))
}
