package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-email-verification/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeKeyPair generates a fresh RSA key pair under t.TempDir and returns a config pointing at it.
func writeKeyPair(t *testing.T, expiry time.Duration) *config.Config {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0644))

	return &config.Config{JWTPrivateKeyPath: privPath, JWTPublicKeyPath: pubPath, JWTExpiry: expiry}
}

func TestProvider_SignAndVerify(t *testing.T) {
	p, err := NewProvider(writeKeyPair(t, time.Hour))
	require.NoError(t, err)

	tok, err := p.Sign("u1", "alice@example.com")
	require.NoError(t, err)

	claims, err := p.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestProvider_ExpiredTokenRejected(t *testing.T) {
	p, err := NewProvider(writeKeyPair(t, -time.Minute))
	require.NoError(t, err)

	tok, err := p.Sign("u1", "alice@example.com")
	require.NoError(t, err)

	_, err = p.Verify(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestProvider_ForeignKeyRejected(t *testing.T) {
	signer, err := NewProvider(writeKeyPair(t, time.Hour))
	require.NoError(t, err)
	verifier, err := NewProvider(writeKeyPair(t, time.Hour))
	require.NoError(t, err)

	tok, err := signer.Sign("u1", "alice@example.com")
	require.NoError(t, err)
	_, err = verifier.Verify(tok)
	assert.Error(t, err)
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTPrivateKeyPath: filepath.Join(t.TempDir(), "absent.pem")})
	assert.ErrorContains(t, err, "read private key")
}
