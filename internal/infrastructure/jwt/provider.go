package jwtinfra

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/go-email-verification/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies a user whose email address has been verified.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Provider signs and verifies RS256 JWTs.
type Provider struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	expiry     time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	privKey, err := readKey(cfg.JWTPrivateKeyPath, "private", jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}
	pubKey, err := readKey(cfg.JWTPublicKeyPath, "public", jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}
	return &Provider{privateKey: privKey, publicKey: pubKey, expiry: cfg.JWTExpiry}, nil
}

func readKey[K any](path, kind string, parse func([]byte) (K, error)) (K, error) {
	var zero K
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("read %s key: %w", kind, err)
	}
	key, err := parse(pemBytes)
	if err != nil {
		return zero, fmt.Errorf("parse %s key: %w", kind, err)
	}
	return key, nil
}

// Sign issues a token for userID and email valid for the configured expiry.
func (p *Provider) Sign(userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.privateKey)
}

// Verify checks the signature, algorithm and expiry of tokenStr and returns its claims.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return p.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithIssuedAt())
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return claims, nil
}
