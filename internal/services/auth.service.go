package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer        = "fsgraph"
	secretKeyFileName  = ".fsgraph-secret-key"
	defaultTokenExpiry = 90 * 24 * time.Hour
	minSecretKeyLength = 32
)

// AuthService issues and checks HS256 bearer tokens for API clients
type AuthService struct {
	secretKey   []byte
	tokenExpiry time.Duration
	now         func() time.Time
}

// CustomClaims are the claims carried by fsgraph tokens
type CustomClaims struct {
	ClientName string `json:"client_name"`
	jwt.RegisteredClaims
}

// NewAuthService creates a token service. With an empty secretKey the key is
// read from keyDir, or generated and written there on first use.
func NewAuthService(secretKey, keyDir string, tokenExpiry time.Duration, logger *slog.Logger) (*AuthService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "auth")

	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		var err error
		if secretKey, err = persistentSecret(keyDir, logger); err != nil {
			return nil, err
		}
	}
	if len(secretKey) < minSecretKeyLength {
		return nil, fmt.Errorf("secret key must be at least %d bytes, got %d", minSecretKeyLength, len(secretKey))
	}
	if tokenExpiry <= 0 {
		tokenExpiry = defaultTokenExpiry
	}

	return &AuthService{
		secretKey:   []byte(secretKey),
		tokenExpiry: tokenExpiry,
		now:         time.Now,
	}, nil
}

// persistentSecret loads the key file in dir or creates it with a random key
func persistentSecret(dir string, logger *slog.Logger) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	keyFile := filepath.Join(dir, secretKeyFileName)

	data, err := os.ReadFile(keyFile)
	switch {
	case err == nil && len(strings.TrimSpace(string(data))) >= minSecretKeyLength:
		logger.Debug("loaded persisted secret key", "file", keyFile)
		return strings.TrimSpace(string(data)), nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read secret key: %w", err)
	}

	raw := make([]byte, minSecretKeyLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}
	secret := hex.EncodeToString(raw)
	if err := os.WriteFile(keyFile, []byte(secret), 0o600); err != nil {
		return "", fmt.Errorf("write secret key: %w", err)
	}
	logger.Info("generated secret key", "file", keyFile)
	return secret, nil
}

// GenerateToken signs a token for clientName
func (a *AuthService) GenerateToken(clientName string) (string, error) {
	now := a.now()
	claims := CustomClaims{
		ClientName: clientName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   clientName,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenExpiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secretKey)
}

// ValidateToken verifies the signature, issuer and lifetime of a token
func (a *AuthService) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return a.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenExpiry returns when a token issued now would expire
func (a *AuthService) TokenExpiry() time.Time {
	return a.now().Add(a.tokenExpiry)
}
