package token

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type SigningMode string

const (
	ModeSharedSecret SigningMode = "shared-secret"
	ModeAsymmetric   SigningMode = "asymmetric"
)

// KeyMaterial holds the process-wide signing configuration. It is built once
// at startup and read-only afterwards, so concurrent readers need no locking.
type KeyMaterial struct {
	mode       SigningMode
	secret     []byte
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	publicPEM  string
}

// LoadKeyMaterial selects the signing mode for the process lifetime. When
// both PEM files load and parse, asymmetric (RS256) mode is used; any missing
// file or parse failure falls back to shared-secret (HS256) mode with a
// warning. The shared secret is required either way so the fallback is
// always viable.
func LoadKeyMaterial(privateKeyPath string, publicKeyPath string, sharedSecret string) (*KeyMaterial, error) {
	if strings.TrimSpace(sharedSecret) == "" {
		return nil, errors.New("shared secret is required")
	}

	km := &KeyMaterial{mode: ModeSharedSecret, secret: []byte(sharedSecret)}

	privateKey, publicKey, publicPEM, err := loadRSAPair(privateKeyPath, publicKeyPath)
	if err != nil {
		slog.Warn("asymmetric signing keys unavailable; using shared-secret mode",
			"private_key", privateKeyPath, "public_key", publicKeyPath, "error", err)
		return km, nil
	}

	km.mode = ModeAsymmetric
	km.privateKey = privateKey
	km.publicKey = publicKey
	km.publicPEM = publicPEM
	slog.Info("asymmetric signing keys loaded", "public_key", publicKeyPath)

	return km, nil
}

func (k *KeyMaterial) Mode() SigningMode {
	return k.mode
}

// PublicKeyPEM returns the verification key PEM for publishing to clients,
// or empty when the process runs in shared-secret mode.
func (k *KeyMaterial) PublicKeyPEM() string {
	return k.publicPEM
}

func (k *KeyMaterial) signingMethod() jwt.SigningMethod {
	if k.mode == ModeAsymmetric {
		return jwt.SigningMethodRS256
	}

	return jwt.SigningMethodHS256
}

func (k *KeyMaterial) signingKey() any {
	if k.mode == ModeAsymmetric {
		return k.privateKey
	}

	return k.secret
}

func (k *KeyMaterial) verificationKey() any {
	if k.mode == ModeAsymmetric {
		return k.publicKey
	}

	return k.secret
}

func loadRSAPair(privateKeyPath string, publicKeyPath string) (*rsa.PrivateKey, *rsa.PublicKey, string, error) {
	if strings.TrimSpace(privateKeyPath) == "" || strings.TrimSpace(publicKeyPath) == "" {
		return nil, nil, "", errors.New("key file paths not configured")
	}

	privateData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, nil, "", fmt.Errorf("read private key: %w", err)
	}

	publicData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, nil, "", fmt.Errorf("read public key: %w", err)
	}

	privateKey, err := parseRSAPrivateKey(privateData)
	if err != nil {
		return nil, nil, "", fmt.Errorf("parse private key: %w", err)
	}

	publicKey, err := parseRSAPublicKey(publicData)
	if err != nil {
		return nil, nil, "", fmt.Errorf("parse public key: %w", err)
	}

	return privateKey, publicKey, string(publicData), nil
}

func parseRSAPrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}

	return key, nil
}

func parseRSAPublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}

	return key, nil
}
