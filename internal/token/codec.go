package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"library-api/internal/model"
)

// Claims is the signed payload of an access or password-reset token. Scopes
// carries the resolved role so guards can check permissions without a second
// lookup.
type Claims struct {
	Role   string   `json:"role,omitempty"`
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// Codec signs and verifies claim sets using whichever key material was
// selected at startup. Issued tokens are immutable and expire; there is no
// revocation list, expiry is the only invalidation mechanism.
type Codec struct {
	keys *KeyMaterial
}

func NewCodec(keys *KeyMaterial) *Codec {
	return &Codec{keys: keys}
}

// Issue builds a claim set for subject with exp = now + ttl and signs it with
// the active signing key. An empty role falls back to member, matching the
// scope the verifier assumes for scope-less tokens.
func (c *Codec) Issue(subject string, role string, ttl time.Duration) (string, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = model.RoleMember
	}

	now := time.Now().UTC()
	claims := Claims{
		Role:   role,
		Scopes: []string{role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(c.keys.signingMethod(), claims).SignedString(c.keys.signingKey())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify decodes and validates a token with the verification key for the
// active mode. Bad signature, wrong signing method, malformed payload and
// past expiry all surface as ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		switch c.keys.Mode() {
		case ModeAsymmetric:
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
		default:
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
		}

		return c.keys.verificationKey(), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", model.ErrInvalidToken)
	}

	if len(claims.Scopes) == 0 {
		claims.Scopes = []string{model.RoleMember}
	}

	return claims, nil
}
