// Package auth verifies access tokens issued by the external identity
// service. This server never mints credentials; it only resolves a bearer
// token into (user id, role) for the tracking engine.
package auth

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/earmarkapp/earmark-server/internal/domain"
)

const (
	tokenIssuer   = "earmark-auth"
	tokenAudience = "earmark-server"

	// PASETO v4 symmetric key requirements.
	keyBytesSize = 32 // 256 bits
	keyHexSize   = 64 // 32 bytes as hex string
)

// AccessClaims represents the claims stored in a PASETO access token.
// These are encrypted in v4.local tokens, so they're not readable without the key.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
}

// Verifier resolves bearer tokens into identities.
// Implementations other than the PASETO one exist only in tests.
type Verifier interface {
	Verify(token string) (domain.Identity, error)
}

// TokenVerifier verifies PASETO v4.local access tokens with the symmetric
// key shared with the identity service.
type TokenVerifier struct {
	symmetricKey paseto.V4SymmetricKey
}

// NewTokenVerifier creates a verifier from a hex-encoded 32-byte key.
func NewTokenVerifier(keyHex string) (*TokenVerifier, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenVerifier{symmetricKey: key}, nil
}

// Verify parses and validates a v4.local token, returning the identity it
// carries. Expired, malformed, or wrong-audience tokens fail.
func (v *TokenVerifier) Verify(tokenString string) (domain.Identity, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(v.symmetricKey, tokenString, nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return domain.Identity{}, fmt.Errorf("parse claims: %w", err)
	}

	if claims.UserID == "" {
		return domain.Identity{}, fmt.Errorf("token missing user_id claim")
	}

	role := domain.Role(claims.Role)
	if role != domain.RoleAdmin {
		role = domain.RoleMember
	}

	return domain.Identity{UserID: claims.UserID, Role: role}, nil
}
