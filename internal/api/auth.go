package api

import (
	"crypto/rsa"
	"fmt"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the token payload the API accepts: the standard registered set
// plus the caller's role and subscription tier.
type Claims struct {
	Role string `json:"role"`
	Tier string `json:"tier"`

	jwt.RegisteredClaims
}

// TokenVerifier validates RS256 bearer tokens against a fixed public key and
// maps their claims onto a domain identity.
type TokenVerifier struct {
	publicKey *rsa.PublicKey
}

// NewTokenVerifier parses the PEM encoded RSA public key used to verify
// incoming tokens.
func NewTokenVerifier(publicKeyPEM string) (*TokenVerifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}

	return &TokenVerifier{publicKey: key}, nil
}

// Verify checks the token signature and registered claims and returns the
// caller's identity. Tokens without a role default to the user role; tokens
// without a tier, or with an unrecognized one, are treated as anonymous.
func (v *TokenVerifier) Verify(tokenString string) (domain.Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}

		return v.publicKey, nil
	})
	if err != nil {
		return domain.Identity{}, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}
	if !token.Valid {
		return domain.Identity{}, serrors.With(serrors.ErrUnauthorized, "invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Identity{}, serrors.With(serrors.ErrUnauthorized, "token subject is not a user ID")
	}

	role := domain.Role(claims.Role)
	if role == "" {
		role = domain.RoleUser
	}

	tier := domain.Tier(claims.Tier)
	if !tier.Valid() {
		tier = domain.TierAnonymous
	}

	return domain.Identity{
		UserID: domain.UserID(userID),
		Role:   role,
		Tier:   tier,
	}, nil
}
