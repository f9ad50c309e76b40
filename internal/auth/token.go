package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trackr/trackr/internal/supabase"
)

// ErrInvalidToken is returned when a token cannot be verified.
var ErrInvalidToken = errors.New("invalid access token")

// RemoteResolver resolves a token against the identity collaborator.
// *supabase.Client implements it.
type RemoteResolver interface {
	GetUserByToken(ctx context.Context, token string) (*supabase.User, error)
}

// Verifier turns a bearer access token into an Identity.
//
// When a JWT secret is configured the token is verified locally (HS256, the
// scheme the collaborator signs with). Without a secret, or when local
// verification fails, the token is resolved remotely against the auth API.
type Verifier struct {
	secret []byte
	remote RemoteResolver
}

// NewVerifier creates a Verifier. secret may be empty; remote may be nil
// only when a secret is set.
func NewVerifier(secret string, remote RemoteResolver) (*Verifier, error) {
	if secret == "" && remote == nil {
		return nil, fmt.Errorf("auth: either a JWT secret or a remote resolver is required")
	}
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &Verifier{secret: key, remote: remote}, nil
}

// VerifyToken resolves an access token to the caller's identity.
func (v *Verifier) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	if len(v.secret) > 0 {
		if id, err := v.verifyLocal(token); err == nil {
			return id, nil
		}
		// Fall through to the remote check when possible; key rotation on
		// the collaborator side would otherwise lock every caller out.
	}

	if v.remote == nil {
		return nil, ErrInvalidToken
	}

	user, err := v.remote.GetUserByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	return &Identity{UserID: user.ID, Email: user.Email}, nil
}

// verifyLocal checks the HS256 signature and standard claims locally.
func (v *Verifier) verifyLocal(token string) (*Identity, error) {
	claims := jwt.MapClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)

	return &Identity{UserID: sub, Email: email}, nil
}
