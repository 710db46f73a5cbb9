package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// ErrGoogleVerification covers every way an ID token can fail verification:
// bad signature, wrong audience, or an expired assertion. The boundary maps
// all of them to a single unauthorized response.
var ErrGoogleVerification = errors.New("google token verification failed")

// IdentityClaims are the verified fields extracted from a Google ID token.
// They are the only trusted input from a federated sign-in request.
type IdentityClaims struct {
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier validates Google ID tokens against Google's published keys.
type GoogleVerifier struct {
	validator *idtoken.Validator
}

// NewGoogleVerifier builds a verifier backed by Google's public certificates.
// Key fetching needs no credentials.
func NewGoogleVerifier(ctx context.Context) (*GoogleVerifier, error) {
	validator, err := idtoken.NewValidator(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("failed to create idtoken validator: %w", err)
	}
	return &GoogleVerifier{validator: validator}, nil
}

// Verify checks the assertion's signature, audience, and expiry, and returns
// the verified claims.
func (v *GoogleVerifier) Verify(ctx context.Context, assertion, audience string) (*IdentityClaims, error) {
	payload, err := v.validator.Validate(ctx, assertion, audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGoogleVerification, err)
	}

	claims := &IdentityClaims{
		Email:   claimString(payload, "email"),
		Name:    claimString(payload, "name"),
		Picture: claimString(payload, "picture"),
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: token carries no email claim", ErrGoogleVerification)
	}

	return claims, nil
}

func claimString(payload *idtoken.Payload, key string) string {
	if value, ok := payload.Claims[key].(string); ok {
		return value
	}
	return ""
}
