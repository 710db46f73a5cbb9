package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sparkmeet/sparkmeet-backend/internal/logging"
	"github.com/sparkmeet/sparkmeet-backend/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordRequired   = errors.New("password must be provided")
	ErrIDTokenRequired    = errors.New("id token is required")
	ErrInvalidBirthDate   = errors.New("birth date must be DD/MM/YYYY")
)

// birthDateLayout matches the DD/MM/YYYY strings the mobile clients send.
const birthDateLayout = "02/01/2006"

// accountIDBytes of entropy per account id, hex-encoded to 16 characters.
const accountIDBytes = 8

// Service is the session orchestrator. It coordinates the store, the token
// service, and the identity verifier; it holds no mutable state of its own,
// so every request can run concurrently.
type Service struct {
	repo                 UserRepository
	tokens               TokenService
	verifier             IdentityVerifier
	logger               *logging.Logger
	googleAudience       string
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
}

func NewService(
	repo UserRepository,
	tokens TokenService,
	verifier IdentityVerifier,
	logger *logging.Logger,
	googleAudience string,
	accessTokenDuration time.Duration,
	refreshTokenDuration time.Duration,
) *Service {
	return &Service{
		repo:                 repo,
		tokens:               tokens,
		verifier:             verifier,
		logger:               logger,
		googleAudience:       googleAudience,
		accessTokenDuration:  accessTokenDuration,
		refreshTokenDuration: refreshTokenDuration,
	}
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FirstName      string
	LastName       string
	Avatar         string
	Email          string
	Password       string
	BirthDate      string // DD/MM/YYYY
	About          string
	Occupation     string
	Gender         string
	GenderInterest string
	Hobbies        []string
}

// Register creates a credential-based account and returns it with an access
// token. No refresh token is issued at registration; the first one is minted
// at login.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.Account, string, error) {
	if in.Password == "" {
		return nil, "", ErrPasswordRequired
	}

	var birthDate *time.Time
	if in.BirthDate != "" {
		parsed, err := time.Parse(birthDateLayout, in.BirthDate)
		if err != nil {
			return nil, "", ErrInvalidBirthDate
		}
		birthDate = &parsed
	}

	id, err := s.generateAccountID(ctx)
	if err != nil {
		return nil, "", err
	}

	passwordHash, err := HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	account, err := s.repo.Create(ctx, &user.Account{
		ID:             id,
		Email:          in.Email,
		PasswordHash:   passwordHash,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Avatar:         in.Avatar,
		BirthDate:      birthDate,
		About:          in.About,
		Occupation:     in.Occupation,
		Gender:         in.Gender,
		GenderInterest: in.GenderInterest,
		Hobbies:        orEmpty(in.Hobbies),
		Dislikes:       []string{},
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, "", user.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	accessToken, err := s.tokens.CreateToken(account.ID, s.accessTokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create access token: %w", err)
	}

	s.logger.Info("account registered", "account_id", account.ID)

	return account, accessToken, nil
}

// Login authenticates with email and password and mints a fresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*user.Account, *TokenPair, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Identical to the wrong-password error so responses never
			// reveal whether the email exists.
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get account: %w", err)
	}

	if !CheckPassword(account.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	return account, pair, nil
}

// GoogleSignInInput carries the federated sign-in request: the provider
// assertion plus optional client-supplied profile hints.
type GoogleSignInInput struct {
	IDToken   string
	FirstName string
	LastName  string
	Avatar    string
}

// GoogleSignInResult reports the account, its fresh tokens, and the two
// onboarding flags the client steers by.
type GoogleSignInResult struct {
	Account         *user.Account
	Tokens          *TokenPair
	IsNewUser       bool
	NeedsCompletion bool
}

// GoogleSignIn verifies the ID token, then finds or creates the account for
// the verified email. Verification comes before any lookup: the verified
// claims, not the request body, are what keys the account.
func (s *Service) GoogleSignIn(ctx context.Context, in GoogleSignInInput) (*GoogleSignInResult, error) {
	if in.IDToken == "" {
		return nil, ErrIDTokenRequired
	}

	claims, err := s.verifier.Verify(ctx, in.IDToken, s.googleAudience)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.GetByEmail(ctx, claims.Email)
	if errors.Is(err, user.ErrNotFound) {
		account, err = s.createGoogleAccount(ctx, claims, in)
		if err != nil {
			return nil, err
		}

		pair, err := s.issueTokenPair(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		s.logger.Info("google account created", "account_id", account.ID)

		return &GoogleSignInResult{
			Account:         account,
			Tokens:          pair,
			IsNewUser:       true,
			NeedsCompletion: true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	// Federation promotion: flips once, never back.
	if !account.IsGoogleUser {
		if err := s.repo.MarkGoogleUser(ctx, account.ID); err != nil {
			return nil, fmt.Errorf("failed to mark google user: %w", err)
		}
		account.IsGoogleUser = true
	}

	pair, err := s.issueTokenPair(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &GoogleSignInResult{
		Account:         account,
		Tokens:          pair,
		IsNewUser:       false,
		NeedsCompletion: !account.ProfileComplete(),
	}, nil
}

func (s *Service) createGoogleAccount(ctx context.Context, claims *IdentityClaims, in GoogleSignInInput) (*user.Account, error) {
	id, err := s.generateAccountID(ctx)
	if err != nil {
		return nil, err
	}

	// Client hints win over assertion claims; the claims fill the gaps.
	firstName, lastName := in.FirstName, in.LastName
	if firstName == "" && lastName == "" {
		firstName = claims.Name
	}
	avatar := in.Avatar
	if avatar == "" {
		avatar = claims.Picture
	}

	account, err := s.repo.Create(ctx, &user.Account{
		ID:           id,
		Email:        claims.Email,
		IsGoogleUser: true,
		FirstName:    firstName,
		LastName:     lastName,
		Avatar:       avatar,
		Hobbies:      []string{},
		Dislikes:     []string{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google account: %w", err)
	}

	return account, nil
}

// CompleteProfileInput uses pointers so an absent field can be told apart
// from one explicitly sent empty: absent leaves the stored value unchanged,
// empty overwrites.
type CompleteProfileInput struct {
	BirthDate      *string // DD/MM/YYYY; explicitly empty clears the date
	Gender         *string
	GenderInterest *string
	About          *string
	Occupation     *string
	Hobbies        *[]string
}

// CompleteProfileResult is the post-onboarding state of the account.
type CompleteProfileResult struct {
	Account         *user.Account
	Tokens          *TokenPair
	NeedsCompletion bool
}

// CompleteProfile merges the provided fields into the account's profile and
// mints a fresh token pair. NeedsCompletion is recomputed from the stored
// result, so a partial completion reports honestly.
func (s *Service) CompleteProfile(ctx context.Context, accountID string, in CompleteProfileInput) (*CompleteProfileResult, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	update := user.ProfileUpdate{
		BirthDate:      account.BirthDate,
		Gender:         account.Gender,
		GenderInterest: account.GenderInterest,
		About:          account.About,
		Occupation:     account.Occupation,
		Hobbies:        orEmpty(account.Hobbies),
	}

	if in.BirthDate != nil {
		if *in.BirthDate == "" {
			update.BirthDate = nil
		} else {
			parsed, err := time.Parse(birthDateLayout, *in.BirthDate)
			if err != nil {
				return nil, ErrInvalidBirthDate
			}
			update.BirthDate = &parsed
		}
	}
	if in.Gender != nil {
		update.Gender = *in.Gender
	}
	if in.GenderInterest != nil {
		update.GenderInterest = *in.GenderInterest
	}
	if in.About != nil {
		update.About = *in.About
	}
	if in.Occupation != nil {
		update.Occupation = *in.Occupation
	}
	if in.Hobbies != nil {
		update.Hobbies = orEmpty(*in.Hobbies)
	}

	if err := s.repo.UpdateProfile(ctx, accountID, update); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	account.BirthDate = update.BirthDate
	account.Gender = update.Gender
	account.GenderInterest = update.GenderInterest
	account.About = update.About
	account.Occupation = update.Occupation
	account.Hobbies = update.Hobbies

	pair, err := s.issueTokenPair(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &CompleteProfileResult{
		Account:         account,
		Tokens:          pair,
		NeedsCompletion: !account.ProfileComplete(),
	}, nil
}

// Refresh validates a refresh token against both its signature and the
// account's stored slot, then rotates the pair. A superseded token still
// carries a valid signature but is rejected as reuse.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	accountID, err := s.tokens.VerifyToken(refreshToken)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(account.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, ErrInvalidToken
	}

	return s.issueTokenPair(ctx, account.ID)
}

// DeleteAccount removes the account permanently. Terminal and irreversible.
func (s *Service) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.repo.Delete(ctx, accountID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.logger.Info("account deleted", "account_id", accountID)

	return nil
}

// issueTokenPair mints a fresh access+refresh pair and persists the refresh
// token in the account's single slot, invalidating whatever was there.
// Concurrent logins race last-writer-wins on the slot.
func (s *Service) issueTokenPair(ctx context.Context, accountID string) (*TokenPair, error) {
	accessToken, err := s.tokens.CreateToken(accountID, s.accessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := s.tokens.CreateToken(accountID, s.refreshTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := s.repo.UpdateRefreshToken(ctx, accountID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// generateAccountID produces a 16-hex-char random id, re-sampling while the
// store reports a collision. At 64 bits of entropy the loop effectively runs
// once; the caller's context bounds it under pathological load.
func (s *Service) generateAccountID(ctx context.Context) (string, error) {
	for {
		buf := make([]byte, accountIDBytes)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate account id: %w", err)
		}
		id := hex.EncodeToString(buf)

		_, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, user.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check account id: %w", err)
		}
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
