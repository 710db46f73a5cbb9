package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/sparkmeet/sparkmeet-backend/internal/database"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrStoreUnavailable wraps driver-level failures so the boundary can
	// distinguish a retryable store outage from an internal bug.
	ErrStoreUnavailable = errors.New("account store unavailable")
)

// ProfileUpdate carries the final values for the profile columns written by
// CompleteProfile. Merging with existing values happens in the caller; the
// repository always writes every column.
type ProfileUpdate struct {
	BirthDate      *time.Time
	Gender         string
	GenderInterest string
	About          string
	Occupation     string
	Hobbies        []string
}

// Repository handles account persistence. Email matching is exact: the store
// never normalizes case.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account
func (r *Repository) Create(ctx context.Context, a *Account) (*Account, error) {
	dbAcc := mapModelToDBAccount(a)

	_, err := r.db.NewInsert().
		Model(dbAcc).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrDuplicateEmail
		}
		return nil, storeErr("create account", err)
	}

	return mapDBAccountToModel(dbAcc), nil
}

// GetByEmail retrieves an account by email (exact match)
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	dbAcc := new(database.Account)
	err := r.db.NewSelect().
		Model(dbAcc).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get account by email", err)
	}

	return mapDBAccountToModel(dbAcc), nil
}

// GetByID retrieves an account by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Account, error) {
	dbAcc := new(database.Account)
	err := r.db.NewSelect().
		Model(dbAcc).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get account by id", err)
	}

	return mapDBAccountToModel(dbAcc), nil
}

// UpdateRefreshToken overwrites the single refresh-token slot, implicitly
// invalidating whatever token was stored before.
func (r *Repository) UpdateRefreshToken(ctx context.Context, id, token string) error {
	result, err := r.db.NewUpdate().
		Model((*database.Account)(nil)).
		Set("refresh_token = ?", token).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return storeErr("update refresh token", err)
	}

	return requireRowsAffected(result)
}

// MarkGoogleUser sets is_google_user; the flag never flips back.
func (r *Repository) MarkGoogleUser(ctx context.Context, id string) error {
	result, err := r.db.NewUpdate().
		Model((*database.Account)(nil)).
		Set("is_google_user = ?", true).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return storeErr("mark google user", err)
	}

	return requireRowsAffected(result)
}

// UpdateProfile writes the onboarding profile columns
func (r *Repository) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) error {
	result, err := r.db.NewUpdate().
		Model((*database.Account)(nil)).
		Set("birth_date = ?", p.BirthDate).
		Set("gender = ?", p.Gender).
		Set("gender_interest = ?", p.GenderInterest).
		Set("about = ?", p.About).
		Set("occupation = ?", p.Occupation).
		Set("hobbies = ?", pgArray(p.Hobbies)).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return storeErr("update profile", err)
	}

	return requireRowsAffected(result)
}

// updatableColumns whitelists the fields accepted by UpdateFields, keyed by
// the JSON field names clients send.
var updatableColumns = map[string]string{
	"firstName":      "first_name",
	"lastName":       "last_name",
	"avatar":         "avatar",
	"about":          "about",
	"occupation":     "occupation",
	"gender":         "gender",
	"genderInterest": "gender_interest",
	"hobbies":        "hobbies",
	"dislike":        "dislikes",
}

// UpdateFields applies a partial update of whitelisted profile fields and
// returns the updated account. Unknown fields are ignored; a field sent
// explicitly (even empty) overwrites.
func (r *Repository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*Account, error) {
	q := r.db.NewUpdate().
		Model((*database.Account)(nil)).
		Set("updated_at = NOW()").
		Where("id = ?", id)

	applied := false
	for name, value := range fields {
		column, ok := updatableColumns[name]
		if !ok {
			continue
		}
		if column == "hobbies" || column == "dislikes" {
			value = pgArray(toStringSlice(value))
		}
		q = q.Set("? = ?", bun.Ident(column), value)
		applied = true
	}

	if applied {
		result, err := q.Exec(ctx)
		if err != nil {
			return nil, storeErr("update account fields", err)
		}
		if err := requireRowsAffected(result); err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, id)
}

// Delete removes an account permanently. Deletion is terminal: the id is
// never reused.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.NewDelete().
		Model((*database.Account)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return storeErr("delete account", err)
	}

	return requireRowsAffected(result)
}

func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeErr("rows affected", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func pgArray(values []string) any {
	if values == nil {
		values = []string{}
	}
	return pgdialect.Array(values)
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// mapDBAccountToModel converts the persisted row to the domain model
func mapDBAccountToModel(dbAcc *database.Account) *Account {
	return &Account{
		ID:             dbAcc.ID,
		Email:          dbAcc.Email,
		PasswordHash:   dbAcc.PasswordHash,
		IsGoogleUser:   dbAcc.IsGoogleUser,
		FirstName:      dbAcc.FirstName,
		LastName:       dbAcc.LastName,
		Avatar:         dbAcc.Avatar,
		BirthDate:      dbAcc.BirthDate,
		About:          dbAcc.About,
		Occupation:     dbAcc.Occupation,
		Gender:         dbAcc.Gender,
		GenderInterest: dbAcc.GenderInterest,
		Hobbies:        dbAcc.Hobbies,
		Dislikes:       dbAcc.Dislikes,
		RefreshToken:   dbAcc.RefreshToken,
		CreatedAt:      dbAcc.CreatedAt,
		UpdatedAt:      dbAcc.UpdatedAt,
	}
}

func mapModelToDBAccount(a *Account) *database.Account {
	return &database.Account{
		ID:             a.ID,
		Email:          a.Email,
		PasswordHash:   a.PasswordHash,
		IsGoogleUser:   a.IsGoogleUser,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		Avatar:         a.Avatar,
		BirthDate:      a.BirthDate,
		About:          a.About,
		Occupation:     a.Occupation,
		Gender:         a.Gender,
		GenderInterest: a.GenderInterest,
		Hobbies:        a.Hobbies,
		Dislikes:       a.Dislikes,
		RefreshToken:   a.RefreshToken,
	}
}
