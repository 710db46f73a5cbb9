package database

import (
	"time"

	"github.com/uptrace/bun"
)

// Account is the persisted account row. Profile columns are independently
// optional; a federated account starts with everything empty except name
// and avatar.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID           string `bun:"id,pk"`
	Email        string `bun:"email,notnull,unique"`
	PasswordHash string `bun:"password_hash,notnull,default:''"`
	IsGoogleUser bool   `bun:"is_google_user,notnull,default:false"`

	FirstName      string     `bun:"first_name,notnull,default:''"`
	LastName       string     `bun:"last_name,notnull,default:''"`
	Avatar         string     `bun:"avatar,notnull,default:''"`
	BirthDate      *time.Time `bun:"birth_date,nullzero"`
	About          string     `bun:"about,notnull,default:''"`
	Occupation     string     `bun:"occupation,notnull,default:''"`
	Gender         string     `bun:"gender,notnull,default:''"`
	GenderInterest string     `bun:"gender_interest,notnull,default:''"`
	Hobbies        []string   `bun:"hobbies,array"`
	Dislikes       []string   `bun:"dislikes,array"`

	// Single-slot refresh token: overwriting it invalidates the previous one.
	RefreshToken string `bun:"refresh_token,notnull,default:''"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
