package user

import (
	"time"
)

// Account is the domain identity record.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // empty for Google-only accounts
	IsGoogleUser bool   `json:"is_google_user"`

	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Avatar         string     `json:"avatar"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	About          string     `json:"about"`
	Occupation     string     `json:"occupation"`
	Gender         string     `json:"gender"`
	GenderInterest string     `json:"genderInterest"`
	Hobbies        []string   `json:"hobbies"`
	Dislikes       []string   `json:"dislike"`

	RefreshToken string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileComplete reports whether the mandatory onboarding fields are all
// populated. It is always recomputed, never stored: the federated sign-in
// flow uses it to decide whether the client must finish onboarding.
func (a *Account) ProfileComplete() bool {
	return a.BirthDate != nil && a.Gender != "" && a.GenderInterest != ""
}
