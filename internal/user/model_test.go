package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfileComplete(t *testing.T) {
	t.Parallel()

	birth := time.Date(1995, 6, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		account Account
		want    bool
	}{
		{
			name: "all required fields set",
			account: Account{
				BirthDate:      &birth,
				Gender:         "Female",
				GenderInterest: "Male",
			},
			want: true,
		},
		{
			name:    "empty account",
			account: Account{},
			want:    false,
		},
		{
			name: "missing birth date",
			account: Account{
				Gender:         "Male",
				GenderInterest: "Female",
			},
			want: false,
		},
		{
			name: "missing gender",
			account: Account{
				BirthDate:      &birth,
				GenderInterest: "Female",
			},
			want: false,
		},
		{
			name: "missing gender interest",
			account: Account{
				BirthDate: &birth,
				Gender:    "Male",
			},
			want: false,
		},
		{
			name: "optional fields do not count",
			account: Account{
				About:      "likes long walks",
				Occupation: "engineer",
				Hobbies:    []string{"climbing"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.account.ProfileComplete())
		})
	}
}
