package user

import (
	"strings"
	"testing"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	validUserID = uuid.New()
	fixedTime   = time.Date(2024, 6, 2, 8, 44, 0, 0, time.UTC)
)

var validProfile = Profile{FirstName: "Asha", LastName: "Rao", Age: 29, ProfilePicURL: "https://cdn.example.com/p/asha.png"}

func TestNewUser(t *testing.T) {
	u, err := NewUser(" asha ", " Asha@Example.COM ", "correct-horse", validProfile)
	require.NoError(t, err)

	assert.Equal(t, "asha", u.Username())
	assert.Equal(t, "asha@example.com", u.Email())
	assert.Equal(t, auth.RoleUser, u.Role())
	assert.True(t, u.IsActive())
	assert.Equal(t, 29, u.Profile().Age)
	assert.NotEqual(t, "correct-horse", u.PasswordHash())
	assert.True(t, u.CheckPassword("correct-horse"))
	assert.False(t, u.CheckPassword("wrong-horse"))
}

func TestNewUser_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		profile  Profile
	}{
		{"empty username", "", "a@b.c", "password1", validProfile},
		{"username with spaces", "a b", "a@b.c", "password1", validProfile},
		{"long username", strings.Repeat("u", 151), "a@b.c", "password1", validProfile},
		{"bad email", "asha", "asha.example.com", "password1", validProfile},
		{"short password", "asha", "a@b.c", "short", validProfile},
		{"long password", "asha", "a@b.c", strings.Repeat("p", 73), validProfile},
		{"missing age", "asha", "a@b.c", "password1", Profile{}},
		{"age too high", "asha", "a@b.c", "password1", Profile{Age: 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.email, tt.password, tt.profile)
			assert.True(t, domain.IsCode(err, domain.CodeValidation), "got %v", err)
		})
	}
}

func TestReconstruct_KeepsHash(t *testing.T) {
	hash, err := HashPassword("password1")
	require.NoError(t, err)

	u := Reconstruct(validUserID, "asha", "asha@example.com", hash, validProfile, auth.RoleAdmin, false, fixedTime, fixedTime)
	assert.True(t, u.CheckPassword("password1"))
	assert.False(t, u.IsActive())
	assert.Equal(t, auth.RoleAdmin, u.Role())
}
