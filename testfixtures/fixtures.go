package testfixtures

import (
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/vnkhanh/mentorship-backend/models"
)

// CreateUser inserts a user with the given role. The email is derived from
// the name.
func CreateUser(tb testing.TB, db *gorm.DB, name string, role models.Role) *models.User {
	tb.Helper()
	user := &models.User{
		Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Name:  name,
		Role:  role,
	}
	if err := db.Create(user).Error; err != nil {
		tb.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

// CreateMentor inserts a mentor user with an active profile.
func CreateMentor(tb testing.TB, db *gorm.DB, name, area string, years int) (*models.User, *models.MentorProfile) {
	tb.Helper()
	user := CreateUser(tb, db, name, models.RoleMentor)
	profile := &models.MentorProfile{
		UserID:       user.ID,
		Name:         name,
		Area:         area,
		Years:        years,
		Availability: models.Weekdays{"monday", "wednesday"},
		Active:       true,
	}
	if err := db.Create(profile).Error; err != nil {
		tb.Fatalf("failed to create mentor profile %s: %v", name, err)
	}
	return user, profile
}

// CreateSeeker inserts a seeker user with a profile.
func CreateSeeker(tb testing.TB, db *gorm.DB, name, interest string, age int) (*models.User, *models.SeekerProfile) {
	tb.Helper()
	user := CreateUser(tb, db, name, models.RoleSeeker)
	profile := &models.SeekerProfile{
		UserID:   user.ID,
		Name:     name,
		Age:      age,
		Interest: interest,
	}
	if err := db.Create(profile).Error; err != nil {
		tb.Fatalf("failed to create seeker profile %s: %v", name, err)
	}
	return user, profile
}
