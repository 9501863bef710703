package entity

import (
	"strings"
	"time"
)

type User struct {
	ID             string   `json:"id" firestore:"id"`
	Name           string   `json:"name" firestore:"name"`
	Email          string   `json:"email" firestore:"email"`
	PasswordHash   string   `json:"-" firestore:"passwordHash"`
	SkillsToTeach  []string `json:"skills_to_teach" firestore:"skillsToTeach"`
	SkillsToLearn  []string `json:"skills_to_learn" firestore:"skillsToLearn"`
	ProfilePicture string   `json:"profile_picture" firestore:"profilePicture"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// HasSkills reports whether the user both teaches and wants to learn something.
func (u *User) HasSkills() bool {
	return len(u.SkillsToTeach) > 0 && len(u.SkillsToLearn) > 0
}

// NormalizeEmail is the canonical form used for the unique email constraint.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
