package entity

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

type Course struct {
	ID          string `json:"id" firestore:"id"`
	OwnerID     string `json:"user" firestore:"ownerId"`
	Title       string `json:"title" firestore:"title"`
	TitleKey    string `json:"-" firestore:"titleKey"`
	Description string `json:"description" firestore:"description"`
	DemoVideo   string `json:"demovideo" firestore:"demoVideo"`
	Thumbnail   string `json:"thumbnail" firestore:"thumbnail"`

	RequiredSkill    string `json:"required_skill" firestore:"requiredSkill"`
	RequiredSkillKey string `json:"-" firestore:"requiredSkillKey"`
	Category         string `json:"category" firestore:"category"`
	Duration         string `json:"duration" firestore:"duration"`

	Reviews    []string `json:"reviews" firestore:"reviews"`
	StarRating float64  `json:"star_rating" firestore:"starRating"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// titleSymbols are spelled out before slugging so that titles differing only
// in a meaningful symbol ("C", "C++", "C#") keep distinct keys.
var titleSymbols = map[string]string{
	"+": " plus ",
	"#": " sharp ",
	"*": " star ",
	"%": " percent ",
	"=": " equals ",
	"<": " lt ",
	">": " gt ",
	"$": " dollar ",
	"|": " pipe ",
	"^": " caret ",
	"~": " tilde ",
}

// CourseTitleKey is the value the unique title constraint is enforced on,
// so "Go Basics" and "go  basics!" occupy the same slot while "C Basics" and
// "C++ Basics" do not. A title with nothing left to slug is keyed on its
// case-folded text so it is neither rejected nor merged with another.
// Returns "" only for a blank title.
func CourseTitleKey(title string) string {
	if key := slug.Make(slug.Substitute(title, titleSymbols)); key != "" {
		return key
	}
	folded := strings.Join(strings.Fields(strings.ToLower(title)), " ")
	if folded == "" {
		return ""
	}
	return "~" + hex.EncodeToString([]byte(folded))
}
