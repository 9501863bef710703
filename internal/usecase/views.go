package usecase

import "skillswap/internal/domain/entity"

// UserSummary is the slice of a user embedded in other resources.
type UserSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	ProfilePicture string `json:"profile_picture"`
}

type CourseSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	RequiredSkill string `json:"required_skill"`
	Thumbnail     string `json:"thumbnail"`
}

type ChatRequestView struct {
	*entity.ChatRequest
	Sender   *UserSummary   `json:"sender,omitempty"`
	Receiver *UserSummary   `json:"receiver,omitempty"`
	Course   *CourseSummary `json:"course,omitempty"`
}

type MessageView struct {
	*entity.Message
	Sender *UserSummary `json:"sender,omitempty"`
}

type MatchResult struct {
	User         *entity.User `json:"user"`
	TheyTeachYou []string     `json:"they_teach_you"`
	YouTeachThem []string     `json:"you_teach_them"`
}

// publicUser returns a copy safe to hand to other users.
func publicUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	out := *u
	out.PasswordHash = ""
	return &out
}

func publicUsers(users []*entity.User) []*entity.User {
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		out = append(out, publicUser(u))
	}
	return out
}

func summarizeUser(u *entity.User, withEmail bool) *UserSummary {
	if u == nil {
		return nil
	}
	s := &UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
	}
	if withEmail {
		s.Email = u.Email
	}
	return s
}

func summarizeCourse(c *entity.Course) *CourseSummary {
	if c == nil {
		return nil
	}
	return &CourseSummary{
		ID:            c.ID,
		Title:         c.Title,
		RequiredSkill: c.RequiredSkill,
		Thumbnail:     c.Thumbnail,
	}
}
