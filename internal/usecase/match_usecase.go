package usecase

import (
	"context"
	"sort"

	"skillswap/internal/domain/repository"
	"skillswap/internal/domain/service"
)

type MatchUseCase struct {
	userRepo repository.UserRepository
}

func NewMatchUseCase(userRepo repository.UserRepository) *MatchUseCase {
	return &MatchUseCase{
		userRepo: userRepo,
	}
}

// FindMatches returns users with whom the caller can exchange skills both
// ways: the candidate teaches something the caller wants to learn and wants
// to learn something the caller teaches. One-directional overlap is not a match.
func (uc *MatchUseCase) FindMatches(ctx context.Context, userID string) ([]*MatchResult, error) {
	current, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	matches := []*MatchResult{}
	if !current.HasSkills() {
		return matches, nil
	}

	candidates, err := uc.userRepo.ListExcept(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		if !candidate.HasSkills() {
			continue
		}

		theyTeachYou := service.CommonSkills(candidate.SkillsToTeach, current.SkillsToLearn)
		youTeachThem := service.CommonSkills(current.SkillsToTeach, candidate.SkillsToLearn)
		if len(theyTeachYou) == 0 || len(youTeachThem) == 0 {
			continue
		}

		matches = append(matches, &MatchResult{
			User:         publicUser(candidate),
			TheyTeachYou: theyTeachYou,
			YouTeachThem: youTeachThem,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].User.Name != matches[j].User.Name {
			return matches[i].User.Name < matches[j].User.Name
		}
		return matches[i].User.ID < matches[j].User.ID
	})

	return matches, nil
}
