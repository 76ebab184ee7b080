package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/TheMordhon1/warga-pkt/repositories"
)

// RefereeService manages who may record match results for a competition.
// The actual gate is applied at the HTTP boundary; this service only
// answers membership questions.
type RefereeService interface {
	AssignReferee(ctx context.Context, competitionID, userID int) (*models.Referee, error)
	RemoveReferee(ctx context.Context, refereeID int) error
	ListByCompetition(ctx context.Context, competitionID int) ([]*models.Referee, error)
	IsReferee(ctx context.Context, competitionID, userID int) (bool, error)
}

type refereeService struct {
	refereeRepo     repositories.RefereeRepository
	competitionRepo repositories.CompetitionRepository
	userRepo        repositories.UserRepository
}

func NewRefereeService(
	refereeRepo repositories.RefereeRepository,
	competitionRepo repositories.CompetitionRepository,
	userRepo repositories.UserRepository,
) RefereeService {
	return &refereeService{
		refereeRepo:     refereeRepo,
		competitionRepo: competitionRepo,
		userRepo:        userRepo,
	}
}

func (s *refereeService) AssignReferee(ctx context.Context, competitionID, userID int) (*models.Referee, error) {
	if _, err := s.competitionRepo.GetByID(ctx, competitionID); err != nil {
		return nil, translateRepoError(err)
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, translateRepoError(err)
	}

	referee := &models.Referee{
		CompetitionID: competitionID,
		UserID:        userID,
	}
	if err := s.refereeRepo.Create(ctx, referee); err != nil {
		return nil, translateRepoError(err)
	}
	return referee, nil
}

func (s *refereeService) RemoveReferee(ctx context.Context, refereeID int) error {
	return translateRepoError(s.refereeRepo.Delete(ctx, refereeID))
}

func (s *refereeService) ListByCompetition(ctx context.Context, competitionID int) ([]*models.Referee, error) {
	referees, err := s.refereeRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referees for competition %d: %w", competitionID, err)
	}
	for _, ref := range referees {
		if user, err := s.userRepo.GetByID(ctx, ref.UserID); err == nil {
			user.PasswordHash = ""
			ref.User = user
		}
	}
	return referees, nil
}

func (s *refereeService) IsReferee(ctx context.Context, competitionID, userID int) (bool, error) {
	_, err := s.refereeRepo.FindByCompetitionAndUser(ctx, competitionID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRefereeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
