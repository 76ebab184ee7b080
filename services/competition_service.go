package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/TheMordhon1/warga-pkt/repositories"
)

type CreateCompetitionInput struct {
	EventID         *int                     `json:"event_id,omitempty"`
	SportName       string                   `json:"sport_name"`
	Format          models.CompetitionFormat `json:"format"`
	MatchType       int                      `json:"match_type"`
	ParticipantType models.ParticipantType   `json:"participant_type"`
	RegDeadline     *time.Time               `json:"registration_deadline,omitempty"`
	MaxParticipants *int                     `json:"max_participants,omitempty"`
	Rules           *string                  `json:"rules,omitempty"`
}

type UpdateCompetitionInput struct {
	SportName       *string                   `json:"sport_name,omitempty"`
	Format          *models.CompetitionFormat `json:"format,omitempty"`
	MatchType       *int                      `json:"match_type,omitempty"`
	ParticipantType *models.ParticipantType   `json:"participant_type,omitempty"`
	RegDeadline     *time.Time                `json:"registration_deadline,omitempty"`
	MaxParticipants *int                      `json:"max_participants,omitempty"`
	Rules           *string                   `json:"rules,omitempty"`
}

// CompetitionService owns the competition lifecycle. Moving a
// competition from registration to ongoing is the explicit organizer
// action that triggers bracket generation.
type CompetitionService interface {
	Create(ctx context.Context, organizerID int, input CreateCompetitionInput) (*models.Competition, error)
	Get(ctx context.Context, id int) (*models.Competition, error)
	List(ctx context.Context, status *models.CompetitionStatus, limit, offset int) ([]*models.Competition, error)
	Update(ctx context.Context, id int, input UpdateCompetitionInput) (*models.Competition, error)
	ChangeStatus(ctx context.Context, id int, next models.CompetitionStatus) (*models.Competition, error)
	Delete(ctx context.Context, id int) error
}

type competitionService struct {
	competitionRepo repositories.CompetitionRepository
	bracketService  BracketService
	logger          *slog.Logger
}

func NewCompetitionService(
	competitionRepo repositories.CompetitionRepository,
	bracketService BracketService,
	logger *slog.Logger,
) CompetitionService {
	return &competitionService{
		competitionRepo: competitionRepo,
		bracketService:  bracketService,
		logger:          logger,
	}
}

func (s *competitionService) Create(ctx context.Context, organizerID int, input CreateCompetitionInput) (*models.Competition, error) {
	if strings.TrimSpace(input.SportName) == "" {
		return nil, ErrSportNameRequired
	}
	if !isKnownFormat(input.Format) {
		return nil, ErrInvalidFormat
	}
	if !isKnownParticipantType(input.ParticipantType) {
		return nil, ErrInvalidParticipantType
	}
	if input.MatchType <= 0 {
		return nil, ErrInvalidMatchType
	}
	if input.MaxParticipants != nil && *input.MaxParticipants <= 0 {
		return nil, ErrInvalidMaxParticipants
	}

	competition := &models.Competition{
		EventID:         input.EventID,
		SportName:       strings.TrimSpace(input.SportName),
		Format:          input.Format,
		MatchType:       input.MatchType,
		ParticipantType: input.ParticipantType,
		Status:          models.CompetitionRegistration,
		RegDeadline:     input.RegDeadline,
		MaxParticipants: input.MaxParticipants,
		Rules:           input.Rules,
		OrganizerID:     organizerID,
	}
	if err := s.competitionRepo.Create(ctx, competition); err != nil {
		return nil, translateRepoError(err)
	}
	return competition, nil
}

func (s *competitionService) Get(ctx context.Context, id int) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return competition, nil
}

func (s *competitionService) List(ctx context.Context, status *models.CompetitionStatus, limit, offset int) ([]*models.Competition, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	competitions, err := s.competitionRepo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	return competitions, nil
}

func (s *competitionService) Update(ctx context.Context, id int, input UpdateCompetitionInput) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if competition.Status != models.CompetitionRegistration {
		return nil, ErrRegistrationClosed
	}

	if input.SportName != nil {
		if strings.TrimSpace(*input.SportName) == "" {
			return nil, ErrSportNameRequired
		}
		competition.SportName = strings.TrimSpace(*input.SportName)
	}
	if input.Format != nil {
		if !isKnownFormat(*input.Format) {
			return nil, ErrInvalidFormat
		}
		competition.Format = *input.Format
	}
	if input.ParticipantType != nil {
		if !isKnownParticipantType(*input.ParticipantType) {
			return nil, ErrInvalidParticipantType
		}
		competition.ParticipantType = *input.ParticipantType
	}
	if input.MatchType != nil {
		if *input.MatchType <= 0 {
			return nil, ErrInvalidMatchType
		}
		competition.MatchType = *input.MatchType
	}
	if input.RegDeadline != nil {
		competition.RegDeadline = input.RegDeadline
	}
	if input.MaxParticipants != nil {
		if *input.MaxParticipants <= 0 {
			return nil, ErrInvalidMaxParticipants
		}
		competition.MaxParticipants = input.MaxParticipants
	}
	if input.Rules != nil {
		competition.Rules = input.Rules
	}

	if err := s.competitionRepo.Update(ctx, competition); err != nil {
		return nil, translateRepoError(err)
	}
	return competition, nil
}

// ChangeStatus applies an explicit lifecycle transition. Moving to
// ongoing generates the bracket first: if generation fails the
// competition stays in registration.
func (s *competitionService) ChangeStatus(ctx context.Context, id int, next models.CompetitionStatus) (*models.Competition, error) {
	switch next {
	case models.CompetitionRegistration, models.CompetitionOngoing,
		models.CompetitionCompleted, models.CompetitionCancelled:
	default:
		return nil, ErrCompetitionInvalidStatus
	}

	competition, err := s.competitionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if !isValidCompetitionTransition(competition.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCompetitionInvalidStatusTransition, competition.Status, next)
	}
	if competition.Status == next {
		return competition, nil
	}

	if next == models.CompetitionOngoing && formatHasGenerator(competition.Format) {
		if _, err := s.bracketService.GenerateBracket(ctx, id); err != nil {
			return nil, err
		}
	}

	if err := s.competitionRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, translateRepoError(err)
	}
	competition.Status = next

	if s.logger != nil {
		s.logger.Info("competition status changed",
			slog.Int("competition_id", id),
			slog.String("status", string(next)),
		)
	}
	return competition, nil
}

func (s *competitionService) Delete(ctx context.Context, id int) error {
	return translateRepoError(s.competitionRepo.Delete(ctx, id))
}
