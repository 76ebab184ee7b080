package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/TheMordhon1/warga-pkt/brackets"
	"github.com/TheMordhon1/warga-pkt/metrics"
	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/TheMordhon1/warga-pkt/repositories"
)

type CreateMatchInput struct {
	Round       int        `json:"round"`
	MatchNumber int        `json:"match_number"`
	GroupName   *string    `json:"group_name,omitempty"`
	Team1ID     *int       `json:"team1_id,omitempty"`
	Team2ID     *int       `json:"team2_id,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

type UpdateMatchInput struct {
	Score1      *string             `json:"score1,omitempty"`
	Score2      *string             `json:"score2,omitempty"`
	WinnerID    *int                `json:"winner_id,omitempty"`
	Status      *models.MatchStatus `json:"status,omitempty"`
	ScheduledAt *time.Time          `json:"scheduled_at,omitempty"`
	Location    *string             `json:"location,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
}

// MatchService records results and advances winners along the bracket.
// For formats without a bracket generator (league, swiss, custom) it also
// lets organizers create the schedule by hand.
type MatchService interface {
	CreateMatch(ctx context.Context, competitionID int, input CreateMatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	ListByCompetition(ctx context.Context, competitionID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	UpdateMatch(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error)
}

type matchService struct {
	db              repositories.SQLExecutor
	runner          repositories.TxRunner
	matchRepo       repositories.MatchRepository
	teamRepo        repositories.TeamRepository
	competitionRepo repositories.CompetitionRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewMatchService(
	db repositories.SQLExecutor,
	runner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	competitionRepo repositories.CompetitionRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:              db,
		runner:          runner,
		matchRepo:       matchRepo,
		teamRepo:        teamRepo,
		competitionRepo: competitionRepo,
		hub:             hub,
		logger:          logger,
	}
}

// CreateMatch inserts one hand-made match for a competition whose format
// has no bracket generator. Generated formats reject manual creation so
// the bracket's forward links stay consistent.
func (s *matchService) CreateMatch(ctx context.Context, competitionID int, input CreateMatchInput) (*models.Match, error) {
	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if formatHasGenerator(competition.Format) {
		return nil, ErrMatchCreationNotAllowed
	}
	if input.Round <= 0 {
		return nil, ErrInvalidRound
	}
	if input.MatchNumber <= 0 {
		return nil, ErrInvalidMatchNumber
	}
	if input.Team1ID != nil && input.Team2ID != nil && *input.Team1ID == *input.Team2ID {
		return nil, ErrTeamsMustDiffer
	}
	for _, teamID := range []*int{input.Team1ID, input.Team2ID} {
		if teamID == nil {
			continue
		}
		team, err := s.teamRepo.GetByID(ctx, *teamID)
		if err != nil {
			return nil, translateRepoError(err)
		}
		if team.CompetitionID != competitionID {
			return nil, ErrTeamNotInCompetition
		}
	}

	match := &models.Match{
		CompetitionID: competitionID,
		Round:         input.Round,
		MatchNumber:   input.MatchNumber,
		GroupName:     input.GroupName,
		Team1ID:       input.Team1ID,
		Team2ID:       input.Team2ID,
		Status:        models.MatchScheduled,
		ScheduledAt:   input.ScheduledAt,
		Location:      input.Location,
		Notes:         input.Notes,
	}
	if err := s.matchRepo.Create(ctx, s.db, match); err != nil {
		return nil, translateRepoError(err)
	}

	if s.logger != nil {
		s.logger.Info("match created",
			slog.Int("match_id", match.ID),
			slog.Int("competition_id", competitionID),
		)
	}
	if s.hub != nil {
		room := strconv.Itoa(competitionID)
		s.hub.BroadcastToRoom(room, brackets.Message{
			Type:    brackets.EventMatchCreated,
			Payload: match,
			RoomID:  room,
		})
	}
	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return match, nil
}

func (s *matchService) ListByCompetition(ctx context.Context, competitionID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByCompetition(ctx, s.db, competitionID, round, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for competition %d: %w", competitionID, err)
	}
	return matches, nil
}

// UpdateMatch writes scores, status and winner for one match and, when
// the match completes with a winner, places that winner into the first
// open slot of the linked next match. The update and the advancement
// share one transaction.
//
// Reverting a completed match does not retract an advancement that
// already happened; organizers fix that manually.
func (s *matchService) UpdateMatch(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error) {
	var updated *models.Match

	txErr := s.runner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByID(ctx, exec, id)
		if err != nil {
			return translateRepoError(err)
		}

		if input.Score1 != nil {
			match.Score1 = input.Score1
		}
		if input.Score2 != nil {
			match.Score2 = input.Score2
		}
		if input.ScheduledAt != nil {
			match.ScheduledAt = input.ScheduledAt
		}
		if input.Location != nil {
			match.Location = input.Location
		}
		if input.Notes != nil {
			match.Notes = input.Notes
		}

		if input.WinnerID != nil {
			if !matchHasTeam(match, *input.WinnerID) {
				return ErrWinnerNotInMatch
			}
			match.WinnerID = input.WinnerID
		}

		if input.Status != nil {
			if !isValidMatchTransition(match.Status, *input.Status) {
				return ErrMatchInvalidStatusTransition
			}
			match.Status = *input.Status
		}

		if err := s.matchRepo.Update(ctx, exec, match); err != nil {
			return translateRepoError(err)
		}

		if match.Status == models.MatchCompleted && match.WinnerID != nil {
			if err := s.advanceWinner(ctx, exec, match); err != nil {
				return err
			}
			if err := s.markLoserEliminated(ctx, exec, match); err != nil {
				return err
			}
		}

		updated = match
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if updated.Status == models.MatchCompleted {
		metrics.MatchesCompleted.Inc()
	}
	if s.logger != nil {
		s.logger.Info("match updated",
			slog.Int("match_id", updated.ID),
			slog.Int("competition_id", updated.CompetitionID),
			slog.String("status", string(updated.Status)),
		)
	}
	if s.hub != nil {
		room := strconv.Itoa(updated.CompetitionID)
		s.hub.BroadcastToRoom(room, brackets.Message{
			Type:    brackets.EventMatchUpdated,
			Payload: updated,
			RoomID:  room,
		})
	}
	return updated, nil
}

// advanceWinner places the winner into the first open slot of the next
// match. Re-applying the same completed state is a no-op; a next match
// whose slots are both taken by other teams means the bracket is corrupt
// and the update is rejected.
func (s *matchService) advanceWinner(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if match.NextMatchID == nil {
		return nil
	}
	winnerID := *match.WinnerID

	next, err := s.matchRepo.GetByID(ctx, exec, *match.NextMatchID)
	if err != nil {
		return translateRepoError(err)
	}

	// Already advanced.
	if (next.Team1ID != nil && *next.Team1ID == winnerID) || (next.Team2ID != nil && *next.Team2ID == winnerID) {
		return nil
	}

	switch {
	case next.Team1ID == nil:
		next.Team1ID = &winnerID
	case next.Team2ID == nil:
		next.Team2ID = &winnerID
	default:
		return ErrNextMatchSlotsFull
	}

	if err := s.matchRepo.UpdateTeams(ctx, exec, next.ID, next.Team1ID, next.Team2ID); err != nil {
		return translateRepoError(err)
	}
	metrics.WinnersAdvanced.Inc()
	return nil
}

func (s *matchService) markLoserEliminated(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if match.Team1ID == nil || match.Team2ID == nil {
		return nil // bye, nobody lost
	}
	loserID := *match.Team1ID
	if loserID == *match.WinnerID {
		loserID = *match.Team2ID
	}
	if err := s.teamRepo.SetEliminated(ctx, exec, loserID, true); err != nil {
		return fmt.Errorf("failed to mark team %d eliminated: %w", loserID, err)
	}
	return nil
}

func matchHasTeam(match *models.Match, teamID int) bool {
	if match.Team1ID != nil && *match.Team1ID == teamID {
		return true
	}
	if match.Team2ID != nil && *match.Team2ID == teamID {
		return true
	}
	return false
}
