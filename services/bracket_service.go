package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/TheMordhon1/warga-pkt/brackets"
	"github.com/TheMordhon1/warga-pkt/metrics"
	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/TheMordhon1/warga-pkt/repositories"
	"golang.org/x/sync/errgroup"
)

// BracketService turns a competition's team set into a persisted match
// tree. Generation is all-or-nothing: the whole bracket is staged in
// memory and written in one transaction, so a failure leaves the
// competition's match set untouched.
type BracketService interface {
	GenerateBracket(ctx context.Context, competitionID int) ([]*models.Match, error)
	GetBracket(ctx context.Context, competitionID int) (*models.Competition, error)
}

type bracketService struct {
	db              repositories.SQLExecutor
	runner          repositories.TxRunner
	competitionRepo repositories.CompetitionRepository
	teamRepo        repositories.TeamRepository
	matchRepo       repositories.MatchRepository
	refereeRepo     repositories.RefereeRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewBracketService(
	db repositories.SQLExecutor,
	runner repositories.TxRunner,
	competitionRepo repositories.CompetitionRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	refereeRepo repositories.RefereeRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		runner:          runner,
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		matchRepo:       matchRepo,
		refereeRepo:     refereeRepo,
		hub:             hub,
		logger:          logger,
	}
}

// GenerateBracket builds and persists the bracket for the competition.
// Re-invoking it replaces a fully unplayed bracket; once any match has
// progressed past scheduled it fails with ErrBracketAlreadyStarted and
// leaves the existing matches untouched. The progress check runs inside
// the same transaction as the rewrite, so two concurrent callers cannot
// both succeed.
func (s *bracketService) GenerateBracket(ctx context.Context, competitionID int) ([]*models.Match, error) {
	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	var generator brackets.Generator
	switch competition.Format {
	case models.FormatSingleElimination:
		generator = brackets.NewSingleEliminationGenerator()
	case models.FormatRoundRobin:
		generator = brackets.NewRoundRobinGenerator()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, competition.Format)
	}

	teams, err := s.teamRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for competition %d: %w", competitionID, err)
	}
	if len(teams) < 2 {
		return nil, ErrInsufficientParticipants
	}

	planned, err := generator.Generate(ctx, brackets.GenerateParams{
		Competition: competition,
		Teams:       teams,
	})
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughTeams) {
			return nil, ErrInsufficientParticipants
		}
		return nil, fmt.Errorf("failed to generate bracket structure for competition %d: %w", competitionID, err)
	}

	var created []*models.Match
	txErr := s.runner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		existing, err := s.matchRepo.ListByCompetition(ctx, exec, competitionID, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list existing matches: %w", err)
		}
		for _, m := range existing {
			if m.Status != models.MatchScheduled && !(m.Status == models.MatchCompleted && isByeMatch(m)) {
				return ErrBracketAlreadyStarted
			}
		}
		if len(existing) > 0 {
			if err := s.matchRepo.DeleteByCompetition(ctx, exec, competitionID); err != nil {
				return fmt.Errorf("failed to clear unplayed bracket: %w", err)
			}
		}

		// First pass: insert every planned match and remember its id.
		idByUID := make(map[string]int, len(planned))
		created = make([]*models.Match, 0, len(planned))
		for _, bm := range planned {
			match := &models.Match{
				CompetitionID: competitionID,
				Round:         bm.Round,
				MatchNumber:   bm.OrderInRound,
				Team1ID:       bm.Team1ID,
				Team2ID:       bm.Team2ID,
				WinnerID:      bm.WinnerID,
				Status:        bm.Status,
			}
			if err := s.matchRepo.Create(ctx, exec, match); err != nil {
				return fmt.Errorf("failed to persist match %s: %w", bm.UID, err)
			}
			idByUID[bm.UID] = match.ID
			created = append(created, match)
		}

		// Second pass: resolve the forward links now that ids exist.
		for i, bm := range planned {
			if bm.NextUID == nil {
				continue
			}
			nextID, ok := idByUID[*bm.NextUID]
			if !ok {
				return fmt.Errorf("generated bracket references unknown match %s", *bm.NextUID)
			}
			if err := s.matchRepo.UpdateNextMatchInfo(ctx, exec, created[i].ID, &nextID, bm.NextSlot); err != nil {
				return fmt.Errorf("failed to link match %s: %w", bm.UID, err)
			}
			created[i].NextMatchID = &nextID
			created[i].NextSlot = bm.NextSlot
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	metrics.BracketsGenerated.Inc()
	if s.logger != nil {
		s.logger.Info("bracket generated",
			slog.Int("competition_id", competitionID),
			slog.Int("teams", len(teams)),
			slog.Int("matches", len(created)),
			slog.String("generator", generator.Name()),
		)
	}
	if s.hub != nil {
		s.hub.BroadcastToRoom(strconv.Itoa(competitionID), brackets.Message{
			Type:    brackets.EventBracketGenerated,
			Payload: created,
			RoomID:  strconv.Itoa(competitionID),
		})
	}
	return created, nil
}

// GetBracket loads the competition together with its teams, matches and
// referees, fetched in parallel.
func (s *bracketService) GetBracket(ctx context.Context, competitionID int) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		teams, err := s.teamRepo.ListByCompetition(gCtx, competitionID)
		if err != nil {
			return fmt.Errorf("failed to load teams: %w", err)
		}
		competition.Teams = derefTeams(teams)
		return nil
	})

	g.Go(func() error {
		matches, err := s.matchRepo.ListByCompetition(gCtx, s.db, competitionID, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to load matches: %w", err)
		}
		competition.Matches = derefMatches(matches)
		return nil
	})

	g.Go(func() error {
		referees, err := s.refereeRepo.ListByCompetition(gCtx, competitionID)
		if err != nil {
			return fmt.Errorf("failed to load referees: %w", err)
		}
		competition.Referees = derefReferees(referees)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return competition, nil
}

// isByeMatch reports whether a match is a generation-time bye: completed
// with a winner but only one team ever assigned. Byes do not count as
// bracket progress for the regeneration guard.
func isByeMatch(m *models.Match) bool {
	return m.WinnerID != nil && (m.Team1ID == nil || m.Team2ID == nil)
}
