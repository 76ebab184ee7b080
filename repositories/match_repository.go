package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchCompetitionInvalid = errors.New("match competition conflict or invalid")
	ErrMatchTeamInvalid        = errors.New("match team conflict or invalid")
	ErrMatchWinnerInvalid      = errors.New("match winner conflict or invalid")
)

// MatchRepository methods all take a SQLExecutor: bracket generation and
// winner advancement must run inside one transaction, everything else
// passes the plain *sql.DB.
type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, id int, nextMatchID, nextSlot *int) error
	UpdateTeams(ctx context.Context, exec SQLExecutor, id int, team1ID, team2ID *int) error
	CountProgressedByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error)
	DeleteByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) error
}

type postgresMatchRepository struct{}

func NewPostgresMatchRepository() MatchRepository {
	return &postgresMatchRepository{}
}

const matchColumns = `id, competition_id, round, match_number, group_name, team1_id, team2_id,
	score1, score2, winner_id, status, scheduled_at, location, notes, next_match_id, next_slot, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(competition_id, round, match_number, group_name, team1_id, team2_id,
			 score1, score2, winner_id, status, scheduled_at, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.CompetitionID,
		match.Round,
		match.MatchNumber,
		match.GroupName,
		match.Team1ID,
		match.Team2ID,
		match.Score1,
		match.Score2,
		match.WinnerID,
		match.Status,
		match.ScheduledAt,
		match.Location,
		match.Notes,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func scanMatch(scanner interface{ Scan(...interface{}) error }, m *models.Match) error {
	return scanner.Scan(
		&m.ID,
		&m.CompetitionID,
		&m.Round,
		&m.MatchNumber,
		&m.GroupName,
		&m.Team1ID,
		&m.Team2ID,
		&m.Score1,
		&m.Score2,
		&m.WinnerID,
		&m.Status,
		&m.ScheduledAt,
		&m.Location,
		&m.Notes,
		&m.NextMatchID,
		&m.NextSlot,
		&m.CreatedAt,
	)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	if err := scanMatch(exec.QueryRowContext(ctx, query, id), match); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int, roundFilter *int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE competition_id = $1`)

	args := []interface{}{competitionID}
	placeholderIndex := 2

	if roundFilter != nil {
		queryBuilder.WriteString(" AND round = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *roundFilter)
		placeholderIndex++
	}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY round ASC, match_number ASC")

	rows, err := exec.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := scanMatch(rows, &match); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// Update writes the mutable result fields. Round, match number and the
// next-match link are fixed at generation time and deliberately not
// touched here.
func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET score1 = $1, score2 = $2, winner_id = $3, status = $4,
			scheduled_at = $5, location = $6, notes = $7
		WHERE id = $8`

	result, err := exec.ExecContext(ctx, query,
		match.Score1,
		match.Score2,
		match.WinnerID,
		match.Status,
		match.ScheduledAt,
		match.Location,
		match.Notes,
		match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, id int, nextMatchID, nextSlot *int) error {
	query := `UPDATE matches SET next_match_id = $1, next_slot = $2 WHERE id = $3`
	result, err := exec.ExecContext(ctx, query, nextMatchID, nextSlot, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateTeams(ctx context.Context, exec SQLExecutor, id int, team1ID, team2ID *int) error {
	query := `UPDATE matches SET team1_id = $1, team2_id = $2 WHERE id = $3`
	result, err := exec.ExecContext(ctx, query, team1ID, team2ID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// CountProgressedByTeam counts matches referencing the team that have
// moved past the scheduled state.
func (r *postgresMatchRepository) CountProgressedByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM matches
		WHERE (team1_id = $1 OR team2_id = $1) AND status <> $2`

	var count int
	if err := exec.QueryRowContext(ctx, query, teamID, models.MatchScheduled).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresMatchRepository) DeleteByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE competition_id = $1`, competitionID)
	return err
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_competition_id_fkey":
				return ErrMatchCompetitionInvalid
			case "matches_team1_id_fkey", "matches_team2_id_fkey":
				return ErrMatchTeamInvalid
			case "matches_winner_id_fkey":
				return ErrMatchWinnerInvalid
			}
		}
	}
	return err
}
