package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound           = errors.New("team not found")
	ErrTeamCompetitionInvalid = errors.New("team competition conflict or invalid")
	ErrTeamHouseInvalid       = errors.New("team house conflict or invalid")
	ErrTeamNameConflict       = errors.New("team name is already taken in this competition")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByCompetition(ctx context.Context, competitionID int) ([]*models.Team, error)
	MaxSeedNumber(ctx context.Context, competitionID int) (int, error)
	Update(ctx context.Context, team *models.Team) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	SetEliminated(ctx context.Context, exec SQLExecutor, id int, eliminated bool) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, competition_id, name, house_id, seed_number, eliminated, logo_key, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (competition_id, name, house_id, seed_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.CompetitionID,
		team.Name,
		team.HouseID,
		team.SeedNumber,
	).Scan(&team.ID, &team.CreatedAt)

	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.CompetitionID,
		&team.Name,
		&team.HouseID,
		&team.SeedNumber,
		&team.Eliminated,
		&team.LogoKey,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

// ListByCompetition returns teams ordered by seed number ascending with
// unseeded teams last in creation order, which is the order bracket
// generation consumes them in.
func (r *postgresTeamRepository) ListByCompetition(ctx context.Context, competitionID int) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + `
		FROM teams
		WHERE competition_id = $1
		ORDER BY seed_number ASC NULLS LAST, created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(
			&team.ID,
			&team.CompetitionID,
			&team.Name,
			&team.HouseID,
			&team.SeedNumber,
			&team.Eliminated,
			&team.LogoKey,
			&team.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, &team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

// MaxSeedNumber returns 0 when no team in the competition has a seed.
func (r *postgresTeamRepository) MaxSeedNumber(ctx context.Context, competitionID int) (int, error) {
	var max sql.NullInt64
	query := `SELECT MAX(seed_number) FROM teams WHERE competition_id = $1`
	if err := r.db.QueryRowContext(ctx, query, competitionID).Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `UPDATE teams SET name = $1, house_id = $2, seed_number = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, team.Name, team.HouseID, team.SeedNumber, team.ID)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) SetEliminated(ctx context.Context, exec SQLExecutor, id int, eliminated bool) error {
	result, err := exec.ExecContext(ctx, `UPDATE teams SET eliminated = $1 WHERE id = $2`, eliminated, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// Delete removes the team together with its members (cascade).
func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "teams_competition_id_name_key" {
				return ErrTeamNameConflict
			}
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "teams_competition_id_fkey":
				return ErrTeamCompetitionInvalid
			case "teams_house_id_fkey":
				return ErrTeamHouseInvalid
			}
		}
	}
	return err
}
