package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/lib/pq"
)

var (
	ErrRefereeNotFound           = errors.New("referee not found")
	ErrRefereeConflict           = errors.New("user is already a referee for this competition")
	ErrRefereeUserInvalid        = errors.New("referee user conflict or invalid")
	ErrRefereeCompetitionInvalid = errors.New("referee competition conflict or invalid")
)

type RefereeRepository interface {
	Create(ctx context.Context, referee *models.Referee) error
	ListByCompetition(ctx context.Context, competitionID int) ([]*models.Referee, error)
	FindByCompetitionAndUser(ctx context.Context, competitionID, userID int) (*models.Referee, error)
	Delete(ctx context.Context, id int) error
}

type postgresRefereeRepository struct {
	db *sql.DB
}

func NewPostgresRefereeRepository(db *sql.DB) RefereeRepository {
	return &postgresRefereeRepository{db: db}
}

func (r *postgresRefereeRepository) Create(ctx context.Context, referee *models.Referee) error {
	query := `
		INSERT INTO referees (competition_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		referee.CompetitionID,
		referee.UserID,
	).Scan(&referee.ID, &referee.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "referees_competition_id_user_id_key" {
					return ErrRefereeConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "referees_competition_id_fkey":
					return ErrRefereeCompetitionInvalid
				case "referees_user_id_fkey":
					return ErrRefereeUserInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresRefereeRepository) ListByCompetition(ctx context.Context, competitionID int) ([]*models.Referee, error) {
	query := `
		SELECT id, competition_id, user_id, created_at
		FROM referees
		WHERE competition_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	referees := make([]*models.Referee, 0)
	for rows.Next() {
		var ref models.Referee
		if scanErr := rows.Scan(&ref.ID, &ref.CompetitionID, &ref.UserID, &ref.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		referees = append(referees, &ref)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return referees, nil
}

func (r *postgresRefereeRepository) FindByCompetitionAndUser(ctx context.Context, competitionID, userID int) (*models.Referee, error) {
	query := `
		SELECT id, competition_id, user_id, created_at
		FROM referees
		WHERE competition_id = $1 AND user_id = $2`

	ref := &models.Referee{}
	err := r.db.QueryRowContext(ctx, query, competitionID, userID).Scan(
		&ref.ID, &ref.CompetitionID, &ref.UserID, &ref.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefereeNotFound
		}
		return nil, err
	}
	return ref, nil
}

func (r *postgresRefereeRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM referees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRefereeNotFound)
}
