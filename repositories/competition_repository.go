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
	ErrCompetitionNotFound         = errors.New("competition not found")
	ErrCompetitionOrganizerInvalid = errors.New("competition organizer conflict or invalid")
)

type CompetitionRepository interface {
	Create(ctx context.Context, c *models.Competition) error
	GetByID(ctx context.Context, id int) (*models.Competition, error)
	List(ctx context.Context, status *models.CompetitionStatus, limit, offset int) ([]*models.Competition, error)
	Update(ctx context.Context, c *models.Competition) error
	UpdateStatus(ctx context.Context, id int, status models.CompetitionStatus) error
	Delete(ctx context.Context, id int) error
}

type postgresCompetitionRepository struct {
	db *sql.DB
}

func NewPostgresCompetitionRepository(db *sql.DB) CompetitionRepository {
	return &postgresCompetitionRepository{db: db}
}

const competitionColumns = `id, event_id, sport_name, format, match_type, participant_type, status,
	registration_deadline, max_participants, rules, organizer_id, created_at`

func (r *postgresCompetitionRepository) Create(ctx context.Context, c *models.Competition) error {
	query := `
		INSERT INTO competitions
			(event_id, sport_name, format, match_type, participant_type, status,
			 registration_deadline, max_participants, rules, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.EventID,
		c.SportName,
		c.Format,
		c.MatchType,
		c.ParticipantType,
		c.Status,
		c.RegDeadline,
		c.MaxParticipants,
		c.Rules,
		c.OrganizerID,
	).Scan(&c.ID, &c.CreatedAt)

	return r.handleCompetitionError(err)
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE id = $1`

	c := &models.Competition{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.EventID,
		&c.SportName,
		&c.Format,
		&c.MatchType,
		&c.ParticipantType,
		&c.Status,
		&c.RegDeadline,
		&c.MaxParticipants,
		&c.Rules,
		&c.OrganizerID,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCompetitionRepository) List(ctx context.Context, status *models.CompetitionStatus, limit, offset int) ([]*models.Competition, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + competitionColumns + ` FROM competitions`)

	args := []interface{}{}
	placeholderIndex := 1

	if status != nil {
		queryBuilder.WriteString(" WHERE status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *status)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")
	queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(placeholderIndex))
	args = append(args, limit)
	placeholderIndex++
	queryBuilder.WriteString(" OFFSET $" + strconv.Itoa(placeholderIndex))
	args = append(args, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	competitions := make([]*models.Competition, 0)
	for rows.Next() {
		var c models.Competition
		if scanErr := rows.Scan(
			&c.ID,
			&c.EventID,
			&c.SportName,
			&c.Format,
			&c.MatchType,
			&c.ParticipantType,
			&c.Status,
			&c.RegDeadline,
			&c.MaxParticipants,
			&c.Rules,
			&c.OrganizerID,
			&c.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		competitions = append(competitions, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return competitions, nil
}

func (r *postgresCompetitionRepository) Update(ctx context.Context, c *models.Competition) error {
	query := `
		UPDATE competitions
		SET sport_name = $1, format = $2, match_type = $3, participant_type = $4,
			registration_deadline = $5, max_participants = $6, rules = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		c.SportName,
		c.Format,
		c.MatchType,
		c.ParticipantType,
		c.RegDeadline,
		c.MaxParticipants,
		c.Rules,
		c.ID,
	)
	if err != nil {
		return r.handleCompetitionError(err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) UpdateStatus(ctx context.Context, id int, status models.CompetitionStatus) error {
	query := `UPDATE competitions SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

// Delete removes the competition; teams, matches and referees go with it
// via ON DELETE CASCADE.
func (r *postgresCompetitionRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM competitions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) handleCompetitionError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			if pqErr.Constraint == "competitions_organizer_id_fkey" {
				return ErrCompetitionOrganizerInvalid
			}
		}
	}
	return err
}
