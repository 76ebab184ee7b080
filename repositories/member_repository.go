package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/lib/pq"
)

var (
	ErrTeamMemberNotFound    = errors.New("team member not found")
	ErrTeamMemberConflict    = errors.New("user is already a member of this team")
	ErrTeamMemberUserInvalid = errors.New("team member user conflict or invalid")
	ErrTeamMemberTeamInvalid = errors.New("team member team conflict or invalid")
)

type TeamMemberRepository interface {
	Create(ctx context.Context, member *models.TeamMember) error
	ListByTeam(ctx context.Context, teamID int) ([]*models.TeamMember, error)
	FindByTeamAndUser(ctx context.Context, teamID, userID int) (*models.TeamMember, error)
	ClearCaptain(ctx context.Context, teamID int) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamMemberRepository struct {
	db *sql.DB
}

func NewPostgresTeamMemberRepository(db *sql.DB) TeamMemberRepository {
	return &postgresTeamMemberRepository{db: db}
}

func (r *postgresTeamMemberRepository) Create(ctx context.Context, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, user_id, is_captain)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		member.TeamID,
		member.UserID,
		member.IsCaptain,
	).Scan(&member.ID, &member.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "team_members_team_id_user_id_key" {
					return ErrTeamMemberConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "team_members_team_id_fkey":
					return ErrTeamMemberTeamInvalid
				case "team_members_user_id_fkey":
					return ErrTeamMemberUserInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamMemberRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.TeamMember, error) {
	query := `
		SELECT id, team_id, user_id, is_captain, created_at
		FROM team_members
		WHERE team_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*models.TeamMember, 0)
	for rows.Next() {
		var m models.TeamMember
		if scanErr := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.IsCaptain, &m.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		members = append(members, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *postgresTeamMemberRepository) FindByTeamAndUser(ctx context.Context, teamID, userID int) (*models.TeamMember, error) {
	query := `
		SELECT id, team_id, user_id, is_captain, created_at
		FROM team_members
		WHERE team_id = $1 AND user_id = $2`

	m := &models.TeamMember{}
	err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(
		&m.ID, &m.TeamID, &m.UserID, &m.IsCaptain, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

// ClearCaptain drops the captain flag from every member of the team.
// Clearing a team that has no captain is not an error.
func (r *postgresTeamMemberRepository) ClearCaptain(ctx context.Context, teamID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE team_members SET is_captain = FALSE WHERE team_id = $1 AND is_captain = TRUE`, teamID)
	return err
}

func (r *postgresTeamMemberRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamMemberNotFound)
}
