package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/TheMordhon1/warga-pkt/repositories"
	"github.com/TheMordhon1/warga-pkt/storage"
	"github.com/google/uuid"
)

type CreateTeamInput struct {
	CompetitionID int    `json:"competition_id"`
	Name          string `json:"name"`
	HouseID       *int   `json:"house_id,omitempty"`
	SeedNumber    *int   `json:"seed_number,omitempty"`
}

type UpdateTeamInput struct {
	Name       *string `json:"name,omitempty"`
	HouseID    *int    `json:"house_id,omitempty"`
	SeedNumber *int    `json:"seed_number,omitempty"`
}

// TeamService is the roster manager: it builds and validates teams while
// the owning competition is still in registration.
type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	ListByCompetition(ctx context.Context, competitionID int) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	RemoveTeam(ctx context.Context, id int) error
	AddMember(ctx context.Context, teamID, userID int, isCaptain bool) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, memberID int) error
	UploadLogo(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error)
}

type teamService struct {
	db              repositories.SQLExecutor
	teamRepo        repositories.TeamRepository
	memberRepo      repositories.TeamMemberRepository
	competitionRepo repositories.CompetitionRepository
	matchRepo       repositories.MatchRepository
	houseRepo       repositories.HouseRepository
	userRepo        repositories.UserRepository
	uploader        storage.FileUploader
}

func NewTeamService(
	db repositories.SQLExecutor,
	teamRepo repositories.TeamRepository,
	memberRepo repositories.TeamMemberRepository,
	competitionRepo repositories.CompetitionRepository,
	matchRepo repositories.MatchRepository,
	houseRepo repositories.HouseRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		db:              db,
		teamRepo:        teamRepo,
		memberRepo:      memberRepo,
		competitionRepo: competitionRepo,
		matchRepo:       matchRepo,
		houseRepo:       houseRepo,
		userRepo:        userRepo,
		uploader:        uploader,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	competition, err := s.competitionRepo.GetByID(ctx, input.CompetitionID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if competition.Status != models.CompetitionRegistration {
		return nil, ErrRegistrationClosed
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	existing, err := s.teamRepo.ListByCompetition(ctx, input.CompetitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for competition %d: %w", input.CompetitionID, err)
	}
	if competition.MaxParticipants != nil && len(existing) >= *competition.MaxParticipants {
		return nil, ErrCompetitionFull
	}

	if input.HouseID != nil {
		if _, err := s.houseRepo.GetByID(ctx, *input.HouseID); err != nil {
			return nil, translateRepoError(err)
		}
	}

	seed := input.SeedNumber
	if seed == nil {
		// Seeds are monotonically increasing and never reused after a
		// deletion, so generation order stays reproducible.
		max, err := s.teamRepo.MaxSeedNumber(ctx, input.CompetitionID)
		if err != nil {
			return nil, fmt.Errorf("failed to determine next seed number: %w", err)
		}
		next := max + 1
		seed = &next
	}

	team := &models.Team{
		CompetitionID: input.CompetitionID,
		Name:          name,
		HouseID:       input.HouseID,
		SeedNumber:    seed,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, translateRepoError(err)
	}
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	members, err := s.memberRepo.ListByTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", id, err)
	}
	team.Members = make([]models.TeamMember, 0, len(members))
	for _, m := range members {
		if m != nil {
			team.Members = append(team.Members, *m)
		}
	}

	if team.HouseID != nil {
		if house, err := s.houseRepo.GetByID(ctx, *team.HouseID); err == nil {
			team.House = house
		}
	}

	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) ListByCompetition(ctx context.Context, competitionID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for competition %d: %w", competitionID, err)
	}
	for _, team := range teams {
		populateTeamLogoURL(team, s.uploader)
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	competition, err := s.competitionRepo.GetByID(ctx, team.CompetitionID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if competition.Status != models.CompetitionRegistration {
		return nil, ErrRegistrationClosed
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = name
	}
	if input.HouseID != nil {
		if _, err := s.houseRepo.GetByID(ctx, *input.HouseID); err != nil {
			return nil, translateRepoError(err)
		}
		team.HouseID = input.HouseID
	}
	if input.SeedNumber != nil {
		team.SeedNumber = input.SeedNumber
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, translateRepoError(err)
	}
	return team, nil
}

// RemoveTeam deletes a team and its members. A team that is referenced
// by any match that has progressed past scheduled has started competing
// and cannot be removed.
func (s *teamService) RemoveTeam(ctx context.Context, id int) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return translateRepoError(err)
	}

	progressed, err := s.matchRepo.CountProgressedByTeam(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("failed to check matches of team %d: %w", id, err)
	}
	if progressed > 0 {
		return ErrTeamAlreadyCompeting
	}

	if team.LogoKey != nil && s.uploader != nil {
		// Logo cleanup is best effort; the row delete is what matters.
		_ = s.uploader.Delete(ctx, *team.LogoKey)
	}

	return translateRepoError(s.teamRepo.Delete(ctx, id))
}

// AddMember registers a user on a team. Passing isCaptain reassigns the
// captaincy: the previous captain flag is cleared first so the at most
// one captain invariant holds.
func (s *teamService) AddMember(ctx context.Context, teamID, userID int, isCaptain bool) (*models.TeamMember, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	competition, err := s.competitionRepo.GetByID(ctx, team.CompetitionID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if competition.Status != models.CompetitionRegistration {
		return nil, ErrRegistrationClosed
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, translateRepoError(err)
	}

	if _, err := s.memberRepo.FindByTeamAndUser(ctx, teamID, userID); err == nil {
		return nil, ErrTeamMemberDuplicate
	} else if !errors.Is(err, repositories.ErrTeamMemberNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	if isCaptain {
		if err := s.memberRepo.ClearCaptain(ctx, teamID); err != nil {
			return nil, fmt.Errorf("failed to clear previous captain of team %d: %w", teamID, err)
		}
	}

	member := &models.TeamMember{
		TeamID:    teamID,
		UserID:    userID,
		IsCaptain: isCaptain,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, translateRepoError(err)
	}
	return member, nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, memberID int) error {
	members, err := s.memberRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to list members of team %d: %w", teamID, err)
	}
	for _, m := range members {
		if m.ID == memberID {
			return translateRepoError(s.memberRepo.Delete(ctx, memberID))
		}
	}
	return ErrTeamMemberNotFound
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("teams/%d/logo-%s%s", teamID, uuid.NewString(), ext)
	if err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &key); err != nil {
		_ = s.uploader.Delete(ctx, key)
		return nil, translateRepoError(err)
	}
	if oldKey != nil && *oldKey != key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.LogoKey = &key
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func extensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("unsupported image content type %q", contentType)
	}
}
