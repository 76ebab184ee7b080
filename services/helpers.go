package services

import (
	"errors"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/TheMordhon1/warga-pkt/repositories"
	"github.com/TheMordhon1/warga-pkt/storage"
)

func isValidCompetitionTransition(current, next models.CompetitionStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.CompetitionStatus][]models.CompetitionStatus{
		models.CompetitionRegistration: {models.CompetitionOngoing, models.CompetitionCancelled},
		models.CompetitionOngoing:      {models.CompetitionCompleted, models.CompetitionCancelled},
		models.CompetitionCompleted:    {},
		models.CompetitionCancelled:    {},
	}
	for _, s := range allowed[current] {
		if next == s {
			return true
		}
	}
	return false
}

func isValidMatchTransition(current, next models.MatchStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.MatchStatus][]models.MatchStatus{
		models.MatchScheduled: {models.MatchOngoing, models.MatchCompleted, models.MatchCancelled},
		models.MatchOngoing:   {models.MatchCompleted, models.MatchCancelled},
		models.MatchCompleted: {},
		models.MatchCancelled: {},
	}
	for _, s := range allowed[current] {
		if next == s {
			return true
		}
	}
	return false
}

func isKnownFormat(f models.CompetitionFormat) bool {
	switch f {
	case models.FormatSingleElimination, models.FormatRoundRobin, models.FormatLeague,
		models.FormatSwiss, models.FormatCustom:
		return true
	}
	return false
}

// formatHasGenerator reports whether the format's match set is produced
// by bracket generation. Matches for the remaining formats (league,
// swiss, custom) are created manually by the organizer.
func formatHasGenerator(f models.CompetitionFormat) bool {
	switch f {
	case models.FormatSingleElimination, models.FormatRoundRobin:
		return true
	}
	return false
}

func isKnownParticipantType(t models.ParticipantType) bool {
	switch t {
	case models.ParticipantIndividual, models.ParticipantHouse, models.ParticipantMixed:
		return true
	}
	return false
}

// translateRepoError maps well-known repository sentinels onto the
// service taxonomy so handlers never import the repositories package.
func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrCompetitionNotFound):
		return ErrCompetitionNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamMemberNotFound):
		return ErrTeamMemberNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrHouseNotFound):
		return ErrHouseNotFound
	case errors.Is(err, repositories.ErrRefereeNotFound):
		return ErrRefereeNotFound
	case errors.Is(err, repositories.ErrTeamMemberConflict):
		return ErrTeamMemberDuplicate
	case errors.Is(err, repositories.ErrRefereeConflict):
		return ErrRefereeDuplicate
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrUserEmailConflict
	default:
		return err
	}
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

func derefTeams(slice []*models.Team) []models.Team {
	result := make([]models.Team, 0, len(slice))
	for _, ptr := range slice {
		if ptr != nil {
			result = append(result, *ptr)
		}
	}
	return result
}

func derefMatches(slice []*models.Match) []models.Match {
	result := make([]models.Match, 0, len(slice))
	for _, ptr := range slice {
		if ptr != nil {
			result = append(result, *ptr)
		}
	}
	return result
}

func derefReferees(slice []*models.Referee) []models.Referee {
	result := make([]models.Referee, 0, len(slice))
	for _, ptr := range slice {
		if ptr != nil {
			result = append(result, *ptr)
		}
	}
	return result
}
