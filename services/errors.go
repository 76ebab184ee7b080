package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed         = errors.New("validation failed")
	ErrTeamNameRequired         = errors.New("team name is required")
	ErrSportNameRequired        = errors.New("sport name is required")
	ErrInvalidFormat            = errors.New("invalid competition format")
	ErrInvalidParticipantType   = errors.New("invalid participant type")
	ErrInvalidMatchType         = errors.New("match type (players per side) must be positive")
	ErrInvalidMaxParticipants   = errors.New("max participants must be positive")
	ErrRegistrationClosed       = errors.New("competition is not open for registration")
	ErrWinnerNotInMatch         = errors.New("winner must be one of the two teams of the match")
	ErrPasswordTooShort         = errors.New("password is too short")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrInsufficientParticipants = errors.New("at least 2 teams are required to start the competition")
	ErrUnsupportedFormat        = errors.New("bracket generation is not supported for this format")
	ErrMatchCreationNotAllowed  = errors.New("matches for this format are created by bracket generation")
	ErrInvalidRound             = errors.New("round must be positive")
	ErrInvalidMatchNumber       = errors.New("match number must be positive")
	ErrTeamsMustDiffer          = errors.New("a match needs two different teams")
	ErrTeamNotInCompetition     = errors.New("team does not belong to this competition")

	// Duplicates
	ErrTeamMemberDuplicate = errors.New("user is already a member of this team")
	ErrRefereeDuplicate    = errors.New("user is already a referee for this competition")
	ErrUserEmailConflict   = errors.New("email address is already in use")
	ErrTeamNameConflict    = errors.New("team name is already taken in this competition")

	// Lifecycle conflicts
	ErrCompetitionFull                    = errors.New("competition has reached its participant cap")
	ErrCompetitionInvalidStatus           = errors.New("invalid competition status provided")
	ErrCompetitionInvalidStatusTransition = errors.New("invalid competition status transition")
	ErrMatchInvalidStatusTransition       = errors.New("invalid match status transition")
	ErrTeamAlreadyCompeting               = errors.New("team has matches in progress and cannot be removed")
	ErrBracketAlreadyStarted              = errors.New("bracket has progressed and cannot be regenerated")
	ErrNextMatchSlotsFull                 = errors.New("both slots of the next match are already occupied")

	// Authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Entity-specific not-found variants, more context than ErrNotFound
	ErrUserNotFound        = errors.New("user not found")
	ErrHouseNotFound       = errors.New("house not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamMemberNotFound  = errors.New("team member not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrRefereeNotFound     = errors.New("referee not found")
)
