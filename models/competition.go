package models

import "time"

// CompetitionStatus mirrors the competition_status ENUM in the database.
type CompetitionStatus string

const (
	CompetitionRegistration CompetitionStatus = "registration"
	CompetitionOngoing      CompetitionStatus = "ongoing"
	CompetitionCompleted    CompetitionStatus = "completed"
	CompetitionCancelled    CompetitionStatus = "cancelled"
)

type CompetitionFormat string

const (
	FormatSingleElimination CompetitionFormat = "single_elimination"
	FormatRoundRobin        CompetitionFormat = "round_robin"
	FormatLeague            CompetitionFormat = "league"
	FormatSwiss             CompetitionFormat = "swiss"
	FormatCustom            CompetitionFormat = "custom"
)

type ParticipantType string

const (
	ParticipantIndividual ParticipantType = "individual"
	ParticipantHouse      ParticipantType = "house"
	ParticipantMixed      ParticipantType = "mixed"
)

// Competition is the root entity: teams, matches and referees are owned
// by it and are removed with it.
type Competition struct {
	ID              int               `json:"id" db:"id"`
	EventID         *int              `json:"event_id,omitempty" db:"event_id"`
	SportName       string            `json:"sport_name" db:"sport_name"`
	Format          CompetitionFormat `json:"format" db:"format"`
	MatchType       int               `json:"match_type" db:"match_type"` // players per side
	ParticipantType ParticipantType   `json:"participant_type" db:"participant_type"`
	Status          CompetitionStatus `json:"status" db:"status"`
	RegDeadline     *time.Time        `json:"registration_deadline,omitempty" db:"registration_deadline"`
	MaxParticipants *int              `json:"max_participants,omitempty" db:"max_participants"`
	Rules           *string           `json:"rules,omitempty" db:"rules"`
	OrganizerID     int               `json:"organizer_id" db:"organizer_id"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`

	Teams    []Team    `json:"teams,omitempty" db:"-"`
	Matches  []Match   `json:"matches,omitempty" db:"-"`
	Referees []Referee `json:"referees,omitempty" db:"-"`
}
