package models

import "time"

// MatchStatus mirrors the match_status ENUM in the database.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchOngoing   MatchStatus = "ongoing"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

// Match is one node of a competition bracket. Team slots are nullable
// until a previous round fills them; NextMatchID and NextSlot are set at
// generation time and never change afterwards. Scores are free-form
// strings ("21-15, 21-18"), the winner is asserted explicitly and never
// derived from them.
type Match struct {
	ID            int         `json:"id" db:"id"`
	CompetitionID int         `json:"competition_id" db:"competition_id"`
	Round         int         `json:"round" db:"round"`
	MatchNumber   int         `json:"match_number" db:"match_number"`
	GroupName     *string     `json:"group_name,omitempty" db:"group_name"`
	Team1ID       *int        `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID       *int        `json:"team2_id,omitempty" db:"team2_id"`
	Score1        *string     `json:"score1,omitempty" db:"score1"`
	Score2        *string     `json:"score2,omitempty" db:"score2"`
	WinnerID      *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status        MatchStatus `json:"status" db:"status"`
	ScheduledAt   *time.Time  `json:"scheduled_at,omitempty" db:"scheduled_at"`
	Location      *string     `json:"location,omitempty" db:"location"`
	Notes         *string     `json:"notes,omitempty" db:"notes"`
	NextMatchID   *int        `json:"next_match_id,omitempty" db:"next_match_id"`
	NextSlot      *int        `json:"next_slot,omitempty" db:"next_slot"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}
