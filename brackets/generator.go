package brackets

import (
	"context"
	"errors"

	"github.com/TheMordhon1/warga-pkt/models"
)

var ErrNotEnoughTeams = errors.New("at least 2 teams are required to generate a bracket")

// BracketMatch is one planned match of a generated bracket. It exists
// only in memory: the persistence layer assigns database ids and
// resolves NextUID into a next_match_id foreign key.
type BracketMatch struct {
	UID          string // "R<round>M<order>", unique within one generation
	Round        int
	OrderInRound int

	Team1ID *int
	Team2ID *int

	// Forward link: the winner of this match fills slot NextSlot (1 or 2)
	// of the match identified by NextUID. Nil for the final.
	NextUID  *string
	NextSlot *int

	// A bye is recorded as an already completed match with the sole team
	// as winner.
	IsBye    bool
	WinnerID *int
	Status   models.MatchStatus
}

type GenerateParams struct {
	Competition *models.Competition
	Teams       []*models.Team
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*BracketMatch, error)
	Name() string
}
