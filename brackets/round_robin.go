package brackets

import (
	"context"
	"fmt"

	"github.com/TheMordhon1/warga-pkt/models"
)

// RoundRobinGenerator schedules every team against every other team once
// using the circle method: teams are arranged around a circle, the first
// stays fixed and the rest rotate one position per round. No forward
// links and no byes-as-matches; a team left without an opponent in a
// round (odd team count) simply sits that round out.
type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

func (g *RoundRobinGenerator) Generate(_ context.Context, params GenerateParams) ([]*BracketMatch, error) {
	teams := orderBySeed(params.Teams)
	if len(teams) < 2 {
		return nil, ErrNotEnoughTeams
	}

	ids := make([]*int, 0, len(teams)+1)
	for _, t := range teams {
		id := t.ID
		ids = append(ids, &id)
	}
	if len(ids)%2 != 0 {
		ids = append(ids, nil) // placeholder opponent, pairing against it is a rest round
	}

	numRounds := len(ids) - 1
	half := len(ids) / 2
	matches := make([]*BracketMatch, 0, numRounds*half)

	for r := 1; r <= numRounds; r++ {
		order := 0
		for i := 0; i < half; i++ {
			t1 := ids[i]
			t2 := ids[len(ids)-1-i]
			if t1 == nil || t2 == nil {
				continue
			}
			order++
			matches = append(matches, &BracketMatch{
				UID:          fmt.Sprintf("RR%dM%d", r, order),
				Round:        r,
				OrderInRound: order,
				Team1ID:      t1,
				Team2ID:      t2,
				Status:       models.MatchScheduled,
			})
		}
		// rotate all but the first position
		last := ids[len(ids)-1]
		copy(ids[2:], ids[1:len(ids)-1])
		ids[1] = last
	}

	return matches, nil
}
