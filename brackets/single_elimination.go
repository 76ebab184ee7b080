package brackets

import (
	"context"
	"fmt"
	"sort"

	"github.com/TheMordhon1/warga-pkt/models"
)

// SingleEliminationGenerator builds the full match tree for a knockout
// competition in one pass: every round is created up front with forward
// links wired, so the result is either a complete bracket or an error.
//
// Teams are ordered by seed number ascending; a team without a seed keeps
// its insertion position as an implicit seed, which makes generation
// deterministic for a given team set. Pairing is adjacent (1v2, 3v4, ...)
// with byes occupying the trailing pairs of round 1.
type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) Generate(_ context.Context, params GenerateParams) ([]*BracketMatch, error) {
	teams := orderBySeed(params.Teams)
	n := len(teams)
	if n < 2 {
		return nil, ErrNotEnoughTeams
	}

	numRounds, bracketSize := bracketDimensions(n)

	matches := make([]*BracketMatch, 0, bracketSize-1)
	byRound := make([][]*BracketMatch, numRounds+1)

	for r := 1; r <= numRounds; r++ {
		count := bracketSize >> uint(r)
		byRound[r] = make([]*BracketMatch, 0, count)
		for j := 1; j <= count; j++ {
			bm := &BracketMatch{
				UID:          matchUID(r, j),
				Round:        r,
				OrderInRound: j,
				Status:       models.MatchScheduled,
			}
			if r < numRounds {
				next := matchUID(r+1, (j+1)/2)
				slot := 2 - j%2 // odd match feeds slot 1, even feeds slot 2
				bm.NextUID = &next
				bm.NextSlot = &slot
			}
			byRound[r] = append(byRound[r], bm)
			matches = append(matches, bm)
		}
	}

	// Byes go one per pair at the tail of round 1. bracketSize is the
	// smallest power of two >= n, so the bye count is always below the
	// pair count and no pair is ever left without a team.
	half := bracketSize / 2
	fullPairs := half - (bracketSize - n)

	idx := 0
	for j0, bm := range byRound[1] {
		id := teams[idx].ID
		bm.Team1ID = &id
		idx++
		if j0 < fullPairs {
			id2 := teams[idx].ID
			bm.Team2ID = &id2
			idx++
		}

		if bm.Team2ID == nil {
			// Bye: recorded as completed with the sole team as winner,
			// advancing without a score.
			bm.IsBye = true
			bm.WinnerID = bm.Team1ID
			bm.Status = models.MatchCompleted
			if bm.NextUID != nil {
				target := byRound[2][j0/2]
				if *bm.NextSlot == 1 {
					target.Team1ID = bm.Team1ID
				} else {
					target.Team2ID = bm.Team1ID
				}
			}
		}
	}

	return matches, nil
}

func matchUID(round, order int) string {
	return fmt.Sprintf("R%dM%d", round, order)
}

// bracketDimensions returns the round count and the smallest power of
// two >= n.
func bracketDimensions(n int) (rounds, size int) {
	size = 1
	for size < n {
		size <<= 1
		rounds++
	}
	return rounds, size
}

// orderBySeed sorts teams by seed number ascending without mutating the
// input. A missing seed is treated as the team's 1-based insertion
// position; the sort is stable so equal seeds keep creation order.
func orderBySeed(teams []*models.Team) []*models.Team {
	ordered := make([]*models.Team, len(teams))
	copy(ordered, teams)

	keys := make(map[int]int, len(teams))
	for i, t := range ordered {
		if t.SeedNumber != nil {
			keys[t.ID] = *t.SeedNumber
		} else {
			keys[t.ID] = i + 1
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return keys[ordered[i].ID] < keys[ordered[j].ID]
	})
	return ordered
}
