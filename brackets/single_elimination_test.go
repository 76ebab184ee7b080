package brackets

import (
	"context"
	"fmt"
	"testing"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func team(id int, seed *int) *models.Team {
	return &models.Team{ID: id, SeedNumber: seed}
}

func seedOf(n int) *int {
	return &n
}

func generateSE(t *testing.T, teams []*models.Team) []*BracketMatch {
	t.Helper()
	matches, err := NewSingleEliminationGenerator().Generate(context.Background(), GenerateParams{Teams: teams})
	require.NoError(t, err)
	return matches
}

func TestSingleEliminationFourTeamsNoSeeds(t *testing.T) {
	teams := []*models.Team{team(10, nil), team(20, nil), team(30, nil), team(40, nil)}
	matches := generateSE(t, teams)

	require.Len(t, matches, 3)

	byUID := make(map[string]*BracketMatch)
	for _, m := range matches {
		byUID[m.UID] = m
	}

	m1 := byUID["R1M1"]
	require.NotNil(t, m1)
	assert.Equal(t, 10, *m1.Team1ID)
	assert.Equal(t, 20, *m1.Team2ID)
	assert.Equal(t, models.MatchScheduled, m1.Status)

	m2 := byUID["R1M2"]
	require.NotNil(t, m2)
	assert.Equal(t, 30, *m2.Team1ID)
	assert.Equal(t, 40, *m2.Team2ID)

	final := byUID["R2M1"]
	require.NotNil(t, final)
	assert.Nil(t, final.Team1ID)
	assert.Nil(t, final.Team2ID)
	assert.Nil(t, final.NextUID)

	require.NotNil(t, m1.NextUID)
	assert.Equal(t, "R2M1", *m1.NextUID)
	assert.Equal(t, 1, *m1.NextSlot)
	require.NotNil(t, m2.NextUID)
	assert.Equal(t, "R2M1", *m2.NextUID)
	assert.Equal(t, 2, *m2.NextSlot)
}

func TestSingleEliminationThreeTeamsBye(t *testing.T) {
	teams := []*models.Team{team(1, nil), team(2, nil), team(3, nil)}
	matches := generateSE(t, teams)

	require.Len(t, matches, 3)

	byUID := make(map[string]*BracketMatch)
	for _, m := range matches {
		byUID[m.UID] = m
	}

	m1 := byUID["R1M1"]
	require.NotNil(t, m1)
	assert.Equal(t, 1, *m1.Team1ID)
	assert.Equal(t, 2, *m1.Team2ID)
	assert.False(t, m1.IsBye)
	assert.Equal(t, models.MatchScheduled, m1.Status)

	bye := byUID["R1M2"]
	require.NotNil(t, bye)
	assert.True(t, bye.IsBye)
	assert.Equal(t, 3, *bye.Team1ID)
	assert.Nil(t, bye.Team2ID)
	assert.Equal(t, models.MatchCompleted, bye.Status)
	require.NotNil(t, bye.WinnerID)
	assert.Equal(t, 3, *bye.WinnerID)

	// The bye winner is pre-placed into its slot of the final.
	final := byUID["R2M1"]
	require.NotNil(t, final)
	assert.Nil(t, final.Team1ID)
	require.NotNil(t, final.Team2ID)
	assert.Equal(t, 3, *final.Team2ID)
	assert.Equal(t, models.MatchScheduled, final.Status)
}

func TestSingleEliminationSeedOrdering(t *testing.T) {
	// Insertion order is the reverse of seed order; pairing must follow
	// seeds, not insertion.
	teams := []*models.Team{
		team(1, seedOf(4)),
		team(2, seedOf(3)),
		team(3, seedOf(2)),
		team(4, seedOf(1)),
	}
	matches := generateSE(t, teams)

	byUID := make(map[string]*BracketMatch)
	for _, m := range matches {
		byUID[m.UID] = m
	}

	assert.Equal(t, 4, *byUID["R1M1"].Team1ID)
	assert.Equal(t, 3, *byUID["R1M1"].Team2ID)
	assert.Equal(t, 2, *byUID["R1M2"].Team1ID)
	assert.Equal(t, 1, *byUID["R1M2"].Team2ID)
}

func TestSingleEliminationCounts(t *testing.T) {
	for n := 2; n <= 16; n++ {
		t.Run(fmt.Sprintf("%d_teams", n), func(t *testing.T) {
			teams := make([]*models.Team, 0, n)
			for i := 1; i <= n; i++ {
				teams = append(teams, team(i, nil))
			}
			matches := generateSE(t, teams)

			wantRounds := 0
			for size := 1; size < n; size <<= 1 {
				wantRounds++
			}

			real, byes, maxRound := 0, 0, 0
			for _, m := range matches {
				if m.Round > maxRound {
					maxRound = m.Round
				}
				if m.IsBye {
					byes++
				} else {
					real++
				}
				// No round-1 pair may be left without a team.
				if m.Round == 1 {
					require.NotNil(t, m.Team1ID)
				}
			}

			assert.Equal(t, n-1, real, "real matches")
			assert.Equal(t, wantRounds, maxRound, "rounds")
			if n&(n-1) == 0 {
				assert.Zero(t, byes)
			}
		})
	}
}

func TestSingleEliminationLinkStructure(t *testing.T) {
	teams := make([]*models.Team, 0, 8)
	for i := 1; i <= 8; i++ {
		teams = append(teams, team(i, nil))
	}
	matches := generateSE(t, teams)
	require.Len(t, matches, 7)

	for _, m := range matches {
		if m.Round == 3 {
			assert.Nil(t, m.NextUID)
			assert.Nil(t, m.NextSlot)
			continue
		}
		require.NotNil(t, m.NextUID)
		require.NotNil(t, m.NextSlot)
		assert.Equal(t, fmt.Sprintf("R%dM%d", m.Round+1, (m.OrderInRound+1)/2), *m.NextUID)
		if m.OrderInRound%2 == 1 {
			assert.Equal(t, 1, *m.NextSlot)
		} else {
			assert.Equal(t, 2, *m.NextSlot)
		}
	}
}

func TestSingleEliminationDeterministic(t *testing.T) {
	teams := []*models.Team{
		team(7, nil), team(3, seedOf(2)), team(9, nil), team(1, seedOf(1)), team(5, nil),
	}
	first := generateSE(t, teams)
	second := generateSE(t, teams)
	assert.Equal(t, first, second)
}

func TestSingleEliminationNotEnoughTeams(t *testing.T) {
	gen := NewSingleEliminationGenerator()

	_, err := gen.Generate(context.Background(), GenerateParams{Teams: []*models.Team{team(1, nil)}})
	assert.ErrorIs(t, err, ErrNotEnoughTeams)

	_, err = gen.Generate(context.Background(), GenerateParams{Teams: nil})
	assert.ErrorIs(t, err, ErrNotEnoughTeams)
}
