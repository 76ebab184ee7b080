package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type competitionFixture struct {
	competitionRepo *fakeCompetitionRepo
	teamRepo        *fakeTeamRepo
	matchRepo       *fakeMatchRepo
	service         CompetitionService
}

func newCompetitionFixture() *competitionFixture {
	f := &competitionFixture{
		competitionRepo: newFakeCompetitionRepo(),
		teamRepo:        newFakeTeamRepo(),
		matchRepo:       newFakeMatchRepo(),
	}
	bracketService := NewBracketService(nil, &fakeTxRunner{}, f.competitionRepo, f.teamRepo, f.matchRepo, newFakeRefereeRepo(), nil, nil)
	f.service = NewCompetitionService(f.competitionRepo, bracketService, nil)
	return f
}

func validCreateInput() CreateCompetitionInput {
	return CreateCompetitionInput{
		SportName:       "voli",
		Format:          models.FormatSingleElimination,
		MatchType:       6,
		ParticipantType: models.ParticipantHouse,
	}
}

func TestCreateCompetition(t *testing.T) {
	f := newCompetitionFixture()

	c, err := f.service.Create(context.Background(), 1, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, models.CompetitionRegistration, c.Status)
	assert.Equal(t, 1, c.OrganizerID)
	assert.NotZero(t, c.ID)
}

func TestCreateCompetitionValidation(t *testing.T) {
	f := newCompetitionFixture()
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*CreateCompetitionInput)
		wantErr error
	}{
		{"empty sport name", func(in *CreateCompetitionInput) { in.SportName = "  " }, ErrSportNameRequired},
		{"unknown format", func(in *CreateCompetitionInput) { in.Format = "ladder" }, ErrInvalidFormat},
		{"unknown participant type", func(in *CreateCompetitionInput) { in.ParticipantType = "robots" }, ErrInvalidParticipantType},
		{"non-positive match type", func(in *CreateCompetitionInput) { in.MatchType = 0 }, ErrInvalidMatchType},
		{"non-positive cap", func(in *CreateCompetitionInput) {
			bad := -1
			in.MaxParticipants = &bad
		}, ErrInvalidMaxParticipants},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			_, err := f.service.Create(ctx, 1, input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestChangeStatusToOngoingGeneratesBracket(t *testing.T) {
	f := newCompetitionFixture()
	ctx := context.Background()

	c, err := f.service.Create(ctx, 1, validCreateInput())
	require.NoError(t, err)
	for i := 1; i <= 4; i++ {
		seed := i
		require.NoError(t, f.teamRepo.Create(ctx, &models.Team{
			CompetitionID: c.ID, Name: fmt.Sprintf("RT %02d", i), SeedNumber: &seed,
		}))
	}

	updated, err := f.service.ChangeStatus(ctx, c.ID, models.CompetitionOngoing)
	require.NoError(t, err)
	assert.Equal(t, models.CompetitionOngoing, updated.Status)

	matches, err := f.matchRepo.ListByCompetition(ctx, nil, c.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestChangeStatusGenerationFailureKeepsRegistration(t *testing.T) {
	f := newCompetitionFixture()
	ctx := context.Background()

	// One team is not enough to generate, so the transition must abort.
	c, err := f.service.Create(ctx, 1, validCreateInput())
	require.NoError(t, err)
	require.NoError(t, f.teamRepo.Create(ctx, &models.Team{CompetitionID: c.ID, Name: "RT 01"}))

	_, err = f.service.ChangeStatus(ctx, c.ID, models.CompetitionOngoing)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)

	stored, err := f.competitionRepo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CompetitionRegistration, stored.Status)
}

// Formats without a bracket generator still have a full lifecycle; their
// schedule is created by hand once the competition is ongoing.
func TestChangeStatusManualFormatsSkipGeneration(t *testing.T) {
	formats := []models.CompetitionFormat{models.FormatLeague, models.FormatSwiss, models.FormatCustom}

	for _, format := range formats {
		t.Run(string(format), func(t *testing.T) {
			f := newCompetitionFixture()
			ctx := context.Background()

			input := validCreateInput()
			input.Format = format
			c, err := f.service.Create(ctx, 1, input)
			require.NoError(t, err)
			for i := 1; i <= 4; i++ {
				seed := i
				require.NoError(t, f.teamRepo.Create(ctx, &models.Team{
					CompetitionID: c.ID, Name: fmt.Sprintf("RT %02d", i), SeedNumber: &seed,
				}))
			}

			updated, err := f.service.ChangeStatus(ctx, c.ID, models.CompetitionOngoing)
			require.NoError(t, err)
			assert.Equal(t, models.CompetitionOngoing, updated.Status)

			matches, err := f.matchRepo.ListByCompetition(ctx, nil, c.ID, nil, nil)
			require.NoError(t, err)
			assert.Empty(t, matches)
		})
	}
}

func TestChangeStatusInvalidTransition(t *testing.T) {
	f := newCompetitionFixture()
	ctx := context.Background()

	input := validCreateInput()
	input.Format = models.FormatCustom
	c, err := f.service.Create(ctx, 1, input)
	require.NoError(t, err)

	// registration -> completed skips ongoing.
	_, err = f.service.ChangeStatus(ctx, c.ID, models.CompetitionCompleted)
	assert.ErrorIs(t, err, ErrCompetitionInvalidStatusTransition)

	_, err = f.service.ChangeStatus(ctx, c.ID, "archived")
	assert.ErrorIs(t, err, ErrCompetitionInvalidStatus)

	// Terminal states accept nothing further.
	_, err = f.service.ChangeStatus(ctx, c.ID, models.CompetitionCancelled)
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(ctx, c.ID, models.CompetitionOngoing)
	assert.ErrorIs(t, err, ErrCompetitionInvalidStatusTransition)
}

func TestUpdateCompetitionRegistrationOnly(t *testing.T) {
	f := newCompetitionFixture()
	ctx := context.Background()

	input := validCreateInput()
	input.Format = models.FormatCustom
	c, err := f.service.Create(ctx, 1, input)
	require.NoError(t, err)

	name := "voli pantai"
	updated, err := f.service.Update(ctx, c.ID, UpdateCompetitionInput{SportName: &name})
	require.NoError(t, err)
	assert.Equal(t, "voli pantai", updated.SportName)

	_, err = f.service.ChangeStatus(ctx, c.ID, models.CompetitionOngoing)
	require.NoError(t, err)

	_, err = f.service.Update(ctx, c.ID, UpdateCompetitionInput{SportName: &name})
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestListCompetitionsFiltersByStatus(t *testing.T) {
	f := newCompetitionFixture()
	ctx := context.Background()

	input := validCreateInput()
	input.Format = models.FormatCustom
	first, err := f.service.Create(ctx, 1, input)
	require.NoError(t, err)
	_, err = f.service.Create(ctx, 1, input)
	require.NoError(t, err)

	_, err = f.service.ChangeStatus(ctx, first.ID, models.CompetitionOngoing)
	require.NoError(t, err)

	ongoing := models.CompetitionOngoing
	listed, err := f.service.List(ctx, &ongoing, 0, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, first.ID, listed[0].ID)

	all, err := f.service.List(ctx, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteCompetition(t *testing.T) {
	f := newCompetitionFixture()
	ctx := context.Background()

	c, err := f.service.Create(ctx, 1, validCreateInput())
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, c.ID))
	assert.ErrorIs(t, f.service.Delete(ctx, c.ID), ErrCompetitionNotFound)
}
