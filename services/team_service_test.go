package services

import (
	"context"
	"strings"
	"testing"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type teamFixture struct {
	teamRepo        *fakeTeamRepo
	memberRepo      *fakeMemberRepo
	competitionRepo *fakeCompetitionRepo
	matchRepo       *fakeMatchRepo
	houseRepo       *fakeHouseRepo
	userRepo        *fakeUserRepo
	uploader        *fakeUploader
	service         TeamService
}

func newTeamFixture() *teamFixture {
	f := &teamFixture{
		teamRepo:        newFakeTeamRepo(),
		memberRepo:      newFakeMemberRepo(),
		competitionRepo: newFakeCompetitionRepo(),
		matchRepo:       newFakeMatchRepo(),
		houseRepo:       newFakeHouseRepo(),
		userRepo:        newFakeUserRepo(),
		uploader:        newFakeUploader(),
	}
	f.service = NewTeamService(nil, f.teamRepo, f.memberRepo, f.competitionRepo, f.matchRepo, f.houseRepo, f.userRepo, f.uploader)
	return f
}

func (f *teamFixture) addCompetition(status models.CompetitionStatus, maxParticipants *int) *models.Competition {
	c := &models.Competition{
		SportName:       "futsal",
		Format:          models.FormatSingleElimination,
		MatchType:       5,
		ParticipantType: models.ParticipantHouse,
		Status:          status,
		MaxParticipants: maxParticipants,
		OrganizerID:     1,
	}
	_ = f.competitionRepo.Create(context.Background(), c)
	return c
}

func (f *teamFixture) addUser(name string) *models.User {
	u := &models.User{FullName: name, Email: strings.ToLower(name) + "@pkt.test", Role: models.RoleWarga}
	_ = f.userRepo.Create(context.Background(), u)
	return u
}

func TestCreateTeamDefaultsSeed(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionRegistration, nil)
	ctx := context.Background()

	first, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	require.NoError(t, err)
	require.NotNil(t, first.SeedNumber)
	assert.Equal(t, 1, *first.SeedNumber)

	second, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok B"})
	require.NoError(t, err)
	require.NotNil(t, second.SeedNumber)
	assert.Equal(t, 2, *second.SeedNumber)

	// An explicit seed is kept as given.
	seed := 10
	third, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok C", SeedNumber: &seed})
	require.NoError(t, err)
	assert.Equal(t, 10, *third.SeedNumber)
}

func TestCreateTeamValidation(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionRegistration, nil)
	ctx := context.Background()

	_, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "   "})
	assert.ErrorIs(t, err, ErrTeamNameRequired)

	_, err = f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: 99, Name: "Blok A"})
	assert.ErrorIs(t, err, ErrCompetitionNotFound)

	houseID := 5
	_, err = f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A", HouseID: &houseID})
	assert.ErrorIs(t, err, ErrHouseNotFound)
}

func TestCreateTeamRegistrationClosed(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionOngoing, nil)

	_, err := f.service.CreateTeam(context.Background(), CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestCreateTeamCompetitionFull(t *testing.T) {
	f := newTeamFixture()
	limit := 1
	c := f.addCompetition(models.CompetitionRegistration, &limit)
	ctx := context.Background()

	_, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	require.NoError(t, err)

	_, err = f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok B"})
	assert.ErrorIs(t, err, ErrCompetitionFull)
}

func TestAddMemberDuplicateRejected(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionRegistration, nil)
	user := f.addUser("Budi")
	ctx := context.Background()

	team, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	require.NoError(t, err)

	_, err = f.service.AddMember(ctx, team.ID, user.ID, false)
	require.NoError(t, err)

	_, err = f.service.AddMember(ctx, team.ID, user.ID, false)
	assert.ErrorIs(t, err, ErrTeamMemberDuplicate)

	// Membership count unchanged.
	members, err := f.memberRepo.ListByTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestAddMemberCaptainReassignment(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionRegistration, nil)
	budi := f.addUser("Budi")
	sari := f.addUser("Sari")
	ctx := context.Background()

	team, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	require.NoError(t, err)

	_, err = f.service.AddMember(ctx, team.ID, budi.ID, true)
	require.NoError(t, err)

	// A second captain flag moves the captaincy instead of duplicating it.
	_, err = f.service.AddMember(ctx, team.ID, sari.ID, true)
	require.NoError(t, err)

	members, err := f.memberRepo.ListByTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	captains := 0
	for _, m := range members {
		if m.IsCaptain {
			captains++
			assert.Equal(t, sari.ID, m.UserID)
		}
	}
	assert.Equal(t, 1, captains)
}

func TestAddMemberUnknownUser(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionRegistration, nil)
	ctx := context.Background()

	team, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	require.NoError(t, err)

	_, err = f.service.AddMember(ctx, team.ID, 77, false)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRemoveMember(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionRegistration, nil)
	user := f.addUser("Budi")
	ctx := context.Background()

	team, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	require.NoError(t, err)
	member, err := f.service.AddMember(ctx, team.ID, user.ID, false)
	require.NoError(t, err)

	require.NoError(t, f.service.RemoveMember(ctx, team.ID, member.ID))
	assert.ErrorIs(t, f.service.RemoveMember(ctx, team.ID, member.ID), ErrTeamMemberNotFound)
}

func TestRemoveTeamBlockedOncePlaying(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionRegistration, nil)
	ctx := context.Background()

	team, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	require.NoError(t, err)

	// A match referencing the team has progressed past scheduled.
	other := 99
	require.NoError(t, f.matchRepo.Create(ctx, nil, &models.Match{
		CompetitionID: c.ID, Round: 1, MatchNumber: 1,
		Team1ID: &team.ID, Team2ID: &other,
		Status: models.MatchOngoing,
	}))

	err = f.service.RemoveTeam(ctx, team.ID)
	assert.ErrorIs(t, err, ErrTeamAlreadyCompeting)

	_, err = f.teamRepo.GetByID(ctx, team.ID)
	assert.NoError(t, err, "team must survive a rejected removal")
}

func TestRemoveTeamUnplayed(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionRegistration, nil)
	ctx := context.Background()

	team, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	require.NoError(t, err)

	require.NoError(t, f.service.RemoveTeam(ctx, team.ID))
	_, err = f.teamRepo.GetByID(ctx, team.ID)
	assert.ErrorIs(t, translateRepoError(err), ErrTeamNotFound)
}

func TestUpdateTeamRegistrationOnly(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionRegistration, nil)
	ctx := context.Background()

	team, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	require.NoError(t, err)

	require.NoError(t, f.competitionRepo.UpdateStatus(ctx, c.ID, models.CompetitionOngoing))

	newName := "Blok A Juara"
	_, err = f.service.UpdateTeam(ctx, team.ID, UpdateTeamInput{Name: &newName})
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestUploadLogoReplacesPrevious(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionRegistration, nil)
	ctx := context.Background()

	team, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	require.NoError(t, err)

	first, err := f.service.UploadLogo(ctx, team.ID, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.NotNil(t, first.LogoKey)
	assert.Contains(t, *first.LogoKey, ".png")
	require.NotNil(t, first.LogoURL)

	second, err := f.service.UploadLogo(ctx, team.ID, "image/jpeg", strings.NewReader("jpg-bytes"))
	require.NoError(t, err)
	require.NotNil(t, second.LogoKey)
	assert.NotEqual(t, *first.LogoKey, *second.LogoKey)

	// The previous object was cleaned up.
	assert.Contains(t, f.uploader.deleted, *first.LogoKey)
	assert.Len(t, f.uploader.uploaded, 1)
}

func TestUploadLogoRejectsContentType(t *testing.T) {
	f := newTeamFixture()
	c := f.addCompetition(models.CompetitionRegistration, nil)
	ctx := context.Background()

	team, err := f.service.CreateTeam(ctx, CreateTeamInput{CompetitionID: c.ID, Name: "Blok A"})
	require.NoError(t, err)

	_, err = f.service.UploadLogo(ctx, team.ID, "application/pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Empty(t, f.uploader.uploaded)
}
