package services

import (
	"context"
	"io"
	"sort"

	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/TheMordhon1/warga-pkt/repositories"
)

// In-memory repository fakes. They ignore the SQLExecutor parameter where
// one exists; the passthrough tx runner below makes transactional service
// code run against them unchanged.

type fakeTxRunner struct{}

func (r *fakeTxRunner) RunInTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeCompetitionRepo struct {
	nextID       int
	competitions map[int]*models.Competition
}

func newFakeCompetitionRepo() *fakeCompetitionRepo {
	return &fakeCompetitionRepo{competitions: make(map[int]*models.Competition)}
}

func (r *fakeCompetitionRepo) Create(_ context.Context, c *models.Competition) error {
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.competitions[c.ID] = &cp
	return nil
}

func (r *fakeCompetitionRepo) GetByID(_ context.Context, id int) (*models.Competition, error) {
	c, ok := r.competitions[id]
	if !ok {
		return nil, repositories.ErrCompetitionNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompetitionRepo) List(_ context.Context, status *models.CompetitionStatus, limit, offset int) ([]*models.Competition, error) {
	var out []*models.Competition
	for _, c := range r.competitions {
		if status == nil || c.Status == *status {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCompetitionRepo) Update(_ context.Context, c *models.Competition) error {
	if _, ok := r.competitions[c.ID]; !ok {
		return repositories.ErrCompetitionNotFound
	}
	cp := *c
	r.competitions[c.ID] = &cp
	return nil
}

func (r *fakeCompetitionRepo) UpdateStatus(_ context.Context, id int, status models.CompetitionStatus) error {
	c, ok := r.competitions[id]
	if !ok {
		return repositories.ErrCompetitionNotFound
	}
	c.Status = status
	return nil
}

func (r *fakeCompetitionRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.competitions[id]; !ok {
		return repositories.ErrCompetitionNotFound
	}
	delete(r.competitions, id)
	return nil
}

type fakeTeamRepo struct {
	nextID int
	teams  map[int]*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team)}
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	for _, t := range r.teams {
		if t.CompetitionID == team.CompetitionID && t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	r.nextID++
	team.ID = r.nextID
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTeamRepo) ListByCompetition(_ context.Context, competitionID int) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range r.teams {
		if t.CompetitionID == competitionID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i].SeedNumber, out[j].SeedNumber
		switch {
		case si == nil && sj == nil:
			return out[i].ID < out[j].ID
		case si == nil:
			return false
		case sj == nil:
			return true
		case *si != *sj:
			return *si < *sj
		default:
			return out[i].ID < out[j].ID
		}
	})
	return out, nil
}

func (r *fakeTeamRepo) MaxSeedNumber(_ context.Context, competitionID int) (int, error) {
	max := 0
	for _, t := range r.teams {
		if t.CompetitionID == competitionID && t.SeedNumber != nil && *t.SeedNumber > max {
			max = *t.SeedNumber
		}
	}
	return max, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = logoKey
	return nil
}

func (r *fakeTeamRepo) SetEliminated(_ context.Context, _ repositories.SQLExecutor, id int, eliminated bool) error {
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Eliminated = eliminated
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

type fakeMemberRepo struct {
	nextID  int
	members map[int]*models.TeamMember
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[int]*models.TeamMember)}
}

func (r *fakeMemberRepo) Create(_ context.Context, member *models.TeamMember) error {
	for _, m := range r.members {
		if m.TeamID == member.TeamID && m.UserID == member.UserID {
			return repositories.ErrTeamMemberConflict
		}
	}
	r.nextID++
	member.ID = r.nextID
	cp := *member
	r.members[member.ID] = &cp
	return nil
}

func (r *fakeMemberRepo) ListByTeam(_ context.Context, teamID int) ([]*models.TeamMember, error) {
	var out []*models.TeamMember
	for _, m := range r.members {
		if m.TeamID == teamID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMemberRepo) FindByTeamAndUser(_ context.Context, teamID, userID int) (*models.TeamMember, error) {
	for _, m := range r.members {
		if m.TeamID == teamID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repositories.ErrTeamMemberNotFound
}

func (r *fakeMemberRepo) ClearCaptain(_ context.Context, teamID int) error {
	for _, m := range r.members {
		if m.TeamID == teamID {
			m.IsCaptain = false
		}
	}
	return nil
}

func (r *fakeMemberRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.members[id]; !ok {
		return repositories.ErrTeamMemberNotFound
	}
	delete(r.members, id)
	return nil
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match)}
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	r.nextID++
	match.ID = r.nextID
	cp := *match
	r.matches[match.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) ListByCompetition(_ context.Context, _ repositories.SQLExecutor, competitionID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.matches {
		if m.CompetitionID != competitionID {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out, nil
}

func (r *fakeMatchRepo) Update(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	m, ok := r.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Score1 = match.Score1
	m.Score2 = match.Score2
	m.WinnerID = match.WinnerID
	m.Status = match.Status
	m.ScheduledAt = match.ScheduledAt
	m.Location = match.Location
	m.Notes = match.Notes
	return nil
}

func (r *fakeMatchRepo) UpdateNextMatchInfo(_ context.Context, _ repositories.SQLExecutor, id int, nextMatchID, nextSlot *int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.NextMatchID = nextMatchID
	m.NextSlot = nextSlot
	return nil
}

func (r *fakeMatchRepo) UpdateTeams(_ context.Context, _ repositories.SQLExecutor, id int, team1ID, team2ID *int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Team1ID = team1ID
	m.Team2ID = team2ID
	return nil
}

func (r *fakeMatchRepo) CountProgressedByTeam(_ context.Context, _ repositories.SQLExecutor, teamID int) (int, error) {
	count := 0
	for _, m := range r.matches {
		if m.Status == models.MatchScheduled {
			continue
		}
		if (m.Team1ID != nil && *m.Team1ID == teamID) || (m.Team2ID != nil && *m.Team2ID == teamID) {
			count++
		}
	}
	return count, nil
}

func (r *fakeMatchRepo) DeleteByCompetition(_ context.Context, _ repositories.SQLExecutor, competitionID int) error {
	for id, m := range r.matches {
		if m.CompetitionID == competitionID {
			delete(r.matches, id)
		}
	}
	return nil
}

type fakeRefereeRepo struct {
	nextID   int
	referees map[int]*models.Referee
}

func newFakeRefereeRepo() *fakeRefereeRepo {
	return &fakeRefereeRepo{referees: make(map[int]*models.Referee)}
}

func (r *fakeRefereeRepo) Create(_ context.Context, referee *models.Referee) error {
	for _, ref := range r.referees {
		if ref.CompetitionID == referee.CompetitionID && ref.UserID == referee.UserID {
			return repositories.ErrRefereeConflict
		}
	}
	r.nextID++
	referee.ID = r.nextID
	cp := *referee
	r.referees[referee.ID] = &cp
	return nil
}

func (r *fakeRefereeRepo) ListByCompetition(_ context.Context, competitionID int) ([]*models.Referee, error) {
	var out []*models.Referee
	for _, ref := range r.referees {
		if ref.CompetitionID == competitionID {
			cp := *ref
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRefereeRepo) FindByCompetitionAndUser(_ context.Context, competitionID, userID int) (*models.Referee, error) {
	for _, ref := range r.referees {
		if ref.CompetitionID == competitionID && ref.UserID == userID {
			cp := *ref
			return &cp, nil
		}
	}
	return nil, repositories.ErrRefereeNotFound
}

func (r *fakeRefereeRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.referees[id]; !ok {
		return repositories.ErrRefereeNotFound
	}
	delete(r.referees, id)
	return nil
}

type fakeUserRepo struct {
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

type fakeHouseRepo struct {
	houses map[int]*models.House
}

func newFakeHouseRepo() *fakeHouseRepo {
	return &fakeHouseRepo{houses: make(map[int]*models.House)}
}

func (r *fakeHouseRepo) GetByID(_ context.Context, id int) (*models.House, error) {
	h, ok := r.houses[id]
	if !ok {
		return nil, repositories.ErrHouseNotFound
	}
	cp := *h
	return &cp, nil
}

func (r *fakeHouseRepo) List(_ context.Context) ([]*models.House, error) {
	var out []*models.House
	for _, h := range r.houses {
		cp := *h
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeUploader struct {
	uploaded map[string]string // key -> content type
	deleted  []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploaded: make(map[string]string)}
}

func (u *fakeUploader) Upload(_ context.Context, key, contentType string, _ io.Reader) error {
	u.uploaded[key] = contentType
	return nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	delete(u.uploaded, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return "https://cdn.test/" + key
}
