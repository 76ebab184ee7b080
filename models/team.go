package models

import "time"

type Team struct {
	ID            int       `json:"id" db:"id"`
	CompetitionID int       `json:"competition_id" db:"competition_id"`
	Name          string    `json:"name" db:"name"`
	HouseID       *int      `json:"house_id,omitempty" db:"house_id"`
	SeedNumber    *int      `json:"seed_number,omitempty" db:"seed_number"`
	Eliminated    bool      `json:"eliminated" db:"eliminated"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	House   *House       `json:"house,omitempty" db:"-"`
	Members []TeamMember `json:"members,omitempty" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

type TeamMember struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	IsCaptain bool      `json:"is_captain" db:"is_captain"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
