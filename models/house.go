package models

import "time"

// House is one address in the community, used for house-based team
// affiliation.
type House struct {
	ID        int       `json:"id" db:"id"`
	Block     string    `json:"block" db:"block"`
	Number    int       `json:"number" db:"number"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
