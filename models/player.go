package models

import "time"

type AuctionStatus string

const (
	AuctionAvailable AuctionStatus = "available"
	AuctionSold      AuctionStatus = "sold"
	AuctionUnsold    AuctionStatus = "unsold"
)

func (s AuctionStatus) Valid() bool {
	switch s {
	case AuctionAvailable, AuctionSold, AuctionUnsold:
		return true
	}
	return false
}

type Player struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Team      string    `json:"team" db:"team"` // owning team's name, not a foreign key
	Position  string    `json:"position,omitempty" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	BasePrice     int           `json:"base_price" db:"base_price"`
	SoldPrice     *int          `json:"sold_price,omitempty" db:"sold_price"`
	AuctionStatus AuctionStatus `json:"auction_status" db:"auction_status"`
}
