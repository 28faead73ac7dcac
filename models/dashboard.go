package models

type DashboardStats struct {
	TeamsTotal        int `json:"teams_total"`
	PlayersTotal      int `json:"players_total"`
	PlayersSold       int `json:"players_sold"`
	PlayersAvailable  int `json:"players_available"`
	PlayersUnsold     int `json:"players_unsold"`
	PlayersUnassigned int `json:"players_unassigned"`
}

type TeamSpend struct {
	Team    string `json:"team"`
	Spent   int    `json:"spent"`
	Players int    `json:"players"`
}

type AuctionBoard struct {
	Available []Player    `json:"available"`
	Sold      []Player    `json:"sold"`
	Unsold    []Player    `json:"unsold"`
	Spend     []TeamSpend `json:"spend"`
}
