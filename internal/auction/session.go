package auction

// Session is the in-memory record of the currently open lot. It exists only
// between OpenLot and the sale/unsold resolution and is deliberately not
// persisted: after a restart the player is still UNSOLD and can simply be
// reopened.
type Session struct {
	PlayerID      string `json:"playerId"`
	HighestBid    int    `json:"highestBid"`
	LeadingTeamID string `json:"leadingTeamId,omitempty"`
}
