package event

// Type identifies a broadcast event kind.
type Type string

const (
	LotOpened     Type = "LotOpened"
	BidRecorded   Type = "BidRecorded"
	PlayerSold    Type = "PlayerSold"
	StatusChanged Type = "StatusChanged"
)

// Auction status values carried by StatusChanged events.
const (
	StatusOpen   = "OPEN"
	StatusSold   = "SOLD"
	StatusUnsold = "UNSOLD"
)

// Event is a single broadcast message. The JSON shape of Data is the wire
// contract consumed by viewer clients; field names must not change.
type Event struct {
	Type Type `json:"type"`
	Data any  `json:"data"`
}

// LotOpenedData is the payload for LotOpened events.
type LotOpenedData struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Age       int    `json:"age"`
	BasePrice int    `json:"basePrice"`
}

// BidRecordedData is the payload for BidRecorded events.
type BidRecordedData struct {
	PlayerID string `json:"playerId"`
	TeamID   string `json:"teamId"`
	Amount   int    `json:"amount"`
}

// PlayerSoldData is the payload for PlayerSold events.
type PlayerSoldData struct {
	PlayerID string `json:"playerId"`
	TeamID   string `json:"teamId"`
	Price    int    `json:"price"`
}

// StatusChangedData is the payload for StatusChanged events.
type StatusChangedData struct {
	Status string `json:"status"`
}
