package models

// Route is a scheduled rail service between two stations. AvailableSeats is
// the remaining sellable inventory; it is only ever changed through the
// ticket ledger's purchase transaction.
type Route struct {
	ID             int    `json:"id"`
	From           string `json:"from"`
	To             string `json:"to"`
	DepartureTime  string `json:"departureTime"`
	ArrivalTime    string `json:"arrivalTime"`
	Price          int    `json:"price"`
	Type           string `json:"type"`
	AvailableSeats int    `json:"availableSeats"`
}

func (r Route) RecordID() int { return r.ID }

// DefaultAvailableSeats is applied when a new route is created without an
// explicit seat count.
const DefaultAvailableSeats = 50
