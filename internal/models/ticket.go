package models

type TicketStatus string

const (
	StatusBooked    TicketStatus = "booked"
	StatusPaid      TicketStatus = "paid"
	StatusCancelled TicketStatus = "cancelled"
)

// CanTransitionTo reports whether the status state machine allows moving to
// the target status. Transitions only ever go forward: booked can become paid
// or cancelled, paid can only be cancelled, and cancelled is terminal (a
// repeat cancel is treated as a no-op, not an error).
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	switch s {
	case StatusBooked:
		return target == StatusPaid || target == StatusCancelled
	case StatusPaid:
		return target == StatusCancelled
	case StatusCancelled:
		return target == StatusCancelled
	}
	return false
}

// Ticket is an issued booking or purchase against a route. All route-derived
// fields are snapshotted at issuance so later route edits never rewrite a
// ticket that has already been sold. Only Status changes after creation.
type Ticket struct {
	ID            int          `json:"id"`
	TicketNumber  string       `json:"ticketNumber"`
	UserID        int          `json:"userId"`
	UserName      string       `json:"userName"`
	UserEmail     string       `json:"userEmail"`
	RouteID       int          `json:"routeId"`
	From          string       `json:"from"`
	To            string       `json:"to"`
	DepartureDate string       `json:"departureDate"`
	DepartureTime string       `json:"departureTime"`
	ArrivalTime   string       `json:"arrivalTime"`
	TrainNumber   string       `json:"trainNumber"`
	Carriage      int          `json:"carriage"`
	Seat          int          `json:"seat"`
	Price         int          `json:"price"`
	Type          string       `json:"type"`
	Status        TicketStatus `json:"status"`
	PurchaseDate  string       `json:"purchaseDate,omitempty"`
	BookingDate   string       `json:"bookingDate,omitempty"`
	ExpiresAt     string       `json:"expiresAt,omitempty"`
	QRCode        string       `json:"qrCode,omitempty"`
}

func (t Ticket) RecordID() int { return t.ID }
