package tickets

import (
	"context"
	"fmt"
	"time"

	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/models"
	"rail-ticketing/internal/routes"
	"rail-ticketing/internal/storage"
	"rail-ticketing/internal/utils"
)

// BookingTTL is how long a booked ticket is held before its expiresAt stamp
// passes. Expiry is recorded, not enforced: no sweep cancels stale bookings.
const BookingTTL = 24 * time.Hour

// EventPublisher streams ticket lifecycle events. Publishing is best-effort;
// a failed publish never fails the request that produced it.
type EventPublisher interface {
	PublishTicketIssued(ticket models.Ticket) error
	PublishTicketBooked(ticket models.Ticket) error
	PublishTicketCancelled(ticket models.Ticket) error
}

// Service is the ticket ledger: it turns purchase and booking requests into
// durable ticket records and keeps route seat counters consistent with the
// tickets sold against them.
type Service struct {
	Routes  *storage.Collection[models.Route]
	Tickets *storage.Collection[models.Ticket]
	Cache   routes.RouteCache
	Events  EventPublisher
	Logger  *logger.Logger
}

func NewService(routeStore *storage.Collection[models.Route], ticketStore *storage.Collection[models.Ticket]) *Service {
	return &Service{Routes: routeStore, Tickets: ticketStore}
}

// TicketRequest is the inbound purchase/booking payload. Carriage and seat
// are optional; zero means "assign one for me".
type TicketRequest struct {
	UserID        int    `json:"userId"`
	UserName      string `json:"userName"`
	UserEmail     string `json:"userEmail"`
	RouteID       int    `json:"routeId"`
	DepartureDate string `json:"departureDate"`
	Carriage      int    `json:"carriage"`
	Seat          int    `json:"seat"`
}

func (r TicketRequest) validate() error {
	if r.RouteID <= 0 {
		return models.ValidationError{Field: "routeId", Msg: "required"}
	}
	if r.DepartureDate == "" {
		return models.ValidationError{Field: "departureDate", Msg: "required"}
	}
	if _, err := time.Parse(utils.DateLayout, r.DepartureDate); err != nil {
		return models.ValidationError{Field: "departureDate", Msg: "must be YYYY-MM-DD"}
	}
	if r.Carriage < 0 || r.Seat < 0 {
		return models.ValidationError{Field: "seat", Msg: "must not be negative"}
	}
	return nil
}

func (s *Service) ListAll() ([]models.Ticket, error) {
	return s.Tickets.Load()
}

func (s *Service) Get(id int) (*models.Ticket, error) {
	tickets, err := s.Tickets.Load()
	if err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, models.NotFoundError{Resource: "ticket", ID: id}
}

// ListForUser returns the user's tickets in stored order. An unknown user
// simply has no tickets.
func (s *Service) ListForUser(userID int) ([]models.Ticket, error) {
	tickets, err := s.Tickets.Load()
	if err != nil {
		return nil, err
	}
	owned := []models.Ticket{}
	for _, t := range tickets {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}
	return owned, nil
}

// Purchase issues a paid ticket and takes one seat from the route, as a
// single transaction across both collections: either the ticket and the
// decrement both persist or neither does. An exhausted route aborts the
// purchase with no ticket created.
func (s *Service) Purchase(ctx context.Context, req TicketRequest) (*models.Ticket, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var issued models.Ticket
	err := storage.UpdatePair(s.Routes, s.Tickets, func(routeRecords []models.Route, ticketRecords []models.Ticket) ([]models.Route, []models.Ticket, error) {
		i := routes.Find(routeRecords, req.RouteID)
		if i < 0 {
			return nil, nil, models.NotFoundError{Resource: "route", ID: req.RouteID}
		}
		route := routeRecords[i]
		if err := routes.DecrementSeat(&route); err != nil {
			return nil, nil, err
		}
		routeRecords[i] = route

		issued = buildTicket(ticketRecords, req, route)
		issued.Status = models.StatusPaid
		issued.PurchaseDate = utils.FormatTimestamp(time.Now())
		issued.QRCode = "QR-" + issued.TicketNumber
		return routeRecords, append(ticketRecords, issued), nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateRouteCache(ctx)
	s.logTicket("PURCHASE", issued.TicketNumber, fmt.Sprintf("route %d, user %d", issued.RouteID, issued.UserID))
	s.publish(issued, func(p EventPublisher) error { return p.PublishTicketIssued(issued) })
	return &issued, nil
}

// Book issues a booked ticket without touching seat inventory. The booking
// carries an expiresAt stamp of now plus BookingTTL.
func (s *Service) Book(ctx context.Context, req TicketRequest) (*models.Ticket, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	routeRecords, err := s.Routes.Load()
	if err != nil {
		return nil, err
	}
	i := routes.Find(routeRecords, req.RouteID)
	if i < 0 {
		return nil, models.NotFoundError{Resource: "route", ID: req.RouteID}
	}
	route := routeRecords[i]

	var booked models.Ticket
	_, err = s.Tickets.Update(func(ticketRecords []models.Ticket) ([]models.Ticket, error) {
		now := time.Now()
		booked = buildTicket(ticketRecords, req, route)
		booked.Status = models.StatusBooked
		booked.BookingDate = utils.FormatTimestamp(now)
		booked.ExpiresAt = utils.FormatTimestamp(now.Add(BookingTTL))
		return append(ticketRecords, booked), nil
	})
	if err != nil {
		return nil, err
	}

	s.logTicket("BOOK", booked.TicketNumber, fmt.Sprintf("route %d, expires %s", booked.RouteID, booked.ExpiresAt))
	s.publish(booked, func(p EventPublisher) error { return p.PublishTicketBooked(booked) })
	return &booked, nil
}

// Cancel moves the ticket to cancelled. Cancelled is terminal, so cancelling
// twice is a no-op that still succeeds. Cancelling a paid ticket does not
// return its seat to the route.
func (s *Service) Cancel(ctx context.Context, id int) (*models.Ticket, error) {
	var cancelled models.Ticket
	_, err := s.Tickets.Update(func(ticketRecords []models.Ticket) ([]models.Ticket, error) {
		for i := range ticketRecords {
			if ticketRecords[i].ID == id {
				ticketRecords[i].Status = models.StatusCancelled
				cancelled = ticketRecords[i]
				return ticketRecords, nil
			}
		}
		return nil, models.NotFoundError{Resource: "ticket", ID: id}
	})
	if err != nil {
		return nil, err
	}

	s.logTicket("CANCEL", cancelled.TicketNumber, fmt.Sprintf("ticket %d", cancelled.ID))
	s.publish(cancelled, func(p EventPublisher) error { return p.PublishTicketCancelled(cancelled) })
	return &cancelled, nil
}

// buildTicket assembles the immutable part of a new ticket: a fresh id, a
// unique ticket number, and the route fields snapshotted at issuance.
func buildTicket(existing []models.Ticket, req TicketRequest, route models.Route) models.Ticket {
	carriage := req.Carriage
	if carriage == 0 {
		carriage = utils.RandomCarriage()
	}
	seat := req.Seat
	if seat == 0 {
		seat = utils.RandomSeat()
	}

	return models.Ticket{
		ID:            storage.NextID(existing),
		TicketNumber:  uniqueTicketNumber(existing),
		UserID:        req.UserID,
		UserName:      req.UserName,
		UserEmail:     req.UserEmail,
		RouteID:       route.ID,
		From:          route.From,
		To:            route.To,
		DepartureDate: req.DepartureDate,
		DepartureTime: route.DepartureTime,
		ArrivalTime:   route.ArrivalTime,
		TrainNumber:   fmt.Sprintf("№%d", route.ID),
		Carriage:      carriage,
		Seat:          seat,
		Price:         route.Price,
		Type:          route.Type,
	}
}

// uniqueTicketNumber re-draws until the number is unused. It runs under the
// ticket collection lock, so the check cannot race another issuance.
func uniqueTicketNumber(existing []models.Ticket) string {
	for {
		number := utils.GenerateTicketNumber()
		taken := false
		for _, t := range existing {
			if t.TicketNumber == number {
				taken = true
				break
			}
		}
		if !taken {
			return number
		}
	}
}

func (s *Service) invalidateRouteCache(ctx context.Context) {
	if s.Cache != nil {
		_ = s.Cache.Invalidate(ctx)
	}
}

func (s *Service) publish(ticket models.Ticket, fn func(EventPublisher) error) {
	if s.Events == nil {
		return
	}
	if err := fn(s.Events); err != nil && s.Logger != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("failed to publish event for %s: %v", ticket.TicketNumber, err))
	}
}

func (s *Service) logTicket(action, number, message string) {
	if s.Logger != nil {
		s.Logger.LogTicket(action, number, message)
	}
}
