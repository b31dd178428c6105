package tickets_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rail-ticketing/internal/models"
	"rail-ticketing/internal/storage"
	"rail-ticketing/internal/tickets"
	"rail-ticketing/internal/utils"
)

// MockPublisher is a mock implementation of the EventPublisher interface.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTicketIssued(ticket models.Ticket) error {
	args := m.Called(ticket)
	return args.Error(0)
}

func (m *MockPublisher) PublishTicketBooked(ticket models.Ticket) error {
	args := m.Called(ticket)
	return args.Error(0)
}

func (m *MockPublisher) PublishTicketCancelled(ticket models.Ticket) error {
	args := m.Called(ticket)
	return args.Error(0)
}

func newTestLedger(t *testing.T, seedRoutes []models.Route) *tickets.Service {
	t.Helper()
	dir := t.TempDir()
	routeStore := storage.NewCollection(dir, "routes", seedRoutes)
	ticketStore := storage.NewCollection(dir, "tickets", storage.SeedTickets())
	return tickets.NewService(routeStore, ticketStore)
}

func purchaseRequest(routeID int) tickets.TicketRequest {
	return tickets.TicketRequest{
		UserID:        2,
		UserName:      "Ivan Petrenko",
		UserEmail:     "ivan@example.com",
		RouteID:       routeID,
		DepartureDate: "2025-11-10",
	}
}

func TestPurchaseIssuesPaidTicketAndDecrementsSeat(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())

	ticket, err := svc.Purchase(context.Background(), purchaseRequest(1))
	require.NoError(t, err)

	assert.Equal(t, 1, ticket.ID)
	assert.Equal(t, models.StatusPaid, ticket.Status)
	assert.True(t, strings.HasPrefix(ticket.TicketNumber, "TKT-"))
	assert.Equal(t, "QR-"+ticket.TicketNumber, ticket.QRCode)
	assert.NotEmpty(t, ticket.PurchaseDate)
	assert.Empty(t, ticket.BookingDate)
	assert.Empty(t, ticket.ExpiresAt)

	// Route fields are snapshotted at issuance.
	assert.Equal(t, "Kyiv", ticket.From)
	assert.Equal(t, "Lviv", ticket.To)
	assert.Equal(t, "08:00", ticket.DepartureTime)
	assert.Equal(t, 450, ticket.Price)
	assert.Equal(t, "№1", ticket.TrainNumber)

	// Placeholder seat assignment stays in its documented ranges.
	assert.GreaterOrEqual(t, ticket.Carriage, 1)
	assert.LessOrEqual(t, ticket.Carriage, 10)
	assert.GreaterOrEqual(t, ticket.Seat, 1)
	assert.LessOrEqual(t, ticket.Seat, 50)

	routeRecords, err := svc.Routes.Load()
	require.NoError(t, err)
	assert.Equal(t, 49, routeRecords[0].AvailableSeats)
}

func TestPurchaseUnknownRoute(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())

	_, err := svc.Purchase(context.Background(), purchaseRequest(99))
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))

	ticketRecords, err := svc.Tickets.Load()
	require.NoError(t, err)
	assert.Empty(t, ticketRecords, "failed purchase must not create a ticket")
}

func TestPurchaseValidation(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())

	_, err := svc.Purchase(context.Background(), tickets.TicketRequest{DepartureDate: "2025-11-10"})
	assert.True(t, models.IsValidation(err))

	_, err = svc.Purchase(context.Background(), tickets.TicketRequest{RouteID: 1})
	assert.True(t, models.IsValidation(err))

	_, err = svc.Purchase(context.Background(), tickets.TicketRequest{RouteID: 1, DepartureDate: "10.11.2025"})
	assert.True(t, models.IsValidation(err))
}

func TestPurchaseExhaustedRoute(t *testing.T) {
	svc := newTestLedger(t, []models.Route{
		{ID: 1, From: "Kyiv", To: "Lviv", Price: 450, AvailableSeats: 1},
	})

	_, err := svc.Purchase(context.Background(), purchaseRequest(1))
	require.NoError(t, err)

	_, err = svc.Purchase(context.Background(), purchaseRequest(1))
	require.Error(t, err)
	assert.True(t, models.IsExhausted(err))

	ticketRecords, err := svc.Tickets.Load()
	require.NoError(t, err)
	assert.Len(t, ticketRecords, 1, "exhausted purchase must not create a ticket")

	routeRecords, err := svc.Routes.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, routeRecords[0].AvailableSeats)
}

func TestConcurrentPurchasesSellLastSeatOnce(t *testing.T) {
	svc := newTestLedger(t, []models.Route{
		{ID: 1, From: "Kyiv", To: "Lviv", Price: 450, AvailableSeats: 1},
	})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Purchase(context.Background(), purchaseRequest(1))
		}(i)
	}
	wg.Wait()

	succeeded, exhausted := 0, 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if models.IsExhausted(err) {
			exhausted++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one purchase may win the last seat")
	assert.Equal(t, 1, exhausted)

	routeRecords, err := svc.Routes.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, routeRecords[0].AvailableSeats)

	ticketRecords, err := svc.Tickets.Load()
	require.NoError(t, err)
	assert.Len(t, ticketRecords, 1)
	assert.Equal(t, models.StatusPaid, ticketRecords[0].Status)
}

func TestAtMostSeatsPurchasesSucceed(t *testing.T) {
	const seats = 5
	svc := newTestLedger(t, []models.Route{
		{ID: 1, From: "Kyiv", To: "Lviv", Price: 450, AvailableSeats: seats},
	})

	var wg sync.WaitGroup
	errs := make([]error, seats+3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Purchase(context.Background(), purchaseRequest(1))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, models.IsExhausted(err))
		}
	}
	assert.Equal(t, seats, succeeded)

	ticketRecords, err := svc.Tickets.Load()
	require.NoError(t, err)
	assert.Len(t, ticketRecords, seats)

	seenIDs := map[int]bool{}
	seenNumbers := map[string]bool{}
	for _, ticket := range ticketRecords {
		assert.False(t, seenIDs[ticket.ID], "duplicate ticket id %d", ticket.ID)
		assert.False(t, seenNumbers[ticket.TicketNumber], "duplicate ticket number %s", ticket.TicketNumber)
		seenIDs[ticket.ID] = true
		seenNumbers[ticket.TicketNumber] = true
	}

	routeRecords, err := svc.Routes.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, routeRecords[0].AvailableSeats)
}

func TestBookDoesNotTouchInventory(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())

	ticket, err := svc.Book(context.Background(), purchaseRequest(1))
	require.NoError(t, err)

	assert.Equal(t, models.StatusBooked, ticket.Status)
	assert.NotEmpty(t, ticket.BookingDate)
	assert.Empty(t, ticket.PurchaseDate)
	assert.Empty(t, ticket.QRCode)

	booked, err := utils.ParseTimestamp(ticket.BookingDate)
	require.NoError(t, err)
	expires, err := utils.ParseTimestamp(ticket.ExpiresAt)
	require.NoError(t, err)
	assert.Equal(t, tickets.BookingTTL, expires.Sub(booked))

	routeRecords, err := svc.Routes.Load()
	require.NoError(t, err)
	assert.Equal(t, 50, routeRecords[0].AvailableSeats, "booking must not consume a seat")
}

func TestBookUnknownRoute(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())

	_, err := svc.Book(context.Background(), purchaseRequest(42))
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestCancelIsIdempotent(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())

	ticket, err := svc.Book(context.Background(), purchaseRequest(1))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	// Second cancel is a no-op, not an error.
	cancelled, err = svc.Cancel(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
}

func TestCancelPaidTicketDoesNotRestock(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())

	ticket, err := svc.Purchase(context.Background(), purchaseRequest(1))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	routeRecords, err := svc.Routes.Load()
	require.NoError(t, err)
	assert.Equal(t, 49, routeRecords[0].AvailableSeats, "cancelling a paid ticket never returns the seat")
}

func TestCancelMissingTicket(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())

	_, err := svc.Cancel(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestListForUser(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())

	_, err := svc.Purchase(context.Background(), purchaseRequest(1))
	require.NoError(t, err)

	other := purchaseRequest(2)
	other.UserID = 7
	_, err = svc.Purchase(context.Background(), other)
	require.NoError(t, err)

	owned, err := svc.ListForUser(2)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, 2, owned[0].UserID)

	none, err := svc.ListForUser(99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestExplicitSeatAssignmentIsKept(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())

	req := purchaseRequest(1)
	req.Carriage = 3
	req.Seat = 17
	ticket, err := svc.Purchase(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, ticket.Carriage)
	assert.Equal(t, 17, ticket.Seat)
}

func TestLifecycleEventsArePublished(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())
	publisher := new(MockPublisher)
	svc.Events = publisher

	publisher.On("PublishTicketIssued", mock.AnythingOfType("models.Ticket")).Return(nil)
	publisher.On("PublishTicketBooked", mock.AnythingOfType("models.Ticket")).Return(nil)
	publisher.On("PublishTicketCancelled", mock.AnythingOfType("models.Ticket")).Return(nil)

	issued, err := svc.Purchase(context.Background(), purchaseRequest(1))
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), purchaseRequest(2))
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), issued.ID)
	require.NoError(t, err)

	publisher.AssertExpectations(t)
}

func TestStatusStateMachine(t *testing.T) {
	assert.True(t, models.StatusBooked.CanTransitionTo(models.StatusPaid))
	assert.True(t, models.StatusBooked.CanTransitionTo(models.StatusCancelled))
	assert.True(t, models.StatusPaid.CanTransitionTo(models.StatusCancelled))
	assert.False(t, models.StatusPaid.CanTransitionTo(models.StatusBooked))
	assert.False(t, models.StatusCancelled.CanTransitionTo(models.StatusPaid))
	assert.True(t, models.StatusCancelled.CanTransitionTo(models.StatusCancelled))
}

func TestBookingExpiryIsAdvisoryOnly(t *testing.T) {
	svc := newTestLedger(t, storage.SeedRoutes())

	ticket, err := svc.Book(context.Background(), purchaseRequest(1))
	require.NoError(t, err)

	// No sweep runs: a booking stays booked past its expiresAt until
	// explicitly cancelled.
	expires, err := utils.ParseTimestamp(ticket.ExpiresAt)
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	stored, err := svc.Get(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, stored.Status)
}
