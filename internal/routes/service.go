package routes

import (
	"context"

	"rail-ticketing/internal/models"
	"rail-ticketing/internal/storage"
)

// RouteCache is an optional read-through cache for the route listing. A nil
// cache and a cache error both degrade to reading the store.
type RouteCache interface {
	GetRoutes(ctx context.Context) ([]models.Route, error)
	SetRoutes(ctx context.Context, routes []models.Route) error
	Invalidate(ctx context.Context) error
}

// Service owns the route collection: CRUD plus the seat counter the ticket
// ledger decrements on purchase.
type Service struct {
	Store *storage.Collection[models.Route]
	Cache RouteCache
}

func NewService(store *storage.Collection[models.Route], cache RouteCache) *Service {
	return &Service{Store: store, Cache: cache}
}

type CreateRouteRequest struct {
	From           string `json:"from"`
	To             string `json:"to"`
	DepartureTime  string `json:"departureTime"`
	ArrivalTime    string `json:"arrivalTime"`
	Price          int    `json:"price"`
	Type           string `json:"type"`
	AvailableSeats *int   `json:"availableSeats"`
}

// UpdateRouteRequest shallow-merges over the stored route: only the fields
// present in the request body change.
type UpdateRouteRequest struct {
	From           *string `json:"from"`
	To             *string `json:"to"`
	DepartureTime  *string `json:"departureTime"`
	ArrivalTime    *string `json:"arrivalTime"`
	Price          *int    `json:"price"`
	Type           *string `json:"type"`
	AvailableSeats *int    `json:"availableSeats"`
}

func (s *Service) GetAll(ctx context.Context) ([]models.Route, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.GetRoutes(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	routes, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		_ = s.Cache.SetRoutes(ctx, routes)
	}
	return routes, nil
}

func (s *Service) GetByID(ctx context.Context, id int) (*models.Route, error) {
	routes, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	if i := Find(routes, id); i >= 0 {
		route := routes[i]
		return &route, nil
	}
	return nil, models.NotFoundError{Resource: "route", ID: id}
}

func (s *Service) Create(ctx context.Context, req CreateRouteRequest) (*models.Route, error) {
	if req.From == "" {
		return nil, models.ValidationError{Field: "from", Msg: "required"}
	}
	if req.To == "" {
		return nil, models.ValidationError{Field: "to", Msg: "required"}
	}
	if req.Price < 0 {
		return nil, models.ValidationError{Field: "price", Msg: "must not be negative"}
	}

	seats := models.DefaultAvailableSeats
	if req.AvailableSeats != nil {
		if *req.AvailableSeats < 0 {
			return nil, models.ValidationError{Field: "availableSeats", Msg: "must not be negative"}
		}
		seats = *req.AvailableSeats
	}

	var created models.Route
	_, err := s.Store.Update(func(routes []models.Route) ([]models.Route, error) {
		created = models.Route{
			ID:             storage.NextID(routes),
			From:           req.From,
			To:             req.To,
			DepartureTime:  req.DepartureTime,
			ArrivalTime:    req.ArrivalTime,
			Price:          req.Price,
			Type:           req.Type,
			AvailableSeats: seats,
		}
		return append(routes, created), nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id int, req UpdateRouteRequest) (*models.Route, error) {
	var updated models.Route
	_, err := s.Store.Update(func(routes []models.Route) ([]models.Route, error) {
		i := Find(routes, id)
		if i < 0 {
			return nil, models.NotFoundError{Resource: "route", ID: id}
		}
		route := routes[i]
		if req.From != nil {
			route.From = *req.From
		}
		if req.To != nil {
			route.To = *req.To
		}
		if req.DepartureTime != nil {
			route.DepartureTime = *req.DepartureTime
		}
		if req.ArrivalTime != nil {
			route.ArrivalTime = *req.ArrivalTime
		}
		if req.Price != nil {
			route.Price = *req.Price
		}
		if req.Type != nil {
			route.Type = *req.Type
		}
		if req.AvailableSeats != nil {
			if *req.AvailableSeats < 0 {
				return nil, models.ValidationError{Field: "availableSeats", Msg: "must not be negative"}
			}
			route.AvailableSeats = *req.AvailableSeats
		}
		routes[i] = route
		updated = route
		return routes, nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &updated, nil
}

// Delete removes the route when present. Deleting an absent id succeeds
// silently; callers have always treated route deletion as idempotent.
func (s *Service) Delete(ctx context.Context, id int) error {
	_, err := s.Store.Update(func(routes []models.Route) ([]models.Route, error) {
		kept := routes[:0]
		for _, r := range routes {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.Cache != nil {
		_ = s.Cache.Invalidate(ctx)
	}
}

// Find returns the index of the route with the given id, or -1.
func Find(routes []models.Route, id int) int {
	for i, r := range routes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// DecrementSeat takes one seat from the route's inventory. Selling past zero
// fails with ExhaustedError; the caller must abort the purchase.
func DecrementSeat(route *models.Route) error {
	if route.AvailableSeats <= 0 {
		return models.ExhaustedError{RouteID: route.ID}
	}
	route.AvailableSeats--
	return nil
}
