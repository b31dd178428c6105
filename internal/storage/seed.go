package storage

import "rail-ticketing/internal/models"

// Seed data written on first run, matching the sample dataset the service
// has always shipped with.

func SeedRoutes() []models.Route {
	return []models.Route{
		{ID: 1, From: "Kyiv", To: "Lviv", DepartureTime: "08:00", ArrivalTime: "14:30", Price: 450, Type: "Compartment", AvailableSeats: 50},
		{ID: 2, From: "Kyiv", To: "Odesa", DepartureTime: "22:00", ArrivalTime: "08:30", Price: 380, Type: "Seated", AvailableSeats: 48},
		{ID: 3, From: "Kharkiv", To: "Dnipro", DepartureTime: "15:20", ArrivalTime: "19:45", Price: 280, Type: "Compartment", AvailableSeats: 50},
	}
}

func SeedUsers() []models.User {
	return []models.User{
		{ID: 1, Name: "Admin", Email: "admin@example.com", Password: "admin", Role: models.RoleAdmin},
		{ID: 2, Name: "Ivan Petrenko", Email: "ivan@example.com", Password: "user123", Role: models.RoleUser},
	}
}

func SeedTickets() []models.Ticket {
	return []models.Ticket{}
}
