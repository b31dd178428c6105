package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/cache"
	"rail-ticketing/internal/config"
	"rail-ticketing/internal/kafka"
	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/middleware"
	"rail-ticketing/internal/models"
	"rail-ticketing/internal/routes"
	"rail-ticketing/internal/routes/route_api"
	"rail-ticketing/internal/storage"
	"rail-ticketing/internal/tickets"
	"rail-ticketing/internal/tickets/qrgen"
	"rail-ticketing/internal/tickets/ticket_api"
	"rail-ticketing/internal/users"
	"rail-ticketing/internal/users/user_api"
	"rail-ticketing/internal/utils"
)

func main() {
	log := logger.NewLogger()
	defer log.Close()

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()

	log.Info("STORE", fmt.Sprintf("Using data directory: %s", cfg.Storage.DataDir))
	routeStore := storage.NewCollection(cfg.Storage.DataDir, "routes", storage.SeedRoutes())
	ticketStore := storage.NewCollection(cfg.Storage.DataDir, "tickets", storage.SeedTickets())
	userStore := storage.NewCollection(cfg.Storage.DataDir, "users", storage.SeedUsers())

	// First load seeds any missing collection file.
	for name, load := range map[string]func() error{
		"routes":  func() error { _, err := routeStore.Load(); return err },
		"tickets": func() error { _, err := ticketStore.Load(); return err },
		"users":   func() error { _, err := userStore.Load(); return err },
	} {
		if err := load(); err != nil {
			log.Fatal("STORE", fmt.Sprintf("Failed to initialize %s collection: %v", name, err))
		}
	}
	log.Info("STORE", "Collections initialized")

	var routeCache routes.RouteCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("REDIS", fmt.Sprintf("Redis unreachable, running without route cache: %v", err))
		} else {
			defer redisClient.Close()
			routeCache = cache.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
			log.Info("REDIS", fmt.Sprintf("Route cache enabled at %s", cfg.Redis.Addr))
		}
	}

	var events tickets.EventPublisher
	if cfg.Kafka.Enabled {
		if cfg.Kafka.MockMode {
			events = &kafka.MockProducer{Logger: log}
			log.Info("KAFKA", "Running producer in mock mode")
		} else {
			requiredTopics := []string{
				cfg.Kafka.Topics.TicketIssued,
				cfg.Kafka.Topics.TicketBooked,
				cfg.Kafka.Topics.TicketCancelled,
			}
			if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics, log); err != nil {
				log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
			}
			producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics, log)
			defer producer.Close()
			events = producer
			log.Info("KAFKA", fmt.Sprintf("Producer initialized for brokers %v", cfg.Kafka.Brokers))
		}
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	routeService := routes.NewService(routeStore, routeCache)
	ticketService := tickets.NewService(routeStore, ticketStore)
	ticketService.Cache = routeCache
	ticketService.Events = events
	ticketService.Logger = log
	userService := users.NewService(userStore)

	routeHandler := route_api.NewHandler(routeService, log)
	ticketHandler := ticket_api.NewHandler(ticketService, qrgen.NewGenerator(cfg.QR.SecretKey), log)
	userHandler := user_api.NewHandler(userService, tokens, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	adminOnly := func(r chi.Router) chi.Router {
		if !cfg.Auth.Enabled {
			return r
		}
		return r.With(auth.Middleware(tokens), auth.RequireRole(models.RoleAdmin))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", indexHandler)

		r.Route("/routes", func(r chi.Router) {
			r.Get("/", routeHandler.GetRoutes)
			r.Get("/{id}", routeHandler.GetRoute)
			adminOnly(r).Post("/", routeHandler.CreateRoute)
			adminOnly(r).Put("/{id}", routeHandler.UpdateRoute)
			adminOnly(r).Delete("/{id}", routeHandler.DeleteRoute)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", ticketHandler.ListTickets)
			r.Post("/buy", ticketHandler.BuyTicket)
			r.Post("/book", ticketHandler.BookTicket)
			r.Get("/{id}", ticketHandler.ViewTicket)
			r.Get("/{id}/qr", ticketHandler.TicketQR)
			r.Delete("/{id}", ticketHandler.CancelTicket)
		})

		r.Get("/users", userHandler.ListUsers)
		r.Get("/users/{userId}/tickets", ticketHandler.ListTicketsByUser)
		r.Post("/login", userHandler.Login)
		r.Post("/register", userHandler.Register)
	})
	log.Info("ROUTER", "API routes registered under /api")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Rail ticketing service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Service shutdown complete")
	}
}

func indexHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Railway Ticket System API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"routes":   "/api/routes",
			"tickets":  "/api/tickets",
			"users":    "/api/users",
			"login":    "/api/login",
			"register": "/api/register",
		},
	})
}
