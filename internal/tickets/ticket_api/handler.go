package ticket_api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/tickets"
	"rail-ticketing/internal/tickets/qrgen"
	"rail-ticketing/internal/utils"
)

type Handler struct {
	Tickets *tickets.Service
	QR      *qrgen.Generator
	Logger  *logger.Logger
}

func NewHandler(ticketService *tickets.Service, qr *qrgen.Generator, log *logger.Logger) *Handler {
	return &Handler{Tickets: ticketService, QR: qr, Logger: log}
}

// BuyTicket issues a paid ticket and decrements the route's seat counter in
// the same transaction.
func (h *Handler) BuyTicket(w http.ResponseWriter, r *http.Request) {
	var req tickets.TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	ticket, err := h.Tickets.Purchase(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Ticket purchased successfully",
		"ticket":  ticket,
	})
}

// BookTicket reserves a ticket for 24 hours without touching seat inventory.
func (h *Handler) BookTicket(w http.ResponseWriter, r *http.Request) {
	var req tickets.TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	ticket, err := h.Tickets.Book(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Ticket booked successfully",
		"ticket":  ticket,
	})
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	allTickets, err := h.Tickets.ListAll()
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, allTickets)
}

func (h *Handler) ViewTicket(w http.ResponseWriter, r *http.Request) {
	id, err := ticketID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}
	ticket, err := h.Tickets.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ticket)
}

func (h *Handler) CancelTicket(w http.ResponseWriter, r *http.Request) {
	id, err := ticketID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}
	if _, err := h.Tickets.Cancel(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Ticket cancelled"})
}

func (h *Handler) ListTicketsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userId"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	userTickets, err := h.Tickets.ListForUser(userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, userTickets)
}

// TicketQR renders the ticket as an encrypted QR PNG for gate scanning.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	id, err := ticketID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}
	ticket, err := h.Tickets.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	png, err := h.QR.EncodePNG(*ticket)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := utils.ErrorStatus(err)
	if status == http.StatusInternalServerError {
		if h.Logger != nil {
			h.Logger.Error("TICKETS", err.Error())
		}
		utils.WriteError(w, status, "internal error")
		return
	}
	utils.WriteError(w, status, err.Error())
}

func ticketID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
