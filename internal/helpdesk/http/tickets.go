package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/internal/helpdesk/service"
	"github.com/opsdesk/deskd/pkg/httpx"
)

// TicketHandler serves the ticket endpoints. Tickets carry no company
// reference of their own; the category is the ownership link, which is why
// creation re-resolves the category from the payload here rather than taking
// a company from the caller.
type TicketHandler struct {
	Tickets *service.TicketService
}

type ticketResponse struct {
	ID          string    `json:"id"`
	Category    string    `json:"_category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:          t.ID,
		Category:    t.CategoryID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type ticketWriteRequest struct {
	Category    string `json:"_category"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *TicketHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())

	tickets, err := h.Tickets.List(r.Context(), user.ID, parseScopeOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *TicketHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tickets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTicketResponse(t))
}

func (h *TicketHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ticketWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errBadTarget)
		return
	}

	t, err := h.Tickets.Create(r.Context(), req.Category, req.Title, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTicketResponse(t))
}

func (h *TicketHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req ticketWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errBadTarget)
		return
	}

	t, err := h.Tickets.Update(r.Context(), r.PathValue("id"), req.Title, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTicketResponse(t))
}

func (h *TicketHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Tickets.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
