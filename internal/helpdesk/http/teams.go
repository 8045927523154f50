package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/internal/helpdesk/service"
	"github.com/opsdesk/deskd/pkg/httpx"
)

// TeamHandler serves the team entity endpoints; structurally a twin of the
// category handler since both are directly company-owned.
type TeamHandler struct {
	Teams *service.TeamService
}

type teamResponse struct {
	ID          string    `json:"id"`
	Company     string    `json:"_company"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTeamResponse(t domain.Team) teamResponse {
	return teamResponse{
		ID:          t.ID,
		Company:     t.CompanyID,
		Name:        t.Name,
		Description: t.Description,
		Active:      t.Active,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type teamWriteRequest struct {
	Company     string `json:"_company"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

func (h *TeamHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())

	teams, err := h.Teams.List(r.Context(), user.ID, parseScopeOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, toTeamResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *TeamHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.Teams.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTeamResponse(t))
}

func (h *TeamHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	company, _ := CompanyFrom(r.Context())

	var req teamWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errBadTarget)
		return
	}

	t, err := h.Teams.Create(r.Context(), company.ID, req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTeamResponse(t))
}

func (h *TeamHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req teamWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errBadTarget)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	t, err := h.Teams.Update(r.Context(), r.PathValue("id"), req.Name, req.Description, active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTeamResponse(t))
}

func (h *TeamHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Teams.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
