package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/internal/helpdesk/service"
	"github.com/opsdesk/deskd/pkg/httpx"
)

// CategoryHandler serves the category entity endpoints. Target resolution and
// the authorization gates have already run by the time a mutating handler is
// reached; handlers only decode, call the service and encode.
type CategoryHandler struct {
	Categories *service.CategoryService
}

type categoryResponse struct {
	ID          string    `json:"id"`
	Company     string    `json:"_company"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCategoryResponse(c domain.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Company:     c.CompanyID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type categoryWriteRequest struct {
	Company     string `json:"_company"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// HandleList answers GET /categories with every category visible under the
// caller's scope options.
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())

	categories, err := h.Categories.List(r.Context(), user.ID, parseScopeOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet answers GET /categories/{id}. The membership gate has confirmed
// the caller may see this company's entities.
func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.Categories.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCategoryResponse(c))
}

// HandleCreate answers POST /categories. The company comes from the resolved
// target, not from re-reading the body's `_company` field, so the entity is
// always created in the company that was authorized.
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	company, _ := CompanyFrom(r.Context())

	var req categoryWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errBadTarget)
		return
	}

	c, err := h.Categories.Create(r.Context(), company.ID, req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCategoryResponse(c))
}

// HandleUpdate answers PUT /categories/{id}.
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req categoryWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errBadTarget)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	c, err := h.Categories.Update(r.Context(), r.PathValue("id"), req.Name, req.Description, active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCategoryResponse(c))
}

// HandleDelete answers DELETE /categories/{id}.
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Categories.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
