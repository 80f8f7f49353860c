package http

import (
	"context"
	"errors"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/domain"
	apperrors "github.com/kahvecikaan/buildingMicroservices/menu-web/internal/errors"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/form"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/service"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/view"
	"net/http"
	"time"
)

type MenuHandler struct {
	menu       service.MenuData
	forms      *form.Store
	renderer   *view.Renderer
	renderWait time.Duration
	logger     hclog.Logger
}

// NewMenuHandler creates the page handlers. renderWait bounds how long a page
// waits for the first menu read before showing the loading placeholder.
func NewMenuHandler(
	menu service.MenuData,
	forms *form.Store,
	renderer *view.Renderer,
	renderWait time.Duration,
	logger hclog.Logger) *MenuHandler {
	return &MenuHandler{
		menu:       menu,
		forms:      forms,
		renderer:   renderer,
		renderWait: renderWait,
		logger:     logger,
	}
}

// GetMenu handles GET /
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.menuPage(r.Context()))
}

// Refresh handles POST /refresh
func (h *MenuHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if _, err := h.menu.Refetch(r.Context()); err != nil {
		h.logger.Error("Error refreshing menu", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// NewItem handles GET /items/new
func (h *MenuHandler) NewItem(w http.ResponseWriter, r *http.Request) {
	f := h.forms.Open()
	h.renderForm(w, r, http.StatusOK, f)
}

// CreateItem handles POST /items/{id}
func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	f, ok := h.form(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	for _, desc := range domain.Fields {
		if err := f.Set(desc.Kind, r.PostFormValue(desc.Name)); err != nil {
			h.formError(w, err)
			return
		}
	}

	err := f.Submit(r.Context())
	switch {
	case err == nil:
		// the created item only shows up once the menu is read again
		if _, err := h.menu.Refetch(r.Context()); err != nil {
			h.logger.Error("Error refreshing menu after creation", "error", err)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case apperrors.IsErrorType(err, apperrors.ErrorTypeValidation):
		h.renderForm(w, r, http.StatusUnprocessableEntity, f)
	case apperrors.IsErrorType(err, apperrors.ErrorTypeTransport):
		if apperrors.ShouldLogError(err) {
			h.logSubmitError(f.ID(), err)
		}
		h.renderForm(w, r, http.StatusBadGateway, f)
	default:
		h.formError(w, err)
	}
}

// CancelItem handles POST /items/{id}/cancel
func (h *MenuHandler) CancelItem(w http.ResponseWriter, r *http.Request) {
	f, ok := h.form(w, r)
	if !ok {
		return
	}

	if err := f.Cancel(); err != nil {
		h.formError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *MenuHandler) form(w http.ResponseWriter, r *http.Request) (*form.Form, bool) {
	id := mux.Vars(r)["id"]
	f, ok := h.forms.Get(id)
	if !ok {
		http.Error(w, "Form not found", http.StatusNotFound)
		return nil, false
	}
	return f, true
}

func (h *MenuHandler) logSubmitError(id string, err error) {
	args := []interface{}{"form", id, "code", apperrors.GetErrorCode(err), "error", err}
	if appErr, ok := apperrors.AsAppError(err); ok {
		if status, ok := appErr.GetContext("status"); ok {
			args = append(args, "status", status)
		}
	}
	h.logger.Error("Unable to create menu item", args...)
}

func (h *MenuHandler) formError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, form.ErrSubmissionPending):
		http.Error(w, "Submission in progress", http.StatusConflict)
	case errors.Is(err, form.ErrFormClosed):
		http.Error(w, "Form not found", http.StatusNotFound)
	default:
		h.logger.Error("Error handling form", "error", err)
		http.Error(w, "Error handling form", http.StatusInternalServerError)
	}
}

func (h *MenuHandler) menuPage(ctx context.Context) view.Page {
	ctx, cancel := context.WithTimeout(ctx, h.renderWait)
	defer cancel()

	state, err := h.menu.Load(ctx)
	if err != nil {
		h.logger.Debug("Menu not ready yet", "error", err)
	}
	return view.MenuPage(state)
}

func (h *MenuHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, f *form.Form) {
	page := h.menuPage(r.Context())
	v := f.View()
	page.Modal = &v
	h.render(w, status, page)
}

func (h *MenuHandler) render(w http.ResponseWriter, status int, page view.Page) {
	w.WriteHeader(status)
	if err := h.renderer.Render(w, page); err != nil {
		h.logger.Error("Error rendering page", "error", err)
	}
}

// Health handles GET /healthz
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
