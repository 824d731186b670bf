package orders

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasamilk/admin-console/internal/session"
	"github.com/vasamilk/admin-console/internal/utils"
)

const (
	msgSlotInactive = "No slot is active right now. Orders are closed."
	msgLoadFailed   = "Failed to load order details."
	msgOrderFailed  = "Failed to place the order. Please try again."
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func token(w http.ResponseWriter, r *http.Request) (string, bool) {
	t, ok := session.FromContext(r.Context()).Token()
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Please log in to continue.")
	}
	return t, ok
}

func (h *Handler) ActiveSlot(w http.ResponseWriter, r *http.Request) {
	t, ok := token(w, r)
	if !ok {
		return
	}
	state, err := h.svc.ActiveSlot(r.Context(), t)
	if err != nil {
		utils.BackendError(w, r, err, msgLoadFailed)
		return
	}
	utils.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	t, ok := token(w, r)
	if !ok {
		return
	}
	opts, err := h.svc.Customers(r.Context(), t)
	if err != nil {
		utils.BackendError(w, r, err, msgLoadFailed)
		return
	}
	utils.WriteJSON(w, http.StatusOK, opts)
}

func (h *Handler) Customer(w http.ResponseWriter, r *http.Request) {
	t, ok := token(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Customer(r.Context(), t, chi.URLParam(r, "id"))
	if err != nil {
		utils.BackendError(w, r, err, msgLoadFailed)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	t, ok := token(w, r)
	if !ok {
		return
	}
	var o OrderRequest
	if err := utils.DecodeJSON(r, &o); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := o.validateQuote(); len(errs) > 0 {
		utils.ValidationFailed(w, errs)
		return
	}

	q, err := h.svc.Quote(r.Context(), t, o)
	switch {
	case errors.Is(err, ErrSlotInactive):
		utils.Error(w, http.StatusConflict, msgSlotInactive)
	case errors.Is(err, ErrUnknownCustomer):
		utils.Error(w, http.StatusNotFound, "Customer not found")
	case err != nil:
		utils.BackendError(w, r, err, msgLoadFailed)
	default:
		utils.WriteJSON(w, http.StatusOK, q)
	}
}

func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	t, ok := token(w, r)
	if !ok {
		return
	}
	var o OrderRequest
	if err := utils.DecodeJSON(r, &o); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := o.Validate(); len(errs) > 0 {
		utils.ValidationFailed(w, errs)
		return
	}

	msg, err := h.svc.Place(r.Context(), t, o)
	switch {
	case errors.Is(err, ErrSlotInactive):
		utils.Error(w, http.StatusConflict, msgSlotInactive)
	case err != nil:
		utils.BackendError(w, r, err, msgOrderFailed)
	default:
		if msg == "" {
			msg = "Order Completed"
		}
		utils.Success(w, msg, nil)
	}
}
