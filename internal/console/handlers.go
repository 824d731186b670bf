package console

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasamilk/admin-console/internal/dropdown"
	"github.com/vasamilk/admin-console/internal/guard"
	"github.com/vasamilk/admin-console/internal/milkapi"
	"github.com/vasamilk/admin-console/internal/session"
	"github.com/vasamilk/admin-console/internal/utils"
	"github.com/vasamilk/admin-console/models"
)

const msgRequestFailed = "Something went wrong. Please try again."

// Backend is the slice of the milk-api client the console forwards to.
type Backend interface {
	List(ctx context.Context, token, path string, page, size int, form *milkapi.Form) (*milkapi.Page, error)
	Call(ctx context.Context, token, path string, form *milkapi.Form) (*milkapi.Envelope, error)
}

type Dropdowns interface {
	Named(ctx context.Context, token string, role models.Role, name string, params map[string]string) ([]dropdown.Option, error)
}

type Handler struct {
	api       Backend
	dropdowns Dropdowns
	enforcer  *guard.Enforcer
}

func NewHandler(api Backend, dropdowns Dropdowns, g *guard.Enforcer) *Handler {
	return &Handler{api: api, dropdowns: dropdowns, enforcer: g.JSON()}
}

// Viewer is the logged in user as a screen sees it.
type Viewer struct {
	UserID   models.ID   `json:"user_id"`
	UserName string      `json:"user_name"`
	UserType models.Role `json:"user_type"`
	Role     string      `json:"role"`
	Home     string      `json:"home"`
}

// ScreenView describes a screen the browser is allowed to render.
type ScreenView struct {
	Screen string   `json:"screen"`
	Path   string   `json:"path"`
	Guards []string `json:"guards"`
	User   *Viewer  `json:"user"`
}

// ListPage is one page of a console list.
type ListPage struct {
	Data  []json.RawMessage `json:"data"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

func viewerOf(s *models.Session) *Viewer {
	if s == nil {
		return nil
	}
	return &Viewer{
		UserID:   s.UserID,
		UserName: s.UserName,
		UserType: s.UserType,
		Role:     s.UserType.String(),
		Home:     guard.HomeFor(s.UserType),
	}
}

// Screen serves route once its guards have let the request through.
func (h *Handler) Screen(route guard.Route) http.HandlerFunc {
	names := route.GuardNames()
	return func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, ScreenView{
			Screen: route.Screen,
			Path:   route.Path,
			Guards: names,
			User:   viewerOf(session.FromContext(r.Context()).UserData()),
		})
	}
}

// guarded looks up the endpoint named in the URL and runs next behind its
// guards. Unknown names are a 404 before any guard runs.
func (h *Handler) guarded(catalog map[string]Endpoint, next func(http.ResponseWriter, *http.Request, Endpoint)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ep, ok := catalog[chi.URLParam(r, "name")]
		if !ok {
			utils.Error(w, http.StatusNotFound, "Unknown endpoint")
			return
		}
		h.enforcer.Require(ep.Guards...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next(w, r, ep)
		})).ServeHTTP(w, r)
	}
}

// queryForm turns query parameters, minus skip, into backend form fields.
func queryForm(r *http.Request, skip ...string) *milkapi.Form {
	q := r.URL.Query()
	for _, k := range skip {
		q.Del(k)
	}
	form := milkapi.NewForm()
	for k := range q {
		if k == "token" {
			continue
		}
		form.Set(k, q.Get(k))
	}
	return form
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, ep Endpoint) {
	token, _ := session.FromContext(r.Context()).Token()
	page := atoiDefault(r.URL.Query().Get("page"), 1)
	size := atoiDefault(r.URL.Query().Get("size"), 10)

	p, err := h.api.List(r.Context(), token, ep.Path, page, size, queryForm(r, "page", "size"))
	if err != nil {
		utils.BackendError(w, r, err, msgRequestFailed)
		return
	}
	data := p.Data
	if data == nil {
		data = []json.RawMessage{}
	}
	utils.WriteJSON(w, http.StatusOK, ListPage{Data: data, Total: p.Total, Page: page, Size: size})
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request, ep Endpoint) {
	token, _ := session.FromContext(r.Context()).Token()
	env, err := h.api.Call(r.Context(), token, ep.Path, queryForm(r))
	if err != nil {
		utils.BackendError(w, r, err, msgRequestFailed)
		return
	}
	utils.WriteJSON(w, http.StatusOK, milkapi.Raw(env))
}

// Action forwards a whitelisted mutation with the submitted fields.
func (h *Handler) Action(w http.ResponseWriter, r *http.Request, ep Endpoint) {
	fields, err := utils.Fields(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	form := milkapi.NewForm()
	for k, v := range fields {
		if k == "token" {
			continue
		}
		form.Set(k, v)
	}

	acc := session.FromContext(r.Context())
	token, _ := acc.Token()
	env, err := h.api.Call(r.Context(), token, ep.Path, form)
	if err != nil {
		utils.BackendError(w, r, err, msgRequestFailed)
		return
	}

	ev := zerolog.Ctx(r.Context()).Info().Str("action", ep.Name).Dict("form", zerolog.Dict().Fields(form.LogFields()))
	if u := acc.UserData(); u != nil {
		ev = ev.Str("user_id", string(u.UserID))
	}
	ev.Msg("console action")

	msg := env.Msg
	if msg == "" {
		msg = "Saved"
	}
	utils.Success(w, msg, milkapi.Raw(env))
}

func (h *Handler) Dropdown(w http.ResponseWriter, r *http.Request) {
	acc := session.FromContext(r.Context())
	token, _ := acc.Token()
	role, _ := acc.CurrentRole()

	params := map[string]string{}
	for k := range r.URL.Query() {
		if k != "token" {
			params[k] = r.URL.Query().Get(k)
		}
	}
	if len(params) == 0 {
		params = nil
	}

	opts, err := h.dropdowns.Named(r.Context(), token, role, chi.URLParam(r, "name"), params)
	switch {
	case errors.Is(err, dropdown.ErrUnknownDropdown):
		utils.Error(w, http.StatusNotFound, "Unknown dropdown")
	case err != nil:
		utils.BackendError(w, r, err, "Failed to load options.")
	default:
		utils.WriteJSON(w, http.StatusOK, opts)
	}
}
