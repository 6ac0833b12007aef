package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	autocrud "github.com/hmaia/autocrud"
	"github.com/hmaia/autocrud/middleware"
)

type handler struct {
	router *autocrud.Router
}

// Mount registers the JSON route surface for router under prefix on mux. The
// route group is namespaced by the model name, so several routers can share
// one mux. Bearer tokens are lifted into the request context for every route;
// whether they are required is the router's decision.
func Mount(mux chi.Router, prefix string, router *autocrud.Router) {
	h := &handler{router: router}

	mux.Route(prefix+"/"+router.Model(), func(g chi.Router) {
		g.Use(middleware.BearerToken)

		if router.LoginEnabled() {
			g.Post("/login", h.login)
			g.Post("/logout", h.logout)
		}

		g.Get("/", h.list)
		g.Get("/count", h.count)
		g.Get("/{id}", h.get)
		g.Post("/", h.create)
		g.Post("/bulk", h.createMany)
		g.Patch("/bulk", h.updateMany)
		g.Patch("/{id}", h.update)
		g.Delete("/{id}", h.delete)
		g.Delete("/bulk", h.deleteMany)
	})
}

/*
====================================
ROUTE HANDLERS
====================================
*/

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	recs, err := h.router.List(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []autocrud.Record{}
	}

	writeJSON(w, http.StatusOK, recs)
}

func (h *handler) count(w http.ResponseWriter, r *http.Request) {
	n, err := h.router.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.router.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var payload autocrud.Record
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.router.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (h *handler) createMany(w http.ResponseWriter, r *http.Request) {
	var payloads []autocrud.Record
	if err := decodeBody(r, &payloads); err != nil {
		writeError(w, err)
		return
	}

	recs, err := h.router.CreateMany(r.Context(), payloads)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, recs)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var partial autocrud.Record
	if err := decodeBody(r, &partial); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.router.Update(r.Context(), id, partial)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) updateMany(w http.ResponseWriter, r *http.Request) {
	var items []autocrud.Record
	if err := decodeBody(r, &items); err != nil {
		writeError(w, err)
		return
	}

	recs, err := h.router.UpdateMany(r.Context(), items)
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []autocrud.Record{}
	}

	writeJSON(w, http.StatusOK, recs)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.router.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *handler) deleteMany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []any `json:"ids"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.router.DeleteMany(r.Context(), body.IDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"requested": res.Requested,
		"deleted":   res.Deleted,
	})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var credentials autocrud.Record
	if err := decodeBody(r, &credentials); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.router.Login(r.Context(), credentials)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.router.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"revoked": true})
}

/*
====================================
CODEC
====================================
*/

// pathID coerces the {id} path segment into the Go type the model's primary
// key declares, so repositories see typed ids rather than raw strings.
func (h *handler) pathID(r *http.Request) (any, error) {
	raw := chi.URLParam(r, "id")

	pk := h.router.Descriptor().PrimaryKey()
	switch pk.Kind {
	case autocrud.KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &autocrud.ValidationError{Field: pk.Name, Reason: "id must be an integer"}
		}
		return n, nil
	case autocrud.KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &autocrud.ValidationError{Field: pk.Name, Reason: "id must be a number"}
		}
		return f, nil
	default:
		return raw, nil
	}
}

func pageFromQuery(r *http.Request) (autocrud.Page, error) {
	var page autocrud.Page

	q := r.URL.Query()
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, &autocrud.ValidationError{Field: "offset", Reason: "must be an integer"}
		}
		page.Offset = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, &autocrud.ValidationError{Field: "limit", Reason: "must be an integer"}
		}
		page.Limit = n
	}

	return page, nil
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return &autocrud.ValidationError{Reason: "request body is not valid JSON"}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, autocrud.ErrValidation),
		errors.Is(err, autocrud.ErrDescriptor),
		errors.Is(err, autocrud.ErrConfig):
		return http.StatusBadRequest
	case errors.Is(err, autocrud.ErrUnauthenticated),
		errors.Is(err, autocrud.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, autocrud.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, autocrud.ErrRepository):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
