package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/arllen133/recipes/clause"
	apperrors "github.com/arllen133/recipes/errors"
	"github.com/arllen133/recipes/service"
	"github.com/arllen133/recipes/store"
)

// Resource exposes a CRUD service as a REST collection:
//
//	POST   {path}       create, body without id
//	PUT    {path}       update, body with id
//	GET    {path}       list, paginated when sortable columns are configured
//	GET    {path}/{id}  read
//	DELETE {path}/{id}  delete
type Resource[T any] struct {
	entityName string
	path       string
	service    service.CRUD[T]
	sortable   map[string]clause.Column
	paginated  bool
}

// ResourceOption configures a Resource.
type ResourceOption[T any] func(*Resource[T])

// Paginated makes the list endpoint accept page, size and sort parameters.
func Paginated[T any](sortable map[string]clause.Column) ResourceOption[T] {
	return func(res *Resource[T]) {
		res.paginated = true
		res.sortable = sortable
	}
}

// NewResource creates a resource for entityName (e.g. "recipe") mounted at
// path (e.g. "/api/recipes").
func NewResource[T any](entityName, path string, svc service.CRUD[T], opts ...ResourceOption[T]) *Resource[T] {
	res := &Resource[T]{
		entityName: entityName,
		path:       path,
		service:    svc,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// route is implemented by every Resource regardless of entity type.
type route interface {
	register(mux *http.ServeMux, s *Server)
}

func (res *Resource[T]) register(mux *http.ServeMux, s *Server) {
	a := alerts{application: s.config.Application}
	mux.HandleFunc("POST "+res.path, s.withMiddleware(res.create(a)))
	mux.HandleFunc("PUT "+res.path, s.withMiddleware(res.update(a)))
	mux.HandleFunc("GET "+res.path, s.withMiddleware(res.list(a)))
	mux.HandleFunc("GET "+res.path+"/{id}", s.withMiddleware(res.get(a)))
	mux.HandleFunc("DELETE "+res.path+"/{id}", s.withMiddleware(res.delete(a)))
	mux.HandleFunc(res.path, s.withMiddleware(methodNotAllowed("GET, POST, PUT")))
	mux.HandleFunc(res.path+"/{id}", s.withMiddleware(methodNotAllowed("GET, DELETE")))
}

// methodNotAllowed answers any method the more specific patterns above did
// not claim.
func methodNotAllowed(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		WriteError(w, r, http.StatusMethodNotAllowed, apperrors.ErrCodeMethodNotAllowed,
			fmt.Sprintf("method %s not allowed", r.Method), false, nil)
	}
}

func (res *Resource[T]) create(a alerts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "REST request to save "+res.entityName)

		entity, ok := res.decode(w, r, a)
		if !ok {
			return
		}
		if store.Identity(entity) != 0 {
			res.badRequest(w, r, a, fmt.Sprintf("A new %s cannot already have an ID", res.entityName), "idexists")
			return
		}

		saved, err := res.service.Save(r.Context(), entity)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		id := strconv.FormatInt(store.Identity(saved), 10)
		w.Header().Set("Location", res.path+"/"+id)
		a.created(w, res.entityName, id)
		respondJSON(w, http.StatusCreated, saved)
	}
}

func (res *Resource[T]) update(a alerts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "REST request to update "+res.entityName)

		entity, ok := res.decode(w, r, a)
		if !ok {
			return
		}
		if store.Identity(entity) == 0 {
			res.badRequest(w, r, a, "Invalid id", "idnull")
			return
		}

		saved, err := res.service.Save(r.Context(), entity)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		a.updated(w, res.entityName, strconv.FormatInt(store.Identity(saved), 10))
		respondJSON(w, http.StatusOK, saved)
	}
}

func (res *Resource[T]) list(a alerts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "REST request to get "+res.entityName+"s")

		if !res.paginated {
			all, err := res.service.FindAll(r.Context())
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			respondJSON(w, http.StatusOK, all)
			return
		}

		pageable, err := parsePageable(r, res.sortable)
		if err != nil {
			res.badRequest(w, r, a, err.Error(), "badpagination")
			return
		}
		page, err := res.service.FindPage(r.Context(), pageable)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		paginationHeaders(w, r, page)
		respondJSON(w, http.StatusOK, page.Content)
	}
}

func (res *Resource[T]) get(a alerts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := res.pathID(w, r, a)
		if !ok {
			return
		}
		slog.DebugContext(r.Context(), "REST request to get "+res.entityName, "id", id)

		found, err := res.service.FindOne(r.Context(), id)
		if apperrors.Is(err, apperrors.ErrCodeNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, found)
	}
}

func (res *Resource[T]) delete(a alerts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := res.pathID(w, r, a)
		if !ok {
			return
		}
		slog.DebugContext(r.Context(), "REST request to delete "+res.entityName, "id", id)

		if err := res.service.Delete(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		a.deleted(w, res.entityName, strconv.FormatInt(id, 10))
		w.WriteHeader(http.StatusNoContent)
	}
}

func (res *Resource[T]) decode(w http.ResponseWriter, r *http.Request, a alerts) (*T, bool) {
	entity := new(T)
	if err := json.NewDecoder(r.Body).Decode(entity); err != nil {
		res.badRequest(w, r, a, "Malformed request body: "+err.Error(), "invalidbody")
		return nil, false
	}
	return entity, true
}

func (res *Resource[T]) pathID(w http.ResponseWriter, r *http.Request, a alerts) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		res.badRequest(w, r, a, fmt.Sprintf("Invalid id %q", raw), "idinvalid")
		return 0, false
	}
	return id, true
}

func (res *Resource[T]) badRequest(w http.ResponseWriter, r *http.Request, a alerts, message, errorKey string) {
	a.failure(w, res.entityName, errorKey)
	WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, message, false,
		map[string]any{"entityName": res.entityName, "errorKey": errorKey})
}
