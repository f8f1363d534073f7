package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/contractviewer/internal/formservice"
	"github.com/starford/contractviewer/internal/sse"
	"github.com/starford/contractviewer/internal/storage"
)

// CORS policies. The fetch proxy only ever answers GET.
const (
	fetchMethods = "GET, OPTIONS"
	fetchHeaders = "Content-Type"
	apiMethods   = "GET, POST, PUT, OPTIONS"
	apiHeaders   = "Content-Type, Authorization, If-None-Match"
)

// RouterConfig wires the API's dependencies.
type RouterConfig struct {
	Form        *formservice.Service
	Store       storage.Provider
	Fetch       FetchConfig
	AuthEnabled bool
	AuthToken   string
	// Events, if non-nil, receives form changes and is mounted at GET /events.
	Events *sse.Broker
}

// NewRouter creates a chi router with all API routes mounted.
// Form routes and the event stream are behind AuthMiddleware; the contract
// and fetch routes are public.
func NewRouter(cfg RouterConfig) chi.Router {
	fetch := NewFetchHandler(cfg.Store, cfg.Fetch)
	h := NewHandler(cfg.Form, fetch, cfg.Events)

	r := chi.NewRouter()

	// Fetch proxy. Handles every method itself so non-GET gets a JSON 405.
	r.With(CORSMiddleware(fetchMethods, fetchHeaders)).Handle("/data", fetch)

	r.Group(func(r chi.Router) {
		r.Use(CORSMiddleware(apiMethods, apiHeaders))
		// Preflight for every other path; the middleware answers it.
		r.Options("/*", func(http.ResponseWriter, *http.Request) {})

		// Stateless contract mapping. Nothing here touches the shared form.
		r.Get("/contract", h.GetContract)
		r.Get("/contract/fields", h.Fields)
		r.Post("/contract/import", h.ImportContract)
		r.Post("/contract/export", h.ExportContract)
		r.Post("/contract/print", h.PrintContract)

		// Shared form state.
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.AuthEnabled, cfg.AuthToken))
			r.Get("/form", h.GetForm)
			r.Post("/form/load", h.LoadForm)
			r.Post("/form/fetch", h.FetchForm)
			r.Put("/form/fields/{field}", h.SetField)
			r.Post("/form/reset", h.ResetForm)
			r.Get("/form/export", h.ExportForm)
			r.Get("/form/print", h.PrintForm)

			if cfg.Events != nil {
				r.Get("/events", cfg.Events.ServeHTTP)
			}
		})
	})

	return r
}
