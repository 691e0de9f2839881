package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/dtroode/recipes-server/internal/api/rest/handler"
	"github.com/dtroode/recipes-server/internal/api/rest/middleware"
	"github.com/dtroode/recipes-server/internal/logger"
	"github.com/dtroode/recipes-server/internal/model"
	"github.com/dtroode/recipes-server/internal/service"
)

// Options holds the HTTP settings the router needs.
type Options struct {
	AllowedOrigins []string
	RateLimit      float64
	RateLimitBurst int
	MaxUploadBytes int64
	TrustProxy     bool
}

// Router represents the REST router for the recipes API.
// It wires handlers, middleware and the CORS policy together.
type Router struct {
	recipeService  handler.RecipeService
	authService    handler.AuthService
	tokenService   middleware.TokenService
	storage        model.Storage
	pinger         model.Pinger
	contextManager model.ContextManager
	options        Options
	logger         *logger.Logger
}

// New creates new REST Router instance.
//
// Parameters:
//   - recipeService: The recipe management service
//   - authService: The signup and login service
//   - tokenService: Resolves bearer tokens for protected routes
//   - storage: The image storage backend served under /images
//   - pinger: Checked by the readiness probe
//   - contextManager: Carries the caller identity through the request context
//   - options: HTTP settings
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	recipeService handler.RecipeService,
	authService handler.AuthService,
	tokenService middleware.TokenService,
	storage model.Storage,
	pinger model.Pinger,
	contextManager model.ContextManager,
	options Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		recipeService:  recipeService,
		authService:    authService,
		tokenService:   tokenService,
		storage:        storage,
		pinger:         pinger,
		contextManager: contextManager,
		options:        options,
		logger:         logger,
	}
}

// Register builds the route table and wraps it with middleware and CORS.
// Listing and reading recipes is public; writes need a bearer token.
//
// Returns the root HTTP handler.
func (r *Router) Register() http.Handler {
	m := mux.NewRouter()

	r.registerSystemRoutes(m)
	r.registerImageRoutes(m)

	api := m.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewRateLimit(r.options.RateLimit, r.options.RateLimitBurst).Handler)

	r.registerRecipeRoutes(api)
	r.registerAuthRoutes(api)

	h := cors.New(cors.Options{
		AllowedOrigins: r.options.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders: []string{"X-Request-Id"},
	}).Handler(m)

	// Wrapped outside mux so unmatched and preflight requests are observed too.
	return chain(h,
		middleware.RequestID,
		middleware.NewRecovery(r.logger).Handler,
		middleware.NewMetrics(m).Handler,
		middleware.NewLogging(r.logger).Handler,
	)
}

// chain applies mws so that the first one is outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func (r *Router) registerSystemRoutes(m *mux.Router) {
	health := handler.NewHealth(r.pinger, r.logger)

	m.HandleFunc("/health", health.Live).Methods(http.MethodGet)
	m.HandleFunc("/ready", health.Ready).Methods(http.MethodGet)
	m.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

func (r *Router) registerImageRoutes(m *mux.Router) {
	images := handler.NewImage(r.storage, r.logger)

	m.HandleFunc(service.ImagesPathPrefix+"{filename}", images.Serve).Methods(http.MethodGet, http.MethodHead)
}

func (r *Router) registerRecipeRoutes(api *mux.Router) {
	recipes := handler.NewRecipe(r.recipeService, r.contextManager, r.logger, r.options.MaxUploadBytes, r.options.TrustProxy)
	auth := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger).Handler

	s := api.PathPrefix("/recipes").Subrouter()
	s.HandleFunc("", recipes.List).Methods(http.MethodGet)
	s.Handle("", auth(http.HandlerFunc(recipes.Create))).Methods(http.MethodPost)
	s.HandleFunc("/{id}", recipes.Get).Methods(http.MethodGet)
	s.Handle("/{id}", auth(http.HandlerFunc(recipes.Update))).Methods(http.MethodPut)
	s.Handle("/{id}", auth(http.HandlerFunc(recipes.Delete))).Methods(http.MethodDelete)
}

func (r *Router) registerAuthRoutes(api *mux.Router) {
	users := handler.NewAuth(r.authService, r.logger)

	s := api.PathPrefix("/user").Subrouter()
	s.HandleFunc("/signup", users.Signup).Methods(http.MethodPost)
	s.HandleFunc("/login", users.Login).Methods(http.MethodPost)
}
