package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/user-service/internal/api/handler"
	"github.com/userhub/user-service/internal/api/middleware"
	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

// route binds one operation to its handler and guard policy. The table
// replaces per-handler guard annotations: every protected operation names its
// policy here, in one place.
type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	guards  []echo.MiddlewareFunc
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(
	users ports.UserService,
	tokens middleware.TokenVerifier,
	db *mongo.Database,
	rdb *redis.Client,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("users"))

	// --- Dependencies ---
	userHandler := handler.NewUserHandler(users)
	authn := middleware.Authenticate(tokens)

	// --- User routes ---
	// Guard policies per operation: find-by-email and delete accept staff
	// (super or admin); role update accepts super alone; profile update
	// accepts staff or the resource owner. List and single-record reads
	// require authentication but no particular role.
	routes := []route{
		{http.MethodPost, "/users/signup", userHandler.SignUp, nil},
		{http.MethodGet, "/users/confirm/:code", userHandler.Confirm, nil},
		{http.MethodPost, "/users/signin", userHandler.SignIn, nil},
		{http.MethodGet, "/users/findbyemail", userHandler.FindByEmail, guards(authn, middleware.RequireRole(domain.Staff...))},
		{http.MethodGet, "/users", userHandler.FindAll, guards(authn)},
		{http.MethodGet, "/users/:id", userHandler.FindByID, guards(authn)},
		{http.MethodPut, "/users/:id", userHandler.Update, guards(authn, middleware.RequireOwnerOrRole(domain.Staff...))},
		{http.MethodDelete, "/users/:id", userHandler.Delete, guards(authn, middleware.RequireRole(domain.Staff...))},
		{http.MethodPut, "/users/:id/role", userHandler.UpdateRole, guards(authn, middleware.RequireRole(domain.RoleSuper))},
	}
	for _, r := range routes {
		e.Add(r.method, r.path, r.handler, r.guards...)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

func guards(mw ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	return mw
}
