package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/warehouse-qr-system/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/warehouse-qr-system/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and their
// middleware.  Unauthenticated operations live under /api/auth, while the
// protected /api/me endpoint requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Create a route group under the /api/auth prefix for operations that do
	// not require an existing session (register, login, refresh).  Each of
	// these handlers is responsible for generating or exchanging tokens.
	g := e.Group("/api/auth")
	// Register a POST endpoint to handle user registration at /api/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /api/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to refresh access tokens at /api/auth/refresh. This rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Register a POST endpoint to issue a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication.  The handler accepts a JSON
	// body containing a `refresh_token` (or an Authorization header to revoke
	// all sessions) and invalidates the matching tokens.
	g.POST("/logout", a.Logout)

	// Create another group for routes that require a valid access token.
	auth := e.Group("/api", middleware.JWTAuth(jwtSecret))
	// Register a GET endpoint at /api/me that returns the authenticated user's information.
	auth.GET("/me", a.Me)
}

// RegisterWarehouse registers the inventory endpoints under /api.  Every
// route requires a valid JWT; the role middleware splits them into routes
// any staff member may call and routes reserved for administrators.  The
// cache and limit middlewares come pre-built from main so the router stays
// free of Redis plumbing.
func RegisterWarehouse(e *echo.Echo, area *handler.AreaHandler, slot *handler.SlotHandler, product *handler.ProductHandler, setup *handler.SetupHandler, jwtSecret string, cache, limit echo.MiddlewareFunc) {
	// Attach middlewares at group construction time for clarity.
	staff := e.Group(
		"/api",
		limit,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "EMPLOYEE"),
	)

	// ---- Browse ----
	// Catalog reads go through the short-TTL Redis cache; slot listings are
	// served straight from the database because occupancy changes on every
	// store and retrieve.
	staff.GET("/areas", area.GetAreas, cache)
	staff.GET("/slots", slot.GetSlots)
	staff.GET("/slots/empty", slot.GetEmptySlots)
	staff.GET("/products", product.GetProducts, cache)
	staff.GET("/products/:id", product.GetProduct, cache)
	staff.POST("/products/search", product.SearchProduct)

	// ---- Allocation ----
	staff.POST("/auto-store", product.AutoStore)
	staff.POST("/allocate-custom", product.AllocateCustom)
	staff.POST("/retrieve", product.Retrieve)
	staff.DELETE("/products/:id", product.DeleteProduct)

	admin := e.Group(
		"/api",
		limit,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Areas ----
	admin.POST("/area", area.CreateArea)
	admin.PUT("/areas/:id", area.UpdateArea)
	admin.DELETE("/areas/:id", area.DeleteArea)

	// ---- Slots ----
	admin.POST("/slot", slot.CreateSlot)
	admin.POST("/slots/bulk", slot.CreateSlotsBulk)
	admin.DELETE("/slots/:id", slot.DeleteSlot)

	// ---- Provisioning ----
	admin.POST("/setup-users", setup.SetupUsers)
	admin.POST("/setup-slots", setup.SetupSlots)
	admin.POST("/cleanup-slots", setup.CleanupSlots)
}
