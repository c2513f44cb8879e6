package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/flight-seat-reservation/internal/handler"    // import the handlers that implement business logic
    "github.com/iliyamo/flight-seat-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // The health endpoint can be used by load balancers or monitoring
    // systems to verify that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware. Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    // Operations that do not require an existing session: register,
    // login and the two refresh flavours.
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Refresh rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // RefreshAccess issues a new access token without rotating.
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout does not require JWT authentication; the handler accepts a
    // refresh token in the body or a bearer token in the header.
    g.POST("/logout", a.Logout)

    // Routes that require a valid access token.
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
    auth.GET("/me", a.Me)

    // Same logout handler at the top level so clients can call either
    // /v1/auth/logout or /v1/logout.
    e.POST("/v1/logout", a.Logout)
}

// RegisterFlights registers the public flight catalogue endpoints.
// These routes do not apply JWT or role middleware so guests can browse
// flights and availability before registering.
func RegisterFlights(e *echo.Echo, f *handler.FlightHandler) {
    // Search flights between two airports, optionally by departure day.
    e.GET("/v1/flights", f.Search)
    // Flight details by id.
    e.GET("/v1/flights/:id", f.GetFlight)
    // Seat availability snapshot used when choosing seats: zones with
    // pricing and remaining counts plus all booked seat codes.
    e.GET("/v1/flights/:id/booking-info", f.GetBookingInfo)
    // Airport lookup by name substring or IATA code.
    e.GET("/v1/airports", f.ListAirports)
}

// RegisterBookings registers booking and seat-watch endpoints. All of
// them require an authenticated user; both roles may book seats.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, s *handler.SubscribeHandler, jwtSecret string) {
    g := e.Group("/v1")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))

    g.POST("/bookings", b.CreateBooking)
    g.GET("/bookings", b.ListBookings)
    g.GET("/bookings/:id", b.GetBooking)
    g.DELETE("/bookings/:id", b.DeleteBooking)

    // Long-poll seat watch: parks the request until the flight can seat
    // the caller, then answers 204.
    g.POST("/flights/:id/subscribe", s.Subscribe)
}

// RegisterAdmin registers catalogue management endpoints restricted to
// the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("ADMIN"))

    g.POST("/airports", a.CreateAirport)
    g.POST("/aircraft-types", a.CreateAircraftType)
    g.POST("/flights", a.CreateFlight)
}
