package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/middleware"
	"github.com/tastebook/tastebook/internal/utils"
	"github.com/tastebook/tastebook/internal/utils/ratelimit"
)

// SetupRoutes configures the routes for the application.
// It creates a router hierarchy with middleware and grouped routes
// according to functionality.
//
// The configured routes include:
// - Health check (unprotected)
// - Authentication endpoints (register, login, logout, account management)
// - Password reset endpoints (forgot password, reset with token)
// - Recipe endpoints (listing, search, CRUD, photo upload)
// - Like endpoints (like, unlike, top-liked, liked-by-me)
//
// Credential endpoints are rate limited per client, and protected routes
// require a valid session token.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	// Custom CORS middleware applied to all routes so headers are set
	// consistently, including on error responses
	r.Use(corsMiddleware(s.Config.CORS.AllowedOrigins))

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery())
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}

	// Per-client limiter for credential endpoints
	limitCredentials := middleware.RateLimit(s.limiterStoreFor())
	requireAuth := middleware.JWTAuth(s.authProviders.JWTService, s.repos.userRepo)

	// Health check (unprotected)
	r.Get(constants.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		if err := s.Db.HealthCheck(r.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			utils.Error(w, http.StatusServiceUnavailable, "service_unavailable", "Service is not healthy", nil)
			return
		}

		utils.JSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"version": s.Config.App.Version,
		})
	})

	// Uploaded recipe photos
	uploadDir := s.Config.Uploads.Dir
	if uploadDir == "" {
		uploadDir = constants.DefaultUploadDir
	}
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	// API routes
	r.Route(constants.APIBasePath, func(r chi.Router) {
		// Authentication routes
		r.Route("/auth", func(r chi.Router) {
			// Public credential endpoints, rate limited per client
			r.Group(func(r chi.Router) {
				r.Use(limitCredentials)

				r.Post("/register", s.Handlers.AuthHandler.Register)
				r.Post("/login", s.Handlers.AuthHandler.Login)
				r.Post("/forgotpassword", s.Handlers.PasswordResetHandler.ForgotPassword)
				r.Put("/resetpassword/{"+constants.ParamResetToken+"}", s.Handlers.PasswordResetHandler.ResetPassword)
			})

			// Protected account endpoints
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)

				r.Post("/logout", s.Handlers.AuthHandler.Logout)
				r.Get("/me", s.Handlers.AuthHandler.Me)
				r.Put("/updatedetails", s.Handlers.AuthHandler.UpdateDetails)
				r.Put("/updatepassword", s.Handlers.AuthHandler.UpdatePassword)
			})
		})

		// Recipe routes
		r.Route("/recipes", func(r chi.Router) {
			// Public browsing endpoints
			r.Group(func(r chi.Router) {
				r.Get("/", s.Handlers.RecipeHandler.List)
				r.Get("/new", s.Handlers.RecipeHandler.Newest)
				r.Get("/topliked", s.Handlers.LikeHandler.TopLiked)
				r.Get("/{"+constants.ParamRecipeID+"}", s.Handlers.RecipeHandler.Get)
			})

			// Protected recipe endpoints. These are registered per method
			// rather than via a nested Route: mounting a subrouter at
			// /{recipeID} would capture every method at that node and make
			// the public GET above unreachable.
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)

				r.Post("/", s.Handlers.RecipeHandler.Create)
				r.Get("/mine", s.Handlers.RecipeHandler.MyRecipes)
				r.Get("/liked", s.Handlers.LikeHandler.LikedRecipes)

				recipePath := "/{" + constants.ParamRecipeID + "}"
				r.Put(recipePath, s.Handlers.RecipeHandler.Update)
				r.Delete(recipePath, s.Handlers.RecipeHandler.Delete)
				r.Put(recipePath+"/photo", s.Handlers.RecipeHandler.UploadPhoto)
				r.Put(recipePath+"/like", s.Handlers.LikeHandler.Like)
				r.Put(recipePath+"/unlike", s.Handlers.LikeHandler.Unlike)
			})
		})
	})

	s.router = r
}

// limiterStoreFor lazily creates the per-client limiter store from the
// configured rate, falling back to defaults when unset.
func (s *Server) limiterStoreFor() *ratelimit.Store {
	if s.limiterStore != nil {
		return s.limiterStore
	}

	rate := ratelimit.Rate{
		RequestsPerSecond: s.Config.RateLimit.RequestsPerSecond,
		Burst:             s.Config.RateLimit.Burst,
	}
	if rate.RequestsPerSecond <= 0 {
		rate.RequestsPerSecond = constants.DefaultRateLimitPerSecond
	}
	if rate.Burst <= 0 {
		rate.Burst = constants.DefaultRateLimitBurst
	}

	s.limiterStore = ratelimit.NewStore(rate, constants.DefaultRateLimitCleanupInterval)
	return s.limiterStore
}

// corsMiddleware creates a CORS middleware for the configured allowed
// origins. It adds CORS headers to matching responses and answers OPTIONS
// preflight requests directly.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")

					if r.Method != http.MethodOptions {
						next.ServeHTTP(w, r)
						return
					}

					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")
					w.Header().Set("Access-Control-Max-Age", "300")
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			// Origin not allowed: continue without CORS headers
			next.ServeHTTP(w, r)
		})
	}
}
