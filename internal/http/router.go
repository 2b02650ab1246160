package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GobLyne/ECommerce/internal/auth"
	"github.com/GobLyne/ECommerce/pkg/metrics"
)

// RouterConfig bundles the handlers and the token manager the router needs.
type RouterConfig struct {
	Tokens   *auth.TokenManager
	Products *ProductHandler
	Carts    *CartHandler
	Auth     *AuthHandler
	Chatbot  *ChatbotHandler
	Checkout *CheckoutHandler

	RequestTimeout time.Duration
}

// NewRouter wires the full HTTP surface: catalog, cart, auth, chatbot,
// checkout, health and metrics.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(CORSMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	requireAuth := AuthMiddleware(cfg.Tokens)
	optionalAuth := OptionalAuthMiddleware(cfg.Tokens)

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Products.List)
			r.Post("/", cfg.Products.Create)
			r.Get("/{id}", cfg.Products.Get)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", cfg.Carts.Get)
			r.Post("/add", cfg.Carts.Add)
			r.Post("/remove", cfg.Carts.Remove)
			r.Post("/update", cfg.Carts.Update)
			r.Delete("/clear", cfg.Carts.Clear)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.Auth.Register)
			r.Post("/login", cfg.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/user", cfg.Auth.Me)
				r.Put("/update-profile", cfg.Auth.UpdateProfile)
			})
		})

		r.Route("/chatbot", func(r chi.Router) {
			r.Use(optionalAuth)
			r.Post("/chat", cfg.Chatbot.Chat)
			r.Get("/suggestions", cfg.Chatbot.Suggestions)
			r.Post("/search-products", cfg.Chatbot.SearchProducts)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/checkout", cfg.Checkout.Checkout)
			r.Get("/orders", cfg.Checkout.Orders)
		})
	})

	return r
}
