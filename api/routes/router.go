package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AliCapone21/nonkabob-guliston/api/controllers"
	"github.com/AliCapone21/nonkabob-guliston/api/middleware"
	"github.com/AliCapone21/nonkabob-guliston/internal/admin"
	"github.com/AliCapone21/nonkabob-guliston/internal/cart"
	"github.com/AliCapone21/nonkabob-guliston/internal/orders"
	"github.com/AliCapone21/nonkabob-guliston/internal/products"
	"github.com/AliCapone21/nonkabob-guliston/internal/realtime"
	"github.com/AliCapone21/nonkabob-guliston/internal/telegram"
	"github.com/AliCapone21/nonkabob-guliston/internal/users"
	"github.com/AliCapone21/nonkabob-guliston/pkg/config"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
	"github.com/AliCapone21/nonkabob-guliston/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpStats *metrics.HTTPMetrics,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	catalog *products.Catalog,
	carts *cart.Manager,
	resolver *telegram.Resolver,
	profileService users.Service,
	orderService orders.Service,
	board *admin.Board,
	authService *admin.AuthService,
	hub *realtime.Hub,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpStats),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.TelegramIdentity(resolver, logg),
				middleware.CartSession(carts),
			)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(logg))
				r.Delete("/", controllers.ClearCart(logg))
				r.Post("/items", controllers.AddCartItem(catalog, logg))
				r.Delete("/items/{productID}", controllers.RemoveCartItem(logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.GetProfile(profileService, logg))
				r.Put("/", controllers.SaveProfile(profileService, logg))
				r.Post("/contact", controllers.ShareContact(profileService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.SubmitOrder(orderService, logg))
				r.Get("/", controllers.OrderHistory(orderService, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", controllers.AdminLogin(authService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(authService, logg))

				r.Post("/logout", controllers.AdminLogout(authService, logg))

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.AdminListOrders(board, logg))
					r.Delete("/", controllers.AdminClearOrders(orderService, board, logg))
					r.Post("/{orderID}/status", controllers.AdminUpdateOrderStatus(board, logg))
					r.Handle("/ws", hub)
				})
			})
		})
	})

	return r
}
