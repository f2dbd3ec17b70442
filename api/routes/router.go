package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/o-complex/storefront-backend/api/controllers"
	cartcontrollers "github.com/o-complex/storefront-backend/api/controllers/cart"
	ordercontrollers "github.com/o-complex/storefront-backend/api/controllers/orders"
	"github.com/o-complex/storefront-backend/api/middleware"
	cartsvc "github.com/o-complex/storefront-backend/internal/cart"
	"github.com/o-complex/storefront-backend/internal/catalog"
	"github.com/o-complex/storefront-backend/internal/checkout"
	"github.com/o-complex/storefront-backend/pkg/config"
	"github.com/o-complex/storefront-backend/pkg/db"
	"github.com/o-complex/storefront-backend/pkg/logger"
	"github.com/o-complex/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisP redis.Pinger,
	dbP db.Pinger,
	catalogService *catalog.Service,
	cartManager *cartsvc.Manager,
	checkoutWorkflow *checkout.Workflow,
	orderJournal ordercontrollers.RecentLister,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisP, dbP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Cart.SessionCookie, cfg.Cart.TTL, logg))

		r.Get("/products", controllers.Products(catalogService, logg))
		r.Get("/reviews", controllers.Reviews(catalogService, logg))
		r.Post("/order", controllers.Order(catalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(cartManager, logg))
			r.Post("/items", cartcontrollers.CartAddItem(cartManager, logg))
			r.Patch("/items/{productId}", cartcontrollers.CartSetQuantity(cartManager, logg))
			r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(cartManager, logg))
			r.Put("/phone", cartcontrollers.CartSetPhone(cartManager, logg))
		})

		r.Post("/checkout", ordercontrollers.Checkout(cartManager, checkoutWorkflow, logg))
		r.Get("/orders/recent", ordercontrollers.Recent(orderJournal, logg))
	})

	return r
}
