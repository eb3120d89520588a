package router

import (
	"net/http"

	_ "doggy-daycare/docs"
	sessionstore "doggy-daycare/internal/adapters/auth/sessions"
	"doggy-daycare/internal/adapters/capabilities/roles"
	"doggy-daycare/internal/adapters/ratelimit"
	mem "doggy-daycare/internal/adapters/storage/memory"
	"doggy-daycare/internal/adapters/storage/sqlstore"
	"doggy-daycare/internal/config"
	"doggy-daycare/internal/domain/attendance"
	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/sessions"
	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/events"
	"doggy-daycare/internal/middleware"
	"doggy-daycare/internal/platform/logger"
	"doggy-daycare/internal/platform/metrics"
	"doggy-daycare/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config *config.Config // nil = config.Default()
	Logger zerolog.Logger

	// Opcional: si viene, usa SQL. Si no, in-memory.
	DB *sqlstore.DB

	// Opcional: sesiones y rate limit compartidos entre instancias.
	Redis redis.Cmdable
}

// App agrupa el handler HTTP con los servicios que cmd/api necesita fuera del router
// (job de no-show y datos de dev).
type App struct {
	Handler     http.Handler
	Users       *users.Service
	Dogs        *dogs.Service
	Bookings    *bookings.Service
	BookingRepo bookings.Repository
	Bus         *events.Bus
}

func NewRouter(opts Options) http.Handler {
	return Build(opts).Handler
}

func Build(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	loc := cfg.App.Location()

	var (
		userRepo    users.Repository
		dogRepo     dogs.Repository
		bookingRepo bookings.Repository
	)
	if opts.DB != nil {
		userRepo = sqlstore.NewUsersRepo(opts.DB)
		dogRepo = sqlstore.NewDogsRepo(opts.DB)
		bookingRepo = sqlstore.NewBookingsRepo(opts.DB)
	} else {
		userRepo = mem.NewUserRepo()
		dogRepo = mem.NewDogRepo()
		bookingRepo = mem.NewBookingRepo()
	}

	bus := events.NewBus()
	subscribeBookingEvents(bus, logger.Component(log, "events"))

	// Services por módulo
	usersSvc := users.NewService(userRepo).WithBcryptCost(cfg.Auth.BcryptCost)
	dogsSvc := dogs.NewService(dogRepo, usersSvc)
	bookingsSvc := bookings.NewService(bookingRepo, dogsSvc, usersSvc).
		WithEvents(bus).
		WithLogger(logger.Component(log, "bookings")).
		WithLocation(loc)
	attendanceSvc := attendance.NewService(attendance.LocalSource{
		Bookings: bookingsSvc,
		Users:    usersSvc,
		Dogs:     dogsSvc,
	}, loc)

	var store auth.SessionStore = sessionstore.NewMemoryStore()
	if opts.Redis != nil {
		store = sessionstore.NewRedisStore(opts.Redis)
	}
	sessionsSvc := sessions.NewService(usersSvc, store, cfg.Auth.SessionTTL)

	// Sin auth: dev mode, todo permitido (headers X-Debug-* opcionales).
	var (
		verifier auth.AuthVerifier
		authz    *middleware.Authorizer
		resolver = roles.AllowAll()
	)
	if cfg.Auth.Enabled {
		verifier = sessionsSvc
		resolver = roles.NewResolver()
		authz = middleware.NewAuthorizer(resolver)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLogger(logger.Component(log, "http")))
	r.Use(middleware.CORS(cfg.HTTP.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		r.Handle("/metrics", metrics.Handler())
	}
	if cfg.Monitoring.SwaggerEnabled {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.AuthContext(verifier))
		if cfg.RateLimit.Enabled {
			api.Use(middleware.RateLimit(newLimiter(cfg.RateLimit, opts.Redis), logger.Component(log, "ratelimit")))
		}

		// Rutas por módulo
		sessions.RegisterRoutes(api, sessionsSvc, resolver)
		users.RegisterRoutes(api, usersSvc, authz)
		dogs.RegisterRoutes(api, dogsSvc, authz)
		bookings.RegisterRoutes(api, bookingsSvc, authz)
		attendance.RegisterRoutes(api, attendanceSvc, authz)
	})

	return &App{
		Handler:     r,
		Users:       usersSvc,
		Dogs:        dogsSvc,
		Bookings:    bookingsSvc,
		BookingRepo: bookingRepo,
		Bus:         bus,
	}
}

// newLimiter usa redis (ventana fija compartida) si está configurado; si no, token bucket local.
func newLimiter(cfg config.RateLimitConfig, rdb redis.Cmdable) middleware.Limiter {
	if rdb != nil {
		return ratelimit.NewRedis(rdb, cfg.Limit, cfg.Window)
	}
	return ratelimit.NewMemory(cfg.RPS, cfg.Burst)
}

func subscribeBookingEvents(bus *events.Bus, log zerolog.Logger) {
	for _, t := range events.BookingTypes {
		bus.Subscribe(t, func(e *events.Event) error {
			metrics.IncBookingEvent(e.Type)

			p, err := events.Decode[events.BookingPayload](e)
			if err != nil {
				log.Warn().Err(err).Str("event", e.Type).Msg("undecodable booking event")
				return err
			}
			log.Debug().
				Str("event", e.Type).
				Str("booking_id", p.BookingID).
				Str("dog", p.DogName).
				Str("date", p.Date).
				Str("status", p.Status).
				Msg("booking event")
			return nil
		})
	}
}
