package router

import (
	"database/sql"
	"fmt"
	"net/http"

	"task-buddy/internal/adapters/prefs/lrustore"
	mem "task-buddy/internal/adapters/storage/memory"
	mg "task-buddy/internal/adapters/storage/mongodb"
	pg "task-buddy/internal/adapters/storage/postgres"
	"task-buddy/internal/config"
	_ "task-buddy/internal/docs"
	"task-buddy/internal/domain/catalog"
	"task-buddy/internal/domain/engagement"
	"task-buddy/internal/domain/inventory"
	"task-buddy/internal/domain/pets"
	"task-buddy/internal/domain/preferences"
	"task-buddy/internal/domain/tasks"
	"task-buddy/internal/middleware"
	"task-buddy/internal/platform/logger"
	"task-buddy/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // nil = modo dev (X-Debug-User-ID)

	// Backend: DB (Postgres) si viene, si no Mongo, si no in-memory.
	DB    *sql.DB
	Mongo *mongo.Database

	// nil = config.Default()
	Config *config.Config

	// nil = catálogo embebido
	Catalog *catalog.Catalog

	Logger logger.Logger
}

type repos struct {
	tasks     tasks.Repository
	pets      pets.Repository
	inventory inventory.Repository
}

func selectRepos(opts Options) repos {
	switch {
	case opts.DB != nil:
		return repos{
			tasks:     pg.NewTasksRepo(opts.DB),
			pets:      pg.NewPetsRepo(opts.DB),
			inventory: pg.NewInventoryRepo(opts.DB),
		}
	case opts.Mongo != nil:
		return repos{
			tasks:     mg.NewTasksRepo(opts.Mongo),
			pets:      mg.NewPetsRepo(opts.Mongo),
			inventory: mg.NewInventoryRepo(opts.Mongo),
		}
	default:
		return repos{
			tasks:     mem.NewTaskRepo(),
			pets:      mem.NewPetRepo(),
			inventory: mem.NewInventoryRepo(),
		}
	}
}

// Services son los services de dominio ya cableados; los usan el router y el comando seed.
type Services struct {
	Catalog     *catalog.Catalog
	Tasks       *tasks.Service
	Pets        *pets.Service
	Inventory   *inventory.Service
	Engagement  *engagement.Service
	Preferences *preferences.Service
}

func NewServices(opts Options) (*Services, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	rp := selectRepos(opts)

	cacheSize := cfg.Prefs.CacheSize
	if cacheSize <= 0 {
		cacheSize = config.Default().Prefs.CacheSize
	}
	prefStore, err := lrustore.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("router: preferences store: %w", err)
	}

	// inventory es a la vez Rewarder de tasks y Pantry de pets.
	inventorySvc := inventory.NewService(rp.inventory, cat, cfg.Game.StartingCoins, log)
	tasksSvc := tasks.NewService(rp.tasks, inventorySvc, cfg.Game.RewardCoins, log)
	petsSvc := pets.NewService(rp.pets, inventorySvc, cat, pets.Progression{
		PlayExperience: cfg.Game.PlayExperience,
		PlayHappiness:  cfg.Game.PlayHappiness,
	}, log)

	return &Services{
		Catalog:     cat,
		Tasks:       tasksSvc,
		Pets:        petsSvc,
		Inventory:   inventorySvc,
		Engagement:  engagement.NewService(tasksSvc, loc),
		Preferences: preferences.NewService(prefStore, cat, inventorySvc, petsSvc),
	}, nil
}

func NewRouter(opts Options) (http.Handler, error) {
	svcs, err := NewServices(opts)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// AuthContext antes que RequestLog para que el log lleve user_id.
	r.Use(middleware.AuthContext(opts.AuthVerifier, log))
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	tasks.RegisterRoutes(r, svcs.Tasks)
	pets.RegisterRoutes(r, svcs.Pets)
	inventory.RegisterRoutes(r, svcs.Inventory)
	catalog.RegisterRoutes(r, svcs.Catalog)
	engagement.RegisterRoutes(r, svcs.Engagement)
	preferences.RegisterRoutes(r, svcs.Preferences)

	return r, nil
}
