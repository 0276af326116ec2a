package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/listoapp/listo-api/internal/api"
	"github.com/listoapp/listo-api/internal/api/middleware"
	"github.com/listoapp/listo-api/internal/config"
	"github.com/listoapp/listo-api/internal/jobs"
	"github.com/listoapp/listo-api/internal/maintenance"
	"github.com/listoapp/listo-api/internal/platform/cache"
	"github.com/listoapp/listo-api/internal/platform/mail"
	"github.com/listoapp/listo-api/internal/platform/postgres"
	"github.com/listoapp/listo-api/internal/reminder"
	"github.com/listoapp/listo-api/internal/schedule"
	"github.com/listoapp/listo-api/internal/scheduler"
	"github.com/listoapp/listo-api/internal/service"
	"github.com/listoapp/listo-api/internal/service/auth"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// jobQueueSize bounds the in-memory email job queue. Enqueue is
// non-blocking, so a full queue drops the email rather than stalling a
// request.
const jobQueueSize = 100

// application holds the wired dependency graph and the pieces that need an
// ordered shutdown.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	db        *sql.DB
	cache     cache.Cache
	redis     *cache.RedisCache
	queue     *jobs.Queue
	pool      *jobs.WorkerPool
	scheduler *scheduler.Scheduler
	router    http.Handler
}

// newApplication connects to the database, applies migrations and wires
// every store, service and handler together.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := postgres.MigrateUp(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		cache:  cache.NewNoopCache(),
	}

	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.redis = redisCache
		app.cache = redisCache
		logger.Info("Redis cache enabled", "addr", cfg.Redis.Addr)
	} else {
		logger.Info("Redis cache disabled, reads go straight to the database")
	}

	// Stores.
	userStore := postgres.NewUserStore(db)
	taskStore := postgres.NewTaskStore(db)
	listStore := postgres.NewTaskListStore(db)
	reminderStore := postgres.NewTaskReminderStore(db)
	prefsStore := postgres.NewPreferencesStore(db)
	resetStore := postgres.NewPasswordResetStore(db)

	// Platform.
	mailer := mail.NewSMTPMailer(cfg.Mail)
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	passwords := auth.NewBcryptVerifier()

	// Background email delivery.
	app.queue = jobs.NewQueue(jobQueueSize, logger)
	app.pool = jobs.NewWorkerPool(app.queue, jobs.DefaultWorkerPoolConfig(), logger)

	// Services.
	userService := service.NewUserService(
		userStore, passwords, passwords, app.queue, mailer, app.cache, db, logger)
	taskService := service.NewTaskService(taskStore, listStore, app.cache, logger)
	listService := service.NewTaskListService(listStore, app.cache, logger)
	prefsService := service.NewPreferencesService(prefsStore, userStore, logger)
	resetService := service.NewPasswordResetService(
		userStore, resetStore, passwords, app.queue, mailer, db, logger)

	// Reminder engines and the business-hours gate.
	globalReminders := reminder.NewGlobalService(prefsStore, userStore, taskStore, mailer)
	taskReminders := reminder.NewTaskReminderService(reminderStore, taskStore, userStore, mailer)
	scheduleService := schedule.NewService(cfg.Schedule, cfg.Server.Profile, logger)
	maintenanceService := maintenance.NewService(reminderStore, resetStore, app.cache, cfg.Maintenance)

	if err := app.setupScheduler(globalReminders, taskReminders, scheduleService, maintenanceService); err != nil {
		return nil, err
	}

	// HTTP surface.
	handlers := api.Handlers{
		Auth:        api.NewAuthHandler(userService, resetService, jwtService),
		Users:       api.NewUserHandler(userService),
		Tasks:       api.NewTaskHandler(taskService),
		Lists:       api.NewTaskListHandler(listService),
		Reminders:   api.NewReminderHandler(taskService, taskReminders),
		Preferences: api.NewPreferencesHandler(prefsService),
		Status:      api.NewStatusHandler(scheduleService),
	}
	authMw := middleware.NewAuthMiddleware(jwtService)
	app.router = api.NewRouter(handlers, authMw, scheduleService)

	return app, nil
}

// setupScheduler registers the periodic jobs. Reminder evaluation runs every
// minute so HH:MM preferences fire on the minute they name.
func (app *application) setupScheduler(
	globalReminders *reminder.GlobalService,
	taskReminders *reminder.TaskReminderService,
	scheduleService *schedule.Service,
	maintenanceService *maintenance.Service,
) error {
	loc, err := time.LoadLocation(app.config.Schedule.Timezone)
	if err != nil {
		app.logger.Warn("invalid scheduler timezone, falling back to UTC",
			"timezone", app.config.Schedule.Timezone, "error", err)
		loc = time.UTC
	}

	app.scheduler = scheduler.New(loc, app.logger.With("component", "scheduler"))

	jobSpecs := []struct {
		spec string
		name string
		fn   func(ctx context.Context) error
	}{
		{"* * * * *", "global_reminders", globalReminders.CheckAndSendReminders},
		{"* * * * *", "task_reminders", taskReminders.CheckReminders},
		{"@every 60s", "schedule_check", func(ctx context.Context) error {
			scheduleService.CheckSchedule()
			return nil
		}},
	}
	if app.config.Maintenance.Enabled {
		jobSpecs = append(jobSpecs, struct {
			spec string
			name string
			fn   func(ctx context.Context) error
		}{"0 2 * * *", "maintenance", maintenanceService.Run})
	}

	for _, j := range jobSpecs {
		if _, err := app.scheduler.AddJob(j.spec, j.name, j.fn); err != nil {
			return fmt.Errorf("failed to register %s job: %w", j.name, err)
		}
	}

	return nil
}

// start launches the background machinery. The HTTP server is started
// separately so tests can exercise the wired router directly.
func (app *application) start() {
	app.pool.Start()
	app.scheduler.Start()
}

// cleanup tears the application down in reverse dependency order: stop
// producing work, drain it, then close the connections underneath.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if app.queue != nil {
		app.queue.Close()
	}
	if app.pool != nil {
		app.pool.Stop()
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn("failed to close redis connection", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn("failed to close database connection", "error", err)
		}
	}
	app.logger.Info("Application shut down")
}

// setupDatabase opens the connection pool and verifies connectivity.
func setupDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return db, nil
}
