package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/danglers/internal/api/rest"
	"github.com/fortuna/danglers/internal/api/websocket"
	"github.com/fortuna/danglers/internal/boxscore"
	"github.com/fortuna/danglers/internal/cache"
	"github.com/fortuna/danglers/internal/config"
	"github.com/fortuna/danglers/internal/logger"
	"github.com/fortuna/danglers/internal/metrics"
	"github.com/fortuna/danglers/internal/narrative"
	"github.com/fortuna/danglers/internal/notify"
	"github.com/fortuna/danglers/internal/publisher"
	"github.com/fortuna/danglers/internal/schedule"
	"github.com/fortuna/danglers/internal/scheduler"
	"github.com/fortuna/danglers/internal/service"
	"github.com/fortuna/danglers/internal/store"
	"github.com/rs/zerolog"
)

const (
	serviceName    = "danglers"
	serviceVersion = "1.0.0"
)

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info().Str("version", serviceVersion).Msgf("starting %s", serviceName)

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log = logger.New(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	checks := map[string]rest.HealthCheck{}
	m := metrics.New()

	// Schedule source: PostgreSQL when configured, the JSON file otherwise
	var source schedule.Source = schedule.NewFileSource(cfg.SchedulePath)
	if cfg.ScheduleDSN != "" {
		db, err := store.NewDatabase(ctx, cfg.ScheduleDSN, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to schedule database")
		}
		defer db.Close()

		if err := db.RunMigrations(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
		source = store.NewScheduleRepository(db)
		checks["database"] = db.HealthCheck
		log.Info().Msg("schedule served from database")
	}
	scheduleStore := schedule.NewStore(source, log)

	// Notification sinks
	wsServer := websocket.NewServer(cfg.WSPort, log)
	sinks := notify.Multi{wsServer}

	if cfg.DiscordToken != "" {
		discord, err := notify.NewDiscordSink(cfg.DiscordToken, cfg.DiscordChannelID)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create discord sink")
		}
		sinks = append(sinks, discord)
	} else {
		log.Warn().Msg("DISCORD_TOKEN not set, notifications are logged only")
		sinks = append(sinks, logSink(log))
	}

	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.Connect(ctx, cfg.RedisURL, 30, 2*time.Second, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisCache.Close()
		log.Info().Msg("connected to redis")

		sinks = append(sinks, publisher.NewRedisStreamPublisher(redisCache.Client(), publisher.DefaultStream))
		checks["redis"] = redisCache.HealthCheck
	}

	// Result document fetching
	var fetcher boxscore.Fetcher
	if cfg.FetchMode == config.FetchBrowser {
		browser := boxscore.NewBrowserFetcher(cfg.FetchTimeout, log)
		defer browser.Close()
		fetcher = browser
	} else {
		fetcher = boxscore.NewHTTPFetcher(cfg.FetchTimeout)
	}

	games := service.NewGameService(service.Options{
		Store:         scheduleStore,
		Fetcher:       fetcher,
		Parser:        boxscore.NewParser(cfg.TeamName, log),
		Generator:     narrative.NewGenerator(nil).WithTeam(cfg.TeamName),
		Sink:          sinks,
		ResultBaseURL: cfg.ResultBaseURL,
		Metrics:       m,
	}, log)

	sched, err := scheduler.New(scheduleStore, sinks, &scheduler.Config{
		Hour:     cfg.ReminderHour,
		Minute:   cfg.ReminderMinute,
		LeadDays: cfg.ReminderLeadDays,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	sched.WithMetrics(m)
	if redisCache != nil {
		sched.WithClaims(redisCache)
	}

	if cfg.RemindersEnabled {
		go sched.Start(ctx)
	} else {
		log.Warn().Msg("daily reminders disabled")
	}

	restServer := rest.NewServer(cfg.RestPort, rest.NewHandler(games, sched, checks), m, log)
	go func() {
		if err := restServer.Start(); err != nil {
			log.Error().Err(err).Msg("rest server error")
			cancel()
		}
	}()

	go func() {
		if err := wsServer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("websocket server error")
			cancel()
		}
	}()

	log.Info().
		Str("rest", "http://0.0.0.0:"+cfg.RestPort).
		Str("websocket", "ws://0.0.0.0:"+cfg.WSPort+"/ws/notifications").
		Msg("danglers started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("rest server shutdown error")
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("websocket server shutdown error")
	}

	log.Info().Msg("danglers stopped")
}

func logSink(log zerolog.Logger) notify.Sink {
	return notify.SinkFunc(func(ctx context.Context, n notify.Notification) error {
		log.Info().
			Str("id", n.ID).
			Str("kind", string(n.Kind)).
			Str("subject", n.Subject).
			Str("text", n.Text).
			Msg("notification")
		return nil
	})
}
