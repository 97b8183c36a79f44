package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"golang.org/x/sync/errgroup"

	"github.com/duskriver/rollcall/rollcall"
	"github.com/duskriver/rollcall/rollcall/clock"
	"github.com/duskriver/rollcall/rollcall/commands"
	"github.com/duskriver/rollcall/rollcall/components"
	"github.com/duskriver/rollcall/rollcall/database"
	"github.com/duskriver/rollcall/rollcall/database/repositories"
	rcdiscord "github.com/duskriver/rollcall/rollcall/discord"
	"github.com/duskriver/rollcall/rollcall/handlers"
	"github.com/duskriver/rollcall/rollcall/logger"
	"github.com/duskriver/rollcall/rollcall/scheduler"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := rollcall.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	customHandler := logger.NewHandler(cfg.Log.Level)
	if cfg.Log.File != "" {
		customHandler = customHandler.WithFile(cfg.Log.File)
	}
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting RollCall",
		slog.String("version", version),
		slog.String("commit", commit))

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		logger.LogError("Database connection failed", err,
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.GetPool().Ping(ctx); err != nil {
		logger.LogError("Database ping failed", err)
		os.Exit(-1)
	}
	if err := db.InitializeSchema(ctx); err != nil {
		logger.LogError("Failed to initialize database schema", err)
		os.Exit(-1)
	}
	logger.LogSystem("Database ready",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	b := rollcall.New(*cfg, version, commit)
	b.DB = db
	b.Clock = clock.New(cfg.Schedule.Timezone)
	b.Schedules = repositories.NewCachedScheduleRepository(repositories.NewScheduleRepository(db.BunDB()))
	b.Poster = rcdiscord.NewPoster(nil, cfg.Schedule.DisplayName)
	b.Engine = scheduler.NewEngine(b.Schedules, b.Poster, b.Clock)
	b.Sweeper = scheduler.NewRetentionSweeper(b.Schedules, b.Poster, b.Clock)
	b.Sweeper.RunHour = cfg.Schedule.RetentionHour
	b.Attendance = scheduler.NewAttendanceAggregator(b.Schedules)

	h := handler.New()

	h.Command("/version", commands.VersionHandler(b))
	h.Command("/attendance", handlers.WrapWithLogging("attendance", commands.AttendanceHandler(b)))

	h.Route("/schedule", func(h handler.Router) {
		h.Command("/setup", handlers.WrapWithLogging("schedule-setup", commands.ScheduleSetupHandler(b)))
		h.Command("/edit", handlers.WrapWithLogging("schedule-edit", commands.ScheduleEditHandler(b)))
		h.Command("/view", handlers.WrapWithLogging("schedule-view", commands.ScheduleViewHandler(b)))
		h.Command("/post", handlers.WrapWithLogging("schedule-post", commands.SchedulePostHandler(b)))
	})
	h.Autocomplete("/schedule/edit", commands.ScheduleDayAutocomplete(b))

	h.Route("/settings", func(h handler.Router) {
		h.Command("/show", handlers.WrapWithLogging("settings-show", commands.SettingsShowHandler(b)))
		h.Command("/posttime", handlers.WrapWithLogging("settings-posttime", commands.SettingsPostTimeHandler(b)))
		h.Command("/eventtime", handlers.WrapWithLogging("settings-eventtime", commands.SettingsEventTimeHandler(b)))
		h.Command("/channels", handlers.WrapWithLogging("settings-channels", commands.SettingsChannelsHandler(b)))
		h.Command("/reminders", handlers.WrapWithLogging("settings-reminders", commands.SettingsRemindersHandler(b)))
	})

	h.Component("/rsvp/{kind}", handlers.WrapComponentWithLogging("rsvp", components.RSVPHandler(b)))
	h.Component("/setup/next/{day}", handlers.WrapComponentWithLogging("setup-next", components.SetupNextHandler(b)))
	h.Modal("/setup/day/{day}", components.SetupDayModalHandler(b))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	b.Poster.SetClient(b.Client)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	gwCtx, gwCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gwCancel()
	if err = b.Client.OpenGateway(gwCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, runCtx := errgroup.WithContext(runCtx)
	g.Go(func() error { return b.Engine.Run(runCtx) })
	g.Go(func() error { return b.Sweeper.Run(runCtx) })

	logger.LogSystem("RollCall is running. Press CTRL-C to exit.")
	if err := g.Wait(); err != nil {
		slog.Error("Background worker failed",
			slog.String("type", "sched"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Shutting down...")
}
