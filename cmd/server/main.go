package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	emailPkg "holidayreminder/internal/adapters/email"
	"holidayreminder/internal/adapters/holidayapi"
	web "holidayreminder/internal/adapters/http"
	"holidayreminder/internal/adapters/http/perf"
	"holidayreminder/internal/adapters/storage"
	sendlogStorePkg "holidayreminder/internal/adapters/storage/sendlog"
	"holidayreminder/internal/adapters/storage/statestore"
	"holidayreminder/internal/application/orchestrators"
	"holidayreminder/internal/config"
	"holidayreminder/internal/scheduler"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("startup_event", "event", "fatal", "error", err.Error())
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	setupLogger(cfg.Logging)
	slog.Info("startup_event", "event", "starting", "version", version, "addr", cfg.Server.Addr)

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Scheduler.Timezone, err)
	}
	clock := func() time.Time { return time.Now().In(loc) }

	// Send log database with WAL mode and busy timeout.
	dsn := cfg.Storage.SQLitePath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open send log database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("send log database unreachable: %w", err)
	}
	if err := storage.InitDB(db); err != nil {
		return fmt.Errorf("init send log database: %w", err)
	}
	sendLog := sendlogStorePkg.NewSQLiteStore(db)

	store, err := statestore.NewFileStore(cfg.Storage.StatePath, cfg.Storage.DefaultReceivers)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}

	fetcher := holidayapi.NewClient(cfg.HolidayAPI.BaseURL, time.Duration(cfg.HolidayAPI.TimeoutSecs)*time.Second)

	sender, transportInfo, err := buildSender(cfg.Email)
	if err != nil {
		return err
	}
	slog.Info("startup_event", "event", "email_sender_configured", "provider", cfg.Email.Provider, "transport", transportInfo)

	notifyDeps := orchestrators.NotifyDeps{
		Sender:      sender,
		SendLog:     sendLog,
		FromAddress: cfg.Email.Sender,
		ReplyTo:     cfg.Email.ReplyTo,
		GenerateID:  uuid.NewString,
		Now:         clock,
	}
	dailyDeps := orchestrators.DailyCheckDeps{
		Store:   store,
		Fetcher: fetcher,
		Notify:  notifyDeps,
	}

	// Initial data load; stale or empty data is tolerated, the daily job
	// retries.
	if len(store.Holidays()) == 0 {
		refreshDeps := orchestrators.RefreshDeps{Fetcher: fetcher, Store: store, Now: clock}
		if err := orchestrators.ExecuteRefreshHolidays(context.Background(), refreshDeps); err != nil {
			slog.Warn("startup_event", "event", "initial_refresh_failed", "error", err.Error())
		}
	}

	sched, err := scheduler.New(cfg.Scheduler.CronSpec, loc, func() {
		orchestrators.ExecuteDailyCheck(context.Background(), dailyDeps)
	})
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	collector := perf.NewCollector(perf.DefaultRingSize)

	mux, err := web.NewMux(web.Deps{
		Store:             store,
		SendLog:           sendLog,
		Fetcher:           fetcher,
		Sender:            sender,
		FromAddress:       cfg.Email.Sender,
		ReplyTo:           cfg.Email.ReplyTo,
		TransportInfo:     transportInfo,
		HolidayAPIURL:     fetcher.BaseURL(),
		Clock:             clock,
		GenerateID:        uuid.NewString,
		NextRun:           sched.NextRun,
		Metrics:           collector,
		AdminUser:         cfg.Dashboard.AdminUser,
		AdminPasswordHash: cfg.Dashboard.AdminPasswordHash,
		CSRFKey:           cfg.Dashboard.CSRFKey,
		TrustedOrigins:    []string{"localhost:8080", "127.0.0.1:8080"},
	})
	if err != nil {
		return fmt.Errorf("build http handler: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("startup_event", "event", "listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		slog.Info("shutdown_event", "event", "signal_received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("shutdown_event", "event", "stopped")
	return nil
}

// buildSender picks the delivery transport from the configuration.
func buildSender(cfg config.Email) (emailPkg.Sender, string, error) {
	switch cfg.Provider {
	case "smtp":
		timeout := time.Duration(cfg.TimeoutSecs) * time.Second
		username := cfg.SMTPUsername
		if username == "" {
			username = cfg.Sender
		}
		sender := emailPkg.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, username, cfg.SMTPPassword, timeout)
		return sender, fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort), nil
	case "resend":
		return emailPkg.NewResendSender(cfg.ResendAPIKey, cfg.Sender), "resend", nil
	case "noop":
		return emailPkg.NewNoopSender(), "noop", nil
	default:
		return nil, "", fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// setupLogger configures the process-wide structured logger.
func setupLogger(cfg config.Logging) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
