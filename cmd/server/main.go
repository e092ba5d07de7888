package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studysync/backend/internal/ai"
	"studysync/backend/internal/app"
	"studysync/backend/internal/config"
	"studysync/backend/internal/db"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/mail"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(log.Default(), cfg.RollbarToken, cfg.Env)
	if closer, ok := logger.(interface{ Close() }); ok {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database.DB, cfg.DBDriver); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	provider, err := ai.NewProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("configure ai provider: %v", err)
	}
	mailer, err := mail.New(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("configure mailer: %v", err)
	}

	application, err := app.New(cfg, database, app.Collaborators{
		Logger: logger,
		AI:     provider,
		Mailer: mailer,
	})
	if err != nil {
		log.Fatalf("build app: %v", err)
	}
	defer application.Close()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("backend listening on :%s (db=%s, ai=%s, mail=%s)",
			cfg.Port, cfg.DBDriver, provider.Name(), cfg.MailBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
