// Package app wires repositories, services and handlers into the HTTP
// engine.
package app

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"studysync/backend/internal/ai"
	"studysync/backend/internal/config"
	"studysync/backend/internal/feed"
	"studysync/backend/internal/handler"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/mail"
	"studysync/backend/internal/ocr"
	"studysync/backend/internal/repository"
	"studysync/backend/internal/router"
	"studysync/backend/internal/service"
	"studysync/backend/internal/timer"
	"studysync/backend/internal/validation"
)

const feedTimeout = 15 * time.Second

// Collaborators are the external systems the backend talks to. Nil fields
// are replaced by the offline defaults.
type Collaborators struct {
	Logger  logging.Logger
	AI      ai.Provider
	Mailer  mail.Mailer
	Feeds   service.FeedSource
	Scanner ocr.Scanner
	Clock   timer.Clock
}

type App struct {
	Engine *gin.Engine
	Timers *service.TimerService
}

func New(cfg config.Config, database *sqlx.DB, deps Collaborators) (*App, error) {
	validation.Setup()

	catalog, err := mail.LoadCatalog()
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewStdLogger(nil)
	}
	provider := deps.AI
	if provider == nil {
		provider = ai.NewNopProvider()
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = mail.NewConsoleMailer(os.Stdout, mail.Address{Name: cfg.MailFromName, Email: cfg.MailFrom})
	}
	scanner := deps.Scanner
	if scanner == nil {
		scanner = ocr.NewTesseract(cfg.Tesseract)
	}
	feeds := deps.Feeds
	if feeds == nil {
		feeds = feed.NewFetcher(feedTimeout)
	}
	maxUploadBytes := int64(cfg.MaxUploadMB) << 20

	userRepo := repository.NewUserRepository(database)
	noteRepo := repository.NewNoteRepository(database)
	flashcardRepo := repository.NewFlashcardRepository(database)
	todoRepo := repository.NewTodoRepository(database)
	projectRepo := repository.NewProjectRepository(database)
	scheduleRepo := repository.NewScheduleRepository(database)
	sessionRepo := repository.NewStudySessionRepository(database)
	newsFeedRepo := repository.NewNewsFeedRepository(database)
	timerSettingsRepo := repository.NewTimerSettingsRepository(database)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL())
	userService := service.NewUserService(userRepo, logger)
	noteService := service.NewNoteService(noteRepo, logger)
	flashcardService := service.NewFlashcardService(flashcardRepo, logger)
	todoService := service.NewTodoService(todoRepo, logger)
	projectService := service.NewProjectService(projectRepo, logger)
	scheduleService := service.NewScheduleService(scheduleRepo, logger)
	sessionService := service.NewStudySessionService(sessionRepo, logger)
	newsFeedService := service.NewNewsFeedService(newsFeedRepo, feeds, logger)
	timerService := service.NewTimerService(timerSettingsRepo, sessionRepo, logger, deps.Clock)
	fileService := service.NewFileService(cfg.UploadsDir, maxUploadBytes, scanner, logger)
	emailService := service.NewEmailService(catalog, mailer, logger)
	assistant := ai.NewAssistant(provider, logger, cfg.AITimeout())

	handlers := router.Handlers{
		Notes:         handler.NewNoteHandler(noteService),
		Flashcards:    handler.NewFlashcardHandler(flashcardService),
		Todos:         handler.NewTodoHandler(todoService),
		Projects:      handler.NewProjectHandler(projectService),
		Schedules:     handler.NewScheduleHandler(scheduleService),
		StudySessions: handler.NewStudySessionHandler(sessionService),
		NewsFeed:      handler.NewNewsFeedHandler(newsFeedService),
		Users:         handler.NewUserHandler(userService),
		Calendar:      handler.NewCalendarHandler(scheduleService),
		Timer:         handler.NewTimerHandler(timerService),
		AI:            handler.NewAIHandler(assistant, fileService, maxUploadBytes),
		Tools:         handler.NewToolsHandler(fileService),
		Email:         handler.NewEmailHandler(emailService),
	}

	engine := router.New(tokenService, handlers, router.Options{
		CORSOrigins:    cfg.CORSOrigins,
		DefaultUserID:  cfg.DefaultUserID,
		UploadsDir:     cfg.UploadsDir,
		MaxUploadBytes: maxUploadBytes,
	})
	return &App{Engine: engine, Timers: timerService}, nil
}

// Close stops every live timer.
func (a *App) Close() {
	a.Timers.Close()
}

