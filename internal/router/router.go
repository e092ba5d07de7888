package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studysync/backend/internal/handler"
	"studysync/backend/internal/middleware"
	"studysync/backend/internal/service"
)

type Handlers struct {
	Notes         *handler.NoteHandler
	Flashcards    *handler.FlashcardHandler
	Todos         *handler.TodoHandler
	Projects      *handler.ProjectHandler
	Schedules     *handler.ScheduleHandler
	StudySessions *handler.StudySessionHandler
	NewsFeed      *handler.NewsFeedHandler
	Users         *handler.UserHandler
	Calendar      *handler.CalendarHandler
	Timer         *handler.TimerHandler
	AI            *handler.AIHandler
	Tools         *handler.ToolsHandler
	Email         *handler.EmailHandler
}

type Options struct {
	CORSOrigins   []string
	DefaultUserID int64
	UploadsDir    string
	// MaxUploadBytes bounds multipart bodies held in memory.
	MaxUploadBytes int64
}

func New(tokens middleware.TokenParser, h Handlers, opts Options) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(opts.CORSOrigins))
	if opts.MaxUploadBytes > 0 {
		engine.MaxMultipartMemory = opts.MaxUploadBytes
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.Static(service.UploadsURLPrefix, opts.UploadsDir)

	api := engine.Group("/api")
	api.Use(middleware.Identity(tokens, opts.DefaultUserID))

	api.POST("/users", h.Users.Create)
	api.GET("/me", h.Users.Me)

	h.Notes.Register(api.Group("/notes"))
	h.Flashcards.Register(api.Group("/flashcards"))
	h.Todos.Register(api.Group("/todos"))
	h.Projects.Register(api.Group("/projects"))

	schedules := api.Group("/schedules")
	schedules.GET("/export.ics", h.Calendar.ExportICS)
	h.Schedules.Register(schedules)
	api.GET("/calendar-events", h.Calendar.Events)

	sessions := api.Group("/study-sessions")
	sessions.GET("", h.StudySessions.List)
	sessions.POST("", h.StudySessions.Create)
	sessions.GET("/stats", h.StudySessions.Stats)

	news := api.Group("/news-feed")
	news.GET("", h.NewsFeed.List)
	news.POST("", h.NewsFeed.Create)
	news.POST("/import", h.NewsFeed.Import)
	news.PUT("/:id", h.NewsFeed.Update)
	news.DELETE("/:id", h.NewsFeed.Delete)
	news.POST("/:id/like", h.NewsFeed.Like)

	timer := api.Group("/timer")
	timer.GET("", h.Timer.Get)
	timer.POST("/start", h.Timer.Start)
	timer.POST("/pause", h.Timer.Pause)
	timer.POST("/reset", h.Timer.Reset)
	timer.POST("/mode", h.Timer.SwitchMode)
	timer.PUT("/subject", h.Timer.SetSubject)
	timer.PUT("/settings", h.Timer.UpdateSettings)

	api.POST("/chat", h.AI.Chat)
	assistant := api.Group("/ai")
	assistant.POST("/explain", h.AI.Explain)
	assistant.POST("/quiz", h.AI.Quiz)
	assistant.POST("/feedback", h.AI.Feedback)
	assistant.POST("/sentiment", h.AI.Sentiment)
	assistant.POST("/analyze-image", h.AI.AnalyzeImage)
	assistant.POST("/analyze-video", h.AI.AnalyzeVideo)
	assistant.POST("/generate-image", h.AI.GenerateImage)

	api.POST("/upload", h.Tools.Upload)
	api.POST("/convert-document", h.Tools.Convert)
	api.POST("/scan-document", h.Tools.Scan)
	api.POST("/generate-qr", h.Tools.GenerateQR)
	api.GET("/files", h.Tools.Files)
	api.GET("/download/:filename", h.Tools.Download)

	api.GET("/email-templates", h.Email.Templates)
	api.POST("/email-templates/:id/render", h.Email.Render)
	api.POST("/email-templates/:id/send", h.Email.Send)

	return engine
}
