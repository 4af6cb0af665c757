package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/itzwish/ffa-downloader/internal/config"
	"github.com/itzwish/ffa-downloader/internal/history"
	"github.com/itzwish/ffa-downloader/internal/jobs"
	"github.com/itzwish/ffa-downloader/internal/store"
	"github.com/itzwish/ffa-downloader/internal/ytdlp"
)

// App definition
type App struct {
	config    *config.Config
	logger    *slog.Logger
	store     store.Store
	manager   *jobs.Manager
	inspector Inspector
	recorder  *history.Recorder
	janitor   *jobs.Janitor
	version   string
}

// Setup initializes the app with the given version
func Setup(version string) *App {
	return &App{
		config:  config.Load(),
		version: version,
	}
}

// Init wires every component and returns the configured router.
func (a *App) Init() (*gin.Engine, error) {
	a.logger = a.createLogger()

	if err := os.MkdirAll(a.config.TempDir, 0o755); err != nil {
		return nil, err
	}

	recorder, err := history.Open(a.config.HistoryDBPath)
	if err != nil {
		return nil, err
	}
	a.recorder = recorder

	a.store = store.NewMemoryStore()
	client := ytdlp.NewClient(a.config.TempDir, a.config.CookiesPath, a.logger)
	if a.inspector == nil {
		a.inspector = client
	}
	if a.manager == nil {
		a.manager = jobs.NewManager(a.store, client, a.recorder, a.logger)
	}
	a.janitor = jobs.NewJanitor(a.config.TempDir, a.config.CleanupInterval, a.config.MaxFileAge, a.logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(a.corsMiddleware())

	api := r.Group("/api")
	api.Use(a.rateLimitMiddleware())
	api.POST("/info", a.infoHandler)
	api.POST("/download/start", a.startDownloadHandler)
	api.GET("/download/status/:id", a.downloadStatusHandler)
	api.GET("/download/file/:id", a.downloadFileHandler)
	api.DELETE("/download/:id", a.deleteDownloadHandler)
	api.GET("/health", a.healthHandler)
	api.GET("/stats", a.statsHandler)

	r.GET("/version", func(c *gin.Context) {
		json := []byte(`{"version": "` + a.version + `" }`)
		c.Data(http.StatusOK, gin.MIMEJSON, json)
	})

	// Browser UI, when bundled next to the binary.
	if _, err := os.Stat("web/public"); err == nil {
		r.Static("/app", "./web/public")
	}

	return r, nil
}

// Run main app
func (a *App) Run() error {
	r, err := a.Init()
	if err != nil {
		return err
	}
	defer func() {
		if err := a.recorder.Close(); err != nil {
			a.logger.Error("closing history db", "err", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.janitor.Start(ctx)

	a.logger.Info("server started", "port", a.config.Port, "version", a.version)
	return r.Run(a.config.Port)
}
