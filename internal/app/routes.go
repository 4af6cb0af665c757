package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/itzwish/ffa-downloader/internal/models"
	"github.com/itzwish/ffa-downloader/internal/ytdlp"
)

// Inspector fetches metadata for a media URL.
type Inspector interface {
	Inspect(ctx context.Context, url string) (*ytdlp.Info, error)
}

// POST /api/info
func (a *App) infoHandler(c *gin.Context) {
	var req models.InfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.URL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	info, err := a.inspector.Inspect(c.Request.Context(), req.URL)
	if err != nil {
		a.logger.Error("info lookup failed", "url", req.URL, "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":     info.Title,
		"duration":  info.Duration,
		"formats":   ytdlp.Negotiate(info.Formats),
		"thumbnail": info.Thumbnail,
		"uploader":  info.Uploader,
	})
}

// POST /api/download/start
func (a *App) startDownloadHandler(c *gin.Context) {
	var req models.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	id, err := a.manager.Start(req.URL, req.Format, req.Quality)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"downloadId": id,
		"message":    "Download started",
	})
}

// GET /api/download/status/:id
func (a *App) downloadStatusHandler(c *gin.Context) {
	view, err := a.manager.Status(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Download not found"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/download/file/:id
func (a *App) downloadFileHandler(c *gin.Context) {
	job, err := a.manager.ResolveFile(c.Param("id"))
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Download not found"})
		return
	case errors.Is(err, models.ErrNotReady):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Download not ready"})
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("download.%s", job.Format)
	contentType := "video/mp4"
	if job.Format == models.FormatMP3 {
		contentType = "audio/mpeg"
	}
	c.Header("Content-Type", contentType)
	c.FileAttachment(job.FilePath, filename)

	// The record goes right away; the file itself lingers briefly so the
	// transfer can drain.
	a.manager.FinishFile(job.ID)
}

// DELETE /api/download/:id
func (a *App) deleteDownloadHandler(c *gin.Context) {
	if err := a.manager.Cancel(c.Param("id")); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Download not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Download cancelled and cleaned up"})
}

// GET /api/health
func (a *App) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GET /api/stats
func (a *App) statsHandler(c *gin.Context) {
	stats, err := a.recorder.Stats(c.Request.Context())
	if err != nil {
		a.logger.Error("stats query failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
