package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-webfront/internal/download"
	"github.com/ytget/yt-webfront/internal/fetch"
	"github.com/ytget/yt-webfront/internal/model"
)

// Response bodies of the download endpoint
const (
	DownloadFailedMessage = "Download failed"
	ErrorPrefix           = "Error: "
	TokenHeader           = "X-Download-Token"
)

// Response is the JSON envelope of the /api endpoints
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// jobResponse is a journal entry as returned by GET /api/jobs/:token
type jobResponse struct {
	model.DownloadJob
	Active   bool `json:"active"`
	Finished bool `json:"finished"`
}

func newJobResponse(job model.DownloadJob) jobResponse {
	return jobResponse{
		DownloadJob: job,
		Active:      job.Status.IsActive(),
		Finished:    job.Status.IsFinished(),
	}
}

// infoRequest is the body of POST /api/video/info, JSON or form encoded
type infoRequest struct {
	URL string `json:"url" form:"url" binding:"required"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// handleDownload runs one download synchronously and streams the file back
func (s *Server) handleDownload(c *gin.Context) {
	url, ok := c.GetPostForm("url")
	if !ok {
		c.String(http.StatusBadRequest, ErrorPrefix+"missing url")
		return
	}

	// quality is optional; "format" is accepted as an alias
	quality := c.PostForm("quality")
	if quality == "" {
		quality = c.PostForm("format")
	}

	job, err := s.downloads.Download(c.Request.Context(), url, quality)
	if job != nil {
		c.Header(TokenHeader, job.Token)
	}
	if err != nil {
		var fe *download.FetchError
		switch {
		case errors.As(err, &fe):
			c.String(http.StatusInternalServerError, ErrorPrefix+"%s", fe.Error())
		case errors.Is(err, download.ErrNoOutput):
			c.String(http.StatusInternalServerError, DownloadFailedMessage)
		default:
			c.String(http.StatusInternalServerError, ErrorPrefix+"%s", err.Error())
		}
		return
	}

	c.FileAttachment(job.OutputPath, job.Filename)
}

func (s *Server) handleVideoInfo(c *gin.Context) {
	if s.inspector == nil {
		c.JSON(http.StatusNotImplemented, Response{Error: fetch.ErrInspectUnsupported.Error()})
		return
	}

	var req infoRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, Response{Error: "url is required"})
		return
	}

	info, err := s.inspector.Inspect(c.Request.Context(), strings.TrimSpace(req.URL))
	if errors.Is(err, fetch.ErrInspectUnsupported) {
		c.JSON(http.StatusNotImplemented, Response{Error: err.Error()})
		return
	}
	if err != nil {
		logrus.WithField("url", req.URL).WithError(err).Warn("Metadata lookup failed")
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{
		"url":   req.URL,
		"title": info.DisplayTitle(),
	}).Debug("Metadata returned")
	c.JSON(http.StatusOK, Response{Success: true, Data: info})
}

func (s *Server) handleJob(c *gin.Context) {
	job, ok := s.downloads.Job(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, Response{Error: "job not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: newJobResponse(job)})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"active_jobs": s.downloads.ActiveJobs(),
	})
}
