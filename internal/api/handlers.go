// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ZSC714725/framegrab/internal/ffmpeg"
	"github.com/ZSC714725/framegrab/internal/job"
	"github.com/ZSC714725/framegrab/internal/logger"
	"github.com/ZSC714725/framegrab/internal/media"
	"github.com/ZSC714725/framegrab/internal/preview"
	"github.com/ZSC714725/framegrab/internal/ready"
	"github.com/ZSC714725/framegrab/internal/timepoint"

	"github.com/gin-gonic/gin"
)

// Handler holds dependencies
type Handler struct {
	library  media.Library
	previews preview.Service
	jobs     job.Store
	ffmpeg   ffmpeg.FFmpeg
	ready    *ready.Signal
	logger   logger.Logger
	// base is the API prefix used to build frame URLs
	base string
}

// HandlerConfig wires a Handler
type HandlerConfig struct {
	Library  media.Library
	Previews preview.Service
	Jobs     job.Store
	FFmpeg   ffmpeg.FFmpeg
	Ready    *ready.Signal
	Logger   logger.Logger
}

// NewHandler creates API handler
func NewHandler(config HandlerConfig) *Handler {
	h := &Handler{
		library:  config.Library,
		previews: config.Previews,
		jobs:     config.Jobs,
		ffmpeg:   config.FFmpeg,
		ready:    config.Ready,
		logger:   config.Logger,
		base:     APIPrefix,
	}
	if h.ready == nil {
		h.ready = ready.New()
		h.ready.Set()
	}
	if h.logger == nil {
		h.logger = logger.Nop()
	}
	return h
}

func errResp(c *gin.Context, code int, msg, detail string) {
	c.JSON(code, ErrorResponse{Code: code, Message: msg, Detail: detail})
}

// writeError maps domain errors to HTTP responses
func writeError(c *gin.Context, err error) {
	var perr *timepoint.ParseError
	var rerr *timepoint.RangeError

	switch {
	case errors.As(err, &perr):
		errResp(c, http.StatusBadRequest, "Invalid time expression", err.Error())
	case errors.As(err, &rerr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: "Time points out of range",
			Detail:  err.Error(),
			Values:  rerr.Values,
		})
	case errors.Is(err, media.ErrNotFound):
		errResp(c, http.StatusNotFound, "Unknown media ID", err.Error())
	case errors.Is(err, job.ErrNotFound):
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
	case errors.Is(err, preview.ErrFrameNotFound):
		errResp(c, http.StatusNotFound, "Frame not found", err.Error())
	case errors.Is(err, media.ErrInvalidAddress):
		errResp(c, http.StatusBadRequest, "Invalid address", err.Error())
	case errors.Is(err, media.ErrProbe):
		errResp(c, http.StatusUnprocessableEntity, "Can't probe media", err.Error())
	case errors.Is(err, media.ErrTooLarge):
		errResp(c, http.StatusRequestEntityTooLarge, "Upload too large", err.Error())
	case errors.Is(err, job.ErrJobExists):
		errResp(c, http.StatusBadRequest, "Job exists", err.Error())
	case errors.Is(err, job.ErrInvalidID):
		errResp(c, http.StatusBadRequest, "Invalid job ID", err.Error())
	case errors.Is(err, job.ErrNoPoints), errors.Is(err, job.ErrTooManyPoints),
		errors.Is(err, job.ErrUnsupportedFormat), errors.Is(err, job.ErrUnknownMedia):
		errResp(c, http.StatusBadRequest, "Invalid config", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		errResp(c, http.StatusGatewayTimeout, "Timeout", err.Error())
	case errors.Is(err, context.Canceled):
		errResp(c, http.StatusServiceUnavailable, "Canceled", err.Error())
	default:
		errResp(c, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

// Ready GET /api/v1/ready
func (h *Handler) Ready(c *gin.Context) {
	if !h.ready.IsSet() {
		c.JSON(http.StatusServiceUnavailable, ReadyResponse{Ready: false})
		return
	}
	c.JSON(http.StatusOK, ReadyResponse{Ready: true})
}

// Skills GET /api/v1/skills
func (h *Handler) Skills(c *gin.Context) {
	c.JSON(http.StatusOK, skillsToAPI(h.ffmpeg.Skills()))
}

// ReloadSkills POST /api/v1/skills/reload
func (h *Handler) ReloadSkills(c *gin.Context) {
	if err := h.ffmpeg.ReloadSkills(c.Request.Context()); err != nil {
		errResp(c, http.StatusInternalServerError, "Reload failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, skillsToAPI(h.ffmpeg.Skills()))
}

// maxBound resolves the upper bound for validation: an explicit max wins,
// then the duration of the given media. nil means no range check.
func (h *Handler) maxBound(max *float64, mediaID string) (*float64, error) {
	if max != nil {
		return max, nil
	}
	if mediaID == "" {
		return nil, nil
	}
	m, err := h.library.Get(mediaID)
	if err != nil {
		return nil, err
	}
	d := m.Duration
	return &d, nil
}

func (h *Handler) parseExpression(expr string, max *float64, mediaID string) (timepoint.List, error) {
	bound, err := h.maxBound(max, mediaID)
	if err != nil {
		return nil, err
	}
	if bound == nil {
		return timepoint.Parse(expr)
	}
	return timepoint.ParseAndValidate(expr, *bound)
}

// ParseTimePoints POST /api/v1/timepoints/parse
func (h *Handler) ParseTimePoints(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	points, err := h.parseExpression(req.Expression, req.Max, req.MediaID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ParseResponse{Points: points, Count: len(points)})
}

// UpdateSelection POST /api/v1/selection
func (h *Handler) UpdateSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	sel := timepoint.NewSelection(req.Selection...)

	switch req.Op {
	case "add":
		points, err := h.parseExpression(req.Expression, req.Max, req.MediaID)
		if err != nil {
			writeError(c, err)
			return
		}
		sel = sel.Add(points...)
	case "remove":
		if req.Point == nil {
			errResp(c, http.StatusBadRequest, "Missing point", "remove needs a point")
			return
		}
		sel = sel.Remove(*req.Point)
	case "clear":
		sel = sel.Clear()
	default:
		errResp(c, http.StatusBadRequest, "Unknown op", "Known: add, remove, clear")
		return
	}

	c.JSON(http.StatusOK, SelectionResponse{Selection: sel.Points()})
}

// ListMedia GET /api/v1/media
func (h *Handler) ListMedia(c *gin.Context) {
	list := h.library.List()
	out := make([]Media, 0, len(list))
	for _, m := range list {
		out = append(out, mediaToAPI(m))
	}
	c.JSON(http.StatusOK, out)
}

// AddMedia POST /api/v1/media, either a multipart upload in "file" or a
// JSON body registering an address
func (h *Handler) AddMedia(c *gin.Context) {
	var (
		m   *media.Media
		err error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			errResp(c, http.StatusBadRequest, "Missing file", ferr.Error())
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			errResp(c, http.StatusBadRequest, "Unreadable file", ferr.Error())
			return
		}
		defer f.Close()

		name := c.PostForm("name")
		if name == "" {
			name = fh.Filename
		}
		m, err = h.library.Upload(c.Request.Context(), name, f)
	} else {
		var req RegisterMediaRequest
		if berr := c.ShouldBindJSON(&req); berr != nil {
			errResp(c, http.StatusBadRequest, "Invalid JSON", berr.Error())
			return
		}
		m, err = h.library.Register(c.Request.Context(), req.Name, req.Address)
	}

	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mediaToAPI(m))
}

// GetMedia GET /api/v1/media/:id
func (h *Handler) GetMedia(c *gin.Context) {
	m, err := h.library.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mediaToAPI(m))
}

// DeleteMedia DELETE /api/v1/media/:id
func (h *Handler) DeleteMedia(c *gin.Context) {
	if err := h.library.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, "OK")
}

// Frame GET /api/v1/media/:id/frame?t=
func (h *Handler) Frame(c *gin.Context) {
	points, err := timepoint.Parse(c.Query("t"))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(points) != 1 {
		errResp(c, http.StatusBadRequest, "Invalid time", "t must be a single time point")
		return
	}

	f, err := h.previews.Frame(c.Request.Context(), c.Param("id"), points[0])
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, f.ContentType, f.Data)
}

// Preview POST /api/v1/media/:id/preview
func (h *Handler) Preview(c *gin.Context) {
	id := c.Param("id")

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	points, err := h.parseExpression(req.Expression, nil, id)
	if err != nil {
		writeError(c, err)
		return
	}

	entries, err := h.previews.Batch(c.Request.Context(), id, points)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := PreviewResponse{
		MediaID:   id,
		Requested: len(points),
		Limit:     h.previews.Limit(),
		Entries:   make([]PreviewEntry, 0, len(entries)),
	}
	for _, e := range entries {
		pe := PreviewEntry{Time: e.Time, Found: e.Found}
		if e.Found {
			pe.URL = h.frameURL(id, e.Time)
			pe.Size = len(e.Frame.Data)
		} else if e.Err != nil {
			pe.Error = e.Err.Error()
		}
		resp.Entries = append(resp.Entries, pe)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) frameURL(mediaID string, t float64) string {
	return fmt.Sprintf("%s/media/%s/frame?t=%s", h.base, url.PathEscape(mediaID), ffmpeg.FormatTime(t))
}

func mediaToAPI(m *media.Media) Media {
	return Media{
		ID:        m.ID,
		Name:      m.Name,
		Address:   m.Address,
		Duration:  m.Duration,
		Width:     m.Width,
		Height:    m.Height,
		Codec:     m.Codec,
		FrameRate: m.FrameRate,
		Uploaded:  m.Uploaded(),
		CreatedAt: m.CreatedAt,
	}
}
