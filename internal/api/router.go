// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package api

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// APIPrefix is where the API is mounted
const APIPrefix = "/api/v1"

// RouterConfig for NewRouter
type RouterConfig struct {
	// WebDir holds the browser UI, empty disables it
	WebDir       string
	ReadyTimeout time.Duration
	RateLimit    float64
	RateBurst    int
}

// NewRouter builds the gin engine with all routes
func NewRouter(h *Handler, config RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), cors.Default(), RequestLogger(h.logger))

	if config.ReadyTimeout <= 0 {
		config.ReadyTimeout = 10 * time.Second
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 10
	}
	if config.RateBurst <= 0 {
		config.RateBurst = 20
	}
	limiter := NewRateLimiter(config.RateLimit, config.RateBurst)

	// 静态前端
	if config.WebDir != "" {
		web := r.Group("/web", gzip.Gzip(gzip.DefaultCompression))
		web.Static("/", config.WebDir)
		indexPath := filepath.Join(config.WebDir, "index.html")
		r.GET("/", func(c *gin.Context) { c.File(indexPath) })
	}

	v1 := r.Group(APIPrefix)
	{
		v1.GET("/ready", h.Ready)
		v1.GET("/skills", h.Skills)
		v1.POST("/skills/reload", h.ReloadSkills)
	}

	api := v1.Group("", RequireReady(h.ready, config.ReadyTimeout))
	{
		api.POST("/timepoints/parse", h.ParseTimePoints)
		api.POST("/selection", h.UpdateSelection)

		api.GET("/media", h.ListMedia)
		api.POST("/media", h.AddMedia)
		api.GET("/media/:id", h.GetMedia)
		api.DELETE("/media/:id", h.DeleteMedia)
		api.GET("/media/:id/frame", limiter.Middleware(), h.Frame)
		api.POST("/media/:id/preview", limiter.Middleware(), h.Preview)

		api.GET("/jobs", h.ListJobs)
		api.POST("/jobs", h.AddJob)
		api.GET("/jobs/:id", h.GetJob)
		api.DELETE("/jobs/:id", h.DeleteJob)
		api.GET("/jobs/:id/state", h.GetJobState)
		api.GET("/jobs/:id/report", h.GetJobReport)
		api.PUT("/jobs/:id/command", h.JobCommand)
	}

	r.NoRoute(func(c *gin.Context) {
		errResp(c, http.StatusNotFound, "Not found", c.Request.URL.Path)
	})

	return r
}
