// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ZSC714725/framegrab/internal/logger"
	"github.com/ZSC714725/framegrab/internal/ready"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RequestLogger logs every request at debug level
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}
		log.Debug("%s %s -> %d %s %dB %s",
			c.Request.Method, path, c.Writer.Status(),
			time.Since(start).Round(time.Microsecond), c.Writer.Size(), c.ClientIP())

		for _, e := range c.Errors {
			log.Error("%s %s: %v", c.Request.Method, path, e.Err)
		}
	}
}

// RequireReady holds requests until startup has finished, for at most timeout
func RequireReady(sig *ready.Signal, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sig.IsSet() {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		if err := sig.Wait(ctx); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
				Code:    http.StatusServiceUnavailable,
				Message: "Not ready",
				Detail:  "server is still starting",
			})
			return
		}
		c.Next()
	}
}

// RateLimiter keeps a token bucket per client
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter
	every  rate.Limit
	burst  int
}

// NewRateLimiter allows perSecond requests with the given burst per client
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*rate.Limiter),
		every:  rate.Limit(perSecond),
		burst:  burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limits[key]; ok {
		return l
	}
	l := rate.NewLimiter(rl.every, rl.burst)
	rl.limits[key] = l
	return l
}

// Allow checks if a request is allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Code:    http.StatusTooManyRequests,
				Message: "Too many requests",
			})
			return
		}
		c.Next()
	}
}
