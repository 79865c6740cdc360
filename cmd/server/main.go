// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/ZSC714725/framegrab/internal/api"
	"github.com/ZSC714725/framegrab/internal/config"
	"github.com/ZSC714725/framegrab/internal/ffmpeg"
	"github.com/ZSC714725/framegrab/internal/job"
	"github.com/ZSC714725/framegrab/internal/logger"
	"github.com/ZSC714725/framegrab/internal/media"
	"github.com/ZSC714725/framegrab/internal/preview"
	"github.com/ZSC714725/framegrab/internal/ready"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	bind := flag.String("bind", "", "Bind address (overrides config)")
	ffmpegBin := flag.String("ffmpeg", "", "FFmpeg binary path (overrides config)")
	ffprobeBin := flag.String("ffprobe", "", "FFprobe binary path (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Load config: %v", err)
		}
	}

	if *bind != "" {
		cfg.Server.Bind = *bind
	}
	if *ffmpegBin != "" {
		cfg.FFmpeg.Path = *ffmpegBin
	}
	if *ffprobeBin != "" {
		cfg.FFmpeg.ProbePath = *ffprobeBin
	}
	if *debug {
		cfg.Server.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config: %v", err)
	}

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logger.New("framegrab", cfg.Server.Debug)

	validator, err := ffmpeg.NewValidator(cfg.FFmpeg.InputAllow, cfg.FFmpeg.InputBlock)
	if err != nil {
		log.Fatalf("Input validator: %v", err)
	}

	ff, err := ffmpeg.New(ffmpeg.Config{
		Binary:         cfg.FFmpeg.Path,
		ProbeBinary:    cfg.FFmpeg.ProbePath,
		MaxLogLines:    cfg.FFmpeg.MaxLogLines,
		ValidatorInput: validator,
	})
	if err != nil {
		log.Fatalf("FFmpeg init: %v", err)
	}

	library := media.NewLibrary(media.Config{
		FFmpeg:        ff,
		Logger:        logger.With("media"),
		Dir:           cfg.Media.Dir,
		MaxUploadSize: cfg.Media.MaxUploadSize * 1024 * 1024,
	})

	previews := preview.New(preview.Config{
		FFmpeg:      ff,
		Library:     library,
		Logger:      logger.With("preview"),
		Limit:       cfg.Preview.Limit,
		Concurrency: cfg.Preview.Concurrency,
		Width:       cfg.Preview.Width,
		Format:      cfg.Preview.Format,
	})

	jobs := job.NewStore(job.StoreConfig{
		FFmpeg:        ff,
		Library:       library,
		Logger:        logger.With("jobs"),
		OutputDir:     cfg.Jobs.OutputDir,
		DefaultFormat: cfg.Jobs.Format,
		StaleTimeout:  time.Duration(cfg.Jobs.StaleTimeout) * time.Second,
	})

	// 启动准备在后台完成，API 请求等待就绪
	sig := ready.New()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := ff.ReloadSkills(ctx); err != nil {
			logger.Error("Load ffmpeg skills: %v", err)
		}
		for _, dir := range []string{cfg.Media.Dir, cfg.Jobs.OutputDir} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				logger.Error("Create %s: %v", dir, err)
			}
		}
		sig.Set()
		logger.Info("ready, ffmpeg %s", ff.Skills().FFmpeg.Version)
	}()

	handler := api.NewHandler(api.HandlerConfig{
		Library:  library,
		Previews: previews,
		Jobs:     jobs,
		FFmpeg:   ff,
		Ready:    sig,
		Logger:   logger.With("api"),
	})

	r := api.NewRouter(handler, api.RouterConfig{
		WebDir:       cfg.Server.WebDir,
		ReadyTimeout: time.Duration(cfg.Server.ReadyTimeout) * time.Second,
		RateLimit:    cfg.Preview.RateLimit,
		RateBurst:    cfg.Preview.RateBurst,
	})

	logger.Info("FrameGrab listening on %s (Web UI: /)", cfg.Server.Bind)
	if err := r.Run(cfg.Server.Bind); err != nil {
		log.Fatalf("Server: %v", err)
	}
}
