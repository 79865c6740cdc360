// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FrameGrab - 视频抽帧工具

package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger provides a simple logging interface
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
	// With returns a logger that tags every line with component
	With(component string) Logger
}

// Config for a logger
type Config struct {
	Component string
	Debug     bool
	Output    io.Writer
}

type defaultLogger struct {
	log       *slog.Logger
	component string
}

// New creates a logger writing to stderr
func New(component string, debug bool) Logger {
	return NewWithConfig(Config{Component: component, Debug: debug})
}

// NewWithConfig creates a logger from config
func NewWithConfig(config Config) Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return &defaultLogger{log: slog.New(h), component: config.Component}
}

func (l *defaultLogger) With(component string) Logger {
	c := component
	if l.component != "" {
		c = l.component + "." + component
	}
	return &defaultLogger{log: l.log, component: c}
}

func (l *defaultLogger) logf(level slog.Level, format string, args ...interface{}) {
	if !l.log.Enabled(context.Background(), level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.component == "" {
		l.log.Log(context.Background(), level, msg)
		return
	}
	l.log.Log(context.Background(), level, msg, "component", l.component)
}

func (l *defaultLogger) Info(format string, args ...interface{}) {
	l.logf(slog.LevelInfo, format, args...)
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	l.logf(slog.LevelError, format, args...)
}

func (l *defaultLogger) Debug(format string, args ...interface{}) {
	l.logf(slog.LevelDebug, format, args...)
}

// Nop returns a logger that drops everything
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Info(format string, args ...interface{})  {}
func (nopLogger) Error(format string, args ...interface{}) {}
func (nopLogger) Debug(format string, args ...interface{}) {}
func (n nopLogger) With(component string) Logger           { return n }
