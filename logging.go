// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

import (
	"fmt"
	"log"
	"os"
)

// LogLevel orders this package's log verbosity, from most to least chatty.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is the leveled logging sink a Channel accepts through LoggerOption and
// reactor.Loop accepts through New. Both store the Logger they are given; neither
// writes any log lines to it. The default
// implementation is a leveled wrapper over the standard library's log.Logger —
// grounded on this codebase's sibling block-device ancestor's own internal/logging
// package, which takes the same approach rather than pulling in a structured logging
// dependency nothing else in this codebase's ancestry uses.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// stdLogger is the default Logger.
type stdLogger struct {
	logger *log.Logger
	level  LogLevel
}

// NewLogger returns a Logger that writes to w at or above the given level. A nil w
// defaults to os.Stderr.
func NewLogger(level LogLevel, w *os.File) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &stdLogger{logger: log.New(w, "netchan: ", log.LstdFlags), level: level}
}

func (l *stdLogger) logf(level LogLevel, tag, format string, args ...any) {
	if level < l.level {
		return
	}
	l.logger.Printf("%s %s", tag, fmt.Sprintf(format, args...))
}

func (l *stdLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, "[debug]", format, args...) }
func (l *stdLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, "[info]", format, args...) }
func (l *stdLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, "[warn]", format, args...) }
func (l *stdLogger) Errorf(format string, args ...any) { l.logf(LevelError, "[error]", format, args...) }

// noopLogger discards everything. It is the default for Channels constructed without an
// explicit LoggerOption, keeping the hot path free of formatting work.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}
