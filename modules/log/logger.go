// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package log provides leveled logging for deskboard.
//
// Call graph: log.Info() -> Logger.Log() -> the configured writer, which
// serializes events and writes them to its destination (console by default).
package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// LevelLogger provides level-related logging functions
type LevelLogger interface {
	LevelEnabled(level Level) bool

	Trace(format string, v ...any)
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
	Critical(format string, v ...any)
}

// Logger dispatches log events to its writer
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	level    Level
	colorize bool
}

var defaultLogger = &Logger{
	out:      os.Stderr,
	level:    INFO,
	colorize: isatty.IsTerminal(os.Stderr.Fd()),
}

// GetLogger returns the default logger
func GetLogger() *Logger {
	return defaultLogger
}

// SetLevel sets the level of the default logger
func SetLevel(level Level) {
	defaultLogger.mu.Lock()
	defaultLogger.level = level
	defaultLogger.mu.Unlock()
}

// SetOutput redirects the default logger, mainly for tests
func SetOutput(out io.Writer, colorize bool) {
	defaultLogger.mu.Lock()
	defaultLogger.out = out
	defaultLogger.colorize = colorize
	defaultLogger.mu.Unlock()
}

// GetLevel returns the logger's level
func (l *Logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// LevelEnabled reports whether events of the given level are emitted
func (l *Logger) LevelEnabled(level Level) bool {
	return level >= l.GetLevel()
}

// Log emits a log event at the given level, skip is the caller depth for the source position
func (l *Logger) Log(skip int, level Level, format string, v ...any) {
	if !l.LevelEnabled(level) {
		return
	}

	caller := "?()"
	if pc, filename, line, ok := runtime.Caller(skip + 1); ok {
		fn := runtime.FuncForPC(pc)
		if fn != nil {
			fnName := fn.Name()
			if pos := strings.LastIndexByte(fnName, '/'); pos >= 0 {
				fnName = fnName[pos+1:]
			}
			caller = fnName + "()"
		}
		if pos := strings.LastIndexByte(filename, '/'); pos >= 0 {
			filename = filename[pos+1:]
		}
		caller = fmt.Sprintf("%s:%d:%s", filename, line, caller)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006/01/02 15:04:05 "))
	sb.WriteString(caller)
	sb.WriteByte(' ')
	sb.WriteString(ColorSprintf(l.colorize, levelToColor[level], "[%s]", strings.ToUpper(level.String()[:1])))
	sb.WriteByte(' ')
	sb.WriteString(fmt.Sprintf(format, v...))
	sb.WriteByte('\n')
	_, _ = l.out.Write([]byte(sb.String()))
}

func (l *Logger) Trace(format string, v ...any)    { l.Log(1, TRACE, format, v...) }
func (l *Logger) Debug(format string, v ...any)    { l.Log(1, DEBUG, format, v...) }
func (l *Logger) Info(format string, v ...any)     { l.Log(1, INFO, format, v...) }
func (l *Logger) Warn(format string, v ...any)     { l.Log(1, WARN, format, v...) }
func (l *Logger) Error(format string, v ...any)    { l.Log(1, ERROR, format, v...) }
func (l *Logger) Critical(format string, v ...any) { l.Log(1, CRITICAL, format, v...) }

// Trace records trace log
func Trace(format string, v ...any) {
	defaultLogger.Log(1, TRACE, format, v...)
}

// Debug records debug log
func Debug(format string, v ...any) {
	defaultLogger.Log(1, DEBUG, format, v...)
}

// Info records information log
func Info(format string, v ...any) {
	defaultLogger.Log(1, INFO, format, v...)
}

// Warn records warning log
func Warn(format string, v ...any) {
	defaultLogger.Log(1, WARN, format, v...)
}

// Error records error log
func Error(format string, v ...any) {
	defaultLogger.Log(1, ERROR, format, v...)
}

// Critical records critical log
func Critical(format string, v ...any) {
	defaultLogger.Log(1, CRITICAL, format, v...)
}

// Fatal records fatal log and exits the process
func Fatal(format string, v ...any) {
	defaultLogger.Log(1, FATAL, format, v...)
	os.Exit(1)
}
