// Package logging prints tagged, colored console output and mirrors every
// message into a structured log file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"stillcast/internal/domain/consts"

	"github.com/rs/zerolog"
)

// Level gates debug output. -1 disables all D calls.
var Level = -1

var (
	mu       sync.Mutex
	fileLog  zerolog.Logger
	loggable bool
)

// SetupLogging opens (or creates) the log file and attaches the structured
// file backend. Console output works before and without this.
func SetupLogging(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, consts.LogFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", path, err)
	}

	mu.Lock()
	defer mu.Unlock()
	fileLog = zerolog.New(f).With().Timestamp().Str("program", consts.ProgramName).Logger()
	loggable = true
	return nil
}

// E prints an error message.
func E(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	msg := sprintf(format, args...)
	fmt.Print(consts.RedError + msg + caller() + "\n")
	if loggable {
		fileLog.Error().Msg(msg)
	}
}

// W prints a warning message.
func W(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	msg := sprintf(format, args...)
	fmt.Print(consts.YellowWarning + msg + "\n")
	if loggable {
		fileLog.Warn().Msg(msg)
	}
}

// I prints an informational message.
func I(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	msg := sprintf(format, args...)
	fmt.Print(consts.BlueInfo + msg + "\n")
	if loggable {
		fileLog.Info().Msg(msg)
	}
}

// S prints a success message.
func S(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	msg := sprintf(format, args...)
	fmt.Print(consts.GreenSuccess + msg + "\n")
	if loggable {
		fileLog.Info().Msg(msg)
	}
}

// D prints a debug message when the given level is enabled.
func D(l int, format string, args ...any) {
	if l > Level {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	msg := sprintf(format, args...)
	fmt.Print(consts.YellowDebug + msg + caller() + "\n")
	if loggable {
		fileLog.Debug().Msg(msg)
	}
}

// P prints a plain message with no tag.
func P(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	msg := sprintf(format, args...)
	fmt.Print(msg + "\n")
	if loggable {
		fileLog.Info().Msg(msg)
	}
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// caller tags error and debug lines with the call site.
func caller() string {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	funcName := filepath.Base(runtime.FuncForPC(pc).Name())

	var b strings.Builder
	b.WriteString(" [")
	b.WriteString(consts.ColorBlue)
	b.WriteString("Function: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(funcName)
	b.WriteString(" - ")
	b.WriteString(consts.ColorBlue)
	b.WriteString("File: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(filepath.Base(file))
	b.WriteString(" : ")
	b.WriteString(consts.ColorBlue)
	b.WriteString("Line: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(strconv.Itoa(line))
	b.WriteString("]")
	return b.String()
}
