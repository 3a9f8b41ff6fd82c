// Package ui provides unified output formatting for the yolk CLI.
//
// Overview:
//   - Responsibility: Human-facing messages, tables and prompts, with a JSON mode for scripts
//   - Key Types: Message, OutputLevel
//   - Concurrency Model: Global settings guarded by a RWMutex
//   - Error Semantics: Output failures are reported to stderr and otherwise ignored
//
// Usage:
//
//	ui.Success("Created %s", path)
//	ui.Error("Failed to run migrations: %v", err)
package ui

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
)

var (
	verbose        bool
	nonInteractive bool
	jsonOutput     bool
	stdout         io.Writer = os.Stdout
	stderr         io.Writer = os.Stderr
	stdin          io.Reader = os.Stdin
	mu             sync.RWMutex
)

// OutputLevel represents the severity level of a message.
type OutputLevel string

const (
	LevelDebug   OutputLevel = "debug"
	LevelInfo    OutputLevel = "info"
	LevelWarning OutputLevel = "warning"
	LevelError   OutputLevel = "error"
	LevelSuccess OutputLevel = "success"
	LevelResult  OutputLevel = "result"
)

// Message represents a structured output message.
type Message struct {
	Level     OutputLevel `json:"level"`
	Text      string      `json:"text,omitempty"`
	Data      any         `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SetVerbose enables or disables verbose output.
func SetVerbose(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = enabled
}

// SetNonInteractive disables interactive prompts.
func SetNonInteractive(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	nonInteractive = enabled
}

// SetJSONOutput enables JSON-formatted output.
func SetJSONOutput(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOutput = enabled
}

// JSONOutput reports whether JSON output is enabled.
func JSONOutput() bool {
	mu.RLock()
	defer mu.RUnlock()
	return jsonOutput
}

// SetOutput redirects standard and error output. Nil writers keep the current value.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// SetInput redirects prompt input.
func SetInput(in io.Reader) {
	mu.Lock()
	defer mu.Unlock()
	stdin = in
}

// Stdout returns the current standard output writer.
func Stdout() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return stdout
}

// Reset restores default settings and streams.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	verbose, nonInteractive, jsonOutput = false, false, false
	stdout, stderr, stdin = os.Stdout, os.Stderr, os.Stdin
}

// output writes a message to the appropriate output stream.
func output(level OutputLevel, format string, args ...any) {
	mu.RLock()
	useJSON := jsonOutput
	useVerbose := verbose
	out, errOut := stdout, stderr
	mu.RUnlock()

	// Skip debug messages if not verbose
	if level == LevelDebug && !useVerbose {
		return
	}

	text := fmt.Sprintf(format, args...)

	writer := out
	if level == LevelError || level == LevelDebug {
		writer = errOut
	}

	if useJSON {
		encodeJSON(writer, Message{Level: level, Text: text, Timestamp: time.Now()})
		return
	}

	var prefix string
	switch level {
	case LevelDebug:
		prefix = "🔍 DEBUG:"
	case LevelInfo:
		prefix = "ℹ️  INFO:"
	case LevelWarning:
		prefix = "⚠️  WARN:"
	case LevelError:
		prefix = "❌ ERROR:"
	case LevelSuccess:
		prefix = "✅"
	}

	fmt.Fprintf(writer, "%s %s\n", prefix, text)
}

func encodeJSON(w io.Writer, v any) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode JSON output: %v\n", err)
	}
}

// Debug outputs a debug message (only with --verbose).
func Debug(format string, args ...any) {
	output(LevelDebug, format, args...)
}

// Info outputs an informational message.
func Info(format string, args ...any) {
	output(LevelInfo, format, args...)
}

// Warning outputs a warning message.
func Warning(format string, args ...any) {
	output(LevelWarning, format, args...)
}

// Error outputs an error message.
func Error(format string, args ...any) {
	output(LevelError, format, args...)
}

// Success outputs a success message.
func Success(format string, args ...any) {
	output(LevelSuccess, format, args...)
}

// Step outputs a step indicator with message.
func Step(step, total int, format string, args ...any) {
	if JSONOutput() {
		Info(format, args...)
		return
	}
	fmt.Fprintf(Stdout(), "  [%d/%d] %s\n", step, total, fmt.Sprintf(format, args...))
}

// Result emits command output data. In JSON mode data is encoded as a result
// message; otherwise text is printed as is.
func Result(data any, text string) {
	mu.RLock()
	useJSON := jsonOutput
	out := stdout
	mu.RUnlock()

	if useJSON {
		encodeJSON(out, Message{Level: LevelResult, Data: data, Timestamp: time.Now()})
		return
	}
	if text != "" {
		fmt.Fprint(out, strings.TrimRight(text, "\n")+"\n")
	}
}

// Table renders rows as aligned columns.
func Table(header []string, rows [][]string) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	if len(header) > 0 {
		fmt.Fprintln(tw, strings.Join(header, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
	return b.String()
}

// Confirm prompts the user for confirmation.
// Non-interactive and JSON modes answer yes without prompting.
func Confirm(format string, args ...any) bool {
	mu.RLock()
	skip := nonInteractive || jsonOutput
	out, in := stdout, stdin
	mu.RUnlock()

	if skip {
		return true
	}

	fmt.Fprintf(out, "❓ %s [y/N]: ", fmt.Sprintf(format, args...))

	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
