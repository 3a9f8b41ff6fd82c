package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	t.Cleanup(Reset)
	return &out, &errOut
}

func TestOutputLevels(t *testing.T) {
	out, errOut := capture(t)

	Info("generated %d files", 2)
	Success("created %s", "app/models/User.js")
	Warning("careful")
	Error("failed: %v", "boom")
	Debug("hidden")

	if !strings.Contains(out.String(), "generated 2 files") {
		t.Errorf("Expected info on stdout, got %q", out.String())
	}
	if !strings.Contains(out.String(), "created app/models/User.js") {
		t.Errorf("Expected success on stdout, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "failed: boom") {
		t.Errorf("Expected error on stderr, got %q", errOut.String())
	}
	if strings.Contains(errOut.String(), "hidden") {
		t.Error("Expected debug to be hidden without verbose")
	}

	SetVerbose(true)
	Debug("shown")
	if !strings.Contains(errOut.String(), "shown") {
		t.Errorf("Expected debug with verbose, got %q", errOut.String())
	}
}

func TestJSONOutput(t *testing.T) {
	out, _ := capture(t)
	SetJSONOutput(true)

	Result(map[string]int{"applied": 3}, "ignored in json mode")

	var msg Message
	if err := json.Unmarshal(out.Bytes(), &msg); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", out.String(), err)
	}
	if msg.Level != LevelResult {
		t.Errorf("Expected result level, got %s", msg.Level)
	}
	data, ok := msg.Data.(map[string]any)
	if !ok || data["applied"] != float64(3) {
		t.Errorf("Unexpected data: %v", msg.Data)
	}
}

func TestResultText(t *testing.T) {
	out, _ := capture(t)
	Result(nil, "line\n\n")
	if out.String() != "line\n" {
		t.Errorf("Expected trimmed text, got %q", out.String())
	}
}

func TestTable(t *testing.T) {
	got := Table([]string{"NAME", "STATUS"}, [][]string{{"a.js", "applied"}, {"long-name.js", "pending"}})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %q", got)
	}
	if strings.Index(lines[1], "applied") != strings.Index(lines[2], "pending") {
		t.Errorf("Expected aligned columns, got:\n%s", got)
	}
}

func TestConfirm(t *testing.T) {
	capture(t)

	SetInput(strings.NewReader("yes\n"))
	if !Confirm("proceed?") {
		t.Error("Expected yes to confirm")
	}

	SetInput(strings.NewReader("\n"))
	if Confirm("proceed?") {
		t.Error("Expected empty answer to decline")
	}

	SetNonInteractive(true)
	SetInput(strings.NewReader("n\n"))
	if !Confirm("proceed?") {
		t.Error("Expected non-interactive mode to auto-confirm")
	}
}
