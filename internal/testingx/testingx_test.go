package testingx

import (
	"sync"
	"testing"

	"go.eggybyte.com/yolk/internal/errors"
)

func TestMockLogger_Levels(t *testing.T) {
	logger := NewMockLogger(t)

	logger.Debug("debug message", "k", "v")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error(errors.New(errors.CodeInternal, "boom"), "error message")

	entries := logger.Entries()
	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(entries))
	}

	levels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	for i, level := range levels {
		if entries[i].Level != level {
			t.Errorf("Entry %d: expected level %s, got %s", i, level, entries[i].Level)
		}
	}
	if entries[3].Error == nil {
		t.Error("Expected error on ERROR entry")
	}

	logger.AssertLogged("INFO", "info message")
}

func TestMockLogger_With(t *testing.T) {
	logger := NewMockLogger(t)
	child := logger.With("orm", "sequelize")

	child.Info("child message", "file", "User.js")

	entries := logger.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected child entry to be visible on parent, got %d entries", len(entries))
	}
	fields := entries[0].Fields
	if len(fields) != 4 || fields[0] != "orm" || fields[2] != "file" {
		t.Errorf("Unexpected fields: %v", fields)
	}
}

func TestMockLogger_Clear(t *testing.T) {
	logger := NewMockLogger(t)
	logger.Info("one")
	logger.Clear()

	if len(logger.Entries()) != 0 {
		t.Error("Expected no entries after Clear")
	}
}

func TestMockLogger_Concurrency(t *testing.T) {
	logger := NewMockLogger(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("concurrent")
		}()
	}
	wg.Wait()

	if len(logger.Entries()) != 20 {
		t.Errorf("Expected 20 entries, got %d", len(logger.Entries()))
	}
}

func TestAssertError(t *testing.T) {
	AssertError(t, errors.New(errors.CodeNotFound, "missing"), errors.CodeNotFound)
	AssertNoError(t, nil)
}

func TestFileHelpers(t *testing.T) {
	root := t.TempDir()
	WriteFile(t, root, "app/models/User.js", "module.exports = User;\n")

	AssertFileContains(t, root, "app/models/User.js", "module.exports", "User")
}
