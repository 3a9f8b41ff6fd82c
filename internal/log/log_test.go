package log

import (
	"testing"
	"time"
)

func TestPairs(t *testing.T) {
	tests := []struct {
		name  string
		kv    any
		key   string
		value any
	}{
		{name: "Str", kv: Str("file", "User.js"), key: "file", value: "User.js"},
		{name: "Int", kv: Int("fields", 3), key: "fields", value: 3},
		{name: "Dur", kv: Dur("took", time.Second), key: "took", value: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slice, ok := tt.kv.([]any)
			if !ok {
				t.Fatalf("Expected []any, got %T", tt.kv)
			}
			if len(slice) != 2 {
				t.Fatalf("Expected 2 elements, got %d", len(slice))
			}
			if slice[0] != tt.key || slice[1] != tt.value {
				t.Errorf("Expected [%v %v], got %v", tt.key, tt.value, slice)
			}
		})
	}
}

func TestStrs(t *testing.T) {
	slice := Strs("orms", []string{"mongoose", "sequelize"}).([]any)
	names, ok := slice[1].([]string)
	if !ok || len(names) != 2 {
		t.Fatalf("Expected string slice value, got %v", slice[1])
	}
}

func TestNop(t *testing.T) {
	logger := Nop().With("k", "v")
	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error(nil, "error")
}
