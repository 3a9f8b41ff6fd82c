package version

import (
	"strings"
	"testing"
)

func TestGetVersionString(t *testing.T) {
	got := GetVersionString()
	if !strings.HasPrefix(got, "yolk version "+Version) {
		t.Errorf("Unexpected version string: %q", got)
	}
	if !strings.Contains(got, Commit) {
		t.Errorf("Expected commit in version string: %q", got)
	}
}

func TestGetFullVersionInfo(t *testing.T) {
	info := Get()
	full := GetFullVersionInfo()
	if !strings.Contains(full, info.GoVersion) || !strings.Contains(full, info.Platform) {
		t.Errorf("Expected go version and platform in %q", full)
	}
}
