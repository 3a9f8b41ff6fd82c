// Package envloader loads project .env files for child processes.
//
// Overview:
//   - Responsibility: Read .env files and merge them over the process environment
//     for sequelize-cli, migrate-mongo and user script commands
//   - Key Types: Environment variable maps
//   - Error Semantics: A missing file is not an error; parse errors are INVALID_ARGUMENT
//
// Usage:
//
//	envMap, err := envloader.LoadEnvFile(".env")
//	env := envloader.Merge(os.Environ(), envMap)
package envloader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"go.eggybyte.com/yolk/internal/errors"
)

// DefaultFile is the .env file name looked up in the project root.
const DefaultFile = ".env"

// LoadEnvFile loads environment variables from a .env file.
// Variable references inside the file are expanded by godotenv.
//
// Parameters:
//   - path: Path to .env file
//
// Returns:
//   - map[string]string: Variables from the file (empty when the file is missing)
//   - error: INVALID_ARGUMENT when the file cannot be parsed
func LoadEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrap(errors.CodeInternal, "envloader.stat", err)
	}

	envMap, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrapf(errors.CodeInvalidArgument, "envloader.read", err, "parse %s", path)
	}
	return envMap, nil
}

// LoadProject loads <root>/.env and merges it over base, so project values
// replace inherited ones.
//
// Returns:
//   - []string: Merged KEY=value environment
//   - map[string]string: Variables read from the file
//   - error: INVALID_ARGUMENT when the file cannot be parsed
func LoadProject(root string, base []string) ([]string, map[string]string, error) {
	envMap, err := LoadEnvFile(filepath.Join(root, DefaultFile))
	if err != nil {
		return nil, nil, err
	}
	return Merge(base, envMap), envMap, nil
}

// Merge returns base with overrides applied. Override keys replace base keys.
func Merge(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[key]; !ok {
			out = append(out, kv)
		}
	}
	return append(out, MapToSlice(overrides)...)
}

// MapToSlice converts an environment map to sorted KEY=value entries for exec.Cmd.Env.
func MapToSlice(envMap map[string]string) []string {
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
