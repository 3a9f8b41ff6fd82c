// Package lint checks a yolk project for problems that would break generation or migrations.
//
// Overview:
//   - Responsibility: Validate project structure, configuration, migration file names,
//     route requires and stub overrides
//   - Key Types: Linter, LintResult, LintResults
//   - Concurrency Model: Linter is stateless apart from its logger
//   - Error Semantics: Findings are returned as results; the error return is reserved
//     for I/O failures while inspecting the project
//
// Usage:
//
//	linter := lint.NewLinter(logger)
//	results, err := linter.Check(config, diags, fs, "yolk.yaml")
package lint

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"go.eggybyte.com/yolk/internal/configschema"
	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/log"
	"go.eggybyte.com/yolk/internal/projectfs"
	"go.eggybyte.com/yolk/internal/stub"
)

// Result levels.
const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d{14})-([a-z0-9]+(?:-[a-z0-9]+)*)\.(js|cjs|mjs|ts)$`)
	requirePattern       = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
)

// Linter runs project checks.
type Linter struct {
	logger log.Logger
}

// LintResult is a single finding.
type LintResult struct {
	Rule       string `json:"rule"`
	Level      string `json:"level"`
	Message    string `json:"message"`
	Path       string `json:"path,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// LintResults collects findings with per-level counts.
type LintResults struct {
	Results      []LintResult `json:"results"`
	ErrorCount   int          `json:"error_count"`
	WarningCount int          `json:"warning_count"`
	InfoCount    int          `json:"info_count"`
}

func (r *LintResults) add(result LintResult) {
	r.Results = append(r.Results, result)
}

// NewLinter creates a project linter. A nil logger discards output.
func NewLinter(logger log.Logger) *Linter {
	if logger == nil {
		logger = log.Nop()
	}
	return &Linter{logger: logger}
}

// Check performs every project check.
//
// Parameters:
//   - config: Loaded project configuration
//   - diags: Diagnostics produced while loading config (may be nil)
//   - fs: Project file system
//   - configFile: Config path the project was loaded from, relative to the root
//     or absolute; empty means configschema.DefaultFile
//
// Returns:
//   - *LintResults: Findings with counts
//   - error: INTERNAL when the project cannot be inspected
func (l *Linter) Check(config *configschema.Config, diags *configschema.Diagnostics, fs *projectfs.ProjectFS, configFile string) (*LintResults, error) {
	if configFile == "" {
		configFile = configschema.DefaultFile
	}
	results := &LintResults{Results: make([]LintResult, 0)}

	checks := []struct {
		name string
		run  func() error
	}{
		{"project-structure", func() error { return l.checkProjectStructure(config, fs, configFile, results) }},
		{"configuration", func() error { l.checkConfiguration(diags, results); return nil }},
		{"migrations", func() error { return l.checkMigrations(config, fs, results) }},
		{"routes", func() error { return l.checkRoutes(config, fs, results) }},
		{"stubs", func() error { return l.checkStubs(config, fs, results) }},
	}
	for _, check := range checks {
		if err := check.run(); err != nil {
			return nil, errors.Wrapf(errors.CodeInternal, "lint.check", err, "rule %s", check.name)
		}
	}

	for _, result := range results.Results {
		switch result.Level {
		case LevelError:
			results.ErrorCount++
		case LevelWarning:
			results.WarningCount++
		case LevelInfo:
			results.InfoCount++
		}
	}

	l.logger.Info("lint completed",
		log.Int("errors", results.ErrorCount),
		log.Int("warnings", results.WarningCount),
		log.Int("info", results.InfoCount))
	return results, nil
}

// checkProjectStructure requires the config file and the configured directories.
func (l *Linter) checkProjectStructure(config *configschema.Config, fs *projectfs.ProjectFS, configFile string, results *LintResults) error {
	exists, err := fs.FileExists(configFile)
	if err != nil {
		return err
	}
	if !exists {
		results.add(LintResult{
			Rule:       "project-structure",
			Level:      LevelError,
			Message:    "Configuration file missing: " + configFile,
			Path:       configFile,
			Suggestion: "Run 'yolk init' to create " + configFile,
		})
	}

	dirs := []struct{ key, dir string }{
		{"paths.controllers", config.Paths.Controllers},
		{"paths.models", config.Paths.Models},
		{"paths.migrations", config.Paths.Migrations},
		{"paths.routes", config.Paths.Routes},
	}
	for _, d := range dirs {
		exists, err := fs.DirectoryExists(d.dir)
		if err != nil {
			return err
		}
		if !exists {
			results.add(LintResult{
				Rule:       "project-structure",
				Level:      LevelWarning,
				Message:    fmt.Sprintf("Directory missing: %s (%s)", d.dir, d.key),
				Path:       d.dir,
				Suggestion: fmt.Sprintf("Create directory: mkdir -p %s", d.dir),
			})
		}
	}
	return nil
}

// checkConfiguration reports the non-fatal diagnostics produced while loading config.
func (l *Linter) checkConfiguration(diags *configschema.Diagnostics, results *LintResults) {
	if diags == nil {
		return
	}
	for _, d := range diags.Items() {
		results.add(LintResult{
			Rule:       "configuration",
			Level:      string(d.Severity),
			Message:    d.Message,
			Path:       d.Path,
			Suggestion: d.Suggestion,
		})
	}
}

// checkMigrations validates migration file names. Two files sharing a timestamp
// make the apply order ambiguous; two files sharing a name usually mean a copy.
func (l *Linter) checkMigrations(config *configschema.Config, fs *projectfs.ProjectFS, results *LintResults) error {
	dir := config.Paths.Migrations
	files, err := fs.ListFiles(dir)
	if errors.IsCode(err, errors.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	timestamps := make(map[string]string)
	names := make(map[string]string)
	for _, file := range files {
		rel := path.Join(dir, file)
		m := migrationNamePattern.FindStringSubmatch(file)
		if m == nil {
			if strings.HasPrefix(file, ".") {
				continue
			}
			results.add(LintResult{
				Rule:       "migrations",
				Level:      LevelWarning,
				Message:    fmt.Sprintf("Migration file name is not <yyyymmddhhmmss>-<name>.js: %s", file),
				Path:       rel,
				Suggestion: "Create migrations with 'yolk make:migration <name>'",
			})
			continue
		}

		stamp, name := m[1], m[2]
		if other, ok := timestamps[stamp]; ok {
			results.add(LintResult{
				Rule:       "migrations",
				Level:      LevelError,
				Message:    fmt.Sprintf("Migrations %s and %s share timestamp %s", other, file, stamp),
				Path:       rel,
				Suggestion: "Rename one of the files so migrations apply in a fixed order",
			})
		} else {
			timestamps[stamp] = file
		}

		if other, ok := names[name]; ok {
			results.add(LintResult{
				Rule:       "migrations",
				Level:      LevelWarning,
				Message:    fmt.Sprintf("Migrations %s and %s have the same name", other, file),
				Path:       rel,
				Suggestion: "Remove the duplicate or give it a descriptive name",
			})
		} else {
			names[name] = file
		}
	}
	return nil
}

// checkRoutes verifies that relative require() targets in route files exist.
func (l *Linter) checkRoutes(config *configschema.Config, fs *projectfs.ProjectFS, results *LintResults) error {
	files, err := fs.WalkFiles(config.Paths.Routes)
	if errors.IsCode(err, errors.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, file := range files {
		if !isScript(file) {
			continue
		}
		content, err := fs.ReadFile(file)
		if err != nil {
			return err
		}
		for _, m := range requirePattern.FindAllStringSubmatch(content, -1) {
			target := m[1]
			if !strings.HasPrefix(target, "./") && !strings.HasPrefix(target, "../") {
				continue
			}
			found, err := resolveRequire(fs, path.Join(path.Dir(file), target))
			if err != nil {
				return err
			}
			if !found {
				results.add(LintResult{
					Rule:       "routes",
					Level:      LevelError,
					Message:    fmt.Sprintf("Route requires missing module %s", target),
					Path:       file,
					Suggestion: "Generate the controller with 'yolk make:controller' or fix the require path",
				})
			}
		}
	}
	return nil
}

// checkStubs reports override files that no generator reads and override
// placeholders the generators never fill.
func (l *Linter) checkStubs(config *configschema.Config, fs *projectfs.ProjectFS, results *LintResults) error {
	dir := config.Paths.Stubs
	files, err := fs.ListFiles(dir)
	if errors.IsCode(err, errors.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, file := range files {
		rel := path.Join(dir, file)
		if !strings.HasSuffix(file, ".stub") {
			continue
		}

		builtin, err := stub.Embedded(file)
		if errors.IsCode(err, errors.CodeNotFound) {
			results.add(LintResult{
				Rule:       "stubs",
				Level:      LevelWarning,
				Message:    fmt.Sprintf("Unknown stub override: %s", file),
				Path:       rel,
				Suggestion: "Run 'yolk stub:publish' to see the stub names yolk reads",
			})
			continue
		}
		if err != nil {
			return err
		}

		content, err := fs.ReadFile(rel)
		if err != nil {
			return err
		}
		known := make(map[string]bool)
		for _, name := range stub.Unresolved(builtin) {
			known[name] = true
		}
		for _, name := range stub.Unresolved(content) {
			if !known[name] {
				results.add(LintResult{
					Rule:       "stubs",
					Level:      LevelError,
					Message:    fmt.Sprintf("Stub %s uses unknown placeholder {{%s}}", file, name),
					Path:       rel,
					Suggestion: "Use only the placeholders of the built-in stub: " + strings.Join(stub.Unresolved(builtin), ", "),
				})
			}
		}
	}
	return nil
}

// resolveRequire applies Node's file resolution for a relative require path.
func resolveRequire(fs *projectfs.ProjectFS, target string) (bool, error) {
	candidates := []string{target, target + ".js", target + ".json", path.Join(target, "index.js")}
	for _, candidate := range candidates {
		exists, err := fs.FileExists(candidate)
		if err != nil {
			return false, err
		}
		if !exists {
			continue
		}
		isDir, err := fs.DirectoryExists(candidate)
		if err != nil {
			return false, err
		}
		if !isDir {
			return true, nil
		}
	}
	return false, nil
}

func isScript(file string) bool {
	switch path.Ext(file) {
	case ".js", ".cjs", ".mjs", ".ts":
		return true
	}
	return false
}
