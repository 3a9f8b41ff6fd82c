// Package stub loads scaffolding stubs and substitutes their placeholders.
//
// Overview:
//   - Responsibility: Resolve stub files (project override first, embedded default second)
//     and replace {{token}} placeholders with generated values
//   - Key Types: Loader
//   - Concurrency Model: Loader is read-only after construction and safe for concurrent use
//   - Error Semantics: NOT_FOUND for unknown stubs, INTERNAL for unresolved placeholders
//
// Usage:
//
//	loader := stub.NewLoader(fs, "stubs", logger)
//	content, err := loader.Render("route.resource.stub", map[string]string{
//		"controllerVariable": "usersController",
//	})
package stub

import (
	"embed"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/log"
	"go.eggybyte.com/yolk/internal/projectfs"
)

//go:embed stubs/*.stub
var stubFS embed.FS

const embeddedDir = "stubs"

var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)

// Loader resolves stubs from a project override directory and the embedded defaults.
type Loader struct {
	fs          *projectfs.ProjectFS
	overrideDir string
	logger      log.Logger
}

// NewLoader creates a stub loader.
//
// Parameters:
//   - pfs: Project file system used for overrides (nil disables overrides)
//   - overrideDir: Override directory relative to the project root ("" disables overrides)
//   - logger: Logger for stub resolution (nil means discard)
//
// Returns:
//   - *Loader: Stub loader instance
func NewLoader(pfs *projectfs.ProjectFS, overrideDir string, logger log.Logger) *Loader {
	if logger == nil {
		logger = log.Nop()
	}
	return &Loader{fs: pfs, overrideDir: overrideDir, logger: logger}
}

// OverrideDir returns the project override directory.
func (l *Loader) OverrideDir() string {
	return l.overrideDir
}

// Load returns the content of the named stub.
//
// Parameters:
//   - name: Stub file name, e.g. "model.sequelize.stub"
//
// Returns:
//   - string: Stub content
//   - error: INVALID_ARGUMENT for path-like names, NOT_FOUND when neither source has it
func (l *Loader) Load(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", errors.Newf(errors.CodeInvalidArgument, "invalid stub name %q", name)
	}

	if l.fs != nil && l.overrideDir != "" {
		content, err := l.fs.ReadFile(path.Join(l.overrideDir, name))
		switch {
		case err == nil:
			l.logger.Debug("using project stub", log.Str("stub", name), log.Str("dir", l.overrideDir))
			return content, nil
		case !errors.IsCode(err, errors.CodeNotFound):
			return "", err
		}
	}

	content, err := Embedded(name)
	if err != nil {
		return "", err
	}
	l.logger.Debug("using embedded stub", log.Str("stub", name))
	return content, nil
}

// Render loads the named stub and substitutes vars.
// A stub placeholder without a value is an INTERNAL error. Values are inserted
// verbatim, so a value that itself looks like a placeholder is not an error.
func (l *Loader) Render(name string, vars map[string]string) (string, error) {
	content, err := l.Load(name)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, key := range Unresolved(content) {
		if _, ok := vars[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return "", errors.Newf(errors.CodeInternal, "stub %s has unresolved placeholders: %s",
			name, strings.Join(missing, ", "))
	}
	return Render(content, vars), nil
}

// Publish copies the embedded stubs into the override directory.
//
// Parameters:
//   - force: Overwrite stubs that already exist in the project
//
// Returns:
//   - []string: Relative paths written
//   - []string: Relative paths skipped because they already exist
//   - error: INVALID_ARGUMENT when the loader has no override directory
func (l *Loader) Publish(force bool) ([]string, []string, error) {
	if l.fs == nil || l.overrideDir == "" {
		return nil, nil, errors.New(errors.CodeInvalidArgument, "no stub override directory configured")
	}

	names, err := List()
	if err != nil {
		return nil, nil, err
	}

	var written, skipped []string
	for _, name := range names {
		content, err := stubFS.ReadFile(path.Join(embeddedDir, name))
		if err != nil {
			return written, skipped, errors.Wrap(errors.CodeInternal, "stub.publish", err)
		}

		target := path.Join(l.overrideDir, name)
		if err := l.fs.CreateFile(target, string(content), force); err != nil {
			if errors.IsCode(err, errors.CodeAlreadyExists) {
				skipped = append(skipped, target)
				continue
			}
			return written, skipped, err
		}
		written = append(written, target)
	}

	l.logger.Info("published stubs", log.Int("written", len(written)), log.Int("skipped", len(skipped)))
	return written, skipped, nil
}

// List returns the names of the embedded stubs, sorted.
func List() ([]string, error) {
	entries, err := fs.ReadDir(stubFS, embeddedDir)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "stub.list", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Embedded returns the built-in content of the named stub.
func Embedded(name string) (string, error) {
	content, err := stubFS.ReadFile(path.Join(embeddedDir, name))
	if err != nil {
		return "", errors.Newf(errors.CodeNotFound, "stub %s not found", name)
	}
	return string(content), nil
}

// Render replaces every {{key}} token in content with vars[key].
// Substitution is a single pass; inserted values are not scanned again.
// Tokens without a value are left untouched.
func Render(content string, vars map[string]string) string {
	if len(vars) == 0 {
		return content
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

// Unresolved returns the distinct placeholder names still present in content, sorted.
func Unresolved(content string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}
