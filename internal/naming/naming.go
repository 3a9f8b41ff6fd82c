// Package naming normalizes user-supplied resource names.
//
// Overview:
//   - Responsibility: Pluralization, singularization and case conversion for generated files
//   - Key Types: Name (all variants of one resource name)
//   - Error Semantics: Parse returns INVALID_ARGUMENT for unusable names
//
// Usage:
//
//	n, err := naming.Parse("admin/UserProfilesController", "controller")
//	n.PascalPlural // "UserProfiles"
//	n.SnakePlural  // "user_profiles"
package naming

import (
	"path"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"

	"go.eggybyte.com/yolk/internal/errors"
)

// Name holds every variant of a normalized resource name.
type Name struct {
	Raw          string // Input as given
	Dir          string // Directory prefix, slash separated ("" when none)
	Singular     string // snake_case singular, e.g. "user_profile"
	Plural       string // snake_case plural, e.g. "user_profiles"
	Pascal       string // "UserProfile"
	PascalPlural string // "UserProfiles"
	Camel        string // "userProfile"
	CamelPlural  string // "userProfiles"
	Snake        string // same as Singular
	SnakePlural  string // same as Plural; used for table and collection names
	Kebab        string // "user-profile"
	KebabPlural  string // "user-profiles"
}

// Parse normalizes raw into a Name.
//
// Parameters:
//   - raw: User input; may include a directory prefix ("admin/user") and a ".js" extension
//   - suffix: Optional type suffix to strip, e.g. "controller" strips "UsersController"
//
// Returns:
//   - Name: All variants derived from the singular form of the base name
//   - error: INVALID_ARGUMENT for empty, absolute, escaping or letter-less names
func Parse(raw, suffix string) (Name, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, "\\", "/"))
	if trimmed == "" {
		return Name{}, errors.New(errors.CodeInvalidArgument, "name must not be empty")
	}
	if strings.HasPrefix(trimmed, "/") {
		return Name{}, errors.Newf(errors.CodeInvalidArgument, "name %q must be relative", raw)
	}

	segments := strings.Split(strings.Trim(trimmed, "/"), "/")
	for _, seg := range segments {
		if seg == ".." || seg == "." || seg == "" {
			return Name{}, errors.Newf(errors.CodeInvalidArgument, "name %q contains an invalid path segment", raw)
		}
	}

	base := strings.TrimSuffix(segments[len(segments)-1], ".js")
	snake := Snake(base)
	if suffix != "" {
		sfx := Snake(suffix)
		if snake == sfx {
			return Name{}, errors.Newf(errors.CodeInvalidArgument, "name %q has nothing before the %q suffix", raw, suffix)
		}
		snake = strings.TrimSuffix(snake, "_"+sfx)
	}
	if !hasLetter(snake) {
		return Name{}, errors.Newf(errors.CodeInvalidArgument, "name %q must contain at least one letter", raw)
	}
	if !unicode.IsLetter(rune(snake[0])) {
		return Name{}, errors.Newf(errors.CodeInvalidArgument, "name %q must start with a letter", raw)
	}

	singular := Singular(snake)
	plural := Plural(singular)

	return Name{
		Raw:          raw,
		Dir:          path.Join(segments[:len(segments)-1]...),
		Singular:     singular,
		Plural:       plural,
		Pascal:       Pascal(singular),
		PascalPlural: Pascal(plural),
		Camel:        Camel(singular),
		CamelPlural:  Camel(plural),
		Snake:        singular,
		SnakePlural:  plural,
		Kebab:        Kebab(singular),
		KebabPlural:  Kebab(plural),
	}, nil
}

func init() {
	// The default singular rules strip any trailing "s", which breaks words
	// that are already singular.
	inflect.AddSingular("ss", "ss")
	inflect.AddSingular("sis", "sis")
	inflect.AddSingular("status", "status")
	inflect.AddSingular("alias", "alias")
}

// Plural returns the plural of a snake_case or single word.
func Plural(s string) string {
	if s == "" {
		return ""
	}
	return inflect.Pluralize(s)
}

// Singular returns the singular of a snake_case or single word.
func Singular(s string) string {
	if s == "" {
		return ""
	}
	return inflect.Singularize(s)
}

// Words splits s into lower-case words. Separators are '_', '-', '.', spaces,
// lower-to-upper transitions ("userID" is user, id) and the last capital of an
// acronym run followed by a lower-case letter ("HTTPServer" is http, server).
func Words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == '.' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// Snake converts s to snake_case.
func Snake(s string) string {
	return strings.Join(Words(s), "_")
}

// Kebab converts s to kebab-case.
func Kebab(s string) string {
	return strings.Join(Words(s), "-")
}

// Pascal converts s to PascalCase.
func Pascal(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	return strings.Join(words, "")
}

// Camel converts s to camelCase.
func Camel(s string) string {
	p := Pascal(s)
	if p == "" {
		return ""
	}
	r := []rune(p)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func upperFirst(w string) string {
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
