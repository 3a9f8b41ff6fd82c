package configschema

import (
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var commandNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*([:_-][a-z0-9]+)*$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// structValidator returns the shared validator with yolk's custom tags registered.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("relpath", func(fl validator.FieldLevel) bool {
			return IsProjectPath(fl.Field().String())
		})
		_ = validate.RegisterValidation("cmdname", func(fl validator.FieldLevel) bool {
			return IsValidCommandName(fl.Field().String())
		})
	})
	return validate
}

// IsProjectPath reports whether p is a relative path that stays inside the project.
func IsProjectPath(p string) bool {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return false
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

// IsValidCommandName reports whether name can be used as a user command name,
// e.g. "db:seed" or "test-e2e".
func IsValidCommandName(name string) bool {
	return commandNamePattern.MatchString(name)
}

// validateConfig runs struct-tag validation and the semantic checks that need a Schema.
func validateConfig(config *Config, schema Schema, diags *Diagnostics) {
	if err := structValidator().Struct(config); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				addFieldError(fe, diags)
			}
		} else {
			diags.AddError(err.Error(), "", "")
		}
	}

	if config.ConfigVersion != CurrentVersion {
		diags.AddWarning(fmt.Sprintf("Unknown config_version %q", config.ConfigVersion), "config_version",
			fmt.Sprintf("Set config_version to %q", CurrentVersion))
	}

	validateORM(config, schema, diags)
	validateCommands(config, schema, diags)
}

func validateORM(config *Config, schema Schema, diags *Diagnostics) {
	if config.ORM != "mongoose" && config.Mongoose.Config != "" {
		diags.AddWarning("mongoose.config is ignored unless orm is mongoose", "mongoose.config", "")
	}

	if schema.ORMs == nil || config.ORM == "" {
		return
	}

	dialects, ok := schema.ORMs[config.ORM]
	if !ok {
		diags.AddError(fmt.Sprintf("Unknown ORM %q", config.ORM), "orm",
			"Use one of: "+strings.Join(sortedKeys(schema.ORMs), ", "))
		return
	}

	if config.Database.Dialect == "" {
		return
	}
	for _, d := range dialects {
		if d == config.Database.Dialect {
			return
		}
	}
	diags.AddError(fmt.Sprintf("Dialect %q is not supported by %s", config.Database.Dialect, config.ORM),
		"database.dialect", "Use one of: "+strings.Join(dialects, ", "))
}

func validateCommands(config *Config, schema Schema, diags *Diagnostics) {
	core := make(map[string]bool, len(schema.CoreCommands))
	for _, name := range schema.CoreCommands {
		core[name] = true
	}

	names := make([]string, 0, len(config.Commands))
	for name := range config.Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if core[name] {
			diags.AddWarning(fmt.Sprintf("Command %q shadows a core command and is ignored", name),
				"commands."+name, "Rename the command")
		}
	}
}

func addFieldError(fe validator.FieldError, diags *Diagnostics) {
	path := fe.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}

	switch fe.Tag() {
	case "required":
		diags.AddError(path+" is required", path, "")
	case "oneof":
		diags.AddError(fmt.Sprintf("%s must be one of: %s", path, strings.ReplaceAll(fe.Param(), " ", ", ")), path, "")
	case "relpath":
		diags.AddError(fmt.Sprintf("%s must be a relative path inside the project, got %q", path, fe.Value()), path,
			"Remove leading '/' and '..' segments")
	case "cmdname":
		diags.AddError(fmt.Sprintf("Invalid command name %q", fe.Value()), path,
			"Use lowercase letters, digits and ':', '-' or '_' separators")
	case "lowercase":
		diags.AddError(path+" must be lowercase", path, "")
	default:
		diags.AddError(fmt.Sprintf("%s failed the %q check", path, fe.Tag()), path, "")
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
