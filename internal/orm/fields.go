package orm

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"go.eggybyte.com/yolk/internal/errors"
)

// Canonical field types.
const (
	TypeString   = "string"
	TypeText     = "text"
	TypeInteger  = "integer"
	TypeBigInt   = "bigint"
	TypeFloat    = "float"
	TypeDecimal  = "decimal"
	TypeBoolean  = "boolean"
	TypeDate     = "date"
	TypeDateTime = "datetime"
	TypeUUID     = "uuid"
	TypeJSON     = "json"
	TypeRef      = "ref"
)

var typeAliases = map[string]string{
	"string":   TypeString,
	"text":     TypeText,
	"integer":  TypeInteger,
	"int":      TypeInteger,
	"bigint":   TypeBigInt,
	"float":    TypeFloat,
	"decimal":  TypeDecimal,
	"boolean":  TypeBoolean,
	"bool":     TypeBoolean,
	"date":     TypeDate,
	"datetime": TypeDateTime,
	"uuid":     TypeUUID,
	"json":     TypeJSON,
	"ref":      TypeRef,
	"objectid": TypeRef,
}

// refTypes may carry ref=<Model>.
var refTypes = map[string]bool{
	TypeRef:     true,
	TypeInteger: true,
	TypeBigInt:  true,
	TypeUUID:    true,
}

// reservedFields are generated by every model and migration.
var reservedFields = map[string]bool{
	"id":        true,
	"_id":       true,
	"createdAt": true,
	"updatedAt": true,
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Field is one model attribute.
type Field struct {
	Name       string
	Type       string // Canonical type
	Required   bool
	Unique     bool
	Default    string
	HasDefault bool
	Ref        string // Referenced model for ref types
	Expr       string // ORM-specific definition, filled by the adapter
}

// ParseFieldSpec parses "name:type[:modifier]*" items separated by commas or whitespace.
// A missing type means string. Modifiers are required, unique, default=<v> and ref=<Model>.
//
// Parameters:
//   - spec: Field spec, e.g. "title:string:required, body:text author:ref:ref=User"
//
// Returns:
//   - []Field: Parsed fields in input order (Expr left empty)
//   - error: INVALID_ARGUMENT for bad names, unknown types or modifiers, and duplicates
func ParseFieldSpec(spec string) ([]Field, error) {
	items := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	fields := make([]Field, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		field, err := parseField(item)
		if err != nil {
			return nil, err
		}
		if seen[field.Name] {
			return nil, errors.Newf(errors.CodeInvalidArgument, "duplicate field %q", field.Name)
		}
		seen[field.Name] = true
		fields = append(fields, field)
	}
	return fields, nil
}

func parseField(item string) (Field, error) {
	parts := strings.Split(item, ":")
	name := parts[0]
	if !identPattern.MatchString(name) {
		return Field{}, errors.Newf(errors.CodeInvalidArgument, "invalid field name %q", name)
	}
	if reservedFields[name] {
		return Field{}, errors.Newf(errors.CodeInvalidArgument, "field %q is generated automatically", name)
	}

	field := Field{Name: name, Type: TypeString}
	if len(parts) > 1 && parts[1] != "" {
		canonical, ok := typeAliases[strings.ToLower(parts[1])]
		if !ok {
			return Field{}, errors.Newf(errors.CodeInvalidArgument, "unknown type %q for field %q (known: %s)",
				parts[1], name, strings.Join(KnownTypes(), ", "))
		}
		field.Type = canonical
	}

	for _, mod := range parts[min(2, len(parts)):] {
		key, value, hasValue := strings.Cut(mod, "=")
		switch strings.ToLower(key) {
		case "required":
			field.Required = true
		case "unique":
			field.Unique = true
		case "default":
			if !hasValue {
				return Field{}, errors.Newf(errors.CodeInvalidArgument, "field %q: default needs a value (default=<v>)", name)
			}
			field.Default = value
			field.HasDefault = true
		case "ref":
			if value == "" {
				return Field{}, errors.Newf(errors.CodeInvalidArgument, "field %q: ref needs a model (ref=<Model>)", name)
			}
			field.Ref = value
		default:
			return Field{}, errors.Newf(errors.CodeInvalidArgument, "field %q: unknown modifier %q", name, mod)
		}
	}

	if field.Type == TypeRef && field.Ref == "" {
		return Field{}, errors.Newf(errors.CodeInvalidArgument, "field %q: ref type requires ref=<Model>", name)
	}
	if field.Ref != "" && !refTypes[field.Type] {
		return Field{}, errors.Newf(errors.CodeInvalidArgument, "field %q: type %s cannot reference a model", name, field.Type)
	}
	if field.HasDefault {
		if err := checkDefault(field); err != nil {
			return Field{}, err
		}
	}
	return field, nil
}

func checkDefault(f Field) error {
	switch f.Type {
	case TypeInteger, TypeBigInt, TypeFloat, TypeDecimal:
		if !numberPattern.MatchString(f.Default) {
			return errors.Newf(errors.CodeInvalidArgument, "field %q: default %q is not a number", f.Name, f.Default)
		}
	case TypeBoolean:
		if f.Default != "true" && f.Default != "false" {
			return errors.Newf(errors.CodeInvalidArgument, "field %q: default %q is not true or false", f.Name, f.Default)
		}
	}
	return nil
}

var numberPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// KnownTypes returns the canonical field types.
func KnownTypes() []string {
	return []string{TypeString, TypeText, TypeInteger, TypeBigInt, TypeFloat, TypeDecimal,
		TypeBoolean, TypeDate, TypeDateTime, TypeUUID, TypeJSON, TypeRef}
}

// JSString quotes s as a single-quoted JavaScript string literal.
func JSString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}

// DefaultLiteral renders f.Default as a JavaScript literal for f's type.
func DefaultLiteral(f Field) string {
	switch f.Type {
	case TypeInteger, TypeBigInt, TypeFloat, TypeDecimal, TypeBoolean:
		return f.Default
	default:
		return JSString(f.Default)
	}
}

// Indent prefixes every non-empty line of s with n spaces.
func Indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// FieldNames returns the names of fields.
func FieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// String renders f back in spec form.
func (f Field) String() string {
	s := fmt.Sprintf("%s:%s", f.Name, f.Type)
	if f.Required {
		s += ":required"
	}
	if f.Unique {
		s += ":unique"
	}
	if f.HasDefault {
		s += ":default=" + f.Default
	}
	if f.Ref != "" {
		s += ":ref=" + f.Ref
	}
	return s
}
