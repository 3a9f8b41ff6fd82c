package orm

import (
	"strings"

	"go.eggybyte.com/yolk/internal/naming"
)

// MigrationKind classifies what a migration does.
type MigrationKind string

// Migration kinds inferred from migration names.
const (
	KindCreate        MigrationKind = "create"
	KindAddColumns    MigrationKind = "add_columns"
	KindRemoveColumns MigrationKind = "remove_columns"
	KindDrop          MigrationKind = "drop"
	KindRename        MigrationKind = "rename"
	KindBlank         MigrationKind = "blank"
)

// MigrationIntent is the inferred purpose of a migration.
type MigrationIntent struct {
	Kind     MigrationKind
	Table    string   // Target table or collection
	Columns  []string // Columns named in add/remove migrations
	NewTable string   // Rename target
}

// InferMigration derives a MigrationIntent from a migration name.
//
//	create_users_table         -> Create users
//	add_email_and_age_to_users -> AddColumns users [email age]
//	remove_age_from_users      -> RemoveColumns users [age]
//	drop_sessions              -> Drop sessions
//	rename_users_to_members    -> Rename users members
//
// Anything else is Blank.
func InferMigration(name string) MigrationIntent {
	snake := naming.Snake(name)
	blank := MigrationIntent{Kind: KindBlank}

	switch {
	case strings.HasPrefix(snake, "create_"):
		table := tableName(strings.TrimPrefix(snake, "create_"))
		if table == "" {
			return blank
		}
		return MigrationIntent{Kind: KindCreate, Table: table}

	case strings.HasPrefix(snake, "add_"):
		cols, table, ok := splitLast(strings.TrimPrefix(snake, "add_"), "_to_")
		if !ok {
			return blank
		}
		return MigrationIntent{Kind: KindAddColumns, Table: table, Columns: splitColumns(cols)}

	case strings.HasPrefix(snake, "remove_"):
		cols, table, ok := splitLast(strings.TrimPrefix(snake, "remove_"), "_from_")
		if !ok {
			return blank
		}
		return MigrationIntent{Kind: KindRemoveColumns, Table: table, Columns: splitColumns(cols)}

	case strings.HasPrefix(snake, "drop_"):
		table := tableName(strings.TrimPrefix(snake, "drop_"))
		if table == "" {
			return blank
		}
		return MigrationIntent{Kind: KindDrop, Table: table}

	case strings.HasPrefix(snake, "rename_"):
		from, to, ok := strings.Cut(strings.TrimPrefix(snake, "rename_"), "_to_")
		from, to = tableName(from), tableName(to)
		if !ok || from == "" || to == "" {
			return blank
		}
		return MigrationIntent{Kind: KindRename, Table: from, NewTable: to}
	}

	return blank
}

// WithTable applies an explicit table. An empty table leaves the intent unchanged.
// Intents that still have no table become Blank.
func (i MigrationIntent) WithTable(table string) MigrationIntent {
	if table != "" {
		i.Table = table
	}
	if i.Table == "" && i.Kind != KindBlank {
		return MigrationIntent{Kind: KindBlank}
	}
	return i
}

func splitLast(s, sep string) (string, string, bool) {
	idx := strings.LastIndex(s, sep)
	if idx <= 0 {
		return "", "", false
	}
	head := s[:idx]
	table := tableName(s[idx+len(sep):])
	if head == "" || table == "" {
		return "", "", false
	}
	return head, table, true
}

func splitColumns(s string) []string {
	var cols []string
	for _, c := range strings.Split(s, "_and_") {
		if c = strings.Trim(c, "_"); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

func tableName(s string) string {
	s = strings.Trim(s, "_")
	if s == "table" {
		return ""
	}
	return strings.TrimSuffix(s, "_table")
}
