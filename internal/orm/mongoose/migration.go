package mongoose

import (
	"fmt"
	"strings"

	"go.eggybyte.com/yolk/internal/orm"
)

// migrationBody returns the up and down function bodies for intent, unindented.
func migrationBody(intent orm.MigrationIntent, fields []orm.Field) (string, string) {
	coll := orm.JSString(intent.Table)

	switch intent.Kind {
	case orm.KindCreate:
		up := []string{fmt.Sprintf("await db.createCollection(%s);", coll)}
		for _, f := range fields {
			if f.Unique {
				up = append(up, fmt.Sprintf("await db.collection(%s).createIndex({ %s: 1 }, { unique: true });", coll, f.Name))
			}
		}
		return strings.Join(up, "\n"), fmt.Sprintf("await db.collection(%s).drop();", coll)

	case orm.KindAddColumns:
		cols := columnsFor(intent, fields)
		return updateAll(intent.Table, "$set", setValues(cols)),
			updateAll(intent.Table, "$unset", unsetValues(cols))

	case orm.KindRemoveColumns:
		cols := columnsFor(intent, fields)
		return updateAll(intent.Table, "$unset", unsetValues(cols)),
			"// Removed field values cannot be restored."

	case orm.KindDrop:
		return fmt.Sprintf("await db.collection(%s).drop();", coll),
			fmt.Sprintf("await db.createCollection(%s);", coll)

	case orm.KindRename:
		newColl := orm.JSString(intent.NewTable)
		return fmt.Sprintf("await db.collection(%s).rename(%s);", coll, newColl),
			fmt.Sprintf("await db.collection(%s).rename(%s);", newColl, coll)
	}

	target := "albums"
	if intent.Table != "" {
		target = intent.Table
	}
	up := fmt.Sprintf(`// Write your migration here.
// Example:
// await db.collection(%s).updateOne({ artist: 'The Beatles' }, { $set: { blacklisted: true } });`, orm.JSString(target))
	down := fmt.Sprintf(`// Write the statements to roll back your migration (if possible).
// Example:
// await db.collection(%s).updateOne({ artist: 'The Beatles' }, { $set: { blacklisted: false } });`, orm.JSString(target))
	return up, down
}

func updateAll(collection, operator, values string) string {
	return fmt.Sprintf("await db.collection(%s).updateMany({}, { %s: { %s } });", orm.JSString(collection), operator, values)
}

func setValues(cols []orm.Field) string {
	parts := make([]string, len(cols))
	for i, f := range cols {
		value := "null"
		if f.HasDefault {
			value = orm.DefaultLiteral(f)
		}
		parts[i] = fmt.Sprintf("%s: %s", f.Name, value)
	}
	return strings.Join(parts, ", ")
}

func unsetValues(cols []orm.Field) string {
	parts := make([]string, len(cols))
	for i, f := range cols {
		parts[i] = fmt.Sprintf("%s: ''", f.Name)
	}
	return strings.Join(parts, ", ")
}

// columnsFor returns fields when given, otherwise string fields named by the intent.
func columnsFor(intent orm.MigrationIntent, fields []orm.Field) []orm.Field {
	if len(fields) > 0 {
		return fields
	}
	cols := make([]orm.Field, 0, len(intent.Columns))
	for _, c := range intent.Columns {
		cols = append(cols, orm.Field{Name: c, Type: orm.TypeString})
	}
	return cols
}
