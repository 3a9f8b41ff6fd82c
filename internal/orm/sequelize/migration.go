package sequelize

import (
	"fmt"
	"strings"

	"go.eggybyte.com/yolk/internal/orm"
)

const idColumn = `id: {
  allowNull: false,
  autoIncrement: true,
  primaryKey: true,
  type: Sequelize.INTEGER,
},`

const timestampColumns = `createdAt: {
  allowNull: false,
  type: Sequelize.DATE,
},
updatedAt: {
  allowNull: false,
  type: Sequelize.DATE,
},`

// migrationBody returns the up and down function bodies for intent, unindented.
func migrationBody(intent orm.MigrationIntent, fields []orm.Field) (string, string) {
	table := orm.JSString(intent.Table)

	switch intent.Kind {
	case orm.KindCreate:
		return createTable(intent.Table, fields),
			fmt.Sprintf("await queryInterface.dropTable(%s);", table)

	case orm.KindAddColumns:
		cols := columnsFor(intent, fields)
		var up, down []string
		for _, f := range cols {
			up = append(up, addColumn(intent.Table, f))
		}
		for i := len(cols) - 1; i >= 0; i-- {
			down = append(down, fmt.Sprintf("await queryInterface.removeColumn(%s, %s);", table, orm.JSString(cols[i].Name)))
		}
		return strings.Join(up, "\n"), strings.Join(down, "\n")

	case orm.KindRemoveColumns:
		cols := columnsFor(intent, fields)
		var up, down []string
		for _, f := range cols {
			up = append(up, fmt.Sprintf("await queryInterface.removeColumn(%s, %s);", table, orm.JSString(f.Name)))
		}
		for i := len(cols) - 1; i >= 0; i-- {
			down = append(down, addColumn(intent.Table, cols[i]))
		}
		return strings.Join(up, "\n"), strings.Join(down, "\n")

	case orm.KindDrop:
		return fmt.Sprintf("await queryInterface.dropTable(%s);", table),
			createTable(intent.Table, fields)

	case orm.KindRename:
		return fmt.Sprintf("await queryInterface.renameTable(%s, %s);", table, orm.JSString(intent.NewTable)),
			fmt.Sprintf("await queryInterface.renameTable(%s, %s);", orm.JSString(intent.NewTable), table)
	}

	return blankBody(intent.Table, "up"), blankBody(intent.Table, "down")
}

func createTable(table string, fields []orm.Field) string {
	columns := []string{orm.Indent(idColumn, 2)}
	for _, f := range fields {
		columns = append(columns, orm.Indent(columnDefinition(f, "Sequelize"), 2))
	}
	columns = append(columns, orm.Indent(timestampColumns, 2))

	return fmt.Sprintf("await queryInterface.createTable(%s, {\n%s\n});", orm.JSString(table), strings.Join(columns, "\n"))
}

func addColumn(table string, f orm.Field) string {
	def := columnDefinition(f, "Sequelize")
	// Drop the "name: " prefix and the trailing comma to get the bare options object.
	def = strings.TrimSuffix(strings.TrimPrefix(def, f.Name+": "), ",")
	return fmt.Sprintf("await queryInterface.addColumn(%s, %s, %s);", orm.JSString(table), orm.JSString(f.Name), def)
}

// columnsFor returns fields when given, otherwise string columns named by the intent.
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

func blankBody(table, direction string) string {
	target := "users"
	if table != "" {
		target = table
	}
	if direction == "up" {
		return fmt.Sprintf(`/**
 * Add altering commands here.
 *
 * Example:
 * await queryInterface.createTable(%s, { id: Sequelize.INTEGER });
 */`, orm.JSString(target))
	}
	return fmt.Sprintf(`/**
 * Add reverting commands here.
 *
 * Example:
 * await queryInterface.dropTable(%s);
 */`, orm.JSString(target))
}
