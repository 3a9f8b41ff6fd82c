package orm

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/testingx"
)

type fakeAdapter struct {
	name      string
	databases []string
}

func (f fakeAdapter) Name() string                                   { return f.name }
func (f fakeAdapter) Databases() []string                            { return f.databases }
func (f fakeAdapter) ParseModelFields(spec string) ([]Field, error) { return ParseFieldSpec(spec) }
func (f fakeAdapter) CreateMigration(MigrationRequest) (*MigrationFile, error) {
	return &MigrationFile{}, nil
}
func (f fakeAdapter) Migrate(context.Context, MigrateOptions) error   { return nil }
func (f fakeAdapter) Rollback(context.Context, RollbackOptions) error { return nil }
func (f fakeAdapter) DatabaseConnection(context.Context, DatabaseConfig) (Connection, error) {
	return nil, errors.New(errors.CodeUnimplemented, "fake")
}
func (f fakeAdapter) ModelDefinition([]Field) string { return "" }
func (f fakeAdapter) ControllerStyle() string        { return f.name }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	testingx.AssertNoError(t, r.Register(fakeAdapter{name: "sequelize", databases: []string{"postgres", "sqlite"}}))
	testingx.AssertNoError(t, r.Register(fakeAdapter{name: "Mongoose", databases: []string{"mongodb"}}))
	return r
}

func TestRegistryRegister(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Register(fakeAdapter{name: "SEQUELIZE"})
	testingx.AssertError(t, err, errors.CodeAlreadyExists)

	err = r.Register(fakeAdapter{name: " "})
	testingx.AssertError(t, err, errors.CodeInvalidArgument)

	if got := r.Names(); !reflect.DeepEqual(got, []string{"mongoose", "sequelize"}) {
		t.Errorf("Expected sorted lower-case names, got %v", got)
	}
}

func TestRegistryGet(t *testing.T) {
	r := newTestRegistry(t)

	a, err := r.Get("MONGOOSE")
	testingx.AssertNoError(t, err)
	if a.Name() != "Mongoose" {
		t.Errorf("Expected mongoose adapter, got %s", a.Name())
	}

	_, err = r.Get("typeorm")
	testingx.AssertError(t, err, errors.CodeNotFound)
	if !strings.Contains(err.Error(), "mongoose, sequelize") {
		t.Errorf("Expected known names in error, got %v", err)
	}
}

func TestRegistryResolve(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name       string
		flag       string
		configured string
		want       string
	}{
		{name: "flag wins", flag: "mongoose", configured: "sequelize", want: "Mongoose"},
		{name: "config used", configured: "mongoose", want: "Mongoose"},
		{name: "default", want: "sequelize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := r.Resolve(tt.flag, tt.configured)
			testingx.AssertNoError(t, err)
			if a.Name() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, a.Name())
			}
		})
	}

	_, err := r.Resolve("nope", "mongoose")
	testingx.AssertError(t, err, errors.CodeNotFound)
}

func TestRegistryDialects(t *testing.T) {
	r := newTestRegistry(t)

	dialects := r.Dialects()
	if !reflect.DeepEqual(dialects["mongoose"], []string{"mongodb"}) {
		t.Errorf("Unexpected dialects: %v", dialects)
	}
	if !r.Supports("sequelize", "SQLite") {
		t.Error("Expected sequelize to support sqlite")
	}
	if r.Supports("mongoose", "postgres") || r.Supports("nope", "postgres") {
		t.Error("Expected unsupported combinations to be rejected")
	}
}
