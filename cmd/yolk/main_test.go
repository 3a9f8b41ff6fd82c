package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.eggybyte.com/yolk/internal/testingx"
	"go.eggybyte.com/yolk/internal/ui"
)

func run(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	ui.SetOutput(&out, &out)
	t.Cleanup(ui.Reset)

	code := Execute(args)
	return code, out.String()
}

func TestInitAndGenerate(t *testing.T) {
	dir := t.TempDir()

	code, out := run(t, "--cwd", dir, "init", "--orm", "mongoose", "--project-name", "blog")
	if code != 0 {
		t.Fatalf("Expected init to succeed, got %d:\n%s", code, out)
	}
	testingx.AssertFileContains(t, dir, "yolk.yaml", "orm: mongoose", "project_name: blog", "dialect: mongodb")
	if !strings.Contains(out, "[1/2] Writing yolk.yaml") || !strings.Contains(out, "[2/2] Creating project directories") {
		t.Errorf("Expected step progress in init output:\n%s", out)
	}
	for _, d := range []string{"app/controllers", "app/models", "database/migrations", "app/routes"} {
		if info, err := os.Stat(filepath.Join(dir, d)); err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s", d)
		}
	}

	code, out = run(t, "--cwd", dir, "init")
	if code != 4 {
		t.Errorf("Expected exit 4 for existing config, got %d:\n%s", code, out)
	}

	code, out = run(t, "--cwd", dir, "make:model", "post", "title:string:required", "--migration")
	if code != 0 {
		t.Fatalf("Expected make:model to succeed, got %d:\n%s", code, out)
	}
	testingx.AssertFileContains(t, dir, "app/models/Post.js", "mongoose.model('Post', postSchema)")
	migrations, err := os.ReadDir(filepath.Join(dir, "database/migrations"))
	testingx.AssertNoError(t, err)
	if len(migrations) != 1 || !strings.HasSuffix(migrations[0].Name(), "-create-posts-table.js") {
		t.Errorf("Expected one create migration, got %v", migrations)
	}

	code, _ = run(t, "--cwd", dir, "make:model", "post")
	if code != 4 {
		t.Errorf("Expected exit 4 for existing model, got %d", code)
	}

	code, out = run(t, "--cwd", dir, "make:controller", "posts", "--resource")
	if code != 0 {
		t.Fatalf("Expected make:controller to succeed, got %d:\n%s", code, out)
	}
	testingx.AssertFileContains(t, dir, "app/controllers/PostsController.js", "require('../models/Post')")

	code, out = run(t, "--cwd", dir, "make:route", "posts", "--resource", "--dry-run")
	if code != 0 {
		t.Fatalf("Expected dry run to succeed, got %d:\n%s", code, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "app/routes/posts.js")); !os.IsNotExist(err) {
		t.Error("Expected dry run not to write the route")
	}
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "missing argument", args: []string{"make:model"}, want: 2},
		{name: "invalid name", args: []string{"make:controller", "../x"}, want: 2},
		{name: "bad flag", args: []string{"make:route", "posts", "--nope"}, want: 2},
		{name: "unknown command", args: []string{"make:view", "x"}, want: 3},
		{name: "unknown orm", args: []string{"make:model", "post", "--orm", "prisma"}, want: 3},
		{name: "missing project dir", args: []string{"--cwd", filepath.Join(dir, "missing"), "make:model", "post"}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if args[0] != "--cwd" {
				args = append([]string{"--cwd", dir}, args...)
			}
			if code, out := run(t, args...); code != tt.want {
				t.Errorf("Expected exit %d, got %d:\n%s", tt.want, code, out)
			}
		})
	}
}

func TestProjectCommands(t *testing.T) {
	dir := t.TempDir()
	testingx.WriteFile(t, dir, "yolk.yaml", `orm: sequelize
commands:
  greet:
    description: Say hello
    run: echo hello
  migrate:
    run: echo shadowed
`)

	code, out := run(t, "--cwd", dir, "--json", "list")
	if code != 0 {
		t.Fatalf("Expected list to succeed, got %d:\n%s", code, out)
	}
	if !strings.Contains(out, `"name": "greet"`) || !strings.Contains(out, `"source": "user"`) {
		t.Errorf("Expected project command in listing, got:\n%s", out)
	}
	if strings.Contains(out, "echo shadowed") {
		t.Errorf("Expected shadowing command to be ignored, got:\n%s", out)
	}
}

func TestProjectCommandsDoNotLeakAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	testingx.WriteFile(t, dir, "yolk.yaml", "orm: sequelize\ncommands:\n  greet:\n    run: echo hello\n")

	code, out := run(t, "--cwd", dir, "list")
	if code != 0 || !strings.Contains(out, "greet") {
		t.Fatalf("Expected greet in first listing, got %d:\n%s", code, out)
	}

	code, out = run(t, "--cwd", t.TempDir(), "list")
	if code != 0 {
		t.Fatalf("Expected list to succeed, got %d:\n%s", code, out)
	}
	if strings.Contains(out, "greet") {
		t.Errorf("Expected greet to be gone in another project, got:\n%s", out)
	}

	code, out = run(t, "--cwd", t.TempDir(), "greet")
	if code == 0 {
		t.Errorf("Expected greet to be unknown in another project, got:\n%s", out)
	}
}

func TestORMList(t *testing.T) {
	code, out := run(t, "--cwd", t.TempDir(), "orm:list")
	if code != 0 {
		t.Fatalf("Expected orm:list to succeed, got %d:\n%s", code, out)
	}
	for _, s := range []string{"sequelize*", "mysql, mariadb, postgres, sqlite, mssql", "mongoose", "mongodb"} {
		if !strings.Contains(out, s) {
			t.Errorf("Expected %q in output:\n%s", s, out)
		}
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	if code, out := run(t, "--cwd", dir, "init"); code != 0 {
		t.Fatalf("Expected init to succeed, got %d:\n%s", code, out)
	}

	code, out := run(t, "--cwd", dir, "check")
	if code != 0 {
		t.Fatalf("Expected check to pass on a fresh project, got %d:\n%s", code, out)
	}

	testingx.WriteFile(t, dir, "app/routes/users.js", "const c = require('../controllers/UsersController');\n")
	code, out = run(t, "--cwd", dir, "check")
	if code != 2 {
		t.Errorf("Expected exit 2 for a broken require, got %d:\n%s", code, out)
	}
	if !strings.Contains(out, "Route requires missing module ../controllers/UsersController") {
		t.Errorf("Expected route finding in output:\n%s", out)
	}
}

func TestCheckCustomConfigFile(t *testing.T) {
	dir := t.TempDir()
	if code, out := run(t, "--cwd", dir, "init"); code != 0 {
		t.Fatalf("Expected init to succeed, got %d:\n%s", code, out)
	}
	if err := os.Rename(filepath.Join(dir, "yolk.yaml"), filepath.Join(dir, "other.yaml")); err != nil {
		t.Fatal(err)
	}

	code, out := run(t, "--cwd", dir, "--config", "other.yaml", "check")
	if code != 0 {
		t.Fatalf("Expected check to pass with --config other.yaml, got %d:\n%s", code, out)
	}
	if strings.Contains(out, "Configuration file missing") {
		t.Errorf("Expected no missing config finding, got:\n%s", out)
	}
}
