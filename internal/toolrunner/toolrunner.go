// Package toolrunner executes the external tools yolk delegates to.
//
// Overview:
//   - Responsibility: Run npx (sequelize-cli, migrate-mongo), node and user shell scripts
//   - Key Types: Executor interface, Runner, CommandResult, Recorder (test double)
//   - Concurrency Model: Sequential command execution with context support
//   - Error Semantics: UNAVAILABLE when the tool is not on PATH, INTERNAL with the
//     command line and stderr tail when the tool exits non-zero
//
// Usage:
//
//	runner := toolrunner.NewRunner(root, logger)
//	runner.SetEnv(env)
//	result, err := runner.Npx(ctx, "sequelize-cli", "db:migrate")
package toolrunner

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/log"
)

// stderrTailLines bounds how much stderr is copied into an error message.
const stderrTailLines = 8

// Executor runs external commands.
type Executor interface {
	// Exec runs name with args in the project directory.
	Exec(ctx context.Context, name string, args ...string) (*CommandResult, error)

	// Npx runs a package binary through npx.
	Npx(ctx context.Context, args ...string) (*CommandResult, error)

	// Shell runs script through the platform shell with args as positional parameters.
	Shell(ctx context.Context, script string, args ...string) (*CommandResult, error)
}

// CommandResult represents the result of a command execution.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner provides execution of external tools.
type Runner struct {
	workDir string
	env     []string
	stdout  io.Writer
	stderr  io.Writer
	logger  log.Logger
}

// NewRunner creates a new tool runner.
//
// Parameters:
//   - workDir: Working directory for commands
//   - logger: Logger for command tracing (nil means discard)
//
// Returns:
//   - *Runner: Tool runner instance
func NewRunner(workDir string, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.Nop()
	}
	return &Runner{
		workDir: workDir,
		logger:  logger,
	}
}

// SetEnv sets the complete environment for child processes.
// A nil env inherits the current process environment.
func (r *Runner) SetEnv(env []string) {
	r.env = env
}

// SetStream mirrors child output to the given writers while it is captured.
func (r *Runner) SetStream(stdout, stderr io.Writer) {
	r.stdout = stdout
	r.stderr = stderr
}

// WorkDir returns the working directory for commands.
func (r *Runner) WorkDir() string {
	return r.workDir
}

// Exec runs an arbitrary command.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Command name, resolved through PATH
//   - args: Command arguments
//
// Returns:
//   - *CommandResult: Command execution result (also returned on failure when the process ran)
//   - error: UNAVAILABLE when the tool is missing, INTERNAL on non-zero exit
func (r *Runner) Exec(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	line := commandLine(name, args)

	if _, err := exec.LookPath(name); err != nil {
		return nil, errors.Wrapf(errors.CodeUnavailable, "toolrunner.exec", err, "%s is not installed or not on PATH", name)
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.workDir
	if r.env != nil {
		cmd.Env = r.env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = teeWriter(&stdout, r.stdout)
	cmd.Stderr = teeWriter(&stderr, r.stderr)

	r.logger.Debug("running command", log.Str("cmd", line), log.Str("dir", r.workDir))

	err := cmd.Run()
	result := &CommandResult{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	r.logger.Debug("command finished", log.Str("cmd", line),
		log.Int("exit_code", result.ExitCode), log.Dur("took", result.Duration))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, errors.Wrapf(errors.CodeUnavailable, "toolrunner.exec", ctxErr, "%s was interrupted", line)
	}
	if err != nil {
		msg := line + " failed"
		if tail := Tail(result.Stderr, stderrTailLines); tail != "" {
			msg += ":\n" + redactSecrets(tail, args)
		}
		return result, errors.Build(errors.CodeInternal).WithOp("toolrunner.exec").WithErr(err).WithMsg(msg).Err()
	}

	return result, nil
}

// Npx runs a package binary through npx.
func (r *Runner) Npx(ctx context.Context, args ...string) (*CommandResult, error) {
	return r.Exec(ctx, npxBinary(), args...)
}

// Shell runs a script through sh (cmd.exe on Windows).
// On sh the args become $1..$n; on Windows they are appended to the script.
func (r *Runner) Shell(ctx context.Context, script string, args ...string) (*CommandResult, error) {
	if runtime.GOOS == "windows" {
		full := strings.TrimSpace(script + " " + strings.Join(args, " "))
		return r.Exec(ctx, "cmd", "/C", full)
	}
	return r.Exec(ctx, "sh", append([]string{"-c", script, "yolk"}, args...)...)
}

// Version runs "<tool> <flag>" and returns the trimmed first line of output.
func (r *Runner) Version(ctx context.Context, tool, flag string) (string, error) {
	result, err := r.Exec(ctx, tool, flag)
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(result.Stdout)
	if out == "" {
		out = strings.TrimSpace(result.Stderr)
	}
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	return out, nil
}

// CheckToolAvailability reports whether a tool is on PATH.
func CheckToolAvailability(toolName string) (bool, error) {
	if _, err := exec.LookPath(toolName); err != nil {
		return false, errors.Newf(errors.CodeUnavailable, "tool not found in PATH: %s", toolName)
	}
	return true, nil
}

// Tail returns the last n non-empty lines of s.
func Tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\r\n"), "\n")
	var kept []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, strings.TrimRight(l, "\r"))
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "\n")
}

func npxBinary() string {
	if runtime.GOOS == "windows" {
		return "npx.cmd"
	}
	return "npx"
}

func teeWriter(buf *bytes.Buffer, stream io.Writer) io.Writer {
	if stream == nil {
		return buf
	}
	return io.MultiWriter(buf, stream)
}

// commandLine renders a command for logs and errors with URL passwords masked.
func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	shown := make([]string, len(args))
	for i, a := range args {
		shown[i] = redactArg(a)
	}
	return name + " " + strings.Join(shown, " ")
}

// redactArg masks the password of a URL argument, bare or as "--flag=url".
func redactArg(arg string) string {
	prefix, value := "", arg
	if key, v, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(key, "-") {
		prefix, value = key+"=", v
	}
	if !strings.Contains(value, "://") {
		return arg
	}
	u, err := url.Parse(value)
	if err != nil || u.User == nil {
		return arg
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return arg
	}
	return prefix + u.Redacted()
}

// redactSecrets replaces every secret-bearing argument echoed in s.
func redactSecrets(s string, args []string) string {
	for _, a := range args {
		if r := redactArg(a); r != a {
			s = strings.ReplaceAll(s, a, r)
		}
	}
	return s
}
