package registry

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"freshen/internal/config"
	"freshen/internal/pkgver"
)

// Runner executes backend commands. The default implementation shells out;
// tests substitute canned output.
type Runner interface {
	Run(ctx context.Context, argv []string) error
	Output(ctx context.Context, argv []string) ([]byte, error)
}

type execRunner struct{}

func (r execRunner) Run(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return err
		}
		return fmt.Errorf("%w: %s", err, msg)
	}
	return nil
}

func (r execRunner) Output(ctx context.Context, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

// Exec drives an external package manager through configured argv
// templates. Refresh runs the refresh command, then parses the list and
// newest listings into an in-memory snapshot.
type Exec struct {
	Config config.RegistryConfig
	Runner Runner

	order     []string
	installed map[string]pkgver.Version
	newest    map[string]pkgver.Version
}

func NewExec(cfg config.RegistryConfig) *Exec {
	return &Exec{Config: cfg, Runner: execRunner{}}
}

func (e *Exec) Refresh(ctx context.Context) error {
	if len(e.Config.Refresh) > 0 {
		if err := e.Runner.Run(ctx, e.Config.Refresh); err != nil {
			return fmt.Errorf("REG_REFRESH: %w", err)
		}
	}
	installed, order, err := e.listing(ctx, e.Config.List, "REG_LIST")
	if err != nil {
		return err
	}
	newest, _, err := e.listing(ctx, e.Config.Newest, "REG_NEWEST")
	if err != nil {
		return err
	}
	e.installed = installed
	e.order = order
	e.newest = newest
	return nil
}

// listing runs argv and parses "name version" lines. Blank lines and
// lines starting with '#' are skipped.
func (e *Exec) listing(ctx context.Context, argv []string, code string) (map[string]pkgver.Version, []string, error) {
	out, err := e.Runner.Output(ctx, argv)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", code, err)
	}
	versions := make(map[string]pkgver.Version)
	var order []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("%s_PARSE: malformed line %q", code, line)
		}
		v, err := pkgver.FromReported(fields[1])
		if err != nil {
			return nil, nil, fmt.Errorf("%s_PARSE: package %s: %w", code, fields[0], err)
		}
		order = append(order, fields[0])
		versions[fields[0]] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s_PARSE: %w", code, err)
	}
	return versions, order, nil
}

func (e *Exec) Active() []string {
	return e.order
}

func (e *Exec) InstalledVersion(id string) (pkgver.Version, bool) {
	v, ok := e.installed[id]
	return v, ok
}

func (e *Exec) NewestVersion(id string) (pkgver.Version, bool) {
	v, ok := e.newest[id]
	return v, ok
}

func (e *Exec) Install(ctx context.Context, id string) error {
	argv := append(append([]string{}, e.Config.Install...), id)
	if err := e.Runner.Run(ctx, argv); err != nil {
		return fmt.Errorf("REG_INSTALL: %s: %w", id, err)
	}
	if v, ok := e.newest[id]; ok && e.installed != nil {
		e.installed[id] = v
	}
	return nil
}

func (e *Exec) InstallDir(id string) (string, bool) {
	if e.Config.PackagesDir == "" {
		return "", false
	}
	v, ok := e.installed[id]
	if !ok {
		return "", false
	}
	return filepath.Join(e.Config.PackagesDir, id+"-"+v.String()), true
}
