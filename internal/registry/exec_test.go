package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"freshen/internal/config"
	"freshen/internal/pkgver"
)

// fakeRunner returns canned output per command name and records every
// invocation.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   [][]string
}

func (r *fakeRunner) key(argv []string) string { return strings.Join(argv, " ") }

func (r *fakeRunner) Run(ctx context.Context, argv []string) error {
	r.calls = append(r.calls, argv)
	if err, ok := r.errs[r.key(argv)]; ok {
		return err
	}
	return nil
}

func (r *fakeRunner) Output(ctx context.Context, argv []string) ([]byte, error) {
	r.calls = append(r.calls, argv)
	if err, ok := r.errs[r.key(argv)]; ok {
		return nil, err
	}
	return []byte(r.outputs[r.key(argv)]), nil
}

func testConfig() config.RegistryConfig {
	return config.RegistryConfig{
		Refresh:     []string{"pm", "refresh"},
		List:        []string{"pm", "list"},
		Newest:      []string{"pm", "outdated"},
		Install:     []string{"pm", "install"},
		PackagesDir: "/pkgs",
	}
}

func TestRefreshParsesSnapshot(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"pm list":     "# installed\nalpha 1.2.0\nbeta 0.9\n\n",
		"pm outdated": "alpha v1.3.0-rc.1\ngamma 2.0.0\n",
	}}
	e := &Exec{Config: testConfig(), Runner: runner}

	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := e.Active(); len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("Active() = %v, want [alpha beta]", got)
	}
	if v, ok := e.InstalledVersion("beta"); !ok || v.String() != "0.9" {
		t.Fatalf("InstalledVersion(beta) = (%v, %v)", v, ok)
	}
	if v, ok := e.NewestVersion("alpha"); !ok || v.String() != "1.3.0" {
		t.Fatalf("NewestVersion(alpha) should canonicalize semver, got (%v, %v)", v, ok)
	}
	if _, ok := e.NewestVersion("beta"); ok {
		t.Fatalf("beta has no upstream entry")
	}
	// refresh command ran before the listings
	if len(runner.calls) != 3 || runner.key(runner.calls[0]) != "pm refresh" {
		t.Fatalf("unexpected call order: %v", runner.calls)
	}
}

func TestRefreshOptionalRefreshCommand(t *testing.T) {
	cfg := testConfig()
	cfg.Refresh = nil
	runner := &fakeRunner{outputs: map[string]string{
		"pm list":     "",
		"pm outdated": "",
	}}
	e := &Exec{Config: cfg, Runner: runner}
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh without refresh command: %v", err)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected only the two listings to run: %v", runner.calls)
	}
}

func TestRefreshRejectsMalformedListing(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"pm list":     "alpha\n",
		"pm outdated": "",
	}}
	e := &Exec{Config: testConfig(), Runner: runner}
	err := e.Refresh(context.Background())
	if err == nil || !strings.Contains(err.Error(), "REG_LIST_PARSE") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestRefreshPropagatesBackendFailure(t *testing.T) {
	boom := errors.New("registry unreachable")
	runner := &fakeRunner{errs: map[string]error{"pm refresh": boom}}
	e := &Exec{Config: testConfig(), Runner: runner}
	err := e.Refresh(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}

func TestInstallAppendsPackageID(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"pm list":     "alpha 1.0.0\n",
		"pm outdated": "alpha 2.0.0\n",
	}}
	e := &Exec{Config: testConfig(), Runner: runner}
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := e.Install(context.Background(), "alpha"); err != nil {
		t.Fatalf("install: %v", err)
	}
	last := runner.calls[len(runner.calls)-1]
	if runner.key(last) != "pm install alpha" {
		t.Fatalf("install argv = %v", last)
	}
	// snapshot now reflects the upgrade
	if v, _ := e.InstalledVersion("alpha"); v.String() != "2.0.0" {
		t.Fatalf("installed version after install = %v", v)
	}
}

func TestInstallFailureWrapsPackageID(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{"pm install alpha": fmt.Errorf("exit 1")}}
	e := &Exec{Config: testConfig(), Runner: runner}
	err := e.Install(context.Background(), "alpha")
	if err == nil || !strings.Contains(err.Error(), "alpha") {
		t.Fatalf("expected package id in error, got %v", err)
	}
}

func TestInstallDir(t *testing.T) {
	e := &Exec{Config: testConfig(), installed: map[string]pkgver.Version{
		"alpha": {1, 2, 0},
	}}
	dir, ok := e.InstallDir("alpha")
	if !ok || dir != "/pkgs/alpha-1.2.0" {
		t.Fatalf("InstallDir(alpha) = (%q, %v)", dir, ok)
	}
	if _, ok := e.InstallDir("missing"); ok {
		t.Fatalf("uninstalled package should have no install dir")
	}

	noDir := &Exec{Config: config.RegistryConfig{}, installed: map[string]pkgver.Version{"alpha": {1}}}
	if _, ok := noDir.InstallDir("alpha"); ok {
		t.Fatalf("backend without packages_dir should report no install dir")
	}
}
