// Package updater implements the periodic package-update cycle: the
// update-due evaluation against the persisted day marker, the staleness
// check over the registry snapshot, and the best-effort batch installer.
package updater

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"freshen/internal/audit"
	"freshen/internal/pkgver"
	"freshen/internal/registry"
)

// Hook is a callback run before or after an update cycle, carrying the
// cycle's context. Hook errors are not absorbed; they propagate to the
// caller.
type Hook func(ctx context.Context) error

// Updater runs update cycles against an injected registry. Collaborators
// are plain fields so tests can assemble it with fakes.
type Updater struct {
	Registry registry.Manager

	// IntervalDays is the due threshold; MarkerPath is the persisted
	// last-update day marker file.
	IntervalDays int
	MarkerPath   string

	// DeleteOldVersions removes each upgraded package's previous install
	// directory after the batch completes.
	DeleteOldVersions bool

	// PreHooks and PostHooks run in order around the cycle.
	PreHooks  []Hook
	PostHooks []Hook

	// Out, when set, receives the rendered report at the end of a cycle.
	Out io.Writer

	Audit *audit.Logger

	// Now overrides the clock in tests.
	Now func() time.Time

	inFlight atomic.Bool
	oldDirs  []string
}

func (u *Updater) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func (u *Updater) log(phase, status string, packages int, msg string) {
	if u.Audit == nil {
		return
	}
	_ = u.Audit.Log(audit.Event{
		Operation: "update",
		Phase:     phase,
		Status:    status,
		Packages:  packages,
		Message:   msg,
	})
}

// UpToDate reports whether id needs no reinstall: the package must be
// installed, the snapshot must know a newest version for it, and that
// newest version must not order after the installed one. A package missing
// either side is treated as stale.
func (u *Updater) UpToDate(id string) bool {
	installed, ok := u.Registry.InstalledVersion(id)
	if !ok {
		return false
	}
	newest, ok := u.Registry.NewestVersion(id)
	if !ok {
		return false
	}
	return pkgver.Compare(newest, installed) <= 0
}

// PackagesToInstall returns the stale subset of the active package set,
// de-duplicated, preserving the snapshot's iteration order.
func (u *Updater) PackagesToInstall() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, id := range u.Registry.Active() {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if u.UpToDate(id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
