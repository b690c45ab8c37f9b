// Package registry abstracts the external package manager freshen drives:
// the snapshot of installed and newest-known versions, and the install
// operation. The updater only ever sees this capability surface, never the
// backend process, so it can be tested against fakes.
package registry

import (
	"context"

	"freshen/internal/pkgver"
)

// Manager is the capability surface the updater needs from the host
// package manager.
type Manager interface {
	// Refresh re-reads the registry snapshot: the active package set with
	// installed versions, and the newest versions known upstream. Later
	// lookups answer from this snapshot.
	Refresh(ctx context.Context) error

	// Active lists the package ids of the current snapshot in a stable
	// iteration order. Ids may repeat if the backend reports them twice;
	// callers de-duplicate.
	Active() []string

	// InstalledVersion reports the installed version of id, if installed.
	InstalledVersion(id string) (pkgver.Version, bool)

	// NewestVersion reports the newest version of id known upstream, if
	// the snapshot has an entry for it.
	NewestVersion(id string) (pkgver.Version, bool)

	// Install installs or upgrades one package to the newest known
	// version.
	Install(ctx context.Context, id string) error

	// InstallDir reports the directory holding the currently installed
	// version of id, when the backend exposes per-version directories.
	InstallDir(id string) (string, bool)
}
