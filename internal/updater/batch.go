package updater

import (
	"context"
	"fmt"
	"os"
)

// InstallBatch attempts to install each package independently, in input
// order. Install failures are absorbed into per-package report lines and
// never abort the batch. When old-version cleanup is enabled, each
// package's previous install directory is recorded before the attempt and
// every recorded directory is deleted after the whole batch; deletion
// failures are absorbed into the report as well, and the recorded list is
// cleared unconditionally.
func (u *Updater) InstallBatch(ctx context.Context, pkgs []string) Report {
	rep := Report{Header: ReportHeader}
	u.oldDirs = u.oldDirs[:0]
	defer func() { u.oldDirs = nil }()

	for _, id := range pkgs {
		if u.DeleteOldVersions {
			if dir, ok := u.Registry.InstallDir(id); ok {
				u.oldDirs = append(u.oldDirs, dir)
			}
		}
		res := Result{Package: id}
		if from, ok := u.Registry.InstalledVersion(id); ok {
			res.From = from.String()
		}
		if to, ok := u.Registry.NewestVersion(id); ok {
			res.To = to.String()
		}
		if err := u.Registry.Install(ctx, id); err != nil {
			res.Error = err.Error()
		} else {
			res.Installed = true
		}
		rep.Results = append(rep.Results, res)
	}

	if u.DeleteOldVersions {
		for _, dir := range u.oldDirs {
			if err := os.RemoveAll(dir); err != nil {
				rep.Cleanup = append(rep.Cleanup, fmt.Sprintf("%s: %v", dir, err))
			}
		}
	}
	return rep
}
