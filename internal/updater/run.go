package updater

import (
	"context"
	"errors"
	"fmt"

	"freshen/internal/store"
)

// ErrUpdateInFlight is returned when a cycle is started while another one
// is still running, e.g. a timer firing during a manual update.
var ErrUpdateInFlight = errors.New("UPD_IN_FLIGHT: an update cycle is already running")

// Run performs one unconditional update cycle: pre-hooks, registry
// refresh, batch install of the stale set, marker rewrite, report render,
// post-hooks. The marker is written after every completed batch, even when
// individual installs failed. Refresh and hook errors propagate and leave
// the marker untouched.
func (u *Updater) Run(ctx context.Context) (Report, error) {
	if !u.inFlight.CompareAndSwap(false, true) {
		return Report{}, ErrUpdateInFlight
	}
	defer u.inFlight.Store(false)

	for _, hook := range u.PreHooks {
		if err := hook(ctx); err != nil {
			return Report{}, fmt.Errorf("UPD_PRE_HOOK: %w", err)
		}
	}
	u.log("start", "ok", 0, "")

	if err := u.Registry.Refresh(ctx); err != nil {
		u.log("refresh", "error", 0, err.Error())
		return Report{}, err
	}

	pkgs := u.PackagesToInstall()
	rep := u.InstallBatch(ctx, pkgs)

	if err := store.SaveMarker(u.MarkerPath, store.DayNumber(u.now())); err != nil {
		u.log("marker", "error", len(pkgs), err.Error())
		return rep, fmt.Errorf("UPD_MARKER_SAVE: %w", err)
	}

	if u.Out != nil {
		rep.Render(u.Out)
	}

	for _, hook := range u.PostHooks {
		if err := hook(ctx); err != nil {
			return rep, fmt.Errorf("UPD_POST_HOOK: %w", err)
		}
	}
	u.log("commit", "ok", len(pkgs), "")
	return rep, nil
}

// RunMaybe runs a cycle only when the evaluator reports one is due. ran is
// false when the cycle was skipped.
func (u *Updater) RunMaybe(ctx context.Context) (rep Report, ran bool, err error) {
	if !u.Due() {
		u.log("skip", "ok", 0, "not due")
		return Report{}, false, nil
	}
	rep, err = u.Run(ctx)
	if err != nil {
		return rep, false, err
	}
	return rep, true, nil
}
