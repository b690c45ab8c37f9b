// Package app wires configuration, registry, updater, scheduler, and
// audit log into the operations the CLI exposes.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"freshen/internal/audit"
	"freshen/internal/config"
	"freshen/internal/registry"
	"freshen/internal/scheduler"
	"freshen/internal/store"
	"freshen/internal/updater"
)

type Options struct {
	ConfigPath string
	// Stdin and Stdout default to the process streams; tests inject
	// buffers.
	Stdin  io.Reader
	Stdout io.Writer
	// RenderReports controls whether the updater writes the human report
	// to Stdout at the end of a cycle. The CLI disables it in JSON mode.
	RenderReports bool
}

type Service struct {
	ConfigPath string
	Config     config.Config
	StateRoot  string

	Registry  registry.Manager
	Updater   *updater.Updater
	Scheduler *scheduler.Manager
	Audit     *audit.Logger

	stdin  io.Reader
	stdout io.Writer
}

func New(opts Options) (*Service, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.Ensure(configPath)
	if err != nil {
		return nil, err
	}
	root, err := config.ResolveStorageRoot(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureLayout(root); err != nil {
		return nil, err
	}

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	aud := audit.New(store.AuditPath(root))
	reg := registry.NewExec(cfg.Registry)
	upd := &updater.Updater{
		Registry:          reg,
		IntervalDays:      cfg.Update.IntervalDays,
		DeleteOldVersions: cfg.Update.DeleteOldVersions,
		MarkerPath:        store.MarkerPath(root),
		PreHooks:          execHooks(cfg.Update.PreCmds),
		PostHooks:         execHooks(cfg.Update.PostCmds),
		Audit:             aud,
	}
	if opts.RenderReports {
		upd.Out = stdout
	}

	return &Service{
		ConfigPath: configPath,
		Config:     cfg,
		StateRoot:  root,
		Registry:   reg,
		Updater:    upd,
		Scheduler:  scheduler.New(),
		Audit:      aud,
		stdin:      stdin,
		stdout:     stdout,
	}, nil
}

// execHooks adapts configured argv lists into updater hooks. Hook
// processes inherit the cycle's context, so cancelling a watch loop also
// kills a hung hook.
func execHooks(cmds [][]string) []updater.Hook {
	hooks := make([]updater.Hook, 0, len(cmds))
	for _, argv := range cmds {
		argv := argv
		hooks = append(hooks, func(ctx context.Context) error {
			cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
			out, err := cmd.CombinedOutput()
			if err != nil {
				msg := strings.TrimSpace(string(out))
				if msg == "" {
					return fmt.Errorf("%s: %w", argv[0], err)
				}
				return fmt.Errorf("%s: %w: %s", argv[0], err, msg)
			}
			return nil
		})
	}
	return hooks
}

// UpdateNow runs an unconditional update cycle. When the config enables
// the confirmation prompt and yes is false, the user is asked first;
// declining performs nothing and reports ran=false.
func (s *Service) UpdateNow(ctx context.Context, yes bool) (updater.Report, bool, error) {
	if s.Config.Update.Prompt && !yes {
		if !s.confirm() {
			return updater.Report{}, false, nil
		}
	}
	rep, err := s.Updater.Run(ctx)
	if err != nil {
		return rep, false, err
	}
	return rep, true, nil
}

func (s *Service) confirm() bool {
	fmt.Fprint(s.stdout, "run package update now? [y/N] ")
	scanner := bufio.NewScanner(s.stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// UpdateMaybe runs a cycle only when one is due.
func (s *Service) UpdateMaybe(ctx context.Context) (updater.Report, bool, error) {
	return s.Updater.RunMaybe(ctx)
}

func (s *Service) Status() updater.Status {
	return s.Updater.Status()
}

// Watch blocks, running the gated update daily at the configured time of
// day (or atOverride when non-empty).
func (s *Service) Watch(ctx context.Context, atOverride string) error {
	at := s.Config.Update.At
	if atOverride != "" {
		at = atOverride
	}
	hour, minute, err := config.ParseAt(at)
	if err != nil {
		return fmt.Errorf("DOC_CONFIG_AT: %w", err)
	}
	return s.Updater.Watch(ctx, hour, minute)
}

func (s *Service) ScheduleInstall(ctx context.Context, at string) (scheduler.Result, error) {
	if at == "" {
		at = s.Config.Update.At
	}
	return s.Scheduler.Install(ctx, at)
}

func (s *Service) ScheduleRemove(ctx context.Context) (scheduler.Result, error) {
	return s.Scheduler.Remove(ctx)
}

func (s *Service) ScheduleList() (scheduler.Result, error) {
	return s.Scheduler.List()
}
