// Package scheduler installs OS-level recurring timers (launchd on darwin,
// systemd user timers on linux) that run the gated update once per day at
// a configured wall-clock time.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"freshen/internal/config"
)

type Result struct {
	Backend   string   `json:"backend"`
	Mode      string   `json:"mode"`
	At        string   `json:"at,omitempty"`
	Installed bool     `json:"installed"`
	Files     []string `json:"files,omitempty"`
	Notes     []string `json:"notes,omitempty"`
}

type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (r execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
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

type Manager struct {
	home        string
	osName      string
	runner      Runner
	runCommands bool
}

func New() *Manager {
	home, _ := os.UserHomeDir()
	runCommands := true
	if os.Getenv("FRESHEN_SCHEDULER_SKIP_COMMANDS") == "1" {
		runCommands = false
	}
	return &Manager{home: home, osName: runtime.GOOS, runner: execRunner{}, runCommands: runCommands}
}

func (m *Manager) withOverrideRoot() string {
	return os.Getenv("FRESHEN_SCHEDULER_ROOT")
}

// Install registers a daily timer firing at the given "HH:MM" wall-clock
// time, invoking `freshen maybe`.
func (m *Manager) Install(ctx context.Context, at string) (Result, error) {
	hour, minute, err := config.ParseAt(at)
	if err != nil {
		return Result{}, fmt.Errorf("SCH_TIME_OF_DAY: %w", err)
	}
	switch m.osName {
	case "darwin":
		return m.installLaunchd(ctx, at, hour, minute)
	case "linux":
		return m.installSystemd(ctx, at, hour, minute)
	default:
		return Result{}, fmt.Errorf("SCH_BACKEND: unsupported OS %q", m.osName)
	}
}

func (m *Manager) Remove(ctx context.Context) (Result, error) {
	switch m.osName {
	case "darwin":
		return m.removeLaunchd(ctx)
	case "linux":
		return m.removeSystemd(ctx)
	default:
		return Result{}, fmt.Errorf("SCH_BACKEND: unsupported OS %q", m.osName)
	}
}

func (m *Manager) List() (Result, error) {
	switch m.osName {
	case "darwin":
		return m.listLaunchd(), nil
	case "linux":
		return m.listSystemd(), nil
	default:
		return Result{}, fmt.Errorf("SCH_BACKEND: unsupported OS %q", m.osName)
	}
}

func (m *Manager) scheduleExecutable() string {
	if p := os.Getenv("FRESHEN_SCHEDULER_EXEC"); p != "" {
		return p
	}
	exe, err := os.Executable()
	if err != nil {
		return "freshen"
	}
	return exe
}

func (m *Manager) launchAgentsDir() string {
	if root := m.withOverrideRoot(); root != "" {
		return filepath.Join(root, "LaunchAgents")
	}
	return filepath.Join(m.home, "Library", "LaunchAgents")
}

func (m *Manager) launchdPlistPath() string {
	return filepath.Join(m.launchAgentsDir(), "com.freshen.update.plist")
}

func (m *Manager) installLaunchd(ctx context.Context, at string, hour, minute int) (Result, error) {
	plist := m.launchdPlistPath()
	if err := os.MkdirAll(filepath.Dir(plist), 0o755); err != nil {
		return Result{}, err
	}
	exe := m.scheduleExecutable()
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
  <key>Label</key><string>com.freshen.update</string>
  <key>ProgramArguments</key>
  <array>
    <string>%s</string>
    <string>maybe</string>
  </array>
  <key>StartCalendarInterval</key>
  <dict>
    <key>Hour</key><integer>%d</integer>
    <key>Minute</key><integer>%d</integer>
  </dict>
  <key>StandardOutPath</key><string>%s</string>
  <key>StandardErrorPath</key><string>%s</string>
</dict>
</plist>
`, xmlEscape(exe), hour, minute, filepath.Join(m.launchAgentsDir(), "freshen-update.log"), filepath.Join(m.launchAgentsDir(), "freshen-update.err.log"))
	if err := os.WriteFile(plist, []byte(content), 0o644); err != nil {
		return Result{}, err
	}
	res := Result{Backend: "launchd", Mode: "system", At: at, Installed: true, Files: []string{plist}}
	if m.runCommands && m.withOverrideRoot() == "" {
		_ = m.runner.Run(ctx, "launchctl", "unload", plist)
		if err := m.runner.Run(ctx, "launchctl", "load", plist); err != nil {
			res.Notes = append(res.Notes, "launchctl load failed: "+err.Error())
		}
	} else {
		res.Notes = append(res.Notes, "scheduler commands skipped")
	}
	return res, nil
}

func (m *Manager) removeLaunchd(ctx context.Context) (Result, error) {
	plist := m.launchdPlistPath()
	res := Result{Backend: "launchd", Mode: "off", Installed: false, Files: []string{plist}}
	if m.runCommands && m.withOverrideRoot() == "" {
		_ = m.runner.Run(ctx, "launchctl", "unload", plist)
	} else {
		res.Notes = append(res.Notes, "scheduler commands skipped")
	}
	if err := os.Remove(plist); err != nil && !os.IsNotExist(err) {
		return Result{}, err
	}
	return res, nil
}

func (m *Manager) listLaunchd() Result {
	plist := m.launchdPlistPath()
	_, err := os.Stat(plist)
	installed := err == nil
	res := Result{Backend: "launchd", Installed: installed, Files: []string{plist}, Mode: "off"}
	if !installed {
		return res
	}
	res.Mode = "system"
	if at, parseErr := launchdTimeFromPlist(plist); parseErr == nil {
		res.At = at
	}
	return res
}

func (m *Manager) systemdDir() string {
	if root := m.withOverrideRoot(); root != "" {
		return filepath.Join(root, "systemd", "user")
	}
	return filepath.Join(m.home, ".config", "systemd", "user")
}

func (m *Manager) systemdServicePath() string {
	return filepath.Join(m.systemdDir(), "freshen-update.service")
}

func (m *Manager) systemdTimerPath() string {
	return filepath.Join(m.systemdDir(), "freshen-update.timer")
}

func (m *Manager) installSystemd(ctx context.Context, at string, hour, minute int) (Result, error) {
	dir := m.systemdDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, err
	}
	exe := m.scheduleExecutable()
	service := fmt.Sprintf(`[Unit]
Description=freshen package update

[Service]
Type=oneshot
ExecStart=%s maybe
`, shellEscape(exe))
	timer := fmt.Sprintf(`[Unit]
Description=Run freshen daily at %s

[Timer]
OnCalendar=*-*-* %02d:%02d:00
Persistent=true
Unit=freshen-update.service

[Install]
WantedBy=timers.target
`, at, hour, minute)
	servicePath := m.systemdServicePath()
	timerPath := m.systemdTimerPath()
	if err := os.WriteFile(servicePath, []byte(service), 0o644); err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(timerPath, []byte(timer), 0o644); err != nil {
		return Result{}, err
	}
	res := Result{Backend: "systemd", Mode: "system", At: at, Installed: true, Files: []string{servicePath, timerPath}}
	if m.runCommands && m.withOverrideRoot() == "" {
		if err := m.runner.Run(ctx, "systemctl", "--user", "daemon-reload"); err != nil {
			res.Notes = append(res.Notes, "systemctl daemon-reload failed: "+err.Error())
		}
		if err := m.runner.Run(ctx, "systemctl", "--user", "enable", "--now", "freshen-update.timer"); err != nil {
			res.Notes = append(res.Notes, "systemctl enable --now failed: "+err.Error())
		}
	} else {
		res.Notes = append(res.Notes, "scheduler commands skipped")
	}
	return res, nil
}

func (m *Manager) removeSystemd(ctx context.Context) (Result, error) {
	servicePath := m.systemdServicePath()
	timerPath := m.systemdTimerPath()
	res := Result{Backend: "systemd", Mode: "off", Installed: false, Files: []string{servicePath, timerPath}}
	if m.runCommands && m.withOverrideRoot() == "" {
		_ = m.runner.Run(ctx, "systemctl", "--user", "disable", "--now", "freshen-update.timer")
		_ = m.runner.Run(ctx, "systemctl", "--user", "daemon-reload")
	} else {
		res.Notes = append(res.Notes, "scheduler commands skipped")
	}
	for _, path := range []string{timerPath, servicePath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return Result{}, err
		}
	}
	return res, nil
}

func (m *Manager) listSystemd() Result {
	servicePath := m.systemdServicePath()
	timerPath := m.systemdTimerPath()
	_, sErr := os.Stat(servicePath)
	_, tErr := os.Stat(timerPath)
	installed := sErr == nil && tErr == nil
	res := Result{Backend: "systemd", Installed: installed, Files: []string{servicePath, timerPath}, Mode: "off"}
	if !installed {
		return res
	}
	res.Mode = "system"
	if at, parseErr := systemdTimeFromTimer(timerPath); parseErr == nil {
		res.At = at
	}
	return res
}

func launchdTimeFromPlist(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	hourRe := regexp.MustCompile(`<key>Hour</key><integer>(\d+)</integer>`)
	minuteRe := regexp.MustCompile(`<key>Minute</key><integer>(\d+)</integer>`)
	hm := hourRe.FindStringSubmatch(string(content))
	mm := minuteRe.FindStringSubmatch(string(content))
	if len(hm) != 2 || len(mm) != 2 {
		return "", fmt.Errorf("StartCalendarInterval not found")
	}
	hour, err := strconv.Atoi(hm[1])
	if err != nil {
		return "", err
	}
	minute, err := strconv.Atoi(mm[1])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

func systemdTimeFromTimer(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	re := regexp.MustCompile(`(?m)^OnCalendar=\*-\*-\* (\d{2}):(\d{2}):00$`)
	m := re.FindStringSubmatch(string(content))
	if len(m) != 3 {
		return "", fmt.Errorf("OnCalendar not found")
	}
	return m[1] + ":" + m[2], nil
}

func xmlEscape(v string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;", "'", "&apos;")
	return r.Replace(v)
}

func shellEscape(v string) string {
	if strings.ContainsAny(v, " \t\n\"'") {
		return strconv.Quote(v)
	}
	return v
}
