package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"freshen/internal/app"
	"freshen/internal/updater"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool

	newSvc := func() (*app.Service, error) {
		return app.New(app.Options{ConfigPath: configPath, RenderReports: !jsonOutput})
	}

	cmd := &cobra.Command{
		Use:           "freshen",
		Short:         "Keep installed packages up to date on a daily cadence",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(newUpdateCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newMaybeCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newStatusCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newWatchCmd(newSvc))
	cmd.AddCommand(newScheduleCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newVersionCmd(&jsonOutput))

	return cmd
}

type cycleOutput struct {
	Ran    bool           `json:"ran"`
	Report updater.Report `json:"report,omitempty"`
}

func newUpdateCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	var yes bool
	updateCmd := &cobra.Command{
		Use:     "update",
		Aliases: []string{"now", "run"},
		Short:   "Run an update cycle unconditionally",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			rep, ran, err := svc.UpdateNow(cmd.Context(), yes)
			if err != nil {
				return err
			}
			if !ran {
				return print(*jsonOutput, cycleOutput{Ran: false}, "update declined")
			}
			if *jsonOutput {
				return print(true, cycleOutput{Ran: true, Report: rep}, "")
			}
			// text report already rendered by the updater
			return nil
		},
	}
	updateCmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return updateCmd
}

func newMaybeCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "maybe",
		Aliases: []string{"auto"},
		Short:   "Run an update cycle only if one is due",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			rep, ran, err := svc.UpdateMaybe(cmd.Context())
			if err != nil {
				return err
			}
			if !ran {
				return print(*jsonOutput, cycleOutput{Ran: false}, "no update due")
			}
			if *jsonOutput {
				return print(true, cycleOutput{Ran: true, Report: rep}, "")
			}
			return nil
		},
	}
}

func newStatusCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last-update marker and whether an update is due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			st := svc.Status()
			msg := fmt.Sprintf("interval: %d days", st.IntervalDays)
			if st.HasMarker {
				msg += fmt.Sprintf("\nlast update: day %d (%d days ago)", st.MarkerDay, st.DaysSince)
			} else {
				msg += "\nlast update: never"
			}
			if st.Due {
				msg += "\nupdate due"
			} else {
				msg += "\nup to date"
			}
			return print(*jsonOutput, st, msg)
		},
	}
}

func newWatchCmd(newSvc func() (*app.Service, error)) *cobra.Command {
	var at string
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Run in the foreground, updating daily at a wall-clock time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return svc.Watch(ctx, at)
		},
	}
	watchCmd.Flags().StringVar(&at, "at", "", "time of day HH:MM (default from config)")
	return watchCmd
}

func newScheduleCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "schedule [HH:MM|off]",
		Aliases: []string{"sched", "timer"},
		Short:   "Manage the OS-level daily update timer",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				res, err := svc.ScheduleList()
				if err != nil {
					return err
				}
				msg := fmt.Sprintf("backend: %s, mode: %s", res.Backend, res.Mode)
				if res.At != "" {
					msg += ", at " + res.At
				}
				return print(*jsonOutput, res, msg)
			}
			if args[0] == "off" {
				res, err := svc.ScheduleRemove(cmd.Context())
				if err != nil {
					return err
				}
				return print(*jsonOutput, res, "schedule removed")
			}
			res, err := svc.ScheduleInstall(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return print(*jsonOutput, res, fmt.Sprintf("daily update scheduled at %s (%s)", res.At, res.Backend))
		},
	}
}

func print(jsonOutput bool, payload any, message string) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}
	if message != "" {
		fmt.Println(message)
	}
	return nil
}
