package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/app"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
)

// maxRebuildDays bounds rebuild-attendance to one quarter per run.
const maxRebuildDays = 92

var errUsage = errors.New("usage")

// action runs a parsed command against the wired application. The result
// is printed as JSON.
type action func(ctx context.Context, a *app.App) (any, error)

type command struct {
	usage string
	parse func(fs *flag.FlagSet, args []string) (action, error)
}

var commands = map[string]command{
	"migrate": {
		usage: "apply pending database migrations",
		parse: func(fs *flag.FlagSet, args []string) (action, error) {
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			return func(ctx context.Context, a *app.App) (any, error) {
				if err := database.Migrate(ctx, a.DB); err != nil {
					return nil, err
				}
				return map[string]string{"status": "migrated"}, nil
			}, nil
		},
	},
	"sync-devices": {
		usage: "poll every active device, or one with -device",
		parse: func(fs *flag.FlagSet, args []string) (action, error) {
			deviceID := fs.String("device", "", "device id to sync")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			if *deviceID != "" && !validator.IsValidUUID(*deviceID) {
				return nil, fmt.Errorf("invalid -device %q", *deviceID)
			}
			return func(ctx context.Context, a *app.App) (any, error) {
				if *deviceID != "" {
					return a.Devices.Sync(ctx, *deviceID)
				}
				if err := a.Poller.PollAll(ctx); err != nil {
					return nil, err
				}
				return map[string]string{"status": "polled"}, nil
			}, nil
		},
	},
	"cleanup-duplicates": {
		usage: "delete punch rows sharing a record hash, keeping the oldest",
		parse: func(fs *flag.FlagSet, args []string) (action, error) {
			dryRun := fs.Bool("dry-run", false, "only count duplicates")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			return func(ctx context.Context, a *app.App) (any, error) {
				if *dryRun {
					n, err := a.Punches.CountDuplicates(ctx)
					return map[string]any{"duplicates": n, "dry_run": true}, err
				}
				n, err := a.Punches.DeleteDuplicates(ctx)
				return map[string]any{"deleted": n}, err
			}, nil
		},
	},
	"assign-biometric-ids": {
		usage: "give sequential biometric ids to users without one",
		parse: func(fs *flag.FlagSet, args []string) (action, error) {
			var req user.AssignBiometricIDsRequest
			officeID := fs.String("office", "", "restrict to one office")
			fs.IntVar(&req.StartFrom, "start", 1001, "first id to hand out")
			fs.BoolVar(&req.Overwrite, "overwrite", false, "reassign users that already have an id")
			fs.BoolVar(&req.DryRun, "dry-run", false, "print the assignment without saving it")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			if *officeID != "" {
				req.OfficeID = officeID
			}
			if err := req.Validate(); err != nil {
				return nil, err
			}
			return func(ctx context.Context, a *app.App) (any, error) {
				return a.Users.AssignBiometricIDs(ctx, req)
			}, nil
		},
	},
	"seed-templates": {
		usage: "install the built-in document templates",
		parse: func(fs *flag.FlagSet, args []string) (action, error) {
			force := fs.Bool("force", false, "overwrite existing built-in templates")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			return func(ctx context.Context, a *app.App) (any, error) {
				return a.Documents.SeedTemplates(ctx, *force)
			}, nil
		},
	},
	"backfill-absences": {
		usage: "write absent/weekend/holiday/on_leave rows for a day (default yesterday)",
		parse: func(fs *flag.FlagSet, args []string) (action, error) {
			date := fs.String("date", "", "day to backfill, YYYY-MM-DD")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			var day time.Time
			if *date != "" {
				d, ok := validator.IsValidDate(*date)
				if !ok {
					return nil, fmt.Errorf("invalid -date %q, want YYYY-MM-DD", *date)
				}
				day = d
			}
			return func(ctx context.Context, a *app.App) (any, error) {
				if day.IsZero() {
					loc, err := time.LoadLocation(a.Config.Attendance.Timezone)
					if err != nil {
						return nil, err
					}
					day = attendance.DateOf(time.Now(), loc).AddDate(0, 0, -1)
				}
				return a.Attendance.BackfillAbsences(ctx, day)
			}, nil
		},
	},
	"calculate-salaries": {
		usage: "compute salary records for every active user for -month",
		parse: func(fs *flag.FlagSet, args []string) (action, error) {
			month := fs.String("month", "", "month to calculate, YYYY-MM")
			officeID := fs.String("office", "", "restrict to one office")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			if _, ok := validator.IsValidMonth(*month); !ok {
				return nil, fmt.Errorf("-month is required as YYYY-MM, got %q", *month)
			}
			req := salary.CalculateRequest{Month: *month}
			if *officeID != "" {
				req.OfficeID = officeID
			}
			return func(ctx context.Context, a *app.App) (any, error) {
				return a.Salaries.Calculate(ctx, req)
			}, nil
		},
	},
	"rebuild-attendance": {
		usage: "re-derive attendance days from stored punches between -from and -to",
		parse: func(fs *flag.FlagSet, args []string) (action, error) {
			fromStr := fs.String("from", "", "first day, YYYY-MM-DD")
			toStr := fs.String("to", "", "last day, YYYY-MM-DD")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			from, ok := validator.IsValidDate(*fromStr)
			if !ok {
				return nil, fmt.Errorf("invalid -from %q, want YYYY-MM-DD", *fromStr)
			}
			to, ok := validator.IsValidDate(*toStr)
			if !ok {
				return nil, fmt.Errorf("invalid -to %q, want YYYY-MM-DD", *toStr)
			}
			if to.Before(from) {
				return nil, fmt.Errorf("-to %s is before -from %s", *toStr, *fromStr)
			}
			if to.Sub(from) > maxRebuildDays*24*time.Hour {
				return nil, fmt.Errorf("range is longer than %d days", maxRebuildDays)
			}
			return func(ctx context.Context, a *app.App) (any, error) {
				return a.Attendance.Rebuild(ctx, from, to)
			}, nil
		},
	},
}

// parse resolves args to a command action without touching the database.
func parse(args []string, stderr io.Writer) (action, error) {
	if len(args) == 0 {
		printUsage(stderr)
		return nil, errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		printUsage(stderr)
		return nil, fmt.Errorf("unknown command %q", args[0])
	}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	return cmd.parse(fs, args[1:])
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: hrctl <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %-22s %s\n", name, commands[name].usage)
	}
}
