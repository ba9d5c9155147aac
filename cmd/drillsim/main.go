package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/drillsim/drillsim/internal/config"
	"github.com/drillsim/drillsim/internal/geo"
	"github.com/drillsim/drillsim/internal/scenario"
	"github.com/drillsim/drillsim/internal/sim"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BuildDate can be set at build time via ldflags
var (
	Version   string = "0.1.0"
	BuildDate string = "unknown"

	AppName string = "drillsim"
)

type options struct {
	configDir string
	mode      string
	disaster  string
	scenario  string
	goals     string
	maxFrames int
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	fs.StringVarP(&opts.configDir, "config", "c", ".", "directory containing "+config.FileName)
	fs.StringVarP(&opts.mode, "mode", "m", "headless", "headless, play or list")
	fs.StringVarP(&opts.disaster, "disaster", "d", string(core.Earthquake), "disaster type of the built-in scenario")
	fs.StringVarP(&opts.scenario, "scenario", "s", "", "scenario name from the catalog, overrides --disaster")
	fs.StringVar(&opts.goals, "goals", "", `custom goal route as JSON, e.g. "[[0,-10],[10,-20]]"`)
	fs.IntVar(&opts.maxFrames, "max-frames", 60*60*5, "headless frame limit")
	fs.String("log-level", "info", "log level")
	fs.Int64("seed", 0, "random seed, 0 for time based")
	fs.Int("tick-rate", 60, "frames per second")
	fs.Bool("telemetry", false, "write frame telemetry to InfluxDB")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	// flags win over the config file only when set explicitly
	for key, flag := range map[string]string{
		"logLevel":        "log-level",
		"engine.seed":     "seed",
		"engine.tickRate": "tick-rate",
		"influx.enabled":  "telemetry",
	} {
		if f := fs.Lookup(flag); f != nil && f.Changed {
			if err := viper.BindPFlag(key, f); err != nil {
				return opts, fmt.Errorf("binding flag %s: %w", flag, err)
			}
		}
	}
	return opts, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	// a missing config file is fine, Load has already applied the defaults
	cfgErr := config.Load(opts.configDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, opts.mode == "play")
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info().
		Str("version", Version).
		Str("buildDate", BuildDate).
		Str("mode", opts.mode).
		Msg("Starting up")
	if cfgErr != nil {
		a.logger.Warn().Err(cfgErr).Str("dir", opts.configDir).Msg("Using default configuration")
	}

	switch opts.mode {
	case "list":
		return listScenarios(ctx, a)
	case "headless", "play":
	default:
		return fmt.Errorf("unknown mode: %s", opts.mode)
	}

	sc, err := resolveScenario(ctx, a.catalog, opts)
	if err != nil {
		return err
	}
	session, err := a.newSession(sc)
	if err != nil {
		return err
	}

	if opts.mode == "play" {
		err = play(ctx, session, a.engine.FrameInterval())
	} else {
		_, err = sim.Simulate(ctx, session, sim.NewAutopilot(session), nil, 1/float64(a.engine.TickRate), opts.maxFrames)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return printSummary(session)
}

func resolveScenario(ctx context.Context, catalog *scenario.Catalog, opts options) (core.Scenario, error) {
	var sc core.Scenario
	var err error
	if opts.scenario != "" {
		sc, err = catalog.Get(ctx, opts.scenario)
	} else {
		d, perr := core.ParseDisasterType(opts.disaster)
		if perr != nil {
			return sc, perr
		}
		sc, err = catalog.ForDisaster(ctx, d)
	}
	if err != nil {
		return sc, err
	}

	if opts.goals != "" {
		route, err := geo.ParseRoute(opts.goals)
		if err != nil {
			return sc, err
		}
		sc.Goals = make([]core.GoalSpec, len(route))
		for i, p := range route {
			sc.Goals[i] = core.GoalSpec{Position: p, Description: fmt.Sprintf("Checkpoint %d", i+1)}
		}
	}
	return sc, nil
}

func listScenarios(ctx context.Context, a *app) error {
	list, err := a.catalog.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISASTER\tGOALS\tPLACEMENTS\tROUTE (m)\tGEO")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\t%v\n",
			s.Name, s.Disaster, s.Goals, s.Placements, s.RouteLength, s.Georeferenced)
	}
	return w.Flush()
}

type summary struct {
	Session  string `json:"session"`
	Scenario string `json:"scenario"`
	Disaster string `json:"disaster"`
	core.CompletionEvent
	Completed bool    `json:"completed"`
	Frames    uint64  `json:"frames"`
	Elapsed   float64 `json:"elapsed"`
}

func printSummary(s *sim.Session) error {
	snap := s.Snapshot()
	out := summary{
		Session:   s.ID(),
		Scenario:  s.Scenario().Name,
		Disaster:  string(s.Scenario().Disaster),
		Completed: snap.Completed,
		Frames:    snap.Frame,
		Elapsed:   snap.Elapsed,
	}
	if res, ok := s.Result(); ok {
		out.CompletionEvent = res
	} else {
		out.CompletionEvent = core.CompletionEvent{
			Score:             snap.Score,
			Time:              snap.Elapsed,
			Health:            snap.Health,
			CollectiblesCount: snap.CollectiblesCount,
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
