package cli

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/instrsim/instrsim/config"
	"github.com/instrsim/instrsim/model"
)

const AppName = "instrsim"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
	cfg    *config.Config
	rng    *rand.Rand
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
	}
	app.cli = &cli.App{
		Name:  AppName,
		Usage: "Simulate electronic-component test data and browse the results",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose (debug) logging",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "instrsim.yaml",
				EnvVars: []string{"INSTRSIM_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "reports",
				Usage: "Reports directory (overrides configuration)",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "RNG seed for reproducible runs (0 derives from the clock)",
			},
		},
		Before: app.setup,
	}

	runSubcommands := make([]*cli.Command, 0, 7)
	for _, t := range model.AllTestTypes() {
		t := t
		runSubcommands = append(runSubcommands, &cli.Command{
			Name:   string(t),
			Usage:  fmt.Sprintf("Run the %s simulation", displayName(t)),
			Action: app.runTestType(t),
		})
	}
	runSubcommands = append(runSubcommands, &cli.Command{
		Name:   "all",
		Usage:  "Run every simulation in sequence and print a combined summary",
		Action: app.runAll,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:        "run",
		Usage:       "Run a simulation and write its report artifacts",
		Subcommands: runSubcommands,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List report directories and their artifacts",
		Action: app.list,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "view",
		Usage:  "Explore test results in an interactive text menu",
		Action: app.view,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "dashboard",
		Usage:  "Serve the web dashboard over the reports directory",
		Action: app.dashboard,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (default from configuration)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "First port to try; occupied ports fall through to the next",
			},
		},
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}

func (a *App) setup(ctx *cli.Context) error {
	if ctx.Bool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if dir := ctx.String("reports"); dir != "" {
		cfg.ReportsDir = dir
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Int64("seed")
	}
	a.cfg = cfg

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a.rng = rand.New(rand.NewSource(seed))
	a.logger.Debug().Int64("seed", seed).Str("reports", cfg.ReportsDir).Msg("Configuration loaded")
	return nil
}

func displayName(t model.TestType) string {
	switch t {
	case model.TestTypeBurnIn:
		return "Burn-In"
	case model.TestTypeHiPot:
		return "HiPot"
	case model.TestTypeIsolation:
		return "Isolation Resistance"
	case model.TestTypeLaser:
		return "Laser Profile"
	case model.TestTypeParametric:
		return "Parametric"
	case model.TestTypeICT:
		return "ICT"
	}
	return string(t)
}
