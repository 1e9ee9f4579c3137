package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sghaida/assistfactory/config"
)

// errStructural is returned when a session reported validation failures. The
// diagnostics themselves were already printed.
var errStructural = errors.New("structural validation failed")

// globalFlags are shared by every subcommand and override config file values.
type globalFlags struct {
	configPath    string
	verbose       bool
	logFormat     string
	manifest      string
	outDir        string
	maxRounds     int
	failurePolicy string
	metricsFile   string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "afgen",
		Short:         "Generate assisted-injection factories and binding modules",
		Long:          "afgen reads a symbol manifest, validates every class marked for assisted-factory contribution, and writes a factory interface and a binding module for each.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" when present)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log at debug level")
	pf.StringVar(&g.logFormat, "log-format", "", "log encoding: json or console")
	pf.StringVarP(&g.manifest, "manifest", "m", "", "symbol manifest (YAML)")
	pf.StringVarP(&g.outDir, "out", "o", "", "output directory for generated sources")
	pf.IntVar(&g.maxRounds, "max-rounds", 0, "stop after this many rounds")
	pf.StringVar(&g.failurePolicy, "failure-policy", "", "abort-round or isolate")
	pf.StringVar(&g.metricsFile, "metrics-file", "", "write Prometheus counters to this textfile")

	root.AddCommand(newGenerateCmd(g), newCheckCmd(g), newWatchCmd(g))
	return root
}

// load reads the config file and applies flag overrides.
func (g *globalFlags) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultFile)
	}
	if err != nil {
		return nil, err
	}

	if g.manifest != "" {
		cfg.Manifest = g.manifest
	}
	if g.outDir != "" {
		cfg.OutDir = g.outDir
	}
	if g.maxRounds != 0 {
		cfg.MaxRounds = g.maxRounds
	}
	if g.failurePolicy != "" {
		cfg.FailurePolicy = g.failurePolicy
	}
	if g.metricsFile != "" {
		cfg.MetricsFile = g.metricsFile
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads config and builds the logger. Logs go to the command's stderr.
func (g *globalFlags) setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Log.Logger(cmd.ErrOrStderr(), g.verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "afgen:", err)
		stop()
		os.Exit(1)
	}
}
