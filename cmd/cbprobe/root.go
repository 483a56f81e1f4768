package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/danpilch/cbprobe/pkg/check"
	"github.com/danpilch/cbprobe/pkg/checks"
	"github.com/danpilch/cbprobe/pkg/config"
	"github.com/danpilch/cbprobe/pkg/couchbase"
	"github.com/danpilch/cbprobe/pkg/debug"
	"github.com/danpilch/cbprobe/pkg/observe"
	"github.com/danpilch/cbprobe/pkg/output"
)

var version = "1.0.0"

type globalOptions struct {
	verbose    bool
	configFile string
	envFile    string
	format     string
	trace      string
	timing     bool
}

type connOptions struct {
	port     int
	username string
	password string
}

// app carries the state of one invocation.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	logger   *logrus.Logger
	opts     globalOptions
	exitCode int
}

func newApp(stdout, stderr io.Writer) *app {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)
	return &app{
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cbprobe",
		Short:         "Couchbase health checks for Nagios-compatible monitoring systems",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.opts.verbose {
				a.logger.SetLevel(logrus.DebugLevel)
			}
		},
	}

	f := cmd.PersistentFlags()
	f.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Outputs verbose logging on stderr.")
	f.StringVar(&a.opts.configFile, "config", "", "Path to a YAML configuration file.")
	f.StringVar(&a.opts.envFile, "env-file", ".env", "Path to a .env file with COUCHBASE_* variables. Ignored when missing.")
	f.StringVar(&a.opts.format, "format", "nagios", "Output format: nagios, json or table.")
	f.StringVar(&a.opts.trace, "trace", "none", "Trace exporter: none, stdout (written to stderr) or otlp.")
	f.BoolVar(&a.opts.timing, "timing", false, "Print a request timing report on stderr.")

	cmd.AddCommand(a.nodeCmd(), a.clusterCmd(), a.bucketCmd(), a.bucketStatCmd())
	return cmd
}

func addConnFlags(cmd *cobra.Command, c *connOptions) {
	f := cmd.Flags()
	f.IntVar(&c.port, "port", couchbase.DefaultPort, "The port of the Couchbase HTTP REST API.")
	f.StringVarP(&c.username, "username", "u", "", "The username to use to fetch the stats from the HTTP REST interface.")
	f.StringVarP(&c.password, "password", "p", "", "The password to use to fetch the stats from the HTTP REST interface.")
}

// loadConfig resolves configuration, letting explicitly set flags win.
func (a *app) loadConfig(cmd *cobra.Command, conn connOptions) (config.Config, error) {
	cfg, err := config.Load(config.Options{File: a.opts.configFile, EnvFile: a.opts.envFile}, a.logger)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = conn.port
	}
	if flags.Changed("username") {
		cfg.Username = conn.username
	}
	if flags.Changed("password") {
		cfg.Password = conn.password
	}
	if flags.Changed("format") {
		cfg.Format = a.opts.format
	}
	if flags.Changed("trace") {
		cfg.Trace = a.opts.trace
	}
	return cfg, cfg.Validate()
}

// execute runs one check against host and renders its result.
func (a *app) execute(cmd *cobra.Command, host string, conn connOptions, build func(cfg config.Config) (checks.Check, error)) error {
	cfg, err := a.loadConfig(cmd, conn)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	chk, err := build(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tracing, err := observe.NewTracing(ctx, cfg.Trace, a.stderr, version)
	if err != nil {
		return err
	}
	defer func() {
		if err := tracing.Shutdown(context.WithoutCancel(ctx)); err != nil {
			a.logger.WithField("error", err).Warn("Trace flush failed")
		}
	}()

	client, err := couchbase.NewClient(couchbase.Config{
		Host:     host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
	}, a.logger)
	if err != nil {
		return err
	}
	client.WithTracer(tracing.Tracer("github.com/danpilch/cbprobe/pkg/couchbase"))

	ctx, span := tracing.Tracer("github.com/danpilch/cbprobe").Start(ctx, "check."+chk.Name())
	result, timings := checks.NewRunner(client, a.logger).Run(ctx, chk)
	sev, _ := result.Status()
	span.SetAttributes(
		attribute.String("check.name", chk.Name()),
		attribute.String("check.status", sev.String()),
	)
	span.End()

	if a.opts.timing {
		debug.TimingReport(a.stderr, timings)
	}
	if err := output.NewFormatter(format, a.stdout).Render(result); err != nil {
		return fmt.Errorf("cannot render result: %w", err)
	}
	a.exitCode = result.ExitCode()
	return nil
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stdout, "%s - %v\n", check.Unknown, err)
		return check.Unknown.ExitCode()
	}
	return a.exitCode
}
