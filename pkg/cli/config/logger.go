package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Logger holds CLI flags for logging and error reporting
type Logger struct {
	level     string
	format    string
	output    string
	sentryDSN string
	sentryEnv string
}

// Flags returns CLI flags for logger configuration
func (l *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("PITCHSIDE_LOG_LEVEL"),
			Destination: &l.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console or json)",
			Value:       "console",
			Sources:     cli.EnvVars("PITCHSIDE_LOG_FORMAT"),
			Destination: &l.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log output destination (stdout, stderr or a file path)",
			Value:       "stdout",
			Sources:     cli.EnvVars("PITCHSIDE_LOG_OUTPUT"),
			Destination: &l.output,
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting",
			Sources:     cli.EnvVars("PITCHSIDE_SENTRY_DSN"),
			Destination: &l.sentryDSN,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Sources:     cli.EnvVars("PITCHSIDE_SENTRY_ENV"),
			Destination: &l.sentryEnv,
		},
	}
}

// LogValue renders the configuration for startup logging without secrets
func (l Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", l.level),
		slog.String("format", l.format),
		slog.String("output", l.output),
		slog.Bool("sentry", l.sentryDSN != ""),
	)
}

// Configure builds the process-wide logger and initializes Sentry when a DSN
// is set. The returned closer flushes pending events and releases the log
// output.
func (l *Logger) Configure() (func(), error) {
	level, err := logging.ParseLevel(l.level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(l.format)
	if err != nil {
		return nil, err
	}

	var closers []func()

	w := os.Stdout
	switch l.output {
	case "stdout", "":
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(l.output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log output", goerr.V("path", l.output))
		}
		w = f
		closers = append(closers, func() {
			_ = f.Close()
		})
	}

	logging.SetDefault(logging.New(w, level, format))

	if l.sentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         l.sentryDSN,
			Environment: l.sentryEnv,
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to initialize sentry")
		}
		closers = append(closers, func() {
			sentry.Flush(2 * time.Second)
		})
	}

	return func() {
		for _, c := range closers {
			c()
		}
	}, nil
}
