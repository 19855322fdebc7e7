package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxgio92/slicer/internal/settings"
	"github.com/maxgio92/slicer/pkg/replay"
	"github.com/maxgio92/slicer/pkg/track"
)

const logLevelInfo = "info"

type runOptions struct {
	input      string
	output     string
	funcsFile  string
	maxEvents  int
	maxThreads int
	status     bool

	*Options
}

func NewCommand(opts *Options) *cobra.Command {
	o := new(runOptions)
	o.Options = opts

	cmd := &cobra.Command{
		Use:   settings.CmdName,
		Short: fmt.Sprintf("%s measures instruction slices between function calls", settings.CmdName),
		Long: fmt.Sprintf(`
%s aggregates, per thread and per call edge, the number of instructions executed between
consecutive call boundaries of a recorded notification stream, and writes one report
record per distinct (calling function, called function, call site) triple.
`, settings.CmdName),
		DisableAutoGenTag: true,
		RunE:              o.Run,
	}

	cmd.Flags().StringVarP(&o.input, "input", "i", "-", "Path to the notification stream (- for stdin)")
	cmd.Flags().StringVarP(&o.output, "output", "o", settings.DefaultOutputFile, "Path to the report file")
	cmd.Flags().StringVar(&o.funcsFile, "funcs", "", "Path to a newline-delimited list of function names to track")

	cmd.Flags().IntVar(&o.maxEvents, "max-events", track.DefaultMaxEvents, "Maximum number of call events per thread")
	cmd.Flags().IntVar(&o.maxThreads, "max-threads", track.DefaultMaxThreads, "Maximum number of thread slots")

	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", logLevelInfo, "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().BoolVar(&o.status, "status", false, "Periodically print a status of the replay")

	return cmd
}

// Execute builds the root command and runs it. It is called by
// main.main() and only needs to happen once.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	logger := log.New(
		log.ConsoleWriter{Out: os.Stderr},
	).With().Timestamp().Logger()

	go func() {
		<-ctx.Done()
		cancel()
	}()

	opts := NewOptions(
		WithContext(ctx),
		WithLogger(logger),
	)

	if err := NewCommand(opts).Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *runOptions) Run(_ *cobra.Command, _ []string) error {
	logLevel, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		o.Logger.Fatal().Err(err).Msg("invalid log level")
	}
	o.Logger = o.Logger.Level(logLevel)

	filter, err := track.LoadFuncFilter(o.funcsFile, o.Logger)
	if err != nil {
		return errors.Wrap(err, "failed to load function list")
	}

	tracker := track.NewTracker(
		track.WithTrackerMaxThreads(o.maxThreads),
		track.WithTrackerMaxEvents(o.maxEvents),
		track.WithTrackerLogger(o.Logger),
	)
	if err := tracker.Init(); err != nil {
		return errors.Wrap(err, "failed to init tracker")
	}
	defer tracker.Teardown()

	var in io.ReadCloser = os.Stdin
	if o.input != "-" {
		in, err = os.Open(o.input)
		if err != nil {
			return errors.Wrapf(err, "failed to open notification stream %s", o.input)
		}
		defer in.Close()
	}

	replayer, err := replay.NewReplayer(
		replay.WithReplayerSource(in),
		replay.WithReplayerTracker(tracker),
		replay.WithReplayerFilter(filter),
		replay.WithReplayerStatus(o.status),
		replay.WithReplayerLogger(o.Logger),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create replayer")
	}
	if err := replayer.Run(o.Ctx); err != nil {
		return errors.Wrap(err, "failed to replay notification stream")
	}

	// The report is the sole product of the run: an unopenable
	// destination is fatal, there is no partial-success mode.
	out, err := os.Create(o.output)
	if err != nil {
		o.Logger.Fatal().Err(err).Str("path", o.output).Msg("failed to create report file")
	}
	defer out.Close()

	if err := tracker.WriteReport(out); err != nil {
		return errors.Wrapf(err, "failed to write report to %s", o.output)
	}
	o.Logger.Info().Str("path", o.output).Msg("report written")

	return nil
}
