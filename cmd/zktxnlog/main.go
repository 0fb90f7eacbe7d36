package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ankur-anand/zktxnlog/cmd/zktxnlog/config"
	"github.com/ankur-anand/zktxnlog/internal/metrics"
	"github.com/ankur-anand/zktxnlog/internal/txnctl/inspect"
	"github.com/ankur-anand/zktxnlog/internal/txnctl/output"
	"github.com/ankur-anand/zktxnlog/pkg/logutil"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"f"},
	Value:   "table",
	Usage:   "Output format: table, json",
}

// app carries what the Before hook resolved from config and global flags.
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	stdin   io.Reader
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.DecodeMetrics
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	if err := a.cliApp().RunContext(ctx, args); err != nil {
		color.New(color.FgRed).Fprint(stderr, "error: ")
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return 0
}

func (a *app) cliApp() *cli.App {
	return &cli.App{
		Name:      "zktxnlog",
		Usage:     "Inspect coordination service transaction logs",
		Version:   "0.1.0",
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "metrics-textfile",
				Usage: "Write decode metrics to this file in Prometheus text format",
			},
		},
		Before: a.setup,
		After:  a.flushMetrics,
		Commands: []*cli.Command{
			a.dumpCommand(),
			a.headerCommand(),
			a.statsCommand(),
		},
	}
}

func (a *app) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.LogConfig.LogLevel = c.String("log-level")
	}
	if c.IsSet("metrics-textfile") {
		cfg.Metrics.Textfile = c.String("metrics-textfile")
	}

	level, err := config.ParseLevel(cfg.LogConfig.LogLevel)
	if err != nil {
		return err
	}
	percents, err := config.ParseLevelPercents(cfg.LogConfig)
	if err != nil {
		return err
	}
	a.logger = logutil.New(a.stderr, logutil.Options{
		Level:    level,
		Percents: percents,
		JSON:     cfg.LogConfig.JSON,
	})
	if cfg.Metrics.Textfile != "" {
		a.metrics = metrics.NewDecodeMetrics()
	}
	a.cfg = cfg
	return nil
}

func (a *app) flushMetrics(*cli.Context) error {
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	if a.metrics != nil {
		a.logger.Info("[zktxnlog] metrics written", slog.String("path", a.cfg.Metrics.Textfile))
	}
	return nil
}

func (a *app) getFormatter(c *cli.Context) (output.Formatter, error) {
	format := a.cfg.Output.Format
	if c.IsSet("format") || format == "" {
		format = c.String("format")
	}
	if format != "table" && format != "json" {
		return nil, fmt.Errorf("invalid format %q: must be 'table' or 'json'", format)
	}
	return output.NewFormatter(output.Format(format)), nil
}

func (a *app) options(c *cli.Context) (inspect.Options, error) {
	if c.NArg() != 1 {
		return inspect.Options{}, fmt.Errorf("expected exactly one log file argument (or - for stdin), got %d", c.NArg())
	}
	maxBuf, err := a.cfg.MaxBufferBytes()
	if err != nil {
		return inspect.Options{}, err
	}
	if c.IsSet("max-buffer-size") {
		maxBuf = c.Int("max-buffer-size")
	}

	loc := time.Local
	if a.cfg.Output.UTC || c.Bool("utc") {
		loc = time.UTC
	}
	return inspect.Options{
		Path:          c.Args().First(),
		MaxBufferSize: maxBuf,
		Limit:         a.cfg.Output.Limit,
		Location:      loc,
		Logger:        a.logger,
		Metrics:       a.metrics,
		Stdin:         a.stdin,
	}, nil
}

var maxBufferFlag = &cli.IntFlag{
	Name:  "max-buffer-size",
	Usage: "Reject any string or blob length above this many bytes (0 disables)",
}

func (a *app) dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Print every transaction in a log",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			formatFlag,
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Stop after N records (0 = all)",
			},
			&cli.BoolFlag{
				Name:  "utc",
				Usage: "Render times in UTC instead of local time",
			},
			maxBufferFlag,
		},
		Action: a.dumpAction,
	}
}

func (a *app) headerCommand() *cli.Command {
	return &cli.Command{
		Name:      "header",
		Usage:     "Print the log file header",
		ArgsUsage: "<file|->",
		Flags:     []cli.Flag{formatFlag},
		Action:    a.headerAction,
	}
}

func (a *app) statsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Show aggregate statistics for a log",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			formatFlag,
			&cli.BoolFlag{
				Name:  "utc",
				Usage: "Render times in UTC instead of local time",
			},
			maxBufferFlag,
		},
		Action: a.statsAction,
	}
}

func (a *app) dumpAction(c *cli.Context) error {
	formatter, err := a.getFormatter(c)
	if err != nil {
		return err
	}
	opts, err := a.options(c)
	if err != nil {
		return err
	}
	if c.IsSet("limit") {
		opts.Limit = c.Int("limit")
	}

	term, err := inspect.Dump(c.Context, opts, func(start time.Time, rec output.RecordInfo) error {
		if rec.Index == 1 {
			if err := formatter.WriteLogStart(a.stdout, start); err != nil {
				return err
			}
		}
		return formatter.WriteRecord(a.stdout, rec)
	})
	if err != nil {
		return err
	}
	return a.writeTerminal(formatter, term)
}

// writeTerminal colours the closing line when writing the table layout.
func (a *app) writeTerminal(formatter output.Formatter, term output.Terminal) error {
	if _, ok := formatter.(*output.TableFormatter); !ok {
		return formatter.WriteTerminal(a.stdout, term)
	}
	var buf bytes.Buffer
	if err := formatter.WriteTerminal(&buf, term); err != nil {
		return err
	}
	_, err := color.New(color.FgGreen).Fprint(a.stdout, buf.String())
	return err
}

func (a *app) headerAction(c *cli.Context) error {
	formatter, err := a.getFormatter(c)
	if err != nil {
		return err
	}
	opts, err := a.options(c)
	if err != nil {
		return err
	}

	header, err := inspect.Header(opts)
	if err != nil {
		return err
	}
	if err := formatter.WriteFileHeader(a.stdout, *header); err != nil {
		return err
	}
	if !header.Valid {
		return fmt.Errorf("%s is not a transaction log: magic %s", header.Path, header.MagicHex)
	}
	return nil
}

func (a *app) statsAction(c *cli.Context) error {
	formatter, err := a.getFormatter(c)
	if err != nil {
		return err
	}
	opts, err := a.options(c)
	if err != nil {
		return err
	}

	stats, err := inspect.GetStats(c.Context, opts)
	if stats != nil {
		if werr := formatter.WriteStats(a.stdout, *stats); werr != nil {
			return werr
		}
	}
	return err
}
