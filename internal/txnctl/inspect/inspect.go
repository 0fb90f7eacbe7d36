package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/ankur-anand/zktxnlog/internal/metrics"
	"github.com/ankur-anand/zktxnlog/internal/txnctl/output"
	"github.com/ankur-anand/zktxnlog/pkg/txnlog"
	"github.com/dustin/go-humanize"
)

// StdinPath selects standard input instead of a file.
const StdinPath = "-"

const (
	ReasonEndOfStream = "end of stream"
	ReasonLimit       = "limit reached"
)

// maxUnixMilli is the Unix timestamp in milliseconds for the year 9999 upper bound (RFC 3339).
var maxUnixMilli = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC).UnixMilli()

// Options configures a scan of one log.
type Options struct {
	Path          string
	MaxBufferSize int
	// Limit stops a dump after that many records. Zero means no limit.
	Limit    int
	Location *time.Location
	Logger   *slog.Logger
	Metrics  *metrics.DecodeMetrics
	// Stdin is read when Path is StdinPath. Defaults to os.Stdin.
	Stdin io.Reader
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

type logFile struct {
	*txnlog.Decoder
	path   string
	size   int64
	header txnlog.FileHeader
	closer io.Closer
}

func (l *logFile) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// open returns the log positioned at its first record. When the magic is
// invalid the log is still returned, open, alongside an error wrapping
// txnlog.ErrInvalidFileHeader.
func open(opts Options) (*logFile, error) {
	var decOpts []txnlog.DecoderOption
	if opts.MaxBufferSize > 0 {
		decOpts = append(decOpts, txnlog.WithMaxBufferSize(opts.MaxBufferSize))
	}

	l := &logFile{path: opts.Path, size: -1}
	if opts.Path == StdinPath {
		stdin := opts.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		l.Decoder = txnlog.NewDecoder(txnlog.NewReaderSource(stdin), decOpts...)
	} else {
		f, err := txnlog.OpenFile(opts.Path, decOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to open log: %w", err)
		}
		l.Decoder = f.Decoder
		l.size = f.Size()
		l.closer = f
	}

	header, err := l.ReadFileHeader()
	if err != nil && !errors.Is(err, txnlog.ErrInvalidFileHeader) {
		l.Close()
		return nil, err
	}
	l.header = header
	opts.logger().Debug("[inspect] opened transaction log",
		slog.String("path", l.path),
		slog.String("header", header.String()),
		slog.Bool("valid", header.IsValid()),
		slog.Int64("size", l.size))
	return l, err
}

// Header reads only the file header. An invalid magic is reported in the
// result rather than as an error so the raw values can still be shown.
func Header(opts Options) (*output.HeaderInfo, error) {
	l, err := open(opts)
	if l == nil {
		return nil, err
	}
	defer l.Close()

	h := l.header
	info := &output.HeaderInfo{
		Path:      opts.Path,
		Magic:     h.MagicString(),
		MagicHex:  fmt.Sprintf("0x%08x", uint32(h.Magic)),
		Version:   h.Version,
		DBID:      h.DBID,
		Valid:     h.IsValid(),
		Size:      l.size,
		SizeHuman: "-",
	}
	if l.size >= 0 {
		info.SizeHuman = humanize.Bytes(uint64(l.size))
	}
	return info, nil
}

// RecordFunc receives each decoded record. Returning an error stops the scan.
type RecordFunc func(start time.Time, rec output.RecordInfo) error

// Dump decodes records in file order and hands each to fn as soon as it is
// decoded. It returns the terminal condition; reaching end of stream or the
// limit is not an error. Cancellation is honored between records.
func Dump(ctx context.Context, opts Options, fn RecordFunc) (output.Terminal, error) {
	return scan(ctx, opts, nil, fn)
}

func scan(ctx context.Context, opts Options, onHeader func(txnlog.FileHeader), fn RecordFunc) (output.Terminal, error) {
	l, err := open(opts)
	if l != nil && err != nil {
		l.Close()
	}
	if err != nil {
		opts.Metrics.ObserveTerminal(err)
		return output.Terminal{}, err
	}
	defer l.Close()
	if onHeader != nil {
		onHeader(l.header)
	}

	logger := opts.logger()
	loc := opts.location()

	var (
		term       output.Terminal
		firstMilli int64
	)
	for opts.Limit <= 0 || term.Records < opts.Limit {
		if err := ctx.Err(); err != nil {
			return term, err
		}

		before := l.Offset()
		rec, err := l.Next()
		if err != nil {
			opts.Metrics.ObserveTerminal(err)
			if txnlog.IsEndOfStream(err) {
				term.Reason = ReasonEndOfStream
				return term, nil
			}
			logger.Debug("[inspect] decode stopped",
				slog.String("path", l.path),
				slog.String("kind", txnlog.ErrorKind(err)),
				slog.Int64("offset", before),
				slog.Int("records", term.Records))
			return term, err
		}
		size := l.Offset() - before
		opts.Metrics.ObserveRecord(rec, size)

		if term.Records == 0 {
			firstMilli = rec.Header.Time
		}
		info, err := recordInfo(rec, term.Records+1, firstMilli, loc)
		if err != nil {
			err = fmt.Errorf("record at offset %d: %w", rec.Offset, err)
			opts.Metrics.ObserveTerminal(err)
			return term, err
		}
		logger.Debug("[inspect] decoded record",
			slog.Int64("offset", rec.Offset),
			slog.String("header", rec.Header.String()))

		if err := fn(safeTime(firstMilli, loc), info); err != nil {
			return term, err
		}
		term.Records++
		term.BytesDecoded += size
	}

	term.Reason = ReasonLimit
	return term, nil
}

func recordInfo(rec *txnlog.Record, index int, firstMilli int64, loc *time.Location) (output.RecordInfo, error) {
	summary, err := rec.Summary()
	if err != nil {
		return output.RecordInfo{}, err
	}
	return output.RecordInfo{
		Index:       index,
		Offset:      rec.Offset,
		DeltaMillis: deltaMillis(rec.Header.Time, firstMilli),
		Time:        safeTime(rec.Header.Time, loc),
		SessionID:   rec.Header.ClientID,
		Zxid:        rec.Header.Zxid,
		Cxid:        rec.Header.Cxid,
		Op:          rec.Header.Type.String(),
		Summary:     summary,
		Payload:     rec.Payload,
	}, nil
}

// GetStats decodes the whole log and aggregates it. On a decode failure the
// partial stats are returned together with the error.
func GetStats(ctx context.Context, opts Options) (*output.LogStats, error) {
	opts.Limit = 0
	stats := &output.LogStats{
		Path:      opts.Path,
		OpCounts:  make(map[string]int64),
		Size:      -1,
		SizeHuman: "-",
	}

	if opts.Path != StdinPath {
		if info, err := os.Stat(opts.Path); err == nil {
			stats.Size = info.Size()
			stats.SizeHuman = humanize.Bytes(uint64(info.Size()))
		}
	}

	onHeader := func(h txnlog.FileHeader) {
		stats.Version = h.Version
		stats.DBID = h.DBID
	}
	term, err := scan(ctx, opts, onHeader, func(_ time.Time, rec output.RecordInfo) error {
		if stats.Records == 0 {
			stats.FirstZxid = rec.Zxid
			stats.FirstTime = rec.Time
		}
		stats.Records++
		stats.LastZxid = rec.Zxid
		stats.LastTime = rec.Time
		stats.SpanMillis = rec.DeltaMillis
		stats.OpCounts[rec.Op]++

		switch rec.Payload.(type) {
		case *txnlog.SessionCreateTxn:
			stats.SessionsCreated++
		case *txnlog.SessionCloseTxn:
			stats.SessionsClosed++
		case *txnlog.ErrorTxn:
			stats.Errors++
		}
		return nil
	})

	stats.BytesDecoded = term.BytesDecoded
	if err != nil {
		if errors.Is(err, txnlog.ErrInvalidFileHeader) {
			return nil, err
		}
		stats.Terminal = err.Error()
		return stats, err
	}
	stats.Terminal = term.Reason
	return stats, nil
}

// deltaMillis returns t - first, saturated to the int64 range.
func deltaMillis(t, first int64) int64 {
	d := t - first
	switch {
	case first < 0 && d < t:
		return math.MaxInt64
	case first > 0 && d > t:
		return math.MinInt64
	}
	return d
}

// safeTime converts Unix milliseconds to time.Time, returning zero time for
// values outside the RFC 3339 range.
func safeTime(unixMilli int64, loc *time.Location) time.Time {
	if unixMilli < 0 || unixMilli > maxUnixMilli {
		return time.Time{}
	}
	return time.UnixMilli(unixMilli).In(loc)
}
