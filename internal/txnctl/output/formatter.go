package output

import (
	"io"
	"time"

	"github.com/ankur-anand/zktxnlog/pkg/txnlog"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// HeaderInfo describes a log file header.
type HeaderInfo struct {
	Path      string `json:"path"`
	Magic     string `json:"magic"`
	MagicHex  string `json:"magic_hex"`
	Version   int32  `json:"version"`
	DBID      int64  `json:"dbid"`
	Valid     bool   `json:"valid"`
	Size      int64  `json:"size"`
	SizeHuman string `json:"size_human"`
}

// RecordInfo is one decoded record ready for display.
type RecordInfo struct {
	Index  int   `json:"index"`
	Offset int64 `json:"offset"`
	// DeltaMillis is the record time minus the first record's time.
	DeltaMillis int64          `json:"delta_ms"`
	Time        time.Time      `json:"time"`
	SessionID   uint64         `json:"session_id"`
	Zxid        uint64         `json:"zxid"`
	Cxid        uint32         `json:"cxid"`
	Op          string         `json:"op"`
	Summary     string         `json:"summary"`
	Payload     txnlog.Payload `json:"payload"`
}

// Terminal describes how a dump ended.
type Terminal struct {
	Reason       string `json:"reason"`
	Records      int    `json:"records"`
	BytesDecoded int64  `json:"bytes_decoded"`
}

// LogStats contains aggregate statistics over one log file.
type LogStats struct {
	Path            string           `json:"path"`
	Version         int32            `json:"version"`
	DBID            int64            `json:"dbid"`
	Size            int64            `json:"size"`
	SizeHuman       string           `json:"size_human"`
	Records         int64            `json:"records"`
	BytesDecoded    int64            `json:"bytes_decoded"`
	OpCounts        map[string]int64 `json:"op_counts"`
	SessionsCreated int64            `json:"sessions_created"`
	SessionsClosed  int64            `json:"sessions_closed"`
	Errors          int64            `json:"errors"`
	FirstZxid       uint64           `json:"first_zxid"`
	LastZxid        uint64           `json:"last_zxid"`
	FirstTime       time.Time        `json:"first_time"`
	LastTime        time.Time        `json:"last_time"`
	SpanMillis      int64            `json:"span_ms"`
	Terminal        string           `json:"terminal"`
}

// Formatter is the interface for output formatting.
type Formatter interface {
	WriteFileHeader(w io.Writer, header HeaderInfo) error
	WriteLogStart(w io.Writer, start time.Time) error
	WriteRecord(w io.Writer, record RecordInfo) error
	WriteTerminal(w io.Writer, terminal Terminal) error
	WriteStats(w io.Writer, stats LogStats) error
}

// NewFormatter creates a new formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return &TableFormatter{}
	}
}
