package output

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

// TableFormatter outputs data in the human-readable dump layout.
type TableFormatter struct{}

// WriteFileHeader writes the file header block.
func (f *TableFormatter) WriteFileHeader(w io.Writer, header HeaderInfo) error {
	valid := "yes"
	if !header.Valid {
		valid = "no"
	}
	fmt.Fprintln(w, "Log File Header")
	fmt.Fprintln(w, "===============")
	fmt.Fprintf(w, "Path:     %s\n", header.Path)
	fmt.Fprintf(w, "Magic:    %s (%s)\n", header.MagicHex, header.Magic)
	fmt.Fprintf(w, "Valid:    %s\n", valid)
	fmt.Fprintf(w, "Version:  %d\n", header.Version)
	fmt.Fprintf(w, "DB ID:    %d\n", header.DBID)
	_, err := fmt.Fprintf(w, "Size:     %s (%s bytes)\n", header.SizeHuman, humanize.Comma(header.Size))
	return err
}

// WriteLogStart writes the line that precedes the first record.
func (f *TableFormatter) WriteLogStart(w io.Writer, start time.Time) error {
	_, err := fmt.Fprintf(w, "Log starts at %s and %dms\n", formatCtime(start), start.Nanosecond()/int(time.Millisecond))
	return err
}

// WriteRecord writes one record line.
func (f *TableFormatter) WriteRecord(w io.Writer, r RecordInfo) error {
	_, err := fmt.Fprintf(w, "%s %s (%3dms) sessionid 0x%x zxid 0x%x cxid 0x%x %s -- %s\n",
		FormatDelta(r.DeltaMillis),
		formatCtime(r.Time),
		r.Time.Nanosecond()/int(time.Millisecond),
		r.SessionID,
		r.Zxid,
		r.Cxid,
		r.Op,
		r.Summary,
	)
	return err
}

// WriteTerminal writes the closing line of a dump.
func (f *TableFormatter) WriteTerminal(w io.Writer, t Terminal) error {
	_, err := fmt.Fprintf(w, "%s after %s records (%s decoded)\n",
		t.Reason,
		humanize.Comma(int64(t.Records)),
		humanize.Bytes(uint64(t.BytesDecoded)),
	)
	return err
}

// WriteStats writes aggregate log statistics.
func (f *TableFormatter) WriteStats(w io.Writer, stats LogStats) error {
	fmt.Fprintln(w, "Transaction Log Statistics")
	fmt.Fprintln(w, "==========================")
	fmt.Fprintf(w, "Path:              %s\n", stats.Path)
	fmt.Fprintf(w, "Version:           %d\n", stats.Version)
	fmt.Fprintf(w, "DB ID:             %d\n", stats.DBID)
	fmt.Fprintf(w, "File Size:         %s\n", stats.SizeHuman)
	fmt.Fprintf(w, "Records:           %s\n", humanize.Comma(stats.Records))
	fmt.Fprintf(w, "Bytes Decoded:     %s\n", humanize.Bytes(uint64(stats.BytesDecoded)))
	fmt.Fprintf(w, "  Sessions Opened: %s\n", humanize.Comma(stats.SessionsCreated))
	fmt.Fprintf(w, "  Sessions Closed: %s\n", humanize.Comma(stats.SessionsClosed))
	fmt.Fprintf(w, "  Error Txns:      %s\n", humanize.Comma(stats.Errors))
	if stats.Records > 0 {
		fmt.Fprintf(w, "Zxid Range:        0x%x - 0x%x\n", stats.FirstZxid, stats.LastZxid)
		fmt.Fprintf(w, "Time Range:        %s - %s\n", formatCtime(stats.FirstTime), formatCtime(stats.LastTime))
		fmt.Fprintf(w, "Span:              %s\n", time.Duration(stats.SpanMillis)*time.Millisecond)
	}
	fmt.Fprintf(w, "Terminal:          %s\n", stats.Terminal)

	if len(stats.OpCounts) == 0 {
		return nil
	}

	ops := make([]string, 0, len(stats.OpCounts))
	for op := range stats.OpCounts {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OP\tCOUNT")
	for _, op := range ops {
		fmt.Fprintf(tw, "%s\t%s\n", op, humanize.Comma(stats.OpCounts[op]))
	}
	return tw.Flush()
}

// FormatDelta renders a signed millisecond offset as seconds and millis,
// zero padded: 000000012,345 or -000000001,500.
func FormatDelta(ms int64) string {
	sign := ""
	mag := uint64(ms)
	if ms < 0 {
		sign = "-"
		mag = uint64(-(ms + 1)) + 1
	}
	return fmt.Sprintf("%s%09d,%03d", sign, mag/1000, mag%1000)
}

func formatCtime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.ANSIC)
}
