package output

import (
	"encoding/json"
	"io"
	"time"
)

// JSONFormatter outputs data in JSON format. Records are written one object
// per line so a dump can be streamed into other tools.
type JSONFormatter struct{}

// WriteFileHeader writes the file header as JSON.
func (f *JSONFormatter) WriteFileHeader(w io.Writer, header HeaderInfo) error {
	return writeJSON(w, header)
}

// WriteLogStart is a no-op; every JSON record carries its own time.
func (f *JSONFormatter) WriteLogStart(io.Writer, time.Time) error {
	return nil
}

// WriteRecord writes one record as a single JSON line.
func (f *JSONFormatter) WriteRecord(w io.Writer, record RecordInfo) error {
	return json.NewEncoder(w).Encode(record)
}

// WriteTerminal writes the closing object as a single JSON line.
func (f *JSONFormatter) WriteTerminal(w io.Writer, t Terminal) error {
	return json.NewEncoder(w).Encode(struct {
		Terminal Terminal `json:"terminal"`
	}{t})
}

// WriteStats writes aggregate log statistics as JSON.
func (f *JSONFormatter) WriteStats(w io.Writer, stats LogStats) error {
	return writeJSON(w, stats)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
