package output

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ankur-anand/zktxnlog/pkg/txnlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	t.Run("returns TableFormatter for table format", func(t *testing.T) {
		f := NewFormatter(FormatTable)
		_, ok := f.(*TableFormatter)
		assert.True(t, ok)
	})

	t.Run("returns JSONFormatter for json format", func(t *testing.T) {
		f := NewFormatter(FormatJSON)
		_, ok := f.(*JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("returns TableFormatter for unknown format", func(t *testing.T) {
		f := NewFormatter("unknown")
		_, ok := f.(*TableFormatter)
		assert.True(t, ok)
	})
}

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "000000000,000"},
		{7, "000000000,007"},
		{12345, "000000012,345"},
		{-1500, "-000000001,500"},
		{-1, "-000000000,001"},
		{86_400_000, "000086400,000"},
		{math.MaxInt64, "9223372036854775,807"},
		{math.MinInt64, "-9223372036854775,808"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDelta(tt.ms))
	}
}

func sampleRecord() RecordInfo {
	return RecordInfo{
		Index:       1,
		Offset:      16,
		DeltaMillis: 2042,
		Time:        time.Date(2024, 3, 5, 10, 4, 5, 42*int(time.Millisecond), time.UTC),
		SessionID:   0x1000a2b3c4d0001,
		Zxid:        0x500000002,
		Cxid:        0x1f,
		Op:          "create",
		Summary:     "Create path /a data 'x' acls [] ephemeral 1",
		Payload:     &txnlog.CreateTxn{Path: "/a", Data: []byte("x"), ACLs: []txnlog.ACL{}, Ephemeral: true},
	}
}

func TestTableFormatter_WriteRecord(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	require.NoError(t, f.WriteRecord(&buf, sampleRecord()))

	assert.Equal(t,
		"000000002,042 Tue Mar  5 10:04:05 2024 ( 42ms) sessionid 0x1000a2b3c4d0001 zxid 0x500000002 cxid 0x1f create -- Create path /a data 'x' acls [] ephemeral 1\n",
		buf.String())
}

func TestTableFormatter_WriteLogStart(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	start := time.Date(2024, 3, 5, 10, 4, 3, 7*int(time.Millisecond), time.UTC)
	require.NoError(t, f.WriteLogStart(&buf, start))
	assert.Equal(t, "Log starts at Tue Mar  5 10:04:03 2024 and 7ms\n", buf.String())
}

func TestTableFormatter_WriteTerminal(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	require.NoError(t, f.WriteTerminal(&buf, Terminal{Reason: "end of stream", Records: 12345, BytesDecoded: 2048}))
	assert.Equal(t, "end of stream after 12,345 records (2.0 kB decoded)\n", buf.String())
}

func TestTableFormatter_WriteFileHeader(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	header := HeaderInfo{
		Path:      "/var/lib/zookeeper/version-2/log.100000001",
		Magic:     "ZKLG",
		MagicHex:  "0x5a4b4c47",
		Version:   2,
		DBID:      0,
		Valid:     true,
		Size:      64 * 1024 * 1024,
		SizeHuman: "67 MB",
	}
	require.NoError(t, f.WriteFileHeader(&buf, header))

	output := buf.String()
	assert.Contains(t, output, "Log File Header")
	assert.Contains(t, output, "0x5a4b4c47 (ZKLG)")
	assert.Contains(t, output, "Valid:    yes")
	assert.Contains(t, output, "67 MB (67,108,864 bytes)")
}

func TestTableFormatter_WriteStats(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	stats := LogStats{
		Path:            "log.1",
		Version:         2,
		SizeHuman:       "1.0 kB",
		Records:         129443,
		BytesDecoded:    160 * 1024 * 1024,
		OpCounts:        map[string]int64{"sessioncreate": 10, "create": 129423, "sessionclose": 10},
		SessionsCreated: 10,
		SessionsClosed:  10,
		FirstZxid:       0x100000001,
		LastZxid:        0x10001f9a3,
		FirstTime:       time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		LastTime:        time.Date(2024, 3, 5, 11, 30, 0, 0, time.UTC),
		SpanMillis:      90 * 60 * 1000,
		Terminal:        "end of stream",
	}
	require.NoError(t, f.WriteStats(&buf, stats))

	output := buf.String()
	assert.Contains(t, output, "Transaction Log Statistics")
	assert.Contains(t, output, "Records:           129,443")
	assert.Contains(t, output, "Zxid Range:        0x100000001 - 0x10001f9a3")
	assert.Contains(t, output, "Span:              1h30m0s")
	assert.Contains(t, output, "Terminal:          end of stream")

	// op table sorted by name
	create := strings.Index(output, "create ")
	closeIdx := strings.Index(output, "sessionclose")
	open := strings.Index(output, "sessioncreate")
	assert.True(t, create < closeIdx && closeIdx < open, output)
	assert.Contains(t, output, "129,423")
}

func TestTableFormatter_WriteStats_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	require.NoError(t, f.WriteStats(&buf, LogStats{Path: "log.1", Terminal: "end of stream"}))
	output := buf.String()
	assert.NotContains(t, output, "Zxid Range")
	assert.NotContains(t, output, "OP")
}

func TestJSONFormatter_WriteRecord(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}

	require.NoError(t, f.WriteRecord(&buf, sampleRecord()))
	require.NoError(t, f.WriteRecord(&buf, sampleRecord()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &parsed))
	assert.Equal(t, "create", parsed["op"])
	assert.Equal(t, float64(2042), parsed["delta_ms"])
	payload, ok := parsed["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/a", payload["path"])
	assert.Equal(t, true, payload["ephemeral"])
}

func TestJSONFormatter_WriteTerminalAndLogStart(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}

	require.NoError(t, f.WriteLogStart(&buf, time.Now()))
	assert.Zero(t, buf.Len())

	require.NoError(t, f.WriteTerminal(&buf, Terminal{Reason: "end of stream", Records: 3, BytesDecoded: 120}))
	var parsed struct {
		Terminal Terminal `json:"terminal"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, Terminal{Reason: "end of stream", Records: 3, BytesDecoded: 120}, parsed.Terminal)
}

func TestJSONFormatter_WriteStats(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}

	stats := LogStats{
		Path:     "log.1",
		Records:  3,
		OpCounts: map[string]int64{"create": 3},
		Terminal: "end of stream",
	}
	require.NoError(t, f.WriteStats(&buf, stats))

	var result LogStats
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, int64(3), result.Records)
	assert.Equal(t, int64(3), result.OpCounts["create"])
}

func TestJSONFormatter_WriteFileHeader(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}

	require.NoError(t, f.WriteFileHeader(&buf, HeaderInfo{Path: "log.1", Magic: "ZKLG", Version: 2, Valid: true}))

	var result HeaderInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, int32(2), result.Version)
}
