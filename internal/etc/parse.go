package etc

import (
	"fmt"
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix string
	mult   int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"G", 1 << 30},
	{"M", 1 << 20},
	{"K", 1 << 10},
	{"B", 1},
}

// ParseSize parses sizes such as "64MB", "512kb" or "1048576". Units are
// binary: 1KB is 1024 bytes. An empty string is zero.
func ParseSize(sizeStr string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(sizeStr))
	if s == "" {
		return 0, nil
	}

	mult := int64(1)
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			mult = u.mult
			break
		}
	}

	size, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", sizeStr, err)
	}
	if size < 0 {
		return 0, fmt.Errorf("invalid size %q: must not be negative", sizeStr)
	}
	if size > (1<<63-1)/mult {
		return 0, fmt.Errorf("invalid size %q: overflows int64", sizeStr)
	}
	return size * mult, nil
}
