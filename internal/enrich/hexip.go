package enrich

import (
	"fmt"
	"strconv"
	"strings"
)

const minHexIPLength = 9

// ConvertHexIP renders values such as "0xC0A80001" as a dotted quad. Only the
// low 32 bits are used. Values without a 0x prefix, shorter than nine
// characters, or not valid hex are returned unchanged.
func ConvertHexIP(value string) string {
	if len(value) < minHexIPLength {
		return value
	}
	if !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "0X") {
		return value
	}

	n, err := strconv.ParseUint(value[2:], 16, 64)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%d.%d.%d.%d", (n>>24)&0xff, (n>>16)&0xff, (n>>8)&0xff, n&0xff)
}

func isIPColumnName(name string) bool {
	return strings.Contains(strings.ToLower(name), "ip")
}

// DetectIPColumns returns the indexes of columns whose name mentions "ip" and
// whose value in firstRow looks like an address. firstRow is expected to have
// been hex-converted already.
func DetectIPColumns(header, firstRow []string) []int {
	var indexes []int
	for i, name := range header {
		if !isIPColumnName(name) || i >= len(firstRow) {
			continue
		}
		sample := firstRow[i]
		if strings.ContainsAny(sample, ".:") {
			indexes = append(indexes, i)
		}
	}
	return indexes
}
