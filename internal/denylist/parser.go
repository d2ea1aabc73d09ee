package denylist

import (
	"bufio"
	"io"
	"strings"
)

const maxLineBytes = 1024 * 1024

// ParseLines reads one domain per line. Lines are trimmed and lowercased and
// blank lines are dropped; duplicates collapse into the set.
func ParseLines(r io.Reader) (Set, error) {
	set := make(Set)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024), maxLineBytes)

	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		set[line] = struct{}{}
	}
	return set, scanner.Err()
}
