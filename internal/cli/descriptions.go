package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadDescriptions reads one business description per line. Blank lines and
// lines starting with # are skipped.
func ReadDescriptions(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read descriptions: %w", err)
	}
	return out, nil
}
