package worker

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadLines reads one entry per line from path. Blank lines and lines
// starting with # are skipped; repeated entries are kept once, in first
// occurrence order.
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ParseLines(file)
}

// ParseLines applies the ReadLines rules to r
func ParseLines(r io.Reader) ([]string, error) {
	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return lines, nil
}
