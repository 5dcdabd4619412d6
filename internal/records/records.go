// Package records parses the line-oriented test-record files that drive an
// endurance session.
package records

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Delimiter separates fields in a test record.
const Delimiter = ":::"

// Record is one test definition: a pair of pipeline templates run
// concurrently at the given debug level. Immutable for the duration of one
// endurance loop.
type Record struct {
	TestID     string
	First      string
	Second     string
	DebugLevel int
}

// ParseFile reads all valid records from a file.
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening test records: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads records from r, one per line:
//
//	testId ::: templateA ::: templateB ::: debugLevel
//
// Blank lines and lines starting with # are ignored. Lines with any other
// field count, or a non-numeric debug level, are silently skipped.
func Parse(r io.Reader) ([]Record, error) {
	var recs []Record

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, Delimiter)
		if len(fields) != 4 {
			continue
		}

		level, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			continue
		}

		recs = append(recs, Record{
			TestID:     strings.TrimSpace(fields[0]),
			First:      strings.TrimSpace(fields[1]),
			Second:     strings.TrimSpace(fields[2]),
			DebugLevel: level,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading test records: %w", err)
	}

	return recs, nil
}
