package driver

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/beaterhtml/reporter"
)

// Format names an encoding of recorded test results.
type Format string

const (
	// FormatAuto detects go test -json streams and JSON arrays and otherwise
	// decodes YAML.
	FormatAuto Format = "auto"
	// FormatJSON is a JSON array of reporter.TestResult.
	FormatJSON Format = "json"
	// FormatYAML is a YAML sequence of reporter.TestResult.
	FormatYAML Format = "yaml"
	// FormatGoTest is the line-delimited event stream of go test -json.
	FormatGoTest Format = "gotest"
)

// Formats lists every accepted format name.
var Formats = []Format{FormatAuto, FormatJSON, FormatYAML, FormatGoTest}

// ParseFormat validates a format name. The empty string means FormatAuto.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatAuto, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of %v)", s, Formats)
}

// DecodeResults reads a complete set of results from r.
func DecodeResults(r io.Reader, format Format) ([]reporter.TestResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}

	if format == FormatAuto || format == "" {
		format = Detect(data)
	}

	var results []reporter.TestResult
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &results); err != nil {
			return nil, fmt.Errorf("decoding JSON results: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &results); err != nil {
			return nil, fmt.Errorf("decoding YAML results: %w", err)
		}
	case FormatGoTest:
		agg := newGoTestAggregator()
		if err := agg.scan(bytes.NewReader(data), nil); err != nil {
			return nil, err
		}
		results = agg.results
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return results, nil
}

// Detect guesses the format of data.
func Detect(data []byte) Format {
	switch trimmed := bytes.TrimSpace(data); {
	case IsGoTestJSON(trimmed):
		return FormatGoTest
	case len(trimmed) > 0 && trimmed[0] == '[':
		return FormatJSON
	default:
		return FormatYAML
	}
}

// IsGoTestJSON reports whether data starts with a go test -json event.
func IsGoTestJSON(data []byte) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return false
	}
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		data = data[:idx]
	}
	var event TestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return false
	}
	return validActions[event.Action]
}

var validActions = map[string]bool{
	"start": true, "run": true, "pause": true, "cont": true,
	"pass": true, "bench": true, "fail": true, "output": true, "skip": true,
	"build-output": true, "build-fail": true,
}

// scanLines calls fn for every non-empty line of r. Lines may be up to 1MB.
func scanLines(r io.Reader, fn func([]byte)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Bytes(); len(line) > 0 {
			fn(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning test output: %w", err)
	}
	return nil
}
