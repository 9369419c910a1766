package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

type options struct {
	strict bool
	logger *zap.Logger
}

type Option func(*options)

// WithStrict makes Parse fail on the first unclassifiable line instead of
// skipping it.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Parse classifies every line of r up to the first blank line or EOF.
func Parse(r io.Reader, opts ...Option) ([]Event, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	events := make([]Event, 0)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			o.logger.Debug("blank line ends transcript", zap.Int("line", lineNo))
			break
		}

		ev, err := Classify(line)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Line = lineNo
			}
			if o.strict {
				return nil, err
			}
			o.logger.Warn("skipping unrecognized transcript line",
				zap.Int("line", lineNo), zap.String("text", line))
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	return events, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string, opts ...Option) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	return Parse(file, opts...)
}
