package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const (
	// Default log level
	DefaultLevel = "info"

	// DefaultLogTimestamp is the default value for logging timestamps
	DefaultLogTimestamp = false

	FormatText  = "text"
	FormatColor = "color"
	FormatJSON  = "json"
)

// Configure sets up the standard logrus logger. Logs go to stderr so that
// command output on stdout stays clean.
func Configure(level, format string, logTimestamp bool) error {
	return configure(logrus.StandardLogger(), os.Stderr, level, format, logTimestamp)
}

func configure(logger *logrus.Logger, out io.Writer, level, format string, logTimestamp bool) error {
	logger.SetOutput(out)

	formatter, err := formatterFor(format, logTimestamp)
	if err != nil {
		return err
	}
	logger.SetFormatter(formatter)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	logger.SetLevel(lvl)
	return nil
}

func formatterFor(format string, logTimestamp bool) (logrus.Formatter, error) {
	switch format {
	case FormatText:
		return &logrus.TextFormatter{
			DisableColors:    true,
			FullTimestamp:    logTimestamp,
			DisableTimestamp: !logTimestamp,
		}, nil
	case FormatColor:
		return &logrus.TextFormatter{
			ForceColors:      true,
			FullTimestamp:    logTimestamp,
			DisableTimestamp: !logTimestamp,
		}, nil
	case FormatJSON:
		return &logrus.JSONFormatter{
			DisableTimestamp: !logTimestamp,
		}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q, expected one of %s, %s, %s",
			format, FormatText, FormatColor, FormatJSON)
	}
}
