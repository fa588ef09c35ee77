// Package logging configures the process logger. Logs go to stderr so
// the stdout progress protocol stays machine-readable.
package logging

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// New returns a configured logger. Level comes from LOG_LEVEL, defaulting
// to info.
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&ConsoleFormatter{})

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// ConsoleFormatter renders compact single-line entries with colored
// levels and sorted key=value fields.
type ConsoleFormatter struct{}

func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	if entry.Buffer != nil {
		b = entry.Buffer
	}

	levelColor := colorFor(entry.Level)
	fmt.Fprintf(b, "%s %s %s",
		entry.Time.Format("15:04:05"),
		levelColor.Sprintf("%-5s", strings.ToUpper(entry.Level.String())),
		entry.Message,
	)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fieldColor := color.New(color.FgCyan)
	for _, k := range keys {
		v := entry.Data[k]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		fmt.Fprintf(b, " %s%v", fieldColor.Sprintf("%s=", k), v)
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func colorFor(level logrus.Level) *color.Color {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return color.New(color.FgBlue)
	case logrus.WarnLevel:
		return color.New(color.FgYellow)
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgGreen)
	}
}
