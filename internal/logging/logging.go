package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout and to file, tagged with the given
// context. The returned cleanup func closes the log file.
func New(file, context string, debug bool) (*log.Entry, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, nil, err
	}

	fh, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := log.New()
	l.SetOutput(io.MultiWriter(os.Stdout, fh))
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	l.SetLevel(log.InfoLevel)
	if debug {
		l.SetLevel(log.DebugLevel)
	}

	return l.WithField("context", context), fh.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Entry {
	l := log.New()
	l.SetOutput(io.Discard)
	return log.NewEntry(l)
}
