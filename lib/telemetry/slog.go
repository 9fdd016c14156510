package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type SlogOptions struct {
	Debug bool
	// when set, logs are also appended to <LogDir>/scratch-<unix time>.log
	LogDir string
}

// InitSlog installs the default slog logger, it returns a function that
// closes the log file (if any).
func InitSlog(opts SlogOptions) func() {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	closer := func() {}

	if opts.LogDir != "" {
		file, err := openLogFile(opts.LogDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to open log file:", err)
		} else {
			out = io.MultiWriter(os.Stderr, file)
			closer = func() { file.Close() }
		}
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return closer
}

func openLogFile(dir string) (*os.File, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return nil, err
	}
	name := filepath.Join(dir, fmt.Sprintf("scratch-%d.log", time.Now().Unix()))
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}
