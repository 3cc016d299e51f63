// Package logging provides the slog handler used across the render service:
// structured output teed to stdout and a daily-rotated file.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DailyFileHandler writes each record to a date-stamped log file, rotating
// when the date changes, and mirrors everything to stdout. Attribute-bound
// clones from WithAttrs share the underlying file.
type DailyFileHandler struct {
	out    *fileOutput
	stdout slog.Handler
	attrs  []slog.Attr
}

// fileOutput is the rotation state shared by a handler and all its clones.
type fileOutput struct {
	mu       sync.Mutex
	file     *os.File
	fileDate string
	logDir   string
}

func NewDailyFileHandler(logDir string, opts *slog.HandlerOptions) (*DailyFileHandler, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	h := &DailyFileHandler{
		out:    &fileOutput{logDir: logDir},
		stdout: slog.NewTextHandler(os.Stdout, opts),
	}

	if err := h.out.rotate(time.Now()); err != nil {
		return nil, err
	}
	return h, nil
}

// rotate opens the log file for the given day, closing the previous one.
func (o *fileOutput) rotate(now time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	date := now.Format("2006-01-02")
	if date == o.fileDate {
		return nil
	}

	if o.file != nil {
		o.file.Close()
	}

	path := filepath.Join(o.logDir, fmt.Sprintf("render-%s.log", date))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	o.file = f
	o.fileDate = date
	return nil
}

func (o *fileOutput) write(line string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.file.WriteString(line)
	return err
}

func (h *DailyFileHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.out.rotate(r.Time); err != nil {
		// File side broken; stdout still gets the record.
		return h.stdout.Handle(ctx, r)
	}

	var attrs string
	for _, a := range h.attrs {
		attrs += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})

	line := fmt.Sprintf("[%s] %-5s %s%s\n",
		r.Time.Format("2006/01/02 15:04:05.000"), r.Level.String(), r.Message, attrs)

	err := h.out.write(line)

	if err2 := h.stdout.Handle(ctx, r); err2 != nil && err == nil {
		err = err2
	}
	return err
}

func (h *DailyFileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	bound = append(bound, h.attrs...)
	bound = append(bound, attrs...)

	return &DailyFileHandler{
		out:    h.out,
		stdout: h.stdout.WithAttrs(attrs),
		attrs:  bound,
	}
}

func (h *DailyFileHandler) WithGroup(name string) slog.Handler {
	return &DailyFileHandler{
		out:    h.out,
		stdout: h.stdout.WithGroup(name),
		attrs:  h.attrs,
	}
}

func (h *DailyFileHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.stdout.Enabled(ctx, level)
}
