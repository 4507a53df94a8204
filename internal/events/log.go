package events

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// Entry is one line read from the log. Err is set when the line could not be
// decoded; the caller decides whether to skip it.
type Entry struct {
	Offset int64
	Event  Event
	Err    error
}

// ReadFrom reads every complete line starting at byte offset and returns the
// offset just past the last complete line. A trailing partial line is left
// for the next read. A missing file reads as empty.
func ReadFrom(path string, offset int64) ([]Entry, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, offset, nil
		}
		return nil, offset, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, err
	}
	if info.Size() < offset {
		// The log was truncated or replaced; start over.
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, offset, err
	}

	var entries []Entry
	pos := offset
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSpace(string(data[:idx]))
		lineOffset := pos
		data = data[idx+1:]
		pos += int64(idx + 1)
		if line == "" {
			continue
		}
		ev, err := Decode(line)
		entries = append(entries, Entry{Offset: lineOffset, Event: ev, Err: err})
	}
	return entries, pos, nil
}

// Append fills in the id and timestamp when missing and appends the event
// as one line.
func Append(path string, ev Event) (Event, error) {
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.TS == 0 {
		ev.TS = time.Now().UnixMilli()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return Event{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Event{}, err
	}
	if err := atomicAppend(path, data); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func atomicAppend(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return err
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}
	return f.Sync()
}
