package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// FileSink writes a zstd-compressed trace file, one per session.
type FileSink struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewFileSink creates dir if needed and opens <dir>/<name>.trace.zst,
// truncating an older trace of the same name.
func NewFileSink(dir, name string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("trace dir: %w", err)
	}
	path := filepath.Join(dir, name+".trace.zst")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("trace encoder: %w", err)
	}
	return &FileSink{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Path returns the trace file location.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Record(l Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return os.ErrClosed
	}
	_, err := s.w.WriteString(l.Format())
	return err
}

// Close flushes and closes the file. Closing twice is harmless.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return nil
	}
	var err error
	if ferr := s.w.Flush(); ferr != nil {
		err = ferr
	}
	if cerr := s.enc.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := s.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	s.w, s.enc, s.f = nil, nil, nil
	return err
}

// ReadFile decompresses a trace file written by FileSink.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}
