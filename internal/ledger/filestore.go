package ledger

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists receipts as newline-delimited JSON, one object per
// line, in a single append-only file. Appends are serialized by a mutex so a
// single process never interleaves lines; multi-process writers must add an
// external lock (the wire format itself specifies none).
type FileStore struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewFileStore opens (creating if necessary) the ledger file at path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("filestore: path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("filestore: create directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("filestore: open %s: %w", path, err)
	}
	return &FileStore{path: path, file: f}, nil
}

// Append writes line plus a trailing newline in a single Write call, relying
// on O_APPEND for atomic placement at the end of the file.
func (s *FileStore) Append(ctx context.Context, line []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(buf); err != nil {
		return fmt.Errorf("filestore: append: %w", err)
	}
	return nil
}

// Iterate opens an independent read handle so replay sees a consistent
// prefix of the file even while a writer is appending.
func (s *FileStore) Iterate(ctx context.Context) (Iterator, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileIterator{ctx: ctx}, nil
		}
		return nil, fmt.Errorf("filestore: open for read: %w", err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	return &fileIterator{ctx: ctx, file: f, scanner: sc}, nil
}

// Close closes the append handle.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

type fileIterator struct {
	ctx     context.Context
	file    *os.File
	scanner *bufio.Scanner
	err     error
}

func (it *fileIterator) Next() ([]byte, bool) {
	if it.scanner == nil {
		return nil, false
	}
	if err := it.ctx.Err(); err != nil {
		it.err = err
		return nil, false
	}
	for it.scanner.Scan() {
		line := it.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		out := make([]byte, len(line))
		copy(out, line)
		return out, true
	}
	it.err = it.scanner.Err()
	return nil, false
}

func (it *fileIterator) Err() error { return it.err }

func (it *fileIterator) Close() error {
	if it.file == nil {
		return nil
	}
	return it.file.Close()
}

var _ Store = (*FileStore)(nil)
