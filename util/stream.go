package util

import (
	"fmt"
	"io"

	"github.com/go-git/go-billy/v6"
)

// ToBytes drains r. A nil reader yields an empty slice.
func ToBytes(r io.Reader) ([]byte, error) {
	if r == nil {
		return []byte{}, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	return b, nil
}

// ToFile writes r to dir/name on fs, truncating any existing file. Seekable
// readers are rewound first so a buffer that was already read is written whole.
func ToFile(fs billy.Filesystem, dir, name string, r io.Reader) (err error) {
	if r == nil {
		return fmt.Errorf("nil stream")
	}
	if s, ok := r.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind stream: %w", err)
		}
	}
	if dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	path := fs.Join(dir, name)
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
