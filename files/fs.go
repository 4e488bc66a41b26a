package files

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFS is a file system that can also create files.
type CreateFS interface {
	fs.FS
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
}

// DirFS is a CreateFS rooted at a host directory.
type DirFS string

func (dir DirFS) Open(name string) (fs.File, error) {
	return os.DirFS(string(dir)).Open(name)
}

func (dir DirFS) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(os.DirFS(string(dir)), name)
}

func (dir DirFS) Create(name string) (io.WriteCloser, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "create", Path: name, Err: fs.ErrInvalid}
	}
	path := filepath.Join(string(dir), filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
