package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirSource reads dataset files from a local directory.
type DirSource struct {
	root string
}

func NewDirSource(root string) (*DirSource, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat dataset dir: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("dataset path %s must be a directory", root)
	}
	return &DirSource{root: filepath.Clean(root)}, nil
}

func (d *DirSource) Describe() string { return d.root }

func (d *DirSource) List(context.Context) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}
	var objects []ObjectInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		mod := info.ModTime()
		objects = append(objects, ObjectInfo{Key: e.Name(), Size: info.Size(), LastModified: &mod})
	}
	return objects, nil
}

func (d *DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if name == "" || strings.Contains(name, "..") || filepath.IsAbs(name) {
		return nil, fmt.Errorf("invalid dataset name %q", name)
	}
	f, err := os.Open(filepath.Join(d.root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotExist)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

var _ Source = (*DirSource)(nil)
