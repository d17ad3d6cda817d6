// Package models holds the data exchanged with the file-drop API and the
// local file handles staged for upload.
package models

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileDescriptor is a remote file as listed by a redemption or a status call.
type FileDescriptor struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	UploadTime string `json:"upload_time,omitempty"`
}

// LocalFile is a locally selected, not-yet-uploaded file handle.
type LocalFile struct {
	Name string
	Size int64
	Path string

	open func() (io.ReadCloser, error)
}

// FileFromPath stats path and returns a handle that opens it lazily.
func FileFromPath(path string) (LocalFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return LocalFile{}, err
	}
	if fi.IsDir() {
		return LocalFile{}, fmt.Errorf("%s is a directory", path)
	}
	return LocalFile{
		Name: filepath.Base(path),
		Size: fi.Size(),
		Path: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileFromBytes wraps in-memory content as a LocalFile.
func FileFromBytes(name string, data []byte) LocalFile {
	return LocalFile{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func (f LocalFile) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %q has no content source", f.Name)
	}
	return f.open()
}
