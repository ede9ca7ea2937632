package extractor

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mediaopt/internal/pathutil"
)

// Source is what the precise-analysis capability reads from: a size accessor
// and a chunked reader.
type Source interface {
	Name() string
	Size() int64
	ReadChunk(size int, offset int64) ([]byte, error)
}

// Input is a file handle the extractor can analyze.
type Input interface {
	Source
	io.ReaderAt
	MIMEType() string
	ModTime() time.Time
}

var videoMIMETypes = map[string]string{
	"mp4":  "video/mp4",
	"m4v":  "video/x-m4v",
	"mov":  "video/quicktime",
	"mkv":  "video/x-matroska",
	"webm": "video/webm",
	"avi":  "video/x-msvideo",
	"mpg":  "video/mpeg",
	"mpeg": "video/mpeg",
	"ts":   "video/mp2t",
}

// MIMEByExtension returns the MIME type for a filename, empty if unknown.
func MIMEByExtension(name string) string {
	ext := pathutil.Extension(name)
	if t, ok := videoMIMETypes[ext]; ok {
		return t
	}
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension("." + ext)
}

// File is an Input backed by an io.ReaderAt, usually an *os.File. Files
// with a path are reopened on demand after Close.
type File struct {
	name    string
	path    string
	size    int64
	mime    string
	modTime time.Time

	mu     sync.Mutex
	r      io.ReaderAt
	closer io.Closer
}

// OpenFile opens path for analysis. The caller must Close the file.
func OpenFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		fh.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &File{
		name:    filepath.Base(path),
		path:    path,
		size:    info.Size(),
		mime:    MIMEByExtension(path),
		modTime: info.ModTime(),
		r:       fh,
		closer:  fh,
	}, nil
}

// StatFile describes path without opening it. The file is opened by the
// first read and released by Close.
func StatFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &File{
		name:    filepath.Base(path),
		path:    path,
		size:    info.Size(),
		mime:    MIMEByExtension(path),
		modTime: info.ModTime(),
	}, nil
}

// NewMemoryFile wraps an in-memory payload. An empty mimeType is derived
// from the name.
func NewMemoryFile(name string, data []byte, mimeType string, modTime time.Time) *File {
	if mimeType == "" {
		mimeType = MIMEByExtension(name)
	}
	return &File{
		name:    name,
		size:    int64(len(data)),
		mime:    mimeType,
		modTime: modTime,
		r:       bytes.NewReader(data),
	}
}

func (f *File) Name() string       { return f.name }
func (f *File) Path() string       { return f.path }
func (f *File) Size() int64        { return f.size }
func (f *File) MIMEType() string   { return f.mime }
func (f *File) ModTime() time.Time { return f.modTime }

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	r, err := f.reader()
	if err != nil {
		return 0, err
	}
	return r.ReadAt(p, off)
}

func (f *File) reader() (io.ReaderAt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.r != nil {
		return f.r, nil
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.path, err)
	}
	f.r, f.closer = fh, fh
	return fh, nil
}

// ReadChunk reads up to size bytes at offset. Reads past the end are
// truncated rather than failing.
func (f *File) ReadChunk(size int, offset int64) ([]byte, error) {
	if offset < 0 || size < 0 {
		return nil, fmt.Errorf("invalid chunk request: size %d, offset %d", size, offset)
	}
	if offset >= f.size {
		return nil, nil
	}
	if remaining := f.size - offset; int64(size) > remaining {
		size = int(remaining)
	}
	buf := make([]byte, size)
	n, err := f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// Close releases the underlying file, if any.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.r, f.closer = nil, nil
	return err
}
