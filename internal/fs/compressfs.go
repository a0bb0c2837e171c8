package fs

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
)

// CompressedFS wraps another FS and gzips every file it writes.
// Reads transparently decompress. Records written through it are not
// readable by a plain FS.
type CompressedFS struct {
	underlying FS
}

func NewCompressedFS(base FS) *CompressedFS {
	return &CompressedFS{underlying: base}
}

func (c *CompressedFS) ReadFile(path string) ([]byte, error) {
	data, err := c.underlying.ReadFile(path)
	if err != nil {
		return nil, err
	}
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return io.ReadAll(gz)
}

func (c *CompressedFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	buf, err := compress(data)
	if err != nil {
		return err
	}
	return c.underlying.WriteFile(path, buf, perm)
}

// CreateTempFile compresses on Close, so WriteFileAtomic works unchanged.
func (c *CompressedFS) CreateTempFile(dir, pattern string) (io.WriteCloser, string, error) {
	wc, name, err := c.underlying.CreateTempFile(dir, pattern)
	if err != nil {
		return nil, "", err
	}
	return &gzipWriteCloser{dst: wc}, name, nil
}

type gzipWriteCloser struct {
	dst io.WriteCloser
	buf bytes.Buffer
}

func (g *gzipWriteCloser) Write(p []byte) (int, error) { return g.buf.Write(p) }
func (g *gzipWriteCloser) Close() error {
	data, err := compress(g.buf.Bytes())
	if err != nil {
		g.dst.Close()
		return err
	}
	if _, err := g.dst.Write(data); err != nil {
		g.dst.Close()
		return err
	}
	return g.dst.Close()
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Pass-through for other operations
func (c *CompressedFS) MkdirAll(path string, perm os.FileMode) error {
	return c.underlying.MkdirAll(path, perm)
}
func (c *CompressedFS) Remove(path string) error { return c.underlying.Remove(path) }
func (c *CompressedFS) Rename(oldPath, newPath string) error {
	return c.underlying.Rename(oldPath, newPath)
}
func (c *CompressedFS) Stat(path string) (os.FileInfo, error)      { return c.underlying.Stat(path) }
func (c *CompressedFS) ReadDir(path string) ([]os.DirEntry, error) { return c.underlying.ReadDir(path) }
func (c *CompressedFS) IsNotExist(err error) bool                  { return c.underlying.IsNotExist(err) }
func (c *CompressedFS) IsDir(path string) bool                     { return c.underlying.IsDir(path) }
func (c *CompressedFS) Exists(path string) bool                    { return c.underlying.Exists(path) }
