package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/mmap"
	"golang.org/x/term"
)

// EndMarker ends interactive content entry when typed on its own line.
const EndMarker = "###"

// ReadContent returns file content for add and edit: the file at path when
// one is given, otherwise the command's input.
func ReadContent(ctx *Context, path string) (string, error) {
	if path != "" {
		return ReadSourceFile(path)
	}
	in := ctx.In()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(ctx.Out(), "Enter file content (end with '%s' on a new line):\n", EndMarker)
		return ReadTerminated(in)
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

// ReadTerminated reads lines until EndMarker or EOF. Every kept line ends
// with a newline.
func ReadTerminated(r io.Reader) (string, error) {
	var b strings.Builder
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == EndMarker {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return b.String(), nil
}

// ReadSourceFile reads a file from disk through a memory map.
func ReadSourceFile(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat file %q: %w", path, err)
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%q is a directory", path)
	}
	if fi.Size() == 0 {
		return "", nil
	}

	reader, err := mmap.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file %q: %w", path, err)
	}
	defer reader.Close()

	data := make([]byte, reader.Len())
	if _, err := reader.ReadAt(data, 0); err != nil {
		return "", fmt.Errorf("read file %q: %w", path, err)
	}
	return string(data), nil
}
