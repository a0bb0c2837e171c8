package store

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/repo/meta"
	"github.com/keshon/snapvcs/internal/util"
)

// Record tags, in the order they appear.
const (
	tagVersionID     = "VERSION_ID:"
	tagMessage       = "MESSAGE:"
	tagTimestamp     = "TIMESTAMP:"
	tagFilesCount    = "FILES_COUNT:"
	tagFileStart     = "FILE_START:"
	tagContentLength = "CONTENT_LENGTH:"
	tagFileEnd       = "FILE_END"

	tagNextVersionID = "NEXT_VERSION_ID:"
	tagInitialized   = "INITIALIZED:"

	tagCurrentID = "CURRENT_VERSION_ID:"
	tagRevertLog = "REVERT_LOG:"
)

// minEntrySize is the shortest possible file entry: empty name, empty
// content, and FILE_END without its line break at the end of the record.
const minEntrySize = len(tagFileStart) + 1 + len(tagContentLength) + len("0\n") + 1 + len(tagFileEnd)

// EncodeCommit serializes c. File entries are written in name order and
// each content block is preceded by its byte length, so content may hold
// any of the tags above.
func EncodeCommit(c *meta.Commit) []byte {
	var b bytes.Buffer
	writeField(&b, tagVersionID, strconv.Itoa(c.ID()))
	writeField(&b, tagMessage, c.Message())
	writeField(&b, tagTimestamp, c.Timestamp())
	writeFiles(&b, c.Names(), c.File)
	return b.Bytes()
}

// DecodeCommit parses a commit record. path is only used in errors.
func DecodeCommit(path string, data []byte) (*meta.Commit, error) {
	r := &recordReader{path: path, data: data}

	id, err := r.intField(tagVersionID)
	if err != nil {
		return nil, err
	}
	message, err := r.field(tagMessage)
	if err != nil {
		return nil, err
	}
	timestamp, err := r.field(tagTimestamp)
	if err != nil {
		return nil, err
	}
	files, err := r.files()
	if err != nil {
		return nil, err
	}
	if err := r.end(); err != nil {
		return nil, err
	}
	return meta.RestoreCommit(id, message, timestamp, files), nil
}

// EncodeWorkspace serializes the working state: the current id, the
// revert log and the staged files in the same layout as a commit.
func EncodeWorkspace(w meta.Workspace) []byte {
	var b bytes.Buffer
	writeField(&b, tagCurrentID, strconv.Itoa(w.CurrentID))
	ids := make([]string, len(w.Reverts))
	for i, id := range w.Reverts {
		ids[i] = strconv.Itoa(id)
	}
	writeField(&b, tagRevertLog, strings.Join(ids, " "))

	writeFiles(&b, util.SortedKeys(w.Files), func(n string) (string, bool) {
		c, ok := w.Files[n]
		return c, ok
	})
	return b.Bytes()
}

// DecodeWorkspace parses a working state record.
func DecodeWorkspace(path string, data []byte) (meta.Workspace, error) {
	r := &recordReader{path: path, data: data}

	current, err := r.intField(tagCurrentID)
	if err != nil {
		return meta.Workspace{}, err
	}
	logLine, err := r.field(tagRevertLog)
	if err != nil {
		return meta.Workspace{}, err
	}
	var reverts []int
	for _, f := range strings.Fields(logLine) {
		id, err := strconv.Atoi(f)
		if err != nil || id < 0 {
			return meta.Workspace{}, r.fail("bad revert log entry %q", truncate(f))
		}
		reverts = append(reverts, id)
	}
	files, err := r.files()
	if err != nil {
		return meta.Workspace{}, err
	}
	if err := r.end(); err != nil {
		return meta.Workspace{}, err
	}
	return meta.Workspace{CurrentID: current, Reverts: reverts, Files: files}, nil
}

// EncodeMetadata serializes the repository metadata record.
func EncodeMetadata(m meta.Metadata) []byte {
	var b bytes.Buffer
	writeField(&b, tagNextVersionID, strconv.Itoa(m.NextID))
	initialized := "0"
	if m.Initialized {
		initialized = "1"
	}
	writeField(&b, tagInitialized, initialized)
	return b.Bytes()
}

// DecodeMetadata parses the repository metadata record.
func DecodeMetadata(path string, data []byte) (meta.Metadata, error) {
	r := &recordReader{path: path, data: data}

	next, err := r.intField(tagNextVersionID)
	if err != nil {
		return meta.Metadata{}, err
	}
	flag, err := r.field(tagInitialized)
	if err != nil {
		return meta.Metadata{}, err
	}
	if flag != "0" && flag != "1" {
		return meta.Metadata{}, r.fail("INITIALIZED must be 0 or 1, got %q", flag)
	}
	if err := r.end(); err != nil {
		return meta.Metadata{}, err
	}
	return meta.Metadata{NextID: next, Initialized: flag == "1"}, nil
}

// writeFiles emits FILES_COUNT and one length-prefixed entry per name.
func writeFiles(b *bytes.Buffer, names []string, get func(string) (string, bool)) {
	writeField(b, tagFilesCount, strconv.Itoa(len(names)))
	for _, name := range names {
		content, _ := get(name)
		writeField(b, tagFileStart, name)
		writeField(b, tagContentLength, strconv.Itoa(len(content)))
		b.WriteString(content)
		b.WriteByte('\n')
		b.WriteString(tagFileEnd)
		b.WriteByte('\n')
	}
}

func writeField(b *bytes.Buffer, tag, value string) {
	b.WriteString(tag)
	b.WriteString(value)
	b.WriteByte('\n')
}

// recordReader walks a record line by line, except for length-prefixed
// content which is consumed byte-exact.
type recordReader struct {
	path string
	data []byte
	pos  int
	line int
}

func (r *recordReader) fail(format string, args ...any) error {
	return &errs.RecordError{Path: r.path, Line: r.line, Reason: fmt.Sprintf(format, args...)}
}

// readLine returns the next line without its terminator.
func (r *recordReader) readLine() (string, bool) {
	if r.pos >= len(r.data) {
		return "", false
	}
	r.line++
	rest := r.data[r.pos:]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		r.pos = len(r.data)
		return strings.TrimSuffix(string(rest), "\r"), true
	}
	r.pos += i + 1
	return strings.TrimSuffix(string(rest[:i]), "\r"), true
}

func (r *recordReader) field(tag string) (string, error) {
	line, ok := r.readLine()
	if !ok {
		r.line++
		return "", r.fail("unexpected end of record, want %s", strings.TrimSuffix(tag, ":"))
	}
	if !strings.HasPrefix(line, tag) {
		return "", r.fail("want %s, got %q", strings.TrimSuffix(tag, ":"), truncate(line))
	}
	return line[len(tag):], nil
}

func (r *recordReader) intField(tag string) (int, error) {
	v, err := r.field(tag)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, r.fail("%s must be a non-negative integer, got %q", strings.TrimSuffix(tag, ":"), truncate(v))
	}
	return n, nil
}

// files reads FILES_COUNT followed by that many entries.
func (r *recordReader) files() (map[string]string, error) {
	count, err := r.intField(tagFilesCount)
	if err != nil {
		return nil, err
	}

	if limit := (len(r.data) - r.pos) / minEntrySize; count > limit {
		return nil, r.fail("FILES_COUNT %d exceeds what the remaining %d bytes can hold", count, len(r.data)-r.pos)
	}

	files := make(map[string]string, count)
	for i := 0; i < count; i++ {
		name, err := r.field(tagFileStart)
		if err != nil {
			return nil, err
		}
		if _, dup := files[name]; dup {
			return nil, r.fail("duplicate file entry %q", name)
		}
		size, err := r.intField(tagContentLength)
		if err != nil {
			return nil, err
		}
		content, err := r.content(size)
		if err != nil {
			return nil, err
		}
		if err := r.newline(); err != nil {
			return nil, err
		}
		if err := r.marker(tagFileEnd); err != nil {
			return nil, err
		}
		files[name] = content
	}
	return files, nil
}

func (r *recordReader) marker(tag string) error {
	line, ok := r.readLine()
	if !ok || line != tag {
		return r.fail("want %s, got %q", tag, truncate(line))
	}
	return nil
}

func (r *recordReader) content(n int) (string, error) {
	if n > len(r.data)-r.pos {
		return "", r.fail("content length %d exceeds remaining %d bytes", n, len(r.data)-r.pos)
	}
	chunk := r.data[r.pos : r.pos+n]
	r.pos += n
	r.line += bytes.Count(chunk, []byte{'\n'})
	return string(chunk), nil
}

func (r *recordReader) newline() error {
	if r.pos < len(r.data) && r.data[r.pos] == '\r' {
		r.pos++
	}
	if r.pos >= len(r.data) || r.data[r.pos] != '\n' {
		return r.fail("missing line break after content")
	}
	r.pos++
	r.line++
	return nil
}

// end accepts trailing blank space only.
func (r *recordReader) end() error {
	if len(bytes.TrimSpace(r.data[r.pos:])) != 0 {
		r.line++
		return r.fail("unexpected trailing data")
	}
	return nil
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
