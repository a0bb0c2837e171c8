package meta

import (
	"strconv"
	"strings"
	"time"

	"github.com/keshon/snapvcs/internal/config"
	"github.com/keshon/snapvcs/internal/util"
)

const (
	SentinelID      = 0
	SentinelMessage = "Initial commit"
)

// now is the commit clock; tests swap it.
var now = time.Now

// Commit is an immutable full-content snapshot. Fields are only reachable
// through accessors and every map handed out is a copy.
type Commit struct {
	id        int
	message   string
	timestamp string
	files     map[string]string
}

// NewCommit snapshots files under id. The map is copied, the message is
// folded onto one line and the timestamp is taken from the wall clock.
func NewCommit(id int, message string, files map[string]string) *Commit {
	return &Commit{
		id:        id,
		message:   NormalizeMessage(message),
		timestamp: now().Format(config.TimestampForm),
		files:     copyFiles(files),
	}
}

// RestoreCommit rebuilds a commit read back from storage.
func RestoreCommit(id int, message, timestamp string, files map[string]string) *Commit {
	return &Commit{
		id:        id,
		message:   message,
		timestamp: timestamp,
		files:     copyFiles(files),
	}
}

// Sentinel returns the reserved id-0 commit created by initialization.
func Sentinel() *Commit {
	return NewCommit(SentinelID, SentinelMessage, nil)
}

func (c *Commit) ID() int                  { return c.id }
func (c *Commit) Message() string          { return c.message }
func (c *Commit) Timestamp() string        { return c.timestamp }
func (c *Commit) Len() int                 { return len(c.files) }
func (c *Commit) IsSentinel() bool         { return c.id == SentinelID }
func (c *Commit) Files() map[string]string { return copyFiles(c.files) }

// File returns the content of name in this snapshot.
func (c *Commit) File(name string) (string, bool) {
	content, ok := c.files[name]
	return content, ok
}

// Names returns the snapshot's file names sorted.
func (c *Commit) Names() []string { return util.SortedKeys(c.files) }

// Checksum fingerprints the whole file map.
func (c *Commit) Checksum() string {
	return FilesChecksum(c.files)
}

// NormalizeMessage folds line breaks into single spaces and trims the ends,
// since a record stores the message on one line.
func NormalizeMessage(msg string) string {
	if !strings.ContainsAny(msg, "\r\n") {
		return strings.TrimSpace(msg)
	}
	fields := strings.FieldsFunc(msg, func(r rune) bool { return r == '\n' || r == '\r' })
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

// ValidFilename reports whether name can be stored in a record.
func ValidFilename(name string) bool {
	return strings.TrimSpace(name) != "" && !strings.ContainsAny(name, "\r\n")
}

// Lines counts newline characters, the way the listings report file length.
func Lines(content string) int {
	return strings.Count(content, "\n")
}

func (c *Commit) String() string {
	return "#" + strconv.Itoa(c.id) + " " + c.message
}

func copyFiles(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
