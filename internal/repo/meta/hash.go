package meta

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/zeebo/xxh3"
)

// FilesChecksum returns a stable xxh3-128 digest of a file map.
func FilesChecksum(files map[string]string) string {
	names := make([]string, 0, len(files))
	size := 0
	for n, c := range files {
		names = append(names, n)
		size += len(n) + len(c) + 24
	}
	sort.Strings(names)

	data := make([]byte, 0, size)
	for _, n := range names {
		c := files[n]
		data = append(data, n...)
		data = append(data, 0)
		data = strconv.AppendInt(data, int64(len(c)), 10)
		data = append(data, 0)
		data = append(data, c...)
	}
	return fmt.Sprintf("%x", xxh3.Hash128(data).Bytes())
}

// ShortHash trims a digest for display.
func ShortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
