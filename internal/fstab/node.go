package fstab

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var tagDirs = []struct {
	prefix string
	dir    string
}{
	{"LABEL=", "by-label"},
	{"UUID=", "by-uuid"},
	{"PARTUUID=", "by-partuuid"},
	{"PARTLABEL=", "by-partlabel"},
	{"ID=", "by-id"},
}

// NodeToUdevNode translates fstab style tags such as UUID=... into the
// matching /dev/disk/by-*/ symlink. Anything else is returned unchanged.
func NodeToUdevNode(node string) string {
	for _, tag := range tagDirs {
		if value, ok := strings.CutPrefix(node, tag.prefix); ok {
			return "/dev/disk/" + tag.dir + "/" + encodeDevnodeName(unquote(value))
		}
	}
	return node
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func isDevnodeSafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("#+-.:=@_", c) >= 0
}

// encodeDevnodeName escapes a tag value the way udev names the by-* links:
// valid multibyte UTF-8 is kept, unsafe bytes become \xNN.
func encodeDevnodeName(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if size > 1 && r != utf8.RuneError {
			b.WriteString(s[i : i+size])
			i += size
			continue
		}
		c := s[i]
		if isDevnodeSafe(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, `\x%02x`, c)
		}
		i++
	}
	return b.String()
}
