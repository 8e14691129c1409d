// Package hostsfile edits the region of a hosts file owned by hostctl.
//
// The region is delimited by two sentinel lines:
//
//	# HOSTCTL-MANAGED-START
//	...generated lines...
//	# HOSTCTL-MANAGED-END
//
// Everything outside the region is passed through byte for byte.
package hostsfile

import (
	"strings"

	"github.com/artpar/hostctl/internal/core"
)

// Sentinel lines bounding the managed region.
const (
	StartSentinel = "# HOSTCTL-MANAGED-START"
	EndSentinel   = "# HOSTCTL-MANAGED-END"
)

// LineKind classifies a line of a hosts file.
type LineKind int

const (
	Unmanaged LineKind = iota
	ManagedEntry
	SentinelStart
	SentinelEnd
)

func (k LineKind) String() string {
	switch k {
	case Unmanaged:
		return "unmanaged"
	case ManagedEntry:
		return "managed"
	case SentinelStart:
		return "start"
	case SentinelEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Line is one line of a hosts file. Raw keeps the line terminator, so
// joining the Raw values of a document reproduces the original bytes.
// Entry is set for managed lines that parse as host entries.
type Line struct {
	Kind  LineKind
	Raw   string
	Entry *core.HostEntry
}

// Text returns the line without its terminator.
func (l Line) Text() string {
	return strings.TrimRight(l.Raw, "\r\n")
}

// Document is a scanned hosts file.
type Document struct {
	Lines []Line
	start int
	end   int
	eol   string
}

// Scan classifies every line of content in a single pass. The first start
// sentinel and the first end sentinel after it bound the managed region;
// later sentinels are ordinary unmanaged text. An end sentinel before any
// start, or a start with no end, is a *core.ManagedRegionError.
func Scan(content string) (*Document, error) {
	doc := &Document{start: -1, end: -1, eol: detectEOL(content)}

	for i, raw := range splitLines(content) {
		line := Line{Kind: Unmanaged, Raw: raw}
		text := strings.TrimSpace(raw)

		switch {
		case doc.end >= 0:
			// past the managed region
		case doc.start < 0 && text == EndSentinel:
			return nil, &core.ManagedRegionError{Line: i + 1, Reason: "end sentinel without a preceding start sentinel"}
		case doc.start < 0 && text == StartSentinel:
			line.Kind = SentinelStart
			doc.start = i
		case doc.start >= 0 && text == EndSentinel:
			line.Kind = SentinelEnd
			doc.end = i
		case doc.start >= 0:
			line.Kind = ManagedEntry
			if entry, ok := ParseLine(raw); ok {
				line.Entry = &entry
			}
		}

		doc.Lines = append(doc.Lines, line)
	}

	if doc.start >= 0 && doc.end < 0 {
		return nil, &core.ManagedRegionError{Line: doc.start + 1, Reason: "start sentinel without a matching end sentinel"}
	}
	return doc, nil
}

// HasRegion reports whether the document contains a managed region.
func (d *Document) HasRegion() bool {
	return d.start >= 0
}

// EOL returns the line terminator used for generated lines.
func (d *Document) EOL() string {
	return d.eol
}

// ManagedEntries returns the entries currently rendered in the region.
func (d *Document) ManagedEntries() []core.HostEntry {
	var entries []core.HostEntry
	for _, l := range d.Lines {
		if l.Kind == ManagedEntry && l.Entry != nil {
			entries = append(entries, *l.Entry)
		}
	}
	return entries
}

// String reassembles the document exactly as scanned.
func (d *Document) String() string {
	var b strings.Builder
	for _, l := range d.Lines {
		b.WriteString(l.Raw)
	}
	return b.String()
}

// Merge returns the file content with the managed region body replaced by
// entries. Without a region, one is appended after the existing content.
func (d *Document) Merge(entries []core.HostEntry) string {
	var b strings.Builder
	body := Render(entries, d.eol)

	if !d.HasRegion() {
		content := d.String()
		b.WriteString(content)
		if content != "" && !strings.HasSuffix(content, "\n") {
			b.WriteString(d.eol)
		}
		b.WriteString(StartSentinel)
		b.WriteString(d.eol)
		b.WriteString(body)
		b.WriteString(EndSentinel)
		b.WriteString(d.eol)
		return b.String()
	}

	for _, l := range d.Lines[:d.start+1] {
		b.WriteString(l.Raw)
	}
	b.WriteString(body)
	for _, l := range d.Lines[d.end:] {
		b.WriteString(l.Raw)
	}
	return b.String()
}

// Merge scans content and replaces its managed region with entries.
func Merge(content string, entries []core.HostEntry) (string, error) {
	doc, err := Scan(content)
	if err != nil {
		return "", err
	}
	return doc.Merge(entries), nil
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func detectEOL(content string) string {
	if i := strings.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
