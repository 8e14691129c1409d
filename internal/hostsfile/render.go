package hostsfile

import (
	"strings"

	"github.com/artpar/hostctl/internal/core"
)

// RenderLine renders one entry. Disabled entries are prefixed with "# ".
func RenderLine(entry core.HostEntry) string {
	return entry.Line()
}

// Render renders entries in order, each terminated by eol.
func Render(entries []core.HostEntry, eol string) string {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(RenderLine(entry))
		b.WriteString(eol)
	}
	return b.String()
}

// RenderBlock renders a complete managed region including both sentinels.
func RenderBlock(entries []core.HostEntry) string {
	return StartSentinel + "\n" + Render(entries, "\n") + EndSentinel + "\n"
}

// ParseLine parses "address host... [# comment]". A line of that form
// prefixed with '#' parses as a disabled entry. Blank lines, plain comments
// and malformed lines report false.
func ParseLine(line string) (core.HostEntry, bool) {
	text := strings.TrimSpace(line)
	enabled := true
	if strings.HasPrefix(text, "#") {
		enabled = false
		text = strings.TrimSpace(text[1:])
	}
	if text == "" || text[0] == '#' {
		return core.HostEntry{}, false
	}

	content, comment := text, ""
	if i := strings.IndexByte(text, '#'); i >= 0 {
		content = text[:i]
		comment = strings.TrimSpace(text[i+1:])
	}

	fields := strings.Fields(content)
	if len(fields) < 2 {
		return core.HostEntry{}, false
	}

	address, err := core.ParseAddress(fields[0])
	if err != nil {
		return core.HostEntry{}, false
	}

	entry := core.HostEntry{
		Address:   address,
		Hostnames: fields[1:],
		Comment:   comment,
		Enabled:   enabled,
	}
	if entry.Validate() != nil {
		return core.HostEntry{}, false
	}
	return entry, true
}
