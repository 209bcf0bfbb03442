package model

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rivo/uniseg"
)

var (
	stripPolicy = bluemonday.StrictPolicy()
	linkPattern = regexp.MustCompile(`https?://[^\s<>"'\x{3000}-\x{303f}\x{ff00}-\x{ffef}]+`)
)

// CleanText strips markup from API text and drops code points that
// tcell cannot lay out. Line breaks are kept.
func CleanText(s string) string {
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '\r':
		case r == '\t':
			b.WriteByte(' ')
		case !isProblematicRune(r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// isProblematicRune reports code points that make tview miscount cell widths:
// skin tone modifiers, zero width joiners and variation selectors.
func isProblematicRune(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	case r == 0x200D:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	default:
		return false
	}
}

// Links returns the URLs found in text, in order, without duplicates.
func Links(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range linkPattern.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".,;:!?)")
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// Wrap breaks s into lines no wider than width terminal cells. Every
// paragraph yields at least one line, so Wrap("") is one empty line.
func Wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var line strings.Builder
		lineWidth := 0
		g := uniseg.NewGraphemes(para)
		for g.Next() {
			w := g.Width()
			if lineWidth+w > width && lineWidth > 0 {
				lines = append(lines, strings.TrimRight(line.String(), " "))
				line.Reset()
				lineWidth = 0
			}
			if lineWidth == 0 && g.Str() == " " {
				continue
			}
			line.WriteString(g.Str())
			lineWidth += w
		}
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return lines
}
