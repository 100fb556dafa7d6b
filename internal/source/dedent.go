package source

import "strings"

// Dedent removes the whitespace prefix common to every non-blank line of text,
// in the manner of textwrap.dedent. Lines holding only whitespace are
// normalised to empty lines. The second result is the number of bytes the
// first line lost, which is the indent to pass to NewContext.
func Dedent(text string) (string, int) {
	lines := strings.Split(text, "\n")
	margin := ""
	found := false
	for i, line := range lines {
		if strings.TrimLeft(line, " \t") == "" {
			lines[i] = ""
			continue
		}
		prefix := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		switch {
		case !found:
			margin, found = prefix, true
		case strings.HasPrefix(prefix, margin):
		case strings.HasPrefix(margin, prefix):
			margin = prefix
		default:
			margin = commonPrefix(margin, prefix)
		}
	}
	if margin != "" {
		for i, line := range lines {
			lines[i] = strings.TrimPrefix(line, margin)
		}
	}
	out := strings.Join(lines, "\n")

	firstOrig, _, _ := strings.Cut(text, "\n")
	firstNew, _, _ := strings.Cut(out, "\n")
	return out, len(firstOrig) - len(firstNew)
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
