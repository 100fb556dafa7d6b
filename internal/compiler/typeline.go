package compiler

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

const (
	typeCommentPrefix = "# type:"
	typeIgnoreSuffix  = "# type: ignore"
	returnLineMarker  = "# type: (...) -> "
)

// misspelledTypePrefix matches type comment prefixes with stray whitespace,
// such as `#type :`, but not a well-formed `# type: ignore`.
var misspelledTypePrefix = regexp2.MustCompile(`#[\t ]*type[\t ]*(?!: ignore(\[.*\])?$):`, regexp2.None)

type numberedLine struct {
	num  int
	text string
}

// TypeLine finds the signature type comment of a unit. It returns false
// when the unit has none. Comments split one per parameter in the PEP 484
// style are joined into a single `# type: (T1, T2) -> R` line.
func TypeLine(src string) (string, bool, error) {
	lines := strings.Split(src, "\n")
	var typeLines []numberedLine
	for i, line := range lines {
		if strings.Contains(line, typeCommentPrefix) && !strings.HasSuffix(line, typeIgnoreSuffix) {
			typeLines = append(typeLines, numberedLine{num: i + 1, text: line})
		}
	}

	switch len(typeLines) {
	case 0:
		for i, line := range lines {
			ok, err := misspelledTypePrefix.MatchString(line)
			if err != nil {
				return "", false, fmt.Errorf("scan type comments: %w", err)
			}
			if ok {
				return "", false, fmt.Errorf("The annotation prefix in line %d is probably invalid.\n"+
					"It must be '# type:'\n"+
					"See PEP 484 (https://www.python.org/dev/peps/pep-0484/#suggested-syntax-for-python-2-7-and-straddling-code)\n"+
					"for examples", i+1)
			}
		}
		return "", false, nil
	case 1:
		return strings.TrimSpace(typeLines[0].text), true, nil
	}

	var returnLine string
	var paramTypes []string
	for _, l := range typeLines {
		if strings.Contains(l.text, returnLineMarker) {
			returnLine = l.text
			break
		}
		idx := strings.Index(l.text, typeCommentPrefix)
		paramTypes = append(paramTypes, strings.TrimSpace(l.text[idx+len(typeCommentPrefix):]))
	}
	if returnLine == "" {
		texts := make([]string, len(typeLines))
		for i, l := range typeLines {
			texts[i] = l.text
		}
		return "", false, fmt.Errorf("Return type line '# type: (...) -> ...' not found on multiline "+
			"type annotation\nfor type lines:\n%s\n"+
			"(See PEP 484 https://www.python.org/dev/peps/pep-0484/#suggested-syntax-for-python-2-7-and-straddling-code)",
			strings.Join(texts, "\n"))
	}
	return strings.ReplaceAll(returnLine, "...", strings.Join(paramTypes, ", ")), true, nil
}
