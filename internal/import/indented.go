package import_parser

import (
	"bufio"
	"strings"
)

// IndentedTextParser reads one item per line, nested by indentation: two
// spaces or one tab per level. A line is "<kind> <name>" or just a name.
type IndentedTextParser struct{}

func (p *IndentedTextParser) Name() string {
	return "Indented Text"
}

func (p *IndentedTextParser) Parse(content string) ([]Entry, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))

	var entries []Entry
	for scanner.Scan() {
		line := scanner.Text()
		text := strings.TrimSpace(line)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		kind, name := ParseItemText(text)
		entries = append(entries, Entry{
			Level: getIndentLevel(line),
			Kind:  kind,
			Name:  name,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// getIndentLevel calculates the indentation level (0-based)
// Counts tabs and spaces (tab = 2 spaces)
func getIndentLevel(line string) int {
	indent := 0
	for i := 0; i < len(line); i++ {
		if line[i] == '\t' {
			indent += 2
		} else if line[i] == ' ' {
			indent++
		} else {
			break
		}
	}
	return indent / 2
}
