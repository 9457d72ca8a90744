package import_parser

import (
	"bufio"
	"strings"

	"github.com/ripopov/surfer-sub000/internal/model"
)

// MarkdownParser reads headers as groups and list items as items nested
// below the latest header. Other text is ignored.
type MarkdownParser struct{}

func (p *MarkdownParser) Name() string {
	return "Markdown"
}

func (p *MarkdownParser) Parse(content string) ([]Entry, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))

	var entries []Entry
	base := 0 // level of list items directly below the latest header
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if level, text := parseHeader(line); level >= 0 {
			entries = append(entries, Entry{Level: level, Kind: model.KindGroup, Name: text})
			base = level + 1
			continue
		}

		if level, text := parseListItem(line); level >= 0 {
			kind, name := ParseItemText(text)
			entries = append(entries, Entry{Level: base + level, Kind: kind, Name: name})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// parseHeader extracts the 0-based level and text from a markdown header
func parseHeader(line string) (level int, text string) {
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level == len(line) || line[level] != ' ' {
		return -1, ""
	}
	return level - 1, strings.TrimSpace(line[level:])
}

// parseListItem extracts indentation level and text from list item
func parseListItem(line string) (level int, text string) {
	indent := 0
	for i := 0; i < len(line); i++ {
		if line[i] == ' ' {
			indent++
		} else if line[i] == '\t' {
			indent += 2
		} else {
			break
		}
	}

	trimmed := strings.TrimSpace(line)
	if len(trimmed) > 2 && (trimmed[0] == '-' || trimmed[0] == '*' || trimmed[0] == '+') && trimmed[1] == ' ' {
		return indent / 2, strings.TrimSpace(trimmed[2:])
	}
	return -1, ""
}
