package samplesheet

import "strings"

// Section is one bracketed block of a sample sheet.
// The block before the first bracketed line has an empty Name.
type Section struct {
	Name  string
	Lines []string
}

// ParseSections splits raw sheet text into sections in file order.
//
// Blank lines are dropped. A section name that appears twice keeps its first
// position but its lines are replaced by the later block.
func ParseSections(raw string) []Section {
	var sections []Section
	index := make(map[string]int)

	current := -1
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			name := sectionName(line)
			if i, ok := index[name]; ok {
				sections[i].Lines = nil
				current = i
				continue
			}
			sections = append(sections, Section{Name: name})
			current = len(sections) - 1
			index[name] = current
			continue
		}

		if current < 0 {
			sections = append(sections, Section{Name: ""})
			current = len(sections) - 1
			index[""] = current
		}
		sections[current].Lines = append(sections[current].Lines, line)
	}

	return sections
}

// sectionName extracts "Data" from a line like "[Data],,,,".
func sectionName(line string) string {
	token, _, _ := strings.Cut(line, ",")
	if end := strings.Index(token, "]"); end >= 0 {
		token = token[:end]
	}
	return strings.TrimSpace(strings.Trim(token, "[]"))
}
