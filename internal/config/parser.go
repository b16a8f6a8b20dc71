package config

import "strings"

// Sections maps a section name to that section's key/value pairs. Iteration
// order is unspecified; the builder imposes its own deterministic order.
//
// Section names are stored verbatim, colons included. The builder uses the
// "server:" and "route:" name prefixes to discriminate namespaces.
type Sections map[string]map[string]string

// ParseSections converts raw config text into a section mapping.
//
// The grammar is line-oriented, each line trimmed of surrounding whitespace:
//   - blank lines and lines starting with '#' or ';' are ignored
//   - "[name]" opens (or re-opens and merges into) the named section
//   - "key = value" splits on the first '='; duplicate keys within a section
//     overwrite the earlier value
//
// Any other non-blank line is a syntax error carrying its 1-based line
// number. A key/value line before the first section header is an error too.
func ParseSections(src string) (Sections, error) {
	sections := make(Sections)
	current := ""

	for i, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = line[1 : len(line)-1]
			if _, ok := sections[current]; !ok {
				sections[current] = make(map[string]string)
			}
			continue
		}

		if key, value, ok := strings.Cut(line, "="); ok {
			if current == "" {
				return nil, &KeyOutsideSectionError{Line: i + 1}
			}
			sections[current][strings.TrimSpace(key)] = strings.TrimSpace(value)
			continue
		}

		return nil, &SyntaxError{Line: i + 1, Text: line}
	}

	return sections, nil
}
