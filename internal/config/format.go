package config

import (
	"fmt"
	"sort"
	"strings"
)

// FormatSections renders a section mapping in canonical form: sections in a
// fixed order (global, error_pages, servers, routes, then anything else,
// each group sorted by name), keys sorted within each section, one blank
// line between sections.
//
// The formatter does not expand defaults; it renders only what the input
// contains, so formatting never changes what a subsequent build produces.
func FormatSections(sections Sections) []byte {
	var b strings.Builder
	for i, name := range orderedSectionNames(sections) {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%s]\n", name)

		data := sections[name]
		keys := make([]string, 0, len(data))
		for key := range data {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			line := fmt.Sprintf("%s = %s", key, data[key])
			b.WriteString(strings.TrimRight(line, " \t"))
			b.WriteByte('\n')
		}
	}
	return canonicalize([]byte(b.String()))
}

func orderedSectionNames(sections Sections) []string {
	var servers, routes, rest []string
	for name := range sections {
		switch {
		case name == "global" || name == "error_pages":
			// fixed slots below
		case strings.HasPrefix(name, serverSectionPrefix):
			servers = append(servers, name)
		case strings.HasPrefix(name, routeSectionPrefix):
			routes = append(routes, name)
		default:
			rest = append(rest, name)
		}
	}
	sort.Strings(servers)
	sort.Strings(routes)
	sort.Strings(rest)

	names := make([]string, 0, len(sections))
	if _, ok := sections["global"]; ok {
		names = append(names, "global")
	}
	if _, ok := sections["error_pages"]; ok {
		names = append(names, "error_pages")
	}
	names = append(names, servers...)
	names = append(names, routes...)
	return append(names, rest...)
}
