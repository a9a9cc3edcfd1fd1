package config

import (
	"fmt"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	top, sections, order := splitSections(GetConfigOptions())

	lines := []string{"# hxblog configuration (TOML)", ""}
	for _, o := range top {
		writeTOMLOption(&lines, o)
	}
	for _, section := range order {
		lines = append(lines, "["+section+"]")
		for _, o := range sections[section] {
			writeTOMLOption(&lines, o)
		}
	}
	return strings.Join(lines, "\n")
}

// UpdateTOML merges defaults into an existing TOML string and comments out
// unknown keys. Missing keys go at the end of their existing section, or into
// a new section appended at the end.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	lines := strings.Split(existing, "\n")
	seen := make(map[string]bool)
	present := map[string]bool{"": true}
	section := ""
	for _, line := range lines {
		if name, ok := parseSectionHeader(line); ok {
			section = name
			present[section] = true
			continue
		}
		if key, ok := parseTOMLKey(line); ok {
			seen[qualify(section, key)] = true
		}
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	top, sections, order := splitSections(missing)
	sections[""] = top
	changed := len(missing) > 0

	out := make([]string, 0, len(lines))
	flush := func(name string) {
		for _, o := range sections[name] {
			writeTOMLOption(&out, o)
		}
		delete(sections, name)
	}

	section = ""
	for _, line := range lines {
		if name, ok := parseSectionHeader(line); ok {
			flush(section)
			section = name
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok || known[qualify(section, key)] {
			out = append(out, line)
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		out = append(out, indent+"# OUTDATED: option removed from config schema")
		out = append(out, indent+"# "+strings.TrimLeft(line, " \t"))
		changed = true
	}
	flush(section)

	added := false
	for _, name := range order {
		if present[name] || len(sections[name]) == 0 {
			continue
		}
		if !added {
			out = append(out, "", "# Added by config update")
			added = true
		}
		out = append(out, "["+name+"]")
		flush(name)
	}
	return strings.Join(out, "\n"), changed
}

func qualify(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}

func parseSectionHeader(line string) (string, bool) {
	trim := strings.TrimSpace(line)
	if !strings.HasPrefix(trim, "[") || !strings.HasSuffix(trim, "]") {
		return "", false
	}
	return strings.TrimSpace(trim[1 : len(trim)-1]), true
}

// splitSections groups dotted keys by their first segment. Keys inside a
// section lose the section prefix.
func splitSections(opts []ConfigOption) (top []ConfigOption, sections map[string][]ConfigOption, order []string) {
	sections = make(map[string][]ConfigOption)
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, exists := sections[section]; !exists {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func parseTOMLKey(line string) (string, bool) {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return "", false
	}
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") || strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func writeTOMLOption(lines *[]string, o ConfigOption) {
	if o.Comment != "" {
		*lines = append(*lines, "# "+o.Comment)
	}
	switch v := o.Default.(type) {
	case string:
		*lines = append(*lines, fmt.Sprintf("%s = %q", o.Key, v))
	default:
		*lines = append(*lines, fmt.Sprintf("%s = %v", o.Key, v))
	}
	*lines = append(*lines, "")
}
