// Package parameter resolves $name and ${name} placeholders embedded in
// resource names, labels and counts against a build environment.
//
// A '$' preceded by another '$' never starts a placeholder, so "$${x}" stays
// literal (expanded as "${x}"). Dots are allowed only in the braced form:
// "${a.b}" is a placeholder named "a.b" while "$a.b" is "$a" followed by ".b".
package parameter

import "strings"

// IsParameter returns true if the whole template is exactly one placeholder
func IsParameter(template string) bool {
	fragments := Parse(template)
	return len(fragments) == 1 && fragments[0].IsPlaceholder()
}

// ContainsParameter returns true if template has at least one placeholder
func ContainsParameter(template string) bool {
	for _, fragment := range Parse(template) {
		if fragment.IsPlaceholder() {
			return true
		}
	}
	return false
}

// Names returns placeholder names in order of appearance, duplicates included
func Names(template string) []string {
	var result []string
	for _, fragment := range Parse(template) {
		if fragment.IsPlaceholder() {
			result = append(result, fragment.Name)
		}
	}
	return result
}

// UnknownParameters returns placeholder names missing from known, in order of appearance
func UnknownParameters(template string, known []string) []string {
	index := make(map[string]bool, len(known))
	for _, name := range known {
		index[name] = true
	}
	var result []string
	for _, name := range Names(template) {
		if !index[name] {
			result = append(result, name)
		}
	}
	return result
}

// Expand substitutes placeholders with env values. Placeholders without a value
// are kept verbatim and their names returned as unresolved.
func Expand(template string, env map[string]string) (string, []string) {
	var unresolved []string
	var b strings.Builder
	for _, fragment := range Parse(template) {
		if !fragment.IsPlaceholder() {
			b.WriteString(unescape(fragment.Text))
			continue
		}
		value, ok := env[fragment.Name]
		if !ok {
			unresolved = append(unresolved, fragment.Name)
			b.WriteString(fragment.Text)
			continue
		}
		b.WriteString(value)
	}
	return b.String(), unresolved
}
