package synth

import (
	"fmt"
	"sort"
	"strings"

	"corpusgen/internal/schema"
)

// RenderPrompt linearizes a synthesized value tree into the natural-language
// text half of a training pair. The rendering contains the textual form of
// the generated leaf values verbatim, which the downstream alignment check
// relies on.
func RenderPrompt(schemaID string, value map[string]interface{}, doc *schema.Document) string {
	title := doc.Title
	if title == "" {
		title = titleCase(schemaID)
	}

	var lines []string
	lines = append(lines, promptHeader(schemaID, title))
	lines = append(lines, "")
	lines = appendValueLines(lines, value, 0)
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Please extract the %s information as JSON.", strings.ToLower(title)))
	return strings.Join(lines, "\n")
}

// promptHeader picks a header framing from schema-id keywords.
func promptHeader(schemaID, title string) string {
	switch {
	case strings.Contains(schemaID, "invoice"), strings.Contains(schemaID, "order"):
		return fmt.Sprintf("=== %s ===", title)
	case strings.Contains(schemaID, "report"), strings.Contains(schemaID, "analytics"):
		return title + " Report"
	case strings.Contains(schemaID, "record"), strings.Contains(schemaID, "entry"):
		return "New " + title
	default:
		return title
	}
}

// appendValueLines renders a value tree as indented label: value lines.
// Object keys are visited in sorted order to keep prompts deterministic.
func appendValueLines(lines []string, value interface{}, indent int) []string {
	prefix := strings.Repeat("  ", indent)
	switch typed := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			label := titleCase(key)
			child := typed[key]
			switch child.(type) {
			case map[string]interface{}, []interface{}:
				lines = append(lines, prefix+label+":")
				lines = appendValueLines(lines, child, indent+1)
			default:
				lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, label, scalarText(child)))
			}
		}
	case []interface{}:
		for _, item := range typed {
			if _, isObject := item.(map[string]interface{}); isObject {
				lines = append(lines, prefix+"-")
				lines = appendValueLines(lines, item, indent+1)
			} else {
				lines = append(lines, prefix+"- "+scalarText(item))
			}
		}
	default:
		lines = append(lines, prefix+scalarText(value))
	}
	return lines
}

// scalarText formats a leaf value for prompt text.
func scalarText(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return "none"
	case string:
		return typed
	case bool:
		if typed {
			return "true"
		}
		return "false"
	case float64:
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", typed), "0"), ".")
	case int:
		return fmt.Sprintf("%d", typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}

// titleCase converts a snake_case identifier to a Title Case label.
func titleCase(identifier string) string {
	parts := strings.Split(identifier, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
