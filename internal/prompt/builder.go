// Package prompt turns recent activity into the text sent to the model.
package prompt

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/commitsense/commitsense/internal/models"
)

// ActivityPlaceholder is replaced by the JSON-encoded entries in a custom template.
const ActivityPlaceholder = "{activity}"

// Commit-message styles.
const (
	StyleConventional = "conventional"
	StyleAngular      = "angular"
	StyleGitmoji      = "gitmoji"
	StyleCustom       = "custom"
)

var styleGuides = map[string]string{
	StyleConventional: "Use conventional commit format: type(scope): description",
	StyleAngular:      "Use Angular commit format with types like feat, fix, docs, style, refactor, test, chore",
	StyleGitmoji:      "Start with an appropriate emoji followed by a clear description",
	StyleCustom:       "Write a clear, descriptive commit message",
}

// Fixed prompt text.
const (
	header          = "Based on the following recent coding activity, generate a concise Git commit message."
	activityHeading = "Recent Activity:"
	closing         = "Generate a single, clear commit message (max 72 characters for the subject line):"
	emptySummary    = "Recent file modifications"
)

// Styles returns the known style names.
func Styles() []string {
	return []string{StyleConventional, StyleAngular, StyleGitmoji, StyleCustom}
}

// StyleGuide returns the guide line for style. Unknown or empty styles get
// the generic guide.
func StyleGuide(style string) string {
	if g, ok := styleGuides[style]; ok {
		return g
	}
	return styleGuides[StyleCustom]
}

// Build composes the prompt for entries. A non-empty customTemplate bypasses
// everything else: its first ActivityPlaceholder is replaced with the
// entries as indented JSON and the result is returned as is.
func Build(entries []models.LogEntry, style, customTemplate string) string {
	if customTemplate != "" {
		return strings.Replace(customTemplate, ActivityPlaceholder, activityJSON(entries), 1)
	}

	summary := Summarize(entries)
	if summary == "" {
		summary = emptySummary
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(StyleGuide(style))
	b.WriteString("\n\n")
	b.WriteString(activityHeading)
	b.WriteString("\n")
	b.WriteString(summary)
	b.WriteString("\n\n")
	b.WriteString(closing)
	return b.String()
}

// Summarize renders one "- <file>: <actions>" line per file, files in order of
// first appearance and each file's actions de-duplicated in first-seen order.
func Summarize(entries []models.LogEntry) string {
	var order []string
	actions := make(map[string][]models.Action)
	seen := make(map[string]map[models.Action]bool)

	for _, e := range entries {
		if _, ok := seen[e.FileName]; !ok {
			order = append(order, e.FileName)
			seen[e.FileName] = make(map[models.Action]bool)
		}
		if seen[e.FileName][e.Action] {
			continue
		}
		seen[e.FileName][e.Action] = true
		actions[e.FileName] = append(actions[e.FileName], e.Action)
	}

	lines := make([]string, 0, len(order))
	for _, file := range order {
		names := make([]string, 0, len(actions[file]))
		for _, a := range actions[file] {
			names = append(names, string(a))
		}
		lines = append(lines, "- "+file+": "+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}

// activityJSON encodes entries with two-space indentation and without HTML escaping.
func activityJSON(entries []models.LogEntry) string {
	if entries == nil {
		entries = []models.LogEntry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
