// Package export writes a session's thread to a Markdown file and builds the
// plain-text form used for clipboard copies and in-thread search.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/worroc/claude-yelp/internal/session"
)

type Exporter struct {
	cwd string
}

func New() (*Exporter, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve cwd: %w", err)
	}
	return &Exporter{cwd: cwd}, nil
}

// Export writes the thread as Markdown next to where the program was started,
// named after the session id and tag. Returns the written path.
func (e *Exporter) Export(rec *session.Record, userOnly bool) (string, error) {
	return e.Write(FileName(rec), BuildThreadMarkdown(rec, userOnly))
}

// Write saves already-built content under name in the export directory.
// Callers that run the write off their main loop build the document first so
// the record is not touched from two goroutines.
func (e *Exporter) Write(name, content string) (string, error) {
	path := filepath.Join(e.cwd, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// FileName is the export file name for a session, id plus sanitized tag.
func FileName(rec *session.Record) string {
	name := rec.ID
	if rec.Tag != "" {
		name += "-" + safeFileName(rec.Tag)
	}
	return name + ".md"
}

func safeFileName(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return replacer.Replace(s)
}

// BuildThreadMarkdown renders the session as a Markdown document. Consecutive
// messages from the same role are merged under one heading. With userOnly set,
// assistant messages are dropped.
func BuildThreadMarkdown(rec *session.Record, userOnly bool) string {
	var b strings.Builder
	b.WriteString("# Session " + rec.ID + "\n\n")
	b.WriteString("Project: " + rec.ProjectPath + "\n")
	b.WriteString("Date: " + rec.DateString() + "\n")
	if rec.Tag != "" {
		b.WriteString("Tag: " + rec.Tag + "\n")
	}
	b.WriteString("\n")

	messages := filterMessages(rec.Messages(), userOnly)
	if len(messages) == 0 {
		b.WriteString("*No messages.*\n")
		return b.String()
	}

	for _, group := range groupByRole(messages) {
		b.WriteString(roleHeading(group.role) + "\n\n")
		b.WriteString(strings.TrimSpace(group.text) + "\n\n")
	}
	return strings.TrimSpace(b.String()) + "\n"
}

// BuildThreadText renders the thread as plain text with the same grouping as
// the Markdown form, for clipboard copies and search.
func BuildThreadText(rec *session.Record, userOnly bool) string {
	messages := filterMessages(rec.Messages(), userOnly)
	if len(messages) == 0 {
		return ""
	}

	var b strings.Builder
	for _, group := range groupByRole(messages) {
		b.WriteString(roleLabel(group.role) + ":\n")
		b.WriteString(strings.TrimSpace(group.text) + "\n\n")
	}
	return strings.TrimSpace(b.String()) + "\n"
}

func filterMessages(messages []session.Message, userOnly bool) []session.Message {
	if !userOnly {
		return messages
	}
	var out []session.Message
	for _, m := range messages {
		if m.Role == session.RoleUser {
			out = append(out, m)
		}
	}
	return out
}

type roleGroup struct {
	role session.Role
	text string
}

func groupByRole(messages []session.Message) []roleGroup {
	var groups []roleGroup
	for _, m := range messages {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		if n := len(groups); n > 0 && groups[n-1].role == m.Role {
			groups[n-1].text += "\n\n" + text
			continue
		}
		groups = append(groups, roleGroup{role: m.Role, text: text})
	}
	return groups
}

func roleHeading(role session.Role) string {
	switch role {
	case session.RoleUser:
		return "## User"
	case session.RoleAssistant:
		return "## Assistant"
	default:
		return "## Error"
	}
}

func roleLabel(role session.Role) string {
	switch role {
	case session.RoleUser:
		return "User"
	case session.RoleAssistant:
		return "Assistant"
	default:
		return "Error"
	}
}
