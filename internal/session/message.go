package session

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// Role tags a transcript message. Error messages are synthesized locally when
// a transcript cannot be read; they never come from the file itself.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

type Message struct {
	Role Role
	Text string
}

// transcriptLine is the subset of a Claude Code JSONL line this tool cares
// about. Content is either a plain string or a list of typed blocks.
type transcriptLine struct {
	Type    string `json:"type"`
	Message *struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
	Timestamp json.RawMessage `json:"timestamp"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ParseTranscript reads a line-delimited JSON transcript and returns the
// conversational messages. Malformed lines are skipped; tool_use and
// tool_result payloads are discarded.
func ParseTranscript(r io.Reader) []Message {
	var messages []Message

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		messages = append(messages, parseTranscriptLine([]byte(line))...)
	}
	return messages
}

func parseTranscriptLine(line []byte) []Message {
	var entry transcriptLine
	if err := json.Unmarshal(line, &entry); err != nil {
		return nil
	}
	if entry.Message == nil {
		return nil
	}

	switch entry.Type {
	case "user":
		return parseUserContent(entry.Message.Content)
	case "assistant":
		return parseAssistantContent(entry.Message.Content)
	}
	return nil
}

func parseUserContent(raw json.RawMessage) []Message {
	if s, ok := asStringContent(raw); ok {
		return []Message{{Role: RoleUser, Text: s}}
	}

	// List content: one message per text block, tool_result blocks dropped.
	var out []Message
	for _, block := range asBlockContent(raw) {
		if block.Type != "text" {
			continue
		}
		out = append(out, Message{Role: RoleUser, Text: block.Text})
	}
	return out
}

func parseAssistantContent(raw json.RawMessage) []Message {
	// Assistant content is a block list; only the textual parts contribute,
	// concatenated into a single message.
	var parts []string
	for _, block := range asBlockContent(raw) {
		if block.Type != "text" || block.Text == "" {
			continue
		}
		parts = append(parts, block.Text)
	}
	if len(parts) == 0 {
		return nil
	}
	return []Message{{Role: RoleAssistant, Text: strings.Join(parts, "\n\n")}}
}

func asStringContent(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func asBlockContent(raw json.RawMessage) []contentBlock {
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil
	}
	return blocks
}

// firstUserMessage scans a transcript for the first user-authored text and its
// timestamp, for list previews. Returns ok=false when the file has none.
func firstUserMessage(r io.Reader) (text string, ts json.RawMessage, ok bool) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry transcriptLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Type != "user" || entry.Message == nil {
			continue
		}
		if s, isStr := asStringContent(entry.Message.Content); isStr {
			return s, entry.Timestamp, true
		}
		for _, block := range asBlockContent(entry.Message.Content) {
			if block.Type == "text" {
				return block.Text, entry.Timestamp, true
			}
		}
	}
	return "", nil, false
}
