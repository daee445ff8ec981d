package model

import (
	"fmt"
	"strings"
)

// DialogueLine is one turn of the two-host podcast dialogue
type DialogueLine struct {
	Speaker string `json:"speaker"` // "host" | "analyst"
	Text    string `json:"text"`
}

// DialogueScript is the structured script produced by the LLM stage
type DialogueScript struct {
	Title string         `json:"title"`
	Lines []DialogueLine `json:"lines"`
}

// Length band enforced after generation. Scripts under these minimums are
// rejected so the attempt can be retried (model variance is transient).
const (
	MinScriptLines = 12
	MinScriptWords = 350
)

// WordCount returns the total word count across all lines
func (s *DialogueScript) WordCount() int {
	total := 0
	for _, line := range s.Lines {
		total += len(strings.Fields(line.Text))
	}
	return total
}

// Transcript renders the script as plain text, one speaker turn per line
func (s *DialogueScript) Transcript() string {
	var b strings.Builder
	for _, line := range s.Lines {
		b.WriteString(strings.ToUpper(line.Speaker))
		b.WriteString(": ")
		b.WriteString(line.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// Validate checks the script against the target length band
func (s *DialogueScript) Validate() error {
	if len(s.Lines) < MinScriptLines {
		return fmt.Errorf("script too short: %d lines (minimum %d)", len(s.Lines), MinScriptLines)
	}
	if words := s.WordCount(); words < MinScriptWords {
		return fmt.Errorf("script too short: %d words (minimum %d)", words, MinScriptWords)
	}
	for i, line := range s.Lines {
		if line.Speaker != "host" && line.Speaker != "analyst" {
			return fmt.Errorf("line %d: unknown speaker %q", i, line.Speaker)
		}
		if strings.TrimSpace(line.Text) == "" {
			return fmt.Errorf("line %d: empty text", i)
		}
	}
	return nil
}
