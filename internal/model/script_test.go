package model

import (
	"strings"
	"testing"
)

// validScript builds a script that clears both length minimums.
func validScript() DialogueScript {
	line := strings.Repeat("word ", 30)
	s := DialogueScript{Title: "Test Brief"}
	for i := 0; i < MinScriptLines; i++ {
		speaker := "host"
		if i%2 == 1 {
			speaker = "analyst"
		}
		s.Lines = append(s.Lines, DialogueLine{Speaker: speaker, Text: line})
	}
	return s
}

func TestScriptValidate(t *testing.T) {
	s := validScript()
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestScriptTooFewLines(t *testing.T) {
	s := validScript()
	s.Lines = s.Lines[:MinScriptLines-1]
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for too few lines")
	}
}

func TestScriptTooFewWords(t *testing.T) {
	s := DialogueScript{}
	for i := 0; i < MinScriptLines; i++ {
		s.Lines = append(s.Lines, DialogueLine{Speaker: "host", Text: "short line"})
	}
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for too few words")
	}
}

func TestScriptRejectsUnknownSpeaker(t *testing.T) {
	s := validScript()
	s.Lines[3].Speaker = "narrator"
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for unknown speaker")
	}
}

func TestWordCount(t *testing.T) {
	s := DialogueScript{Lines: []DialogueLine{
		{Speaker: "host", Text: "one two three"},
		{Speaker: "analyst", Text: "four five"},
	}}
	if got := s.WordCount(); got != 5 {
		t.Fatalf("word count = %d, want 5", got)
	}
}

func TestTranscript(t *testing.T) {
	s := DialogueScript{Lines: []DialogueLine{
		{Speaker: "host", Text: "Welcome back."},
		{Speaker: "analyst", Text: "Glad to be here."},
	}}
	want := "HOST: Welcome back.\nANALYST: Glad to be here.\n"
	if got := s.Transcript(); got != want {
		t.Fatalf("transcript = %q, want %q", got, want)
	}
}
