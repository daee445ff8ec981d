package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hakivo/podcastd/internal/model"
)

func TestEstimateDuration(t *testing.T) {
	cases := []struct {
		sizeBytes int
		want      int
	}{
		{0, 0},
		{16_000, 1},   // one second of 128 kbps audio
		{160_000, 10}, // ten seconds
		{15_999, 0},   // truncates, does not round
	}
	for _, c := range cases {
		if got := EstimateDuration(c.sizeBytes); got != c.want {
			t.Fatalf("EstimateDuration(%d) = %d, want %d", c.sizeBytes, got, c.want)
		}
	}
}

// TestSynthesizeRoutesVoices checks each line hits the voice endpoint for
// its speaker and the segments come back concatenated in order.
func TestSynthesizeRoutesVoices(t *testing.T) {
	var voices []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		voiceID := strings.TrimPrefix(r.URL.Path, "/text-to-speech/")
		voices = append(voices, voiceID)
		if r.Header.Get("xi-api-key") != "key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte("seg-" + voiceID + ";"))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "key")
	script := &model.DialogueScript{Lines: []model.DialogueLine{
		{Speaker: "host", Text: "Welcome."},
		{Speaker: "analyst", Text: "Thanks."},
		{Speaker: "host", Text: "Let's begin."},
	}}

	audio, err := c.Synthesize(context.Background(), script)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}

	wantVoices := []string{DefaultHostVoice, DefaultAnalystVoice, DefaultHostVoice}
	if len(voices) != len(wantVoices) {
		t.Fatalf("voices = %v", voices)
	}
	for i := range wantVoices {
		if voices[i] != wantVoices[i] {
			t.Fatalf("voices = %v, want %v", voices, wantVoices)
		}
	}

	want := "seg-" + DefaultHostVoice + ";seg-" + DefaultAnalystVoice + ";seg-" + DefaultHostVoice + ";"
	if string(audio) != want {
		t.Fatalf("audio = %q", audio)
	}
}

func TestSynthesizeVendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "voice not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "key")
	script := &model.DialogueScript{Lines: []model.DialogueLine{{Speaker: "host", Text: "hi"}}}

	if _, err := c.Synthesize(context.Background(), script); err == nil {
		t.Fatal("expected vendor error")
	}
}
