package objectstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUpload(t *testing.T) {
	var gotPath, gotACL, gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		gotPath = r.URL.Path
		gotACL = r.Header.Get("x-amz-acl")
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "audio", "AKID", "secret", "")
	url, err := c.Upload(context.Background(), "podcasts/u/j.mp3", []byte("mp3data"), "audio/mpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if gotPath != "/audio/podcasts/u/j.mp3" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotACL != "public-read" {
		t.Fatalf("acl = %q", gotACL)
	}
	if !strings.HasPrefix(gotAuth, "AWS AKID:") {
		t.Fatalf("auth = %q", gotAuth)
	}
	if string(gotBody) != "mp3data" {
		t.Fatalf("body = %q", gotBody)
	}
	if url != srv.URL+"/audio/podcasts/u/j.mp3" {
		t.Fatalf("url = %q", url)
	}
}

// TestUploadPublicURL checks a configured CDN base replaces the derived
// bucket URL.
func TestUploadPublicURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "audio", "AKID", "secret", "https://cdn.example.com/")
	url, err := c.Upload(context.Background(), "podcasts/u/j.mp3", []byte("x"), "audio/mpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://cdn.example.com/podcasts/u/j.mp3" {
		t.Fatalf("url = %q", url)
	}
}

func TestUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "audio", "AKID", "secret", "")
	if _, err := c.Upload(context.Background(), "k", []byte("x"), "audio/mpeg"); err == nil {
		t.Fatal("expected error on rejected upload")
	}
}
