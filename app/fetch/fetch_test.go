package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<rss/>"))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "Feeder/1.0")
	body, finalURL, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(body) != "<rss/>" {
		t.Errorf("Expected body '<rss/>', got: %q", body)
	}
	if finalURL != server.URL {
		t.Errorf("Expected final URL %s, got: %s", server.URL, finalURL)
	}
	if gotUserAgent != "Feeder/1.0" {
		t.Errorf("Expected identifying User-Agent, got: %q", gotUserAgent)
	}
}

func TestGetFollowsRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/feed.xml", http.StatusMovedPermanently)
			return
		}
		w.Write([]byte("<rss/>"))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "Feeder/1.0")
	_, finalURL, err := client.Get(context.Background(), server.URL+"/old")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.HasSuffix(finalURL, "/feed.xml") {
		t.Errorf("Expected final URL after redirect to end in /feed.xml, got: %s", finalURL)
	}
}

func TestGetNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "Feeder/1.0")
	if _, _, err := client.Get(context.Background(), server.URL); err == nil {
		t.Error("Expected error for non-2xx response")
	}
}
