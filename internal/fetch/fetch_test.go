package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("User-Agent = %q", got)
		}
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"events":[]}`))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		case "/slow":
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient()
	c.HTTP = srv.Client()

	data, err := c.Bytes(context.Background(), srv.URL+"/ok")
	if err != nil {
		t.Fatalf("Bytes(/ok): %v", err)
	}
	if string(data) != `{"events":[]}` {
		t.Fatalf("body = %q", data)
	}

	if _, err := c.Bytes(context.Background(), srv.URL+"/missing"); !errors.Is(err, ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}

	small := *c
	small.MaxBytes = 10
	if _, err := small.Bytes(context.Background(), srv.URL+"/big"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	quick := *c
	quick.Timeout = 50 * time.Millisecond
	if _, err := quick.Bytes(context.Background(), srv.URL+"/slow"); err == nil {
		t.Fatal("expected a timeout error")
	}

	if _, err := c.Bytes(context.Background(), "not a url"); err == nil {
		t.Fatal("expected an error for an invalid url")
	}
}
