package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	t.Run("sends user agent and returns body", func(t *testing.T) {
		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			w.Write([]byte("hello"))
		}))
		defer srv.Close()

		f := NewHTTPFetcher(Config{UserAgent: "test-agent"})
		body, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(body) != "hello" {
			t.Errorf("body = %q, want %q", body, "hello")
		}
		if gotUA != "test-agent" {
			t.Errorf("User-Agent = %q, want %q", gotUA, "test-agent")
		}
	})

	t.Run("follows redirects as one attempt", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusFound)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("moved"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		body, err := NewHTTPFetcher(Config{}).Fetch(context.Background(), srv.URL+"/old")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(body) != "moved" {
			t.Errorf("body = %q, want %q", body, "moved")
		}
	})

	t.Run("non-2xx is ErrStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewHTTPFetcher(Config{}).Fetch(context.Background(), srv.URL)
		if !errors.Is(err, ErrStatus) {
			t.Errorf("error = %v, want ErrStatus", err)
		}
	})

	t.Run("blank body is ErrEmptyBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("  \n"))
		}))
		defer srv.Close()

		_, err := NewHTTPFetcher(Config{}).Fetch(context.Background(), srv.URL)
		if !errors.Is(err, ErrEmptyBody) {
			t.Errorf("error = %v, want ErrEmptyBody", err)
		}
	})

	t.Run("body over the cap is rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(bytes.Repeat([]byte("a"), 64))
		}))
		defer srv.Close()

		_, err := NewHTTPFetcher(Config{MaxBodyBytes: 32}).Fetch(context.Background(), srv.URL)
		if !errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("error = %v, want ErrBodyTooLarge", err)
		}

		body, err := NewHTTPFetcher(Config{MaxBodyBytes: 64}).Fetch(context.Background(), srv.URL)
		if err != nil || len(body) != 64 {
			t.Errorf("at the cap: len = %d, error = %v", len(body), err)
		}
	})
}

func TestDecodeUTF8(t *testing.T) {
	t.Run("valid utf-8 passes through", func(t *testing.T) {
		in := []byte("Глава 1")
		if got := decodeUTF8(in, "text/html"); string(got) != "Глава 1" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("windows-1251 is transcoded", func(t *testing.T) {
		// "Глава" in windows-1251
		in := []byte{0xC3, 0xEB, 0xE0, 0xE2, 0xE0}
		got := decodeUTF8(in, "text/html; charset=windows-1251")
		if string(got) != "Глава" {
			t.Errorf("got %q, want %q", got, "Глава")
		}
	})
}
