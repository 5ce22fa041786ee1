package vhttpget

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			fmt.Fprint(w, "all good")
		default:
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "boom")
		}
	}))
	defer srv.Close()

	g := New()

	res, err := g.Get(context.Background(), srv.URL+"/ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != 200 || res.Body != "all good" {
		t.Errorf("unexpected response: %+v", res)
	}

	res, err = g.Get(context.Background(), srv.URL+"/fail")
	if err != nil {
		t.Fatalf("non-2xx responses must not be errors: %v", err)
	}
	if res.StatusCode != 500 || res.Body != "boom" {
		t.Errorf("unexpected response: %+v", res)
	}
}

func TestGet_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("x", 16)+r.URL.Path)
	}))
	defer srv.Close()

	g := &getter{client: srv.Client(), maxBody: 18}

	res, err := g.Get(context.Background(), srv.URL+"/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Body != strings.Repeat("x", 16)+"/a" {
		t.Errorf("unexpected body: %q", res.Body)
	}

	if _, err := g.Get(context.Background(), srv.URL+"/ok"); err == nil {
		t.Error("expected an error for a body over the limit")
	}
}

func TestGet_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New().Get(context.Background(), url); err == nil {
		t.Error("expected an error for a closed server")
	}
}
