package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestListRepos(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"full_name": "octocat/hello-world", "name": "hello-world"},
			{"full_name": "someone-else/forked", "name": "forked"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)

	repos, err := c.ListRepos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("ListRepos: %v", err)
	}

	want := []string{"hello-world", "forked"}
	if !reflect.DeepEqual(repos, want) {
		t.Fatalf("repos mismatch: got %v want %v", repos, want)
	}
	if gotPath != "/users/octocat/repos" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotQuery != "per_page=5&sort=created:asc" {
		t.Fatalf("unexpected query: %s", gotQuery)
	}
}

func TestListReposNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)

	if _, err := c.ListRepos(context.Background(), "nobody"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestListReposSendsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok123", nil)

	if _, err := c.ListRepos(context.Background(), "octocat"); err != nil {
		t.Fatalf("ListRepos: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
}

func TestListReposEmptyUsername(t *testing.T) {
	c := NewClient("http://example.invalid", "", nil)

	if _, err := c.ListRepos(context.Background(), "  "); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
