package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func brokenGraphQL(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "search unavailable", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func issuePage(repo string, numbers ...int) []restIssue {
	page := make([]restIssue, 0, len(numbers))
	for _, n := range numbers {
		issue := restIssue{Number: n, Title: fmt.Sprintf("Issue %d", n)}
		issue.Repository.FullName = repo
		page = append(page, issue)
	}
	return page
}

func restServer(t *testing.T, pages map[int][]restIssue) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var page int
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		issues := pages[page]
		if issues == nil {
			issues = []restIssue{}
		}
		json.NewEncoder(w).Encode(issues)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConfigured(t *testing.T) {
	if NewClient(Config{}).Configured() {
		t.Fatal("expected empty token to be unconfigured")
	}
	if !NewClient(Config{Token: "ghp_test"}).Configured() {
		t.Fatal("expected token to mean configured")
	}
}

func TestRESTFallbackCollectsPages(t *testing.T) {
	rest := restServer(t, map[int][]restIssue{
		1: issuePage("acme/widgets", 1, 2),
		2: issuePage("acme/widgets", 3),
	})
	client := NewClient(Config{
		Token:      "ghp_test",
		GraphQLURL: brokenGraphQL(t).URL,
		RESTURL:    rest.URL,
	})

	items, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != "acme/widgets#1" {
		t.Fatalf("unexpected first id: %q", items[0].ID)
	}
	if items[2].Title != "Issue 3" {
		t.Fatalf("unexpected last title: %q", items[2].Title)
	}
}

func TestRESTSkipsSingleEmptyPage(t *testing.T) {
	rest := restServer(t, map[int][]restIssue{
		1: issuePage("acme/widgets", 1),
		// page 2 empty
		3: issuePage("acme/widgets", 9),
		// pages 4 and 5 empty: two in a row stops the walk
	})
	client := NewClient(Config{
		Token:      "ghp_test",
		GraphQLURL: brokenGraphQL(t).URL,
		RESTURL:    rest.URL,
	})

	items, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items across the gap, got %d", len(items))
	}
	if items[1].ID != "acme/widgets#9" {
		t.Fatalf("unexpected second id: %q", items[1].ID)
	}
}

func TestRESTCapsTotalItems(t *testing.T) {
	pages := make(map[int][]restIssue)
	n := 1
	for page := 1; page <= 6; page++ {
		numbers := make([]int, perPage)
		for i := range numbers {
			numbers[i] = n
			n++
		}
		pages[page] = issuePage("acme/widgets", numbers...)
	}
	rest := restServer(t, pages)
	client := NewClient(Config{
		Token:      "ghp_test",
		GraphQLURL: brokenGraphQL(t).URL,
		RESTURL:    rest.URL,
	})

	items, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != maxItems {
		t.Fatalf("expected cap of %d items, got %d", maxItems, len(items))
	}
}

func TestRESTAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		Token:      "ghp_bad",
		GraphQLURL: brokenGraphQL(t).URL,
		RESTURL:    srv.URL,
	})

	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected auth failure")
	}
}
