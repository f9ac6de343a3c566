package jira

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchQueryParams(t *testing.T) {
	var gotQuery string
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write([]byte("<feed/>"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "Test Agent", 250)

	_, err := client.Fetch(context.Background(), "jdoe", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(gotQuery, "maxResults=250") {
		t.Errorf("Expected maxResults=250 in query, got: %s", gotQuery)
	}
	if !strings.Contains(gotQuery, "streams=user+IS+jdoe") {
		t.Errorf("Expected streams=user+IS+jdoe in query, got: %s", gotQuery)
	}
	if !strings.Contains(gotQuery, "os_authType=basic") {
		t.Errorf("Expected os_authType=basic in query, got: %s", gotQuery)
	}
	if !strings.Contains(gotQuery, "title=undefined") {
		t.Errorf("Expected title=undefined in query, got: %s", gotQuery)
	}
	if strings.Contains(gotQuery, "update-date") {
		t.Errorf("Expected no update-date window without start/end, got: %s", gotQuery)
	}
	if gotUserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", gotUserAgent)
	}
}

func TestFetchWindowParam(t *testing.T) {
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte("<feed/>"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "Test Agent", 250)

	start := time.UnixMilli(1710489600000)
	end := time.UnixMilli(1710576000000)

	_, err := client.Fetch(context.Background(), "jdoe", &start, &end)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(gotQuery, "streams=update-date+BETWEEN+1710489600000+1710576000000") {
		t.Errorf("Expected update-date window in query, got: %s", gotQuery)
	}
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "Test Agent", 250)

	_, err := client.Fetch(context.Background(), "jdoe", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 403")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got: %v", err)
	}
	if fetchErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status code 403, got %d", fetchErr.StatusCode)
	}
}

func TestFetchResolvesUsername(t *testing.T) {
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/api/latest/myself" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"name": "resolved-user"}`))
			return
		}
		gotQuery = r.URL.RawQuery
		w.Write([]byte("<feed/>"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "Test Agent", 250)

	_, err := client.Fetch(context.Background(), "", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(gotQuery, "streams=user+IS+resolved-user") {
		t.Errorf("Expected resolved username in query, got: %s", gotQuery)
	}
}

func TestCurrentUsername(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/latest/myself" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name": "jdoe", "displayName": "John Doe"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "Test Agent", 250)

	username, err := client.CurrentUsername(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if username != "jdoe" {
		t.Errorf("Expected username 'jdoe', got '%s'", username)
	}
}

func TestCurrentUsernameEmptyName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "Test Agent", 250)

	if _, err := client.CurrentUsername(context.Background()); err == nil {
		t.Error("Expected error for myself response without name")
	}
}

func TestWithMaxResults(t *testing.T) {
	client := NewClient(http.DefaultClient, "https://jira.example.com", "Test Agent", 250)

	override := client.WithMaxResults(50)
	if override.maxResults != 50 {
		t.Errorf("Expected override max results 50, got %d", override.maxResults)
	}
	if client.maxResults != 250 {
		t.Errorf("Expected original client unchanged, got %d", client.maxResults)
	}
}

func TestDecodeCharset(t *testing.T) {
	// 0xE9 is "e" with acute accent in ISO 8859-1.
	latin1 := []byte{'c', 'a', 'f', 0xE9}

	decoded := decodeCharset(latin1, "application/xml; charset=iso-8859-1")
	if string(decoded) != "café" {
		t.Errorf("Expected transcoded UTF-8, got %q", string(decoded))
	}

	// UTF-8 and unknown charsets pass through unchanged.
	passthrough := decodeCharset(latin1, "application/xml; charset=utf-8")
	if string(passthrough) != string(latin1) {
		t.Error("Expected UTF-8 body to pass through unchanged")
	}
	passthrough = decodeCharset(latin1, "application/xml; charset=no-such-charset")
	if string(passthrough) != string(latin1) {
		t.Error("Expected unknown charset body to pass through unchanged")
	}
	passthrough = decodeCharset(latin1, "")
	if string(passthrough) != string(latin1) {
		t.Error("Expected missing content type body to pass through unchanged")
	}
}

func TestActivityURLHostTrimming(t *testing.T) {
	client := NewClient(http.DefaultClient, "https://jira.example.com/", "Test Agent", 10)

	u := client.activityURL("jdoe", nil, nil)
	if !strings.HasPrefix(u, "https://jira.example.com/activity?") {
		t.Errorf("Expected trailing slash trimmed, got: %s", u)
	}
}
