package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenFromCookies(t *testing.T) {
	cookies := []*http.Cookie{
		{Name: "sessionid", Value: "abc"},
		{Name: "csrftoken", Value: "tok123"},
	}
	if got := TokenFromCookies(cookies); got != "tok123" {
		t.Errorf("TokenFromCookies = %q, want tok123", got)
	}
	if got := TokenFromCookies(nil); got != "" {
		t.Errorf("TokenFromCookies(nil) = %q, want empty", got)
	}
}

func TestCSRFTransport_PostCarriesTokenHeader(t *testing.T) {
	var gotHeader, gotContentType string
	var gotCookies []*http.Cookie
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-CSRFToken")
		gotContentType = r.Header.Get("Content-Type")
		gotCookies = r.Cookies()
	}))
	defer srv.Close()

	client := NewClient("tok123", "sess456")
	resp, err := client.Post(srv.URL+"/interactions/notifications/read-all/", "", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	if gotHeader != "tok123" {
		t.Errorf("X-CSRFToken = %q, want tok123", gotHeader)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q, want form-urlencoded", gotContentType)
	}
	if TokenFromCookies(gotCookies) != "tok123" {
		t.Error("expected csrftoken cookie on request")
	}

	var session string
	for _, c := range gotCookies {
		if c.Name == "sessionid" {
			session = c.Value
		}
	}
	if session != "sess456" {
		t.Errorf("sessionid cookie = %q, want sess456", session)
	}
}

func TestCSRFTransport_GetOmitsTokenHeader(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-CSRFToken")
	}))
	defer srv.Close()

	client := NewClient("tok123", "sess456")
	resp, err := client.Get(srv.URL + "/interactions/notifications/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if gotHeader != "" {
		t.Errorf("X-CSRFToken on GET = %q, want empty", gotHeader)
	}
}

func TestCSRFTransport_EmptyTokenAddsNothing(t *testing.T) {
	var headerSet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headerSet = r.Header.Get("X-CSRFToken") != ""
	}))
	defer srv.Close()

	client := NewClient("", "")
	resp, err := client.Post(srv.URL, "", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	if headerSet {
		t.Error("expected no X-CSRFToken header without a token")
	}
}
