package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"t":[1,2],"c":[10.5,11.5]}`))
	}))
	defer srv.Close()

	var out candleResp
	if err := getJSON(context.Background(), srv.URL, nil, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.T) != 2 || out.C[1] != 11.5 {
		t.Errorf("decoded %+v", out)
	}
}

func TestGetJSONRetriesOn429(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"t":[1],"c":[10]}`))
	}))
	defer srv.Close()

	var out candleResp
	if err := getJSON(context.Background(), srv.URL, nil, &out); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("made %d calls, want retry after 429", calls)
	}
}

func TestGetJSONRejectsHTMLBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>session expired</body></html>`))
	}))
	defer srv.Close()

	var out candleResp
	if err := getJSON(context.Background(), srv.URL, nil, &out); err == nil {
		t.Error("html body accepted as json")
	}
}

func TestGetJSONSendsHeaders(t *testing.T) {
	var referer, ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("Referer")
		ua = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var out candleResp
	if err := getJSON(context.Background(), srv.URL, map[string]string{"Referer": "https://example.com/"}, &out); err != nil {
		t.Fatal(err)
	}
	if referer != "https://example.com/" {
		t.Errorf("Referer = %q", referer)
	}
	if ua == "" {
		t.Error("User-Agent not set")
	}
}
