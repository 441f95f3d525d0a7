package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/tila/format"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer()
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func TestParse(t *testing.T) {
	res := Parse("begin int x; x = 1 end")
	if res.Error != nil {
		t.Fatalf("unexpected error: %s", res.Error.Message)
	}
	if !strings.HasPrefix(res.Tree, "Program") {
		t.Errorf("got tree %q, want it to start with Program", res.Tree)
	}
	want, err := format.Source([]byte(res.Source), "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Formatted != string(want) {
		t.Errorf("got formatted %q, want %q", res.Formatted, want)
	}
	if len(res.AST) == 0 {
		t.Error("expected a JSON syntax tree")
	}
}

func TestParseKeepsComments(t *testing.T) {
	res := Parse("begin // start\nprint 1 end")
	if res.Error != nil {
		t.Fatalf("unexpected error: %s", res.Error.Message)
	}
	if want := "begin // start\n    print 1;\nend\n"; res.Formatted != want {
		t.Errorf("got formatted %q, want %q", res.Formatted, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		line     int
		column   int
		expected []string
		message  string
	}{
		{"missing assignment", "begin x end", 1, 9, []string{"="}, `1:9: expected "="`},
		{"bad character", "begin\n  @ end", 2, 3, nil, `2:3: unexpected character "@"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.src)
			if res.Error == nil {
				t.Fatal("expected an error")
			}
			if res.Error.Line != tt.line || res.Error.Column != tt.column {
				t.Errorf("got %d:%d, want %d:%d", res.Error.Line, res.Error.Column, tt.line, tt.column)
			}
			if !reflect.DeepEqual(res.Error.Expected, tt.expected) {
				t.Errorf("got expected %v, want %v", res.Error.Expected, tt.expected)
			}
			if !strings.HasPrefix(res.Error.Message, tt.message) {
				t.Errorf("got message %q, want prefix %q", res.Error.Message, tt.message)
			}
			if res.Tree != "" || res.Formatted != "" {
				t.Error("expected no output for an invalid program")
			}
		})
	}
}

func TestServer_Index(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Tila playground") {
		t.Error("missing page title")
	}
	if !strings.Contains(body, "while x do begin") {
		t.Error("missing sample program")
	}
}

func TestServer_ParseForm(t *testing.T) {
	s := newTestServer(t)
	form := url.Values{"source": {"begin print 1 end"}}
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Syntax tree") {
		t.Error("missing syntax tree section")
	}
	if strings.Contains(body, "Syntax error") {
		t.Error("unexpected syntax error section")
	}
}

func TestServer_ParseJSON(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		src    string
		status int
	}{
		{"valid", "begin int x; x = 2 ^ 3 end", http.StatusOK},
		{"invalid", "begin x = end", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, _ := json.Marshal(map[string]string{"source": tt.src})
			req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(string(payload)))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json")
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("got status %d, want %d", rec.Code, tt.status)
			}
			var res struct {
				Source string         `json:"source"`
				AST    map[string]any `json:"ast"`
				Error  *ErrorInfo     `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if res.Source != tt.src {
				t.Errorf("got source %q, want %q", res.Source, tt.src)
			}
			if tt.status == http.StatusOK {
				if res.AST["kind"] != "Program" {
					t.Errorf("got root kind %v, want Program", res.AST["kind"])
				}
			} else if res.Error == nil {
				t.Error("expected an error in the response")
			}
		})
	}
}

func TestServer_ParseJSONWithParameters(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"source": "begin print 1 end"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "text/html;q=0.5, application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("got content type %q, want application/json", got)
	}
	var res Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Source != "begin print 1 end" {
		t.Errorf("got source %q", res.Source)
	}
}

func TestHasMediaType(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"Application/JSON", true},
		{"text/html, application/json;q=0.9", true},
		{"application/x-www-form-urlencoded", false},
		{"", false},
		{"text/html", false},
	}
	for _, tt := range tests {
		if got := hasMediaType(tt.header, "application/json"); got != tt.want {
			t.Errorf("hasMediaType(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestServer_ParseInvalidJSON(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServer_TextPages(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path string
		want string
	}{
		{"/sets", "FIRST+"},
		{"/grammar", "Program"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body of %s does not contain %q", tt.path, tt.want)
			}
		})
	}
}

func TestServer_UnknownPath(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusNotFound)
	}
}
