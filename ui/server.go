// Package ui serves a small web playground for Tila: programs typed into
// the browser are parsed on the server and shown as a syntax tree, in
// canonical form, or with their syntax error.
package ui

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/tila/format"
	"github.com/dhamidi/tila/tila/parser"
)

//go:embed templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("tila.ui")

const maxSourceSize = 1 << 20

const sample = `begin
    int x;
    x = 3;
    while x do begin
        print x;
        x = x - 1;
    end;
end
`

type Server struct {
	templateFS fs.FS
	mux        *http.ServeMux
}

func NewServer() (*Server, error) {
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	if _, err := template.ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		templateFS: templateFS,
		mux:        http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("GET /sets", s.handleSets)
	s.mux.HandleFunc("GET /grammar", s.handleGrammar)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// render parses the templates on every request so that files under
// ui/templates can be edited while the server runs.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
	}
}

// Result is the outcome of parsing one program.
type Result struct {
	Source    string          `json:"source"`
	Tree      string          `json:"tree,omitempty"`
	AST       json.RawMessage `json:"ast,omitempty"`
	Formatted string          `json:"formatted,omitempty"`
	Error     *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Expected []string `json:"expected,omitempty"`
}

// Parse parses src and collects every rendering of the result.
func Parse(src string) *Result {
	res := &Result{Source: src}

	lexer := parser.NewLexer([]byte(src), "")
	tokens, err := lexer.Tokenize()
	if err != nil {
		res.Error = errorInfo(err)
		return res
	}
	node, err := parser.New(tokens).Parse()
	if err != nil {
		res.Error = errorInfo(err)
		return res
	}

	tree, err := format.NewTreeEncoder(nil).MarshalText(node)
	if err == nil {
		res.Tree = string(tree)
	}
	if ast, err := format.NewASTJSONEncoder(nil).MarshalText(node); err == nil {
		res.AST = ast
	}
	if formatted, err := format.NewSourceEncoder(nil).WithComments(lexer.Comments()).MarshalText(node); err == nil {
		res.Formatted = string(formatted)
	}
	return res
}

func errorInfo(err error) *ErrorInfo {
	info := &ErrorInfo{Message: err.Error()}
	var serr *parser.SyntaxError
	var lerr *parser.LexError
	switch {
	case errors.As(err, &serr):
		info.Line, info.Column = serr.Pos.Line, serr.Pos.Column
		info.Expected = serr.Expected
	case errors.As(err, &lerr):
		info.Line, info.Column = lerr.Pos.Line, lerr.Pos.Column
	}
	return info
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", &Result{Source: sample})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var src string

	if hasMediaType(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Source string `json:"source"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSourceSize)).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		src = req.Source
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxSourceSize)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
			return
		}
		src = r.FormValue("source")
	}

	res := Parse(src)
	log.Debugf("parsed %d bytes, error: %t", len(src), res.Error != nil)

	if hasMediaType(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		if res.Error != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
		json.NewEncoder(w).Encode(res)
		return
	}

	s.render(w, "index.html", res)
}

// hasMediaType reports whether the Content-Type or Accept header value
// names mediaType, ignoring parameters.
func hasMediaType(header, mediaType string) bool {
	for _, part := range strings.Split(header, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == mediaType {
			return true
		}
	}
	return false
}

func (s *Server) handleSets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := format.NewSetsEncoder(w).Encode(parser.Analysis()); err != nil {
		log.Errorf("sets: %s", err)
	}
}

func (s *Server) handleGrammar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, parser.Grammar().String())
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

// overlayFS prefers files under primaryPath on disk and falls back to
// secondary.
func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}
