// Package lsp serves compile diagnostics over the Language Server Protocol.
// Every open document is recompiled as one batch on open, change and save,
// and the problems of each document are published with
// textDocument/publishDiagnostics.
package lsp

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/javafront/compiler"
	"github.com/dhamidi/javafront/java/env"
	"github.com/dhamidi/javafront/options"
)

const lsName = "javafront"

var log = commonlog.GetLogger("javafront.lsp")

// Config is the compile setup the server uses for every batch.
type Config struct {
	Options options.Options
	// Env resolves library types. Nil means the bootstrap library.
	Env env.Environment
	// LoadWorkspace makes the server read every .java file under the
	// workspace root at startup so open documents can refer to them.
	LoadWorkspace bool
}

type Server struct {
	config  Config
	version string
	handler protocol.Handler
	server  *server.Server

	mu        sync.Mutex
	root      string
	workspace env.Environment
	docs      map[string]string
	// published remembers which URIs have diagnostics so they can be
	// cleared once fixed.
	published map[string]bool
}

func NewServer(version string, config Config) *Server {
	s := &Server{
		config:    config,
		version:   version,
		root:      ".",
		docs:      map[string]string{},
		published: map[string]bool{},
	}
	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}
	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.mu.Lock()
	if params.RootPath != nil && *params.RootPath != "" {
		s.root = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			s.root = path
		}
	}
	s.mu.Unlock()

	capabilities := s.handler.CreateServerCapabilities()
	change := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &change,
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if !s.config.LoadWorkspace {
		return nil
	}
	s.mu.Lock()
	root := s.root
	s.mu.Unlock()
	lib, err := env.LoadSources(context.Background(), os.DirFS(root), s.library(), s.config.Options)
	if err != nil {
		log.Warningf("loading workspace %s: %v", root, err)
		return nil
	}
	log.Infof("loaded %d workspace classes from %s", len(lib.Classes()), root)
	s.mu.Lock()
	s.workspace = lib
	s.mu.Unlock()
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.Update(params.TextDocument.URI, params.TextDocument.Text)
	s.publish(ctx.Notify)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.Update(params.TextDocument.URI, whole.Text)
		s.publish(ctx.Notify)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.Close(params.TextDocument.URI)
	s.publish(ctx.Notify)
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.Update(params.TextDocument.URI, *params.Text)
	}
	s.publish(ctx.Notify)
	return nil
}

// Update records the text of an open document.
func (s *Server) Update(uri, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = text
}

// Close forgets a document.
func (s *Server) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *Server) library() env.Environment {
	if s.config.Env != nil {
		return s.config.Env
	}
	return env.Bootstrap()
}

// Diagnostics compiles every open document as one batch and returns the
// diagnostics per URI. URIs that had diagnostics before and have none now
// map to an empty list.
func (s *Server) Diagnostics(ctx context.Context) (map[string][]protocol.Diagnostic, error) {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	files := make([]compiler.SourceFile, len(uris))
	byPath := make(map[string]string, len(uris))
	for i, uri := range uris {
		path := s.relative(uri)
		files[i] = compiler.SourceFile{Path: path, Content: []byte(s.docs[uri])}
		byPath[path] = uri
	}
	environment := env.Chain{s.workspace, s.library()}
	stale := make([]string, 0, len(s.published))
	for uri := range s.published {
		stale = append(stale, uri)
	}
	s.mu.Unlock()

	out := map[string][]protocol.Diagnostic{}
	for _, uri := range stale {
		out[uri] = []protocol.Diagnostic{}
	}
	if len(files) > 0 {
		if err := s.compile(ctx, files, environment, uris, byPath, out); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.published = map[string]bool{}
	for uri, ds := range out {
		if len(ds) > 0 {
			s.published[uri] = true
		}
	}
	s.mu.Unlock()
	return out, nil
}

func (s *Server) compile(ctx context.Context, files []compiler.SourceFile, environment env.Environment, uris []string, byPath map[string]string, out map[string][]protocol.Diagnostic) error {
	res, err := compiler.Compile(ctx, compiler.Batch{
		Files:   files,
		Options: s.config.Options,
		Env:     environment,
	})
	if err != nil {
		return err
	}
	for _, uri := range uris {
		out[uri] = []protocol.Diagnostic{}
	}
	for _, f := range res.Files {
		uri := byPath[f.Path]
		for _, d := range res.Diagnostics {
			if d.File != f.Path {
				continue
			}
			pd, err := convert(f, d)
			if err != nil {
				log.Warningf("%s: %v", f.Path, err)
				continue
			}
			out[uri] = append(out[uri], pd)
		}
	}
	return nil
}

func (s *Server) publish(notify glsp.NotifyFunc) {
	byURI, err := s.Diagnostics(context.Background())
	if err != nil {
		log.Errorf("compile: %v", err)
		return
	}
	uris := make([]string, 0, len(byURI))
	for uri := range byURI {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	for _, uri := range uris {
		notify(string(protocol.ServerTextDocumentPublishDiagnostics), protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: byURI[uri],
		})
	}
}

// relative turns a document URI into the path diagnostics are reported
// under, relative to the workspace root when possible.
func (s *Server) relative(uri string) string {
	path, err := uriToPath(uri)
	if err != nil {
		return uri
	}
	if rel, err := filepath.Rel(s.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}
