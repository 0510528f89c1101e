// Package lsp is a language server publishing the syntax errors a grammar finds in
// open documents.
package lsp

import (
	"errors"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	verr "github.com/nihei9/dervish/error"
	"github.com/nihei9/dervish/tree"
)

const lsName = "dervish"

var log = commonlog.GetLogger("dervish.lsp")

// Grammar parses whole documents. Errors located in the source are *error.SourceError.
type Grammar interface {
	Name() string
	ParseNode(src []byte) (*tree.Node, error)
}

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	// mu guards grammar, which caches results while it parses.
	mu      sync.Mutex
	grammar Grammar
}

func NewServer(g Grammar, version string) *Server {
	ls := &Server{
		grammar: g,
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("serving the %v grammar", ls.grammar.Name())
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.publish(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.publish(ctx, params.TextDocument.URI, []byte(textChange.Text))
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.publish(ctx, params.TextDocument.URI, []byte(*params.Text))
	}
	return nil
}

func (ls *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, src []byte) {
	ls.mu.Lock()
	diags := Diagnose(ls.grammar, src)
	ls.mu.Unlock()

	log.Debugf("%v: %v diagnostics", uri, len(diags))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// Diagnose parses src and converts the failure, if any, into diagnostics. An error
// without a position is reported at the beginning of the document.
func Diagnose(g Grammar, src []byte) []protocol.Diagnostic {
	_, err := g.ParseNode(src)
	if err == nil {
		return []protocol.Diagnostic{}
	}
	return []protocol.Diagnostic{toDiagnostic(err, g.Name())}
}

func toDiagnostic(err error, source string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	d := protocol.Diagnostic{
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	}
	var srcErr *verr.SourceError
	if errors.As(err, &srcErr) {
		pos := protocol.Position{}
		if srcErr.Row > 0 {
			pos.Line = protocol.UInteger(srcErr.Row - 1)
		}
		if srcErr.Col > 0 {
			pos.Character = protocol.UInteger(srcErr.Col - 1)
		}
		end := pos
		end.Character++
		d.Range = protocol.Range{
			Start: pos,
			End:   end,
		}
		d.Message = srcErr.Cause.Error()
	}
	return d
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
