// Lazy language-server process management and the handlers.Source /
// SignatureProvider / InlayHintProvider / InlineProvider adapters that
// let the async coordinators talk to a real internal/lsp.Client instead
// of a stub, spawning servers by language id over os/exec pipes and
// riv's own lsp.Transport.
package app

import (
	"encoding/json"
	"os/exec"
	"sync"

	"github.com/rivedit/riv/internal/config"
	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/handlers"
	"github.com/rivedit/riv/internal/lsp"
	"github.com/rivedit/riv/internal/rope"
)

// lspServer owns one spawned language server's process and client.
type lspServer struct {
	cmd    *exec.Cmd
	client *lsp.Client

	mu      sync.Mutex
	opened  map[document.ID]bool
}

// lspRegistry lazily spawns one server per configured language and
// hands out a uniform provider adapter to every coordinator. Server
// notifications and reverse requests are pumped to the onNotify and
// onReverse callbacks the same way dapRegistry pumps adapter events,
// so the client's channels never back up and stall Dispatch.
type lspRegistry struct {
	cfg       []config.LanguageServerConfig
	mu        sync.Mutex
	servers   map[string]*lspServer // keyed by LanguageServerConfig.Name
	onCrash   func(name string, err error)
	onNotify  func(name string, note lsp.Notification)
	onReverse func(name string, req lsp.ReverseRequest)
}

func newLSPRegistry(cfg []config.LanguageServerConfig, onCrash func(string, error), onNotify func(string, lsp.Notification), onReverse func(string, lsp.ReverseRequest)) *lspRegistry {
	return &lspRegistry{cfg: cfg, servers: map[string]*lspServer{}, onCrash: onCrash, onNotify: onNotify, onReverse: onReverse}
}

// forLanguage returns the configured server entry serving lang, if any.
func (r *lspRegistry) forLanguage(lang document.LanguageID) (config.LanguageServerConfig, bool) {
	for _, sc := range r.cfg {
		for _, l := range sc.Languages {
			if l == string(lang) {
				return sc, true
			}
		}
	}
	return config.LanguageServerConfig{}, false
}

// provider spawns (if needed) the server for lang and returns an
// adapter bound to it; nil if no server is configured for lang or the
// spawn failed. Errors are reported via onCrash, never panics: a
// server-fatal error tears down that server only.
func (r *lspRegistry) provider(lang document.LanguageID) *lspProvider {
	sc, ok := r.forLanguage(lang)
	if !ok {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	srv, ok := r.servers[sc.Name]
	if !ok {
		var err error
		srv, err = spawnLSP(sc,
			func(note lsp.Notification) { r.onNotify(sc.Name, note) },
			func(req lsp.ReverseRequest) { r.onReverse(sc.Name, req) },
		)
		if err != nil {
			r.onCrash(sc.Name, err)
			r.servers[sc.Name] = nil
			return nil
		}
		r.servers[sc.Name] = srv
	}
	if srv == nil {
		return nil
	}
	return &lspProvider{srv: srv}
}

func spawnLSP(sc config.LanguageServerConfig, onNotify func(lsp.Notification), onReverse func(lsp.ReverseRequest)) (*lspServer, error) {
	cmd := exec.Command(sc.Command, sc.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	transport := lsp.NewTransport(stdout, stdin)
	client := lsp.NewClient(transport, lsp.OffsetUTF16)
	srv := &lspServer{cmd: cmd, client: client, opened: map[document.ID]bool{}}

	go func() {
		for {
			if err := client.Dispatch(); err != nil {
				client.Close()
				return
			}
		}
	}()
	// drain the server-initiated streams; Dispatch blocks on these
	// channels once they fill, so they must always have a consumer.
	go func() {
		for note := range client.Notifications {
			onNotify(note)
		}
	}()
	go func() {
		for req := range client.ReverseRequests {
			onReverse(req)
		}
	}()

	go func() {
		_, _ = client.Call("initialize", map[string]any{
			"processId": nil,
			"rootUri":   nil,
			"capabilities": map[string]any{
				"general": map[string]any{"positionEncodings": []string{"utf-16"}},
			},
		})
		_ = client.Notify("initialized", map[string]any{})
	}()

	return srv, nil
}

// ensureOpen sends textDocument/didOpen once per document per server.
func (s *lspServer) ensureOpen(doc *document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened[doc.ID] {
		return
	}
	s.opened[doc.ID] = true
	_ = s.client.Notify("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{
			"uri":        lsp.PathToURI(doc.Path),
			"languageId": string(doc.Language),
			"version":    doc.Version(),
			"text":       doc.Text().String(),
		},
	})
}

// lspProvider adapts one lspServer to every async-coordinator
// interface riv defines; each method is a thin textDocument/* request
// with the response unmarshaled into the shape that interface wants.
type lspProvider struct{ srv *lspServer }

func (p *lspProvider) Name() string { return "lsp" }

func textDocumentPositionParams(doc *document.Document, cursor int) map[string]any {
	pos := lsp.CharToPosition(doc.Text(), cursor, lsp.OffsetUTF16)
	return map[string]any{
		"textDocument": map[string]any{"uri": lsp.PathToURI(doc.Path)},
		"position":     pos,
	}
}

func (p *lspProvider) Complete(doc *document.Document, cursor int) ([]handlers.Item, bool) {
	p.srv.ensureOpen(doc)
	raw, err := p.srv.client.Call("textDocument/completion", textDocumentPositionParams(doc, cursor))
	if err != nil || raw == nil {
		return nil, false
	}
	var result struct {
		IsIncomplete bool `json:"isIncomplete"`
		Items        []struct {
			Label      string `json:"label"`
			InsertText string `json:"insertText"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		// servers may reply with a bare CompletionItem[] instead of a
		// CompletionList; fall back to that shape before giving up.
		var items []struct {
			Label      string `json:"label"`
			InsertText string `json:"insertText"`
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, false
		}
		result.Items = items
	}
	out := make([]handlers.Item, len(result.Items))
	for i, it := range result.Items {
		insert := it.InsertText
		if insert == "" {
			insert = it.Label
		}
		out[i] = handlers.Item{Provider: "lsp", Priority: i, Label: it.Label, InsertText: insert}
	}
	return out, result.IsIncomplete
}

func (p *lspProvider) SignatureHelp(doc *document.Document, cursor int) (handlers.SignatureInfo, bool) {
	p.srv.ensureOpen(doc)
	raw, err := p.srv.client.Call("textDocument/signatureHelp", textDocumentPositionParams(doc, cursor))
	if err != nil || raw == nil {
		return handlers.SignatureInfo{}, false
	}
	var result struct {
		ActiveParameter int `json:"activeParameter"`
		Signatures      []struct {
			Label      string `json:"label"`
			Parameters []any  `json:"parameters"`
		} `json:"signatures"`
	}
	if err := json.Unmarshal(raw, &result); err != nil || len(result.Signatures) == 0 {
		return handlers.SignatureInfo{}, false
	}
	sig := result.Signatures[0]
	return handlers.SignatureInfo{
		Label:          sig.Label,
		ActiveParam:    result.ActiveParameter,
		ParameterCount: len(sig.Parameters),
	}, true
}

func (p *lspProvider) InlayHints(doc *document.Document, firstLine, lastLine int) []document.InlayHint {
	p.srv.ensureOpen(doc)
	raw, err := p.srv.client.Call("textDocument/inlayHint", map[string]any{
		"textDocument": map[string]any{"uri": lsp.PathToURI(doc.Path)},
		"range": lsp.Range{
			Start: lsp.CharToPosition(doc.Text(), doc.Text().LineToChar(firstLine), lsp.OffsetUTF16),
			End:   lsp.CharToPosition(doc.Text(), doc.Text().LineToChar(min(lastLine+1, doc.Text().LenLines())-1), lsp.OffsetUTF16),
		},
	})
	if err != nil || raw == nil {
		return nil
	}
	var hints []struct {
		Position lsp.Position `json:"position"`
		Label    string       `json:"label"`
	}
	if err := json.Unmarshal(raw, &hints); err != nil {
		return nil
	}
	out := make([]document.InlayHint, len(hints))
	for i, h := range hints {
		out[i] = document.InlayHint{
			Pos:   lsp.PositionToChar(doc.Text(), h.Position, lsp.OffsetUTF16),
			Label: h.Label,
		}
	}
	return out
}

func (p *lspProvider) InlineComplete(doc *document.Document, cursor int) (handlers.InlineResult, bool) {
	p.srv.ensureOpen(doc)
	raw, err := p.srv.client.Call("textDocument/inlineCompletion", textDocumentPositionParams(doc, cursor))
	if err != nil || raw == nil {
		return handlers.InlineResult{}, false
	}
	var result struct {
		Items []struct {
			InsertText string   `json:"insertText"`
			Range      lsp.Range `json:"range"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &result); err != nil || len(result.Items) == 0 {
		return handlers.InlineResult{}, false
	}
	it := result.Items[0]
	from := lsp.PositionToChar(doc.Text(), it.Range.Start, lsp.OffsetUTF16)
	to := lsp.PositionToChar(doc.Text(), it.Range.End, lsp.OffsetUTF16)
	return handlers.InlineResult{ReplaceRange: rope.Range{Anchor: from, Head: to}, Text: it.InsertText}, true
}

