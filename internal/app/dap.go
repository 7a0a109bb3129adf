// Lazy debug-adapter process management, reusing internal/lsp.Transport
// for wire framing since DAP and LSP frame messages identically; the
// session itself is internal/dap.Client.
package app

import (
	"os/exec"

	"github.com/rivedit/riv/internal/config"
	"github.com/rivedit/riv/internal/dap"
	"github.com/rivedit/riv/internal/lsp"
)

// debugSession owns one spawned debug-adapter process and its client;
// on Initialized, the client re-sends the breakpoints it has recorded
// from the adapter's breakpoint events, then sends configurationDone.
type debugSession struct {
	cmd    *exec.Cmd
	client *dap.Client
}

// dapRegistry lazily spawns one debug adapter per configured language,
// the same shape as lspRegistry.
type dapRegistry struct {
	cfg       []config.DebugAdapterConfig
	sessions  map[string]*debugSession
	onCrash   func(name string, err error)
	onEvent   func(name string, ev dap.Event)
	onReverse func(name string, req dap.ReverseRequest)
}

func newDAPRegistry(cfg []config.DebugAdapterConfig, onCrash func(string, error), onEvent func(string, dap.Event), onReverse func(string, dap.ReverseRequest)) *dapRegistry {
	return &dapRegistry{cfg: cfg, sessions: map[string]*debugSession{}, onCrash: onCrash, onEvent: onEvent, onReverse: onReverse}
}

func (r *dapRegistry) forLanguage(lang string) (config.DebugAdapterConfig, bool) {
	for _, sc := range r.cfg {
		for _, l := range sc.Languages {
			if l == lang {
				return sc, true
			}
		}
	}
	return config.DebugAdapterConfig{}, false
}

// session returns the running session for lang, spawning one on first
// use; nil if no debug adapter is configured for lang.
func (r *dapRegistry) session(lang string) *debugSession {
	sc, ok := r.forLanguage(lang)
	if !ok {
		return nil
	}
	if s, ok := r.sessions[sc.Name]; ok {
		return s
	}
	s, err := spawnDAP(sc,
		func(ev dap.Event) { r.onEvent(sc.Name, ev) },
		func(req dap.ReverseRequest) { r.onReverse(sc.Name, req) },
	)
	if err != nil {
		r.onCrash(sc.Name, err)
		r.sessions[sc.Name] = nil
		return nil
	}
	r.sessions[sc.Name] = s
	return s
}

func spawnDAP(sc config.DebugAdapterConfig, onEvent func(dap.Event), onReverse func(dap.ReverseRequest)) (*debugSession, error) {
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
	client := dap.NewClient(lsp.NewTransport(stdout, stdin))

	go func() {
		for {
			if err := client.Dispatch(); err != nil {
				return
			}
		}
	}()
	go func() {
		for ev := range client.Events {
			onEvent(ev)
		}
	}()
	go func() {
		for req := range client.ReverseRequests {
			onReverse(req)
		}
	}()
	go func() {
		_, _ = client.Request("initialize", map[string]any{
			"clientID":                     "riv",
			"adapterID":                    sc.Name,
			"linesStartAt1":                true,
			"columnsStartAt1":              true,
			"supportsRunInTerminalRequest": true,
		})
	}()

	return &debugSession{cmd: cmd, client: client}, nil
}

// toggleBreakpoint sets or clears a breakpoint at path:line through the
// active session's setBreakpoints request, reconciling the local
// breakpoint list from the adapter's Breakpoint{reason} response.
func (s *debugSession) toggleBreakpoint(path string, line int) error {
	_, err := s.client.Request("setBreakpoints", map[string]any{
		"source":      map[string]any{"path": path},
		"breakpoints": []map[string]any{{"line": line}},
	})
	return err
}

func (s *debugSession) cont(threadID int) error {
	_, err := s.client.Request("continue", map[string]any{"threadId": threadID})
	return err
}

func (s *debugSession) stepOver(threadID int) error {
	_, err := s.client.Request("next", map[string]any{"threadId": threadID})
	return err
}

func (s *debugSession) stepInto(threadID int) error {
	_, err := s.client.Request("stepIn", map[string]any{"threadId": threadID})
	return err
}
