package terminal

import (
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// Process owns one PTY-backed child: it spawns the shell with
// pty.Start and runs a dedicated read goroutine per session. Writes go
// through an unbounded pending buffer that Write drains synchronously
// under writeMu, so a child that stops reading its stdin blocks the
// writing caller; the PTY's writability is not polled.
type Process struct {
	cmd  *exec.Cmd
	ptmx *os.File

	writeMu sync.Mutex
	pending []byte

	wakeup chan struct{} // unbounded-ish: buffered 1, coalescing redraw signal
	output chan []byte
	exit   chan int
}

// Spawn starts shell (argv[0] plus args) attached to a new PTY of size
// rows x cols. The returned Process's Output channel receives raw PTY
// bytes until the child exits, at which point Exit receives its code
// and both channels are closed.
func Spawn(shell []string, rows, cols int, env []string) (*Process, error) {
	if len(shell) == 0 {
		shell = []string{defaultShell()}
	}

	cmd := exec.Command(shell[0], shell[1:]...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, err
	}

	p := &Process{
		cmd:    cmd,
		ptmx:   ptmx,
		wakeup: make(chan struct{}, 1),
		output: make(chan []byte, 64),
		exit:   make(chan int, 1),
	}
	go p.readLoop()
	return p, nil
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// readLoop is the blocking worker thread: it reads whatever the PTY
// has ready, forwards it on Output, and pings
// Wakeup so the render loop knows to redraw. On read error (almost
// always EOF from child exit) it records the exit code and tears down.
func (p *Process) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := p.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			p.output <- chunk
			p.notify()
		}
		if err != nil {
			_ = p.cmd.Wait()
			code := 0
			if state := p.cmd.ProcessState; state != nil {
				code = state.ExitCode()
			}
			close(p.output)
			p.exit <- code
			close(p.exit)
			return
		}
	}
}

func (p *Process) notify() {
	select {
	case p.wakeup <- struct{}{}:
	default:
	}
}

// Output yields raw bytes read from the PTY; closed on child exit.
func (p *Process) Output() <-chan []byte { return p.output }

// Exit yields the child's exit code exactly once, after Output closes.
func (p *Process) Exit() <-chan int { return p.exit }

// Wakeup signals that new output is ready to be drawn. It coalesces
// bursts of reads into a single pending redraw rather than an
// unbounded channel of wakeups.
func (p *Process) Wakeup() <-chan struct{} { return p.wakeup }

// Write appends data to the pending buffer and writes the buffer to the
// PTY's stdin before returning. Safe for concurrent use.
func (p *Process) Write(data []byte) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	p.pending = append(p.pending, data...)
	p.drainLocked()
}

// drainLocked writes the pending buffer until it is empty or a write
// fails; after a failure the unwritten remainder waits for the next
// Write call.
func (p *Process) drainLocked() {
	for len(p.pending) > 0 {
		n, err := p.ptmx.Write(p.pending)
		if n > 0 {
			p.pending = p.pending[n:]
		}
		if err != nil {
			return
		}
	}
}

// Pid returns the child process id, or 0 if it never started.
func (p *Process) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Resize updates the PTY's window size, which the kernel delivers to
// the child as SIGWINCH.
func (p *Process) Resize(rows, cols int) error {
	return pty.Setsize(p.ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Close tears down the PTY and kills the child if still running.
func (p *Process) Close() error {
	err := p.ptmx.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	return err
}
