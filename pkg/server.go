package pkg

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path"
	"syscall"
	"time"
	"unsafe"

	"github.com/creack/pty"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gliderlabs/ssh"
)

const ServerIdleTimeout = 5 * time.Minute

// Server exposes the terminal client over SSH. Each session gets its own
// chess-board process on a pseudo-terminal; nothing is shared between
// sessions.
type Server struct {
	*ssh.Server
	binaryPath string
}

func setWinsize(f *os.File, w, h int) {
	syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uintptr(syscall.TIOCSWINSZ),
		uintptr(unsafe.Pointer(&struct{ h, w, x, y uint16 }{uint16(h), uint16(w), 0, 0})))
}

func (srv *Server) sshHandle(s ssh.Session) {
	ptyReq, winCh, isPty := s.Pty()
	if !isPty {
		io.WriteString(s, "non-interactive terminals are not supported\n")
		s.Exit(1)
		return
	}

	session := petname.Generate(2, "-")
	log.Printf("session %s connected from %s", session, s.RemoteAddr())

	cmdCtx, cancelCmd := context.WithCancel(s.Context())
	defer cancelCmd()

	logPath := fmt.Sprintf("/tmp/chess-board-%s.log", session)
	cmd := exec.CommandContext(cmdCtx, srv.binaryPath, "-log", logPath)
	cmd.Env = append(s.Environ(), fmt.Sprintf("TERM=%s", ptyReq.Term))

	f, err := pty.Start(cmd)
	if err != nil {
		io.WriteString(s, fmt.Sprintf("failed to initialize pseudo-terminal: %s\n", err))
		s.Exit(1)
		return
	}
	defer f.Close()

	go func() {
		for win := range winCh {
			setWinsize(f, win.Width, win.Height)
		}
	}()

	go func() {
		io.Copy(f, s)
	}()
	io.Copy(s, f)

	f.Close()
	cmd.Wait()
	log.Printf("session %s closed", session)
}

// NewServer builds an SSH server that runs the client binary at binaryPath
// for every connecting session. The host key is read from hostKeyPath; an
// empty path falls back to ~/.ssh/id_rsa.
func NewServer(addr, binaryPath, hostKeyPath string) (*Server, error) {
	server := &Server{binaryPath: binaryPath}
	s := &ssh.Server{
		Addr:        addr,
		IdleTimeout: ServerIdleTimeout,
		Handler:     server.sshHandle,
	}
	if hostKeyPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("server: resolve home dir: %w", err)
		}
		hostKeyPath = path.Join(homeDir, ".ssh", "id_rsa")
	}
	if err := s.SetOption(ssh.HostKeyFile(hostKeyPath)); err != nil {
		return nil, fmt.Errorf("server: host key %s: %w", hostKeyPath, err)
	}
	server.Server = s
	return server, nil
}
