package wire

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"
)

func xdgRuntimeDir() string {
	dir, ok := os.LookupEnv("XDG_RUNTIME_DIR")
	if ok {
		return dir
	}
	return fmt.Sprintf("/var/run/user/%v", os.Getuid())
}

// SocketPath determines the path to the Wayland Unix domain socket
// based on the contents of the $WAYLAND_DISPLAY environment variable.
// It does not attempt to determine if the value corresponds to an
// actual socket.
func SocketPath() string {
	v, ok := os.LookupEnv("WAYLAND_DISPLAY")
	if !ok {
		v = "wayland-0"
	}
	return resolveSocket(v)
}

func resolveSocket(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(xdgRuntimeDir(), name)
}

// Conn represents a low-level Wayland connection. It is not generally
// used directly, instead being handled automatically by a Display
// implementation.
type Conn struct {
	conn *net.UnixConn
	r    *bufio.Reader
}

// NewConn creates a new Conn that wraps c. After this is called, use
// the provided Close method to close c instead of calling its own
// Close method.
func NewConn(c *net.UnixConn) *Conn {
	return &Conn{
		conn: c,
		r:    bufio.NewReader(c),
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

func (c *Conn) write(data []byte) error {
	n, err := c.conn.Write(data)
	if err != nil {
		return err
	}
	if n < len(data) {
		return fmt.Errorf("short write: %v of %v bytes", n, len(data))
	}
	return nil
}

// Dial opens a connection to the Wayland socket based on the current
// environment. It follows the procedure outlined at
// https://wayland-book.com/protocol-design/wire-protocol.html#transports
func Dial() (*Conn, error) {
	if v, ok := os.LookupEnv("WAYLAND_SOCKET"); ok {
		fd, err := strconv.ParseInt(v, 10, 0)
		if err != nil {
			return nil, fmt.Errorf("parse WAYLAND_SOCKET fd: %w", err)
		}
		unix.CloseOnExec(int(fd))
		return fileConn(os.NewFile(uintptr(fd), "WAYLAND_SOCKET"))
	}

	return DialSocket(SocketPath())
}

// DialSocket opens a connection to the named Wayland socket. Relative
// names are resolved against $XDG_RUNTIME_DIR.
func DialSocket(name string) (*Conn, error) {
	s, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: resolveSocket(name), Net: "unix"})
	if err != nil {
		return nil, err
	}
	return NewConn(s), nil
}

// Pair returns two Conns that are connected to each other. It is
// mostly useful for running a client and a server in the same process.
func Pair() (client, server *Conn, err error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("create socket pair: %w", err)
	}

	client, err = fileConn(os.NewFile(uintptr(fds[0]), "wayland-client"))
	if err != nil {
		unix.Close(fds[1])
		return nil, nil, err
	}
	server, err = fileConn(os.NewFile(uintptr(fds[1]), "wayland-server"))
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return client, server, nil
}

// fileConn converts file into a Conn. The file itself is closed, as
// net.FileConn duplicates the underlying descriptor.
func fileConn(file *os.File) (*Conn, error) {
	defer file.Close()

	c, err := net.FileConn(file)
	if err != nil {
		return nil, fmt.Errorf("open %v connection: %w", file.Name(), err)
	}
	uc, ok := c.(*net.UnixConn)
	if !ok {
		c.Close()
		return nil, fmt.Errorf("%v is not a Unix socket", file.Name())
	}
	return NewConn(uc), nil
}
