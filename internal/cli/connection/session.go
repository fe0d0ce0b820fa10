package connection

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

// Session is a persistent connection issuing one request at a time.
type Session struct {
	conn    net.Conn
	br      *bufio.Reader
	bw      *bufio.Writer
	timeout time.Duration
}

// Dial opens a session to addr.
func (c *Client) Dial() (*Session, error) {
	conn, err := c.dialer.Dial("tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.addr, err)
	}
	return &Session{
		conn:    conn,
		br:      bufio.NewReader(conn),
		bw:      bufio.NewWriter(conn),
		timeout: c.timeout,
	}, nil
}

// Do sends line and returns the first reply line without its terminator.
// Commands answered with several lines (SCAN) leave the rest buffered; use
// ReadLine to drain them.
func (s *Session) Do(line string) (string, error) {
	if err := s.conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
		return "", err
	}
	if _, err := s.bw.WriteString(line); err != nil {
		return "", err
	}
	if err := s.bw.WriteByte('\n'); err != nil {
		return "", err
	}
	if err := s.bw.Flush(); err != nil {
		return "", fmt.Errorf("send: %w", err)
	}
	return s.ReadLine()
}

// ReadLine reads one reply line.
func (s *Session) ReadLine() (string, error) {
	reply, err := s.br.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.TrimSuffix(reply, "\n"), nil
}

// Close closes the session.
func (s *Session) Close() error {
	return s.conn.Close()
}
