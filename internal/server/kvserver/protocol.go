package kvserver

import (
	"bufio"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reply lines. Every line written to the client ends with '\n'.
const (
	ReplyOK             = "+OK"
	ReplyNil            = "(nil)"
	ReplyUnknownCommand = "ERR unknown command"
	ReplyLineTooLong    = "ERR line too long"
	ReplyMaxConnections = "ERR max connections reached"
)

// ErrLineTooLong is returned when a request line exceeds the configured limit.
var ErrLineTooLong = errors.New("kvserver: line too long")

// readLine returns the next line without its terminator. Bytes after the
// last '\n' stay in r. A partial line at EOF is dropped and io.EOF returned.
func readLine(r *bufio.Reader, maxLen int) (string, error) {
	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		if err == nil {
			buf = append(buf, frag[:len(frag)-1]...)
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, frag...)
			if maxLen > 0 && len(buf) > maxLen {
				return "", ErrLineTooLong
			}
			continue
		}
		return "", err
	}

	if maxLen > 0 && len(buf) > maxLen {
		return "", ErrLineTooLong
	}
	return string(buf), nil
}

// request is one parsed command line.
type request struct {
	name  string // upper-cased keyword
	arg   string
	value string
	nargs int
}

// parseLine splits a trimmed line into at most three fields. The keyword and
// the first argument end at whitespace; the value is everything after the
// single character that ends the first argument.
func parseLine(line string) request {
	var req request

	name, rest := cutField(line)
	req.name = strings.ToUpper(name)

	arg, tail := cutField(rest)
	if arg == "" {
		return req
	}
	req.arg = arg
	req.nargs = 1

	if tail != "" {
		_, size := utf8.DecodeRuneInString(tail)
		if v := tail[size:]; v != "" {
			req.value = v
			req.nargs = 2
		}
	}
	return req
}

// cutField returns the leading non-space run of s and what follows it.
func cutField(s string) (field, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

func writeLine(w *bufio.Writer, s string) error {
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

func usage(command string) string {
	switch command {
	case "SET":
		return "ERR usage: SET key value"
	case "SCAN":
		return "ERR usage: SCAN prefix"
	default:
		return "ERR usage: " + command + " key"
	}
}
