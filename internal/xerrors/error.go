package xerrors

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

type HashError struct {
	Path string
	Err  error
}

func (e HashError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e HashError) Unwrap() error {
	return e.Err
}

// Bare strips the path and operation that the os package attaches to its
// errors, since diagnostics already name the path.
func Bare(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err
	}
	var se *os.SyscallError
	if errors.As(err, &se) {
		return se.Err
	}
	return err
}

// Latch reports the first error of a run and ignores every later one.
type Latch struct {
	tool string
	out  io.Writer
	exit func(code int)

	once  sync.Once
	fired atomic.Bool
	err   error
}

// NewLatch returns a latch that prints "<tool>: <path>: <err>" to out and
// then calls exit(1). exit may be nil, in which case the first error is only
// recorded for Err.
func NewLatch(tool string, out io.Writer, exit func(code int)) *Latch {
	if out == nil {
		out = io.Discard
	}
	return &Latch{
		tool: tool,
		out:  out,
		exit: exit,
	}
}

func (l *Latch) Report(path string, err error) {
	l.once.Do(func() {
		he := HashError{Path: path, Err: Bare(err)}
		l.err = he
		l.fired.Store(true)
		_, _ = fmt.Fprintf(l.out, "%s: %s\n", l.tool, he.Error())
		if l.exit != nil {
			l.exit(1)
		}
	})
}

func (l *Latch) Fired() bool {
	return l.fired.Load()
}

// Err returns the reported error, or nil. It is safe to call once the
// reporting goroutines have been joined.
func (l *Latch) Err() error {
	if !l.fired.Load() {
		return nil
	}
	return l.err
}
