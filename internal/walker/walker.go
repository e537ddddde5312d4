package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/garrettladley/sha1dir/internal/config"
	"github.com/garrettladley/sha1dir/internal/hasher"
	"github.com/garrettladley/sha1dir/internal/object"
	"github.com/garrettladley/sha1dir/internal/result"
	"github.com/garrettladley/sha1dir/internal/xerrors"
)

var (
	ErrRootNotExist     = errors.New("root does not exist")
	ErrRootNotDirectory = errors.New("not a directory")
)

// notExistError keeps the system's message for a missing root while matching
// both ErrRootNotExist and fs.ErrNotExist.
type notExistError struct {
	err error
}

func (e notExistError) Error() string {
	return e.err.Error()
}

func (e notExistError) Unwrap() []error {
	return []error{ErrRootNotExist, e.err}
}

// rootPath is the path every walk hashes its root directory as.
const rootPath = "."

type walker struct {
	root  string // canonical directory on disk
	label string // root as the caller named it

	latch           *xerrors.Latch
	skipUnsupported bool
	maxWorkers      int

	pool *pool
	sum  accumulator
}

type Option func(*walker)

// if n <= 0, defaults to config.DefaultJobs().
func WithConcurrency(n int) Option {
	return func(w *walker) {
		w.maxWorkers = n
	}
}

// WithSkipUnsupported makes block and character devices, FIFOs and other
// unknown file types contribute nothing instead of failing the walk.
func WithSkipUnsupported(skip bool) Option {
	return func(w *walker) {
		w.skipUnsupported = skip
	}
}

// WithLatch routes the first error of the walk through l. Without it the
// error is only returned.
func WithLatch(l *xerrors.Latch) Option {
	return func(w *walker) {
		w.latch = l
	}
}

// WithLabel sets the name the root is reported under in diagnostics and in
// the result. It defaults to the root passed to Walk.
func WithLabel(label string) Option {
	return func(w *walker) {
		w.label = label
	}
}

// Resolve returns the canonical absolute path of the directory root,
// following symlinks.
func Resolve(root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if errors.Is(err, fs.ErrNotExist) {
		return "", notExistError{err: xerrors.Bare(err)}
	}
	if err != nil {
		return "", xerrors.Bare(err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", xerrors.Bare(err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", notExistError{err: xerrors.Bare(err)}
	}
	if err != nil {
		return "", xerrors.Bare(err)
	}
	if !info.IsDir() {
		return "", ErrRootNotDirectory
	}
	return abs, nil
}

// Walk computes the checksum of the directory tree at root. Entries are
// hashed by their path relative to root, so the same tree produces the same
// checksum wherever it lives.
func Walk(ctx context.Context, root string, opts ...Option) (*result.Result, error) {
	w := &walker{
		label: root,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.latch == nil {
		w.latch = xerrors.NewLatch("", nil, nil)
	}

	canonical, err := Resolve(root)
	if err != nil {
		return nil, w.fail(rootPath, err)
	}
	w.root = canonical

	workers := w.maxWorkers
	if workers <= 0 {
		workers = config.DefaultJobs()
	}
	w.pool = newPool()

	return w.walk(ctx, workers)
}

func (w *walker) walk(ctx context.Context, workers int) (*result.Result, error) {
	err := w.pool.run(ctx, workers, func() error { return w.visit(rootPath) })
	if latched := w.latch.Err(); latched != nil {
		return nil, latched
	}
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", w.label, err)
	}

	return &result.Result{
		Hash: w.sum.value(),
		Path: w.label,
	}, nil
}

// visit hashes one entry and, for a directory, spawns a task per child.
func (w *walker) visit(rel string) error {
	if w.latch.Fired() {
		return nil
	}

	fsPath := w.onDisk(rel)
	e, err := hasher.Stat(rel, fsPath)
	if err != nil {
		return w.fail(rel, err)
	}

	if e.Kind == object.KindUnsupported && w.skipUnsupported {
		return nil
	}

	h, err := hasher.Hash(e, fsPath)
	if err != nil {
		return w.fail(rel, err)
	}
	w.sum.combine(h)

	if e.Kind != object.KindDirectory {
		return nil
	}

	names, err := readDirNames(fsPath)
	if err != nil {
		return w.fail(rel, err)
	}
	for _, name := range names {
		child := rel + "/" + name
		if !w.pool.spawn(func() error { return w.visit(child) }) {
			break
		}
	}
	return nil
}

// fail reports err through the latch and returns it qualified by the path
// the caller would recognise.
func (w *walker) fail(rel string, err error) error {
	path := under(w.label, rel)
	w.latch.Report(path, err)
	return xerrors.HashError{Path: path, Err: xerrors.Bare(err)}
}

func (w *walker) onDisk(rel string) string {
	return under(w.root, rel)
}

// under places the relative walk path rel ("." or "./a/b") below base.
func under(base, rel string) string {
	if rel == rootPath {
		return base
	}
	if strings.HasSuffix(base, "/") {
		return base + rel[len("./"):]
	}
	return base + rel[len("."):]
}

// readDirNames lists the names in dir in the order the OS returns them.
func readDirNames(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err //nolint:wrapcheck // reported next to the path
	}
	defer func() { _ = f.Close() }()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, err //nolint:wrapcheck // reported next to the path
	}
	return names, nil
}
