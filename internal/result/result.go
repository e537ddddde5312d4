package result

import (
	"github.com/garrettladley/sha1dir/internal/object"
)

type Result struct {
	Hash object.Hash
	// Path is the root as the caller named it.
	Path string
}

// Line formats the result the way sha1sum-style tools do.
func (r *Result) Line() string {
	return r.Hash.String() + "  " + r.Path
}
