package catalog

import "errors"

// ErrNotFound indicates the requested library entry does not exist.
var ErrNotFound = errors.New("catalog entry not found")
