package store

import "errors"

// ErrInvalidArgument marks calls that violate an input contract, such as
// negative paging parameters or a missing required record. Callers should not
// retry them.
var ErrInvalidArgument = errors.New("invalid argument")
