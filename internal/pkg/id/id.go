package id

import "github.com/oklog/ulid/v2"

// New returns a fresh ULID string. ULIDs sort by creation time, which
// keeps default listings stable without a separate sequence.
func New() string {
	return ulid.Make().String()
}
