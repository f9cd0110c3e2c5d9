// Package uid generates the identifiers used to tag requests in logs and
// response headers.
package uid

import "github.com/google/uuid"

// New returns a random UUID string.
func New() string {
	return uuid.NewString()
}
