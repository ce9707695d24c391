package ids

import "github.com/segmentio/ksuid"

// New returns a K-sortable identifier used for store-assigned record ids.
func New() string {
	return ksuid.New().String()
}
