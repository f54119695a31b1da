package docstore

import (
	"fmt"
	"strings"
)

// Diagnostics captures per-request transport details the backend returned
// alongside a response. All methods are safe on a nil receiver.
type Diagnostics struct {
	Regions    []string
	RetryCount int
	Raw        string
}

// ContactedRegions returns the regions that served the request as a single
// comma-separated value.
func (d *Diagnostics) ContactedRegions() string {
	if d == nil {
		return ""
	}
	return strings.Join(d.Regions, ",")
}

func (d *Diagnostics) String() string {
	if d == nil {
		return ""
	}
	if d.Raw != "" {
		return d.Raw
	}
	return fmt.Sprintf("regions=%s retries=%d", d.ContactedRegions(), d.RetryCount)
}
