package contactrank

import "time"

const (
	DefaultContactsFile = "contacts.json"
	DefaultSearchLimit  = 0 // unlimited
	DefaultOpTimeout    = 10 * time.Second

	maxLineBytes = 1 << 20
)
