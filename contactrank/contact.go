package contactrank

import "sort"

// Recognized contact fields, in priority order.
const (
	FieldName     = "name"
	FieldNickname = "nickname"
	FieldEmail    = "email"
)

// Contact maps field names to values. Fields other than name, nickname and
// email are carried through ranking untouched.
type Contact map[string]string

// Clone returns a shallow copy of c.
func (c Contact) Clone() Contact {
	out := make(Contact, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Keys returns the field names of c in sorted order.
func (c Contact) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Label is the best human-readable identifier for c.
func (c Contact) Label() string {
	for _, f := range []string{FieldName, FieldNickname, FieldEmail} {
		if v, ok := c[f]; ok && v != "" {
			return v
		}
	}
	keys := c.Keys()
	if len(keys) == 0 {
		return "(empty)"
	}
	return c[keys[0]]
}
