package contactrank

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Priority is the tier a match falls into. Lower is better.
type Priority int

const (
	PriorityName     Priority = 1 // name starts with the term
	PriorityNickname Priority = 2 // nickname starts with the term
	PriorityEmail    Priority = 3 // email starts with the term
	PriorityContains Priority = 4 // term appears somewhere, no recognized prefix
)

func (p Priority) String() string {
	switch p {
	case PriorityName:
		return "name"
	case PriorityNickname:
		return "nickname"
	case PriorityEmail:
		return "email"
	case PriorityContains:
		return "contains"
	default:
		return "priority(" + strconv.Itoa(int(p)) + ")"
	}
}

// prefixTiers is checked top to bottom; the first hit decides the tier.
var prefixTiers = []struct {
	field    string
	priority Priority
}{
	{FieldName, PriorityName},
	{FieldNickname, PriorityNickname},
	{FieldEmail, PriorityEmail},
}

// SortKey orders matches inside one priority tier. Prefix tiers sort by the
// matched field's original text, the contains tier by distance.
type SortKey struct {
	Text     string
	Distance int
	Numeric  bool
}

func (k SortKey) String() string {
	if k.Numeric {
		return strconv.Itoa(k.Distance)
	}
	return k.Text
}

// Compare orders keys of the same tier.
func (k SortKey) Compare(o SortKey) int {
	if k.Numeric || o.Numeric {
		return cmp.Compare(k.Distance, o.Distance)
	}
	return strings.Compare(k.Text, o.Text)
}

// Match is one ranked contact.
type Match struct {
	Contact  Contact
	Priority Priority
	Distance int
	SortKey  SortKey
}

// Compare orders by (priority, sort key, distance).
func (m Match) Compare(o Match) int {
	if c := cmp.Compare(m.Priority, o.Priority); c != 0 {
		return c
	}
	if c := m.SortKey.Compare(o.SortKey); c != 0 {
		return c
	}
	return cmp.Compare(m.Distance, o.Distance)
}

// Rank returns copies of the contacts that contain term, best match first.
// It fails with ErrNoMatches when nothing qualifies.
func Rank(term string, contacts []Contact) ([]Contact, error) {
	matches, err := RankMatches(term, contacts)
	if err != nil {
		return nil, err
	}
	out := make([]Contact, len(matches))
	for i, m := range matches {
		out[i] = m.Contact
	}
	return out, nil
}

// RankMatches is Rank with the per-match priority, distance and sort key.
// Contacts that tie on every key keep their input order.
func RankMatches(term string, contacts []Contact) ([]Match, error) {
	needle := strings.ToLower(term)

	matches := make([]Match, 0, len(contacts))
	for _, c := range contacts {
		m, ok := classify(needle, c)
		if !ok {
			continue
		}
		matches = append(matches, m)
	}
	if len(matches) == 0 {
		return nil, NoMatchesError(term)
	}

	slices.SortStableFunc(matches, Match.Compare)
	return matches, nil
}

// classify decides whether c matches the lower-cased needle and, if so,
// builds its Match from the best tier and the minimum distance over every
// field that contains the needle.
func classify(needle string, c Contact) (Match, bool) {
	distance := -1
	for _, v := range c {
		lv := strings.ToLower(v)
		if !strings.Contains(lv, needle) {
			continue
		}
		if d := Distance(lv, needle); distance < 0 || d < distance {
			distance = d
		}
	}
	if distance < 0 {
		return Match{}, false
	}

	m := Match{
		Contact:  c.Clone(),
		Priority: priorityOf(needle, c),
		Distance: distance,
	}
	m.SortKey = sortKeyOf(m)
	return m, true
}

func priorityOf(needle string, c Contact) Priority {
	for _, t := range prefixTiers {
		v, ok := c[t.field]
		if ok && strings.HasPrefix(strings.ToLower(v), needle) {
			return t.priority
		}
	}
	return PriorityContains
}

func sortKeyOf(m Match) SortKey {
	switch m.Priority {
	case PriorityName:
		return SortKey{Text: m.Contact[FieldName]}
	case PriorityNickname:
		return SortKey{Text: m.Contact[FieldNickname]}
	case PriorityEmail:
		return SortKey{Text: m.Contact[FieldEmail]}
	default:
		return SortKey{Distance: m.Distance, Numeric: true}
	}
}
