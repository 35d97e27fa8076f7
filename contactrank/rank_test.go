package contactrank

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jenny() []Contact {
	return []Contact{{"name": "Jenny J", "email": "jj@Yahoo.com"}}
}

func names(t *testing.T, cs []Contact) []string {
	t.Helper()
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Label()
	}
	return out
}

func TestRank_EmailContainsTerm(t *testing.T) {
	got, err := Rank("@yahoo", jenny())
	require.NoError(t, err)
	assert.Equal(t, jenny(), got)

	matches, err := RankMatches("@yahoo", jenny())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, PriorityContains, matches[0].Priority)
	assert.Equal(t, 6, matches[0].Distance)
	assert.Equal(t, SortKey{Distance: 6, Numeric: true}, matches[0].SortKey)
}

func TestRank_UppercaseTerm(t *testing.T) {
	lower, err := Rank("@yahoo", jenny())
	require.NoError(t, err)
	upper, err := Rank("@YAHOO", jenny())
	require.NoError(t, err)
	assert.Equal(t, lower, upper)
}

func TestRank_NoMatches(t *testing.T) {
	got, err := Rank("abcdefgh", jenny())
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, IsKind(err, ErrNoMatches), "unexpected error: %v", err)
}

func TestRank_EmptyInputIsNoMatches(t *testing.T) {
	_, err := Rank("a", nil)
	assert.True(t, IsKind(err, ErrNoMatches))

	_, err = Rank("", nil)
	assert.True(t, IsKind(err, ErrNoMatches))
}

func TestRank_NamePrefixBeforeNickname(t *testing.T) {
	contacts := []Contact{
		{"nickname": "An"},
		{"name": "Anna"},
		{"name": "Ann"},
	}
	matches, err := RankMatches("an", contacts)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, Contact{"name": "Ann"}, matches[0].Contact)
	assert.Equal(t, Contact{"name": "Anna"}, matches[1].Contact)
	assert.Equal(t, Contact{"nickname": "An"}, matches[2].Contact)
	assert.Equal(t, []Priority{PriorityName, PriorityName, PriorityNickname},
		[]Priority{matches[0].Priority, matches[1].Priority, matches[2].Priority})
}

func TestRank_BestPriorityAcrossFields(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		want    Priority
	}{
		{"name wins over email", Contact{"name": "Max", "email": "max@example.com"}, PriorityName},
		{"nickname wins over email", Contact{"name": "Bill", "nickname": "jo", "email": "jo@example.com"}, PriorityNickname},
		{"email only", Contact{"name": "Bill", "email": "jo@example.com"}, PriorityEmail},
		{"other field only", Contact{"name": "Bill", "phone": "jo-555"}, PriorityContains},
		{"contains in name", Contact{"name": "Major"}, PriorityContains},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := "jo"
			if tt.want == PriorityName {
				term = "MAX"
			}
			matches, err := RankMatches(term, []Contact{tt.contact})
			require.NoError(t, err)
			assert.Equal(t, tt.want, matches[0].Priority)
		})
	}
}

func TestRank_DistanceIsMinimumOverFields(t *testing.T) {
	c := Contact{"name": "Robert Bobson", "nickname": "bob", "email": "bobby@example.com"}
	matches, err := RankMatches("bob", []Contact{c})
	require.NoError(t, err)
	assert.Equal(t, PriorityNickname, matches[0].Priority)
	assert.Equal(t, 0, matches[0].Distance)
	assert.Equal(t, SortKey{Text: "bob"}, matches[0].SortKey)
}

func TestRank_DistanceBreaksSortKeyTies(t *testing.T) {
	far := Contact{"name": "Bobby"}
	near := Contact{"name": "Bobby", "nickname": "bob"}
	matches, err := RankMatches("bob", []Contact{far, near})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, near, matches[0].Contact)
	assert.Equal(t, 0, matches[0].Distance)
	assert.Equal(t, far, matches[1].Contact)
	assert.Equal(t, 2, matches[1].Distance)
}

func TestRank_ContainsTierOrderedByDistance(t *testing.T) {
	contacts := []Contact{
		{"name": "Shelly"},
		{"email": "x@yellow.com"},
		{"name": "Bell"},
	}
	matches, err := RankMatches("ell", contacts)
	require.NoError(t, err)
	got := make([]int, len(matches))
	for i, m := range matches {
		assert.Equal(t, PriorityContains, m.Priority)
		got[i] = m.Distance
	}
	assert.Equal(t, []int{1, 3, 9}, got)
	assert.Equal(t, []string{"Bell", "Shelly", "x@yellow.com"}, names(t, contactsOf(matches)))
}

func TestRank_EmailTierSortedByEmail(t *testing.T) {
	contacts := []Contact{{"email": "zed@x.io"}, {"email": "zack@x.io"}}
	got, err := Rank("z", contacts)
	require.NoError(t, err)
	assert.Equal(t, []string{"zack@x.io", "zed@x.io"}, names(t, got))
}

func TestRank_SortKeyUsesOriginalCase(t *testing.T) {
	contacts := []Contact{{"name": "anna"}, {"name": "Anne"}}
	got, err := Rank("an", contacts)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anne", "anna"}, names(t, got))
}

func TestRank_UnrecognizedFieldsMatchButKeepLowestTier(t *testing.T) {
	contacts := []Contact{
		{"name": "Jo", "phone": "555-1234"},
		{"name": "Al", "email": "al@example.com"},
	}
	matches, err := RankMatches("555", contacts)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, PriorityContains, matches[0].Priority)
	assert.Equal(t, 5, matches[0].Distance)
	assert.Equal(t, "555-1234", matches[0].Contact["phone"])
}

func TestRank_TermIsLiteral(t *testing.T) {
	contacts := []Contact{{"name": "a.b"}, {"name": "axb"}}
	got, err := Rank("a.b", contacts)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.b"}, names(t, got))
}

func TestRank_FullTiesKeepInputOrder(t *testing.T) {
	first := Contact{"name": "Sam", "phone": "1"}
	second := Contact{"name": "Sam", "phone": "2"}
	got, err := Rank("sam", []Contact{first, second})
	require.NoError(t, err)
	assert.Equal(t, []Contact{first, second}, got)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	contacts := []Contact{
		{"name": "Zoe", "email": "zoe@example.com"},
		{"name": "Ann"},
	}
	snapshot := []Contact{contacts[0].Clone(), contacts[1].Clone()}

	got, err := Rank("", contacts)
	require.NoError(t, err)
	assert.Equal(t, snapshot, contacts)

	got[0]["name"] = "changed"
	assert.Equal(t, snapshot, contacts)
}

func TestRank_Properties(t *testing.T) {
	contacts := []Contact{
		{"name": "Jenny J", "email": "jj@Yahoo.com"},
		{"name": "Jerry Seinfeld", "nickname": "jerry", "phone": "555-0100"},
		{"name": "George Costanza", "nickname": "Art Vandelay", "email": "george@vandelay.com"},
		{"name": "Elaine Benes", "email": "elaine@pendant.com"},
		{"nickname": "Kramer", "email": "cosmo@kramerica.com"},
		{"name": "Newman", "email": "newman@usps.gov"},
		{"name": "J. Peterman", "email": "jp@catalog.com"},
		{"email": "jackie@chiles.law"},
		{"phone": "555-0199"},
	}
	terms := []string{"j", "je", "e", "an", "@", ".com", "555", "ER", "", "kram", "vandelay"}

	for _, term := range terms {
		t.Run("term="+term, func(t *testing.T) {
			matches, err := RankMatches(term, contacts)
			if err != nil {
				require.True(t, IsKind(err, ErrNoMatches))
				return
			}

			again, err := RankMatches(term, contacts)
			require.NoError(t, err)
			assert.Equal(t, matches, again, "deterministic")

			upper, err := Rank(strings.ToUpper(term), contacts)
			require.NoError(t, err)
			lower, err := Rank(strings.ToLower(term), contacts)
			require.NoError(t, err)
			assert.Equal(t, contactsOf(matches), upper, "upper-case term")
			assert.Equal(t, contactsOf(matches), lower, "lower-case term")

			seen := map[string]bool{}
			for i, m := range matches {
				id := ContactID(m.Contact)
				assert.False(t, seen[id], "duplicate contact %v", m.Contact)
				seen[id] = true

				if name, ok := m.Contact[FieldName]; ok && strings.HasPrefix(strings.ToLower(name), strings.ToLower(term)) {
					assert.Equal(t, PriorityName, m.Priority, "name prefix must be tier 1: %v", m.Contact)
				}
				if i > 0 {
					assert.LessOrEqual(t, matches[i-1].Compare(m), 0, "out of order at %d", i)
				}
			}
		})
	}
}

func TestRank_ConcurrentCallers(t *testing.T) {
	contacts := []Contact{{"name": "Ann"}, {"name": "Anna"}, {"nickname": "An"}, {"email": "ann@x.io"}}
	want, err := Rank("an", contacts)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Rank("an", contacts)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestPriorityString(t *testing.T) {
	assert.Equal(t, "name", PriorityName.String())
	assert.Equal(t, "contains", PriorityContains.String())
	assert.Equal(t, "priority(9)", Priority(9).String())
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"café", "cafe", 1},
		{"jj@yahoo.com", "@yahoo", 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b), "Distance(%q, %q)", tt.a, tt.b)
		assert.Equal(t, tt.want, Distance(tt.b, tt.a), "Distance(%q, %q)", tt.b, tt.a)
	}
}

func contactsOf(ms []Match) []Contact {
	out := make([]Contact, len(ms))
	for i, m := range ms {
		out[i] = m.Contact
	}
	return out
}
