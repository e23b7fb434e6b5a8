package experiment

import (
	"encoding/json"
	"sort"
)

// StorageKey is the key the serialised assignment record is persisted under.
const StorageKey = "ab_test_assignments"

// Assignment maps test name to the variant a visitor was given.
type Assignment map[string]string

// Clone returns a shallow copy.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Ordered returns the test names of a in catalog order followed by names the
// catalog does not know, sorted.
func (a Assignment) Ordered(c *Catalog) []string {
	names := make([]string, 0, len(a))
	known := make(map[string]struct{}, len(a))
	if c != nil {
		for _, n := range c.Names() {
			if _, ok := a[n]; ok {
				names = append(names, n)
				known[n] = struct{}{}
			}
		}
	}
	var rest []string
	for n := range a {
		if _, ok := known[n]; !ok {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Marshal encodes a as the persisted JSON object.
func (a Assignment) Marshal() (string, error) {
	if a == nil {
		a = Assignment{}
	}
	b, err := json.Marshal(map[string]string(a))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseAssignment decodes a persisted record.  Anything other than a JSON
// object of string values is reported as malformed.
func ParseAssignment(raw string) (Assignment, bool) {
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
		return nil, false
	}
	return Assignment(m), true
}

//Personal.AI order the ending
