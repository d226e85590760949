package datatree

import "github.com/go-conjecture/datatree/source"

// Conclusion is an interned (status, origin) pair. Two conclusions
// compare equal iff they are the same pointer: identical (status,
// origin) pairs recorded through the same Tree always intern to the
// same *Conclusion, so transition equality is a reference comparison.
type Conclusion struct {
	Status source.Status
	Origin any
}

type conclusionKey struct {
	status source.Status
	origin any
}

// intern returns the canonical Conclusion for (status, origin),
// creating it on first use. origin must be comparable (usable as a
// map key): an opaque equality-comparable token.
func (t *Tree) intern(status source.Status, origin any) *Conclusion {
	key := conclusionKey{status: status, origin: origin}
	if c, ok := t.interns[key]; ok {
		return c
	}
	c := &Conclusion{Status: status, Origin: origin}
	t.interns[key] = c
	return c
}
