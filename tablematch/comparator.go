package tablematch

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidLookup marks caller configuration errors: unknown comparators,
// malformed column names and values a comparator cannot handle. These are
// never retried.
var ErrInvalidLookup = errors.New("invalid column lookup")

// lookupSep separates a column name from its comparator name.
const lookupSep = "__"

// Comparator decides whether an actual value satisfies an expected one.
type Comparator interface {
	Name() string
	// Accepts returns whether the comparator can handle values of kind k.
	Accepts(k Kind) bool
	Match(expected, actual Value) bool
}

type defaultComparator struct{}

func (defaultComparator) Name() string { return "default" }

func (defaultComparator) Accepts(Kind) bool { return true }

func (defaultComparator) Match(e, a Value) bool { return e.Equal(a) }

type equalsComparator struct{}

func (equalsComparator) Name() string { return "equals" }

func (equalsComparator) Accepts(k Kind) bool { return k == KindString }

func (equalsComparator) Match(e, a Value) bool {
	es, _ := e.Str()
	as, _ := a.Str()
	return es == as
}

type containsComparator struct{}

func (containsComparator) Name() string { return "contains" }

func (containsComparator) Accepts(k Kind) bool { return k == KindString }

func (containsComparator) Match(e, a Value) bool {
	es, _ := e.Str()
	as, _ := a.Str()
	return strings.Contains(as, es)
}

var (
	// Default compares any two values with type-aware equality.
	Default Comparator = defaultComparator{}
	// Equals compares two strings for equality.
	Equals Comparator = equalsComparator{}
	// Contains checks that the actual string contains the expected one.
	Contains Comparator = containsComparator{}
)

// Registry maps comparator names to comparators.
type Registry struct {
	comparators map[string]Comparator
}

func NewRegistry(cs ...Comparator) (*Registry, error) {
	r := &Registry{comparators: make(map[string]Comparator, len(cs))}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a new registry holding the built in comparators.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Default, Equals, Contains)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Register(c Comparator) error {
	name := c.Name()
	if name == "" || strings.Contains(name, lookupSep) {
		return errors.Newf("invalid comparator name %q", name)
	}
	if _, ok := r.comparators[name]; ok {
		return errors.Newf("comparator %q already registered", name)
	}
	r.comparators[name] = c
	return nil
}

// Names returns the registered comparator names in sorted order.
func (r *Registry) Names() []string {
	ret := make([]string, 0, len(r.comparators))
	for name := range r.comparators {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Lookup resolves a column header into its comparator and the column name
// to look up in actual rows. "name__contains" selects the "contains"
// comparator for column "name"; a bare "name" selects "default".
func (r *Registry) Lookup(header string) (Comparator, string, error) {
	column, name := header, Default.Name()
	if strings.Contains(header, lookupSep) {
		parts := strings.Split(header, lookupSep)
		if len(parts) != 2 {
			return nil, "", errors.Mark(
				errors.Newf("column %q has more than one comparator suffix", header),
				ErrInvalidLookup,
			)
		}
		column, name = parts[0], parts[1]
	}
	c, ok := r.comparators[name]
	if !ok {
		return nil, "", errors.Mark(
			errors.Newf("unknown comparator %q for column %q (available: %s)", name, column, strings.Join(r.Names(), ", ")),
			ErrInvalidLookup,
		)
	}
	return c, column, nil
}
