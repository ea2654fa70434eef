package hamt

import "github.com/npillmayer/pcoll/persistent/internal/arena"

// Default thresholds for switching between bitmap nodes and array nodes.
const (
	defaultPromoteAt = 16
	defaultDemoteAt  = 8
)

type props struct {
	hasher    any // Hasher[K], checked when a map is created
	promoteAt int
	demoteAt  int
}

// config is shared by a map, the maps derived from it and its transients.
type config[K comparable] struct {
	hasher    Hasher[K]
	promoteAt int // bitmap node holding this many entries is promoted on insert
	demoteAt  int // array node dropping to this many children is packed
}

func (c *config[K]) hash(key K) uint32 {
	return c.hasher.Hash(key)
}

func defaultConfig[K comparable]() *config[K] {
	return &config[K]{
		hasher:    ComparableHasher[K]{},
		promoteAt: defaultPromoteAt,
		demoteAt:  defaultDemoteAt,
	}
}

func makeConfig[K comparable](opts []Option) *config[K] {
	if len(opts) == 0 {
		return defaultConfig[K]()
	}
	p := props{promoteAt: defaultPromoteAt, demoteAt: defaultDemoteAt}
	for _, option := range opts {
		p = option.config(p)
	}
	if p.promoteAt < 1 {
		p.promoteAt = 1
	} else if p.promoteAt > arena.Width-1 {
		p.promoteAt = arena.Width - 1
	}
	if p.demoteAt < 0 {
		p.demoteAt = 0
	} else if p.demoteAt >= p.promoteAt {
		p.demoteAt = p.promoteAt - 1
	}
	c := &config[K]{promoteAt: p.promoteAt, demoteAt: p.demoteAt}
	if p.hasher == nil {
		c.hasher = ComparableHasher[K]{}
	} else {
		h, ok := p.hasher.(Hasher[K])
		assertThat(ok, "hasher of type %T does not hash keys of type %T", p.hasher, *new(K))
		c.hasher = h
	}
	return c
}

// Option is a type to help initializing maps at creation time.
type Option struct {
	config func(props) props
}

// WithHasher is an option to set the hasher for the keys of a map. The hasher's
// key type has to match the map's key type.
//
// Use it like this:
//
//	m := hamt.Empty[string, int](hamt.WithHasher[string](hamt.StringHasher{}))
func WithHasher[K comparable](h Hasher[K]) Option {
	conf := func(p props) props {
		p.hasher = h
		return p
	}
	return Option{config: conf}
}

// PromoteAt is an option to set the number of entries a bitmap node may hold
// before it is promoted to an array node. n is clamped to [1, 31].
func PromoteAt(n int) Option {
	conf := func(p props) props {
		p.promoteAt = n
		return p
	}
	return Option{config: conf}
}

// DemoteAt is an option to set the number of children at which an array node
// is packed into a bitmap node. n is clamped to [0, promote threshold).
func DemoteAt(n int) Option {
	conf := func(p props) props {
		p.demoteAt = n
		return p
	}
	return Option{config: conf}
}
