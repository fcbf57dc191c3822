package spatial

import "github.com/kagami-vn/engine/internal/core/ecs"

const (
	DefaultMaxObjects = 5
	DefaultMaxDepth   = 5
)

// Entry pairs an entity with its bounding box.
type Entry struct {
	ID  ecs.EntityID
	Box AABB
}

// Option configures a QuadTree.
type Option func(*config)

type config struct {
	maxObjects int
	maxDepth   int
}

func WithMaxObjects(n int) Option { return func(c *config) { c.maxObjects = n } }
func WithMaxDepth(n int) Option   { return func(c *config) { c.maxDepth = n } }

// QuadTree partitions a region into quadrants once a node holds more than
// maxObjects entries. Each entry lives in the deepest node whose region fully
// contains its box; boxes straddling a quadrant border stay in the parent.
// The tree is rebuilt wholesale when positions go stale, not rebalanced.
// Not safe for concurrent mutation.
type QuadTree struct {
	root *node
	cfg  config
	size int
}

// quadrant order: NE, NW, SW, SE
type node struct {
	region   AABB
	depth    int
	entries  []Entry
	children *[4]node
}

// New builds a tree over region from entries.
func New(region AABB, entries []Entry, opts ...Option) *QuadTree {
	cfg := config{maxObjects: DefaultMaxObjects, maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		o(&cfg)
	}
	t := &QuadTree{cfg: cfg, size: len(entries)}
	own := make([]Entry, len(entries))
	copy(own, entries)
	t.root = &node{region: region, entries: own}
	if len(own) > cfg.maxObjects && cfg.maxDepth > 0 {
		t.root.split(&t.cfg)
	}
	return t
}

func (n *node) split(cfg *config) {
	dx := n.region.HalfW * 0.5
	dy := n.region.HalfH * 0.5
	c := n.region.Center
	n.children = &[4]node{
		{region: NewAABB(Vec2{c.X + dx, c.Y + dy}, dx, dy), depth: n.depth + 1},
		{region: NewAABB(Vec2{c.X - dx, c.Y + dy}, dx, dy), depth: n.depth + 1},
		{region: NewAABB(Vec2{c.X - dx, c.Y - dy}, dx, dy), depth: n.depth + 1},
		{region: NewAABB(Vec2{c.X + dx, c.Y - dy}, dx, dy), depth: n.depth + 1},
	}
	kept := n.entries[:0]
	for _, e := range n.entries {
		if q := n.quadrantFor(e.Box); q >= 0 {
			n.children[q].entries = append(n.children[q].entries, e)
		} else {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(n.entries); i++ {
		n.entries[i] = Entry{}
	}
	n.entries = kept
	for i := range n.children {
		ch := &n.children[i]
		if len(ch.entries) > cfg.maxObjects && ch.depth < cfg.maxDepth {
			ch.split(cfg)
		}
	}
}

// quadrantFor returns the child fully containing box, or -1.
func (n *node) quadrantFor(box AABB) int {
	for i := range n.children {
		if n.children[i].region.Contains(box) {
			return i
		}
	}
	return -1
}

// Insert adds an entry, descending to the deepest containing node and
// splitting on overflow.
func (t *QuadTree) Insert(id ecs.EntityID, box AABB) {
	t.size++
	n := t.root
	for n.children != nil {
		q := n.quadrantFor(box)
		if q < 0 {
			break
		}
		n = &n.children[q]
	}
	n.entries = append(n.entries, Entry{ID: id, Box: box})
	if n.children == nil && len(n.entries) > t.cfg.maxObjects && n.depth < t.cfg.maxDepth {
		n.split(&t.cfg)
	}
}

// Candidates returns every entity stored in a node whose region overlaps
// region. It can include entities whose own box misses region.
func (t *QuadTree) Candidates(region AABB) []ecs.EntityID {
	var out []ecs.EntityID
	t.root.walk(region, func(e Entry) { out = append(out, e.ID) })
	return out
}

// Query returns every entity whose box intersects region.
func (t *QuadTree) Query(region AABB) []ecs.EntityID {
	var out []ecs.EntityID
	t.root.walk(region, func(e Entry) {
		if e.Box.Intersects(region) {
			out = append(out, e.ID)
		}
	})
	return out
}

// QueryEntity looks up id's stored box and queries with it, so the result
// includes id itself. It reports false if id is not in the tree.
func (t *QuadTree) QueryEntity(id ecs.EntityID) ([]ecs.EntityID, bool) {
	box, ok := t.root.find(id)
	if !ok {
		return nil, false
	}
	return t.Query(box), true
}

// Box returns the stored box of id.
func (t *QuadTree) Box(id ecs.EntityID) (AABB, bool) {
	return t.root.find(id)
}

// walk visits entries of every node overlapping region. The root is always
// visited since boxes outside the tree region are kept there.
func (n *node) walk(region AABB, fn func(Entry)) {
	if n.depth > 0 && !n.region.Intersects(region) {
		return
	}
	for _, e := range n.entries {
		fn(e)
	}
	if n.children != nil {
		for i := range n.children {
			n.children[i].walk(region, fn)
		}
	}
}

func (n *node) find(id ecs.EntityID) (AABB, bool) {
	for _, e := range n.entries {
		if e.ID == id {
			return e.Box, true
		}
	}
	if n.children != nil {
		for i := range n.children {
			if box, ok := n.children[i].find(id); ok {
				return box, true
			}
		}
	}
	return AABB{}, false
}

// Destroy drops every child and entry; the root region is kept so the tree
// can be refilled with Insert.
func (t *QuadTree) Destroy() {
	t.root.entries = nil
	t.root.children = nil
	t.size = 0
}

// Len is the number of stored entries.
func (t *QuadTree) Len() int { return t.size }

func (t *QuadTree) Region() AABB { return t.root.region }

// Depth returns the deepest level that has been split into.
func (t *QuadTree) Depth() int { return t.root.maxDepth() }

func (n *node) maxDepth() int {
	d := n.depth
	if n.children != nil {
		for i := range n.children {
			if cd := n.children[i].maxDepth(); cd > d {
				d = cd
			}
		}
	}
	return d
}

// depthOf returns the depth of the node holding id, or -1.
func (n *node) depthOf(id ecs.EntityID) int {
	for _, e := range n.entries {
		if e.ID == id {
			return n.depth
		}
	}
	if n.children != nil {
		for i := range n.children {
			if d := n.children[i].depthOf(id); d >= 0 {
				return d
			}
		}
	}
	return -1
}
