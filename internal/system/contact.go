package system

import (
	"time"

	"github.com/kagami-vn/engine/internal/component"
	"github.com/kagami-vn/engine/internal/core/ecs"
	"github.com/kagami-vn/engine/internal/core/message"
	"github.com/kagami-vn/engine/internal/core/spatial"
	coresys "github.com/kagami-vn/engine/internal/core/system"
	"github.com/kagami-vn/engine/internal/world"
)

// ContactSystem rebuilds a quad tree over every unit with Bounds each frame
// and unicasts a Contact to both sides of every overlapping pair.
// Phase 2 (PostUpdate).
type ContactSystem struct {
	world      *world.World
	transforms ecs.Pools[component.Transform]
	bounds     ecs.Pools[component.Bounds]
	region     spatial.AABB
	tree       *spatial.QuadTree
	entries    []spatial.Entry
	kind       message.TypeID
	pairs      int
}

// NewContactSystem indexes units inside region. Units outside it still
// collide, they just are not partitioned.
func NewContactSystem(w *world.World, region spatial.AABB) *ContactSystem {
	return &ContactSystem{
		world:      w,
		transforms: world.Pools[component.Transform](w),
		bounds:     world.Pools[component.Bounds](w),
		region:     region,
		kind:       message.Register[component.Contact](w.Messages().Types()),
	}
}

func (s *ContactSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *ContactSystem) Kind() message.TypeID { return s.kind }

// Pairs is the number of overlapping pairs found by the last update.
func (s *ContactSystem) Pairs() int { return s.pairs }

// Tree is the index built by the last update.
func (s *ContactSystem) Tree() *spatial.QuadTree { return s.tree }

func (s *ContactSystem) Update(_ time.Duration) {
	s.entries = s.entries[:0]
	ecs.Each2(s.transforms.Active(), s.bounds.Active(),
		func(id ecs.EntityID, t *component.Transform, b *component.Bounds) {
			s.entries = append(s.entries, spatial.Entry{ID: id, Box: b.Box(*t)})
		})

	if s.tree != nil {
		s.tree.Destroy()
	}
	s.tree = spatial.New(s.region, s.entries)

	msgs := s.world.Messages()
	s.pairs = 0
	for _, e := range s.entries {
		hits, _ := s.tree.QueryEntity(e.ID)
		for _, other := range hits {
			if other == e.ID {
				continue
			}
			if e.ID < other {
				s.pairs++
			}
			msgs.Unicast(component.Contact{
				Header: message.NewHeader(other, s.kind),
				Other:  other,
			}, e.ID)
		}
	}
}
