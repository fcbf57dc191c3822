package message

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kagami-vn/engine/internal/core/ecs"
	"github.com/kagami-vn/engine/internal/core/worker"
)

// queue holds one generation of pending messages, per delivery mode.
type queue struct {
	unicast     []Message
	unicastTo   []ecs.EntityID
	multicast   []Message
	multicastTo [][]ecs.EntityID
	broadcast   []Message
}

func (q *queue) len() int {
	return len(q.unicast) + len(q.multicast) + len(q.broadcast)
}

func (q *queue) reset() {
	clear(q.unicast)
	clear(q.multicast)
	clear(q.broadcast)
	q.unicast = q.unicast[:0]
	q.unicastTo = q.unicastTo[:0]
	q.multicast = q.multicast[:0]
	q.multicastTo = q.multicastTo[:0]
	q.broadcast = q.broadcast[:0]
}

// Manager is a double-buffered message bus. Messages queued during frame N go
// into the inactive generation, become active at the Swap ending frame N, are
// delivered into inboxes by SendAll in frame N+1, and vanish at the Swap
// ending frame N+1.
//
// Only subscribed entities have an inbox. Targets without one drop the
// message.
type Manager struct {
	mu      sync.Mutex // guards queues; inbox has its own lock
	queues  *ecs.DoubleBuffered[*queue]
	inbox   *ecs.Pool[[]Message]
	types   *TypeRegistry
	dropped atomic.Uint64
	log     *zap.Logger
}

func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		queues: ecs.NewDoubleBuffered(&queue{}, &queue{}),
		inbox:  ecs.NewPool[[]Message](),
		types:  NewTypeRegistry(),
		log:    log,
	}
}

// Types returns the kind registry shared by every sender on this bus.
func (m *Manager) Types() *TypeRegistry { return m.types }

// Subscribe gives id an inbox. Subscribing twice keeps the current inbox.
func (m *Manager) Subscribe(id ecs.EntityID) {
	g := m.inbox.Lock()
	defer g.Unlock()
	if g.Get(id) == nil {
		g.Add(id, nil)
	}
}

// Unsubscribe drops id's inbox; it receives nothing afterwards.
func (m *Manager) Unsubscribe(id ecs.EntityID) {
	m.inbox.Remove(id)
}

func (m *Manager) Subscribed(id ecs.EntityID) bool {
	return m.inbox.Has(id)
}

// Subscribers is the number of entities with an inbox.
func (m *Manager) Subscribers() int { return m.inbox.Len() }

// Unicast queues msg for a single target.
func (m *Manager) Unicast(msg Message, target ecs.EntityID) {
	m.mu.Lock()
	q := m.queues.Inactive()
	q.unicast = append(q.unicast, msg)
	q.unicastTo = append(q.unicastTo, target)
	m.mu.Unlock()
}

// Multicast queues msg for each of targets. The slice is copied.
func (m *Manager) Multicast(msg Message, targets []ecs.EntityID) {
	to := make([]ecs.EntityID, len(targets))
	copy(to, targets)
	m.mu.Lock()
	q := m.queues.Inactive()
	q.multicast = append(q.multicast, msg)
	q.multicastTo = append(q.multicastTo, to)
	m.mu.Unlock()
}

// Broadcast queues msg for every subscriber at delivery time.
func (m *Manager) Broadcast(msg Message) {
	m.mu.Lock()
	q := m.queues.Inactive()
	q.broadcast = append(q.broadcast, msg)
	m.mu.Unlock()
}

// Pending is the number of messages queued for the next delivery round.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queues.Inactive().len()
}

// Dropped counts deliveries to targets without an inbox.
func (m *Manager) Dropped() uint64 { return m.dropped.Load() }

// Inbox returns a copy of the messages delivered to id by the last SendAll.
// It reports false when id is not subscribed.
func (m *Manager) Inbox(id ecs.EntityID) ([]Message, bool) {
	list, ok := m.inbox.Get(id)
	if !ok {
		return nil, false
	}
	out := make([]Message, len(list))
	copy(out, list)
	return out, true
}

// SendAll fans the active generation out into inboxes. Call once per frame
// before systems run.
func (m *Manager) SendAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.queues.Active()
	m.deliverUnicast(q)
	m.deliverMulticast(q)
	m.deliverBroadcast(q)
}

// SendAllParallel runs the three delivery modes on wp and waits for them.
// Within one inbox, messages of different modes may interleave in any order.
func (m *Manager) SendAllParallel(wp *worker.Pool) {
	if wp == nil {
		m.SendAll()
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.queues.Active()
	futures := []*worker.Future[struct{}]{
		worker.Submit(wp, func() (struct{}, error) { m.deliverUnicast(q); return struct{}{}, nil }),
		worker.Submit(wp, func() (struct{}, error) { m.deliverMulticast(q); return struct{}{}, nil }),
		worker.Submit(wp, func() (struct{}, error) { m.deliverBroadcast(q); return struct{}{}, nil }),
	}
	for _, f := range futures {
		if _, err := f.Wait(); err != nil {
			m.log.Error("message delivery failed", zap.Error(err))
		}
	}
}

func (m *Manager) deliver(msg Message, target ecs.EntityID) {
	ok := m.inbox.Update(target, func(list *[]Message) {
		*list = append(*list, msg)
	})
	if !ok {
		m.dropped.Add(1)
		m.log.Debug("message dropped, target not subscribed",
			zap.Uint64("target", uint64(target)),
			zap.String("kind", m.types.Name(msg.Type())))
	}
}

func (m *Manager) deliverUnicast(q *queue) {
	for i, msg := range q.unicast {
		m.deliver(msg, q.unicastTo[i])
	}
}

func (m *Manager) deliverMulticast(q *queue) {
	for i, msg := range q.multicast {
		for _, target := range q.multicastTo[i] {
			m.deliver(msg, target)
		}
	}
}

func (m *Manager) deliverBroadcast(q *queue) {
	if len(q.broadcast) == 0 {
		return
	}
	m.inbox.Each(func(_ ecs.EntityID, list *[]Message) {
		*list = append(*list, q.broadcast...)
	})
}

// Swap empties every inbox, discards the delivered generation and flips.
// Call once per frame after systems run.
func (m *Manager) Swap() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbox.Each(func(_ ecs.EntityID, list *[]Message) {
		*list = nil
	})
	m.queues.Active().reset()
	m.queues.Swap()
}
