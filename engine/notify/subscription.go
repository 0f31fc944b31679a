package notify

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id       uint64
	name     string
	topic    string
	bus      *Bus
	disposed bool
}

// ID is unique within the bus that issued the subscription.
func (s *Subscription) ID() uint64    { return s.id }
func (s *Subscription) Name() string  { return s.name }
func (s *Subscription) Topic() string { return s.topic }

func (s *Subscription) Disposed() bool { return s.disposed }

// Dispose unsubscribes. Disposing twice is a no-op.
func (s *Subscription) Dispose() {
	if s == nil || s.disposed {
		return
	}
	s.disposed = true
	s.bus.remove(s)
}

// Group disposes several subscriptions together.
type Group []*Subscription

func (g *Group) Add(s ...*Subscription) { *g = append(*g, s...) }

func (g *Group) Dispose() {
	for _, s := range *g {
		s.Dispose()
	}
	*g = nil
}
