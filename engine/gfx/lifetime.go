package gfx

// Lifetime guards backend objects acquired on BackendReady and released on
// ShuttingDown. The zero value is released.
type Lifetime struct {
	Component string
	live      bool
	acquired  int
}

// Acquire marks the objects live. It fails if they already are.
func (l *Lifetime) Acquire() error {
	if l.live {
		return &LifecycleError{
			Component: l.Component,
			Event:     "BackendReady",
			Detail:    "backend objects are still live; ShuttingDown must be received first",
		}
	}
	l.live = true
	l.acquired++
	return nil
}

// Release marks the objects released and reports whether the caller must
// delete them. Releasing twice is a no-op.
func (l *Lifetime) Release() bool {
	if !l.live {
		return false
	}
	l.live = false
	return true
}

func (l *Lifetime) Live() bool { return l.live }

// Acquisitions counts successful Acquire calls.
func (l *Lifetime) Acquisitions() int { return l.acquired }
