// Package profiler records nested timing scopes into a ring buffer and
// exports them in the speedscope evented format. Until Init is called every
// scope is a no-op.
package profiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNoEvents is returned by exports when nothing has been recorded.
var ErrNoEvents = errors.New("profiler: no events")

// Init enables recording with room for capacity scope events (two per scope).
// Calling it again discards what was recorded.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 16
	}
	evrb.init(capacity)
}

// Enabled reports whether Init has been called.
func Enabled() bool { return evrb.ready.Load() }

// Start begins a scope and returns the func that ends it.
func Start(name string) func() {
	if !evrb.ready.Load() {
		return nop
	}
	fid := intern(name)
	now := time.Now().UnixNano()
	evrb.push(evEntry{AtNS: now, FrameID: fid, Open: true})
	return func() {
		end := time.Now().UnixNano()
		if end < now {
			end = now
		}
		evrb.push(evEntry{AtNS: end, FrameID: fid, Open: false})
	}
}

func nop() {}

// Dump writes the recorded scopes to path as a speedscope file.
func Dump(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := WriteSpeedscope(f, "grove2d"); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// WriteSpeedscope encodes the recorded scopes as one evented profile.
func WriteSpeedscope(w io.Writer, name string) error {
	doc, err := buildSpeedscope(evrb.snapshot(), snapshotFrames(), name)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// ---------- event ring ----------

type evEntry struct {
	AtNS    int64
	FrameID int
	Open    bool
}

type evRing struct {
	ready atomic.Bool
	cap   uint64
	write atomic.Uint64
	evs   []evEntry
}

func (r *evRing) init(capacity int) {
	r.ready.Store(false)
	r.cap = uint64(capacity)
	r.evs = make([]evEntry, r.cap)
	r.write.Store(0)
	r.ready.Store(true)
}

func (r *evRing) push(e evEntry) {
	i := r.write.Add(1) - 1
	r.evs[i%r.cap] = e
}

// snapshot returns the retained events in write order.
func (r *evRing) snapshot() []evEntry {
	n := r.write.Load()
	if n == 0 || !r.ready.Load() {
		return nil
	}
	start := uint64(0)
	if n > r.cap {
		start = n - r.cap
	}
	out := make([]evEntry, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.cap])
	}
	return out
}

var evrb evRing

// ---------- string interner ----------

var (
	muFrames sync.Mutex
	frames   []string
	index    = map[string]int{}
)

func intern(name string) int {
	muFrames.Lock()
	defer muFrames.Unlock()
	if id, ok := index[name]; ok {
		return id
	}
	id := len(frames)
	index[name] = id
	frames = append(frames, name)
	return id
}

func snapshotFrames() []ssFrame {
	muFrames.Lock()
	defer muFrames.Unlock()
	fs := make([]ssFrame, len(frames))
	for i, name := range frames {
		fs[i] = ssFrame{Name: name}
	}
	return fs
}

// ---------- speedscope ----------

type ssFile struct {
	Schema             string      `json:"$schema"`
	Shared             ssShared    `json:"shared"`
	Profiles           []ssProfile `json:"profiles"`
	ActiveProfileIndex int         `json:"activeProfileIndex"`
	Exporter           string      `json:"exporter,omitempty"`
	Name               string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"` // "evented"
	Name       string    `json:"name"`
	Unit       string    `json:"unit"` // "microseconds"
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // µs since the first event
	Frame int    `json:"frame"`
}

// buildSpeedscope balances the event stream: closes without a matching open
// (their open fell off the ring) are dropped and scopes still open at the
// end are closed at the last timestamp.
func buildSpeedscope(evs []evEntry, fs []ssFrame, name string) (ssFile, error) {
	if len(evs) == 0 {
		return ssFile{}, ErrNoEvents
	}

	base := evs[0].AtNS
	endUS := int64(0)
	lastUS := int64(0)
	out := make([]ssEvent, 0, len(evs)+16)
	stack := make([]int, 0, 64)

	for _, e := range evs {
		atUS := max((e.AtNS-base)/1000, lastUS)
		if e.Open {
			out = append(out, ssEvent{Type: "O", At: atUS, Frame: e.FrameID})
			stack = append(stack, e.FrameID)
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.FrameID {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: atUS, Frame: e.FrameID})
		}
		lastUS = atUS
		endUS = max(endUS, atUS)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: lastUS, Frame: stack[i]})
	}
	if len(out) == 0 {
		return ssFile{}, fmt.Errorf("%w after filtering", ErrNoEvents)
	}

	return ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: fs},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     name,
			Unit:     "microseconds",
			EndValue: endUS,
			Events:   out,
		}},
		Exporter: "grove2d-profiler",
		Name:     name + " capture",
	}, nil
}
