package core

// Input tracks key state and pointer position from events.
type Input struct {
	keys           map[Key]bool
	mouseX, mouseY float64
	scroll         float64
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		in.keys[e.Key] = e.Down
	case EventMouseMove:
		in.mouseX, in.mouseY = e.X, e.Y
	case EventScroll:
		in.scroll += e.Yoff
	}
}

func (in *Input) IsKeyDown(k Key) bool      { return in.keys[k] }
func (in *Input) Mouse() (float64, float64) { return in.mouseX, in.mouseY }

// Axis returns -1, 0 or 1 from a pair of keys.
func (in *Input) Axis(neg, pos Key) float32 {
	var v float32
	if in.keys[neg] {
		v--
	}
	if in.keys[pos] {
		v++
	}
	return v
}

// TakeScroll returns the vertical scroll accumulated since the last call.
func (in *Input) TakeScroll() float64 {
	s := in.scroll
	in.scroll = 0
	return s
}
