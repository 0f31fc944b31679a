package scene

// Controller2D pans and zooms a camera from input axes.
type Controller2D struct {
	MoveSpeed float32 // world units per second at zoom 1
	ZoomSpeed float32 // factor per second
	Camera    *Camera2D
}

func NewController2D(cam *Camera2D) *Controller2D {
	return &Controller2D{MoveSpeed: 300, ZoomSpeed: 2, Camera: cam}
}

// Update applies one tick. moveX and moveY are in [-1, 1]; zoom is +1 to
// zoom in, -1 to zoom out.
func (cc *Controller2D) Update(moveX, moveY, zoom, dt float32) {
	speed := cc.MoveSpeed * dt / cc.Camera.Zoom
	cc.Camera.Move(moveX*speed, moveY*speed)
	switch {
	case zoom > 0:
		cc.Camera.SetZoom(cc.Camera.Zoom * (1 + (cc.ZoomSpeed-1)*dt))
	case zoom < 0:
		cc.Camera.SetZoom(cc.Camera.Zoom / (1 + (cc.ZoomSpeed-1)*dt))
	}
}
