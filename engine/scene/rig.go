package scene

import (
	"errors"
	"fmt"
)

var ErrNoCamera = errors.New("no camera")

// CameraRig holds the scene's cameras. Once it has any camera exactly one
// of them is active.
type CameraRig struct {
	cams   []*Camera
	active int
}

func (r *CameraRig) Len() int         { return len(r.cams) }
func (r *CameraRig) All() []*Camera   { return r.cams }
func (r *CameraRig) ActiveIndex() int { return r.active }
func (r *CameraRig) At(i int) *Camera { return r.cams[i] }

// Add appends c. The first camera added becomes active; later ones start
// inactive unless activate is set.
func (r *CameraRig) Add(c *Camera, activate bool) {
	r.cams = append(r.cams, c)
	if len(r.cams) == 1 || activate {
		_ = r.Activate(len(r.cams) - 1)
		return
	}
	c.active = false
}

// Activate makes camera i the only active one.
func (r *CameraRig) Activate(i int) error {
	if i < 0 || i >= len(r.cams) {
		return fmt.Errorf("camera %d of %d: %w", i, len(r.cams), ErrNoCamera)
	}
	for j, c := range r.cams {
		c.active = j == i
	}
	r.active = i
	return nil
}

// Active returns the active camera, or nil when the rig is empty.
func (r *CameraRig) Active() *Camera {
	if len(r.cams) == 0 {
		return nil
	}
	return r.cams[r.active]
}

// Resize rebuilds every camera's projection for the new aspect ratio.
func (r *CameraRig) Resize(aspect float32) {
	for _, c := range r.cams {
		c.UpdateProjectionMatrix(aspect)
	}
}
