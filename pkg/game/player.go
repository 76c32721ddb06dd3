package game

import (
	"image"
	"math"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/loaders"
	"github.com/df07/go-surface-raycaster/pkg/renderer"
)

// Player defaults
const (
	DefaultEyeHeight        = 1.2
	DefaultSpeed            = 2.5
	DefaultPitch            = 7.0
	DefaultYaw              = 93.6
	DefaultFOV              = 80.0
	DefaultViewDistance     = 50.0
	DefaultMouseSensitivity = 0.05

	// MaxPitch bounds looking up and down, in degrees
	MaxPitch = 35.0

	// footprint is the side of the player's collision square in centi-units
	footprint = 20
)

// Input is the state of the controls for one frame
type Input struct {
	Forward  bool    `json:"forward"`
	Backward bool    `json:"backward"`
	Left     bool    `json:"left"`
	Right    bool    `json:"right"`
	MouseDX  float64 `json:"mouseDx"`
	MouseDY  float64 `json:"mouseDy"`
}

// Player is the first-person viewpoint walking through a room.
// Angles are in degrees.
type Player struct {
	Position         core.Vec3 // Feet
	Height           float64   // Eye height above Position
	Speed            float64   // Units per second
	Pitch            float64
	Yaw              float64
	FOV              float64
	ViewDistance     float64
	MouseSensitivity float64
}

// NewPlayer returns a player at the default starting pose
func NewPlayer() *Player {
	return &Player{
		Position:         core.NewVec3(-0.01, 0, 0.1),
		Height:           DefaultEyeHeight,
		Speed:            DefaultSpeed,
		Pitch:            DefaultPitch,
		Yaw:              DefaultYaw,
		FOV:              DefaultFOV,
		ViewDistance:     DefaultViewDistance,
		MouseSensitivity: DefaultMouseSensitivity,
	}
}

// Apply overrides the pose with the values set in spec
func (p *Player) Apply(spec loaders.PlayerSpec) {
	if spec.Position != nil {
		p.Position = spec.Position.Vec()
	}
	if spec.Yaw != nil {
		p.Yaw = *spec.Yaw
	}
	if spec.Pitch != nil {
		p.Pitch = *spec.Pitch
	}
	p.Look(0, 0)
}

// Camera returns the camera at the player's eyes
func (p *Player) Camera() renderer.Camera {
	return renderer.Camera{
		Position:     p.Position.Add(core.NewVec3(0, p.Height, 0)),
		AngleX:       p.Pitch,
		AngleY:       p.Yaw,
		FOV:          p.FOV,
		ViewDistance: p.ViewDistance,
	}
}

// Look turns the view by a mouse movement. Pitch is clamped to MaxPitch and
// yaw wraps into [0, 360).
func (p *Player) Look(dx, dy float64) {
	p.Pitch = math.Max(-MaxPitch, math.Min(MaxPitch, p.Pitch-dy*p.MouseSensitivity))
	yaw := math.Mod(p.Yaw-dx*p.MouseSensitivity, 360)
	if yaw < 0 {
		yaw += 360
	}
	p.Yaw = yaw
}

// Footprint returns the collision square of the player on the floor plane
// in centi-units
func (p *Player) Footprint() image.Rectangle {
	x := int(p.Position.X * 100)
	z := int(p.Position.Z * 100)
	return image.Rect(x, z, x+footprint, z+footprint)
}

// Colliding reports whether the footprint overlaps any obstacle
func (p *Player) Colliding(obstacles []image.Rectangle) bool {
	fp := p.Footprint()
	for _, o := range obstacles {
		if fp.Overlaps(o) {
			return true
		}
	}
	return false
}

// Move applies one frame of input. Forward/backward and strafing each move
// along z then x; an axis that ends up colliding snaps back to where the
// frame started.
func (p *Player) Move(in Input, delta float64, obstacles []image.Rectangle) {
	p.Look(in.MouseDX, in.MouseDY)

	startX, startZ := p.Position.X, p.Position.Z
	yaw := core.Radians(p.Yaw)

	step := func(angle, sign float64) {
		p.Position.Z += sign * delta * p.Speed * math.Sin(angle)
		if p.Colliding(obstacles) {
			p.Position.Z = startZ
		}
		p.Position.X += sign * delta * p.Speed * math.Cos(angle)
		if p.Colliding(obstacles) {
			p.Position.X = startX
		}
	}

	switch {
	case in.Forward:
		step(yaw, 1)
	case in.Backward:
		step(yaw, -1)
	}

	switch {
	case in.Left:
		step(yaw+math.Pi/2, 1)
	case in.Right:
		step(yaw+math.Pi/2, -1)
	}
}
