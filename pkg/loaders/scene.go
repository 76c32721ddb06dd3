package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/pixel"
	"gopkg.in/yaml.v3"
)

// SceneFile is the YAML description of a room: its textures, the furniture
// built from them, where the player starts and how frames are rendered.
//
//	name: Bedroom
//	textures:
//	  wall: {solid: "#c8b89a"}
//	  floor: {checker: {width: 64, height: 64, cell: 8, a: "#333", b: "#777"}}
//	furniture:
//	  - name: walls
//	    surfaces:
//	      - {texture: wall, a: [-1, 2, 2], b: [1, 0, 2]}
type SceneFile struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Group       string                 `yaml:"group"`
	Variant     string                 `yaml:"variant"`
	Textures    map[string]TextureSpec `yaml:"textures"`
	Player      PlayerSpec             `yaml:"player"`
	Render      RenderSpec             `yaml:"render"`
	Furniture   []FurnitureSpec        `yaml:"furniture"`
	Collisions  []RectSpec             `yaml:"collisions"`

	// Dir resolves relative texture files; set by LoadScene
	Dir string `yaml:"-"`
}

// TextureSpec names exactly one texture source
type TextureSpec struct {
	File    string       `yaml:"file"`
	Solid   string       `yaml:"solid"`
	Checker *CheckerSpec `yaml:"checker"`
}

// CheckerSpec describes a procedural two-color checkerboard
type CheckerSpec struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Cell   int    `yaml:"cell"`
	A      string `yaml:"a"`
	B      string `yaml:"b"`
}

// FurnitureSpec groups the surfaces of one piece of furniture
type FurnitureSpec struct {
	Name     string        `yaml:"name"`
	Surfaces []SurfaceSpec `yaml:"surfaces"`
}

// SurfaceSpec places a texture in the room. Dynamic surfaces are registered
// again before every frame and dropped after it.
type SurfaceSpec struct {
	Texture   string           `yaml:"texture"`
	A         Vec3             `yaml:"a"`
	B         Vec3             `yaml:"b"`
	C         *Vec3            `yaml:"c"`
	Dynamic   bool             `yaml:"dynamic"`
	Oscillate *OscillationSpec `yaml:"oscillate"`
}

// OscillationSpec moves the corners of a dynamic surface by
// direction * amplitude * sin(phase + speed*frame). Axis is the direction
// of every corner that has no direction of its own.
type OscillationSpec struct {
	Axis      *Vec3   `yaml:"axis"`
	A         *Vec3   `yaml:"a"`
	B         *Vec3   `yaml:"b"`
	C         *Vec3   `yaml:"c"`
	Amplitude float64 `yaml:"amplitude"`
	Speed     float64 `yaml:"speed"`
	Phase     float64 `yaml:"phase"`
}

// PlayerSpec overrides the player's starting pose
type PlayerSpec struct {
	Position *Vec3    `yaml:"position"`
	Yaw      *float64 `yaml:"yaw"`
	Pitch    *float64 `yaml:"pitch"`
}

// RenderSpec holds per-scene render defaults; zero values keep the
// caller's defaults
type RenderSpec struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Step         int     `yaml:"step"`
	Workers      int     `yaml:"workers"`
	FOV          float64 `yaml:"fov"`
	ViewDistance float64 `yaml:"view_distance"`
}

// RectSpec is a collision rectangle on the floor plane in centi-units
// (x and z multiplied by 100)
type RectSpec struct {
	X int `yaml:"x"`
	Z int `yaml:"z"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Rect returns the rectangle as an image.Rectangle with X on the x axis and
// Z on the y axis
func (r RectSpec) Rect() image.Rectangle {
	return image.Rect(r.X, r.Z, r.X+r.W, r.Z+r.H)
}

// Vec3 is a point written as a three element YAML sequence
type Vec3 core.Vec3

// UnmarshalYAML decodes [x, y, z]
func (v *Vec3) UnmarshalYAML(node *yaml.Node) error {
	var xyz []float64
	if err := node.Decode(&xyz); err != nil {
		return err
	}
	if len(xyz) != 3 {
		return fmt.Errorf("line %d: expected [x, y, z], got %d values", node.Line, len(xyz))
	}
	*v = Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return nil
}

// MarshalYAML encodes the point as [x, y, z]
func (v Vec3) MarshalYAML() (interface{}, error) {
	return []float64{v.X, v.Y, v.Z}, nil
}

// Vec returns the point as a core.Vec3
func (v Vec3) Vec() core.Vec3 {
	return core.Vec3(v)
}

// LoadScene reads and validates a scene file
func LoadScene(filename string) (*SceneFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	sf, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", filename, err)
	}
	sf.Dir = filepath.Dir(filename)
	return sf, nil
}

// ParseScene decodes and validates a scene from YAML. Unknown keys are
// rejected.
func ParseScene(data []byte) (*SceneFile, error) {
	var sf SceneFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

// Validate checks texture sources and references
func (sf *SceneFile) Validate() error {
	for _, name := range sf.TextureNames() {
		tex := sf.Textures[name]
		sources := 0
		if tex.File != "" {
			sources++
		}
		if tex.Solid != "" {
			sources++
		}
		if tex.Checker != nil {
			sources++
		}
		if sources != 1 {
			return fmt.Errorf("%w: texture %q must have exactly one of file, solid or checker", core.ErrInvalidArgument, name)
		}
	}

	for _, f := range sf.Furniture {
		for i, s := range f.Surfaces {
			if _, ok := sf.Textures[s.Texture]; !ok {
				return fmt.Errorf("%w: furniture %q surface %d uses unknown texture %q",
					core.ErrInvalidArgument, f.Name, i, s.Texture)
			}
			if s.Oscillate != nil && !s.Dynamic {
				return fmt.Errorf("%w: furniture %q surface %d oscillates but is not dynamic",
					core.ErrInvalidArgument, f.Name, i)
			}
		}
	}

	r := sf.Render
	if r.Width < 0 || r.Height < 0 || r.Step < 0 || r.Workers < 0 || r.FOV < 0 || r.ViewDistance < 0 {
		return fmt.Errorf("%w: render settings must not be negative", core.ErrInvalidArgument)
	}
	return nil
}

// TextureNames returns the texture names in sorted order
func (sf *SceneFile) TextureNames() []string {
	names := make([]string, 0, len(sf.Textures))
	for name := range sf.Textures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadTextures builds every texture of the scene. File textures are resolved
// against Dir.
func (sf *SceneFile) LoadTextures() (map[string]*pixel.Shared, error) {
	textures := make(map[string]*pixel.Shared, len(sf.Textures))
	for _, name := range sf.TextureNames() {
		tex, err := sf.loadTexture(sf.Textures[name])
		if err != nil {
			return nil, fmt.Errorf("failed to load texture %q: %w", name, err)
		}
		textures[name] = tex
	}
	return textures, nil
}

func (sf *SceneFile) loadTexture(spec TextureSpec) (*pixel.Shared, error) {
	switch {
	case spec.File != "":
		path := spec.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(sf.Dir, path)
		}
		img, err := LoadImage(path)
		if err != nil {
			return nil, err
		}
		return pixel.NewShared(img), nil

	case spec.Solid != "":
		c, err := pixel.ParseHex(spec.Solid)
		if err != nil {
			return nil, err
		}
		return pixel.NewSolid(1, 1, c)

	default:
		a, err := pixel.ParseHex(spec.Checker.A)
		if err != nil {
			return nil, err
		}
		b, err := pixel.ParseHex(spec.Checker.B)
		if err != nil {
			return nil, err
		}
		return pixel.NewChecker(spec.Checker.Width, spec.Checker.Height, spec.Checker.Cell, a, b)
	}
}
