package director

// Scenario is the timeline of a rendered video: one entry per scene.
type Scenario struct {
	Version string          `yaml:"version"`
	Scenes  []SceneTimeline `yaml:"scenes"`
}

// SceneTimeline is the recorded steps of one scene plus optional camera
// keyframes applied when the scene is rendered.
type SceneTimeline struct {
	Name     string     `yaml:"name"`
	Title    string     `yaml:"title,omitempty"`
	FPS      int        `yaml:"fps"`
	Duration float64    `yaml:"duration"` // seconds
	Frames   int        `yaml:"frames"`
	Steps    []Step     `yaml:"steps"`
	Camera   []Keyframe `yaml:"camera,omitempty"`
}

// Step is one Play or Wait of a scene.
type Step struct {
	Index      int      `yaml:"index"`
	Kind       string   `yaml:"kind"`  // "play" or "wait"
	Start      float64  `yaml:"start"` // seconds from scene start
	Duration   float64  `yaml:"duration"`
	Frames     int      `yaml:"frames"`
	Animations []string `yaml:"animations,omitempty"`
}

// End returns the time the step finishes.
func (s Step) End() float64 { return s.Start + s.Duration }

// Keyframe is a camera position at a moment of a scene, in world units.
type Keyframe struct {
	Time   float64 `yaml:"time"`  // seconds from scene start
	Focus  string  `yaml:"focus"` // description of the focus region
	Center Point   `yaml:"center"`
	Zoom   float64 `yaml:"zoom"` // 1.0 = whole frame
}

// Point is a world position.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Region is an area of the world the camera can focus on.
type Region struct {
	Name       string
	MinX, MinY float64
	MaxX, MaxY float64
}

// Center returns the middle of the region.
func (r Region) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}
