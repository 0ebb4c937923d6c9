// Package config handles loading and validating facet scene and render
// settings.
package config

import "github.com/taigrr/facet/pkg/math3d"

// Config holds everything needed to build and render a scene.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Camera    CameraConfig    `yaml:"camera"`
	Lights    []LightConfig   `yaml:"lights"`
	Scene     SceneConfig     `yaml:"scene"`
	Export    ExportConfig    `yaml:"export"`
	Animation AnimationConfig `yaml:"animation"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Vec3 is a point or direction written as a three element YAML list.
type Vec3 [3]float64

// Vec converts v to a math3d vector.
func (v Vec3) Vec() math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }

// VolumeConfig mirrors render.ViewVolume.
type VolumeConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	ZNear  float64 `yaml:"z_near"`
	ZFar   float64 `yaml:"z_far"`
}

// RenderConfig holds output size and pipeline switches.
type RenderConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Background      string  `yaml:"background"`
	EdgeColor       string  `yaml:"edge_color"`
	BackfaceCulling bool    `yaml:"backface_culling"`
	Shading         bool    `yaml:"shading"`
	Shadows         bool    `yaml:"shadows"`
	ShadowBias      float64 `yaml:"shadow_bias"`
	ShadowStrength  float64 `yaml:"shadow_strength"`
	Wireframe       bool    `yaml:"wireframe"`
	DrawMarkers     bool    `yaml:"draw_markers"`
	OutOfRange      string  `yaml:"out_of_range"`
	TextureFilter   string  `yaml:"texture_filter"`
}

// CameraConfig places the main camera.
type CameraConfig struct {
	Projection string       `yaml:"projection"`
	Volume     VolumeConfig `yaml:"volume"`
	Origin     Vec3         `yaml:"origin"`
	LookAt     Vec3         `yaml:"look_at"`
	Up         Vec3         `yaml:"up"`
}

// LightConfig describes one shadow-casting light.
type LightConfig struct {
	Name      string       `yaml:"name"`
	Kind      string       `yaml:"kind"`
	Origin    Vec3         `yaml:"origin"`
	LookAt    Vec3         `yaml:"look_at"`
	Volume    VolumeConfig `yaml:"volume"`
	MapWidth  int          `yaml:"map_width"`
	MapHeight int          `yaml:"map_height"`
	Intensity float64      `yaml:"intensity"`
	Color     string       `yaml:"color"`
}

// SceneConfig lists the objects to place in the world. Model, when set,
// is loaded in addition to Shapes and centred at the origin.
type SceneConfig struct {
	Model  string        `yaml:"model"`
	Shapes []ShapeConfig `yaml:"shapes"`
}

// ShapeConfig describes one object. Params holds the generator's numeric
// parameters by snake_case name, for example radius or resolution.
type ShapeConfig struct {
	Name      string             `yaml:"name"`
	Type      string             `yaml:"type"`
	Params    map[string]float64 `yaml:"params"`
	Path      string             `yaml:"path,omitempty"`
	Start     Vec3               `yaml:"start,omitempty"`
	End       Vec3               `yaml:"end,omitempty"`
	Origin    Vec3               `yaml:"origin"`
	Rotation  Vec3               `yaml:"rotation"` // degrees about X, Y, Z
	Scale     float64            `yaml:"scale,omitempty"`
	Color     string             `yaml:"color,omitempty"`
	Gradient  *GradientConfig    `yaml:"gradient,omitempty"`
	Texture   string             `yaml:"texture,omitempty"`
	Hidden    bool               `yaml:"hidden,omitempty"`
	NoShadows bool               `yaml:"no_shadows,omitempty"`
}

// GradientConfig is a two colour blend along a model-space axis.
type GradientConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Axis Vec3   `yaml:"axis"`
}

// ExportConfig controls where images are written.
type ExportConfig struct {
	Output       string `yaml:"output"`
	ShadowMaps   bool   `yaml:"shadow_maps"`
	ShadowMapDir string `yaml:"shadow_map_dir"`
	FramesDir    string `yaml:"frames_dir"`
}

// AnimationConfig describes a camera orbit rendered as a frame sequence.
type AnimationConfig struct {
	Frames    int         `yaml:"frames"`
	FPS       int         `yaml:"fps"`
	Driver    string      `yaml:"driver"` // tween or spring
	Easing    string      `yaml:"easing"`
	Duration  float64     `yaml:"duration"` // seconds, tween only
	Frequency float64     `yaml:"frequency"`
	Damping   float64     `yaml:"damping"`
	Orbit     OrbitConfig `yaml:"orbit"`
}

// OrbitConfig is a camera path around Target. Angles are in degrees.
type OrbitConfig struct {
	Target   Vec3    `yaml:"target"`
	Distance float64 `yaml:"distance"`
	YawFrom  float64 `yaml:"yaw_from"`
	YawTo    float64 `yaml:"yaw_to"`
	Pitch    float64 `yaml:"pitch"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

const defaultMapSize = 256

// Default returns a Config that renders a small lit scene.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:           160,
			Height:          120,
			Background:      "30,30,40",
			EdgeColor:       "white",
			BackfaceCulling: true,
			Shading:         true,
			Shadows:         true,
			ShadowBias:      0.005,
			ShadowStrength:  0.6,
			DrawMarkers:     false,
			OutOfRange:      "ignore",
			TextureFilter:   "bilinear",
		},
		Camera: CameraConfig{
			Projection: "perspective",
			Volume:     VolumeConfig{Width: 0.16, Height: 0.12, ZNear: 0.1, ZFar: 100},
			Origin:     Vec3{0, 2, -6},
			LookAt:     Vec3{0, 0.5, 0},
			Up:         Vec3{0, 1, 0},
		},
		Lights: []LightConfig{{
			Name:      "sun",
			Kind:      "distant",
			Origin:    Vec3{4, 8, -4},
			LookAt:    Vec3{0, 0, 0},
			Volume:    VolumeConfig{Width: 12, Height: 12, ZNear: 0.1, ZFar: 30},
			MapWidth:  defaultMapSize,
			MapHeight: defaultMapSize,
			Intensity: 1,
			Color:     "white",
		}},
		Scene: SceneConfig{
			Shapes: []ShapeConfig{
				{
					Name:     "ground",
					Type:     "plane",
					Params:   map[string]float64{"length": 10, "width": 10},
					Rotation: Vec3{90, 0, 0},
					Color:    "90,110,90",
				},
				{
					Name:   "box",
					Type:   "cube",
					Params: map[string]float64{"side": 1.5},
					Origin: Vec3{0, 0.75, 0},
					Color:  "red",
				},
				{
					Name:   "ball",
					Type:   "sphere",
					Params: map[string]float64{"radius": 0.6, "resolution": 16},
					Origin: Vec3{2, 0.6, 1},
					Gradient: &GradientConfig{
						From: "blue",
						To:   "cyan",
						Axis: Vec3{0, 1, 0},
					},
				},
			},
		},
		Export: ExportConfig{
			Output:     "facet.png",
			ShadowMaps: false,
			FramesDir:  "frames",
		},
		Animation: AnimationConfig{
			Frames:    0,
			FPS:       24,
			Driver:    "tween",
			Easing:    "in-out-sine",
			Duration:  2,
			Frequency: 4,
			Damping:   0.5,
			Orbit: OrbitConfig{
				Target:   Vec3{0, 0.5, 0},
				Distance: 6,
				YawFrom:  0,
				YawTo:    360,
				Pitch:    20,
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
