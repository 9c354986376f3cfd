// Package config handles game configuration loading and management.
package config

import (
	"github.com/Faultbox/prisonstep/internal/character"
	"github.com/Faultbox/prisonstep/internal/door"
	"github.com/Faultbox/prisonstep/internal/engine/camera"
	"github.com/Faultbox/prisonstep/pkg/math"
)

// Config holds all game settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Logging   LoggingConfig   `yaml:"logging"`
	Content   ContentConfig   `yaml:"content"`
	Character CharacterConfig `yaml:"character"`
	Level     LevelConfig     `yaml:"level"`
	Camera    CameraConfig    `yaml:"camera"`
	Savegame  SaveConfig      `yaml:"save"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	ShowFPS    bool   `yaml:"show_fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ContentConfig holds asset file locations. Rig and Collision are relative
// to Dir.
type ContentConfig struct {
	Dir       string `yaml:"dir"`
	Rig       string `yaml:"rig"`
	Collision string `yaml:"collision"`
}

// CharacterConfig holds the prisoner's start placement and control tuning.
type CharacterConfig struct {
	Position    [3]float32 `yaml:"position"`
	Orientation float32    `yaml:"orientation"`
	SpineBone   string     `yaml:"spine_bone"`
	WeaponBone  string     `yaml:"weapon_bone"`

	PanRate   float32 `yaml:"pan_rate"`   // radians per second
	AimScale  float32 `yaml:"aim_scale"`  // spine radians per tick
	WalkSpeed float32 `yaml:"walk_speed"` // walk clip rate on the keyboard
}

// DoorConfig is one door of the level.
type DoorConfig struct {
	ID     int        `yaml:"id"`
	Center [3]float32 `yaml:"center"`
	Axis   [3]float32 `yaml:"axis"`
}

// LevelConfig holds floor plan naming and door geometry.
type LevelConfig struct {
	WallPrefix string       `yaml:"wall_prefix"`
	DoorPrefix string       `yaml:"door_prefix"`
	SlimeEnter string       `yaml:"slime_enter"`
	SlimeExit  string       `yaml:"slime_exit"`
	DoorRate   float32      `yaml:"door_rate"`
	Doors      []DoorConfig `yaml:"doors"`
}

// CameraConfig holds the follow camera settings.
type CameraConfig struct {
	FOV  float32 `yaml:"fov"` // degrees
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`

	// Pullback is how far behind the character the eye starts; it moves in
	// by Step while the eye would sit inside a wall or closed door.
	Pullback  float32 `yaml:"pullback"`
	Step      float32 `yaml:"step"`
	EyeHeight float32 `yaml:"eye_height"`
	Head      float32 `yaml:"head"`
	Tilt      float32 `yaml:"tilt"`
}

// SaveConfig holds placement persistence settings.
type SaveConfig struct {
	Enabled bool   `yaml:"enabled"`
	AppName string `yaml:"app_name"`
}

// Default returns a Config with sensible default values. The character
// start, the doors and the follow rig come from their packages' defaults.
func Default() *Config {
	start := character.DefaultConfig()
	follow := camera.DefaultFollowConfig()

	return &Config{
		Window: WindowConfig{
			Title:      "PrisonStep",
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
			ShowFPS:    false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Content: ContentConfig{
			Dir:       "content",
			Rig:       "victoria.yaml",
			Collision: "prison-collision.gltf",
		},
		Character: CharacterConfig{
			Position:    array3(start.Position),
			Orientation: start.Orientation,
			SpineBone:   start.SpineBone,
			WeaponBone:  start.WeaponBone,
			PanRate:     2,
			AimScale:    0.02,
			WalkSpeed:   2,
		},
		Level: LevelConfig{
			WallPrefix: "W",
			DoorPrefix: "R_Door",
			SlimeEnter: "R_Section6",
			SlimeExit:  "R_Section1",
			DoorRate:   2,
			Doors:      doorConfigs(door.PrisonDoors()),
		},
		Camera: CameraConfig{
			FOV:       42,
			Near:      10,
			Far:       10000,
			Pullback:  follow.Pullback,
			Step:      follow.Step,
			EyeHeight: follow.EyeHeight,
			Head:      follow.Head,
			Tilt:      follow.Tilt,
		},
		Savegame: SaveConfig{
			Enabled: true,
			AppName: "prisonstep",
		},
	}
}

// Follow returns the follow rig settings.
func (c CameraConfig) Follow() camera.FollowConfig {
	return camera.FollowConfig{
		Pullback:  c.Pullback,
		Step:      c.Step,
		EyeHeight: c.EyeHeight,
		Head:      c.Head,
		Tilt:      c.Tilt,
	}
}

func doorConfigs(doors []door.Door) []DoorConfig {
	out := make([]DoorConfig, len(doors))
	for i, d := range doors {
		out[i] = DoorConfig{ID: d.ID, Center: array3(d.Center), Axis: array3(d.Axis)}
	}
	return out
}

func array3(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
