package input

import (
	"testing"

	"github.com/Faultbox/prisonstep/internal/locomotion"
	"github.com/Faultbox/prisonstep/pkg/math"
)

func TestMapper_Map(t *testing.T) {
	tests := []struct {
		name string
		c    Controls
		want locomotion.Input
	}{
		{"idle", Controls{}, locomotion.Input{}},
		{"left", Controls{Left: true}, locomotion.Input{TurnRate: 2, AimDelta: math.Vec2{X: -0.02}}},
		{"right", Controls{Right: true}, locomotion.Input{TurnRate: -2, AimDelta: math.Vec2{X: 0.02}}},
		{"left wins the turn, right wins the aim", Controls{Left: true, Right: true},
			locomotion.Input{TurnRate: 2, AimDelta: math.Vec2{X: 0.02}}},
		{"down wins the aim", Controls{Up: true, Down: true},
			locomotion.Input{DesiredSpeed: 2, AimDelta: math.Vec2{Y: -0.02}}},
		{"up", Controls{Up: true}, locomotion.Input{DesiredSpeed: 2, AimDelta: math.Vec2{Y: 0.02}}},
		{"down", Controls{Down: true}, locomotion.Input{AimDelta: math.Vec2{Y: -0.02}}},
		{"pad in dead zone", Controls{Up: true, HasPad: true, StickX: 0.1, StickY: -0.1},
			locomotion.Input{DesiredSpeed: 2, AimDelta: math.Vec2{Y: 0.02}}},
		{"pad forward", Controls{HasPad: true, StickY: 0.5},
			locomotion.Input{DesiredSpeed: 1, AimDelta: math.Vec2{Y: 0.01}}},
		{"pad back never walks backwards", Controls{HasPad: true, StickY: -1},
			locomotion.Input{AimDelta: math.Vec2{Y: -0.02}}},
		{"pad turn", Controls{HasPad: true, StickX: 1},
			locomotion.Input{TurnRate: -2, AimDelta: math.Vec2{X: 0.02}}},
		{"keys win the turn, pad wins the aim", Controls{Left: true, HasPad: true, StickX: 1},
			locomotion.Input{TurnRate: 2, AimDelta: math.Vec2{X: 0.02}}},
		{"up wins over the stick", Controls{Up: true, HasPad: true, StickY: -1},
			locomotion.Input{DesiredSpeed: 2, AimDelta: math.Vec2{Y: -0.02}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapper(2, 0.02, 2)
			got := m.Map(tt.c)
			if got != tt.want {
				t.Errorf("Map(%+v) = %+v, want %+v", tt.c, got, tt.want)
			}
		})
	}
}

func TestMapper_ToggleEdges(t *testing.T) {
	m := NewMapper(2, 0.02, 2)

	steps := []struct {
		c          Controls
		wantCrouch bool
		wantAim    bool
	}{
		{Controls{Crouch: true}, true, false},
		{Controls{Crouch: true}, false, false}, // held
		{Controls{}, false, false},
		{Controls{Crouch: true, Aim: true}, true, true},
		{Controls{Aim: true}, false, false},
		{Controls{}, false, false},
		{Controls{Aim: true}, false, true},
	}
	for i, s := range steps {
		in := m.Map(s.c)
		if in.CrouchToggle != s.wantCrouch || in.AimToggle != s.wantAim {
			t.Errorf("step %d: toggles = (%v, %v), want (%v, %v)",
				i, in.CrouchToggle, in.AimToggle, s.wantCrouch, s.wantAim)
		}
	}
}

func TestMapper_Reset(t *testing.T) {
	m := NewMapper(2, 0.02, 2)
	m.Map(Controls{Aim: true})
	m.Reset()
	if !m.Map(Controls{Aim: true}).AimToggle {
		t.Error("held button should register as a press after Reset")
	}
}

func TestAxis(t *testing.T) {
	tests := []struct {
		v    int16
		want float32
	}{
		{0, 0},
		{32767, 1},
		{-32768, -1},
	}
	for _, tt := range tests {
		if got := axis(tt.v); got != tt.want {
			t.Errorf("axis(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
