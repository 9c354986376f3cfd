// Package locomotion drives a character's clip selection from input and
// turns the extracted root motion into a world placement, rejecting moves
// that leave the floor plan or walk into a closed door.
package locomotion

import "fmt"

// State is the locomotion state of a character.
type State uint8

// Locomotion states.
const (
	Start State = iota
	StanceStart
	Stance
	WalkStart
	WalkLoopStart
	WalkLoop
	StrafeStart
	Crouch
	BazookaRaise
	BazookaLower
	BazookaUp
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Start:
		return "Start"
	case StanceStart:
		return "StanceStart"
	case Stance:
		return "Stance"
	case WalkStart:
		return "WalkStart"
	case WalkLoopStart:
		return "WalkLoopStart"
	case WalkLoop:
		return "WalkLoop"
	case StrafeStart:
		return "StrafeStart"
	case Crouch:
		return "Crouch"
	case BazookaRaise:
		return "BazookaRaise"
	case BazookaLower:
		return "BazookaLower"
	case BazookaUp:
		return "BazookaUp"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}
