package anim

// Player advances a time cursor through one clip. A new Player is created on
// every clip change; it never loops. Whoever drives it decides when the clip
// has finished.
type Player struct {
	clip  *Clip
	time  float64
	speed float64
}

// NewPlayer starts clip at time zero with speed 1.
func NewPlayer(clip *Clip) *Player {
	return &Player{clip: clip, speed: 1}
}

// Clip returns the clip being played.
func (p *Player) Clip() *Clip {
	return p.clip
}

// Time returns the cursor position in seconds, within [0, Duration].
func (p *Player) Time() float64 {
	return p.time
}

// Speed returns the playback rate.
func (p *Player) Speed() float64 {
	return p.speed
}

// SetSpeed sets the playback rate. Zero pauses; negative rates are not
// supported. Returns p for chaining after Pose.Play.
func (p *Player) SetSpeed(speed float64) *Player {
	p.speed = speed
	return p
}

// Remaining returns the clip time left before the end.
func (p *Player) Remaining() float64 {
	return p.clip.Duration - p.time
}

// advance moves the cursor by delta*speed, clamped to the clip.
func (p *Player) advance(delta float64) {
	p.time += delta * p.speed
	if p.time > p.clip.Duration {
		p.time = p.clip.Duration
	}
	if p.time < 0 {
		p.time = 0
	}
}
