package workspace

// ClipState is where the transport is in the clip lifecycle.
type ClipState int

const (
	// ClipIdle means playback has not started; position sits at the clip
	// start once metadata is known.
	ClipIdle ClipState = iota
	// ClipPlaying means the transport is advancing.
	ClipPlaying
	// ClipPaused means the user paused mid-clip.
	ClipPaused
	// ClipEnded means playback reached the clip end; position has been
	// reset to the clip start, ready for replay.
	ClipEnded
)

// ClipPlayer models video transport over a bounded window of a longer
// recording. Playback starts at the clip start, pauses and rewinds the
// moment the position reaches the clip end, and replay runs the same
// window again. A zero clip end means the window runs to the end of the
// file.
type ClipPlayer struct {
	clipStart float64
	clipEnd   float64
	duration  float64
	position  float64
	state     ClipState
}

// NewClipPlayer creates a transport for the window [start, end]. end <= 0
// leaves the window open until the file's duration is known.
func NewClipPlayer(start, end float64) *ClipPlayer {
	if start < 0 {
		start = 0
	}
	return &ClipPlayer{clipStart: start, clipEnd: end, position: start}
}

// SetDuration records the file duration once metadata loads and snaps the
// position to the clip start.
func (p *ClipPlayer) SetDuration(duration float64) {
	p.duration = duration
	if p.state == ClipIdle {
		p.position = p.clipStart
	}
}

// Play starts or resumes playback. After the clip has ended, or if the
// position drifted before the window, playback restarts from the clip
// start.
func (p *ClipPlayer) Play() {
	if p.state == ClipEnded || p.position < p.clipStart {
		p.position = p.clipStart
	}
	p.state = ClipPlaying
}

// Pause halts playback in place.
func (p *ClipPlayer) Pause() {
	if p.state == ClipPlaying {
		p.state = ClipPaused
	}
}

// Advance moves the playhead to t during playback. Reaching the clip end
// pauses and rewinds to the clip start.
func (p *ClipPlayer) Advance(t float64) {
	if p.state != ClipPlaying {
		return
	}
	end := p.EffectiveEnd()
	if end > 0 && t >= end {
		p.position = p.clipStart
		p.state = ClipEnded
		return
	}
	p.position = t
}

// Seek moves the playhead to t, clamped to the clip window. Seeking out of
// the ended state leaves the transport paused at the new position.
func (p *ClipPlayer) Seek(t float64) {
	p.position = p.Clamp(t)
	if p.state == ClipEnded {
		p.state = ClipPaused
	}
}

// Clamp bounds a scrubber value to the clip window.
func (p *ClipPlayer) Clamp(t float64) float64 {
	if t < p.clipStart {
		return p.clipStart
	}
	if end := p.EffectiveEnd(); end > 0 && t > end {
		return end
	}
	return t
}

// EffectiveEnd is the clip end, or the file duration when the window is
// open-ended. Zero means unknown.
func (p *ClipPlayer) EffectiveEnd() float64 {
	if p.clipEnd > 0 {
		return p.clipEnd
	}
	return p.duration
}

// Position returns the current playhead offset.
func (p *ClipPlayer) Position() float64 { return p.position }

// State returns the transport state.
func (p *ClipPlayer) State() ClipState { return p.state }

// Playing reports whether the transport is advancing.
func (p *ClipPlayer) Playing() bool { return p.state == ClipPlaying }

// ClipStart returns the window start.
func (p *ClipPlayer) ClipStart() float64 { return p.clipStart }
