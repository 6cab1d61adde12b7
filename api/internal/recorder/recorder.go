// Package recorder implements the capture state machine for a practice
// response: a preparation countdown, then recording with a hard ceiling.
// It is driven by a cooperative one-second tick from its caller.
package recorder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

type State int

const (
	StateIdle State = iota
	StatePreparing
	StateRecording
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreparing:
		return "preparing"
	case StateRecording:
		return "recording"
	}
	return "unknown"
}

// Source is the audio capture device. Open acquires it, Read returns about
// one second of audio, Close releases it. Close is called unconditionally on
// every transition out of recording, error paths included.
type Source interface {
	Open() error
	Read() ([]byte, error)
	Close() error
}

// Clip is a finalized recording, ready to be posted as a form file.
type Clip struct {
	Name     string
	MIME     string
	Data     []byte
	Duration time.Duration
}

type Config struct {
	PrepareSeconds   int    // countdown before capture starts, default 20
	MaxRecordSeconds int    // recording ceiling, default 45
	ClipName         string // default "recording.wav"
	ClipMIME         string // default "audio/wav"
}

func (c *Config) applyDefaults() {
	if c.PrepareSeconds <= 0 {
		c.PrepareSeconds = 20
	}
	if c.MaxRecordSeconds <= 0 {
		c.MaxRecordSeconds = 45
	}
	if c.ClipName == "" {
		c.ClipName = "recording.wav"
	}
	if c.ClipMIME == "" {
		c.ClipMIME = "audio/wav"
	}
}

// Controller owns the Idle → Preparing → Recording → Idle cycle. All methods
// are safe for concurrent use, though the expected driver is a single
// ticking goroutine plus user commands.
type Controller struct {
	mu  sync.Mutex
	cfg Config
	src Source

	state    State
	prepLeft int
	recSecs  int
	buf      bytes.Buffer

	// onClip receives the finalized clip when the ceiling auto-stops the
	// recording; explicit Stop returns the clip directly as well.
	onClip func(Clip)
}

func New(cfg Config, src Source, onClip func(Clip)) *Controller {
	cfg.applyDefaults()
	return &Controller{
		cfg:    cfg,
		src:    src,
		onClip: onClip,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CountdownLeft reports remaining preparation seconds.
func (c *Controller) CountdownLeft() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prepLeft
}

// Elapsed reports how long the current recording has run.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Duration(c.recSecs) * time.Second
}

// Begin starts the preparation countdown.
func (c *Controller) Begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return fmt.Errorf("recorder: cannot begin from %s", c.state)
	}
	c.state = StatePreparing
	c.prepLeft = c.cfg.PrepareSeconds
	return nil
}

// Skip ends the countdown immediately and starts capturing.
func (c *Controller) Skip() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePreparing {
		return fmt.Errorf("recorder: cannot skip from %s", c.state)
	}
	return c.startRecordingLocked()
}

// Cancel aborts the countdown. It leaves no capture side effects: the
// source is never opened during preparation.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePreparing {
		return fmt.Errorf("recorder: cannot cancel from %s", c.state)
	}
	c.state = StateIdle
	c.prepLeft = 0
	return nil
}

// Stop ends the recording and returns the captured clip.
func (c *Controller) Stop() (Clip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRecording {
		return Clip{}, fmt.Errorf("recorder: cannot stop from %s", c.state)
	}
	return c.finalizeLocked(), nil
}

// Tick advances the machine by one second. In Preparing it counts down and
// starts capture at zero; in Recording it pulls one second of audio and
// auto-stops at the ceiling. Idle ticks are no-ops.
func (c *Controller) Tick() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StatePreparing:
		c.prepLeft--
		if c.prepLeft <= 0 {
			return c.startRecordingLocked()
		}
		return nil

	case StateRecording:
		chunk, err := c.src.Read()
		if len(chunk) > 0 {
			c.buf.Write(chunk)
		}
		c.recSecs++
		if err != nil {
			// Capture ended or broke mid-recording: release the
			// device and keep whatever audio we have.
			clip := c.finalizeLocked()
			if c.onClip != nil {
				c.onClip(clip)
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("recorder: read: %w", err)
		}
		if c.recSecs >= c.cfg.MaxRecordSeconds {
			clip := c.finalizeLocked()
			if c.onClip != nil {
				c.onClip(clip)
			}
		}
		return nil
	}
	return nil
}

func (c *Controller) startRecordingLocked() error {
	if err := c.src.Open(); err != nil {
		// Device denied or unavailable: roll back to idle.
		c.state = StateIdle
		c.prepLeft = 0
		return fmt.Errorf("recorder: open source: %w", err)
	}
	c.state = StateRecording
	c.prepLeft = 0
	c.recSecs = 0
	c.buf.Reset()
	return nil
}

func (c *Controller) finalizeLocked() Clip {
	_ = c.src.Close()
	clip := Clip{
		Name:     c.cfg.ClipName,
		MIME:     c.cfg.ClipMIME,
		Data:     append([]byte(nil), c.buf.Bytes()...),
		Duration: time.Duration(c.recSecs) * time.Second,
	}
	c.state = StateIdle
	c.recSecs = 0
	c.buf.Reset()
	return clip
}
