package recorder

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"
)

type fakeSource struct {
	chunk   []byte
	openErr error
	readErr error

	opened int
	closed int
	reads  int
}

func (f *fakeSource) Open() error {
	if f.openErr != nil {
		return f.openErr
	}
	f.opened++
	return nil
}

func (f *fakeSource) Read() ([]byte, error) {
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.chunk, nil
}

func (f *fakeSource) Close() error {
	f.closed++
	return nil
}

func newTestController(src Source, onClip func(Clip)) *Controller {
	return New(Config{PrepareSeconds: 3, MaxRecordSeconds: 45}, src, onClip)
}

func TestCountdownRunsIntoRecording(t *testing.T) {
	src := &fakeSource{chunk: []byte{1}}
	c := newTestController(src, nil)

	if err := c.Begin(); err != nil {
		t.Fatal(err)
	}
	if c.State() != StatePreparing || c.CountdownLeft() != 3 {
		t.Fatalf("state = %s, left = %d", c.State(), c.CountdownLeft())
	}

	for i := 0; i < 3; i++ {
		if err := c.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if c.State() != StateRecording {
		t.Fatalf("state = %s, want recording", c.State())
	}
	if src.opened != 1 {
		t.Errorf("source opened %d times", src.opened)
	}
}

func TestSkipStartsImmediately(t *testing.T) {
	src := &fakeSource{chunk: []byte{1}}
	c := newTestController(src, nil)

	_ = c.Begin()
	if err := c.Skip(); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateRecording || src.opened != 1 {
		t.Fatalf("state = %s, opened = %d", c.State(), src.opened)
	}
}

func TestCancelLeavesNoSideEffects(t *testing.T) {
	src := &fakeSource{chunk: []byte{1}}
	c := newTestController(src, nil)

	_ = c.Begin()
	_ = c.Tick()
	if err := c.Cancel(); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateIdle {
		t.Fatalf("state = %s", c.State())
	}
	if src.opened != 0 || src.reads != 0 {
		t.Error("cancel during preparation must not touch the capture source")
	}
	// The cycle can start over.
	if err := c.Begin(); err != nil {
		t.Fatal(err)
	}
}

func TestStopBeforeCeilingYieldsElapsedDuration(t *testing.T) {
	src := &fakeSource{chunk: []byte{0xAA, 0xBB}}
	c := newTestController(src, nil)

	_ = c.Begin()
	_ = c.Skip()
	for i := 0; i < 10; i++ {
		if err := c.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	clip, err := c.Stop()
	if err != nil {
		t.Fatal(err)
	}
	if clip.Duration != 10*time.Second {
		t.Errorf("duration = %s, want 10s", clip.Duration)
	}
	if len(clip.Data) != 20 {
		t.Errorf("data = %d bytes, want 20", len(clip.Data))
	}
	if c.State() != StateIdle {
		t.Errorf("state = %s, want idle", c.State())
	}
	if src.closed != 1 {
		t.Errorf("source closed %d times, want 1", src.closed)
	}
}

func TestCeilingAutoStops(t *testing.T) {
	src := &fakeSource{chunk: []byte{1}}
	var got *Clip
	c := newTestController(src, func(cl Clip) { got = &cl })

	_ = c.Begin()
	_ = c.Skip()
	for i := 0; i < 45; i++ {
		if err := c.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if got == nil {
		t.Fatal("ceiling should have finalized the clip")
	}
	if got.Duration != 45*time.Second {
		t.Errorf("duration = %s, want 45s", got.Duration)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %s, want idle", c.State())
	}
	if src.closed != 1 {
		t.Errorf("source closed %d times, want 1", src.closed)
	}
	// Further ticks are no-ops.
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	if got.Duration > 45*time.Second {
		t.Error("clip must not exceed the ceiling")
	}
}

func TestOpenFailureRollsBackToIdle(t *testing.T) {
	src := &fakeSource{openErr: errors.New("permission denied")}
	c := newTestController(src, nil)

	_ = c.Begin()
	if err := c.Skip(); err == nil {
		t.Fatal("expected open error")
	}
	if c.State() != StateIdle {
		t.Fatalf("state = %s, want idle after device failure", c.State())
	}
}

func TestReadErrorReleasesSource(t *testing.T) {
	src := &fakeSource{chunk: []byte{1}}
	var got *Clip
	c := newTestController(src, func(cl Clip) { got = &cl })

	_ = c.Begin()
	_ = c.Skip()
	_ = c.Tick()
	src.readErr = errors.New("device unplugged")
	if err := c.Tick(); err == nil {
		t.Fatal("expected read error")
	}
	if src.closed != 1 {
		t.Error("source must be released on the error path")
	}
	if got == nil || got.Duration != 2*time.Second {
		t.Errorf("partial clip should still be delivered: %+v", got)
	}
}

func TestEOFFinalizesQuietly(t *testing.T) {
	src := &fakeSource{chunk: []byte{1}}
	var got *Clip
	c := newTestController(src, func(cl Clip) { got = &cl })

	_ = c.Begin()
	_ = c.Skip()
	_ = c.Tick()
	src.readErr = io.EOF
	if err := c.Tick(); err != nil {
		t.Fatalf("EOF should not surface as an error: %v", err)
	}
	if got == nil || c.State() != StateIdle {
		t.Error("EOF should finalize the clip")
	}
}

func TestWrapWAV(t *testing.T) {
	pcm := make([]byte, 32000) // one second at 16kHz s16le mono
	wav := WrapWAV(pcm, 16000)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("length = %d, want %d", len(wav), 44+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 16000 {
		t.Errorf("sample rate = %d", rate)
	}
	if size := binary.LittleEndian.Uint32(wav[40:44]); size != uint32(len(pcm)) {
		t.Errorf("data size = %d", size)
	}
}
