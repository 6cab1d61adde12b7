package recorder

import (
	"fmt"
	"io"
	"os/exec"
)

// MicSource captures microphone audio as PCM s16le mono by piping from
// pw-record or arecord. No CGo involved.
type MicSource struct {
	sampleRate int
	device     string

	cmd    *exec.Cmd
	stdout io.ReadCloser
	buf    []byte
}

func NewMicSource(sampleRate int, device string) *MicSource {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &MicSource{
		sampleRate: sampleRate,
		device:     device,
		buf:        make([]byte, sampleRate*2), // one second, 2 bytes per sample
	}
}

func (m *MicSource) SampleRate() int { return m.sampleRate }

func (m *MicSource) Open() error {
	args := m.buildArgs()
	m.cmd = exec.Command(args[0], args[1:]...)

	var err error
	m.stdout, err = m.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	return nil
}

// Read returns one second of audio.
func (m *MicSource) Read() ([]byte, error) {
	n, err := io.ReadFull(m.stdout, m.buf)
	chunk := make([]byte, n)
	copy(chunk, m.buf[:n])
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return chunk, err
}

func (m *MicSource) Close() error {
	if m.cmd == nil {
		return nil
	}
	if m.stdout != nil {
		_ = m.stdout.Close()
	}
	if m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
	}
	err := m.cmd.Wait()
	m.cmd = nil
	m.stdout = nil
	return err
}

func (m *MicSource) buildArgs() []string {
	// Prefer pw-record (PipeWire), fall back to arecord (ALSA).
	if _, err := exec.LookPath("pw-record"); err == nil {
		args := []string{
			"pw-record",
			"--format=s16",
			fmt.Sprintf("--rate=%d", m.sampleRate),
			"--channels=1",
			"-",
		}
		if m.device != "" {
			args = append([]string{args[0], "--target=" + m.device}, args[1:]...)
		}
		return args
	}

	args := []string{
		"arecord",
		"-f", "S16_LE",
		"-r", fmt.Sprintf("%d", m.sampleRate),
		"-c", "1",
		"-t", "raw",
		"-q",
		"-",
	}
	if m.device != "" {
		args = append([]string{args[0], "-D", m.device}, args[1:]...)
	}
	return args
}
