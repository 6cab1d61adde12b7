// TOEFL Speaking coach — terminal practice client.
//
// Fetches a practice question, runs the preparation countdown, records the
// spoken answer from the microphone (45-second ceiling), submits it for
// grading and prints the feedback transcript.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"speak-coach/api/internal/grading"
	"speak-coach/api/internal/recorder"
)

func main() {
	var (
		server   = flag.String("server", "http://localhost:8000", "coach API base URL")
		prep     = flag.Int("prep", 20, "preparation countdown in seconds")
		maxRec   = flag.Int("max", 45, "recording ceiling in seconds")
		rate     = flag.Int("rate", 16000, "capture sample rate")
		device   = flag.String("device", "", "capture device (pw-record target / arecord -D)")
		question = flag.String("question", "", "use this question instead of generating one")
	)
	flag.Parse()

	c := &client{base: strings.TrimRight(*server, "/"), httpc: &http.Client{Timeout: 4 * time.Minute}}

	q := *question
	if q == "" {
		var err error
		q, err = c.generateQuestion(context.Background())
		if err != nil {
			fmt.Fprintln(os.Stderr, "generate question:", err)
			os.Exit(1)
		}
	}

	fmt.Println("──────────────────────────────────────────────")
	fmt.Println("Question:")
	fmt.Println(" ", q)
	fmt.Println("──────────────────────────────────────────────")
	fmt.Printf("Preparation: %ds (Enter = start now, q = quit). Recording stops after %ds or on Enter.\n\n", *prep, *maxRec)

	clip, err := captureAnswer(*prep, *maxRec, *rate, *device)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if clip == nil {
		fmt.Println("Cancelled.")
		return
	}

	fmt.Printf("\nCaptured %s of audio, submitting…\n", clip.Duration)

	var transcript []grading.Turn
	feedback, err := c.grade(context.Background(), q, transcript, clip)
	if err != nil {
		fmt.Fprintln(os.Stderr, "grading:", err)
		os.Exit(1)
	}
	transcript = append(transcript,
		grading.Turn{Role: grading.RoleUser, Parts: []grading.TurnPart{{Text: q}}},
		grading.Turn{Role: grading.RoleModel, Parts: []grading.TurnPart{{Text: feedback}}},
	)
	renderTranscript(os.Stdout, transcript, clip.Name)

	// Follow-up questions reuse the conversation so the examiner keeps
	// context without repeating its instructions.
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nFollow-up (empty to quit): ")
		if !in.Scan() {
			return
		}
		msg := strings.TrimSpace(in.Text())
		if msg == "" {
			return
		}
		reply, err := c.grade(context.Background(), msg, transcript, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, "request failed:", err)
			continue
		}
		transcript = append(transcript,
			grading.Turn{Role: grading.RoleUser, Parts: []grading.TurnPart{{Text: msg}}},
			grading.Turn{Role: grading.RoleModel, Parts: []grading.TurnPart{{Text: reply}}},
		)
		renderTranscript(os.Stdout, transcript[len(transcript)-2:], "")
	}
}

// captureAnswer drives the recording state machine with a one-second ticker
// and stdin commands. Returns nil when the user cancels during preparation.
func captureAnswer(prep, maxRec, rate int, device string) (*recorder.Clip, error) {
	src := recorder.NewMicSource(rate, device)
	clipCh := make(chan recorder.Clip, 1)
	ctrl := recorder.New(recorder.Config{
		PrepareSeconds:   prep,
		MaxRecordSeconds: maxRec,
	}, src, func(cl recorder.Clip) { clipCh <- cl })

	if err := ctrl.Begin(); err != nil {
		return nil, err
	}

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case cl := <-clipCh:
			cl.Data = recorder.WrapWAV(cl.Data, src.SampleRate())
			return &cl, nil

		case line := <-lines:
			switch ctrl.State() {
			case recorder.StatePreparing:
				if line == "q" {
					_ = ctrl.Cancel()
					return nil, nil
				}
				if err := ctrl.Skip(); err != nil {
					return nil, err
				}
				fmt.Println("\n● Recording…")
			case recorder.StateRecording:
				cl, err := ctrl.Stop()
				if err != nil {
					return nil, err
				}
				cl.Data = recorder.WrapWAV(cl.Data, src.SampleRate())
				return &cl, nil
			}

		case <-ticker.C:
			before := ctrl.State()
			if err := ctrl.Tick(); err != nil {
				return nil, err
			}
			switch ctrl.State() {
			case recorder.StatePreparing:
				fmt.Printf("\rPrepare: %2ds ", ctrl.CountdownLeft())
			case recorder.StateRecording:
				if before == recorder.StatePreparing {
					fmt.Println("\n● Recording…")
				}
				fmt.Printf("\rRecording: %2.0fs / %ds ", ctrl.Elapsed().Seconds(), maxRec)
			}
		}
	}
}

func renderTranscript(w io.Writer, turns []grading.Turn, audioName string) {
	for _, t := range turns {
		label := "You"
		if t.Role == grading.RoleModel {
			label = "Coach"
		}
		fmt.Fprintf(w, "\n%s:\n", label)
		for _, p := range t.Parts {
			fmt.Fprintln(w, p.Text)
		}
		if t.Role == grading.RoleUser && audioName != "" {
			fmt.Fprintf(w, "[attached: %s]\n", audioName)
			audioName = ""
		}
	}
}

type client struct {
	base  string
	httpc *http.Client
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (c *client) generateQuestion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/generate-question", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp)
	}
	var out struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Question, nil
}

// grade posts one turn: optional message text, the conversation so far, and
// the recorded clip (nil for text-only follow-ups).
func (c *client) grade(ctx context.Context, message string, history []grading.Turn, clip *recorder.Clip) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("message", message); err != nil {
		return "", err
	}
	if len(history) > 0 {
		js, err := json.Marshal(history)
		if err != nil {
			return "", err
		}
		if err := mw.WriteField("history", string(js)); err != nil {
			return "", err
		}
	}
	if clip != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, clip.Name))
		hdr.Set("Content-Type", clip.MIME)
		fw, err := mw.CreatePart(hdr)
		if err != nil {
			return "", err
		}
		if _, err := fw.Write(clip.Data); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/chat", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp)
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func decodeAPIError(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)
	var ae apiError
	if json.Unmarshal(b, &ae) == nil && ae.Error != "" {
		return fmt.Errorf("%s: %s", ae.Error, ae.Details)
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
}
