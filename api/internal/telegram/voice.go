package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"speak-coach/api/internal/grading"
)

func (r *Router) acceptVoice(msg tgbotapi.Message) {
	cid := msg.Chat.ID

	question, ok := takePendingQuestion(cid)
	if !ok {
		r.send(cid, "Get a question first with /question, then send your answer as a voice message.")
		return
	}

	fileID, name, mime := voiceFileInfo(msg)
	tf, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		r.send(cid, "Could not fetch your voice message: "+err.Error())
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, tf.FilePath)
	audio, err := download(url)
	if err != nil {
		r.send(cid, "Could not download your voice message: "+err.Error())
		return
	}

	r.send(cid, "Got it, grading your response…")

	atts := []grading.Attachment{{Name: name, ContentType: mime, Data: audio}}
	parts := grading.AssembleParts(question, atts, true)

	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	feedback, err := r.Eng.Grade(ctx, nil, parts)
	if err != nil {
		// Give the question back so the user can resend without /question.
		setPendingQuestion(cid, question)
		r.send(cid, "Grading failed: "+err.Error())
		return
	}
	r.SendFeedback(cid, feedback)
}

func voiceFileInfo(msg tgbotapi.Message) (fileID, name, mime string) {
	if msg.Voice != nil {
		return msg.Voice.FileID, "voice.ogg", msg.Voice.MimeType
	}
	name = msg.Audio.FileName
	if name == "" {
		name = "audio.mp3"
	}
	return msg.Audio.FileID, name, msg.Audio.MimeType
}

func download(url string) ([]byte, error) {
	resp, err := httpClient().Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
