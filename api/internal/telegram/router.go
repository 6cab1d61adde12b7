package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/generative-ai-go/genai"

	"speak-coach/api/internal/questionbank"
)

// Engine is the generative backend the bot grades and generates with.
type Engine interface {
	Grade(ctx context.Context, history []*genai.Content, parts []genai.Part) (string, error)
	GenerateQuestion(ctx context.Context) (string, error)
}

type Router struct {
	Bot  *tgbotapi.BotAPI
	Eng  Engine
	Bank *questionbank.Bank
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.handleCommand(upd)
		return
	}

	if upd.Message.Voice != nil || upd.Message.Audio != nil {
		r.acceptVoice(*upd.Message)
		return
	}

	if upd.Message.Text != "" {
		r.send(cid, "Send /question for a practice question, then reply with a voice message (45 seconds max).")
	}
}

func (r *Router) handleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "TOEFL Speaking practice.\n"+
			"/question — get an independent task question\n"+
			"Then answer it with a voice message; you get scored feedback in Japanese.")
	case "question":
		r.sendQuestion(cid)
	case "health":
		r.send(cid, "✅ OK")
	default:
		r.send(cid, "Unknown command. Try /question.")
	}
}

func (r *Router) sendQuestion(cid int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	q, err := r.Eng.GenerateQuestion(ctx)
	if err != nil {
		// Model unavailable: serve one from the bank instead.
		q = r.Bank.Random(ctx)
	} else {
		r.Bank.Remember(ctx, q)
	}

	setPendingQuestion(cid, q)
	r.send(cid, "🎤 Your question:\n\n"+q+"\n\nReply with a voice message. You have 45 seconds once you start speaking.")
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = r.Bot.Send(msg)
}

// SendFeedback delivers the grading result, respecting Telegram's message
// size limit.
func (r *Router) SendFeedback(chatID int64, text string) {
	if len(text) > 3900 {
		text = text[:3900] + "…"
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := r.Bot.Send(msg); err != nil {
		// Markdown from the model can be malformed; retry as plain text.
		plain := tgbotapi.NewMessage(chatID, text)
		_, _ = r.Bot.Send(plain)
	}
}
