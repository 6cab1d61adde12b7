package telegram

import "sync"

// pendingQuestions maps chatID -> the question the user is about to answer.
// In-memory only; a restart just means asking for a new question.
var pendingQuestions sync.Map

func setPendingQuestion(chatID int64, q string) {
	pendingQuestions.Store(chatID, q)
}

func takePendingQuestion(chatID int64) (string, bool) {
	v, ok := pendingQuestions.LoadAndDelete(chatID)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
