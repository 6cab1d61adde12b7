package grading

import (
	"github.com/google/generative-ai-go/genai"

	"speak-coach/api/internal/util"
)

// Attachment is one uploaded file: question material (image/pdf/text) or the
// spoken response audio. Data is held in memory for the life of the request.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Part encodes the attachment as an inline blob with a resolved media type.
func (a Attachment) Part() genai.Part {
	return &genai.Blob{
		MIMEType: util.ResolveMIME(a.ContentType, a.Name),
		Data:     a.Data,
	}
}

// AssembleParts builds the ordered content parts for one grading turn:
// question text first, then the attachments in upload order. On the first
// turn of a session the grading preamble is prepended, merged into the
// leading text part when there is one so the model always sees instructions
// before content.
func AssembleParts(message string, atts []Attachment, firstTurn bool) []genai.Part {
	parts := make([]genai.Part, 0, len(atts)+2)
	if message != "" {
		parts = append(parts, genai.Text("Task/Question Text: "+message))
	}
	for _, a := range atts {
		parts = append(parts, a.Part())
	}

	if firstTurn {
		if len(parts) > 0 {
			if t, ok := parts[0].(genai.Text); ok {
				parts[0] = genai.Text(Preamble + "\n\n" + string(t))
				return parts
			}
		}
		parts = append([]genai.Part{genai.Text(Preamble)}, parts...)
	}
	return parts
}
