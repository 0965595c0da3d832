package summarizer

import (
	"fmt"
	"strings"
)

const (
	SystemPrompt = `You are a helpful assistant that summarizes medical transcripts.
Read the conversation between the healthcare professional and the patient and produce an accurate, concise summary.
Keep symptoms, findings, diagnoses, medications and agreed follow-up actions. Do not invent details that are not in the transcript.`

	userMessageSeparator = "\n\nText:\n"

	bulletPointsStyling = "bullet points"
)

// BuildInstruction assembles the directives derived from the optional input
// fields. Order is fixed: translation, tonality, styling.
func BuildInstruction(input Input) string {
	var b strings.Builder

	if lang := strings.TrimSpace(input.TargetLanguage); lang != "" {
		fmt.Fprintf(&b, "Translate the final output to %s and return only the translated text. ", lang)
	}

	if tonality := strings.TrimSpace(input.Tonality); tonality != "" {
		fmt.Fprintf(&b, "The summary must have a %s tonality. ", tonality)
	}

	if styling := strings.TrimSpace(input.Styling); styling != "" {
		if strings.ToLower(styling) == bulletPointsStyling {
			b.WriteString("Format the summary as bullet points: put each point on its own line and start every line with a hyphen (-). ")
		} else {
			b.WriteString("Format the summary using paragraph styling. ")
		}
	}

	return strings.TrimSpace(b.String())
}

// BuildUserMessage joins the instruction and the transcript into the single
// user-role message sent to the provider.
func BuildUserMessage(input Input) string {
	return BuildInstruction(input) + userMessageSeparator + input.Text
}
