package summary

import "callscribe/internal/services/llm"

const systemPrompt = "You are an assistant that summarizes phone call transcripts. " +
	"Write a clear, concise summary of the call in 3–5 sentences."

// BuildPrompt renders a transcript into the summary chat request.
// It is pure and accepts empty input.
func BuildPrompt(transcript string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: "Here is the call transcript:\n\n" + transcript + "\n\nPlease provide only the summary."},
	}
}
