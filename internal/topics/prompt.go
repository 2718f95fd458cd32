package topics

import (
	"strings"

	"callscribe/internal/services/llm"
)

const systemPrompt = "You are an assistant that classifies call summaries into predefined subcategories. " +
	"You MUST choose exactly 3 DISTINCT subcategories from the given list. " +
	"Return ONLY valid JSON, with no extra text."

// BuildPrompt renders a summary and the catalog keys into the classification
// chat request. Keys appear as a "- name" list in the given order.
func BuildPrompt(summaryText string, keys []string) []llm.Message {
	var list strings.Builder
	for i, k := range keys {
		if i > 0 {
			list.WriteByte('\n')
		}
		list.WriteString("- ")
		list.WriteString(k)
	}

	var user strings.Builder
	user.WriteString("\nHere is the call summary:\n\n")
	user.WriteString(`"""` + summaryText + `"""`)
	user.WriteString("\n\nHere is the list of AVAILABLE subcategories (you MUST select only from these, do not invent new ones):\n\n")
	user.WriteString(list.String())
	user.WriteString("\n\nTask:\n")
	user.WriteString("- Select the 3 most relevant subcategories for this summary.\n")
	user.WriteString("- They must be distinct and come from the list above.\n")
	user.WriteString("- Return ONLY valid JSON in this exact format:\n\n")
	user.WriteString("{\n  \"subcategories\": [\n    \"sub_category_name_1\",\n    \"sub_category_name_2\",\n    \"sub_category_name_3\"\n  ]\n}\n")

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: user.String()},
	}
}
