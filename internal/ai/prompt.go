package ai

import "strings"

const planFormatPrompt = `You are a project planning assistant.

Create an 8-day plan for the project described below.

Format rules:
- Output exactly 8 days, labeled "Day 1:" through "Day 8:".
- Under each day label, list the tasks for that day, one per line,
  each starting with "- ".
- Keep every task short and actionable.
- Output nothing before "Day 1:" and nothing after the last task.
`

// BuildPlanPrompt builds the generation prompt for a project plan.
func BuildPlanPrompt(title, description string) string {
	var b strings.Builder

	b.WriteString(planFormatPrompt)
	b.WriteString("\n")

	b.WriteString("Title: ")
	b.WriteString(strings.TrimSpace(title))
	b.WriteString("\n")

	if d := strings.TrimSpace(description); d != "" {
		b.WriteString("Description: ")
		b.WriteString(d)
		b.WriteString("\n")
	}

	return b.String()
}

// BuildChatPrompt wraps a free-form chat message.
func BuildChatPrompt(message string) string {
	var b strings.Builder

	b.WriteString("You are DayBot, a concise assistant inside a personal project planner. Answer the user's message.\n\n")
	b.WriteString(strings.TrimSpace(message))
	b.WriteString("\n")

	return b.String()
}
