package proposal

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/dmitrymomot/proposalkit/pkg/generator"
)

const systemPrompt = `You are an expert writer of freelance business proposals. You write professional, persuasive and well structured proposals that win clients. Your proposals are detailed, specific to the project and make the value proposition clear.

Answer ONLY in the language the user asks for. Use the client's name. Refer to concrete project details. The budget breakdown must be realistic.

Use Markdown with exactly these sections:
## Executive Summary
## Identified Problem
## Proposed Solution
## Technical Architecture
## Phases and Deliverables
## Timeline
## Investment (budget breakdown)
## Why Choose Us
## Next Steps`

var budgetPrinter = message.NewPrinter(language.English)

// BuildPrompt renders the brief into the generator prompt.
func BuildPrompt(r Request) generator.Prompt {
	r = r.normalized()

	var b strings.Builder
	b.WriteString("**Client:** " + r.ClientName + "\n")
	b.WriteString("**Project description:** " + r.ProjectDescription + "\n")
	b.WriteString("**Scope:** " + r.Scope + "\n")
	b.WriteString("**Budget:** $" + formatBudget(r.Budget) + "\n")
	b.WriteString("**Timeline:** " + r.Timeline + "\n")
	b.WriteString("**My skills/experience:** " + r.Skills + "\n")
	if r.AdditionalNotes != "" {
		b.WriteString("**Additional notes:** " + r.AdditionalNotes + "\n")
	}
	b.WriteString("**Tone:** " + r.Tone + "\n")
	b.WriteString("**Proposal language:** " + r.Language + "\n\n")
	b.WriteString("Write a complete proposal, ready to send, following the required format.")

	return generator.Prompt{System: systemPrompt, User: b.String()}
}

// formatBudget groups thousands and keeps at most two decimals: 12500 -> "12,500".
func formatBudget(v float64) string {
	return budgetPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
