package proposal

import (
	"strings"

	"github.com/dmitrymomot/proposalkit/pkg/validator"
)

const (
	DefaultTone     = "professional"
	DefaultLanguage = "English"
)

// Request is the client brief a proposal is written from.
type Request struct {
	ClientName         string  `json:"clientName"`
	ProjectDescription string  `json:"projectDescription"`
	Scope              string  `json:"scope"`
	Budget             float64 `json:"budget"`
	Timeline           string  `json:"timeline"`
	Skills             string  `json:"skills"`
	AdditionalNotes    string  `json:"additionalNotes,omitempty"`
	Tone               string  `json:"tone,omitempty"`
	Language           string  `json:"language,omitempty"`
}

// Validate returns validator.ValidationErrors listing every invalid field.
func (r Request) Validate() error {
	return validator.Apply(
		validator.MinLen("clientName", r.ClientName, 3),
		validator.MaxLen("clientName", r.ClientName, 200),
		validator.MinLen("projectDescription", r.ProjectDescription, 10),
		validator.MaxLen("projectDescription", r.ProjectDescription, 2000),
		validator.MinLen("scope", r.Scope, 3),
		validator.MaxLen("scope", r.Scope, 500),
		validator.Min("budget", r.Budget, 1),
		validator.Max("budget", r.Budget, 1_000_000),
		validator.MinLen("timeline", r.Timeline, 3),
		validator.MaxLen("timeline", r.Timeline, 200),
		validator.MinLen("skills", r.Skills, 3),
		validator.MaxLen("skills", r.Skills, 500),
		validator.MaxLen("additionalNotes", r.AdditionalNotes, 1000),
		validator.MaxLen("tone", r.Tone, 50),
		validator.MaxLen("language", r.Language, 10),
	)
}

// normalized trims free text and fills tone and language defaults.
func (r Request) normalized() Request {
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.ProjectDescription = strings.TrimSpace(r.ProjectDescription)
	r.Scope = strings.TrimSpace(r.Scope)
	r.Timeline = strings.TrimSpace(r.Timeline)
	r.Skills = strings.TrimSpace(r.Skills)
	r.AdditionalNotes = strings.TrimSpace(r.AdditionalNotes)
	r.Tone = strings.TrimSpace(r.Tone)
	r.Language = strings.TrimSpace(r.Language)
	if r.Tone == "" {
		r.Tone = DefaultTone
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	return r
}

// Title is "Proposal for <client> - <first 50 characters of the description>".
func (r Request) Title() string {
	desc := []rune(r.ProjectDescription)
	if len(desc) > 50 {
		desc = desc[:50]
	}
	return "Proposal for " + r.ClientName + " - " + string(desc)
}
