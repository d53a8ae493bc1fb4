// Package generator turns a prompt into text through a hosted or local LLM.
//
// Two providers are supported: a local Ollama server and Groq's
// OpenAI-compatible chat completions API. New picks one from Config:
//
//	gen, err := generator.New(cfg, generator.WithLogger(log))
//	text, err := gen.GenerateText(ctx, generator.Prompt{System: sys, User: msg})
//
// Ping checks that the provider answers without spending tokens, and
// Healthcheck wraps it for a health endpoint.
//
// Failures are reported with the sentinel errors in errors.go. IsRetryable
// tells transient provider problems apart from configuration mistakes.
package generator
