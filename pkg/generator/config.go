package generator

import "time"

const (
	ProviderOllama = "ollama"
	ProviderGroq   = "groq"
)

type Config struct {
	Provider string `env:"AI_PROVIDER" envDefault:"ollama"`

	OllamaBaseURL string        `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaModel   string        `env:"OLLAMA_MODEL" envDefault:"llama3.2:3b"`
	OllamaTimeout time.Duration `env:"OLLAMA_TIMEOUT" envDefault:"180s"`

	GroqAPIKey  string        `env:"GROQ_API_KEY"`
	GroqBaseURL string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqModel   string        `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`
	GroqTimeout time.Duration `env:"GROQ_TIMEOUT" envDefault:"60s"`

	PingTimeout time.Duration `env:"AI_PING_TIMEOUT" envDefault:"3s"`
}
