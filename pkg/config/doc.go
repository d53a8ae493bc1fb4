// Package config loads typed configuration structs from environment variables
// using github.com/caarlos0/env/v11 struct tags, optionally seeded from .env
// files through github.com/joho/godotenv. Parsed values are cached per type so
// every package can call Load for its own Config without re-parsing.
package config
