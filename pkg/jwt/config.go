package jwt

import "time"

type Config struct {
	Secret string        `env:"JWT_SECRET,required"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"proposalkit"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
}
