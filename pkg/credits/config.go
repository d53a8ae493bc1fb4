package credits

import "time"

// Config holds plan quotas and the renewal period.
type Config struct {
	FreeQuota int64         `env:"CREDITS_FREE_QUOTA" envDefault:"5"`
	ProQuota  int64         `env:"CREDITS_PRO_QUOTA" envDefault:"100"`
	Period    time.Duration `env:"CREDITS_PERIOD" envDefault:"720h"`
}

// DefaultConfig returns the quotas used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		FreeQuota: 5,
		ProQuota:  100,
		Period:    30 * 24 * time.Hour,
	}
}
