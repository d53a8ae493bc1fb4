package entitlement

import "time"

type Config struct {
	ChargeTimeout time.Duration `env:"ENTITLEMENT_CHARGE_TIMEOUT" envDefault:"10s"`
}
