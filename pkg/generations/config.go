package generations

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Backend names accepted by GENERATIONS_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

type Config struct {
	Backend    string `env:"GENERATIONS_BACKEND" envDefault:"postgres"`
	Collection string `env:"GENERATIONS_MONGO_COLLECTION" envDefault:"generations"`
}

// NewStore picks the backend named in cfg. The handle for the chosen backend
// must be non-nil.
func NewStore(cfg Config, pool *pgxpool.Pool, db *mongo.Database) (Store, error) {
	switch cfg.Backend {
	case BackendPostgres, "":
		if pool == nil {
			return nil, fmt.Errorf("%w: postgres pool is nil", ErrUnknownBackend)
		}
		return NewPostgresStore(pool), nil
	case BackendMongo:
		if db == nil {
			return nil, fmt.Errorf("%w: mongo database is nil", ErrUnknownBackend)
		}
		return NewMongoStore(db, cfg.Collection), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
