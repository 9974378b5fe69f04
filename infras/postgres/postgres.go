package postgres

//nolint:revive
import (
	"fmt"
	"net"
	"net/url"
	"time"

	"condo/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 20
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits traffic between the primary (writes and booking transactions) and a read replica.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type Endpoint struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	Timezone string
	SSLMode  string
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	return &Connection{
		Read:  connect("read", DSN(Endpoint(pg.Read), pg.Prefix), pg.MaxRetry, pg.RetryWaitTime),
		Write: connect("write", DSN(Endpoint(pg.Write), pg.Prefix), pg.MaxRetry, pg.RetryWaitTime),
	}
}

// DSN builds a lib/pq URL. The optional prefix namespaces the database name per environment.
func DSN(e Endpoint, prefix string) string {
	query := url.Values{}
	query.Set("sslmode", e.SSLMode)

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     prefix + e.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(name, dsn string, maxRetry, waitSeconds int) *sqlx.DB {
	attempts := max(maxRetry, 1)

	for attempt := range attempts {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			log.Info().Str("name", name).Msg("Connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("name", name).
			Int("attempt", attempt+1).
			Int("max_attempts", attempts).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	log.Fatal().Str("name", name).Msg(fmt.Sprintf("Database unreachable after %d attempts", attempts))

	return nil
}

func (c *Connection) Close() {
	for name, db := range map[string]*sqlx.DB{"read": c.Read, "write": c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Warn().Err(err).Str("name", name).Msg("failed to close database")
		}
	}
}
