package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	Close()

	Queries() *Queries

	Pool() *pgxpool.Pool
}

type service struct {
	dbpool *pgxpool.Pool
	q      *Queries
}

func (s *service) Queries() *Queries {
	return s.q
}

func (s *service) Pool() *pgxpool.Pool {
	return s.dbpool
}

var (
	database   = os.Getenv("NUTRIPLAN_DB_DATABASE")
	password   = os.Getenv("NUTRIPLAN_DB_PASSWORD")
	username   = os.Getenv("NUTRIPLAN_DB_USERNAME")
	port       = os.Getenv("NUTRIPLAN_DB_PORT")
	host       = os.Getenv("NUTRIPLAN_DB_HOST")
	schema     = os.Getenv("NUTRIPLAN_DB_SCHEMA")
	dbInstance *service
)

func NewService() Service {
	// Reuse Connection
	if dbInstance != nil {
		return dbInstance
	}
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		username, password, host, port, database, schema)

	dbpool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to create connection pool")
	}

	dbInstance = &service{
		dbpool: dbpool,
		q:      New(dbpool),
	}
	return dbInstance
}

// Health checks the health of the database connection.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.dbpool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Error().Err(err).Msg("db down")
		return stats
	}

	poolStats := s.dbpool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_conns"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_conns"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	stats["max_conns"] = strconv.Itoa(int(poolStats.MaxConns()))
	stats["acquire_count"] = strconv.FormatInt(poolStats.AcquireCount(), 10)
	stats["acquire_duration_ms"] = strconv.FormatInt(poolStats.AcquireDuration().Milliseconds(), 10)
	stats["empty_acquire_count"] = strconv.FormatInt(poolStats.EmptyAcquireCount(), 10)

	if poolStats.AcquiredConns() > (poolStats.MaxConns() * 8 / 10) { // 80% capacity
		stats["message"] = "The database connection pool is experiencing heavy load."
	}
	if poolStats.EmptyAcquireCount() > 0 {
		stats["message"] = "The application has tried to acquire a connection from an empty pool. Consider increasing max connections."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() {
	log.Info().Str("database", database).Msg("Disconnected from database")
	s.dbpool.Close()
}
