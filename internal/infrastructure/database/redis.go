package database

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// OpenRedisFromEnv ouvre un client Redis depuis l'environnement.
// Retourne nil si REDIS_ADDR n'est pas configuré: le cache de symboles est
// optionnel et son absence fait retomber sur la passerelle.
func OpenRedisFromEnv() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	pass := os.Getenv("REDIS_PASS")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, _ := strconv.Atoi(v); n >= 0 {
			db = n
		}
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}
