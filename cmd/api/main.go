package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/studentato/dorm-booking/internal/config"
	dbpkg "github.com/studentato/dorm-booking/internal/db"
	"github.com/studentato/dorm-booking/internal/middleware"
	"github.com/studentato/dorm-booking/internal/routes"
	"github.com/studentato/dorm-booking/internal/viewcache"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	cache := viewcache.Disabled()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		cache = viewcache.New(redis.NewClient(opts))
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cache, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
