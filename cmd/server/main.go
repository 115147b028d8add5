package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/auth"
	"github.com/iliyamo/social-network-api/internal/config"
	"github.com/iliyamo/social-network-api/internal/database"
	"github.com/iliyamo/social-network-api/internal/handler"
	"github.com/iliyamo/social-network-api/internal/middleware"
	"github.com/iliyamo/social-network-api/internal/repository"
	"github.com/iliyamo/social-network-api/internal/router"
	"github.com/iliyamo/social-network-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared pool.
	users := repository.NewUserRepo(db)
	follows := repository.NewFollowRepo(db)
	posts := repository.NewPostRepo(db)
	comments := repository.NewCommentRepo(db)

	// Transactional services: every multi-entity write goes through the
	// runner so the counter and its source row commit or roll back together.
	txRunner := database.NewTxRunner(db)
	followSvc := service.NewFollowService(txRunner, follows, users)
	commentSvc := service.NewCommentService(txRunner, comments, posts)

	authSvc := auth.NewService(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL(), cfg.BcryptCost, users)

	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(users, follows, followSvc)
	postH := handler.NewPostHandler(posts)
	commentH := handler.NewCommentHandler(comments, commentSvc)

	// Redis-backed rate limiting and response caching degrade to
	// pass-through when no Redis is reachable.
	rdb := config.NewRedisClient()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	ownership := middleware.CommentOwnerOrAdmin(comments)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, users, limiter)
	router.RegisterUsers(e, userH, cfg.JWTSecret, users)
	router.RegisterPosts(e, postH, commentH, cfg.JWTSecret, users, ownership, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
