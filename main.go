// @title Echo Me API
// @version 1.0
// @description Social backend: accounts, follow graph, posts, comment threads, notifications and search.
// @host localhost:8800
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "echo-me/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"

	"echo-me/bootstrap"
	"echo-me/config"
	"echo-me/database"
	"echo-me/internal/controllers"
	"echo-me/internal/repository"
	"echo-me/internal/repository/memstore"
	"echo-me/internal/routes"
)

func main() {
	cfg := config.LoadConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	stores, closeStore := openStores(cfg)
	defer closeStore()

	deps := routes.NewDeps(cfg, stores)

	app := fiber.New(fiber.Config{
		AppName:      "echo-me",
		ErrorHandler: controllers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))

	// Swagger UI
	app.Get("/docs/*", swagger.HandlerDefault)

	routes.Setup(app, deps)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openStores picks the in-memory store for MONGO_URI=memory:// and MongoDB
// otherwise. The returned func releases the connection.
func openStores(cfg config.Config) (routes.Stores, func()) {
	if cfg.MongoURI == config.MemoryURI {
		log.Println("using in-memory store; data is lost on exit")
		st := memstore.New()
		return routes.Stores{
			Users:         st.Users(),
			Posts:         st.Posts(),
			Comments:      st.Comments(),
			Notifications: st.Notifications(),
			Name:          "memory",
		}, func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	db := client.Database(cfg.MongoDB)

	if err := bootstrap.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("ensure indexes failed: %v", err)
	}

	return routes.Stores{
		Users:         repository.NewUserRepository(db),
		Posts:         repository.NewPostRepository(db),
		Comments:      repository.NewCommentRepository(db),
		Notifications: repository.NewNotificationRepository(db),
		Name:          "mongodb",
	}, func() { database.DisconnectMongo(client) }
}
