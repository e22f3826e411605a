package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"
	config "postdeck/configs"
	"postdeck/internal/api/handlers"
	"postdeck/internal/api/middleware"
	"postdeck/internal/database"
	job "postdeck/internal/jobs"
	"postdeck/internal/queue"
	"postdeck/internal/repository"
	"postdeck/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    10 * 1024 * 1024, // uploads are capped at 5MB anyway
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-User-ID",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	postRepo := repository.NewPostRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	postingLogRepo := repository.NewPostingLogRepository(db)

	r2Service, err := service.NewR2Service(*cfg)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}
	linkedinService := service.NewLinkedinService(*cfg, tokenRepo, postRepo, mediaRepo, postingLogRepo)
	postService := service.NewPostService(postRepo, mediaRepo)
	uploadService := service.NewUploadService(mediaRepo, r2Service)

	app.Use(middleware.Identity())

	auth := handlers.NewAuthHandler(*cfg, linkedinService)
	app.Get("/api/auth/linkedin", auth.Connect)
	app.Get("/api/auth/linkedin/callback", auth.Callback)
	app.Get("/api/auth/linkedin/status", auth.Status)

	post := handlers.NewPostHandler(postService, linkedinService, uploadService, client)
	app.Post("/api/post-linkedin", post.PublishPost)
	app.Post("/api/upload", post.Upload)
	app.Post("/api/posts/create", post.CreatePost)
	app.Get("/api/posts", post.ListPosts)
	app.Post("/api/posts/approve", post.ApprovePost)
	app.Post("/api/posts/remove", post.RemovePost)

	// cron jobs
	sweepJob := job.NewScheduleSweepJob(postRepo, client)

	// queue
	queueW := queue.NewQueue(postRepo, linkedinService)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", sweepJob.SweepDuePosts)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
