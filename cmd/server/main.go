package main

import (
	"log"

	"vidtube/config"
	"vidtube/internal/data"
	"vidtube/internal/handler"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/router"
	"vidtube/internal/service"
	"vidtube/pkg/logger"
	"vidtube/pkg/rabbitmq"
	"vidtube/pkg/redis"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	logger.InitLogger()

	cfg := config.Load()

	redisClient, err := redis.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Log.Fatalf("failed to connect to redis: %v", err)
	}
	logger.Log.Info("redis connected")

	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.AMQPURL)
	if err != nil {
		logger.Log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer rabbitMQConn.Close()
	logger.Log.Info("rabbitmq connected")

	publisher, err := rabbitmq.NewPublisher(rabbitMQConn, service.QueueReaction, service.QueueView)
	if err != nil {
		logger.Log.Fatalf("failed to declare queues: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("failed to connect to database: %v", err)
	}
	logger.Log.Info("database connected")

	err = db.AutoMigrate(
		&model.User{},
		&model.Channel{},
		&model.Subscription{},
		&model.Video{},
		&model.Reaction{},
		&model.Comment{},
		&model.ViewEvent{},
	)
	if err != nil {
		logger.Log.Fatalf("database migration failed: %v", err)
	}
	logger.Log.Info("database migrated")

	userRepo := repository.NewUserRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	videoRepo := repository.NewVideoRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db, redisClient)

	uow := data.NewUnitOfWork(db, channelRepo, videoRepo, commentRepo, reactionRepo)

	userService := service.NewUserService(userRepo, cfg.JWTSecret)
	channelService := service.NewChannelService(channelRepo, videoRepo, reactionRepo, uow)
	videoService := service.NewVideoService(videoRepo, channelRepo, commentRepo, reactionRepo, uow, publisher)
	reactionService := service.NewReactionService(videoRepo, reactionRepo, publisher)
	commentService := service.NewCommentService(commentRepo, videoRepo, uow)

	userHandler := handler.NewUserHandler(userService)
	channelHandler := handler.NewChannelHandler(channelService)
	videoHandler := handler.NewVideoHandler(videoService)
	reactionHandler := handler.NewReactionHandler(reactionService)
	commentHandler := handler.NewCommentHandler(commentService)

	r := router.SetupRouter(userHandler, channelHandler, videoHandler, reactionHandler, commentHandler)
	logger.Log.Printf("server starting on %s", cfg.HTTPAddr)

	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Log.Fatalf("server failed to start: %v", err)
	}
}
