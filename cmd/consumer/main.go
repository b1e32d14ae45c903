package main

import (
	"encoding/json"
	"errors"
	"log"

	"vidtube/config"
	"vidtube/internal/data"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/service"
	"vidtube/pkg/logger"
	"vidtube/pkg/rabbitmq"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	gorm_mysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// The consumer process drains the reaction and view queues into MySQL so
// the redis sets stay the hot path while MySQL holds the durable copy.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	logger.InitLogger()

	cfg := config.Load()

	db, err := gorm.Open(gorm_mysql.Open(cfg.MySQLDSN), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("consumer failed to connect to database: %v", err)
	}

	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.AMQPURL)
	if err != nil {
		logger.Log.Fatalf("consumer failed to connect to rabbitmq: %v", err)
	}
	defer rabbitMQConn.Close()

	// Declares both queues so the consumer can start before the server.
	if _, err := rabbitmq.NewPublisher(rabbitMQConn, service.QueueReaction, service.QueueView); err != nil {
		logger.Log.Fatalf("consumer failed to declare queues: %v", err)
	}

	channelRepo := repository.NewChannelRepository(db)
	videoRepo := repository.NewVideoRepository(db, nil)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db, nil)
	viewEventRepo := repository.NewViewEventRepository(db)
	uow := data.NewUnitOfWork(db, channelRepo, videoRepo, commentRepo, reactionRepo)

	go consumeReactions(rabbitMQConn, uow)
	go consumeViews(rabbitMQConn, viewEventRepo)

	logger.Log.Info(" [*] Waiting for messages. Press CTRL+C to exit")
	forever := make(chan bool)
	<-forever
}

// consumeReactions persists reaction messages: a like/dislike upserts the
// reaction row, an unlike/undislike deletes it, then the mirrored counters
// on the video row are recomputed. The recompute makes redelivery harmless.
func consumeReactions(conn *amqp.Connection, uow data.UnitOfWork) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("failed to open channel: %v", err)
	}
	defer ch.Close()

	msgs, err := ch.Consume(
		service.QueueReaction, // queue
		"",                    // consumer
		false,                 // auto-ack
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,                   // args
	)
	if err != nil {
		logger.Log.Fatalf("failed to register reaction consumer: %v", err)
	}

	for d := range msgs {
		logCtx := logger.Log.WithField("body", string(d.Body)).WithField("redelivered", d.Redelivered)
		logCtx.Info("reaction message received")

		var msg service.ReactionMessage
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			logCtx.WithError(err).Error("failed to decode reaction message")
			// Malformed messages can never succeed, drop them.
			d.Nack(false, false)
			continue
		}

		err := uow.Execute(func(repos *data.TransactionalRepositories) error {
			switch msg.Action {
			case service.ActionLike:
				if err := repos.ReactionRepo.Upsert(msg.UserID, msg.VideoID, model.ReactionLike); err != nil {
					return err
				}
			case service.ActionDislike:
				if err := repos.ReactionRepo.Upsert(msg.UserID, msg.VideoID, model.ReactionDislike); err != nil {
					return err
				}
			case service.ActionUnlike, service.ActionUndislike:
				if err := repos.ReactionRepo.DeleteRow(msg.UserID, msg.VideoID); err != nil {
					return err
				}
			default:
				logCtx.WithField("action", msg.Action).Warn("unknown reaction action, skipping")
				return nil
			}
			return repos.VideoRepo.SyncReactionCounts(msg.VideoID)
		})
		if err != nil {
			var mysqlErr *mysql.MySQLError
			if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
				logCtx.WithError(err).Warn("duplicate key while persisting reaction, treating as a redelivery")
				d.Ack(false)
			} else {
				logCtx.WithError(err).Error("failed to persist reaction, requeueing")
				d.Nack(false, true)
			}
		} else {
			d.Ack(false)
		}
	}
}

// consumeViews records one view_events row per counted view. The view
// counter itself was already bumped synchronously by the server.
func consumeViews(conn *amqp.Connection, repo repository.ViewEventRepository) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("failed to open channel: %v", err)
	}
	defer ch.Close()

	msgs, err := ch.Consume(
		service.QueueView, // queue
		"",                // consumer
		false,             // auto-ack
		false,             // exclusive
		false,             // no-local
		false,             // no-wait
		nil,               // args
	)
	if err != nil {
		logger.Log.Fatalf("failed to register view consumer: %v", err)
	}

	for d := range msgs {
		logCtx := logger.Log.WithField("body", string(d.Body)).WithField("redelivered", d.Redelivered)

		var msg service.ViewMessage
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			logCtx.WithError(err).Error("failed to decode view message")
			d.Nack(false, false)
			continue
		}

		event := &model.ViewEvent{VideoID: msg.VideoID, ClientIP: msg.ClientIP}
		if err := repo.Create(event); err != nil {
			logCtx.WithError(err).Error("failed to record view event, requeueing")
			d.Nack(false, true)
			continue
		}
		d.Ack(false)
	}
}
