package main

import (
	"fmt"
	"log"
	"math/rand"

	"vidtube/internal/model"

	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var categories = []string{"Music", "Gaming", "Education", "Sports", "News", "Other"}

var tagPool = []string{"tutorial", "vlog", "review", "live", "shorts", "howto", "funny", "tech"}

func main() {
	fmt.Println("seeding test data...")

	dsn := "root:root@tcp(127.0.0.1:3306)/vidtube?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	fmt.Println("database connected")

	// Drop and recreate everything so each run starts clean. This deletes
	// all data.
	db.Migrator().DropTable(
		&model.ViewEvent{},
		&model.Comment{},
		&model.Reaction{},
		&model.Subscription{},
		&model.Video{},
		&model.Channel{},
		&model.User{},
	)
	db.AutoMigrate(
		&model.User{},
		&model.Channel{},
		&model.Subscription{},
		&model.Video{},
		&model.Reaction{},
		&model.Comment{},
		&model.ViewEvent{},
	)
	fmt.Println("tables recreated")

	// Every seeded user signs in with the password "password".
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	userCount := 100
	for i := 0; i < userCount; i++ {
		user := model.User{
			Username:  faker.Username(),
			Email:     faker.Email(),
			Password:  string(hashedPassword),
			AvatarURL: "https://test.com/avatar.png",
		}
		db.Create(&user)
	}
	fmt.Printf("created %d users\n", userCount)

	// One channel per user for the first half of them, keeping the
	// one-channel-per-owner rule intact.
	channelCount := userCount / 2
	for i := 0; i < channelCount; i++ {
		channel := model.Channel{
			Name:        fmt.Sprintf("%s-channel", faker.Username()),
			Description: faker.Sentence(),
			BannerURL:   "https://test.com/banner.jpg",
			OwnerID:     uint64(i + 1),
		}
		db.Create(&channel)
	}
	fmt.Printf("created %d channels\n", channelCount)

	videoCount := 500
	for i := 0; i < videoCount; i++ {
		tags := []string{
			tagPool[rand.Intn(len(tagPool))],
			tagPool[rand.Intn(len(tagPool))],
		}
		channelID := uint64(rand.Intn(channelCount) + 1)
		video := model.Video{
			// The uploader is the channel owner; channel i belongs to
			// user i.
			UploaderID:   channelID,
			ChannelID:    channelID,
			Title:        faker.Sentence(),
			Description:  faker.Paragraph(),
			VideoURL:     "https://test.com/video.mp4",
			ThumbnailURL: "https://test.com/thumbnail.jpg",
			Category:     categories[rand.Intn(len(categories))],
			Tags:         tags,
			Views:        uint64(rand.Intn(10000)),
		}
		db.Create(&video)
	}
	fmt.Printf("created %d videos\n", videoCount)

	subscriptionCount := 300
	for i := 0; i < subscriptionCount; i++ {
		sub := model.Subscription{
			UserID:    uint64(rand.Intn(userCount) + 1),
			ChannelID: uint64(rand.Intn(channelCount) + 1),
		}
		// OnConflict skips the insert when the user already subscribed.
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "channel_id"}},
			DoNothing: true,
		}).Create(&sub)
	}
	fmt.Printf("created up to %d subscriptions\n", subscriptionCount)

	commentCount := 1000
	for i := 0; i < commentCount; i++ {
		comment := model.Comment{
			VideoID: uint64(rand.Intn(videoCount) + 1),
			UserID:  uint64(rand.Intn(userCount) + 1),
			Text:    faker.Sentence(),
		}
		db.Create(&comment)
	}
	fmt.Printf("created %d comments\n", commentCount)

	reactionCount := 2000
	for i := 0; i < reactionCount; i++ {
		value := model.ReactionLike
		if rand.Intn(4) == 0 {
			value = model.ReactionDislike
		}
		reaction := model.Reaction{
			UserID:  uint64(rand.Intn(userCount) + 1),
			VideoID: uint64(rand.Intn(videoCount) + 1),
			Value:   value,
		}
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoNothing: true,
		}).Create(&reaction)
	}
	fmt.Printf("created up to %d reactions\n", reactionCount)

	// Sync the mirrored counters on videos and channels with what was
	// actually inserted.
	db.Exec(`UPDATE videos v SET
		like_count = (SELECT COUNT(*) FROM reactions r WHERE r.video_id = v.id AND r.value = 1),
		dislike_count = (SELECT COUNT(*) FROM reactions r WHERE r.video_id = v.id AND r.value = -1),
		comment_count = (SELECT COUNT(*) FROM comments c WHERE c.video_id = v.id AND c.deleted_at IS NULL)`)
	db.Exec(`UPDATE channels ch SET
		subscriber_count = (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = ch.id AND s.deleted_at IS NULL)`)
	fmt.Println("counters synced")

	fmt.Println("seeding done")
}
