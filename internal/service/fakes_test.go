package service

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"
	"testing"

	"vidtube/internal/data"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/pkg/logger"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = logrus.New()
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// In-memory fakes standing in for MySQL and redis. They reproduce the
// behavior the services rely on: gorm.ErrRecordNotFound on misses, 1062 on
// duplicate subscriptions, and the add-one-side-remove-the-other reaction
// sets.

type userKey struct{ userID, videoID uint64 }

type subKey struct{ userID, channelID uint64 }

type fakeUserRepo struct {
	nextID uint64
	users  map[uint64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*model.User{}}
}

func (f *fakeUserRepo) Create(user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(userID uint64) (*model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeChannelRepo struct {
	nextID   uint64
	channels map[uint64]*model.Channel
	subs     map[subKey]bool
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{
		channels: map[uint64]*model.Channel{},
		subs:     map[subKey]bool{},
	}
}

func (f *fakeChannelRepo) Create(channel *model.Channel) error {
	for _, existing := range f.channels {
		if existing.Name == channel.Name {
			return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	f.nextID++
	channel.ID = f.nextID
	f.channels[channel.ID] = channel
	return nil
}

func (f *fakeChannelRepo) FindByID(channelID uint64) (*model.Channel, error) {
	channel, ok := f.channels[channelID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return channel, nil
}

func (f *fakeChannelRepo) FindByOwner(ownerID uint64) (*model.Channel, error) {
	for _, channel := range f.channels {
		if channel.OwnerID == ownerID {
			return channel, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChannelRepo) FindByName(name string) (*model.Channel, error) {
	for _, channel := range f.channels {
		if channel.Name == name {
			return channel, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChannelRepo) FindAll() ([]model.Channel, error) {
	var out []model.Channel
	for _, channel := range f.channels {
		out = append(out, *channel)
	}
	return out, nil
}

func (f *fakeChannelRepo) UpdateFields(channelID uint64, fields map[string]interface{}) error {
	channel, ok := f.channels[channelID]
	if !ok {
		return nil
	}
	if v, ok := fields["name"]; ok {
		channel.Name = v.(string)
	}
	if v, ok := fields["description"]; ok {
		channel.Description = v.(string)
	}
	if v, ok := fields["banner_url"]; ok {
		channel.BannerURL = v.(string)
	}
	return nil
}

func (f *fakeChannelRepo) Delete(channelID uint64) error {
	delete(f.channels, channelID)
	return nil
}

func (f *fakeChannelRepo) IsSubscribed(userID, channelID uint64) (bool, error) {
	return f.subs[subKey{userID, channelID}], nil
}

func (f *fakeChannelRepo) CreateSubscription(sub *model.Subscription) error {
	key := subKey{sub.UserID, sub.ChannelID}
	if f.subs[key] {
		return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	f.subs[key] = true
	return nil
}

func (f *fakeChannelRepo) IncrementSubscriberCount(channelID uint64) error {
	if channel, ok := f.channels[channelID]; ok {
		channel.SubscriberCount++
	}
	return nil
}

func (f *fakeChannelRepo) DeleteSubscriptionsByChannel(channelID uint64) error {
	for key := range f.subs {
		if key.channelID == channelID {
			delete(f.subs, key)
		}
	}
	return nil
}

func (f *fakeChannelRepo) WithTx(tx *gorm.DB) repository.ChannelRepository { return f }

type fakeVideoRepo struct {
	nextID uint64
	videos map[uint64]*model.Video
	cache  map[uint64]*model.Video

	findByIDCalls int
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{
		videos: map[uint64]*model.Video{},
		cache:  map[uint64]*model.Video{},
	}
}

func (f *fakeVideoRepo) Create(video *model.Video) error {
	f.nextID++
	video.ID = f.nextID
	f.videos[video.ID] = video
	return nil
}

func (f *fakeVideoRepo) FindByID(videoID uint64) (*model.Video, error) {
	f.findByIDCalls++
	video, ok := f.videos[videoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return video, nil
}

func (f *fakeVideoRepo) FindAll() ([]model.Video, error) {
	var out []model.Video
	for _, video := range f.videos {
		out = append(out, *video)
	}
	return out, nil
}

func (f *fakeVideoRepo) FindByUploader(uploaderID uint64) ([]model.Video, error) {
	var out []model.Video
	for _, video := range f.videos {
		if video.UploaderID == uploaderID {
			out = append(out, *video)
		}
	}
	return out, nil
}

func (f *fakeVideoRepo) SearchByTitle(query string) ([]model.Video, error) {
	var out []model.Video
	for _, video := range f.videos {
		if strings.Contains(strings.ToLower(video.Title), strings.ToLower(query)) {
			out = append(out, *video)
		}
	}
	return out, nil
}

func (f *fakeVideoRepo) FindByTags(tags []string) ([]model.Video, error) {
	var out []model.Video
	for _, video := range f.videos {
		for _, want := range tags {
			matched := false
			for _, tag := range video.Tags {
				if tag == want {
					out = append(out, *video)
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeVideoRepo) FindIDsByChannel(channelID uint64) ([]uint64, error) {
	var ids []uint64
	for id, video := range f.videos {
		if video.ChannelID == channelID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeVideoRepo) UpdateFields(videoID uint64, fields map[string]interface{}) error {
	video, ok := f.videos[videoID]
	if !ok {
		return nil
	}
	if v, ok := fields["title"]; ok {
		video.Title = v.(string)
	}
	if v, ok := fields["description"]; ok {
		video.Description = v.(string)
	}
	if v, ok := fields["video_url"]; ok {
		video.VideoURL = v.(string)
	}
	if v, ok := fields["thumbnail_url"]; ok {
		video.ThumbnailURL = v.(string)
	}
	if v, ok := fields["category"]; ok {
		video.Category = v.(string)
	}
	if v, ok := fields["tags"]; ok {
		// The service hands the JSON column its encoded form.
		var tags []string
		if err := json.Unmarshal([]byte(v.(string)), &tags); err != nil {
			return err
		}
		video.Tags = tags
	}
	return nil
}

func (f *fakeVideoRepo) Delete(videoID uint64) error {
	delete(f.videos, videoID)
	return nil
}

func (f *fakeVideoRepo) DeleteByChannel(channelID uint64) error {
	for id, video := range f.videos {
		if video.ChannelID == channelID {
			delete(f.videos, id)
		}
	}
	return nil
}

func (f *fakeVideoRepo) IncrementViews(videoID uint64) (uint64, error) {
	video, ok := f.videos[videoID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	video.Views++
	return video.Views, nil
}

func (f *fakeVideoRepo) IncrementCommentCount(videoID uint64) error {
	if video, ok := f.videos[videoID]; ok {
		video.CommentCount++
	}
	return nil
}

func (f *fakeVideoRepo) DecrementCommentCount(videoID uint64) error {
	if video, ok := f.videos[videoID]; ok && video.CommentCount > 0 {
		video.CommentCount--
	}
	return nil
}

func (f *fakeVideoRepo) SyncReactionCounts(videoID uint64) error { return nil }

func (f *fakeVideoRepo) GetVideoCache(videoID uint64) (*model.Video, error) {
	return f.cache[videoID], nil
}

func (f *fakeVideoRepo) SetVideoCache(video *model.Video) error {
	f.cache[video.ID] = video
	return nil
}

func (f *fakeVideoRepo) DeleteVideoCache(videoID uint64) error {
	delete(f.cache, videoID)
	return nil
}

func (f *fakeVideoRepo) WithTx(tx *gorm.DB) repository.VideoRepository { return f }

type fakeCommentRepo struct {
	nextID   uint64
	comments map[uint64]*model.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[uint64]*model.Comment{}}
}

func (f *fakeCommentRepo) Create(comment *model.Comment) error {
	f.nextID++
	comment.ID = f.nextID
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentRepo) FindByID(commentID uint64) (*model.Comment, error) {
	comment, ok := f.comments[commentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return comment, nil
}

func (f *fakeCommentRepo) FindByVideoID(videoID uint64) ([]model.Comment, error) {
	var out []model.Comment
	for _, comment := range f.comments {
		if comment.VideoID == videoID {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCommentRepo) UpdateText(commentID uint64, text string) error {
	if comment, ok := f.comments[commentID]; ok {
		comment.Text = text
	}
	return nil
}

func (f *fakeCommentRepo) Delete(commentID uint64) error {
	delete(f.comments, commentID)
	return nil
}

func (f *fakeCommentRepo) DeleteByVideos(videoIDs []uint64) error {
	for id, comment := range f.comments {
		for _, videoID := range videoIDs {
			if comment.VideoID == videoID {
				delete(f.comments, id)
				break
			}
		}
	}
	return nil
}

func (f *fakeCommentRepo) WithTx(tx *gorm.DB) repository.CommentRepository { return f }

type fakeReactionRepo struct {
	likers    map[uint64]map[uint64]bool
	dislikers map[uint64]map[uint64]bool
	rows      map[userKey]int8
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{
		likers:    map[uint64]map[uint64]bool{},
		dislikers: map[uint64]map[uint64]bool{},
		rows:      map[userKey]int8{},
	}
}

func (f *fakeReactionRepo) IsLiker(videoID, userID uint64) (bool, error) {
	return f.likers[videoID][userID], nil
}

func (f *fakeReactionRepo) IsDisliker(videoID, userID uint64) (bool, error) {
	return f.dislikers[videoID][userID], nil
}

func (f *fakeReactionRepo) AddLike(videoID, userID uint64) error {
	if f.likers[videoID] == nil {
		f.likers[videoID] = map[uint64]bool{}
	}
	f.likers[videoID][userID] = true
	delete(f.dislikers[videoID], userID)
	return nil
}

func (f *fakeReactionRepo) RemoveLike(videoID, userID uint64) error {
	delete(f.likers[videoID], userID)
	return nil
}

func (f *fakeReactionRepo) AddDislike(videoID, userID uint64) error {
	if f.dislikers[videoID] == nil {
		f.dislikers[videoID] = map[uint64]bool{}
	}
	f.dislikers[videoID][userID] = true
	delete(f.likers[videoID], userID)
	return nil
}

func (f *fakeReactionRepo) RemoveDislike(videoID, userID uint64) error {
	delete(f.dislikers[videoID], userID)
	return nil
}

func (f *fakeReactionRepo) LikerIDs(videoID uint64) ([]uint64, error) {
	return sortedIDs(f.likers[videoID]), nil
}

func (f *fakeReactionRepo) DislikerIDs(videoID uint64) ([]uint64, error) {
	return sortedIDs(f.dislikers[videoID]), nil
}

func (f *fakeReactionRepo) ClearVideo(videoID uint64) error {
	delete(f.likers, videoID)
	delete(f.dislikers, videoID)
	return nil
}

func (f *fakeReactionRepo) Upsert(userID, videoID uint64, value int8) error {
	f.rows[userKey{userID, videoID}] = value
	return nil
}

func (f *fakeReactionRepo) DeleteRow(userID, videoID uint64) error {
	delete(f.rows, userKey{userID, videoID})
	return nil
}

func (f *fakeReactionRepo) DeleteByVideo(videoID uint64) error {
	for key := range f.rows {
		if key.videoID == videoID {
			delete(f.rows, key)
		}
	}
	return nil
}

func (f *fakeReactionRepo) DeleteByVideos(videoIDs []uint64) error {
	for _, id := range videoIDs {
		f.DeleteByVideo(id)
	}
	return nil
}

func (f *fakeReactionRepo) WithTx(tx *gorm.DB) repository.ReactionRepository { return f }

func sortedIDs(set map[uint64]bool) []uint64 {
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// fakeUnitOfWork runs the function directly against the plain fakes, no
// transaction semantics.
type fakeUnitOfWork struct {
	channelRepo  repository.ChannelRepository
	videoRepo    repository.VideoRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
}

func (f *fakeUnitOfWork) Execute(fn func(repos *data.TransactionalRepositories) error) error {
	return fn(&data.TransactionalRepositories{
		ChannelRepo:  f.channelRepo,
		VideoRepo:    f.videoRepo,
		CommentRepo:  f.commentRepo,
		ReactionRepo: f.reactionRepo,
	})
}

type publishedMessage struct {
	Queue string
	Body  []byte
}

type fakePublisher struct {
	messages []publishedMessage
}

func (f *fakePublisher) Publish(queue string, body []byte) error {
	f.messages = append(f.messages, publishedMessage{Queue: queue, Body: body})
	return nil
}
