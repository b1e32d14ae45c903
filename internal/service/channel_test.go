package service

import (
	"testing"

	"vidtube/internal/model"
	"vidtube/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type channelFixture struct {
	channelRepo  *fakeChannelRepo
	videoRepo    *fakeVideoRepo
	commentRepo  *fakeCommentRepo
	reactionRepo *fakeReactionRepo
	svc          ChannelService
}

func newChannelFixture() *channelFixture {
	f := &channelFixture{
		channelRepo:  newFakeChannelRepo(),
		videoRepo:    newFakeVideoRepo(),
		commentRepo:  newFakeCommentRepo(),
		reactionRepo: newFakeReactionRepo(),
	}
	uow := &fakeUnitOfWork{
		channelRepo:  f.channelRepo,
		videoRepo:    f.videoRepo,
		commentRepo:  f.commentRepo,
		reactionRepo: f.reactionRepo,
	}
	f.svc = NewChannelService(f.channelRepo, f.videoRepo, f.reactionRepo, uow)
	return f
}

func TestCreateChannel(t *testing.T) {
	f := newChannelFixture()

	channel, err := f.svc.Create(1, "my channel", "about things", "banner.jpg")
	require.NoError(t, err)
	assert.NotZero(t, channel.ID)
	assert.Equal(t, uint64(1), channel.OwnerID)
}

func TestCreateChannelMissingName(t *testing.T) {
	f := newChannelFixture()

	_, err := f.svc.Create(1, "", "", "")
	assert.ErrorIs(t, err, apperrors.ErrChannelNameMissing)
}

func TestCreateChannelNameTaken(t *testing.T) {
	f := newChannelFixture()

	_, err := f.svc.Create(1, "my channel", "", "")
	require.NoError(t, err)

	_, err = f.svc.Create(2, "my channel", "", "")
	assert.ErrorIs(t, err, apperrors.ErrChannelNameTaken)
}

func TestCreateSecondChannelSameOwner(t *testing.T) {
	f := newChannelFixture()

	_, err := f.svc.Create(1, "first", "", "")
	require.NoError(t, err)

	_, err = f.svc.Create(1, "second", "", "")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyHasChannel)
}

func TestUpdateChannelOwnerOnly(t *testing.T) {
	f := newChannelFixture()

	channel, err := f.svc.Create(1, "my channel", "old", "")
	require.NoError(t, err)

	desc := "new"
	_, err = f.svc.Update(2, channel.ID, ChannelPatch{Description: &desc})
	assert.ErrorIs(t, err, apperrors.ErrNotChannelOwner)

	updated, err := f.svc.Update(1, channel.ID, ChannelPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, "my channel", updated.Name)
}

func TestUpdateChannelUnknown(t *testing.T) {
	f := newChannelFixture()

	_, err := f.svc.Update(1, 999, ChannelPatch{})
	assert.ErrorIs(t, err, apperrors.ErrChannelNotFound)
}

func TestSubscribeIncrementsCount(t *testing.T) {
	f := newChannelFixture()

	channel, err := f.svc.Create(1, "my channel", "", "")
	require.NoError(t, err)

	count, err := f.svc.Subscribe(2, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	subscribed, err := f.channelRepo.IsSubscribed(2, channel.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)
}

func TestSubscribeTwiceRejected(t *testing.T) {
	f := newChannelFixture()

	channel, err := f.svc.Create(1, "my channel", "", "")
	require.NoError(t, err)

	_, err = f.svc.Subscribe(2, channel.ID)
	require.NoError(t, err)

	_, err = f.svc.Subscribe(2, channel.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadySubscribed)
}

func TestSubscribeUnknownChannel(t *testing.T) {
	f := newChannelFixture()

	_, err := f.svc.Subscribe(2, 999)
	assert.ErrorIs(t, err, apperrors.ErrChannelNotFound)
}

func TestDeleteChannelOwnerOnly(t *testing.T) {
	f := newChannelFixture()

	channel, err := f.svc.Create(1, "my channel", "", "")
	require.NoError(t, err)

	err = f.svc.Delete(2, channel.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotChannelOwner)
}

// Deleting a channel takes its videos with it, and all comments and
// reactions on those videos, plus the subscriptions.
func TestDeleteChannelCascades(t *testing.T) {
	f := newChannelFixture()

	channel, err := f.svc.Create(1, "my channel", "", "")
	require.NoError(t, err)

	video := &model.Video{UploaderID: 1, ChannelID: channel.ID, Title: "t", VideoURL: "u"}
	require.NoError(t, f.videoRepo.Create(video))

	otherVideo := &model.Video{UploaderID: 2, ChannelID: 999, Title: "other", VideoURL: "u"}
	require.NoError(t, f.videoRepo.Create(otherVideo))

	require.NoError(t, f.commentRepo.Create(&model.Comment{VideoID: video.ID, UserID: 2, Text: "hi"}))
	keptComment := &model.Comment{VideoID: otherVideo.ID, UserID: 2, Text: "kept"}
	require.NoError(t, f.commentRepo.Create(keptComment))

	require.NoError(t, f.reactionRepo.Upsert(2, video.ID, model.ReactionLike))
	_, err = f.svc.Subscribe(2, channel.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(1, channel.ID))

	_, err = f.channelRepo.FindByID(channel.ID)
	assert.Error(t, err)
	_, err = f.videoRepo.FindByID(video.ID)
	assert.Error(t, err)

	comments, err := f.commentRepo.FindByVideoID(video.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	// The other channel's video and comment stay.
	_, err = f.videoRepo.FindByID(otherVideo.ID)
	assert.NoError(t, err)
	kept, err := f.commentRepo.FindByVideoID(otherVideo.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	assert.Empty(t, f.reactionRepo.rows)
	subscribed, err := f.channelRepo.IsSubscribed(2, channel.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}
