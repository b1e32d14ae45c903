package data

import (
	"vidtube/internal/repository"

	"gorm.io/gorm"
)

// UnitOfWork runs a function inside one database transaction, handing it
// repositories bound to that transaction. Used for every multi-entity write:
// channel deletion cascades, comment add/delete with the video counter, and
// the consumer's reaction persistence.
type UnitOfWork interface {
	Execute(fn func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories holds the repositories taking part in one
// transaction.
type TransactionalRepositories struct {
	ChannelRepo  repository.ChannelRepository
	VideoRepo    repository.VideoRepository
	CommentRepo  repository.CommentRepository
	ReactionRepo repository.ReactionRepository
}

type gormUnitOfWork struct {
	db           *gorm.DB
	channelRepo  repository.ChannelRepository
	videoRepo    repository.VideoRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
}

// NewUnitOfWork takes the plain, non-transactional repositories; Execute
// derives one-shot transactional copies from them per call.
func NewUnitOfWork(db *gorm.DB, channelRepo repository.ChannelRepository, videoRepo repository.VideoRepository, commentRepo repository.CommentRepository, reactionRepo repository.ReactionRepository) UnitOfWork {
	return &gormUnitOfWork{
		db:           db,
		channelRepo:  channelRepo,
		videoRepo:    videoRepo,
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
	}
}

func (u *gormUnitOfWork) Execute(fn func(repos *TransactionalRepositories) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		repos := &TransactionalRepositories{
			ChannelRepo:  u.channelRepo.WithTx(tx),
			VideoRepo:    u.videoRepo.WithTx(tx),
			CommentRepo:  u.commentRepo.WithTx(tx),
			ReactionRepo: u.reactionRepo.WithTx(tx),
		}
		// The callback's error decides commit vs rollback.
		return fn(repos)
	})
}
