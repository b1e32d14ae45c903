package apperrors

var (
	// Identity
	ErrEmailTaken         = AlreadyExists("user already exists")
	ErrUsernameTaken      = AlreadyExists("username is already taken")
	ErrUserNotFound       = NotFound("user not found")
	ErrInvalidCredentials = InvalidArg("invalid password")

	// Channels
	ErrChannelNameTaken   = AlreadyExists("channel name already exists")
	ErrChannelNameMissing = InvalidArg("channel name is required")
	ErrAlreadyHasChannel  = AlreadyExists("user already has a channel")
	ErrChannelNotFound    = NotFound("channel not found")
	ErrNotChannelOwner    = Forbidden("not authorized")
	ErrAlreadySubscribed  = AlreadyExists("already subscribed")

	// Videos
	ErrVideoFieldsMissing = InvalidArg("title, videoUrl and channelId are required")
	ErrVideoNotFound      = NotFound("video not found")
	ErrNotVideoOwner      = Forbidden("you are not allowed to modify this video")
	ErrMissingQuery       = InvalidArg("search query missing")

	// Comments
	ErrMissingText      = InvalidArg("comment text required")
	ErrCommentNotFound  = NotFound("comment not found")
	ErrNotCommentAuthor = Forbidden("you can modify only your comment")
)
