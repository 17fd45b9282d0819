package consts

const (
	UserFollowerCountKey  = "user:follower:count:"
	UserFollowingCountKey = "user:following:count:"
	FeedCacheKey          = "feed:page:"
	MediaTempKey          = "media:temp"
	TokenBlacklistKey     = "token:blacklist:"
)
