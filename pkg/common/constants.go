package common

const (
	// RedisBatchLockKeyPrefix is the per-digest-date lock guarding against
	// overlapping batch runs. Full key: prefix + "2006-01-02".
	RedisBatchLockKeyPrefix = "news.batch.lock:"
)
