package tag

import "time"

const (
	// collection name
	tagNode string = "tags"

	// Fields' name and path
	NameFieldPath      string = "name"
	CountFieldPath     string = "count"
	UpdatedAtFieldPath string = "updatedAt"

	cacheKeyPrefix     string = "tags:search:"
	cacheGenerationKey string = "tags:generation"
	defaultCacheTTL           = time.Minute
)
