package tag

import "context"

type IRepository interface {
	// Search returns registered tag names containing substring, case-insensitively.
	Search(ctx context.Context, substring string) ([]string, error)
	// Invalidate drops any cached search results.
	Invalidate(ctx context.Context)
}

type Cache interface {
	// Get returns the cached names of query and the generation it looked under.
	// The generation is empty when the cache cannot be read.
	Get(ctx context.Context, query string) (names []string, gen string, ok bool)
	// Set stores names under gen. Names stored under an invalidated generation are never read.
	Set(ctx context.Context, gen, query string, names []string)
	Invalidate(ctx context.Context) error
}
