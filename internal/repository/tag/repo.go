package tag

import (
	"context"
	"fmt"

	"go-firestore-portfolio/internal/database"
	"go-firestore-portfolio/internal/model"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
)

type TagRepository struct {
	db    database.Client
	cache Cache
}

var _ IRepository = TagRepository{}

func New(db database.Client, cache Cache) TagRepository {
	if cache == nil {
		cache = NopCache{}
	}
	return TagRepository{
		db:    db,
		cache: cache,
	}
}

func (r TagRepository) Search(ctx context.Context, substring string) ([]string, error) {

	names, gen, ok := r.cache.Get(ctx, key(substring))
	if ok {
		return names, nil
	}

	tags := []model.Tag{}
	query := r.db.Collection(tagNode).Query
	err := r.db.IterDocs(ctx, query, func(ds *firestore.DocumentSnapshot) error {
		t := model.Tag{}
		if err := ds.DataTo(&t); err != nil {
			log.Error().Err(err).Str("doc", ds.Ref.ID).Msg("tag repo: failed to convert doc to tag")
			return nil
		}
		tags = append(tags, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search tags: %w, substring: %s", err, substring)
	}

	names = Match(tags, substring)
	r.cache.Set(ctx, gen, key(substring), names)
	return names, nil
}

// Get returns the registry entry of name.
func (r TagRepository) Get(ctx context.Context, name string) (*model.Tag, error) {
	docSnap, err := r.db.GetDoc(ctx, r.db.Collection(tagNode).Doc(DocId(name)))
	if err != nil {
		return nil, fmt.Errorf("get tag: %w, name: %s", err, name)
	}

	t := &model.Tag{}
	if err := docSnap.DataTo(t); err != nil {
		return nil, fmt.Errorf("get tag: %w, name: %s", err, name)
	}
	return t, nil
}

func (r TagRepository) Invalidate(ctx context.Context) {
	if err := r.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("tag repo: failed to invalidate search cache")
	}
}
