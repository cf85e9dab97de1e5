// Package portfoliotest provides an in-memory implementation of the repositories
// used by portfolio.Service, for tests that do not run against Firestore.
package portfoliotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/model"
	feedbackRepository "go-firestore-portfolio/internal/repository/feedback"
	"go-firestore-portfolio/internal/repository/filter"
	likeRepository "go-firestore-portfolio/internal/repository/like"
	"go-firestore-portfolio/internal/repository/ops"
	productRepository "go-firestore-portfolio/internal/repository/product"
	tagRepository "go-firestore-portfolio/internal/repository/tag"
	userInfoRepository "go-firestore-portfolio/internal/repository/userinfo"
)

// Store keeps every collection behind one mutex, which gives the same
// all-or-nothing behaviour as the Firestore transactions.
type Store struct {
	mu        sync.Mutex
	clock     func() time.Time
	nextId    int
	products  map[string]model.Product
	feedback  map[string]model.Feedback
	users     map[string]model.UserInfo
	tags      map[string]model.Tag
	listeners map[string][]chan feedbackRepository.FeedbackEvent

	Invalidations int
}

func NewStore() *Store {
	return &Store{
		clock:     time.Now,
		products:  map[string]model.Product{},
		feedback:  map[string]model.Feedback{},
		users:     map[string]model.UserInfo{},
		tags:      map[string]model.Tag{},
		listeners: map[string][]chan feedbackRepository.FeedbackEvent{},
	}
}

// SetClock replaces the time source used to stamp documents.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

func (s *Store) Products() productRepository.IRepository { return productStore{s} }
func (s *Store) Feedback() feedbackRepository.IRepository { return feedbackStore{s} }
func (s *Store) UserInfo() userInfoRepository.IRepository { return userInfoStore{s} }
func (s *Store) Tags() tagRepository.IRepository { return tagStore{s} }
func (s *Store) Likes() likeRepository.IRepository { return likeStore{s} }

// Tag returns the registry entry of name.
func (s *Store) Tag(name string) (model.Tag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tags[tagRepository.DocId(name)]
	return t, ok
}

func (s *Store) newId(prefix string) string {
	s.nextId++
	return fmt.Sprintf("%s-%d", prefix, s.nextId)
}

func (s *Store) applyTags(added, removed []string, now time.Time) {
	for _, name := range added {
		t := s.tags[tagRepository.DocId(name)]
		t.Name = name
		t.Count++
		t.UpdatedAt = now
		s.tags[tagRepository.DocId(name)] = t
	}
	for _, name := range removed {
		t := s.tags[tagRepository.DocId(name)]
		t.Count--
		t.UpdatedAt = now
		s.tags[tagRepository.DocId(name)] = t
	}
}

type productStore struct{ s *Store }

func (p productStore) GetById(_ context.Context, id string) (*model.Product, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	product, ok := p.s.products[id]
	if !ok {
		return nil, ierr.NotFoundf("product", id)
	}
	return &product, nil
}

func (p productStore) GetByIds(_ context.Context, ids []string) ([]model.Product, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	out := []model.Product{}
	for _, id := range ids {
		if product, ok := p.s.products[id]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

func (p productStore) List(_ context.Context, where []filter.Where, order []filter.Order) ([]model.Product, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	out := []model.Product{}
	for _, product := range p.s.products {
		if matchProduct(product, where) {
			out = append(out, product)
		}
	}

	// map iteration is random, start from a stable order
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range order {
			c := compareProducts(out[i], out[j], o.Path)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out, nil
}

func matchProduct(p model.Product, where []filter.Where) bool {
	for _, w := range where {
		if w.Path != productRepository.UserUidFieldPath || w.Op != ops.Equal {
			panic(fmt.Sprintf("portfoliotest: unsupported filter %s %s", w.Path, w.Op))
		}
		if p.UserUid != w.Value {
			return false
		}
	}
	return true
}

func compareProducts(a, b model.Product, path string) int {
	switch path {
	case productRepository.SumLikeFieldPath:
		switch {
		case a.SumLike < b.SumLike:
			return -1
		case a.SumLike > b.SumLike:
			return 1
		}
		return 0
	case productRepository.PostDateFieldPath:
		return a.PostDate.Compare(b.PostDate)
	case productRepository.EditDateFieldPath:
		return a.EditDate.Compare(b.EditDate)
	}
	panic(fmt.Sprintf("portfoliotest: unsupported order path %s", path))
}

func (p productStore) Create(_ context.Context, data model.Product) (string, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	data.Id = p.s.newId("product")
	data = productRepository.Prepare(data, p.s.clock())
	p.s.products[data.Id] = data
	p.s.applyTags(data.Tags, nil, data.PostDate)
	return data.Id, nil
}

func (p productStore) owned(id, ownerUid string) (model.Product, error) {
	prev, ok := p.s.products[id]
	if !ok {
		return model.Product{}, ierr.NotFoundf("product", id)
	}
	if prev.UserUid != ownerUid {
		return model.Product{}, ierr.Denied("only the author can change this product")
	}
	return prev, nil
}

func (p productStore) Replace(_ context.Context, id, ownerUid string, data model.Product) (*model.Product, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	prev, err := p.owned(id, ownerUid)
	if err != nil {
		return nil, err
	}

	revised := productRepository.Revise(prev, data, p.s.clock())
	added, removed := tagRepository.Diff(prev.Tags, revised.Tags)
	p.s.products[id] = revised
	p.s.applyTags(added, removed, revised.EditDate)
	return &revised, nil
}

func (p productStore) Delete(_ context.Context, id, ownerUid string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	prev, err := p.owned(id, ownerUid)
	if err != nil {
		return err
	}
	delete(p.s.products, id)
	p.s.applyTags(nil, prev.Tags, p.s.clock())
	return nil
}

type feedbackStore struct{ s *Store }

func (f feedbackStore) GetById(_ context.Context, id string) (*model.Feedback, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	fb, ok := f.s.feedback[id]
	if !ok {
		return nil, ierr.NotFoundf("feedback", id)
	}
	return &fb, nil
}

func (f feedbackStore) list(match func(model.Feedback) bool, desc bool) []model.Feedback {
	out := []model.Feedback{}
	for _, fb := range f.s.feedback {
		if match(fb) {
			out = append(out, fb)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PostDate.Equal(out[j].PostDate) {
			return out[i].PostDate.Before(out[j].PostDate) != desc
		}
		return out[i].Id < out[j].Id
	})
	return out
}

func (f feedbackStore) ListByProduct(_ context.Context, productId string) ([]model.Feedback, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.list(func(fb model.Feedback) bool { return fb.ProductId == productId }, false), nil
}

func (f feedbackStore) ListByUser(_ context.Context, userUid string) ([]model.Feedback, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.list(func(fb model.Feedback) bool { return fb.UserUid == userUid }, true), nil
}

func (f feedbackStore) Create(_ context.Context, data model.Feedback) (string, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.products[data.ProductId]; !ok {
		return "", ierr.NotFoundf("product", data.ProductId)
	}

	data.Id = f.s.newId("feedback")
	data = feedbackRepository.Prepare(data, f.s.clock())
	f.s.feedback[data.Id] = data

	user := f.s.users[data.UserUid]
	user.UserUid = data.UserUid
	if !contains(user.GiveFeedback, data.ProductId) {
		user.GiveFeedback = append(user.GiveFeedback, data.ProductId)
	}
	f.s.users[data.UserUid] = user

	for _, ch := range f.s.listeners[data.ProductId] {
		select {
		case ch <- feedbackRepository.FeedbackEvent{Feedback: data}:
		default:
		}
	}
	return data.Id, nil
}

// NotifyOnAdded replays the current thread and then forwards new feedback.
// The channel is buffered; events that do not fit are dropped.
func (f feedbackStore) NotifyOnAdded(ctx context.Context, productId string) <-chan feedbackRepository.FeedbackEvent {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	ch := make(chan feedbackRepository.FeedbackEvent, 64)
	for _, fb := range f.list(func(fb model.Feedback) bool { return fb.ProductId == productId }, false) {
		ch <- feedbackRepository.FeedbackEvent{Feedback: fb}
	}
	f.s.listeners[productId] = append(f.s.listeners[productId], ch)

	go func() {
		<-ctx.Done()
		f.s.mu.Lock()
		defer f.s.mu.Unlock()
		chans := f.s.listeners[productId]
		for i, c := range chans {
			if c == ch {
				f.s.listeners[productId] = append(chans[:i], chans[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch
}

type userInfoStore struct{ s *Store }

func (u userInfoStore) GetById(_ context.Context, userUid string) (*model.UserInfo, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	info, ok := u.s.users[userUid]
	if !ok {
		return nil, ierr.NotFoundf("userInfo", userUid)
	}
	return &info, nil
}

func (u userInfoStore) Upsert(_ context.Context, userUid string, profile model.Profile) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	info := u.s.users[userUid]
	info.UserUid = userUid
	info.Name = profile.Name
	info.UserIcon = profile.UserIcon
	info.Comment = profile.Comment
	info.GithubUrl = profile.GithubUrl
	info.TwitterUrl = profile.TwitterUrl
	info.OtherUrl = profile.OtherUrl
	u.s.users[userUid] = info
	return nil
}

func (u userInfoStore) IsRegistered(_ context.Context, userUid string) (bool, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	info, ok := u.s.users[userUid]
	return ok && info.Name != "", nil
}

type tagStore struct{ s *Store }

func (t tagStore) Search(_ context.Context, substring string) ([]string, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	tags := make([]model.Tag, 0, len(t.s.tags))
	for _, tag := range t.s.tags {
		tags = append(tags, tag)
	}
	return tagRepository.Match(tags, substring), nil
}

func (t tagStore) Invalidate(context.Context) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.Invalidations++
}

type likeStore struct{ s *Store }

func (l likeStore) Toggle(_ context.Context, target likeRepository.Target, userUid string, dir model.LikeDirection) (int64, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	var current *int64
	switch target.Kind {
	case likeRepository.ProductTarget:
		p, ok := l.s.products[target.Id]
		if !ok {
			return 0, ierr.NotFoundf(target.Kind.String(), target.Id)
		}
		defer func() { l.s.products[target.Id] = p }()
		current = &p.SumLike
	case likeRepository.FeedbackTarget:
		fb, ok := l.s.feedback[target.Id]
		if !ok {
			return 0, ierr.NotFoundf(target.Kind.String(), target.Id)
		}
		defer func() { l.s.feedback[target.Id] = fb }()
		current = &fb.SumLike
	default:
		return 0, fmt.Errorf("unknown like target kind %d", target.Kind)
	}

	user := l.s.users[userUid]
	user.UserUid = userUid
	delta := likeRepository.Delta(user.Likes(target.Id), dir)
	switch {
	case delta > 0:
		user.GiveLike = append(user.GiveLike, target.Id)
	case delta < 0:
		user.GiveLike = remove(user.GiveLike, target.Id)
	}
	l.s.users[userUid] = user

	*current += delta
	return *current, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0:0]
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
