// Package portfolio implements the application operations on products, feedback,
// user profiles, tags and likes on top of the Firestore repositories.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/model"
	feedbackRepository "go-firestore-portfolio/internal/repository/feedback"
	"go-firestore-portfolio/internal/repository/filter"
	likeRepository "go-firestore-portfolio/internal/repository/like"
	"go-firestore-portfolio/internal/repository/ops"
	productRepository "go-firestore-portfolio/internal/repository/product"
	tagRepository "go-firestore-portfolio/internal/repository/tag"
	userInfoRepository "go-firestore-portfolio/internal/repository/userinfo"

	"github.com/rs/zerolog/log"
)

const (
	maxTitleLength    = 100
	maxFeedbackLength = 2000
)

type Service struct {
	productRepo  productRepository.IRepository
	feedbackRepo feedbackRepository.IRepository
	userInfoRepo userInfoRepository.IRepository
	tagRepo      tagRepository.IRepository
	likeRepo     likeRepository.IRepository
}

func New(
	productRepo productRepository.IRepository,
	feedbackRepo feedbackRepository.IRepository,
	userInfoRepo userInfoRepository.IRepository,
	tagRepo tagRepository.IRepository,
	likeRepo likeRepository.IRepository) *Service {

	return &Service{
		productRepo:  productRepo,
		feedbackRepo: feedbackRepo,
		userInfoRepo: userInfoRepo,
		tagRepo:      tagRepo,
		likeRepo:     likeRepo,
	}
}

func validateProduct(in model.ProductInput) error {
	title := strings.TrimSpace(in.ProductTitle)
	if title == "" {
		return ierr.Invalid("productTitle", "product title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return ierr.Invalid("productTitle", fmt.Sprintf("product title must be at most %d characters", maxTitleLength))
	}
	return nil
}

// CreateProduct registers the tags of in and stores it as a new product of authorUid.
func (s *Service) CreateProduct(ctx context.Context, authorUid string, in model.ProductInput) (string, error) {
	if err := validateProduct(in); err != nil {
		return "", err
	}

	id, err := s.productRepo.Create(ctx, in.ToProduct(authorUid))
	if err != nil {
		return "", err
	}
	s.tagRepo.Invalidate(ctx)

	log.Info().Str("productId", id).Str("userUid", authorUid).Msg("product created")
	return id, nil
}

// EditProduct overwrites the product with in. The like counter starts over from 0.
func (s *Service) EditProduct(ctx context.Context, actorUid, productId string, in model.ProductInput) (string, error) {
	if err := validateProduct(in); err != nil {
		return "", err
	}

	if _, err := s.productRepo.Replace(ctx, productId, actorUid, in.ToProduct(actorUid)); err != nil {
		return "", err
	}
	s.tagRepo.Invalidate(ctx)

	return productId, nil
}

// DeleteProduct removes the product. Its feedback is not removed.
func (s *Service) DeleteProduct(ctx context.Context, actorUid, productId string) error {
	if err := s.productRepo.Delete(ctx, productId, actorUid); err != nil {
		return err
	}
	s.tagRepo.Invalidate(ctx)

	log.Info().Str("productId", productId).Str("userUid", actorUid).Msg("product deleted")
	return nil
}

func (s *Service) FetchProduct(ctx context.Context, productId string) (*model.Product, error) {
	return s.productRepo.GetById(ctx, productId)
}

func (s *Service) FetchUserInfo(ctx context.Context, userUid string) (*model.UserInfo, error) {
	return s.userInfoRepo.GetById(ctx, userUid)
}

func (s *Service) FetchFeedback(ctx context.Context, productId string) ([]model.Feedback, error) {
	return s.feedbackRepo.ListByProduct(ctx, productId)
}

func (s *Service) FetchProducts(ctx context.Context, cond model.SortCondition, dir model.SortDirection) ([]model.Product, error) {
	order, err := productOrder(cond, dir)
	if err != nil {
		return nil, ierr.Invalid("sort", err.Error())
	}
	return s.productRepo.List(ctx, nil, order)
}

func (s *Service) FetchProductsUser(ctx context.Context, userUid string, mode model.UserProductsMode) ([]model.Product, error) {
	switch mode {
	case model.Posted:
		where, order := postedQuery(userUid)
		return s.productRepo.List(ctx, where, order)

	case model.Commented:
		fbs, err := s.feedbackRepo.ListByUser(ctx, userUid)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(fbs))
		for _, fb := range fbs {
			ids = append(ids, fb.ProductId)
		}
		return s.productRepo.GetByIds(ctx, unique(ids))

	case model.Liked:
		info, err := s.userInfoRepo.GetById(ctx, userUid)
		if errors.Is(err, ierr.NotFound) {
			return []model.Product{}, nil
		}
		if err != nil {
			return nil, err
		}
		// giveLike mixes product and feedback ids; feedback ids simply do not resolve
		return s.productRepo.GetByIds(ctx, unique(info.GiveLike))
	}
	return nil, ierr.Invalid("mode", fmt.Sprintf("unhandled user products mode %d", mode))
}

func (s *Service) FetchTags(ctx context.Context, substring string) ([]string, error) {
	return s.tagRepo.Search(ctx, substring)
}

func (s *Service) CountLikeProduct(ctx context.Context, userUid, productId string, dir model.LikeDirection) (int64, error) {
	return s.likeRepo.Toggle(ctx, likeRepository.Target{Kind: likeRepository.ProductTarget, Id: productId}, userUid, dir)
}

func (s *Service) CountLikeFeedback(ctx context.Context, userUid, feedbackId string, dir model.LikeDirection) (int64, error) {
	return s.likeRepo.Toggle(ctx, likeRepository.Target{Kind: likeRepository.FeedbackTarget, Id: feedbackId}, userUid, dir)
}

func (s *Service) PostFeedbacks(ctx context.Context, userUid, text, productId string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ierr.Invalid("feedbackText", "feedback text is required")
	}
	if len([]rune(text)) > maxFeedbackLength {
		return "", ierr.Invalid("feedbackText", fmt.Sprintf("feedback text must be at most %d characters", maxFeedbackLength))
	}

	return s.feedbackRepo.Create(ctx, model.Feedback{
		UserUid:      userUid,
		FeedbackText: text,
		ProductId:    productId,
	})
}

func (s *Service) PostUserInfo(ctx context.Context, userUid string, profile model.Profile) error {
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		return ierr.Invalid("name", "name is required")
	}
	return s.userInfoRepo.Upsert(ctx, userUid, profile)
}

func (s *Service) IsRegistered(ctx context.Context, userUid string) (bool, error) {
	return s.userInfoRepo.IsRegistered(ctx, userUid)
}

// WatchFeedback streams feedback of productId: the existing thread first, then new posts.
func (s *Service) WatchFeedback(ctx context.Context, productId string) (<-chan feedbackRepository.FeedbackEvent, error) {
	if _, err := s.productRepo.GetById(ctx, productId); err != nil {
		return nil, err
	}
	return s.feedbackRepo.NotifyOnAdded(ctx, productId), nil
}

// postedQuery selects the products of userUid, newest first.
func postedQuery(userUid string) ([]filter.Where, []filter.Order) {
	return []filter.Where{{Path: productRepository.UserUidFieldPath, Op: ops.Equal, Value: userUid}},
		[]filter.Order{{Path: productRepository.PostDateFieldPath, Desc: true}}
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
