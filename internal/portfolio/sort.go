package portfolio

import (
	"fmt"

	"go-firestore-portfolio/internal/model"
	"go-firestore-portfolio/internal/repository/filter"
	productRepository "go-firestore-portfolio/internal/repository/product"
)

// productOrder maps a listing sort to Firestore orderings. Every condition
// returns its own ordering, there is no shared fallback.
func productOrder(cond model.SortCondition, dir model.SortDirection) ([]filter.Order, error) {
	var desc bool
	switch dir {
	case model.Desc:
		desc = true
	case model.Asc:
		desc = false
	default:
		return nil, fmt.Errorf("unhandled sort direction %d", dir)
	}

	newestFirst := filter.Order{Path: productRepository.PostDateFieldPath, Desc: true}

	switch cond {
	case model.SortTrend:
		return []filter.Order{
			{Path: productRepository.SumLikeFieldPath, Desc: desc},
			{Path: productRepository.PostDateFieldPath, Desc: desc},
		}, nil
	case model.SortNew:
		return []filter.Order{
			{Path: productRepository.PostDateFieldPath, Desc: desc},
		}, nil
	case model.SortLikeLarge:
		return []filter.Order{
			{Path: productRepository.SumLikeFieldPath, Desc: desc},
			newestFirst,
		}, nil
	case model.SortLikeSmall:
		// smallest first is the natural reading of Desc here
		return []filter.Order{
			{Path: productRepository.SumLikeFieldPath, Desc: !desc},
			newestFirst,
		}, nil
	}
	return nil, fmt.Errorf("unhandled sort condition %d", cond)
}
