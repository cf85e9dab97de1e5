package model

import (
	"fmt"
	"strings"
)

type SortCondition int

const (
	SortTrend SortCondition = iota
	SortNew
	SortLikeLarge
	SortLikeSmall
)

func (c SortCondition) String() string {
	switch c {
	case SortTrend:
		return "Trend"
	case SortNew:
		return "New"
	case SortLikeLarge:
		return "LikeLarge"
	case SortLikeSmall:
		return "LikeSmall"
	}
	return fmt.Sprintf("SortCondition(%d)", int(c))
}

func ParseSortCondition(s string) (SortCondition, error) {
	switch strings.ToLower(s) {
	case "trend", "":
		return SortTrend, nil
	case "new":
		return SortNew, nil
	case "likelarge":
		return SortLikeLarge, nil
	case "likesmall":
		return SortLikeSmall, nil
	}
	return 0, fmt.Errorf("unknown sort condition %q", s)
}

type SortDirection int

const (
	Desc SortDirection = iota
	Asc
)

func (d SortDirection) String() string {
	switch d {
	case Desc:
		return "Desc"
	case Asc:
		return "Asc"
	}
	return fmt.Sprintf("SortDirection(%d)", int(d))
}

func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(s) {
	case "desc", "":
		return Desc, nil
	case "asc":
		return Asc, nil
	}
	return 0, fmt.Errorf("unknown sort direction %q", s)
}

type UserProductsMode int

const (
	Posted UserProductsMode = iota
	Commented
	Liked
)

func (m UserProductsMode) String() string {
	switch m {
	case Posted:
		return "POSTED"
	case Commented:
		return "FEEDBACK"
	case Liked:
		return "LIKE"
	}
	return fmt.Sprintf("UserProductsMode(%d)", int(m))
}

func ParseUserProductsMode(s string) (UserProductsMode, error) {
	switch strings.ToUpper(s) {
	case "POSTED", "":
		return Posted, nil
	case "FEEDBACK":
		return Commented, nil
	case "LIKE":
		return Liked, nil
	}
	return 0, fmt.Errorf("unknown user products mode %q", s)
}

type LikeDirection int

const (
	Up LikeDirection = iota
	Down
)

func (d LikeDirection) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	}
	return fmt.Sprintf("LikeDirection(%d)", int(d))
}

func ParseLikeDirection(s string) (LikeDirection, error) {
	switch strings.ToUpper(s) {
	case "UP", "":
		return Up, nil
	case "DOWN":
		return Down, nil
	}
	return 0, fmt.Errorf("unknown like direction %q", s)
}
