package like

import (
	"fmt"

	"go-firestore-portfolio/internal/model"
)

// Delta is the counter change of a like in direction dir, given whether the user already likes the target.
// Liking twice or unliking something not liked changes nothing.
func Delta(liked bool, dir model.LikeDirection) int64 {
	switch dir {
	case model.Up:
		if liked {
			return 0
		}
		return 1
	case model.Down:
		if !liked {
			return 0
		}
		return -1
	}
	panic(fmt.Sprintf("unhandled like direction %d", dir))
}
