package feedback

import "time"

const (
	// collection name
	feedbackNode string = "feedback"

	// Fields' name and path
	IdFieldPath        string = "id"
	UserUidFieldPath   string = "userUid"
	ProductIdFieldPath string = "productId"
	PostDateFieldPath  string = "postDate"
	SumLikeFieldPath   string = "sumLike"

	// It must not exceed the write timeout of the database.firestore.notifyOnChanges
	channelWriteTimeout time.Duration = time.Second * 3
)
