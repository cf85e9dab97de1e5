package model

import "time"

type Feedback struct {
	Id           string    `firestore:"id" json:"id"`
	UserUid      string    `firestore:"userUid" json:"userUid"`
	FeedbackText string    `firestore:"feedbackText" json:"feedbackText"`
	ProductId    string    `firestore:"productId" json:"productId"`
	PostDate     time.Time `firestore:"postDate" json:"postDate"`
	SumLike      int64     `firestore:"sumLike" json:"sumLike"`
}
