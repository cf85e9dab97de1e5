package model

type UserInfo struct {
	UserUid      string   `firestore:"userUid" json:"userUid"`
	Name         string   `firestore:"name" json:"name"`
	UserIcon     string   `firestore:"userIcon" json:"userIcon"`
	Comment      string   `firestore:"comment" json:"comment"`
	GithubUrl    string   `firestore:"githubUrl" json:"githubUrl"`
	TwitterUrl   string   `firestore:"twitterUrl" json:"twitterUrl"`
	OtherUrl     string   `firestore:"otherUrl" json:"otherUrl"`
	GiveLike     []string `firestore:"giveLike" json:"giveLike"`         // liked Product and Feedback ids
	GiveFeedback []string `firestore:"giveFeedback" json:"giveFeedback"` // Product ids
}

// Profile holds the user-editable part of UserInfo.
type Profile struct {
	Name       string `json:"name"`
	UserIcon   string `json:"userIcon"`
	Comment    string `json:"comment"`
	GithubUrl  string `json:"githubUrl"`
	TwitterUrl string `json:"twitterUrl"`
	OtherUrl   string `json:"otherUrl"`
}

func (u UserInfo) Likes(id string) bool {
	for _, v := range u.GiveLike {
		if v == id {
			return true
		}
	}
	return false
}
