package userinfo

const (
	// collection name
	userInfoNode string = "userInfo"

	// Fields' name and path
	UserUidFieldPath      string = "userUid"
	NameFieldPath         string = "name"
	UserIconFieldPath     string = "userIcon"
	CommentFieldPath      string = "comment"
	GithubUrlFieldPath    string = "githubUrl"
	TwitterUrlFieldPath   string = "twitterUrl"
	OtherUrlFieldPath     string = "otherUrl"
	GiveLikeFieldPath     string = "giveLike"
	GiveFeedbackFieldPath string = "giveFeedback"
)
