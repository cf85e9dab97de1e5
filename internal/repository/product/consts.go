package product

const (
	// collection name
	productNode string = "product"

	// Fields' name and path
	IdFieldPath       string = "id"
	TagsFieldPath     string = "tags"
	PostDateFieldPath string = "postDate"
	EditDateFieldPath string = "editDate"
	SumLikeFieldPath  string = "sumLike"
	UserUidFieldPath  string = "userUid"
)
