package model

import "time"

type Product struct {
	Id              string    `firestore:"id" json:"id"`
	ProductTitle    string    `firestore:"productTitle" json:"productTitle"`
	ProductAbstract string    `firestore:"productAbstract" json:"productAbstract"`
	ProductIconUrl  string    `firestore:"productIconUrl" json:"productIconUrl"`
	GithubUrl       string    `firestore:"githubUrl" json:"githubUrl"`
	ProductUrl      string    `firestore:"productUrl" json:"productUrl"`
	Tags            []string  `firestore:"tags" json:"tags"`
	MainText        string    `firestore:"mainText" json:"mainText"`
	PostDate        time.Time `firestore:"postDate" json:"postDate"`
	EditDate        time.Time `firestore:"editDate" json:"editDate"`
	SumLike         int64     `firestore:"sumLike" json:"sumLike"`
	UserUid         string    `firestore:"userUid" json:"userUid"`
}

// ProductInput holds the author-editable fields of a Product.
type ProductInput struct {
	ProductTitle    string   `json:"productTitle"`
	ProductAbstract string   `json:"productAbstract"`
	ProductIconUrl  string   `json:"productIconUrl"`
	GithubUrl       string   `json:"githubUrl"`
	ProductUrl      string   `json:"productUrl"`
	Tags            []string `json:"tags"`
	MainText        string   `json:"mainText"`
}

func (in ProductInput) ToProduct(userUid string) Product {
	return Product{
		ProductTitle:    in.ProductTitle,
		ProductAbstract: in.ProductAbstract,
		ProductIconUrl:  in.ProductIconUrl,
		GithubUrl:       in.GithubUrl,
		ProductUrl:      in.ProductUrl,
		Tags:            in.Tags,
		MainText:        in.MainText,
		UserUid:         userUid,
	}
}
