// Package seed fills an empty project with generated users, products and tags.
package seed

import (
	"context"
	"fmt"
	"time"

	"go-firestore-portfolio/internal/database"
	"go-firestore-portfolio/internal/model"
	productRepository "go-firestore-portfolio/internal/repository/product"
	tagRepository "go-firestore-portfolio/internal/repository/tag"
	userInfoRepository "go-firestore-portfolio/internal/repository/userinfo"

	"cloud.google.com/go/firestore"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"
)

var tagPool = []string{
	"Go", "React", "TypeScript", "Firebase", "Rust",
	"Python", "Docker", "Next.js", "Flutter", "Kotlin",
}

type User struct {
	Uid     string
	Profile model.Profile
}

type Plan struct {
	Users     []User
	Products  []model.Product
	TagCounts map[string]int64
}

// NewPlan generates users and products. Products are spread over the users and
// posted one hour apart, newest first.
func NewPlan(faker *gofakeit.Faker, users, products int, now time.Time) Plan {
	plan := Plan{TagCounts: map[string]int64{}}
	if users < 1 {
		users = 1
	}

	for i := 0; i < users; i++ {
		plan.Users = append(plan.Users, User{
			Uid: faker.UUID(),
			Profile: model.Profile{
				Name:      faker.Name(),
				UserIcon:  faker.ImageURL(96, 96),
				Comment:   faker.HipsterSentence(6),
				GithubUrl: "https://github.com/" + faker.Username(),
			},
		})
	}

	for i := 0; i < products; i++ {
		author := plan.Users[i%len(plan.Users)]
		data := productRepository.Prepare(model.Product{
			ProductTitle:    faker.AppName(),
			ProductAbstract: faker.Sentence(10),
			ProductIconUrl:  faker.ImageURL(128, 128),
			GithubUrl:       "https://github.com/" + faker.Username() + "/" + faker.Word(),
			ProductUrl:      faker.URL(),
			Tags:            pickTags(faker),
			MainText:        "## " + faker.HipsterSentence(3) + "\n\n" + faker.Paragraph(2, 4, 12, "\n\n"),
			UserUid:         author.Uid,
		}, now.Add(-time.Duration(i)*time.Hour))

		for _, t := range data.Tags {
			plan.TagCounts[t]++
		}
		plan.Products = append(plan.Products, data)
	}
	return plan
}

func pickTags(faker *gofakeit.Faker) []string {
	tags := append([]string(nil), tagPool...)
	faker.ShuffleStrings(tags)
	return tags[:faker.Number(1, 3)]
}

// Write stores plan with batched writes and returns the new product ids.
// Tag counts are added to whatever the registry already holds.
func Write(ctx context.Context, db database.Client, plan Plan, now time.Time) ([]string, error) {
	batch := make([]database.DataBatch, 0, len(plan.Users)+len(plan.Products)+len(plan.TagCounts))

	for _, u := range plan.Users {
		batch = append(batch, database.DataBatch{
			DocRef: userInfoRepository.DocRef(db, u.Uid),
			Data:   userInfoRepository.ProfileData(u.Uid, u.Profile),
			Opts:   []firestore.SetOption{firestore.MergeAll},
		})
	}

	ids := make([]string, 0, len(plan.Products))
	for _, p := range plan.Products {
		docRef := productRepository.NewDocRef(db)
		p.Id = docRef.ID
		ids = append(ids, p.Id)
		batch = append(batch, database.DataBatch{DocRef: docRef, Data: p})
	}

	for name, count := range plan.TagCounts {
		batch = append(batch, database.DataBatch{
			DocRef: tagRepository.CountRef(db, name),
			Data:   tagRepository.CountData(name, count, now),
			Opts:   []firestore.SetOption{firestore.MergeAll},
		})
	}

	if _, err := db.SetDocs(ctx, batch); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	log.Info().
		Int("users", len(plan.Users)).
		Int("products", len(plan.Products)).
		Int("tags", len(plan.TagCounts)).
		Msg("seeded")
	return ids, nil
}
