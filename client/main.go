package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-firestore-portfolio/internal/config"
	"go-firestore-portfolio/internal/database"
	identity "go-firestore-portfolio/internal/identity/firebase"
	"go-firestore-portfolio/internal/logger"
	"go-firestore-portfolio/internal/model"
	"go-firestore-portfolio/internal/optimistic"
	"go-firestore-portfolio/internal/portfolio"
	feedbackRepository "go-firestore-portfolio/internal/repository/feedback"
	likeRepository "go-firestore-portfolio/internal/repository/like"
	productRepository "go-firestore-portfolio/internal/repository/product"
	tagRepository "go-firestore-portfolio/internal/repository/tag"
	userInfoRepository "go-firestore-portfolio/internal/repository/userinfo"
	"go-firestore-portfolio/internal/seed"
	"go-firestore-portfolio/internal/session"

	Firebase "firebase.google.com/go/v4"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

func main() {

	idToken := flag.String("token", os.Getenv("FIREBASE_ID_TOKEN"), "Firebase ID token of the user to act as")
	productFile := flag.String("product", "", "JSON file with a product to post")
	likeId := flag.String("like", "", "id of a product to like")
	unlike := flag.Bool("unlike", false, "take the like back instead")
	watch := flag.Bool("watch", false, "stream feedback of the posted or liked product until interrupted")
	seedProducts := flag.Int("seed", 0, "generate this many demo products before anything else")
	flag.Parse()

	cnf := config.LoadConfigOrPanic()
	logger.Setup(cnf.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := createFirebaseAppOrPanic(ctx, cnf.Firebase)
	firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.WriteTimeoutSecond)
	defer firestoreClient.Close()

	authClient, err := app.Auth(ctx)
	if err != nil {
		panic(err)
	}

	if *seedProducts > 0 {
		now := time.Now().UTC()
		plan := seed.NewPlan(gofakeit.New(now.UnixNano()), *seedProducts/3+1, *seedProducts, now)
		if _, err := seed.Write(ctx, &firestoreClient, plan, now); err != nil {
			log.Fatal().Err(err).Msg("seed")
		}
		if *idToken == "" {
			return
		}
	}

	userInfoRepo := userInfoRepository.New(&firestoreClient)
	svc := portfolio.New(
		productRepository.New(&firestoreClient),
		feedbackRepository.New(&firestoreClient),
		userInfoRepo,
		tagRepository.New(&firestoreClient, nil),
		likeRepository.New(&firestoreClient))

	sess := session.New(identity.New(authClient), userInfoRepo)
	defer sess.Close()

	states, unsubscribe := sess.Subscribe(ctx)
	defer unsubscribe()
	go func() {
		for e := range states {
			if e.Err != nil {
				log.Error().Err(e.Err).Msg("session")
				continue
			}
			if e.Message.User == nil {
				fmt.Println("signed out")
				continue
			}
			fmt.Printf("signed in as %s (%s), registered: %t\n",
				e.Message.User.DisplayName, e.Message.User.Uid, e.Message.Registered)
		}
	}()

	user, err := sess.SignIn(ctx, *idToken)
	if err != nil {
		log.Fatal().Err(err).Msg("sign in")
	}

	productId := *likeId
	if *productFile != "" {
		if productId, err = postProductFromJson(ctx, svc, sess, *productFile); err != nil {
			log.Fatal().Err(err).Msg("post product")
		}
		fmt.Println("posted product:", productId)
	}

	if *likeId != "" {
		dir := model.Up
		if *unlike {
			dir = model.Down
		}
		if err := toggleLike(ctx, svc, user.Uid, *likeId, dir); err != nil {
			log.Error().Err(err).Msg("like")
		}
	}

	if *watch && productId != "" {
		watchFeedback(ctx, svc, productId)
	}
}

func postProductFromJson(ctx context.Context, svc *portfolio.Service, sess *session.Session, filePath string) (string, error) {
	if !sess.Registered() {
		return "", fmt.Errorf("finish registration before posting a product")
	}

	b, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	var in model.ProductInput
	if err := json.Unmarshal(b, &in); err != nil {
		return "", fmt.Errorf("decode %s: %w", filePath, err)
	}
	return svc.CreateProduct(ctx, sess.CurrentUser().Uid, in)
}

// toggleLike shows the expected count right away and settles on the server's
// answer, or rolls back when the write fails.
func toggleLike(ctx context.Context, svc *portfolio.Service, userUid, productId string, dir model.LikeDirection) error {
	product, err := svc.FetchProduct(ctx, productId)
	if err != nil {
		return err
	}

	sumLike := optimistic.New(product.SumLike)
	guess := product.SumLike + 1
	if dir == model.Down {
		guess = product.SumLike - 1
	}

	settled, err := sumLike.Apply(guess, func() (int64, error) {
		fmt.Printf("likes: %d (%s)\n", sumLike.Get(), sumLike.State())
		return svc.CountLikeProduct(ctx, userUid, productId, dir)
	})
	if err != nil {
		fmt.Printf("likes: %d (%s: %v)\n", settled, sumLike.State(), err)
		return err
	}
	fmt.Printf("likes: %d (%s)\n", settled, sumLike.State())
	return nil
}

func watchFeedback(ctx context.Context, svc *portfolio.Service, productId string) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, err := svc.WatchFeedback(ctx, productId)
	if err != nil {
		log.Error().Err(err).Msg("watch feedback")
		return
	}
	for e := range events {
		if e.Err != nil {
			log.Error().Err(e.Err).Msg("feedback stream")
			return
		}
		fmt.Printf("[%s] %s: %s\n", e.Feedback.PostDate.Format(time.RFC3339), e.Feedback.UserUid, e.Feedback.FeedbackText)
	}
}

func createFirebaseAppOrPanic(ctx context.Context, cnf config.Firebase) *Firebase.App {
	firebaseCreds, err := json.Marshal(cnf)
	if err != nil {
		panic(err)
	}

	sa := option.WithCredentialsJSON(firebaseCreds)
	app, err := Firebase.NewApp(ctx, &Firebase.Config{ProjectID: cnf.ProjectId}, sa)
	if err != nil {
		panic(err)
	}
	return app
}

func createFirestoreClientOrPanic(ctx context.Context, app *Firebase.App, writeTimeout time.Duration) database.FirestoreClient {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		panic(err)
	}
	return database.New(firestoreClient, writeTimeout)
}
