package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-firestore-portfolio/internal/config"
	"go-firestore-portfolio/internal/database"
	identity "go-firestore-portfolio/internal/identity/firebase"
	"go-firestore-portfolio/internal/logger"
	"go-firestore-portfolio/internal/portfolio"
	feedbackRepository "go-firestore-portfolio/internal/repository/feedback"
	likeRepository "go-firestore-portfolio/internal/repository/like"
	productRepository "go-firestore-portfolio/internal/repository/product"
	tagRepository "go-firestore-portfolio/internal/repository/tag"
	userInfoRepository "go-firestore-portfolio/internal/repository/userinfo"
	"go-firestore-portfolio/internal/server"

	Firebase "firebase.google.com/go/v4"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

func main() {

	cnf := config.LoadConfigOrPanic()
	logger.Setup(cnf.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	app := createFirebaseAppOrPanic(ctx, cnf.Firebase)
	firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.WriteTimeoutSecond)
	defer firestoreClient.Close()

	authClient, err := app.Auth(ctx)
	if err != nil {
		panic(err)
	}

	tagCache, closeCache := createTagCache(ctx, cnf.Redis)
	defer closeCache()

	svc := portfolio.New(
		productRepository.New(&firestoreClient),
		feedbackRepository.New(&firestoreClient),
		userInfoRepository.New(&firestoreClient),
		tagRepository.New(&firestoreClient, tagCache),
		likeRepository.New(&firestoreClient))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := server.New(cnf.Http, svc, identity.New(authClient), reg)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.Run(gctx)
	})

	select {
	case sig := <-sigs:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-gctx.Done():
		// the server failed, continue to shutdown
	}

	cancel() // cancel the root context to stop the server and every open stream

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Msg("stopped with error")
			os.Exit(1)
		}
	case <-time.After(cnf.ShutdownGrace + time.Second):
		log.Error().Msg("shutdown timed out")
		os.Exit(1)
	case <-sigs:
		// forcefully terminate the app with a second signal
		os.Exit(1)
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

// createTagCache connects to Redis when it is configured. Without Redis, or when
// it cannot be reached at startup, tag searches go straight to Firestore.
func createTagCache(ctx context.Context, cnf config.Redis) (tagRepository.Cache, func()) {
	if cnf.Addr == "" {
		return tagRepository.NopCache{}, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cnf.Addr,
		Password: cnf.Password,
		DB:       cnf.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cnf.Addr).Msg("redis unavailable, tag cache disabled")
		_ = rdb.Close()
		return tagRepository.NopCache{}, func() {}
	}

	log.Info().Str("addr", cnf.Addr).Dur("ttl", cnf.TagCacheTTL).Msg("tag cache enabled")
	return tagRepository.NewRedisCache(rdb, cnf.TagCacheTTL), func() { _ = rdb.Close() }
}
