package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wb-review-notifier/internal/broadcast"
	"wb-review-notifier/internal/config"
	"wb-review-notifier/internal/database"
	"wb-review-notifier/internal/engine"
	"wb-review-notifier/internal/model"
	"wb-review-notifier/internal/telegram"
	"wb-review-notifier/internal/wb"

	chatRepository "wb-review-notifier/internal/repository/chats"
	stateRepository "wb-review-notifier/internal/repository/state"

	notificationPublisher "wb-review-notifier/internal/eventpublisher/notification"

	Firestore "firebase.google.com/go/v4"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

func main() {

	cnf := config.LoadConfigOrPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	defer close(sigs)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	app := createFirestoreAppOrPanic(ctx, cnf.Firebase)
	firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.Firebase.WriteTimeoutSecond)
	defer firestoreClient.Close()

	stateRepo := stateRepository.New(&firestoreClient)
	chatRepo := chatRepository.New(&firestoreClient)
	lateChatRepo := chatRepository.NewLateReview(&firestoreClient)

	wbClient := wb.NewClient(cnf.Wildberries.ApiUrl, stateRepo)

	eng := engine.New(wbClient, stateRepo, engine.Config{
		OverdueLimit:    cnf.Broadcast.OverdueLimit,
		MaxAnswerDelay:  cnf.Broadcast.MaxAnswerDelay,
		WorkHoursOnly:   cnf.Broadcast.OverdueWorkHoursOnly,
		OpenSetWarnSize: engine.DefaultConfig().OpenSetWarnSize,
	})

	tokens := cnf.Wildberries.Tokens()
	accounts := make([]engine.Account, 0, len(model.AllShops))
	for _, shop := range model.AllShops {
		accounts = append(accounts, engine.Account{Shop: shop, Token: tokens[shop]})
	}

	broadcaster := broadcast.New(eng, stateRepo, accounts, cnf.Broadcast.Interval)
	publisher := notificationPublisher.New(broadcaster.Notifications())

	reviewBot := telegram.NewReviewBot(createBotApiOrPanic(cnf.Telegram.ReviewBotToken), chatRepo)
	lateReviewBot := telegram.NewLateReviewBot(createBotApiOrPanic(cnf.Telegram.LateReviewBotToken), lateChatRepo)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return broadcaster.Run(gctx)
	})
	group.Go(func() error {
		return publisher.Start(gctx)
	})
	group.Go(func() error {
		return reviewBot.ConsumeNotifications(gctx, publisher)
	})
	group.Go(func() error {
		return lateReviewBot.ConsumeNotifications(gctx, publisher)
	})
	group.Go(func() error {
		return reviewBot.HandleUpdates(gctx)
	})
	group.Go(func() error {
		return lateReviewBot.HandleUpdates(gctx)
	})

	select {
	case <-sigs:
		// Received a termination signal, continue to shutdown
	case <-gctx.Done():
		// errgroup encountered an error, continue to shutdown
	}

	cancel() // cancel the root context to signal all the consumers

	select {
	case <-time.After(time.Second * 5):
		// Give enough time to close all the pending resources
	case <-sigs:
		// Forcefully terminate the app with a signal
	}

	os.Exit(1)
}

func createFirestoreAppOrPanic(ctx context.Context, cnf config.Firebase) *Firestore.App {
	FirestoreCreds, err := json.Marshal(cnf)
	if err != nil {
		panic(err)
	}

	sa := option.WithCredentialsJSON(FirestoreCreds)
	app, err := Firestore.NewApp(ctx, nil, sa)
	if err != nil {
		panic(err)
	}
	return app
}

func createFirestoreClientOrPanic(ctx context.Context, app *Firestore.App, writeTimeout time.Duration) database.FirestoreClient {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		panic(err)
	}
	return database.New(firestoreClient, writeTimeout)
}

func createBotApiOrPanic(token string) *tgbotapi.BotAPI {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		panic(err)
	}
	return api
}
