// Operator tool: dumps the persisted reconciliation state so a deploy
// can be inspected or debugged without touching production code paths.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wb-review-notifier/internal/config"
	"wb-review-notifier/internal/database"
	dbutils "wb-review-notifier/internal/database/utils"
	"wb-review-notifier/internal/model"

	Firestore "firebase.google.com/go/v4"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

func main() {

	cnf := config.LoadConfigOrPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := createFirestoreAppOrPanic(ctx, cnf.Firebase)
	firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.Firebase.WriteTimeoutSecond)
	defer firestoreClient.Close()

	dumpCheckpoints(ctx, firestoreClient)
	for _, shop := range model.AllShops {
		dumpPastReviews(ctx, firestoreClient, shop)
		dumpOpenReviews(ctx, firestoreClient, shop)
	}
}

func dumpCheckpoints(ctx context.Context, c database.FirestoreClient) {
	fmt.Println("--- checkpoints ---")
	err := c.IterDocs(ctx, c.Collection("checkpoints"), func(ds *firestore.DocumentSnapshot) {
		cp := model.Checkpoint{}
		if err := dbutils.DocSnapToType(ds, &cp); err != nil {
			fmt.Println(ds.Ref.ID, "decode error:", err)
			return
		}
		fmt.Printf("%s: lastCheck=%d updatedAt=%s\n", ds.Ref.ID, cp.LastCheck, cp.UpdatedAt)
	})
	if err != nil {
		fmt.Println("iteration error:", err)
	}
}

func dumpPastReviews(ctx context.Context, c database.FirestoreClient, shop model.Shop) {
	fmt.Printf("--- past reviews (%s) ---\n", shop)
	ds, err := c.GetDoc(ctx, c.Collection("pastReviews").Doc(shop.String()))
	if err != nil {
		fmt.Println("no snapshot:", err)
		return
	}

	past := model.PastReviews{}
	if err := dbutils.DocSnapToType(ds, &past); err != nil {
		fmt.Println("decode error:", err)
		return
	}
	fmt.Printf("%d ids, updatedAt=%s\n", len(past.Ids), past.UpdatedAt)
	for _, id := range past.Ids {
		fmt.Println(" ", id)
	}
}

func dumpOpenReviews(ctx context.Context, c database.FirestoreClient, shop model.Shop) {
	fmt.Printf("--- open reviews (%s) ---\n", shop)
	coll := c.Collection("openReviews").Doc(shop.String()).Collection("reviews")
	err := c.IterDocs(ctx, coll, func(ds *firestore.DocumentSnapshot) {
		open := model.OpenReview{}
		if err := dbutils.DocSnapToType(ds, &open); err != nil {
			fmt.Println(ds.Ref.ID, "decode error:", err)
			return
		}
		fmt.Printf("%s: notifiedOverdue=%t createdAt=%s\n", ds.Ref.ID, open.NotifiedOverdue, open.CreatedAt)
	})
	if err != nil {
		fmt.Println("iteration error:", err)
	}
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
