package broadcast

import (
	"context"
	"testing"
	"time"

	"wb-review-notifier/internal/engine"
	"wb-review-notifier/internal/model"
	"wb-review-notifier/internal/notify"
)

type fakeReconciler struct{}

func (fakeReconciler) NewReviews(_ context.Context, acc engine.Account) []string {
	return []string{"review " + acc.Shop.String()}
}

func (fakeReconciler) NewAnswers(_ context.Context, acc engine.Account) []string {
	return []string{"answer " + acc.Shop.String()}
}

func (fakeReconciler) Overdue(_ context.Context, acc engine.Account) []string {
	if acc.Shop == model.ShopKD {
		return nil
	}
	return []string{"overdue " + acc.Shop.String()}
}

type fakeCheckpoint struct {
	ts int64
}

func (c *fakeCheckpoint) SetBroadcastLastCheck(_ context.Context, ts int64) error {
	c.ts = ts
	return nil
}

func TestCycleEmitsInFixedOrderAndStoresCheckpoint(t *testing.T) {
	accounts := []engine.Account{
		{Shop: model.ShopOB, Token: "ob"},
		{Shop: model.ShopKD, Token: "kd"},
	}
	checkpoint := &fakeCheckpoint{}
	b := New(fakeReconciler{}, checkpoint, accounts, time.Minute)
	b.now = func() time.Time { return time.Unix(7777, 0) }

	got := []notify.Notification{}
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for n := range b.events {
			got = append(got, n)
		}
	}()

	b.cycle(context.Background())
	close(b.events)
	<-collected

	want := []notify.Notification{
		{Kind: notify.KindNewReview, Shop: model.ShopOB, Text: "review OB"},
		{Kind: notify.KindNewReview, Shop: model.ShopKD, Text: "review KD"},
		{Kind: notify.KindNewAnswer, Shop: model.ShopOB, Text: "answer OB"},
		{Kind: notify.KindNewAnswer, Shop: model.ShopKD, Text: "answer KD"},
		{Kind: notify.KindOverdue, Shop: model.ShopOB, Text: "overdue OB"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d notifications, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if checkpoint.ts != 7777 {
		t.Errorf("broadcast checkpoint = %d, want 7777", checkpoint.ts)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	b := New(fakeReconciler{}, &fakeCheckpoint{}, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
