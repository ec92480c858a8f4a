package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func testLedgerContract(t *testing.T, l ActivityLedger, userID string) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		err := l.Record(ctx, models.PointActivity{
			ID:        userID + "-" + id,
			UserID:    userID,
			Points:    5,
			Activity:  "ai_chat",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	l.Record(ctx, models.PointActivity{ID: userID + "-other", UserID: userID + "-x", Points: 1, CreatedAt: base})

	if n, _ := l.Pending(ctx, userID); n != 3 {
		t.Errorf("Pending = %d, want 3", n)
	}
	if err := l.MarkSynced(ctx, userID+"-b"); err != nil {
		t.Fatal(err)
	}
	if n, _ := l.Pending(ctx, userID); n != 2 {
		t.Errorf("Pending after sync = %d, want 2", n)
	}
	if err := l.MarkSynced(ctx, userID+"-missing"); err == nil {
		t.Error("MarkSynced on an unknown id succeeded")
	}

	recent, err := l.Recent(ctx, userID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].ID != userID+"-c" || recent[1].ID != userID+"-b" {
		t.Fatalf("Recent = %+v", recent)
	}
	if !recent[1].Synced {
		t.Error("synced flag not stored")
	}

	// Recording the same id again replaces the entry.
	l.Record(ctx, models.PointActivity{ID: userID + "-a", UserID: userID, Points: 20, CreatedAt: base})
	all, _ := l.Recent(ctx, userID, 0)
	if len(all) != 3 || all[2].Points != 20 {
		t.Errorf("after re-record = %+v", all)
	}
}

func TestMemoryLedger(t *testing.T) {
	testLedgerContract(t, NewMemoryLedger(), "demo_user")
}

func TestClampLimit(t *testing.T) {
	tests := map[int]int{0: DefaultRecentLimit, -3: DefaultRecentLimit, 10: 10, 500: DefaultRecentLimit}
	for in, want := range tests {
		if got := clampLimit(in); got != want {
			t.Errorf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestMongoLedger(t *testing.T) {
	uri := os.Getenv("INNERBLOOM_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("INNERBLOOM_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	db := client.Database("innerbloom_test")
	user := "ledger-" + time.Now().Format("150405.000000")
	t.Cleanup(func() {
		db.Collection("point_activities").DeleteMany(context.Background(), bson.M{"user_id": bson.M{"$in": []string{user, user + "-x"}}})
	})
	testLedgerContract(t, NewMongoLedger(db), user)
}
