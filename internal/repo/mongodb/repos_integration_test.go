package mongodb_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/worklog/internal/domain/exercise"
	"github.com/geocoder89/worklog/internal/domain/template"
	"github.com/geocoder89/worklog/internal/domain/user"
	"github.com/geocoder89/worklog/internal/domain/workout"
	"github.com/geocoder89/worklog/internal/repo/mongodb"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping mongo integration test")
	}

	ctx := context.Background()
	client, err := mongodb.Connect(ctx, uri)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	// a throwaway database per test keeps runs independent
	name := "worklog_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	db := client.Database(name)

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	return db
}

func mustUser(t *testing.T, users *mongodb.UsersRepo, email string) user.User {
	t.Helper()
	u, err := users.Create(context.Background(), email, "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func TestUsersRepo_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	users := mongodb.NewUsersRepo(db, nil)
	ctx := context.Background()

	alice := mustUser(t, users, "alice@x.com")

	if _, err := users.Create(ctx, "alice@x.com", "other"); err != user.ErrEmailTaken {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}

	got, err := users.GetByEmail(ctx, "alice@x.com")
	if err != nil || got.ID != alice.ID || got.PasswordHash != "hash" {
		t.Fatalf("lookup: %v %+v", err, got)
	}

	if _, err := users.GetByEmail(ctx, "ALICE@x.com"); err != user.ErrNotFound {
		t.Fatalf("email lookup must be exact, got %v", err)
	}
}

func TestWorkoutsRepo_OwnershipAndMerge(t *testing.T) {
	db := setupDB(t)
	users := mongodb.NewUsersRepo(db, nil)
	repo := mongodb.NewWorkoutsRepo(db, nil)
	ctx := context.Background()

	alice := mustUser(t, users, "alice@x.com")
	bob := mustUser(t, users, "bob@x.com")

	w, err := repo.Create(ctx, alice.ID, workout.CreateRequest{
		Name:      "Leg Day",
		Date:      "2026-02-01",
		Exercises: []exercise.Entry{{Name: "Squat", Sets: 3, Reps: 8, Weight: "135"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, alice.ID, w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Leg Day" || len(got.Exercises) != 1 || got.Exercises[0].Weight != "135" || got.Exercises[0].Sets != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(w.CreatedAt) {
		t.Fatalf("createdAt mismatch: %v vs %v", got.CreatedAt, w.CreatedAt)
	}

	// another owner sees exactly what a missing id gives
	name := "hijacked"
	if _, err := repo.GetByID(ctx, bob.ID, w.ID); err != workout.ErrNotFound {
		t.Fatalf("bob get: got %v, want ErrNotFound", err)
	}
	if _, err := repo.Update(ctx, bob.ID, w.ID, workout.UpdateRequest{Name: &name}); err != workout.ErrNotFound {
		t.Fatalf("bob update: got %v, want ErrNotFound", err)
	}
	if _, err := repo.ReplaceExercises(ctx, bob.ID, w.ID, []exercise.Entry{}); err != workout.ErrNotFound {
		t.Fatalf("bob replace: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, bob.ID, w.ID); err != workout.ErrNotFound {
		t.Fatalf("bob delete: got %v, want ErrNotFound", err)
	}
	if list, err := repo.List(ctx, bob.ID); err != nil || len(list) != 0 {
		t.Fatalf("bob list: %v %+v", err, list)
	}

	newName := "X"
	updated, err := repo.Update(ctx, alice.ID, w.ID, workout.UpdateRequest{Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "X" || updated.Date != "2026-02-01" || len(updated.Exercises) != 1 {
		t.Fatalf("partial update touched other fields: %+v", updated)
	}

	unchanged, err := repo.Update(ctx, alice.ID, w.ID, workout.UpdateRequest{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if unchanged.Name != "X" || unchanged.ID != w.ID {
		t.Fatalf("empty update should return the stored workout: %+v", unchanged)
	}
	if _, err := repo.Update(ctx, alice.ID, uuid.NewString(), workout.UpdateRequest{}); err != workout.ErrNotFound {
		t.Fatalf("empty update on missing id: got %v", err)
	}

	order := []exercise.Entry{{Name: "e1"}, {Name: "e2"}, {Name: "e3"}}
	replaced, err := repo.ReplaceExercises(ctx, alice.ID, w.ID, order)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ = repo.GetByID(ctx, alice.ID, w.ID)
	for i, e := range order {
		if replaced.Exercises[i].Name != e.Name || got.Exercises[i].Name != e.Name {
			t.Fatalf("order not preserved: %+v / %+v", replaced.Exercises, got.Exercises)
		}
	}

	if err := repo.Delete(ctx, alice.ID, w.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, alice.ID, w.ID); err != workout.ErrNotFound {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID(ctx, alice.ID, "not-a-uuid"); err != workout.ErrNotFound {
		t.Fatalf("malformed id: got %v", err)
	}
}

func TestWorkoutsRepo_ListOrder(t *testing.T) {
	db := setupDB(t)
	repo := mongodb.NewWorkoutsRepo(db, nil)
	ctx := context.Background()
	owner := uuid.NewString()

	for _, d := range []string{"2026-01-02", "2026-03-01", "2026-02-10"} {
		if _, err := repo.Create(ctx, owner, workout.CreateRequest{Name: d, Date: d}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := repo.List(ctx, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2026-03-01", "2026-02-10", "2026-01-02"}
	if len(list) != len(want) {
		t.Fatalf("got %d workouts", len(list))
	}
	for i, d := range want {
		if list[i].Date != d {
			t.Fatalf("position %d: got %s, want %s", i, list[i].Date, d)
		}
		if list[i].Exercises == nil {
			t.Fatalf("exercises must never be null")
		}
	}
}

func TestTemplatesRepo_ScopedMergeAndOrder(t *testing.T) {
	db := setupDB(t)
	repo := mongodb.NewTemplatesRepo(db, nil)
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()

	tpl, err := repo.Create(ctx, alice, template.CreateRequest{Name: "PUSH", Exercises: []string{"Bench", "Dips", "Press"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.GetByID(ctx, bob, tpl.ID); err != template.ErrNotFound {
		t.Fatalf("bob get: got %v", err)
	}
	if err := repo.Delete(ctx, bob, tpl.ID); err != template.ErrNotFound {
		t.Fatalf("bob delete: got %v", err)
	}

	name := "PUSH A"
	updated, err := repo.Update(ctx, alice, tpl.ID, template.UpdateRequest{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "PUSH A" || strings.Join(updated.Exercises, ",") != "Bench,Dips,Press" {
		t.Fatalf("partial update touched exercises: %+v", updated)
	}

	same, err := repo.Update(ctx, alice, tpl.ID, template.UpdateRequest{})
	if err != nil || same.Name != "PUSH A" {
		t.Fatalf("empty update: %v %+v", err, same)
	}

	// created_at has millisecond precision
	time.Sleep(5 * time.Millisecond)
	if _, err := repo.Create(ctx, alice, template.CreateRequest{Name: "PULL"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := repo.List(ctx, alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "PULL" || list[0].Exercises == nil {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := repo.Delete(ctx, alice, tpl.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, alice, tpl.ID); err != template.ErrNotFound {
		t.Fatalf("get after delete: got %v", err)
	}
}
