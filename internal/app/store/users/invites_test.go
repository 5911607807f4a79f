package userstore_test

import (
	"testing"

	userstore "github.com/bracu-research/thesishub/internal/app/store/users"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/bracu-research/thesishub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_AddInvite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100031")
	invited := fixtures.CreateStudent(ctx, "Invited Student", "20100032")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID, "machine learning")

	inv, err := store.AddInvite(ctx, invited.ID, models.Invite{
		GroupID:   group.ID,
		GroupName: group.Name,
		AdminID:   admin.ID,
	})
	if err != nil {
		t.Fatalf("AddInvite failed: %v", err)
	}
	if inv.ID == primitive.NilObjectID {
		t.Error("expected invite ID to be assigned")
	}
	if inv.Date.IsZero() {
		t.Error("expected invite Date to be set")
	}

	found, err := store.GetByID(ctx, invited.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(found.JoinRequests) != 1 {
		t.Fatalf("expected 1 pending invite, got %d", len(found.JoinRequests))
	}
	if found.JoinRequests[0].GroupID != group.ID {
		t.Error("invite points at the wrong group")
	}
}

func TestStore_AddInvite_DuplicateGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100041")
	invited := fixtures.CreateStudent(ctx, "Invited Student", "20100042")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)

	inv := models.Invite{GroupID: group.ID, GroupName: group.Name, AdminID: admin.ID}
	if _, err := store.AddInvite(ctx, invited.ID, inv); err != nil {
		t.Fatalf("first AddInvite failed: %v", err)
	}

	_, err := store.AddInvite(ctx, invited.ID, inv)
	if err != userstore.ErrDuplicateInvite {
		t.Errorf("expected ErrDuplicateInvite, got %v", err)
	}
}

func TestStore_TakeInvite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100051")
	invited := fixtures.CreateStudent(ctx, "Invited Student", "20100052")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)

	inv, err := store.AddInvite(ctx, invited.ID, models.Invite{
		GroupID: group.ID, GroupName: group.Name, AdminID: admin.ID,
	})
	if err != nil {
		t.Fatalf("AddInvite failed: %v", err)
	}

	taken, err := store.TakeInvite(ctx, invited.ID, inv.ID)
	if err != nil {
		t.Fatalf("TakeInvite failed: %v", err)
	}
	if taken.GroupID != group.ID {
		t.Error("taken invite points at the wrong group")
	}

	// The invite is gone now
	_, err = store.TakeInvite(ctx, invited.ID, inv.ID)
	if err != userstore.ErrInviteNotFound {
		t.Errorf("expected ErrInviteNotFound, got %v", err)
	}
}

func TestStore_ClearInvites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminA := fixtures.CreateStudent(ctx, "Admin A", "20100061")
	adminB := fixtures.CreateStudent(ctx, "Admin B", "20100062")
	invited := fixtures.CreateStudent(ctx, "Invited Student", "20100063")
	groupA := fixtures.CreateGroup(ctx, "Group A", adminA.ID)
	groupB := fixtures.CreateGroup(ctx, "Group B", adminB.ID)

	for _, g := range []models.Group{groupA, groupB} {
		if _, err := store.AddInvite(ctx, invited.ID, models.Invite{
			GroupID: g.ID, GroupName: g.Name, AdminID: g.AdminID,
		}); err != nil {
			t.Fatalf("AddInvite failed: %v", err)
		}
	}

	if err := store.ClearInvites(ctx, invited.ID); err != nil {
		t.Fatalf("ClearInvites failed: %v", err)
	}

	found, err := store.GetByID(ctx, invited.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(found.JoinRequests) != 0 {
		t.Errorf("expected 0 pending invites, got %d", len(found.JoinRequests))
	}
}

func TestStore_AddBookmark_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Reader", "20100071")

	b := models.Bookmark{PaperID: "2401.00001", Title: "Attention Is All You Need"}
	if err := store.AddBookmark(ctx, student.ID, b); err != nil {
		t.Fatalf("first AddBookmark failed: %v", err)
	}

	err := store.AddBookmark(ctx, student.ID, b)
	if err != userstore.ErrDuplicateBookmark {
		t.Errorf("expected ErrDuplicateBookmark, got %v", err)
	}

	found, err := store.GetByID(ctx, student.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(found.Bookmarks) != 1 {
		t.Errorf("expected 1 bookmark, got %d", len(found.Bookmarks))
	}
}

func TestStore_RemoveBookmark_Absent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Reader", "20100081")

	// Removing a bookmark that was never saved is a no-op
	if err := store.RemoveBookmark(ctx, student.ID, "2401.99999"); err != nil {
		t.Fatalf("RemoveBookmark failed: %v", err)
	}
}
