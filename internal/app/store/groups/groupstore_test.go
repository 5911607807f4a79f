package groupstore_test

import (
	"testing"

	groupstore "github.com/bracu-research/thesishub/internal/app/store/groups"
	"github.com/bracu-research/thesishub/internal/app/system/indexes"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/bracu-research/thesishub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100101")

	created, err := store.Create(ctx, models.Group{
		Name:              "Thesis Squad",
		AdminID:           admin.ID,
		ResearchInterests: []string{"  NLP ", "Vision"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.GroupForming {
		t.Errorf("Status: got %q, want %q", created.Status, models.GroupForming)
	}
	if created.MaxMembers != models.DefaultMaxMembers {
		t.Errorf("MaxMembers: got %d, want %d", created.MaxMembers, models.DefaultMaxMembers)
	}
	// Admin is always the first member
	if len(created.MemberIDs) != 1 || created.MemberIDs[0] != admin.ID {
		t.Errorf("MemberIDs: got %v, want [admin]", created.MemberIDs)
	}
	if created.PendingJoinRequests == nil {
		t.Error("expected PendingJoinRequests to be initialized")
	}
}

func TestStore_Create_SecondGroupSameAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100111")

	if _, err := store.Create(ctx, models.Group{Name: "First", AdminID: admin.ID}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.Group{Name: "Second", AdminID: admin.ID})
	if err != groupstore.ErrMembershipConflict {
		t.Errorf("expected ErrMembershipConflict, got %v", err)
	}
}

func TestStore_AddMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100121")
	joiner := fixtures.CreateStudent(ctx, "New Member", "20100122")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)

	updated, err := store.AddMember(ctx, group.ID, joiner.ID)
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if len(updated.MemberIDs) != 2 {
		t.Errorf("expected 2 members, got %d", len(updated.MemberIDs))
	}
	if !updated.HasMember(joiner.ID) {
		t.Error("expected the joiner to be a member")
	}
}

func TestStore_AddMember_AtCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100131")
	group := fixtures.CreateGroup(ctx, "Tight Group", admin.ID)

	// Fill the group to DefaultMaxMembers
	var last models.Group
	for i := 0; i < models.DefaultMaxMembers-1; i++ {
		member := fixtures.CreateStudent(ctx, "Member", primitive.NewObjectID().Hex()[:8])
		var err error
		last, err = store.AddMember(ctx, group.ID, member.ID)
		if err != nil {
			t.Fatalf("AddMember %d failed: %v", i, err)
		}
	}

	// The filling add flips the lifecycle state
	if last.Status != models.GroupFull {
		t.Errorf("Status after filling: got %q, want %q", last.Status, models.GroupFull)
	}

	// One more must bounce off the capacity guard
	extra := fixtures.CreateStudent(ctx, "Extra", "20100139")
	_, err := store.AddMember(ctx, group.ID, extra.ID)
	if err != groupstore.ErrGroupFull {
		t.Errorf("expected ErrGroupFull, got %v", err)
	}
}

func TestStore_AddMember_AlreadyInAnotherGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	adminA := fixtures.CreateStudent(ctx, "Admin A", "20100141")
	adminB := fixtures.CreateStudent(ctx, "Admin B", "20100142")
	student := fixtures.CreateStudent(ctx, "Wanderer", "20100143")
	groupA := fixtures.CreateGroup(ctx, "Group A", adminA.ID)
	groupB := fixtures.CreateGroup(ctx, "Group B", adminB.ID)

	if _, err := store.AddMember(ctx, groupA.ID, student.ID); err != nil {
		t.Fatalf("AddMember into A failed: %v", err)
	}

	// The unique member_ids index rejects the second membership
	_, err := store.AddMember(ctx, groupB.ID, student.ID)
	if err != groupstore.ErrMembershipConflict {
		t.Errorf("expected ErrMembershipConflict, got %v", err)
	}
}

func TestStore_AddJoinRequest_DuplicateSkipped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100151")
	requester := fixtures.CreateStudent(ctx, "Requester", "20100152")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)

	if err := store.AddJoinRequest(ctx, group.ID, requester.ID); err != nil {
		t.Fatalf("first AddJoinRequest failed: %v", err)
	}
	if err := store.AddJoinRequest(ctx, group.ID, requester.ID); err != nil {
		t.Fatalf("duplicate AddJoinRequest failed: %v", err)
	}

	found, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(found.PendingJoinRequests) != 1 {
		t.Errorf("expected 1 pending request, got %d", len(found.PendingJoinRequests))
	}
}

func TestStore_RemoveJoinRequest_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100161")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)

	err := store.RemoveJoinRequest(ctx, group.ID, primitive.NewObjectID())
	if err != groupstore.ErrRequestNotFound {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestStore_RemoveJoinRequestsEverywhere(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminA := fixtures.CreateStudent(ctx, "Admin A", "20100171")
	adminB := fixtures.CreateStudent(ctx, "Admin B", "20100172")
	requester := fixtures.CreateStudent(ctx, "Requester", "20100173")
	groupA := fixtures.CreateGroup(ctx, "Group A", adminA.ID)
	groupB := fixtures.CreateGroup(ctx, "Group B", adminB.ID)

	for _, g := range []models.Group{groupA, groupB} {
		if err := store.AddJoinRequest(ctx, g.ID, requester.ID); err != nil {
			t.Fatalf("AddJoinRequest failed: %v", err)
		}
	}

	if err := store.RemoveJoinRequestsEverywhere(ctx, requester.ID); err != nil {
		t.Fatalf("RemoveJoinRequestsEverywhere failed: %v", err)
	}

	for _, g := range []models.Group{groupA, groupB} {
		found, err := store.GetByID(ctx, g.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if len(found.PendingJoinRequests) != 0 {
			t.Errorf("group %s: expected 0 pending requests, got %d", found.Name, len(found.PendingJoinRequests))
		}
	}
}

func TestStore_SetSupervisor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100181")
	sup := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)

	if err := store.SetSupervisor(ctx, group.ID, sup.ID); err != nil {
		t.Fatalf("SetSupervisor failed: %v", err)
	}

	found, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Status != models.GroupSupervised {
		t.Errorf("Status: got %q, want %q", found.Status, models.GroupSupervised)
	}
	if found.AssignedSupervisorID == nil || *found.AssignedSupervisorID != sup.ID {
		t.Error("expected assigned_supervisor_id to point at the supervisor")
	}
}

func TestStore_SetSupervisor_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.SetSupervisor(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_GetByMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100191")
	loner := fixtures.CreateStudent(ctx, "Loner", "20100192")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)

	found, err := store.GetByMember(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetByMember failed: %v", err)
	}
	if found.ID != group.ID {
		t.Errorf("ID: got %v, want %v", found.ID, group.ID)
	}

	_, err = store.GetByMember(ctx, loner.ID)
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments for groupless student, got %v", err)
	}
}

func TestStore_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminA := fixtures.CreateStudent(ctx, "Admin A", "20100201")
	adminB := fixtures.CreateStudent(ctx, "Admin B", "20100202")
	fixtures.CreateGroup(ctx, "ML Group", adminA.ID, "machine learning")
	groupB := fixtures.CreateGroup(ctx, "Sec Group", adminB.ID, "security")
	fixtures.AssignSupervisorToGroup(ctx, groupB.ID, primitive.NewObjectID())

	all, err := store.List(ctx, "", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 groups, got %d", len(all))
	}

	supervised, err := store.List(ctx, models.GroupSupervised, "")
	if err != nil {
		t.Fatalf("List by status failed: %v", err)
	}
	if len(supervised) != 1 || supervised[0].ID != groupB.ID {
		t.Errorf("expected only the supervised group, got %d", len(supervised))
	}

	ml, err := store.List(ctx, "", "machine learning")
	if err != nil {
		t.Fatalf("List by interest failed: %v", err)
	}
	if len(ml) != 1 {
		t.Errorf("expected 1 group with the interest, got %d", len(ml))
	}
}
