package proposals_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bracu-research/thesishub/internal/app/features/proposals"
	groupstore "github.com/bracu-research/thesishub/internal/app/store/groups"
	proposalstore "github.com/bracu-research/thesishub/internal/app/store/proposals"
	userstore "github.com/bracu-research/thesishub/internal/app/store/users"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"github.com/bracu-research/thesishub/internal/app/system/indexes"
	"github.com/bracu-research/thesishub/internal/app/system/notify"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/bracu-research/thesishub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*proposals.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	dispatcher := events.NewDispatcher(notify.New(db, logger), logger)
	handler := proposals.NewHandler(db, dispatcher, true, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func decisionRequest(t *testing.T, user testutil.TestUser, proposalID, action, feedback string) *http.Request {
	t.Helper()
	req := testutil.JSONRequest(t, "PATCH", "/proposals/"+proposalID+"/decision", map[string]any{
		"action":   action,
		"feedback": feedback,
	})
	req = testutil.WithUser(req, user)
	return testutil.WithChiURLParam(req, "id", proposalID)
}

func TestHandleDecision_ApproveSideEffects(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100501")
	member := fixtures.CreateStudent(ctx, "Member", "20100502")
	sup1 := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	sup2 := fixtures.CreateSupervisor(ctx, "Dr. Das", "das@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)

	gStore := groupstore.New(fixtures.DB())
	if _, err := gStore.AddMember(ctx, group.ID, member.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	winner := fixtures.CreateProposal(ctx, "Winning Proposal", group.ID, admin.ID, sup1.ID)
	sibling := fixtures.CreateProposal(ctx, "Losing Proposal", group.ID, admin.ID, sup2.ID)

	rec := httptest.NewRecorder()
	handler.HandleDecision(rec, decisionRequest(t, testutil.AsUser(sup1.ID, sup1.Name, "supervisor"), winner.ID.Hex(), "approve", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var approved models.Proposal
	testutil.DecodeBody(t, rec, &approved)
	if approved.Status != models.ProposalApproved {
		t.Errorf("Status: got %q, want %q", approved.Status, models.ProposalApproved)
	}

	// Group moved to the supervised state
	foundGroup, err := gStore.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if foundGroup.Status != models.GroupSupervised {
		t.Errorf("group Status: got %q, want %q", foundGroup.Status, models.GroupSupervised)
	}
	if foundGroup.AssignedSupervisorID == nil || *foundGroup.AssignedSupervisorID != sup1.ID {
		t.Error("expected the group's assigned supervisor to be set")
	}

	// Supervisor is linked on both sides
	uStore := userstore.New(fixtures.DB())
	for _, id := range foundGroup.MemberIDs {
		u, err := uStore.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if u.AssignedSupervisorID == nil || *u.AssignedSupervisorID != sup1.ID {
			t.Errorf("member %s missing assigned supervisor", u.Name)
		}
	}
	foundSup, err := uStore.GetByID(ctx, sup1.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(foundSup.StudentIDs) != 2 {
		t.Errorf("expected 2 student_ids on supervisor, got %d", len(foundSup.StudentIDs))
	}

	// Sibling proposals to other supervisors were deleted
	pStore := proposalstore.New(fixtures.DB())
	if _, err := pStore.GetByID(ctx, sibling.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected sibling to be deleted, got %v", err)
	}
	remaining, err := pStore.ListByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("expected exactly 1 live proposal, got %d", len(remaining))
	}
}

func TestHandleDecision_WrongSupervisor(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100511")
	addressed := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	intruder := fixtures.CreateSupervisor(ctx, "Dr. Das", "das@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)
	p := fixtures.CreateProposal(ctx, "Private Proposal", group.ID, admin.ID, addressed.ID)

	rec := httptest.NewRecorder()
	handler.HandleDecision(rec, decisionRequest(t, testutil.AsUser(intruder.ID, intruder.Name, "supervisor"), p.ID.Hex(), "approve", ""))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d: %s", http.StatusForbidden, rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	testutil.DecodeBody(t, rec, &resp)
	if resp.Message != "This proposal is not addressed to you." {
		t.Errorf("unexpected message: %q", resp.Message)
	}

	// The proposal is untouched
	found, err := proposalstore.New(fixtures.DB()).GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Status != models.ProposalPending {
		t.Errorf("Status: got %q, want %q", found.Status, models.ProposalPending)
	}
}

func TestHandleDecision_AlreadyDecided(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100521")
	sup := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)
	p := fixtures.CreateProposal(ctx, "Decided Proposal", group.ID, admin.ID, sup.ID)

	supUser := testutil.AsUser(sup.ID, sup.Name, "supervisor")

	rec := httptest.NewRecorder()
	handler.HandleDecision(rec, decisionRequest(t, supUser, p.ID.Hex(), "reject", "Not feasible."))
	if rec.Code != http.StatusOK {
		t.Fatalf("first decision: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.HandleDecision(rec, decisionRequest(t, supUser, p.ID.Hex(), "approve", ""))
	if rec.Code != http.StatusConflict {
		t.Fatalf("second decision: expected status %d, got %d: %s", http.StatusConflict, rec.Code, rec.Body.String())
	}
}

func TestHandleDecision_RejectStoresFeedback(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100531")
	sup := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)
	p := fixtures.CreateProposal(ctx, "Rejected Proposal", group.ID, admin.ID, sup.ID)

	rec := httptest.NewRecorder()
	handler.HandleDecision(rec, decisionRequest(t, testutil.AsUser(sup.ID, sup.Name, "supervisor"), p.ID.Hex(), "reject", "Scope too broad."))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var rejected models.Proposal
	testutil.DecodeBody(t, rec, &rejected)
	if rejected.Status != models.ProposalRejected {
		t.Errorf("Status: got %q, want %q", rejected.Status, models.ProposalRejected)
	}
	if len(rejected.Feedback) != 1 || rejected.Feedback[0].Text != "Scope too broad." {
		t.Errorf("Feedback: got %v", rejected.Feedback)
	}

	// Rejection never deletes the proposal, so the group can learn from it
	if _, err := proposalstore.New(fixtures.DB()).GetByID(ctx, p.ID); err != nil {
		t.Errorf("rejected proposal should survive: %v", err)
	}
}

func submitRequest(t *testing.T, user testutil.TestUser, supervisorID string) *http.Request {
	t.Helper()
	req := testutil.JSONRequest(t, "POST", "/proposals", map[string]any{
		"title":        "Adaptive Topic Modeling",
		"abstract":     "We study topic drift in long-running corpora.",
		"domain":       "machine learning",
		"supervisorId": supervisorID,
	})
	return testutil.WithUser(req, user)
}

func TestHandleSubmit_NonAdminMember(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100541")
	member := fixtures.CreateStudent(ctx, "Member", "20100542")
	sup := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)

	if _, err := groupstore.New(fixtures.DB()).AddMember(ctx, group.ID, member.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.HandleSubmit(rec, submitRequest(t, testutil.AsUser(member.ID, member.Name, "student"), sup.ID.Hex()))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d: %s", http.StatusForbidden, rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	testutil.DecodeBody(t, rec, &resp)
	if resp.Message != "Only the group admin can submit proposals." {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestHandleSubmit_MultipleSupervisorsWhileUnassigned(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100551")
	sup1 := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	sup2 := fixtures.CreateSupervisor(ctx, "Dr. Das", "das@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)

	adminUser := testutil.AsUser(admin.ID, admin.Name, "student")

	// Courting several supervisors at once is fine before one accepts
	for _, sup := range []string{sup1.ID.Hex(), sup2.ID.Hex()} {
		rec := httptest.NewRecorder()
		handler.HandleSubmit(rec, submitRequest(t, adminUser, sup))
		if rec.Code != http.StatusCreated {
			t.Fatalf("submit to %s: expected status %d, got %d: %s", sup, http.StatusCreated, rec.Code, rec.Body.String())
		}
	}

	list, err := proposalstore.New(fixtures.DB()).ListByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 proposals, got %d", len(list))
	}
	for _, p := range list {
		if p.Status != models.ProposalPending {
			t.Errorf("proposal %q: Status got %q, want %q", p.Title, p.Status, models.ProposalPending)
		}
	}
}

func TestHandleSubmit_AfterAssignment(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100561")
	assigned := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	other := fixtures.CreateSupervisor(ctx, "Dr. Das", "das@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)
	fixtures.AssignSupervisorToGroup(ctx, group.ID, assigned.ID)

	rec := httptest.NewRecorder()
	handler.HandleSubmit(rec, submitRequest(t, testutil.AsUser(admin.ID, admin.Name, "student"), other.ID.Hex()))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d: %s", http.StatusConflict, rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	testutil.DecodeBody(t, rec, &resp)
	if resp.Message != "Your group already has an assigned supervisor." {
		t.Errorf("unexpected message: %q", resp.Message)
	}

	// Nothing was created
	list, err := proposalstore.New(fixtures.DB()).ListByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no proposals, got %d", len(list))
	}
}

func TestHandleDecision_InvalidAction(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sup := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")

	rec := httptest.NewRecorder()
	handler.HandleDecision(rec, decisionRequest(t, testutil.AsUser(sup.ID, sup.Name, "supervisor"), "000000000000000000000001", "maybe", ""))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}
