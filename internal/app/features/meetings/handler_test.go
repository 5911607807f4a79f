package meetings_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bracu-research/thesishub/internal/app/features/meetings"
	meetingstore "github.com/bracu-research/thesishub/internal/app/store/meetings"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"github.com/bracu-research/thesishub/internal/app/system/notify"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/bracu-research/thesishub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*meetings.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	dispatcher := events.NewDispatcher(notify.New(db, logger), logger)
	handler := meetings.NewHandler(db, dispatcher, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func TestHandleCreate_AssignedSupervisor(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100601")
	sup := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)
	fixtures.AssignSupervisorToGroup(ctx, group.ID, sup.ID)

	req := testutil.JSONRequest(t, "POST", "/meetings", map[string]any{
		"title":   "Kickoff",
		"date":    "2026-09-15",
		"time":    "10:00",
		"groupId": group.ID.Hex(),
	})
	req = testutil.WithUser(req, testutil.AsUser(sup.ID, sup.Name, "supervisor"))

	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created models.Meeting
	testutil.DecodeBody(t, rec, &created)
	if created.Status != models.MeetingScheduled {
		t.Errorf("Status: got %q, want %q", created.Status, models.MeetingScheduled)
	}
	if created.SupervisorID != sup.ID {
		t.Error("expected the caller to own the meeting")
	}
}

func TestHandleCreate_NotAssignedSupervisor(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100611")
	assigned := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	other := fixtures.CreateSupervisor(ctx, "Dr. Das", "das@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)
	fixtures.AssignSupervisorToGroup(ctx, group.ID, assigned.ID)

	req := testutil.JSONRequest(t, "POST", "/meetings", map[string]any{
		"title":   "Hijacked",
		"date":    "2026-09-15",
		"time":    "10:00",
		"groupId": group.ID.Hex(),
	})
	req = testutil.WithUser(req, testutil.AsUser(other.ID, other.Name, "supervisor"))

	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d: %s", http.StatusForbidden, rec.Code, rec.Body.String())
	}
}

func TestHandleCreate_BadDate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sup := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")

	req := testutil.JSONRequest(t, "POST", "/meetings", map[string]any{
		"title":   "Sloppy",
		"date":    "15-09-2026",
		"time":    "10:00",
		"groupId": "000000000000000000000001",
	})
	req = testutil.WithUser(req, testutil.AsUser(sup.ID, sup.Name, "supervisor"))

	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleDelete_WrongSupervisor(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100621")
	owner := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	intruder := fixtures.CreateSupervisor(ctx, "Dr. Das", "das@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)
	fixtures.AssignSupervisorToGroup(ctx, group.ID, owner.ID)
	meeting := fixtures.CreateMeeting(ctx, "Protected Meeting", group.ID, owner.ID)

	req := testutil.NewRequest("DELETE", "/meetings/"+meeting.ID.Hex())
	req = testutil.WithUser(req, testutil.AsUser(intruder.ID, intruder.Name, "supervisor"))
	req = testutil.WithChiURLParam(req, "id", meeting.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d: %s", http.StatusForbidden, rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	testutil.DecodeBody(t, rec, &resp)
	if resp.Message != "You can only manage your own meetings." {
		t.Errorf("unexpected message: %q", resp.Message)
	}

	// The meeting must survive the failed delete
	if _, err := meetingstore.New(fixtures.DB()).GetByID(ctx, meeting.ID); err != nil {
		t.Errorf("meeting should still exist: %v", err)
	}
}

func TestHandleDelete_Owner(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100631")
	owner := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)
	fixtures.AssignSupervisorToGroup(ctx, group.ID, owner.ID)
	meeting := fixtures.CreateMeeting(ctx, "Doomed Meeting", group.ID, owner.ID)

	req := testutil.NewRequest("DELETE", "/meetings/"+meeting.ID.Hex())
	req = testutil.WithUser(req, testutil.AsUser(owner.ID, owner.Name, "supervisor"))
	req = testutil.WithChiURLParam(req, "id", meeting.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestHandleStatus_InvalidValue(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100641")
	owner := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)
	fixtures.AssignSupervisorToGroup(ctx, group.ID, owner.ID)
	meeting := fixtures.CreateMeeting(ctx, "Status Meeting", group.ID, owner.ID)

	req := testutil.JSONRequest(t, "PATCH", "/meetings/"+meeting.ID.Hex()+"/status", map[string]any{
		"status": "postponed",
	})
	req = testutil.WithUser(req, testutil.AsUser(owner.ID, owner.Name, "supervisor"))
	req = testutil.WithChiURLParam(req, "id", meeting.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestHandleStatus_AnyTransition(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100651")
	owner := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)
	fixtures.AssignSupervisorToGroup(ctx, group.ID, owner.ID)
	meeting := fixtures.CreateMeeting(ctx, "Flip Meeting", group.ID, owner.ID)

	user := testutil.AsUser(owner.ID, owner.Name, "supervisor")

	// cancelled, then back to scheduled: no transition rules apply
	for _, status := range []string{models.MeetingCancelled, models.MeetingScheduled} {
		req := testutil.JSONRequest(t, "PATCH", "/meetings/"+meeting.ID.Hex()+"/status", map[string]any{
			"status": status,
		})
		req = testutil.WithUser(req, user)
		req = testutil.WithChiURLParam(req, "id", meeting.ID.Hex())

		rec := httptest.NewRecorder()
		handler.HandleStatus(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status %q: expected %d, got %d: %s", status, http.StatusOK, rec.Code, rec.Body.String())
		}

		var updated models.Meeting
		testutil.DecodeBody(t, rec, &updated)
		if updated.Status != status {
			t.Errorf("Status: got %q, want %q", updated.Status, status)
		}
	}
}

func TestHandleUpdate_Partial(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateStudent(ctx, "Group Admin", "20100661")
	owner := fixtures.CreateSupervisor(ctx, "Dr. Khan", "khan@test.edu")
	group := fixtures.CreateGroup(ctx, "AI Group", admin.ID)
	fixtures.AssignSupervisorToGroup(ctx, group.ID, owner.ID)
	meeting := fixtures.CreateMeeting(ctx, "Original Title", group.ID, owner.ID)

	req := testutil.JSONRequest(t, "PUT", "/meetings/"+meeting.ID.Hex(), map[string]any{
		"time": "16:30",
	})
	req = testutil.WithUser(req, testutil.AsUser(owner.ID, owner.Name, "supervisor"))
	req = testutil.WithChiURLParam(req, "id", meeting.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var updated models.Meeting
	testutil.DecodeBody(t, rec, &updated)
	if updated.Time != "16:30" {
		t.Errorf("Time: got %q, want %q", updated.Time, "16:30")
	}
	if updated.Title != "Original Title" {
		t.Errorf("Title changed unexpectedly: got %q", updated.Title)
	}
}
