// internal/app/system/events/events.go

// Package events turns workflow outcomes into notifications. Handlers
// dispatch a typed event; the dispatcher formats the message and hands the
// recipients to the fan-out helper. Business code never builds notification
// strings itself.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/bracu-research/thesishub/internal/app/system/notify"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Event is a workflow outcome worth telling users about. Broadcast events go
// to every user; Recipients is consulted only for targeted ones, and an empty
// recipient set is a no-op, never a broadcast.
type Event interface {
	Notification() models.Notification
	Recipients() []primitive.ObjectID
	Broadcast() bool
}

// targeted is embedded by events addressed to specific users.
type targeted struct{}

func (targeted) Broadcast() bool { return false }

// Dispatcher routes events to the notification fan-out.
type Dispatcher struct {
	notifier *notify.Notifier
	log      *zap.Logger
}

// NewDispatcher builds a Dispatcher over the given Notifier.
func NewDispatcher(n *notify.Notifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{notifier: n, log: logger}
}

// Dispatch delivers the event's notification. Best-effort; errors are logged
// inside the notifier and never fail the triggering request.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	if ev == nil {
		return
	}
	if ev.Broadcast() {
		d.notifier.PushAll(ctx, ev.Notification())
		return
	}
	d.notifier.Push(ctx, ev.Recipients(), ev.Notification())
}

func note(msg, link string) models.Notification {
	return models.Notification{Message: msg, Date: time.Now().UTC(), Link: link}
}

// ProposalApproved tells every group member their proposal was accepted.
type ProposalApproved struct {
	targeted
	ProposalTitle  string
	SupervisorName string
	MemberIDs      []primitive.ObjectID
}

func (e ProposalApproved) Notification() models.Notification {
	return note(fmt.Sprintf("Your proposal %q was approved by %s.", e.ProposalTitle, e.SupervisorName), "/proposals")
}

func (e ProposalApproved) Recipients() []primitive.ObjectID { return e.MemberIDs }

// ProposalRejected tells the submitting group admin about a rejection.
type ProposalRejected struct {
	targeted
	ProposalTitle  string
	SupervisorName string
	AdminID        primitive.ObjectID
}

func (e ProposalRejected) Notification() models.Notification {
	return note(fmt.Sprintf("Your proposal %q was rejected by %s.", e.ProposalTitle, e.SupervisorName), "/proposals")
}

func (e ProposalRejected) Recipients() []primitive.ObjectID {
	return []primitive.ObjectID{e.AdminID}
}

// StudentJoinedGroup tells the group admin and the student about a join.
type StudentJoinedGroup struct {
	targeted
	StudentName string
	GroupName   string
	StudentID   primitive.ObjectID
	AdminID     primitive.ObjectID
}

func (e StudentJoinedGroup) Notification() models.Notification {
	return note(fmt.Sprintf("%s joined group %q.", e.StudentName, e.GroupName), "/groups")
}

func (e StudentJoinedGroup) Recipients() []primitive.ObjectID {
	return []primitive.ObjectID{e.StudentID, e.AdminID}
}

// InviteReceived tells a student they were invited to a group.
type InviteReceived struct {
	targeted
	GroupName string
	StudentID primitive.ObjectID
}

func (e InviteReceived) Notification() models.Notification {
	return note(fmt.Sprintf("You were invited to join group %q.", e.GroupName), "/invites")
}

func (e InviteReceived) Recipients() []primitive.ObjectID {
	return []primitive.ObjectID{e.StudentID}
}

// InviteDeclined tells the group admin a student turned the invite down.
type InviteDeclined struct {
	targeted
	StudentName string
	GroupName   string
	AdminID     primitive.ObjectID
}

func (e InviteDeclined) Notification() models.Notification {
	return note(fmt.Sprintf("%s declined the invitation to join %q.", e.StudentName, e.GroupName), "/groups")
}

func (e InviteDeclined) Recipients() []primitive.ObjectID {
	return []primitive.ObjectID{e.AdminID}
}

// JoinRequestReceived tells the group admin a student asked to join.
type JoinRequestReceived struct {
	targeted
	StudentName string
	GroupName   string
	AdminID     primitive.ObjectID
}

func (e JoinRequestReceived) Notification() models.Notification {
	return note(fmt.Sprintf("%s requested to join your group %q.", e.StudentName, e.GroupName), "/groups")
}

func (e JoinRequestReceived) Recipients() []primitive.ObjectID {
	return []primitive.ObjectID{e.AdminID}
}

// JoinRequestDeclined tells a student their join request was turned down.
type JoinRequestDeclined struct {
	targeted
	GroupName string
	StudentID primitive.ObjectID
}

func (e JoinRequestDeclined) Notification() models.Notification {
	return note(fmt.Sprintf("Your request to join group %q was declined.", e.GroupName), "/groups")
}

func (e JoinRequestDeclined) Recipients() []primitive.ObjectID {
	return []primitive.ObjectID{e.StudentID}
}

// MeetingScheduled tells group members about a new meeting.
type MeetingScheduled struct {
	targeted
	Title     string
	Date      string
	Time      string
	MemberIDs []primitive.ObjectID
}

func (e MeetingScheduled) Notification() models.Notification {
	return note(fmt.Sprintf("Meeting %q scheduled for %s %s.", e.Title, e.Date, e.Time), "/meetings")
}

func (e MeetingScheduled) Recipients() []primitive.ObjectID { return e.MemberIDs }

// AnnouncementPosted broadcasts a new announcement to everyone.
type AnnouncementPosted struct {
	Title string
}

func (e AnnouncementPosted) Notification() models.Notification {
	return note(fmt.Sprintf("New announcement: %s", e.Title), "/announcements")
}

func (e AnnouncementPosted) Recipients() []primitive.ObjectID { return nil }

func (e AnnouncementPosted) Broadcast() bool { return true }
