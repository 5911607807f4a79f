// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

Two of these indexes carry business invariants, not just query speed:

  - groups.member_ids (unique, multikey): a student id can appear in the
    member list of at most one group document, so concurrent joins cannot
    put one student into two groups.
  - groups.admin_id (unique): one group per creating student.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureProposals(ctx, db); err != nil {
		problems = append(problems, "proposals: "+err.Error())
	}
	if err := ensureMeetings(ctx, db); err != nil {
		problems = append(problems, "meetings: "+err.Error())
	}
	if err := ensureAnnouncements(ctx, db); err != nil {
		problems = append(problems, "announcements: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			// Sparse: only students carry a student_code.
			Keys:    bson.D{{Key: "student_code", Value: 1}},
			Options: options.Index().SetName("uniq_student_code").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("by_role"),
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db.Collection("groups"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_ids", Value: 1}},
			Options: options.Index().SetName("uniq_member").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "admin_id", Value: 1}},
			Options: options.Index().SetName("uniq_admin").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "assigned_supervisor_id", Value: 1}},
			Options: options.Index().SetName("by_supervisor").SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("by_name_ci"),
		},
	})
}

func ensureProposals(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db.Collection("proposals"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("by_group_status"),
		},
		{
			Keys:    bson.D{{Key: "supervisor_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("by_supervisor_status"),
		},
	})
}

func ensureMeetings(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db.Collection("meetings"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "supervisor_id", Value: 1}},
			Options: options.Index().SetName("by_supervisor"),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}},
			Options: options.Index().SetName("by_group"),
		},
	})
}

func ensureAnnouncements(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db.Collection("announcements"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_created_desc"),
		},
	})
}

// createIndexes applies the desired models one at a time so a conflict on one
// index (same keys, different name or options from an older deploy) does not
// block the rest. Conflicts are tolerated; the index that exists still serves
// the same keys.
func createIndexes(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) || isAlreadyExistsErr(err) {
				continue
			}
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func isAlreadyExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 85 { // IndexOptionsConflict numeric code
		return true
	}
	return strings.Contains(err.Error(), "IndexKeySpecsConflict")
}
