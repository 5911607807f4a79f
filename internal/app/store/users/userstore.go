// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/bracu-research/thesishub/internal/app/system/normalize"
	"github.com/bracu-research/thesishub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "student"|"supervisor"|"admin"`)
)

// GetByID loads a user by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByStudentCode looks up a student by their university-issued code.
func (s *Store) GetByStudentCode(ctx context.Context, code string) (*models.User, error) {
	var u models.User
	filter := bson.M{"student_code": normalize.QueryParam(code), "role": models.RoleStudent}
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetStudentByID loads a user by ObjectID, returning an error if the user
// does not exist or is not a student.
func (s *Store) GetStudentByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": models.RoleStudent}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetSupervisorByID loads a user by ObjectID, returning an error if the user
// does not exist or is not a supervisor.
func (s *Store) GetSupervisorByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": models.RoleSupervisor}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing core fields. The caller is
// responsible for hashing the password into PasswordHash first.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)

	switch u.Role {
	case models.RoleStudent, models.RoleSupervisor, models.RoleAdmin:
		// ok
	default:
		return models.User{}, errBadRole
	}

	// Embedded arrays start empty, not nil, so responses render [] rather
	// than null.
	if u.Notifications == nil {
		u.Notifications = []models.Notification{}
	}
	if u.JoinRequests == nil {
		u.JoinRequests = []models.Invite{}
	}
	u.IsSeen = true

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ListByRole returns every user holding the given role, optionally filtered
// by a research interest. Passing interest "" skips that filter.
func (s *Store) ListByRole(ctx context.Context, role, interest string) ([]models.User, error) {
	filter := bson.M{"role": normalize.Role(role)}
	if interest != "" {
		filter["research_interests"] = normalize.QueryParam(interest)
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ProfileUpdate holds the fields a user may change on their own profile.
// Nil pointers mean "leave unchanged".
type ProfileUpdate struct {
	Name              *string
	PhotoURL          *string
	Department        *string
	Phone             *string
	CGPA              *float64
	Credits           *int
	ResearchInterests []string
}

// UpdateProfile applies a partial profile update.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.PhotoURL != nil {
		set["photo_url"] = *upd.PhotoURL
	}
	if upd.Department != nil {
		set["department"] = *upd.Department
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.CGPA != nil {
		set["cgpa"] = *upd.CGPA
	}
	if upd.Credits != nil {
		set["credits"] = *upd.Credits
	}
	if upd.ResearchInterests != nil {
		set["research_interests"] = normalize.Interests(upd.ResearchInterests)
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a user document. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// MarkNotificationsSeen flips the unread flag. Idempotent.
func (s *Store) MarkNotificationsSeen(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"is_seen": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AssignSupervisor records the supervisor on the student and the student on
// the supervisor. Both writes should run inside one transaction.
func (s *Store) AssignSupervisor(ctx context.Context, studentIDs []primitive.ObjectID, supervisorID primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": studentIDs}},
		bson.M{"$set": bson.M{"assigned_supervisor_id": supervisorID, "updated_at": now}},
	)
	if err != nil {
		return err
	}
	_, err = s.c.UpdateByID(ctx, supervisorID, bson.M{
		"$addToSet": bson.M{"student_ids": bson.M{"$each": studentIDs}},
		"$set":      bson.M{"updated_at": now},
	})
	return err
}

// UnassignSupervisor removes the edge from both sides. Should run inside one
// transaction with any related group update.
func (s *Store) UnassignSupervisor(ctx context.Context, studentID, supervisorID primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, studentID, bson.M{
		"$unset": bson.M{"assigned_supervisor_id": ""},
		"$set":   bson.M{"updated_at": now},
	})
	if err != nil {
		return err
	}
	_, err = s.c.UpdateByID(ctx, supervisorID, bson.M{
		"$pull": bson.M{"student_ids": studentID},
		"$set":  bson.M{"updated_at": now},
	})
	return err
}
