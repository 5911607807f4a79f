// internal/app/store/users/bookmarks.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDuplicateBookmark is returned when the paper is already saved.
var ErrDuplicateBookmark = errors.New("paper is already bookmarked")

// AddBookmark saves a paper on the user's document.
func (s *Store) AddBookmark(ctx context.Context, userID primitive.ObjectID, b models.Bookmark) error {
	b.SavedAt = time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "bookmarks.paper_id": bson.M{"$ne": b.PaperID}},
		bson.M{"$push": bson.M{"bookmarks": b}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Missing user or duplicate paper; disambiguate for the caller.
		if err := s.c.FindOne(ctx, bson.M{"_id": userID}).Err(); err != nil {
			return err
		}
		return ErrDuplicateBookmark
	}
	return nil
}

// RemoveBookmark drops a saved paper. Removing an absent bookmark is a no-op.
func (s *Store) RemoveBookmark(ctx context.Context, userID primitive.ObjectID, paperID string) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"bookmarks": bson.M{"paper_id": paperID}},
	})
	return err
}
