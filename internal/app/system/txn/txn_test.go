package txn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bracu-research/thesishub/internal/app/system/txn"
	"github.com/bracu-research/thesishub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported_CommandCodes(t *testing.T) {
	for _, code := range []int32{20, 51, 263} {
		if !txn.IsNotSupported(mongo.CommandError{Code: code}) {
			t.Errorf("code %d should mean transactions are unsupported", code)
		}
	}
	if txn.IsNotSupported(mongo.CommandError{Code: 11000, Message: "duplicate key"}) {
		t.Error("a duplicate-key error is not a capability problem")
	}
}

func TestIsNotSupported_MessageHeuristics(t *testing.T) {
	unsupported := []error{
		errors.New("Transaction numbers are only allowed on a replica set member or mongos"),
		errors.New("illegal operation for this deployment"),
		errors.New("cannot start transaction in current session state"),
		errors.New("SESSION operations are NOT SUPPORTED here"),
	}
	for _, err := range unsupported {
		if !txn.IsNotSupported(err) {
			t.Errorf("IsNotSupported(%v) = false, want true", err)
		}
	}

	supported := []error{
		nil,
		errors.New("connection refused"),
		errors.New("transaction aborted"),
		errors.New("replica set has no primary"),
	}
	for _, err := range supported {
		if txn.IsNotSupported(err) {
			t.Errorf("IsNotSupported(%v) = true, want false", err)
		}
	}
}

// Run must execute the function exactly once whether or not the deployment
// supports transactions: standalone servers take the fallback path.
func TestRun_ExecutesFunction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := db.Collection("workflow_writes")
	err := txn.Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		_, err := c.InsertOne(ctx, bson.M{"key": "value"})
		return err
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	n, err := c.CountDocuments(ctx, bson.M{"key": "value"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 document, got %d", n)
	}
}

func TestRun_PropagatesFunctionError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	want := errors.New("business rule violated")
	err := txn.Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("expected the function's error back, got %v", err)
	}
}
