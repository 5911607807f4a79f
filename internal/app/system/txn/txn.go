// internal/app/system/txn/txn.go

// Package txn runs multi-document mutations inside a MongoDB transaction.
// Approving a proposal (status change + group assignment + sibling deletes)
// and accepting a join (member add + invite purge) must not interleave, so
// every such sequence goes through Run.
//
// Standalone mongod instances do not support transactions. Run detects that
// case and executes the function directly; the unique indexes still catch
// the worst races, and dev setups keep working.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction on db's client, falling back to plain
// execution when the deployment does not support transactions. fn must use
// the context it receives for every database call.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Debug("sessions unsupported; running without transaction")
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Warn("transactions unsupported on this deployment; running unguarded")
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates the deployment cannot run
// multi-document transactions (standalone server, old wire version).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		// 20 IllegalOperation (txn numbers need a replica set),
		// 51 txn not allowed, 263 operation not allowed in transaction.
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }
	switch {
	case has("illegal operation"):
		return true
	case has("transaction") && has("replica set"):
		return true
	case has("transaction") && has("session"):
		return true
	case has("session") && has("not supported"):
		return true
	}
	return false
}
