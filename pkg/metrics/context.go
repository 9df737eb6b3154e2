package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

type newRelicContextKey struct{}

// NewRelicContextKey is the context key holding the *newrelic.Application used
// by RecordCount, RecordDuration and RecordEvent.
var NewRelicContextKey = newRelicContextKey{}

// StartTransaction injects app into the context and starts a New Relic
// transaction so downstream TraceMethodCall calls have a parent. The returned
// func ends the transaction. A nil app leaves the context untouched.
func StartTransaction(ctx context.Context, app *newrelic.Application, name string) (context.Context, func()) {
	if app == nil {
		return ctx, func() {}
	}

	ctx = context.WithValue(ctx, NewRelicContextKey, app)

	txn := app.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), txn.End
}
