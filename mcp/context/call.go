package context

import (
	"context"
)

type callKey string

// CallIDKey carries the id of the tool call being served.
var CallIDKey = callKey("callID")

func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CallIDKey, id)
}

func CallID(ctx context.Context) (string, bool) {
	ret := ctx.Value(CallIDKey)
	if ret == nil {
		return "", false
	}
	id, ok := ret.(string)
	return id, ok
}
