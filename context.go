package authcore

import "context"

type clientInfoKey struct{}

// ClientInfo carries per-request client attribution for audit events. The
// HTTP layer attaches it; the engine only reads it.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// WithClientInfo returns a context carrying info.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

func clientInfoFromContext(ctx context.Context) ClientInfo {
	if ctx == nil {
		return ClientInfo{}
	}
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}
