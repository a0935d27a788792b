package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

var requestDataKey ctxKey

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}

// RequestData carries the authenticated identity through a request. Role is the
// stored profile role, loaded once at token validation so services can enforce
// role guards without re-fetching the profile.
type RequestData struct {
	TokenString  string
	RefreshToken string
	UserID       uuid.UUID
	Role         string
}
