package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UserIDMetadataKey carries the caller's identity. Authentication happens in
// front of this service; the value is trusted as given.
const UserIDMetadataKey = "x-user-id"

func userIDFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing request metadata")
	}
	for _, v := range md.Get(UserIDMetadataKey) {
		if id := strings.TrimSpace(v); id != "" {
			return id, nil
		}
	}
	return "", status.Error(codes.Unauthenticated, UserIDMetadataKey+" metadata is required")
}

// WithUserID attaches the caller's identity to an outgoing context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, UserIDMetadataKey, userID)
}
