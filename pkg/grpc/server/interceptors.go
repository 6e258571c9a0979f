package server

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor logs each unary call with its duration and status.
// Caller mistakes are logged at Warn, server faults at Error.
func LoggingInterceptor(logger *zap.Logger, metadataKeys ...string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		fields := []zap.Field{zap.String("method", info.FullMethod)}
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			fields = append(fields, zap.String("client_addr", p.Addr.String()))
		}
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			for _, k := range metadataKeys {
				if v := md.Get(k); len(v) > 0 {
					fields = append(fields, zap.String(k, v[0]))
				}
			}
		}

		logger.Debug("gRPC request started", fields...)

		resp, err := handler(ctx, req)

		st := status.Convert(err)
		fields = append(fields,
			zap.Duration("duration", time.Since(start)),
			zap.String("status_code", st.Code().String()))

		if err == nil {
			logger.Info("gRPC request completed", fields...)
			return resp, nil
		}

		fields = append(fields, zap.String("status_message", st.Message()))
		logger.Log(levelFor(st.Code()), "gRPC request failed", fields...)
		return resp, err
	}
}

func levelFor(code codes.Code) zapcore.Level {
	switch code {
	case codes.InvalidArgument, codes.NotFound, codes.FailedPrecondition,
		codes.Unauthenticated, codes.PermissionDenied, codes.AlreadyExists, codes.Canceled:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// RecoveryInterceptor converts a panic in a handler into an Internal error.
func RecoveryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("gRPC handler panicked",
					zap.String("method", info.FullMethod),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
