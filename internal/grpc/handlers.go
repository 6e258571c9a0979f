package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/godilite/assessment-server/api/v1"
	"github.com/godilite/assessment-server/internal/assessment"
	"github.com/godilite/assessment-server/internal/service"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
)

type CacheKeyType string

const (
	cacheKeyCompetencies     CacheKeyType = "grpc:competencies"
	cacheKeyAssessmentResult CacheKeyType = "grpc:assessment_result"
)

type GRPCHandlers struct {
	pb.UnimplementedAssessmentStoreServer
	assessments AssessmentService
	cache       Cacher
	logger      *zap.Logger
	sfGroup     singleflight.Group
	cacheTTL    time.Duration
}

// NewGRPCHandlers initializes the gRPC handlers. cache may be nil.
func NewGRPCHandlers(assessments AssessmentService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if assessments == nil {
		panic("nil AssessmentService provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		assessments: assessments,
		cache:       cache,
		logger:      logger.Named("grpc-handler"),
		cacheTTL:    ttl,
	}
}

// Results are scoped by user so one caller can never read another's cached entry.
func resultKey(userID, assessmentID string) string {
	return fmt.Sprintf("%s:%s:%s", cacheKeyAssessmentResult, userID, assessmentID)
}

func requireID(name, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	return v, nil
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrNoCompetencies),
		errors.Is(err, service.ErrInvalidRating):
		s.logger.Info("invalid request", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrAssessmentNotFound),
		errors.Is(err, service.ErrQuestionNotFound):
		s.logger.Info("not found", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrNoQuestions),
		errors.Is(err, service.ErrAssessmentCompleted),
		errors.Is(err, service.ErrAssessmentIncomplete),
		errors.Is(err, service.ErrResultNotReady):
		s.logger.Info("precondition failed", zap.String("op", op), zap.Error(err))
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

// InvalidateCatalog drops the cached competency list, for example after the
// catalog was reseeded.
func (s *GRPCHandlers) InvalidateCatalog(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, string(cacheKeyCompetencies)); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

func (s *GRPCHandlers) ListCompetencies(ctx context.Context, _ *pb.Empty) (*pb.ListCompetenciesResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	policy := CachePolicy{TTL: s.cacheTTL, RefreshAhead: true}
	competencies, err := FindAndCache(ctx, s.cache, &s.sfGroup, string(cacheKeyCompetencies), policy, s.logger,
		func(fetchCtx context.Context) ([]assessment.Competency, error) {
			return s.assessments.ListCompetencies(fetchCtx)
		})
	if err != nil {
		return nil, s.handleError(ctx, "ListCompetencies", err)
	}

	return &pb.ListCompetenciesResponse{Competencies: toPBCompetencies(competencies)}, nil
}

func (s *GRPCHandlers) CreateAssessment(ctx context.Context, req *pb.CreateAssessmentRequest) (*pb.Assessment, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	a, err := s.assessments.CreateAssessment(ctx, userID, req.CompetencyIDs)
	if err != nil {
		return nil, s.handleError(ctx, "CreateAssessment", err)
	}
	return toPBAssessment(a), nil
}

func (s *GRPCHandlers) GetAssessment(ctx context.Context, req *pb.AssessmentRequest) (*pb.GetAssessmentResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	assessmentID, err := requireID("assessment id", req.AssessmentID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	a, answered, err := s.assessments.GetAssessment(ctx, userID, assessmentID)
	if err != nil {
		return nil, s.handleError(ctx, "GetAssessment", err)
	}
	return &pb.GetAssessmentResponse{Assessment: *toPBAssessment(a), AnsweredCount: answered}, nil
}

func (s *GRPCHandlers) SubmitResponse(ctx context.Context, req *pb.SubmitResponseRequest) (*pb.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	assessmentID, err := requireID("assessment id", req.AssessmentID)
	if err != nil {
		return nil, err
	}
	questionID, err := requireID("question id", req.QuestionID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	if err := s.assessments.SubmitResponse(ctx, userID, assessmentID, questionID, req.Rating, req.Comment); err != nil {
		return nil, s.handleError(ctx, "SubmitResponse", err)
	}
	return &pb.Empty{}, nil
}

func (s *GRPCHandlers) CompleteAssessment(ctx context.Context, req *pb.AssessmentRequest) (*pb.AssessmentResult, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	assessmentID, err := requireID("assessment id", req.AssessmentID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	result, err := s.assessments.CompleteAssessment(ctx, userID, assessmentID)
	if err != nil {
		return nil, s.handleError(ctx, "CompleteAssessment", err)
	}

	storeInCache(s.cache, resultKey(userID, assessmentID), result, s.cacheTTL, s.logger)
	return toPBResult(result), nil
}

func (s *GRPCHandlers) ListMyAssessments(ctx context.Context, _ *pb.Empty) (*pb.ListMyAssessmentsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	summaries, err := s.assessments.ListMyAssessments(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, "ListMyAssessments", err)
	}
	return &pb.ListMyAssessmentsResponse{Assessments: toPBSummaries(summaries)}, nil
}

func (s *GRPCHandlers) GetAssessmentResult(ctx context.Context, req *pb.AssessmentRequest) (*pb.AssessmentResult, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	assessmentID, err := requireID("assessment id", req.AssessmentID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	// A completed result never changes, so there is nothing to refresh.
	policy := CachePolicy{TTL: s.cacheTTL}
	result, err := FindAndCache(ctx, s.cache, &s.sfGroup, resultKey(userID, assessmentID), policy, s.logger,
		func(fetchCtx context.Context) (assessment.Result, error) {
			return s.assessments.GetAssessmentResult(fetchCtx, userID, assessmentID)
		})
	if err != nil {
		return nil, s.handleError(ctx, "GetAssessmentResult", err)
	}
	return toPBResult(result), nil
}
