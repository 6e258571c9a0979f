package grpc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/godilite/assessment-server/api/v1"
	"github.com/godilite/assessment-server/internal/assessment"
)

// StoreError is a failure reported by the remote store. Its message is the
// server's message, unchanged, so it can be shown to the user as is.
type StoreError struct {
	Code    codes.Code
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

func (e *StoreError) GRPCStatus() *status.Status {
	return status.New(e.Code, e.Message)
}

// StoreCode returns the status code of a store failure, or codes.Unknown.
func StoreCode(err error) codes.Code {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	return status.Code(err)
}

// RemoteStore is the client side of the assessment store. It implements
// assessment.Store over gRPC on behalf of one user.
type RemoteStore struct {
	client pb.AssessmentStoreClient
	userID string
}

var _ assessment.Store = (*RemoteStore)(nil)

func NewRemoteStore(conn grpc.ClientConnInterface, userID string) *RemoteStore {
	if conn == nil {
		panic("nil connection provided to NewRemoteStore")
	}
	return &RemoteStore{client: pb.NewAssessmentStoreClient(conn), userID: userID}
}

func (r *RemoteStore) ctx(ctx context.Context) context.Context {
	return WithUserID(ctx, r.userID)
}

func remoteError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	return &StoreError{Code: st.Code(), Message: st.Message()}
}

func (r *RemoteStore) ListCompetencies(ctx context.Context) ([]assessment.Competency, error) {
	resp, err := r.client.ListCompetencies(r.ctx(ctx), &pb.Empty{})
	if err != nil {
		return nil, remoteError(err)
	}
	return fromPBCompetencies(resp.Competencies), nil
}

func (r *RemoteStore) CreateAssessment(ctx context.Context, competencyIDs []string) (assessment.Assessment, error) {
	resp, err := r.client.CreateAssessment(r.ctx(ctx), &pb.CreateAssessmentRequest{CompetencyIDs: competencyIDs})
	if err != nil {
		return assessment.Assessment{}, remoteError(err)
	}
	a, err := fromPBAssessment(resp)
	if err != nil {
		return assessment.Assessment{}, fmt.Errorf("decode assessment: %w", err)
	}
	return a, nil
}

func (r *RemoteStore) GetAssessment(ctx context.Context, assessmentID string) (assessment.Assessment, int, error) {
	resp, err := r.client.GetAssessment(r.ctx(ctx), &pb.AssessmentRequest{AssessmentID: assessmentID})
	if err != nil {
		return assessment.Assessment{}, 0, remoteError(err)
	}
	a, err := fromPBAssessment(&resp.Assessment)
	if err != nil {
		return assessment.Assessment{}, 0, fmt.Errorf("decode assessment: %w", err)
	}
	return a, resp.AnsweredCount, nil
}

func (r *RemoteStore) SubmitResponse(ctx context.Context, assessmentID, questionID string, rating int, comment string) error {
	_, err := r.client.SubmitResponse(r.ctx(ctx), &pb.SubmitResponseRequest{
		AssessmentID: assessmentID,
		QuestionID:   questionID,
		Rating:       rating,
		Comment:      comment,
	})
	if err != nil {
		return remoteError(err)
	}
	return nil
}

func (r *RemoteStore) CompleteAssessment(ctx context.Context, assessmentID string) (assessment.Result, error) {
	resp, err := r.client.CompleteAssessment(r.ctx(ctx), &pb.AssessmentRequest{AssessmentID: assessmentID})
	if err != nil {
		return assessment.Result{}, remoteError(err)
	}
	return fromPBResult(resp), nil
}

func (r *RemoteStore) ListMyAssessments(ctx context.Context) ([]assessment.Summary, error) {
	resp, err := r.client.ListMyAssessments(r.ctx(ctx), &pb.Empty{})
	if err != nil {
		return nil, remoteError(err)
	}
	return fromPBSummaries(resp.Assessments), nil
}

func (r *RemoteStore) GetAssessmentResult(ctx context.Context, assessmentID string) (assessment.Result, error) {
	resp, err := r.client.GetAssessmentResult(r.ctx(ctx), &pb.AssessmentRequest{AssessmentID: assessmentID})
	if err != nil {
		return assessment.Result{}, remoteError(err)
	}
	return fromPBResult(resp), nil
}
