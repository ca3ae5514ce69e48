package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/simaogato/wheeltrack-backend/internal/adapter/validation"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/deposit"
)

// Server implements the DepositService gRPC server
type Server struct {
	DepositService *deposit.DepositService

	validator *validation.Helper
}

// NewServer creates a new gRPC server instance
func NewServer(depositService *deposit.DepositService) *Server {
	return &Server{
		DepositService: depositService,
		validator:      validation.NewHelper(),
	}
}

// RecordDeposit handles the RecordDeposit RPC
func (s *Server) RecordDeposit(ctx context.Context, req *RecordDepositRequest) (*RecordDepositResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, validation.Message(err))
	}

	// Validated above, parse errors cannot happen here
	amount := decimal.RequireFromString(req.Amount)
	date, _ := domain.ParseDate(req.Date)

	input := deposit.RecordDepositInput{
		UserID: userID,
		Type:   domain.DepositType(req.Type),
		Amount: amount,
		Date:   date,
		Notes:  req.Notes,
	}

	if req.BenchmarkPrice != "" {
		price := decimal.RequireFromString(req.BenchmarkPrice)
		input.BenchmarkPrice = &price
	}

	record, err := s.DepositService.RecordDeposit(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return &RecordDepositResponse{Deposit: domainDepositToProto(record)}, nil
}

// ListDeposits handles the ListDeposits RPC
func (s *Server) ListDeposits(ctx context.Context, req *ListDepositsRequest) (*ListDepositsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.DepositService.ListDeposits(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}

	deposits := make([]*Deposit, 0, len(records))
	for i := range records {
		deposits = append(deposits, domainDepositToProto(&records[i]))
	}

	return &ListDepositsResponse{Deposits: deposits}, nil
}

// UpdateDepositNotes handles the UpdateDepositNotes RPC
func (s *Server) UpdateDepositNotes(ctx context.Context, req *UpdateDepositNotesRequest) (*UpdateDepositNotesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, validation.Message(err))
	}

	record, err := s.DepositService.UpdateNotes(ctx, userID, uuid.MustParse(req.Id), req.Notes)
	if err != nil {
		return nil, mapError(err)
	}

	return &UpdateDepositNotesResponse{Deposit: domainDepositToProto(record)}, nil
}

// DeleteDeposit handles the DeleteDeposit RPC
func (s *Server) DeleteDeposit(ctx context.Context, req *DeleteDepositRequest) (*DeleteDepositResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, validation.Message(err))
	}

	if err := s.DepositService.DeleteDeposit(ctx, userID, uuid.MustParse(req.Id)); err != nil {
		return nil, mapError(err)
	}

	return &DeleteDepositResponse{}, nil
}

// GetDepositSummary handles the GetDepositSummary RPC
func (s *Server) GetDepositSummary(ctx context.Context, req *GetDepositSummaryRequest) (*GetDepositSummaryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.DepositService.GetSummary(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &GetDepositSummaryResponse{
		TotalDeposits:        summary.TotalDeposits.String(),
		TotalWithdrawals:     summary.TotalWithdrawals.String(),
		DepositCount:         int32(summary.DepositCount),
		WithdrawalCount:      int32(summary.WithdrawalCount),
		NetInvested:          summary.NetInvested.String(),
		TotalBenchmarkShares: summary.TotalBenchmarkShares.String(),
		FirstDepositDate:     optionalTimestamp(summary.FirstDepositDate),
		LastDepositDate:      optionalTimestamp(summary.LastDepositDate),
	}
	if summary.AverageCostBasis != nil {
		resp.AverageCostBasis = summary.AverageCostBasis.String()
	}

	return resp, nil
}

// CompareLumpSum handles the CompareLumpSum RPC
func (s *Server) CompareLumpSum(ctx context.Context, req *CompareLumpSumRequest) (*CompareLumpSumResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, validation.Message(err))
	}

	input := deposit.CompareInput{UserID: userID}
	if req.LumpSumDate != "" {
		date, _ := domain.ParseDate(req.LumpSumDate)
		input.LumpSumDate = &date
	}
	if req.LumpSumPrice != "" {
		price := decimal.RequireFromString(req.LumpSumPrice)
		input.LumpSumPrice = &price
	}

	result, err := s.DepositService.CompareLumpSum(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return domainComparisonToProto(result), nil
}

// domainDepositToProto converts a domain DepositRecord to its wire message
func domainDepositToProto(record *domain.DepositRecord) *Deposit {
	return &Deposit{
		Id:              record.ID.String(),
		Type:            string(record.Type),
		Amount:          record.Amount.String(),
		Date:            timestamppb.New(record.Date),
		BenchmarkTicker: record.BenchmarkTicker,
		BenchmarkPrice:  record.BenchmarkPrice.String(),
		BenchmarkShares: record.BenchmarkShares.String(),
		Notes:           record.Notes,
		CreatedAt:       timestamppb.New(record.CreatedAt),
	}
}

// domainComparisonToProto converts a comparison to its wire message
func domainComparisonToProto(result *domain.LumpSumComparison) *CompareLumpSumResponse {
	series := make([]*ComparisonPoint, 0, len(result.Series))
	for _, p := range result.Series {
		series = append(series, &ComparisonPoint{
			Date:         timestamppb.New(p.Date),
			Price:        p.Price.String(),
			DcaValue:     p.DCAValue.String(),
			LumpSumValue: p.LumpSumValue.String(),
		})
	}

	return &CompareLumpSumResponse{
		CurrentPrice:        result.CurrentPrice.String(),
		DcaInvested:         result.DCAInvested.String(),
		DcaShares:           result.DCAShares.String(),
		DcaCurrentValue:     result.DCACurrentValue.String(),
		DcaReturn:           result.DCAReturn.String(),
		DcaReturnPct:        result.DCAReturnPct.String(),
		LumpSumDate:         timestamppb.New(result.LumpSumDate),
		LumpSumPrice:        result.LumpSumPrice.String(),
		LumpSumShares:       result.LumpSumShares.String(),
		LumpSumCurrentValue: result.LumpSumCurrentValue.String(),
		LumpSumReturn:       result.LumpSumReturn.String(),
		LumpSumReturnPct:    result.LumpSumReturnPct.String(),
		IsWhatIf:            result.IsWhatIf,
		TimingBenefit:       result.TimingBenefit.String(),
		TimingBenefitPct:    result.TimingBenefitPct.String(),
		Winner:              string(result.Winner),
		FirstDepositDate:    timestamppb.New(result.FirstDepositDate),
		LastDepositDate:     timestamppb.New(result.LastDepositDate),
		Series:              series,
	}
}

func optionalTimestamp(t *time.Time) *timestamppb.Timestamp {
	if t == nil {
		return nil
	}
	return timestamppb.New(*t)
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrNoDeposits):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrPriceUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
