package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/khaja/internal/calculator"
	"github.com/mmynk/khaja/internal/middleware"
	"github.com/mmynk/khaja/internal/models"
	"github.com/mmynk/khaja/internal/workspace"
)

// LunchService exposes the signed-in user's workspace: members, lunch
// records, payments and the settlement views computed from them.
type LunchService struct {
	workspaces *workspace.Registry
	logger     *slog.Logger
	now        func() time.Time
}

// NewLunchService creates a LunchService backed by the given registry.
func NewLunchService(workspaces *workspace.Registry, logger *slog.Logger) *LunchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LunchService{
		workspaces: workspaces,
		logger:     logger,
		now:        time.Now,
	}
}

// workspace resolves the caller's workspace from the authenticated context.
func (s *LunchService) workspace(ctx context.Context) (*workspace.Workspace, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}

	ws, err := s.workspaces.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load workspace", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, fmt.Errorf("workspace unavailable: %w", err))
	}
	return ws, nil
}

// ListMembers returns all members, or only active ones.
func (s *LunchService) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}

	members := ws.Ledger.Members()
	if req.Msg.ActiveOnly {
		members = ws.Ledger.ActiveMembers()
	}
	return connect.NewResponse(&ListMembersResponse{Members: members}), nil
}

// AddMember adds an active member.
func (s *LunchService) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}

	member, err := ws.Ledger.AddMember(req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Member added", "user_id", ws.UserID, "member_id", member.ID)
	return connect.NewResponse(&AddMemberResponse{Member: member}), nil
}

// ToggleMemberActive flips a member's active flag.
func (s *LunchService) ToggleMemberActive(ctx context.Context, req *connect.Request[ToggleMemberActiveRequest]) (*connect.Response[ToggleMemberActiveResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}

	member, err := ws.Ledger.ToggleMemberActive(req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Member toggled", "user_id", ws.UserID, "member_id", member.ID, "active", member.Active)
	return connect.NewResponse(&ToggleMemberActiveResponse{Member: member}), nil
}

// DeleteMember removes a member that no record or payment references.
func (s *LunchService) DeleteMember(ctx context.Context, req *connect.Request[DeleteMemberRequest]) (*connect.Response[DeleteMemberResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}

	member, err := ws.Ledger.DeleteMember(req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Member deleted", "user_id", ws.UserID, "member_id", member.ID)
	return connect.NewResponse(&DeleteMemberResponse{Member: member}), nil
}

// ListRecords returns all lunch records, newest first, with resolved shares.
func (s *LunchService) ListRecords(ctx context.Context, req *connect.Request[ListRecordsRequest]) (*connect.Response[ListRecordsResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ListRecordsResponse{Records: toRecords(ws.Ledger.Records())}), nil
}

// AddRecord validates and stores a lunch record.
func (s *LunchService) AddRecord(ctx context.Context, req *connect.Request[AddRecordRequest]) (*connect.Response[AddRecordResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}

	record, err := ws.Ledger.AddRecord(models.RecordInput{
		Date:              req.Msg.Date,
		Description:       req.Msg.Description,
		Total:             req.Msg.Total,
		PaidByID:          req.Msg.PaidByID,
		ParticipantIDs:    req.Msg.ParticipantIDs,
		ParticipantShares: req.Msg.ParticipantShares,
		Note:              req.Msg.Note,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Record added",
		"user_id", ws.UserID,
		"record_id", record.ID,
		"total", record.Total,
		"participants", len(record.ParticipantIDs),
	)
	return connect.NewResponse(&AddRecordResponse{Record: toRecord(record)}), nil
}

// ListPayments returns all payments, newest first.
func (s *LunchService) ListPayments(ctx context.Context, req *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ListPaymentsResponse{Payments: ws.Ledger.Payments()}), nil
}

// AddPayment validates and stores a payment.
func (s *LunchService) AddPayment(ctx context.Context, req *connect.Request[AddPaymentRequest]) (*connect.Response[AddPaymentResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}

	payment, err := ws.Ledger.AddPayment(models.PaymentInput{
		Date:     req.Msg.Date,
		MemberID: req.Msg.MemberID,
		Amount:   req.Msg.Amount,
		Note:     req.Msg.Note,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Payment added", "user_id", ws.UserID, "payment_id", payment.ID, "member_id", payment.MemberID)
	return connect.NewResponse(&AddPaymentResponse{Payment: payment}), nil
}

// ClearRecords removes all records together with all payments.
func (s *LunchService) ClearRecords(ctx context.Context, req *connect.Request[ClearRecordsRequest]) (*connect.Response[ClearRecordsResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}
	ws.Ledger.ClearRecords()
	s.logger.Info("Records cleared", "user_id", ws.UserID)
	return connect.NewResponse(&ClearRecordsResponse{}), nil
}

// ClearPayments removes all payments.
func (s *LunchService) ClearPayments(ctx context.Context, req *connect.Request[ClearPaymentsRequest]) (*connect.Response[ClearPaymentsResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}
	ws.Ledger.ClearPayments()
	s.logger.Info("Payments cleared", "user_id", ws.UserID)
	return connect.NewResponse(&ClearPaymentsResponse{}), nil
}

// ClearAllData empties the workspace.
func (s *LunchService) ClearAllData(ctx context.Context, req *connect.Request[ClearAllDataRequest]) (*connect.Response[ClearAllDataResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}
	ws.Ledger.ClearAllData()
	s.logger.Info("Workspace cleared", "user_id", ws.UserID)
	return connect.NewResponse(&ClearAllDataResponse{}), nil
}

// GetBalances returns net balances and the suggested settlement payments.
func (s *LunchService) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}

	balances := ws.Ledger.Balances()
	return connect.NewResponse(&GetBalancesResponse{
		Balances:    toBalances(balances),
		Settlements: toSettlements(calculator.SimplifyDebts(balances)),
	}), nil
}

// GetReceivables returns what each member still owes after payments.
func (s *LunchService) GetReceivables(ctx context.Context, req *connect.Request[GetReceivablesRequest]) (*connect.Response[GetReceivablesResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}

	summary := ws.Ledger.Receivables()
	return connect.NewResponse(&GetReceivablesResponse{
		Receivables: toReceivables(summary),
		Total:       summary.Total,
	}), nil
}

// GetDashboard returns spending totals for a day, its month and all time.
func (s *LunchService) GetDashboard(ctx context.Context, req *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	if req.Msg.Today != "" {
		today, err = time.ParseInLocation(time.DateOnly, req.Msg.Today, time.Local)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("today must be YYYY-MM-DD: %w", err))
		}
	}

	stats := ws.Ledger.Dashboard(today)
	return connect.NewResponse(&GetDashboardResponse{
		TodayTotal: stats.TodayTotal,
		TodayCount: stats.TodayCount,
		MonthTotal: stats.MonthTotal,
		GrandTotal: stats.GrandTotal,
	}), nil
}

// GetSyncStatus reports whether the workspace has unsaved changes.
func (s *LunchService) GetSyncStatus(ctx context.Context, req *connect.Request[GetSyncStatusRequest]) (*connect.Response[GetSyncStatusResponse], error) {
	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}

	status := ws.SyncStatus()
	resp := &GetSyncStatusResponse{
		Dirty:     status.Dirty,
		LastError: status.LastError,
	}
	if !status.LastSyncedAt.IsZero() {
		synced := status.LastSyncedAt.UTC()
		resp.LastSyncedAt = &synced
	}
	return connect.NewResponse(resp), nil
}
