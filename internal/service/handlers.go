package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// LunchServiceName is the fully-qualified name of the lunch ledger service.
	LunchServiceName = "khaja.v1.LunchService"
	// AuthServiceName is the fully-qualified name of the authentication service.
	AuthServiceName = "khaja.v1.AuthService"
)

// Procedure paths of LunchService.
const (
	LunchServiceListMembersProcedure        = "/khaja.v1.LunchService/ListMembers"
	LunchServiceAddMemberProcedure          = "/khaja.v1.LunchService/AddMember"
	LunchServiceToggleMemberActiveProcedure = "/khaja.v1.LunchService/ToggleMemberActive"
	LunchServiceDeleteMemberProcedure       = "/khaja.v1.LunchService/DeleteMember"
	LunchServiceListRecordsProcedure        = "/khaja.v1.LunchService/ListRecords"
	LunchServiceAddRecordProcedure          = "/khaja.v1.LunchService/AddRecord"
	LunchServiceListPaymentsProcedure       = "/khaja.v1.LunchService/ListPayments"
	LunchServiceAddPaymentProcedure         = "/khaja.v1.LunchService/AddPayment"
	LunchServiceClearRecordsProcedure       = "/khaja.v1.LunchService/ClearRecords"
	LunchServiceClearPaymentsProcedure      = "/khaja.v1.LunchService/ClearPayments"
	LunchServiceClearAllDataProcedure       = "/khaja.v1.LunchService/ClearAllData"
	LunchServiceGetBalancesProcedure        = "/khaja.v1.LunchService/GetBalances"
	LunchServiceGetReceivablesProcedure     = "/khaja.v1.LunchService/GetReceivables"
	LunchServiceGetDashboardProcedure       = "/khaja.v1.LunchService/GetDashboard"
	LunchServiceGetSyncStatusProcedure      = "/khaja.v1.LunchService/GetSyncStatus"
)

// Procedure paths of AuthService.
const (
	AuthServiceRegisterProcedure       = "/khaja.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/khaja.v1.AuthService/Login"
	AuthServiceLogoutProcedure         = "/khaja.v1.AuthService/Logout"
	AuthServiceGetCurrentUserProcedure = "/khaja.v1.AuthService/GetCurrentUser"
)

// IsRPCPath reports whether an HTTP path belongs to one of the services.
func IsRPCPath(path string) bool {
	return strings.HasPrefix(path, "/"+LunchServiceName+"/") ||
		strings.HasPrefix(path, "/"+AuthServiceName+"/")
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

func handle[Req, Res any](
	mux *http.ServeMux,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// NewLunchServiceHandler builds an HTTP handler serving every LunchService
// procedure. It returns the path prefix to mount the handler on.
func NewLunchServiceHandler(svc *LunchService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, LunchServiceListMembersProcedure, svc.ListMembers, opts)
	handle(mux, LunchServiceAddMemberProcedure, svc.AddMember, opts)
	handle(mux, LunchServiceToggleMemberActiveProcedure, svc.ToggleMemberActive, opts)
	handle(mux, LunchServiceDeleteMemberProcedure, svc.DeleteMember, opts)
	handle(mux, LunchServiceListRecordsProcedure, svc.ListRecords, opts)
	handle(mux, LunchServiceAddRecordProcedure, svc.AddRecord, opts)
	handle(mux, LunchServiceListPaymentsProcedure, svc.ListPayments, opts)
	handle(mux, LunchServiceAddPaymentProcedure, svc.AddPayment, opts)
	handle(mux, LunchServiceClearRecordsProcedure, svc.ClearRecords, opts)
	handle(mux, LunchServiceClearPaymentsProcedure, svc.ClearPayments, opts)
	handle(mux, LunchServiceClearAllDataProcedure, svc.ClearAllData, opts)
	handle(mux, LunchServiceGetBalancesProcedure, svc.GetBalances, opts)
	handle(mux, LunchServiceGetReceivablesProcedure, svc.GetReceivables, opts)
	handle(mux, LunchServiceGetDashboardProcedure, svc.GetDashboard, opts)
	handle(mux, LunchServiceGetSyncStatusProcedure, svc.GetSyncStatus, opts)
	return "/" + LunchServiceName + "/", mux
}

// NewAuthServiceHandler builds an HTTP handler serving every AuthService
// procedure. It returns the path prefix to mount the handler on.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, AuthServiceRegisterProcedure, svc.Register, opts)
	handle(mux, AuthServiceLoginProcedure, svc.Login, opts)
	handle(mux, AuthServiceLogoutProcedure, svc.Logout, opts)
	handle(mux, AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts)
	return "/" + AuthServiceName + "/", mux
}
