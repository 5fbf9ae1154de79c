package service

import (
	"connectrpc.com/connect"
)

func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}

// LunchServiceClient calls LunchService over Connect with the JSON codec.
type LunchServiceClient struct {
	ListMembers        *connect.Client[ListMembersRequest, ListMembersResponse]
	AddMember          *connect.Client[AddMemberRequest, AddMemberResponse]
	ToggleMemberActive *connect.Client[ToggleMemberActiveRequest, ToggleMemberActiveResponse]
	DeleteMember       *connect.Client[DeleteMemberRequest, DeleteMemberResponse]
	ListRecords        *connect.Client[ListRecordsRequest, ListRecordsResponse]
	AddRecord          *connect.Client[AddRecordRequest, AddRecordResponse]
	ListPayments       *connect.Client[ListPaymentsRequest, ListPaymentsResponse]
	AddPayment         *connect.Client[AddPaymentRequest, AddPaymentResponse]
	ClearRecords       *connect.Client[ClearRecordsRequest, ClearRecordsResponse]
	ClearPayments      *connect.Client[ClearPaymentsRequest, ClearPaymentsResponse]
	ClearAllData       *connect.Client[ClearAllDataRequest, ClearAllDataResponse]
	GetBalances        *connect.Client[GetBalancesRequest, GetBalancesResponse]
	GetReceivables     *connect.Client[GetReceivablesRequest, GetReceivablesResponse]
	GetDashboard       *connect.Client[GetDashboardRequest, GetDashboardResponse]
	GetSyncStatus      *connect.Client[GetSyncStatusRequest, GetSyncStatusResponse]
}

// NewLunchServiceClient creates a client for the service at baseURL
// (e.g. http://localhost:8080).
func NewLunchServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LunchServiceClient {
	return &LunchServiceClient{
		ListMembers:        newClient[ListMembersRequest, ListMembersResponse](httpClient, baseURL, LunchServiceListMembersProcedure, opts),
		AddMember:          newClient[AddMemberRequest, AddMemberResponse](httpClient, baseURL, LunchServiceAddMemberProcedure, opts),
		ToggleMemberActive: newClient[ToggleMemberActiveRequest, ToggleMemberActiveResponse](httpClient, baseURL, LunchServiceToggleMemberActiveProcedure, opts),
		DeleteMember:       newClient[DeleteMemberRequest, DeleteMemberResponse](httpClient, baseURL, LunchServiceDeleteMemberProcedure, opts),
		ListRecords:        newClient[ListRecordsRequest, ListRecordsResponse](httpClient, baseURL, LunchServiceListRecordsProcedure, opts),
		AddRecord:          newClient[AddRecordRequest, AddRecordResponse](httpClient, baseURL, LunchServiceAddRecordProcedure, opts),
		ListPayments:       newClient[ListPaymentsRequest, ListPaymentsResponse](httpClient, baseURL, LunchServiceListPaymentsProcedure, opts),
		AddPayment:         newClient[AddPaymentRequest, AddPaymentResponse](httpClient, baseURL, LunchServiceAddPaymentProcedure, opts),
		ClearRecords:       newClient[ClearRecordsRequest, ClearRecordsResponse](httpClient, baseURL, LunchServiceClearRecordsProcedure, opts),
		ClearPayments:      newClient[ClearPaymentsRequest, ClearPaymentsResponse](httpClient, baseURL, LunchServiceClearPaymentsProcedure, opts),
		ClearAllData:       newClient[ClearAllDataRequest, ClearAllDataResponse](httpClient, baseURL, LunchServiceClearAllDataProcedure, opts),
		GetBalances:        newClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL, LunchServiceGetBalancesProcedure, opts),
		GetReceivables:     newClient[GetReceivablesRequest, GetReceivablesResponse](httpClient, baseURL, LunchServiceGetReceivablesProcedure, opts),
		GetDashboard:       newClient[GetDashboardRequest, GetDashboardResponse](httpClient, baseURL, LunchServiceGetDashboardProcedure, opts),
		GetSyncStatus:      newClient[GetSyncStatusRequest, GetSyncStatusResponse](httpClient, baseURL, LunchServiceGetSyncStatusProcedure, opts),
	}
}

// AuthServiceClient calls AuthService over Connect with the JSON codec.
type AuthServiceClient struct {
	Register       *connect.Client[RegisterRequest, RegisterResponse]
	Login          *connect.Client[LoginRequest, LoginResponse]
	Logout         *connect.Client[LogoutRequest, LogoutResponse]
	GetCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

// NewAuthServiceClient creates a client for the service at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	return &AuthServiceClient{
		Register:       newClient[RegisterRequest, RegisterResponse](httpClient, baseURL, AuthServiceRegisterProcedure, opts),
		Login:          newClient[LoginRequest, LoginResponse](httpClient, baseURL, AuthServiceLoginProcedure, opts),
		Logout:         newClient[LogoutRequest, LogoutResponse](httpClient, baseURL, AuthServiceLogoutProcedure, opts),
		GetCurrentUser: newClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL, AuthServiceGetCurrentUserProcedure, opts),
	}
}
