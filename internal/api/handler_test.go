package api_test

import (
	"bytes"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/api"
	mockcredits "github.com/ScottyKingy/WebSecurityScannerV5/internal/credits/mock"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/registry"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/scan"
	mockscan "github.com/ScottyKingy/WebSecurityScannerV5/internal/scan/mock"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/logger"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/mock/gomock"
)

type testAPI struct {
	orchestrator *mockscan.MockOrchestrator
	ledger       *mockcredits.MockLedger
	key          *rsa.PrivateKey
	router       http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger.Setup(logger.DevelopmentEnvironment)

	ctrl := gomock.NewController(t)
	key, verifier := testKeys(t)

	reg, err := registry.New([]string{"content_quality", "seo_signals", "security_headers"})
	require.NoError(t, err)

	ta := &testAPI{
		orchestrator: mockscan.NewMockOrchestrator(ctrl),
		ledger:       mockcredits.NewMockLedger(ctrl),
		key:          key,
	}

	handler := api.NewHandler(ta.orchestrator, ta.ledger, reg, verifier)
	router, err := handler.Router(noop.NewMeterProvider())
	require.NoError(t, err)
	ta.router = router

	return ta
}

// token issues a bearer token for the given identity.
func (ta *testAPI) token(t *testing.T, identity domain.Identity) string {
	t.Helper()

	claims := freshClaims(uuid.UUID(identity.UserID).String())
	claims.Role = string(identity.Role)
	claims.Tier = string(identity.Tier)

	return signToken(t, ta.key, claims)
}

func (ta *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func member(tier domain.Tier) domain.Identity {
	return domain.Identity{UserID: domain.UserID(uuid.New()), Role: domain.RoleUser, Tier: tier}
}

func admin() domain.Identity {
	return domain.Identity{UserID: domain.UserID(uuid.New()), Role: domain.RoleAdmin, Tier: domain.TierEnterprise}
}

func TestAPI_RejectsMissingToken(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, http.MethodGet, "/v1/credits/balance", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeBody(t, rec)
	errObj, _ := body["error"].(map[string]any)
	require.Equal(t, "UNAUTHORIZED", errObj["code"])
}

func TestAPI_CreditBalance(t *testing.T) {
	ta := newTestAPI(t)
	identity := member(domain.TierUltimate)

	ta.ledger.EXPECT().Balance(gomock.Any(), identity.UserID).Return(&domain.CreditBalance{
		UserID:         identity.UserID,
		CurrentBalance: 42,
		UpdatedAt:      time.Now(),
	}, nil)

	rec := ta.do(t, http.MethodGet, "/v1/credits/balance", ta.token(t, identity), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, float64(42), body["currentBalance"])
	require.Equal(t, uuid.UUID(identity.UserID).String(), body["userId"])
	require.Equal(t, false, body["unlimited"])
}

func TestAPI_CreditBalance_NotFound(t *testing.T) {
	ta := newTestAPI(t)
	identity := member(domain.TierLite)

	ta.ledger.EXPECT().Balance(gomock.Any(), identity.UserID).
		Return(nil, serrors.With(serrors.ErrNotFound, "no balance"))

	rec := ta.do(t, http.MethodGet, "/v1/credits/balance", ta.token(t, identity), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_CreditHistory_TierRestricted(t *testing.T) {
	ta := newTestAPI(t)
	identity := member(domain.TierLite)

	ta.ledger.EXPECT().History(gomock.Any(), identity, uint(0)).
		Return(nil, serrors.With(serrors.ErrTierRestricted, "history requires the deep tier"))

	rec := ta.do(t, http.MethodGet, "/v1/credits/history", ta.token(t, identity), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	body := decodeBody(t, rec)
	errObj, _ := body["error"].(map[string]any)
	require.Equal(t, "TIER_RESTRICTED", errObj["code"])
}

func TestAPI_CreditHistory(t *testing.T) {
	ta := newTestAPI(t)
	identity := member(domain.TierDeep)

	ta.ledger.EXPECT().History(gomock.Any(), identity, uint(5)).Return([]domain.CreditTransaction{
		{
			ID:     domain.TransactionID(uuid.New()),
			UserID: identity.UserID,
			Amount: -3,
			Type:   domain.TransactionTypeScan,
		},
	}, nil)

	rec := ta.do(t, http.MethodGet, "/v1/credits/history?limit=5", ta.token(t, identity), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	transactions, _ := body["transactions"].([]any)
	require.Len(t, transactions, 1)
	first, _ := transactions[0].(map[string]any)
	require.Equal(t, float64(-3), first["amount"])
	require.Equal(t, "scan", first["type"])
}

func TestAPI_CreditHistory_BadLimit(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, http.MethodGet, "/v1/credits/history?limit=nope",
		ta.token(t, member(domain.TierDeep)), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_StartScan(t *testing.T) {
	ta := newTestAPI(t)
	identity := member(domain.TierUltimate)
	scanID := domain.ScanID(uuid.New())

	ta.orchestrator.EXPECT().
		Start(gomock.Any(), identity, "https://example.com", []string{"https://rival.com"}).
		Return(&scan.StartResult{
			ScanID:         scanID,
			TaskID:         "81",
			Status:         domain.ScanStatusQueued,
			CreditsCharged: 2,
		}, nil)

	rec := ta.do(t, http.MethodPost, "/v1/scan/start", ta.token(t, identity), map[string]any{
		"targetUrl":   "https://example.com",
		"competitors": []string{"https://rival.com"},
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, uuid.UUID(scanID).String(), body["scanId"])
	require.Equal(t, "81", body["taskId"])
	require.Equal(t, "queued", body["status"])
	require.Equal(t, float64(2), body["creditsCharged"])
}

func TestAPI_StartScan_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalidURL", serrors.With(serrors.ErrInvalidURL, "bad url"), http.StatusBadRequest, "INVALID_URL"},
		{"tierRestricted", serrors.With(serrors.ErrTierRestricted, "too many competitors"),
			http.StatusForbidden, "TIER_RESTRICTED"},
		{"insufficientCredits", serrors.With(serrors.ErrInsufficientCredits, "balance too low"),
			http.StatusPaymentRequired, "INSUFFICIENT_CREDITS"},
		{"queueDown", serrors.With(serrors.ErrQueueSubmissionFailed, "queue unavailable"),
			http.StatusServiceUnavailable, "QUEUE_SUBMISSION_FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ta := newTestAPI(t)
			identity := member(domain.TierUltimate)

			ta.orchestrator.EXPECT().
				Start(gomock.Any(), identity, "https://example.com", gomock.Nil()).
				Return(nil, tc.err)

			rec := ta.do(t, http.MethodPost, "/v1/scan/start", ta.token(t, identity),
				map[string]any{"targetUrl": "https://example.com"})
			require.Equal(t, tc.status, rec.Code)

			body := decodeBody(t, rec)
			errObj, _ := body["error"].(map[string]any)
			require.Equal(t, tc.code, errObj["code"])
		})
	}
}

func TestAPI_GetScan(t *testing.T) {
	ta := newTestAPI(t)
	identity := member(domain.TierDeep)
	scanID := domain.ScanID(uuid.New())

	ta.orchestrator.EXPECT().Scan(gomock.Any(), identity, scanID).Return(&domain.Scan{
		ID:          scanID,
		UserID:      identity.UserID,
		PrimaryURL:  "https://example.com/",
		Status:      domain.ScanStatusComplete,
		ScanType:    domain.ScanTypeSingle,
		CreditsUsed: 1,
		ScannerKeys: []string{"content_quality"},
	}, nil)

	rec := ta.do(t, http.MethodGet, "/v1/scan/"+uuid.UUID(scanID).String(), ta.token(t, identity), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, uuid.UUID(scanID).String(), body["id"])
	require.Equal(t, "complete", body["status"])
	require.Equal(t, float64(1), body["creditsUsed"])
}

func TestAPI_GetScan_Forbidden(t *testing.T) {
	ta := newTestAPI(t)
	identity := member(domain.TierDeep)
	scanID := domain.ScanID(uuid.New())

	ta.orchestrator.EXPECT().Scan(gomock.Any(), identity, scanID).
		Return(nil, serrors.With(serrors.ErrForbidden, "not your scan"))

	rec := ta.do(t, http.MethodGet, "/v1/scan/"+uuid.UUID(scanID).String(), ta.token(t, identity), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_GetScan_BadID(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, http.MethodGet, "/v1/scan/not-a-uuid", ta.token(t, member(domain.TierDeep)), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_ScanStatus(t *testing.T) {
	ta := newTestAPI(t)
	identity := member(domain.TierDeep)
	scanID := domain.ScanID(uuid.New())

	ta.orchestrator.EXPECT().Scan(gomock.Any(), identity, scanID).Return(&domain.Scan{
		ID:          scanID,
		UserID:      identity.UserID,
		PrimaryURL:  "https://example.com/",
		Competitors: []string{"https://rival.com/"},
		Status:      domain.ScanStatusFailed,
		ScanType:    domain.ScanTypeMulti,
		ScannerKeys: []string{"content_quality"},
		TaskID:      "81",
		LastError:   "all scanners failed to produce a valid result",
	}, nil)

	rec := ta.do(t, http.MethodGet, "/v1/scan/"+uuid.UUID(scanID).String()+"/status",
		ta.token(t, identity), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "failed", body["status"])
	require.Equal(t, "81", body["taskId"])
	require.Equal(t, true, body["failed"])
	require.Equal(t, false, body["completed"])
	require.Equal(t, false, body["inProgress"])
	require.Equal(t, "multi", body["scanType"])
	require.Equal(t, float64(1), body["competitorCount"])
	require.Equal(t, "all scanners failed to produce a valid result", body["error"])
}

func TestAPI_ScanResults(t *testing.T) {
	ta := newTestAPI(t)
	identity := member(domain.TierDeep)
	scanID := domain.ScanID(uuid.New())

	ta.orchestrator.EXPECT().
		Results(gomock.Any(), identity, scanID, "seo_signals").
		Return([]domain.ScanResult{
			{
				ID:         domain.ScanResultID(uuid.New()),
				ScanID:     scanID,
				ScannerKey: "seo_signals",
				Score:      87,
				Output:     json.RawMessage(`{"score":87}`),
			},
		}, nil)

	rec := ta.do(t, http.MethodGet,
		"/v1/scan/"+uuid.UUID(scanID).String()+"/results?scannerKey=seo_signals",
		ta.token(t, identity), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	results, _ := body["results"].([]any)
	require.Len(t, results, 1)
	first, _ := results[0].(map[string]any)
	require.Equal(t, "seo_signals", first["scannerKey"])
	require.Equal(t, float64(87), first["score"])
	// prompt log was stripped by the orchestrator and must stay absent
	require.NotContains(t, first, "promptLog")
}

func TestAPI_ListScans(t *testing.T) {
	ta := newTestAPI(t)
	identity := member(domain.TierDeep)

	ta.orchestrator.EXPECT().
		UserScans(gomock.Any(), identity, "", uint(10)).
		Return([]domain.Scan{
			{ID: domain.ScanID(uuid.New()), UserID: identity.UserID, Status: domain.ScanStatusComplete},
		}, "2026-01-02T15:04:05Z", nil)

	rec := ta.do(t, http.MethodGet, "/v1/scan?limit=10", ta.token(t, identity), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	scans, _ := body["scans"].([]any)
	require.Len(t, scans, 1)
	require.Equal(t, "2026-01-02T15:04:05Z", body["nextCursor"])
}

func TestAPI_ListScans_NoLimit(t *testing.T) {
	ta := newTestAPI(t)
	identity := member(domain.TierDeep)

	// the orchestrator owns the page-size default; the handler passes 0 through
	ta.orchestrator.EXPECT().
		UserScans(gomock.Any(), identity, "", uint(0)).
		Return([]domain.Scan{
			{ID: domain.ScanID(uuid.New()), UserID: identity.UserID, Status: domain.ScanStatusComplete},
		}, "", nil)

	rec := ta.do(t, http.MethodGet, "/v1/scan", ta.token(t, identity), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	scans, _ := body["scans"].([]any)
	require.Len(t, scans, 1)
	require.NotContains(t, body, "nextCursor")
}

func TestAPI_ListScanners(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, http.MethodGet, "/v1/scanners", ta.token(t, member(domain.TierLite)), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	scanners, _ := body["scanners"].([]any)
	require.Equal(t, []any{"content_quality", "seo_signals", "security_headers"}, scanners)
}

func TestAPI_AdminGrant(t *testing.T) {
	ta := newTestAPI(t)
	adm := admin()
	target := domain.UserID(uuid.New())

	ta.ledger.EXPECT().
		Grant(gomock.Any(), target, 25, domain.TransactionTypeAdminGrant, gomock.Any()).
		DoAndReturn(func(_ any, userID domain.UserID, amount int,
			_ domain.TransactionType, metadata domain.TransactionMetadata,
		) (*domain.CreditTransaction, *domain.CreditBalance, error) {
			require.Equal(t, uuid.UUID(adm.UserID).String(), metadata["adminId"])
			require.Equal(t, "welcome bonus", metadata["note"])

			return &domain.CreditTransaction{
					ID:     domain.TransactionID(uuid.New()),
					UserID: userID,
					Amount: amount,
					Type:   domain.TransactionTypeAdminGrant,
				}, &domain.CreditBalance{
					UserID:         userID,
					CurrentBalance: 25,
				}, nil
		})

	rec := ta.do(t, http.MethodPost,
		"/v1/admin/users/"+uuid.UUID(target).String()+"/credits/grant",
		ta.token(t, adm), map[string]any{"amount": 25, "note": "welcome bonus"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	balance, _ := body["balance"].(map[string]any)
	require.Equal(t, float64(25), balance["currentBalance"])
}

func TestAPI_AdminGrant_NonAdminForbidden(t *testing.T) {
	ta := newTestAPI(t)
	target := domain.UserID(uuid.New())

	rec := ta.do(t, http.MethodPost,
		"/v1/admin/users/"+uuid.UUID(target).String()+"/credits/grant",
		ta.token(t, member(domain.TierEnterprise)), map[string]any{"amount": 25})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_AdminDeduct_Insufficient(t *testing.T) {
	ta := newTestAPI(t)
	adm := admin()
	target := domain.UserID(uuid.New())

	ta.ledger.EXPECT().
		Deduct(gomock.Any(), target, 100, gomock.Any()).
		Return(nil, nil, serrors.With(serrors.ErrInsufficientCredits, "balance too low"))

	rec := ta.do(t, http.MethodPost,
		"/v1/admin/users/"+uuid.UUID(target).String()+"/credits/deduct",
		ta.token(t, adm), map[string]any{"amount": 100})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
}
