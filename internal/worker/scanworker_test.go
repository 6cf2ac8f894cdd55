package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/scan"
	mockscan "github.com/ScottyKingy/WebSecurityScannerV5/internal/scan/mock"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/worker"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/analyzer"
	mockanalyzer "github.com/ScottyKingy/WebSecurityScannerV5/pkg/analyzer/mock"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	mockstorage "github.com/ScottyKingy/WebSecurityScannerV5/pkg/storage/mock"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var scannerKeys = []string{"content_quality", "seo_signals", "security_headers"}

type testWorker struct {
	orchestrator *mockscan.MockOrchestrator
	analysis     *mockanalyzer.MockClient
	store        *mockstorage.MockStorage
	worker       *worker.ScanWorker
}

func newTestWorker(t *testing.T) *testWorker {
	t.Helper()

	ctrl := gomock.NewController(t)
	tw := &testWorker{
		orchestrator: mockscan.NewMockOrchestrator(ctrl),
		analysis:     mockanalyzer.NewMockClient(ctrl),
		store:        mockstorage.NewMockStorage(ctrl),
	}
	tw.worker = worker.NewScanWorker(tw.orchestrator, tw.analysis, tw.store, time.Minute)

	return tw
}

func newJob(scanID uuid.UUID, attempt, maxAttempts int) *river.Job[scan.JobArgs] {
	return &river.Job[scan.JobArgs]{
		JobRow: &rivertype.JobRow{ID: 7, Attempt: attempt, MaxAttempts: maxAttempts},
		Args: scan.JobArgs{
			ScanID:      scanID,
			Domains:     []string{"https://example.com/", "https://rival.com/"},
			ScannerKeys: scannerKeys,
		},
	}
}

func analyzerOK(key string) *analyzer.Response {
	return &analyzer.Response{
		Output:    json.RawMessage(`{"score": 50}`),
		PromptLog: "log for " + key,
	}
}

func TestScanWorker_Work_AllScannersSucceed(t *testing.T) {
	tw := newTestWorker(t)
	scanID := uuid.New()

	tw.orchestrator.EXPECT().MarkRunning(gomock.Any(), domain.ScanID(scanID)).Return(nil)
	tw.store.EXPECT().ScanResults(gomock.Any(), domain.ScanID(scanID), "").Return(nil, nil)
	for _, key := range scannerKeys {
		tw.analysis.EXPECT().Analyze(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req analyzer.Request) (*analyzer.Response, error) {
				require.Equal(t, "https://example.com/", req.TargetURL)
				require.Equal(t, []string{"https://rival.com/"}, req.Peers)
				require.Equal(t, string(domain.ScanTypeMulti), req.ScanType)

				return analyzerOK(req.ScannerKey), nil
			},
		)
		tw.orchestrator.EXPECT().
			RecordScannerResult(gomock.Any(), domain.ScanID(scanID), key, gomock.Any(), "log for "+key).
			Return(&domain.ScanResult{ScannerKey: key}, nil)
	}
	tw.orchestrator.EXPECT().Finalize(gomock.Any(), domain.ScanID(scanID)).
		Return(&domain.Scan{Status: domain.ScanStatusComplete}, nil)

	require.NoError(t, tw.worker.Work(context.Background(), newJob(scanID, 1, 3)))
}

func TestScanWorker_Work_RejectedPayloadDoesNotFailSiblings(t *testing.T) {
	tw := newTestWorker(t)
	scanID := uuid.New()

	tw.orchestrator.EXPECT().MarkRunning(gomock.Any(), domain.ScanID(scanID)).Return(nil)
	tw.store.EXPECT().ScanResults(gomock.Any(), domain.ScanID(scanID), "").Return(nil, nil)
	tw.analysis.EXPECT().Analyze(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req analyzer.Request) (*analyzer.Response, error) {
			return analyzerOK(req.ScannerKey), nil
		},
	).Times(3)
	// one scanner's payload is rejected; the scan still settles complete
	tw.orchestrator.EXPECT().
		RecordScannerResult(gomock.Any(), domain.ScanID(scanID), "content_quality", gomock.Any(), gomock.Any()).
		Return(nil, serrors.With(serrors.ErrScannerValidationFailed, "score out of range"))
	tw.orchestrator.EXPECT().
		RecordScannerResult(gomock.Any(), domain.ScanID(scanID), "seo_signals", gomock.Any(), gomock.Any()).
		Return(&domain.ScanResult{}, nil)
	tw.orchestrator.EXPECT().
		RecordScannerResult(gomock.Any(), domain.ScanID(scanID), "security_headers", gomock.Any(), gomock.Any()).
		Return(&domain.ScanResult{}, nil)
	tw.orchestrator.EXPECT().Finalize(gomock.Any(), domain.ScanID(scanID)).
		Return(&domain.Scan{Status: domain.ScanStatusComplete}, nil)

	require.NoError(t, tw.worker.Work(context.Background(), newJob(scanID, 1, 3)))
}

func TestScanWorker_Work_TransientErrorRetries(t *testing.T) {
	tw := newTestWorker(t)
	scanID := uuid.New()

	tw.orchestrator.EXPECT().MarkRunning(gomock.Any(), domain.ScanID(scanID)).Return(nil)
	tw.store.EXPECT().ScanResults(gomock.Any(), domain.ScanID(scanID), "").Return(nil, nil)
	tw.analysis.EXPECT().Analyze(gomock.Any(), gomock.Any()).
		Return(nil, serrors.With(serrors.ErrUnavailable, "analysis service unavailable")).
		Times(3)

	// not the last attempt: Work must error so River retries, without finalizing
	err := tw.worker.Work(context.Background(), newJob(scanID, 1, 3))
	require.Error(t, err)
}

func TestScanWorker_Work_RetrySkipsStoredScanners(t *testing.T) {
	tw := newTestWorker(t)
	scanID := uuid.New()

	tw.orchestrator.EXPECT().MarkRunning(gomock.Any(), domain.ScanID(scanID)).Return(nil)
	tw.store.EXPECT().ScanResults(gomock.Any(), domain.ScanID(scanID), "").Return([]domain.ScanResult{
		{ScannerKey: "content_quality"},
		{ScannerKey: "security_headers"},
	}, nil)
	// only the missing scanner runs again
	tw.analysis.EXPECT().Analyze(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req analyzer.Request) (*analyzer.Response, error) {
			require.Equal(t, "seo_signals", req.ScannerKey)

			return analyzerOK(req.ScannerKey), nil
		},
	)
	tw.orchestrator.EXPECT().
		RecordScannerResult(gomock.Any(), domain.ScanID(scanID), "seo_signals", gomock.Any(), gomock.Any()).
		Return(&domain.ScanResult{}, nil)
	tw.orchestrator.EXPECT().Finalize(gomock.Any(), domain.ScanID(scanID)).
		Return(&domain.Scan{Status: domain.ScanStatusComplete}, nil)

	require.NoError(t, tw.worker.Work(context.Background(), newJob(scanID, 2, 3)))
}

func TestScanWorker_Work_ExhaustedWithoutResultsMarksFailed(t *testing.T) {
	tw := newTestWorker(t)
	scanID := uuid.New()

	tw.orchestrator.EXPECT().MarkRunning(gomock.Any(), domain.ScanID(scanID)).Return(nil)
	tw.store.EXPECT().ScanResults(gomock.Any(), domain.ScanID(scanID), "").Return(nil, nil).Times(2)
	tw.analysis.EXPECT().Analyze(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused")).
		Times(3)
	tw.orchestrator.EXPECT().MarkFailed(gomock.Any(), domain.ScanID(scanID), gomock.Any()).Return(nil)

	// last attempt: the scan is settled, no further retries
	require.NoError(t, tw.worker.Work(context.Background(), newJob(scanID, 3, 3)))
}

func TestScanWorker_Work_ExhaustedWithPartialResultsCompletes(t *testing.T) {
	tw := newTestWorker(t)
	scanID := uuid.New()

	tw.orchestrator.EXPECT().MarkRunning(gomock.Any(), domain.ScanID(scanID)).Return(nil)
	tw.store.EXPECT().ScanResults(gomock.Any(), domain.ScanID(scanID), "").Return([]domain.ScanResult{
		{ScannerKey: "content_quality"},
	}, nil).Times(2)
	tw.analysis.EXPECT().Analyze(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused")).
		Times(2)
	tw.orchestrator.EXPECT().Finalize(gomock.Any(), domain.ScanID(scanID)).
		Return(&domain.Scan{Status: domain.ScanStatusComplete}, nil)

	require.NoError(t, tw.worker.Work(context.Background(), newJob(scanID, 3, 3)))
}
