package workflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/memory"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
	alertworkflows "github.com/Apurer/stock-tracker/internal/durable/temporal/workflows/alerts"
)

type blockingSender struct{}

func (blockingSender) Send(ctx context.Context, _ domain.LowStockAlert) error {
	<-ctx.Done()
	return ctx.Err()
}

func sampleAlert(t *testing.T) domain.LowStockAlert {
	t.Helper()
	alert, ok := domain.NewLowStockAlert([]*domain.StockItem{{ID: 7, Name: "Nuts", Quantity: 1, MinThreshold: 3}})
	require.True(t, ok)
	return alert
}

func TestInlineAlertDispatcher_Sends(t *testing.T) {
	outbox := memory.NewOutbox(nil)
	dispatcher := NewInlineAlertDispatcher(outbox, time.Second)

	delivery, err := dispatcher.Dispatch(context.Background(), sampleAlert(t))
	require.NoError(t, err)
	require.Equal(t, ports.Delivered, delivery)
	require.Len(t, outbox.Sent(), 1)
}

func TestInlineAlertDispatcher_TimesOut(t *testing.T) {
	dispatcher := NewInlineAlertDispatcher(blockingSender{}, 20*time.Millisecond)

	_, err := dispatcher.Dispatch(context.Background(), sampleAlert(t))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInlineAlertDispatcher_IgnoresCallerCancellation(t *testing.T) {
	outbox := memory.NewOutbox(nil)
	dispatcher := NewInlineAlertDispatcher(outbox, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dispatcher.Dispatch(ctx, sampleAlert(t))
	require.NoError(t, err)
	require.Len(t, outbox.Sent(), 1)
}

func TestInlineAlertDispatcher_PropagatesSendError(t *testing.T) {
	outbox := memory.NewOutbox(nil)
	outbox.FailWith(errors.New("smtp down"))
	dispatcher := NewInlineAlertDispatcher(outbox, time.Second)

	_, err := dispatcher.Dispatch(context.Background(), sampleAlert(t))
	require.EqualError(t, err, "smtp down")
}

func TestTemporalAlertDispatcher_RequiresClient(t *testing.T) {
	var dispatcher *TemporalAlertDispatcher
	_, err := dispatcher.Dispatch(context.Background(), sampleAlert(t))
	require.Error(t, err)
}

func TestBuildAlertWorkflowID_FollowsFingerprint(t *testing.T) {
	alert := sampleAlert(t)
	require.Equal(t, "low-stock-alert-"+alert.Fingerprint, buildAlertWorkflowID(alert))

	other, ok := domain.NewLowStockAlert([]*domain.StockItem{{ID: 7, Name: "Nuts", Quantity: 0, MinThreshold: 3}})
	require.True(t, ok)
	require.NotEqual(t, buildAlertWorkflowID(alert), buildAlertWorkflowID(other))
}

func TestTemporalAlertDispatcher_StartsRegisteredWorkflowType(t *testing.T) {
	alert := sampleAlert(t)
	temporalClient := &mocks.Client{}
	temporalClient.On("ExecuteWorkflow",
		mock.Anything,
		mock.MatchedBy(func(opts client.StartWorkflowOptions) bool {
			return opts.ID == buildAlertWorkflowID(alert) &&
				opts.TaskQueue == alertworkflows.LowStockAlertTaskQueue &&
				opts.WorkflowExecutionErrorWhenAlreadyStarted
		}),
		alertworkflows.LowStockAlertWorkflowName,
		mock.MatchedBy(func(input alertworkflows.LowStockAlertWorkflowInput) bool {
			return input.Alert.Fingerprint == alert.Fingerprint
		}),
	).Return(&mocks.WorkflowRun{}, nil).Once()

	delivery, err := NewTemporalAlertDispatcher(temporalClient).Dispatch(context.Background(), alert)
	require.NoError(t, err)
	require.Equal(t, ports.Scheduled, delivery)
	temporalClient.AssertExpectations(t)
}

func TestTemporalAlertDispatcher_AlreadyRunningIsNotAnError(t *testing.T) {
	temporalClient := &mocks.Client{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("running", "", "run-1")).Once()

	delivery, err := NewTemporalAlertDispatcher(temporalClient).Dispatch(context.Background(), sampleAlert(t))
	require.NoError(t, err)
	require.Equal(t, ports.Scheduled, delivery)
}

func TestTemporalAlertDispatcher_PropagatesStartFailure(t *testing.T) {
	temporalClient := &mocks.Client{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("frontend unavailable")).Once()

	_, err := NewTemporalAlertDispatcher(temporalClient).Dispatch(context.Background(), sampleAlert(t))
	require.ErrorContains(t, err, "frontend unavailable")
}
