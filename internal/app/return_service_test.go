package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/backloop/internal/core/wizard"
	"github.com/example/backloop/internal/ports/primary"
)

func TestListOrders_OfferedActions(t *testing.T) {
	tests := []struct {
		name        string
		now         time.Time
		wantActions map[string][]string
	}{
		{
			name: "inside the return window",
			now:  inWindow,
			wantActions: map[string][]string{
				"1": {"report-fault", "recycle"},
				"2": {"report-fault", "recycle"},
				"3": {"recycle"},
				"4": {"recycle"},
			},
		},
		{
			name: "after the deadline",
			now:  time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			wantActions: map[string][]string{
				"1": {"recycle"},
				"2": {"recycle"},
				"3": {"recycle"},
				"4": {"recycle"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestReturnService(tt.now)

			orders, err := svc.ListOrders(context.Background())
			require.NoError(t, err)
			require.Len(t, orders, 2)
			assert.Equal(t, "2025-06-28", orders[0].Date)

			for _, o := range orders {
				for _, it := range o.Items {
					assert.Equal(t, tt.wantActions[it.ID], it.Actions, "item %s", it.ID)
				}
			}
		})
	}
}

func TestListOrders_RepositoryError(t *testing.T) {
	svc := newTestReturnService(inWindow)
	svc.orders.listErr = errors.New("database locked")

	_, err := svc.ListOrders(context.Background())
	assert.ErrorContains(t, err, "database locked")
}

func TestStartSession_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  primary.StartSessionRequest
	}{
		{name: "unknown intent", req: primary.StartSessionRequest{ItemID: "1", Intent: "return"}},
		{name: "missing item", req: primary.StartSessionRequest{ItemID: "99", Intent: "recycle"}},
		{name: "fault on non-returnable item", req: primary.StartSessionRequest{ItemID: "3", Intent: "faulty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestReturnService(inWindow)

			_, err := svc.StartSession(context.Background(), tt.req)
			assert.Error(t, err)

			_, err = svc.CurrentSession(context.Background())
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestStartSession_FaultAfterDeadlineRefused(t *testing.T) {
	svc := newTestReturnService(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))

	_, err := svc.StartSession(context.Background(), primary.StartSessionRequest{ItemID: "1", Intent: "faulty"})
	assert.Error(t, err)

	s, err := svc.StartSession(context.Background(), primary.StartSessionRequest{ItemID: "1", Intent: "recycle"})
	require.NoError(t, err)
	assert.Equal(t, "upload", s.Step)
}

func TestStepOperations_WithoutSession(t *testing.T) {
	svc := newTestReturnService(inWindow)
	ctx := context.Background()

	_, err := svc.ContinueToProblem(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = svc.RequestEstimate(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = svc.CloseSession(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFaultyFlow_ClosesAndStoresConfirmation(t *testing.T) {
	svc := newTestReturnService(inWindow)
	ctx := context.Background()

	s, err := svc.StartSession(ctx, primary.StartSessionRequest{ItemID: "1", Intent: "faulty"})
	require.NoError(t, err)
	assert.Equal(t, "instructions", s.Step)
	assert.Equal(t, 0, s.StepIndex)
	assert.Equal(t, 5, s.StepTotal)
	assert.NotEmpty(t, s.Guidelines)
	assert.Len(t, s.Problems, 6)

	r, err := svc.ContinueToProblem(ctx)
	require.NoError(t, err)
	assert.False(t, r.Allowed)
	assert.Equal(t, "instructions", r.Field)
	assert.Equal(t, "instructions", r.Session.Step)

	steps := []func() (*primary.StepResult, error){
		func() (*primary.StepResult, error) { return svc.AcceptInstructions(ctx, true) },
		func() (*primary.StepResult, error) { return svc.ContinueToProblem(ctx) },
		func() (*primary.StepResult, error) { return svc.SelectProblem(ctx, "wrong-size") },
		func() (*primary.StepResult, error) { return svc.ContinueToSolution(ctx) },
		func() (*primary.StepResult, error) { return svc.SelectResolution(ctx, "refund") },
		func() (*primary.StepResult, error) { return svc.ContinueToConfirm(ctx) },
		func() (*primary.StepResult, error) { return svc.SchedulePickup(ctx) },
	}
	for i, step := range steps {
		r, err := step()
		require.NoError(t, err)
		require.True(t, r.Allowed, "step %d refused: %s", i, r.Reason)
	}

	s, err = svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "complete", s.Step)
	require.NotNil(t, s.Confirmation)
	assert.Equal(t, int64(899), s.Confirmation.Amount)
	assert.Equal(t, "Refund Amount", s.Confirmation.AmountLabel)

	c, err := svc.CloseSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "BL-200000", c.RequestID)
	assert.Equal(t, "Refund - Wrong Size", c.Summary)

	stored, ok := svc.confirmations.confirmations["BL-200000"]
	require.True(t, ok)
	assert.Equal(t, "faulty", stored.Intent)
	assert.Equal(t, "wrong-size", stored.ProblemID)
	assert.Equal(t, "refund", stored.Resolution)
	assert.Equal(t, "2025-06-29T10:00:00Z", stored.CreatedAt)

	assert.Equal(t, []string{"completed:" + s.ID}, svc.events)

	_, err = svc.CurrentSession(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRecycleFlow_UsesCartValue(t *testing.T) {
	tests := []struct {
		name      string
		cartValue *int64
		wantFinal int64
		wantFee   int64
	}{
		{name: "configured default", cartValue: nil, wantFinal: 225, wantFee: 99},
		{name: "cart at threshold", cartValue: ptr(int64(2000)), wantFinal: 324, wantFee: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestReturnService(inWindow)
			ctx := context.Background()

			_, err := svc.StartSession(ctx, primary.StartSessionRequest{ItemID: "1", Intent: "recycle", CartValue: tt.cartValue})
			require.NoError(t, err)

			r, err := svc.UploadPhoto(ctx, primary.UploadPhotoRequest{Filename: "bottle.webp", MediaType: "image/webp"})
			require.NoError(t, err)
			require.True(t, r.Allowed)
			assert.Equal(t, "bottle.webp", r.Session.PhotoName)

			_, err = svc.SetCondition(ctx, "Good condition, minor scratch")
			require.NoError(t, err)

			r, err = svc.RequestEstimate(ctx)
			require.NoError(t, err)
			require.True(t, r.Allowed)
			require.NotNil(t, r.Session.Estimate)
			assert.Equal(t, "estimate", r.Session.Step)
			assert.Equal(t, int64(324), r.Session.Estimate.RawEstimate)
			assert.Equal(t, tt.wantFee, r.Session.Estimate.PickupFee)
			assert.Equal(t, tt.wantFinal, r.Session.Estimate.FinalCredit)

			_, err = svc.AcceptEstimate(ctx)
			require.NoError(t, err)
			_, err = svc.SchedulePickup(ctx)
			require.NoError(t, err)

			c, err := svc.CloseSession(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFinal, c.Amount)
			assert.Equal(t, "Expected Credit", c.AmountLabel)

			stored := svc.confirmations.confirmations[c.RequestID]
			require.NotNil(t, stored)
			assert.Equal(t, "good", stored.Condition)
			assert.False(t, stored.HasReceipt)
			assert.Equal(t, tt.wantFee, stored.PickupFee)
		})
	}
}

func TestRecycleFlow_RejectedPhotoShowsSupportHint(t *testing.T) {
	svc := newTestReturnService(inWindow)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, primary.StartSessionRequest{ItemID: "4", Intent: "recycle"})
	require.NoError(t, err)

	r, err := svc.UploadPhoto(ctx, primary.UploadPhotoRequest{Filename: "bag.png", MediaType: "image/png"})
	require.NoError(t, err)
	assert.False(t, r.Allowed)
	assert.Equal(t, "photo", r.Field)
	assert.NotEmpty(t, r.Session.PhotoError)
	assert.Equal(t, "+91 9372665103", r.Session.SupportHint)
	assert.Equal(t, "upload", r.Session.Step)
}

func TestCloseSession_BeforeComplete(t *testing.T) {
	svc := newTestReturnService(inWindow)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, primary.StartSessionRequest{ItemID: "2", Intent: "recycle"})
	require.NoError(t, err)

	_, err = svc.CloseSession(ctx)
	var mfe *wizard.MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, wizard.StepUpload, mfe.Step)

	_, err = svc.CurrentSession(ctx)
	assert.NoError(t, err, "a refused close keeps the session")
	assert.Empty(t, svc.events)
}

func TestCloseSession_PersistFailure(t *testing.T) {
	svc := newTestReturnService(inWindow)
	svc.confirmations.createErr = errors.New("disk full")
	ctx := context.Background()

	_, err := svc.StartSession(ctx, primary.StartSessionRequest{ItemID: "1", Intent: "faulty"})
	require.NoError(t, err)
	svc.AcceptInstructions(ctx, true)
	svc.ContinueToProblem(ctx)
	svc.SelectProblem(ctx, "damaged")
	svc.ContinueToSolution(ctx)
	svc.SelectResolution(ctx, "exchange")
	svc.ContinueToConfirm(ctx)
	svc.SchedulePickup(ctx)

	_, err = svc.CloseSession(ctx)
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, svc.events, "notification follows persistence")
}

func TestListConfirmations(t *testing.T) {
	svc := newTestReturnService(inWindow)
	svc.confirmations.confirmations["BL-000001"] = confirmationToRecord(wizard.Confirmation{
		RequestID: "BL-000001", Intent: wizard.IntentFaulty, ItemID: "1", ItemName: "x",
		ProblemID: "damaged", Resolution: wizard.ResolutionExchange, Amount: 899, CreatedAt: inWindow,
	})

	got, err := svc.ListConfirmations(context.Background(), primary.ConfirmationFilters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Exchange - Product Already Damaged", got[0].Summary)
	assert.Equal(t, "Exchange", got[0].AmountLabel)
}

func TestStartSession_ReplacesLiveSession(t *testing.T) {
	svc := newTestReturnService(inWindow)
	ctx := context.Background()

	first, err := svc.StartSession(ctx, primary.StartSessionRequest{ItemID: "1", Intent: "recycle"})
	require.NoError(t, err)
	second, err := svc.StartSession(ctx, primary.StartSessionRequest{ItemID: "2", Intent: "faulty"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	cur, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, cur.ID)
	assert.Equal(t, "faulty", cur.Intent)
}

func ptr[T any](v T) *T { return &v }

func TestGetOrder(t *testing.T) {
	svc := newTestReturnService(inWindow)

	order, err := svc.GetOrder(context.Background(), "ORD-2025-002")
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, []string{"report-fault", "recycle"}, order.Items[0].Actions)

	_, err = svc.GetOrder(context.Background(), "ORD-0000-000")
	assert.Error(t, err)
}

func TestGetConfirmation(t *testing.T) {
	svc := newTestReturnService(inWindow)
	svc.confirmations.confirmations["BL-000001"] = confirmationToRecord(wizard.Confirmation{
		RequestID: "BL-000001", Intent: wizard.IntentFaulty, ItemID: "1", ItemName: "x",
		ProblemID: "damaged", Resolution: wizard.ResolutionRefund, Amount: 899, CreatedAt: inWindow,
	})

	tests := []struct {
		name      string
		requestID string
		wantErr   string
	}{
		{name: "stored", requestID: "BL-000001"},
		{name: "malformed", requestID: "BL-12", wantErr: "invalid request ID"},
		{name: "wrong prefix", requestID: "XX-000001", wantErr: "invalid request ID"},
		{name: "missing", requestID: "BL-999999", wantErr: "failed to get confirmation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetConfirmation(context.Background(), tt.requestID)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Refund - Product Already Damaged", got.Summary)
		})
	}
}
