package workspace

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/counterdesk/internal/backend"
	"github.com/utafrali/counterdesk/internal/domain"
	apperrors "github.com/utafrali/counterdesk/pkg/errors"
)

// --- Mocks ---

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) SubmitNew(ctx context.Context, d *domain.Draft) (*backend.Result, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Result), args.Error(1)
}

func (m *mockOrders) SubmitEdit(ctx context.Context, orderID string, d *domain.Draft) (*backend.Result, error) {
	args := m.Called(ctx, orderID, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Result), args.Error(1)
}

func (m *mockOrders) FetchForEdit(ctx context.Context, orderID string) (*domain.Draft, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *mockOrders) DeleteOrder(ctx context.Context, orderID string, confirm backend.Confirmer) (*backend.Result, error) {
	// Mirrors the gateway: no confirmation, no call.
	if confirm == nil || !confirm.Confirm(ctx, orderID) {
		return nil, apperrors.Validation(apperrors.CodeConfirmationRequired, "deleting an order must be confirmed")
	}
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Result), args.Error(1)
}

func (m *mockOrders) RequestReceipt(ctx context.Context, orderID string) (*domain.Receipt, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) OrderSubmitted(ctx context.Context, orderID string, d *domain.Draft) error {
	return m.Called(ctx, orderID, d).Error(0)
}

func (m *mockAudit) OrderUpdated(ctx context.Context, orderID string, d *domain.Draft) error {
	return m.Called(ctx, orderID, d).Error(0)
}

func (m *mockAudit) OrderDeleted(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

// staticSearch answers every query with the same products.
type staticSearch []domain.Product

func (s staticSearch) Search(context.Context, string) []domain.Product {
	return s
}

// --- Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var catalog = staticSearch{
	{ID: "A", Name: "Produto A", Price: decimal.RequireFromString("10.00")},
	{ID: "B", Name: "Produto B", Price: decimal.RequireFromString("5.00")},
}

func newTestWorkspace(orders *mockOrders, audit *mockAudit) *Workspace {
	deps := Deps{Search: catalog, Orders: orders, Logger: newTestLogger()}
	if audit != nil {
		deps.Audit = audit
	}
	return New("sess-1", deps)
}

func fillNew(t *testing.T, w *Workspace) {
	t.Helper()
	ctx := context.Background()
	w.Search(ctx, TargetNew, "pro")
	require.NoError(t, w.PickSuggestion(TargetNew, "A"))
	w.Search(ctx, TargetNew, "pro")
	require.NoError(t, w.PickSuggestion(TargetNew, "A"))
	w.Search(ctx, TargetNew, "pro")
	require.NoError(t, w.PickSuggestion(TargetNew, "B"))
}

// --- Search & suggestions ---

func TestWorkspace_SearchAndPick(t *testing.T) {
	w := newTestWorkspace(new(mockOrders), nil)

	got := w.Search(context.Background(), TargetNew, "pro")
	require.Len(t, got, 2)
	assert.Len(t, w.View(TargetNew).Suggestions, 2)
	assert.Empty(t, w.View(TargetEdit).Suggestions, "lists are per draft")

	require.NoError(t, w.PickSuggestion(TargetNew, "B"))

	v := w.View(TargetNew)
	assert.Empty(t, v.Suggestions, "picking clears the list")
	require.Len(t, v.Items, 1)
	assert.Equal(t, "B", v.Items[0].ProductID)
	assert.Equal(t, "R$ 5.00", v.Total)
}

func TestWorkspace_PickUnknownSuggestion(t *testing.T) {
	w := newTestWorkspace(new(mockOrders), nil)

	err := w.PickSuggestion(TargetNew, "A")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.True(t, w.View(TargetNew).Empty)
}

// gatedSearch blocks each query until its gate is released.
type gatedSearch struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	results map[string][]domain.Product
}

func (g *gatedSearch) gate(q string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gates[q] == nil {
		g.gates[q] = make(chan struct{})
	}
	return g.gates[q]
}

func (g *gatedSearch) Search(_ context.Context, q string) []domain.Product {
	<-g.gate(q)
	return g.results[q]
}

func TestWorkspace_StaleSearchResponseIsDropped(t *testing.T) {
	search := &gatedSearch{
		gates: map[string]chan struct{}{},
		results: map[string][]domain.Product{
			"cox":     {{ID: "1", Name: "Coxa", Price: decimal.NewFromInt(3)}},
			"coxinha": {{ID: "2", Name: "Coxinha", Price: decimal.NewFromInt(6)}},
		},
	}
	w := New("sess-stale", Deps{Search: search, Orders: new(mockOrders), Logger: newTestLogger()})

	early := make(chan []domain.Product)
	go func() { early <- w.Search(context.Background(), TargetNew, "cox") }()

	// Let the early search take its ticket before the later one starts.
	require.Eventually(t, func() bool {
		return w.suggestions[TargetNew].issuedTicket() == 1
	}, time.Second, time.Millisecond)

	late := make(chan []domain.Product)
	go func() { late <- w.Search(context.Background(), TargetNew, "coxinha") }()
	require.Eventually(t, func() bool {
		return w.suggestions[TargetNew].issuedTicket() == 2
	}, time.Second, time.Millisecond)

	close(search.gate("coxinha"))
	lateResult := <-late
	require.Len(t, lateResult, 1)
	assert.Equal(t, domain.ProductID("2"), lateResult[0].ID)

	close(search.gate("cox"))
	earlyResult := <-early
	require.Len(t, earlyResult, 1)
	assert.Equal(t, domain.ProductID("2"), earlyResult[0].ID, "the newer results stay")

	suggestions := w.View(TargetNew).Suggestions
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Coxinha", suggestions[0].Name)
}

// --- SubmitNew ---

func TestWorkspace_SubmitNew_Success(t *testing.T) {
	orders := new(mockOrders)
	audit := new(mockAudit)
	w := newTestWorkspace(orders, audit)

	fillNew(t, w)
	c := w.Controller(TargetNew)
	require.NoError(t, c.SetPaymentMethod("dinheiro"))
	require.NoError(t, c.SetCashTendered("30"))

	v := w.View(TargetNew)
	assert.Equal(t, "R$ 25.00", v.Total)
	assert.Equal(t, "R$ 5.00", v.ChangeDue)

	orders.On("SubmitNew", mock.Anything, mock.MatchedBy(func(d *domain.Draft) bool {
		return d.Len() == 2 && domain.Total(d).Equal(decimal.NewFromInt(25))
	})).Return(&backend.Result{OrderID: "57", Message: "ok"}, nil)
	audit.On("OrderSubmitted", mock.Anything, "57", mock.Anything).Return(nil)

	res, err := w.SubmitNew(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderID("57"), res.OrderID)

	v = w.View(TargetNew)
	assert.True(t, v.Empty, "draft cleared after confirmed success")
	assert.Equal(t, string(domain.PaymentCash), v.PaymentMethod)
	assert.Empty(t, v.CashTendered)
	assert.False(t, v.Submitting)
	orders.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestWorkspace_SubmitNew_FailureKeepsDraft(t *testing.T) {
	orders := new(mockOrders)
	audit := new(mockAudit)
	w := newTestWorkspace(orders, audit)
	fillNew(t, w)
	require.NoError(t, w.Controller(TargetNew).SetCashTendered("50"))

	orders.On("SubmitNew", mock.Anything, mock.Anything).
		Return(nil, apperrors.BackendRejected("Caixa não está aberto."))

	_, err := w.SubmitNew(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBackendRejected)
	v := w.View(TargetNew)
	assert.Len(t, v.Items, 2)
	assert.Equal(t, "R$ 50.00", v.CashTendered)
	assert.False(t, v.Submitting)
	audit.AssertNotCalled(t, "OrderSubmitted", mock.Anything, mock.Anything, mock.Anything)

	// The operator retries without re-entering anything.
	orders.ExpectedCalls = nil
	orders.On("SubmitNew", mock.Anything, mock.Anything).Return(&backend.Result{OrderID: "58"}, nil)
	audit.On("OrderSubmitted", mock.Anything, "58", mock.Anything).Return(nil)

	_, err = w.SubmitNew(context.Background())
	require.NoError(t, err)
	assert.True(t, w.View(TargetNew).Empty)
}

func TestWorkspace_SubmitNew_AuditFailureDoesNotFailSubmit(t *testing.T) {
	orders := new(mockOrders)
	audit := new(mockAudit)
	w := newTestWorkspace(orders, audit)
	fillNew(t, w)
	require.NoError(t, w.Controller(TargetNew).SetCashTendered("25"))

	orders.On("SubmitNew", mock.Anything, mock.Anything).Return(&backend.Result{OrderID: "9"}, nil)
	audit.On("OrderSubmitted", mock.Anything, "9", mock.Anything).Return(errors.New("broker down"))

	res, err := w.SubmitNew(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.OrderID("9"), res.OrderID)
}

func TestWorkspace_SubmitNew_ConcurrentSubmitIsRejected(t *testing.T) {
	orders := new(mockOrders)
	w := newTestWorkspace(orders, nil)
	fillNew(t, w)
	require.NoError(t, w.Controller(TargetNew).SetCashTendered("30"))

	entered := make(chan struct{})
	release := make(chan struct{})
	orders.On("SubmitNew", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&backend.Result{OrderID: "1"}, nil).Once()

	done := make(chan error)
	go func() {
		_, err := w.SubmitNew(context.Background())
		done <- err
	}()
	<-entered

	assert.True(t, w.View(TargetNew).Submitting)
	_, err := w.SubmitNew(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSubmissionInProgress))

	close(release)
	require.NoError(t, <-done)
	orders.AssertNumberOfCalls(t, "SubmitNew", 1)
}

// blockSubmitNew makes the next SubmitNew wait inside the gateway until the
// returned release func is called.
func blockSubmitNew(orders *mockOrders, res *backend.Result) (entered <-chan struct{}, release func()) {
	in := make(chan struct{})
	gate := make(chan struct{})
	orders.On("SubmitNew", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(in)
			<-gate
		}).
		Return(res, nil).Once()
	return in, func() { close(gate) }
}

func TestWorkspace_SubmitNew_ChangesDuringSubmissionAreRefused(t *testing.T) {
	orders := new(mockOrders)
	w := newTestWorkspace(orders, nil)
	require.NoError(t, w.AddProduct(TargetNew, "A", "Produto A", decimal.NewFromInt(10)))
	require.NoError(t, w.Controller(TargetNew).SetPaymentMethod("pix"))

	entered, release := blockSubmitNew(orders, &backend.Result{OrderID: "70"})
	done := make(chan error)
	go func() {
		_, err := w.SubmitNew(context.Background())
		done <- err
	}()
	<-entered

	err := w.AddProduct(TargetNew, "B", "Produto B", decimal.NewFromInt(5))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSubmissionInProgress), "adding while submitting must fail loudly")
	assert.ErrorIs(t, w.Controller(TargetNew).Remove("A"), apperrors.ErrConflict)
	assert.ErrorIs(t, w.CancelNew(), apperrors.ErrConflict)
	assert.Len(t, w.View(TargetNew).Items, 1)

	release()
	require.NoError(t, <-done)

	sent := orders.Calls[0].Arguments.Get(1).(*domain.Draft)
	assert.Equal(t, 1, sent.Len())
	assert.True(t, sent.HasItem("A"))
	assert.True(t, w.View(TargetNew).Empty)

	// Once settled the draft takes changes again.
	require.NoError(t, w.AddProduct(TargetNew, "B", "Produto B", decimal.NewFromInt(5)))
	assert.Len(t, w.View(TargetNew).Items, 1)
}

func TestWorkspace_SubmitNew_FailureReleasesDraft(t *testing.T) {
	orders := new(mockOrders)
	w := newTestWorkspace(orders, nil)
	fillNew(t, w)
	require.NoError(t, w.Controller(TargetNew).SetCashTendered("30"))
	orders.On("SubmitNew", mock.Anything, mock.Anything).Return(nil, apperrors.ServiceUnavailable("down"))

	_, err := w.SubmitNew(context.Background())
	require.Error(t, err)

	require.NoError(t, w.AddProduct(TargetNew, "C", "Produto C", decimal.NewFromInt(1)))
	assert.Len(t, w.View(TargetNew).Items, 3)
}

// --- Edit ---

func editDraft() *domain.Draft {
	d := domain.NewDraft()
	d.Put(domain.LineItem{ProductID: "7", Name: "Suco", UnitPrice: decimal.RequireFromString("6.50"), Quantity: 2})
	d.SetGeneralNotes("viagem")
	return d
}

func TestWorkspace_EditFlow(t *testing.T) {
	orders := new(mockOrders)
	audit := new(mockAudit)
	w := newTestWorkspace(orders, audit)

	orders.On("FetchForEdit", mock.Anything, "42").Return(editDraft(), nil)
	require.NoError(t, w.BeginEdit(context.Background(), "42"))

	v := w.View(TargetEdit)
	assert.Equal(t, "42", v.OrderID)
	assert.Equal(t, "R$ 13.00", v.Total)
	assert.Empty(t, v.PaymentMethod, "edit view has no payment fields")

	require.NoError(t, w.Controller(TargetEdit).ChangeQuantity("7", 1))
	require.NoError(t, w.AddProduct(TargetEdit, "8", "Pastel", decimal.NewFromInt(9)))

	orders.On("SubmitEdit", mock.Anything, "42", mock.MatchedBy(func(d *domain.Draft) bool {
		item, ok := d.Item("7")
		return ok && item.Quantity == 3 && d.HasItem("8") && d.GeneralNotes() == "viagem"
	})).Return(&backend.Result{OrderID: "42", Message: "Pedido atualizado com sucesso."}, nil)
	audit.On("OrderUpdated", mock.Anything, "42", mock.Anything).Return(nil)

	res, err := w.SubmitEdit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pedido atualizado com sucesso.", res.Message)
	assert.True(t, w.View(TargetEdit).Empty)
	assert.Empty(t, w.Controller(TargetEdit).OrderID())
	orders.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestWorkspace_BeginEditDuringSubmitEditIsRefused(t *testing.T) {
	orders := new(mockOrders)
	w := newTestWorkspace(orders, nil)
	orders.On("FetchForEdit", mock.Anything, "42").Return(editDraft(), nil).Once()
	require.NoError(t, w.BeginEdit(context.Background(), "42"))

	entered := make(chan struct{})
	gate := make(chan struct{})
	orders.On("SubmitEdit", mock.Anything, "42", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-gate
		}).
		Return(&backend.Result{OrderID: "42"}, nil).Once()

	done := make(chan error)
	go func() {
		_, err := w.SubmitEdit(context.Background())
		done <- err
	}()
	<-entered

	orders.On("FetchForEdit", mock.Anything, "43").Return(editDraft(), nil).Once()
	err := w.BeginEdit(context.Background(), "43")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSubmissionInProgress))
	assert.Equal(t, "42", w.View(TargetEdit).OrderID)

	close(gate)
	require.NoError(t, <-done)
	assert.True(t, w.View(TargetEdit).Empty)

	orders.On("FetchForEdit", mock.Anything, "43").Return(editDraft(), nil).Once()
	require.NoError(t, w.BeginEdit(context.Background(), "43"))
	assert.Equal(t, "43", w.View(TargetEdit).OrderID)
}

func TestWorkspace_BeginEdit_FailureLeavesEditDraft(t *testing.T) {
	orders := new(mockOrders)
	w := newTestWorkspace(orders, nil)

	orders.On("FetchForEdit", mock.Anything, "42").Return(editDraft(), nil).Once()
	require.NoError(t, w.BeginEdit(context.Background(), "42"))

	orders.On("FetchForEdit", mock.Anything, "43").Return(nil, apperrors.NotFound("order", "43")).Once()
	err := w.BeginEdit(context.Background(), "43")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "42", w.View(TargetEdit).OrderID)
}

func TestWorkspace_SubmitEdit_WithoutOrder(t *testing.T) {
	orders := new(mockOrders)
	w := newTestWorkspace(orders, nil)

	_, err := w.SubmitEdit(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	orders.AssertNotCalled(t, "SubmitEdit", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkspace_DraftsAreIndependent(t *testing.T) {
	orders := new(mockOrders)
	w := newTestWorkspace(orders, nil)
	orders.On("FetchForEdit", mock.Anything, "42").Return(editDraft(), nil)

	fillNew(t, w)
	require.NoError(t, w.BeginEdit(context.Background(), "42"))
	require.NoError(t, w.CancelNew())

	assert.True(t, w.View(TargetNew).Empty)
	assert.Len(t, w.View(TargetEdit).Items, 1)

	require.NoError(t, w.CancelEdit())
	assert.True(t, w.View(TargetEdit).Empty)
}

// --- Delete ---

func TestWorkspace_DeleteRequiresToken(t *testing.T) {
	orders := new(mockOrders)
	audit := new(mockAudit)
	w := newTestWorkspace(orders, audit)

	_, err := w.ConfirmDelete(context.Background(), "42", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfirmationRequired))

	token, err := w.RequestDelete("42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = w.ConfirmDelete(context.Background(), "42", "wrong")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfirmationRequired))

	_, err = w.ConfirmDelete(context.Background(), "43", token)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfirmationRequired), "token is bound to its order")

	orders.AssertNotCalled(t, "DeleteOrder", mock.Anything, mock.Anything)

	orders.On("DeleteOrder", mock.Anything, "42").Return(&backend.Result{OrderID: "42"}, nil).Once()
	audit.On("OrderDeleted", mock.Anything, "42").Return(nil)

	_, err = w.ConfirmDelete(context.Background(), "42", token)
	require.NoError(t, err)

	_, err = w.ConfirmDelete(context.Background(), "42", token)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfirmationRequired), "tokens are single use")

	orders.AssertNumberOfCalls(t, "DeleteOrder", 1)
	audit.AssertExpectations(t)
}

func TestWorkspace_DeleteOfEditedOrderClearsEditDraft(t *testing.T) {
	orders := new(mockOrders)
	w := newTestWorkspace(orders, nil)
	orders.On("FetchForEdit", mock.Anything, "42").Return(editDraft(), nil)
	orders.On("DeleteOrder", mock.Anything, "42").Return(&backend.Result{OrderID: "42"}, nil)

	require.NoError(t, w.BeginEdit(context.Background(), "42"))
	token, err := w.RequestDelete("42")
	require.NoError(t, err)
	_, err = w.ConfirmDelete(context.Background(), "42", token)
	require.NoError(t, err)

	assert.True(t, w.View(TargetEdit).Empty)
}

func TestWorkspace_RequestDelete_EmptyOrderID(t *testing.T) {
	w := newTestWorkspace(new(mockOrders), nil)

	_, err := w.RequestDelete("  ")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- Receipt & rendering ---

func TestWorkspace_Receipt(t *testing.T) {
	orders := new(mockOrders)
	w := newTestWorkspace(orders, nil)
	orders.On("RequestReceipt", mock.Anything, "42").Return(&domain.Receipt{OrderID: "42", Markup: "<p>42</p>"}, nil)

	r, err := w.Receipt(context.Background(), "42")

	require.NoError(t, err)
	assert.Equal(t, "<p>42</p>", r.Markup)
}

func TestWorkspace_RendersEveryChange(t *testing.T) {
	var views []View
	w := New("sess-render", Deps{
		Search: catalog,
		Orders: new(mockOrders),
		Logger: newTestLogger(),
		NewRenderer: func(sessionID string) Renderer {
			assert.Equal(t, "sess-render", sessionID)
			return RendererFunc(func(v View) { views = append(views, v) })
		},
	})

	c := w.Controller(TargetNew)
	require.NoError(t, c.AddOrIncrement("A", "Produto A", decimal.NewFromInt(10)))
	require.Len(t, views, 1)
	assert.Equal(t, "R$ 10.00", views[0].Total)

	require.NoError(t, c.ChangeQuantity("A", 1))
	require.Len(t, views, 2)
	assert.Equal(t, "R$ 20.00", views[1].Total)
	assert.Greater(t, views[1].Version, views[0].Version)
	assert.Equal(t, views[1], w.View(TargetNew))
}

func TestWorkspace_OlderStateNeverReplacesNewerView(t *testing.T) {
	w := newTestWorkspace(new(mockOrders), nil)
	c := w.Controller(TargetNew)

	require.NoError(t, c.AddOrIncrement("A", "Produto A", decimal.NewFromInt(10)))
	older := c.Snapshot()
	require.NoError(t, c.AddOrIncrement("B", "Produto B", decimal.NewFromInt(5)))
	newer := w.View(TargetNew)

	// A listener that lost the race delivers its state last.
	got := w.render(TargetNew, older)

	assert.Equal(t, newer, got)
	assert.Equal(t, newer, w.View(TargetNew))
	assert.Len(t, w.View(TargetNew).Items, 2)
}

func TestWorkspace_ConcurrentChangesRenderLatestState(t *testing.T) {
	w := newTestWorkspace(new(mockOrders), nil)
	c := w.Controller(TargetNew)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.AddOrIncrement("A", "Produto A", decimal.NewFromInt(1)))
		}()
	}
	wg.Wait()

	v := w.View(TargetNew)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 64, v.Items[0].Quantity)
	assert.Equal(t, "R$ 64.00", v.Total)
}

func TestSubmissionResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{apperrors.BackendRejected("Caixa não está aberto."), "rejected"},
		{apperrors.ServiceUnavailable("open"), "unavailable"},
		{apperrors.Validation(apperrors.CodeEmptyCart, "empty"), "invalid"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, submissionResult(tt.err))
	}
}

func TestParseTarget(t *testing.T) {
	got, ok := ParseTarget("new")
	assert.True(t, ok)
	assert.Equal(t, TargetNew, got)

	got, ok = ParseTarget("edit")
	assert.True(t, ok)
	assert.Equal(t, TargetEdit, got)

	_, ok = ParseTarget("orders")
	assert.False(t, ok)
}

func TestPaymentOptions(t *testing.T) {
	opts := PaymentOptions()
	require.Len(t, opts, 4)
	assert.Equal(t, PaymentOption{Value: "dinheiro", Label: "Dinheiro"}, opts[0])
}
