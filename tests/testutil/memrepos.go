// Package testutil provides common test utilities for the ledger backend.
package testutil

import (
	"context"
	"sync"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/assets"
	"github.com/bizledger/backend/internal/domain/expense"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/loans"
	"github.com/bizledger/backend/internal/domain/party"
	"github.com/bizledger/backend/internal/domain/procurement"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemPaymentRepo is an in-memory ledger.PaymentRepository.
type MemPaymentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]ledger.Payment
}

// NewMemPaymentRepo creates an empty in-memory payment repository.
func NewMemPaymentRepo() *MemPaymentRepo {
	return &MemPaymentRepo{items: make(map[uuid.UUID]ledger.Payment)}
}

func (m *MemPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MemPaymentRepo) FindByTarget(_ context.Context, target ledger.TargetRef) ([]ledger.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []ledger.Payment
	for _, p := range m.items {
		if p.Target() == target {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MemPaymentRepo) FindByParty(_ context.Context, partyRef ledger.PartyRef, _ shared.Filter) ([]ledger.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []ledger.Payment
	for _, p := range m.items {
		if p.Party() == partyRef {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MemPaymentRepo) Save(_ context.Context, payment *ledger.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[payment.ID] = *payment
	return nil
}

func (m *MemPaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemPaymentRepo) SumByTarget(_ context.Context, target ledger.TargetRef) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, p := range m.items {
		if p.Target() == target {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

// Count returns the number of stored payments.
func (m *MemPaymentRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// MemAuditRepo is an in-memory append-only ledger.AuditRepository.
type MemAuditRepo struct {
	mu      sync.Mutex
	entries []ledger.AuditEntry
}

// NewMemAuditRepo creates an empty in-memory audit repository.
func NewMemAuditRepo() *MemAuditRepo {
	return &MemAuditRepo{}
}

func (m *MemAuditRepo) Append(_ context.Context, entry *ledger.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MemAuditRepo) FindByEntity(_ context.Context, entityType string, entityID uuid.UUID) ([]ledger.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []ledger.AuditEntry
	for _, e := range m.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			result = append(result, e)
		}
	}
	return result, nil
}

// MemClientRepo is an in-memory party.ClientRepository.
type MemClientRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]party.Client
}

// NewMemClientRepo creates an empty in-memory client repository.
func NewMemClientRepo() *MemClientRepo {
	return &MemClientRepo{items: make(map[uuid.UUID]party.Client)}
}

func (m *MemClientRepo) FindByID(_ context.Context, id uuid.UUID) (*party.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.items[id]; ok {
		cp := c
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MemClientRepo) FindAll(_ context.Context, _ shared.Filter) ([]party.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]party.Client, 0, len(m.items))
	for _, c := range m.items {
		result = append(result, c)
	}
	return result, nil
}

func (m *MemClientRepo) Save(_ context.Context, client *party.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[client.ID] = *client
	return nil
}

func (m *MemClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemClientRepo) AdjustOutstanding(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	c.OutstandingReceivable = c.OutstandingReceivable.Add(delta)
	m.items[id] = c
	return nil
}

// MemVendorRepo is an in-memory party.VendorRepository.
type MemVendorRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]party.Vendor
}

// NewMemVendorRepo creates an empty in-memory vendor repository.
func NewMemVendorRepo() *MemVendorRepo {
	return &MemVendorRepo{items: make(map[uuid.UUID]party.Vendor)}
}

func (m *MemVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*party.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.items[id]; ok {
		cp := v
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MemVendorRepo) FindAll(_ context.Context, _ shared.Filter) ([]party.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]party.Vendor, 0, len(m.items))
	for _, v := range m.items {
		result = append(result, v)
	}
	return result, nil
}

func (m *MemVendorRepo) Save(_ context.Context, vendor *party.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[vendor.ID] = *vendor
	return nil
}

func (m *MemVendorRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemVendorRepo) AdjustOutstanding(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	v.OutstandingPayable = v.OutstandingPayable.Add(delta)
	m.items[id] = v
	return nil
}

// MemSaleRepo is an in-memory sales.SaleRepository.
type MemSaleRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]sales.Sale
}

// NewMemSaleRepo creates an empty in-memory sale repository.
func NewMemSaleRepo() *MemSaleRepo {
	return &MemSaleRepo{items: make(map[uuid.UUID]sales.Sale)}
}

func (m *MemSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.items[id]; ok {
		cp := s
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MemSaleRepo) FindAll(_ context.Context, _ shared.Filter) ([]sales.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]sales.Sale, 0, len(m.items))
	for _, s := range m.items {
		result = append(result, s)
	}
	return result, nil
}

func (m *MemSaleRepo) FindByClient(_ context.Context, clientID uuid.UUID, _ shared.Filter) ([]sales.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []sales.Sale
	for _, s := range m.items {
		if s.ClientID == clientID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *MemSaleRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemSaleRepo) Save(_ context.Context, sale *sales.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[sale.ID] = *sale
	return nil
}

func (m *MemSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// MemOrderRepo is an in-memory procurement.OrderRepository.
type MemOrderRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]procurement.Order
}

// NewMemOrderRepo creates an empty in-memory procurement order repository.
func NewMemOrderRepo() *MemOrderRepo {
	return &MemOrderRepo{items: make(map[uuid.UUID]procurement.Order)}
}

func (m *MemOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*procurement.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.items[id]; ok {
		cp := o
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MemOrderRepo) FindAll(_ context.Context, orderType procurement.OrderType, _ shared.Filter) ([]procurement.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []procurement.Order
	for _, o := range m.items {
		if orderType == "" || o.Type == orderType {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *MemOrderRepo) FindByVendor(_ context.Context, vendorID uuid.UUID, _ shared.Filter) ([]procurement.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []procurement.Order
	for _, o := range m.items {
		if o.VendorID == vendorID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *MemOrderRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemOrderRepo) Save(_ context.Context, order *procurement.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[order.ID] = *order
	return nil
}

func (m *MemOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// MemAssetRepo is an in-memory assets.AssetRepository.
type MemAssetRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]assets.Asset
}

// NewMemAssetRepo creates an empty in-memory asset repository.
func NewMemAssetRepo() *MemAssetRepo {
	return &MemAssetRepo{items: make(map[uuid.UUID]assets.Asset)}
}

func (m *MemAssetRepo) FindByID(_ context.Context, id uuid.UUID) (*assets.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.items[id]; ok {
		cp := a
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MemAssetRepo) FindAll(_ context.Context, _ shared.Filter) ([]assets.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]assets.Asset, 0, len(m.items))
	for _, a := range m.items {
		result = append(result, a)
	}
	return result, nil
}

func (m *MemAssetRepo) FindByVendor(_ context.Context, vendorID uuid.UUID, _ shared.Filter) ([]assets.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []assets.Asset
	for _, a := range m.items {
		if a.VendorID != nil && *a.VendorID == vendorID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *MemAssetRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemAssetRepo) Save(_ context.Context, asset *assets.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[asset.ID] = *asset
	return nil
}

func (m *MemAssetRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// MemExpenseRepo is an in-memory expense.ExpenseRepository.
type MemExpenseRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]expense.Expense
}

// NewMemExpenseRepo creates an empty in-memory expense repository.
func NewMemExpenseRepo() *MemExpenseRepo {
	return &MemExpenseRepo{items: make(map[uuid.UUID]expense.Expense)}
}

func (m *MemExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.items[id]; ok {
		cp := e
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MemExpenseRepo) FindAll(_ context.Context, _ shared.Filter) ([]expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]expense.Expense, 0, len(m.items))
	for _, e := range m.items {
		result = append(result, e)
	}
	return result, nil
}

func (m *MemExpenseRepo) FindByVendor(_ context.Context, vendorID uuid.UUID, _ shared.Filter) ([]expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []expense.Expense
	for _, e := range m.items {
		if e.VendorID != nil && *e.VendorID == vendorID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MemExpenseRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemExpenseRepo) Save(_ context.Context, e *expense.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[e.ID] = *e
	return nil
}

func (m *MemExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// MemLoanRepo is an in-memory loans.LoanRepository.
type MemLoanRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]loans.Loan
}

// NewMemLoanRepo creates an empty in-memory loan repository.
func NewMemLoanRepo() *MemLoanRepo {
	return &MemLoanRepo{items: make(map[uuid.UUID]loans.Loan)}
}

func (m *MemLoanRepo) FindByID(_ context.Context, id uuid.UUID) (*loans.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.items[id]; ok {
		cp := l
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MemLoanRepo) FindAll(_ context.Context, _ shared.Filter) ([]loans.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]loans.Loan, 0, len(m.items))
	for _, l := range m.items {
		result = append(result, l)
	}
	return result, nil
}

func (m *MemLoanRepo) Save(_ context.Context, loan *loans.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[loan.ID] = *loan
	return nil
}

func (m *MemLoanRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// MemInterestPaymentRepo is an in-memory loans.InterestPaymentRepository.
type MemInterestPaymentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]loans.InterestPayment
}

// NewMemInterestPaymentRepo creates an empty in-memory installment repository.
func NewMemInterestPaymentRepo() *MemInterestPaymentRepo {
	return &MemInterestPaymentRepo{items: make(map[uuid.UUID]loans.InterestPayment)}
}

func (m *MemInterestPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*loans.InterestPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MemInterestPaymentRepo) FindByLoan(_ context.Context, loanID uuid.UUID) ([]loans.InterestPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []loans.InterestPayment
	for _, p := range m.items {
		if p.LoanID == loanID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MemInterestPaymentRepo) FindByPayment(_ context.Context, paymentID uuid.UUID) (*loans.InterestPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.PaymentID == paymentID {
			cp := p
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *MemInterestPaymentRepo) FindByExpense(_ context.Context, expenseID uuid.UUID) (*loans.InterestPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.ExpenseID == expenseID {
			cp := p
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *MemInterestPaymentRepo) Save(_ context.Context, payment *loans.InterestPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[payment.ID] = *payment
	return nil
}

func (m *MemInterestPaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// RecordingStockAdjuster tracks stock movements per item. Positive levels
// mean net stock in.
type RecordingStockAdjuster struct {
	mu     sync.Mutex
	levels map[uuid.UUID]decimal.Decimal
}

// NewRecordingStockAdjuster creates a stock adjuster starting at zero for
// every item.
func NewRecordingStockAdjuster() *RecordingStockAdjuster {
	return &RecordingStockAdjuster{levels: make(map[uuid.UUID]decimal.Decimal)}
}

func (r *RecordingStockAdjuster) StockOut(_ context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[itemID] = r.levels[itemID].Sub(quantity)
	return nil
}

func (r *RecordingStockAdjuster) StockIn(_ context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[itemID] = r.levels[itemID].Add(quantity)
	return nil
}

// Level returns the net stock movement recorded for an item.
func (r *RecordingStockAdjuster) Level(itemID uuid.UUID) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.levels[itemID]
}

// RecordingAuditSink collects audit entries handed to it.
type RecordingAuditSink struct {
	mu      sync.Mutex
	entries []ledger.AuditEntry
}

// NewRecordingAuditSink creates an empty audit sink recorder.
func NewRecordingAuditSink() *RecordingAuditSink {
	return &RecordingAuditSink{}
}

func (r *RecordingAuditSink) Record(_ context.Context, entry *ledger.AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
}

// Entries returns all recorded audit entries.
func (r *RecordingAuditSink) Entries() []ledger.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.AuditEntry, len(r.entries))
	copy(result, r.entries)
	return result
}

// RecordingCache collects invalidated cache keys.
type RecordingCache struct {
	mu   sync.Mutex
	keys []string
}

// NewRecordingCache creates an empty cache invalidation recorder.
func NewRecordingCache() *RecordingCache {
	return &RecordingCache{}
}

func (r *RecordingCache) Invalidate(_ context.Context, keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, keys...)
}

// Keys returns all invalidated cache keys.
func (r *RecordingCache) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]string, len(r.keys))
	copy(result, r.keys)
	return result
}

// LedgerFixture bundles in-memory repositories behind a no-op transaction
// scope, ready to back the application services in tests.
type LedgerFixture struct {
	Scope            *appledger.NoOpTransactionScope
	Payments         *MemPaymentRepo
	Audits           *MemAuditRepo
	Clients          *MemClientRepo
	Vendors          *MemVendorRepo
	Sales            *MemSaleRepo
	Orders           *MemOrderRepo
	Assets           *MemAssetRepo
	Expenses         *MemExpenseRepo
	Loans            *MemLoanRepo
	InterestPayments *MemInterestPaymentRepo
	Stock            *RecordingStockAdjuster
	AuditSink        *RecordingAuditSink
	Cache            *RecordingCache
}

// NewLedgerFixture wires a complete in-memory ledger environment.
func NewLedgerFixture() *LedgerFixture {
	f := &LedgerFixture{
		Payments:         NewMemPaymentRepo(),
		Audits:           NewMemAuditRepo(),
		Clients:          NewMemClientRepo(),
		Vendors:          NewMemVendorRepo(),
		Sales:            NewMemSaleRepo(),
		Orders:           NewMemOrderRepo(),
		Assets:           NewMemAssetRepo(),
		Expenses:         NewMemExpenseRepo(),
		Loans:            NewMemLoanRepo(),
		InterestPayments: NewMemInterestPaymentRepo(),
		Stock:            NewRecordingStockAdjuster(),
		AuditSink:        NewRecordingAuditSink(),
		Cache:            NewRecordingCache(),
	}
	f.Scope = &appledger.NoOpTransactionScope{
		Payments:         f.Payments,
		Audits:           f.Audits,
		Clients:          f.Clients,
		Vendors:          f.Vendors,
		Sales:            f.Sales,
		Procurements:     f.Orders,
		Assets:           f.Assets,
		Expenses:         f.Expenses,
		Loans:            f.Loans,
		InterestPayments: f.InterestPayments,
		Stock:            f.Stock,
	}
	return f
}
