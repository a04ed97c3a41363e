package repository

import (
	"context"
	"sync"

	"github.com/senyabanana/tender-approval-service/internal/models"
	"github.com/senyabanana/tender-approval-service/internal/workflow"
)

// MemoryStore - общее хранилище в памяти для всех репозиториев. Используется
// в тестах и как замена базы при локальном запуске. Все операции идут под
// одним мьютексом, порядок предложений - порядок вставки.
type MemoryStore struct {
	mu       sync.Mutex
	tenders  map[string]*models.Tender
	order    []string
	bids     []models.Bid
	payments []models.EMDPayment
}

// NewMemoryStore создает пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tenders: make(map[string]*models.Tender)}
}

// cloneTender возвращает глубокую копию тендера, чтобы вызывающий код не
// менял хранимое состояние в обход репозитория.
func cloneTender(t *models.Tender) *models.Tender {
	clone := *t
	clone.Approvals = cloneApprovals(t.Approvals)
	if t.AwardedTo != nil {
		awarded := *t.AwardedTo
		clone.AwardedTo = &awarded
	}
	return &clone
}

func cloneApprovals(a models.Approvals) models.Approvals {
	clone := a
	for _, role := range workflow.ApprovalSequence {
		src := a.Slot(role)
		dst := clone.Slot(role)
		if src.Approval != nil {
			approval := *src.Approval
			dst.Approval = &approval
		}
		if src.Rejection != nil {
			rejection := *src.Rejection
			dst.Rejection = &rejection
		}
	}
	return clone
}

// tenderBidsLocked возвращает предложения тендера в порядке вставки.
// Вызывается только под mu.
func (s *MemoryStore) tenderBidsLocked(tenderID string) []models.Bid {
	var bids []models.Bid
	for _, bid := range s.bids {
		if bid.TenderID == tenderID {
			bids = append(bids, bid)
		}
	}
	return bids
}

// InMemoryTenderRepository - реализация TenderRepository поверх MemoryStore.
type InMemoryTenderRepository struct {
	store *MemoryStore
}

// NewInMemoryTenderRepository создает новый экземпляр InMemoryTenderRepository.
func NewInMemoryTenderRepository(store *MemoryStore) *InMemoryTenderRepository {
	return &InMemoryTenderRepository{store: store}
}

// GetTenders возвращает список тендеров с опциональным фильтром по статусам.
func (r *InMemoryTenderRepository) GetTenders(_ context.Context, limit, offset int, statuses []string) ([]models.Tender, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	wanted := make(map[string]bool, len(statuses))
	for _, status := range statuses {
		wanted[status] = true
	}

	var tenders []models.Tender
	for _, id := range r.store.order {
		tender := r.store.tenders[id]
		if tender == nil {
			continue
		}
		if len(wanted) > 0 && !wanted[string(tender.Status)] {
			continue
		}
		tenders = append(tenders, *cloneTender(tender))
	}
	return paginateTenders(tenders, limit, offset), nil
}

// GetTenderByID возвращает тендер по идентификатору.
func (r *InMemoryTenderRepository) GetTenderByID(_ context.Context, tenderID string) (*models.Tender, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tender, ok := r.store.tenders[tenderID]
	if !ok {
		return nil, models.NewErrorResponse(models.ErrNotFound, "tender not found")
	}
	return cloneTender(tender), nil
}

// GetCoordinatorTenders возвращает список тендеров координатора.
func (r *InMemoryTenderRepository) GetCoordinatorTenders(_ context.Context, limit, offset int, coordinatorID string) ([]models.Tender, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var tenders []models.Tender
	for _, id := range r.store.order {
		tender := r.store.tenders[id]
		if tender != nil && tender.CoordinatorID == coordinatorID {
			tenders = append(tenders, *cloneTender(tender))
		}
	}
	return paginateTenders(tenders, limit, offset), nil
}

// CreateTender сохраняет новый тендер.
func (r *InMemoryTenderRepository) CreateTender(_ context.Context, tender *models.Tender) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.tenders[tender.ID] = cloneTender(tender)
	r.store.order = append(r.store.order, tender.ID)
	return nil
}

// UpdateTender выполняет mutate над копией тендера и при успехе сохраняет ее.
func (r *InMemoryTenderRepository) UpdateTender(_ context.Context, tenderID string, mutate func(*models.Tender) error) (*models.Tender, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tender, ok := r.store.tenders[tenderID]
	if !ok {
		return nil, models.NewErrorResponse(models.ErrNotFound, "tender not found")
	}

	updated := cloneTender(tender)
	if err := mutate(updated); err != nil {
		return nil, err
	}

	r.store.tenders[tenderID] = updated
	return cloneTender(updated), nil
}

// AwardTender выполняет apply над тендером и предложением и сохраняет обе
// сущности.
func (r *InMemoryTenderRepository) AwardTender(_ context.Context, tenderID, bidID string, apply func(*models.Tender, *models.Bid) error) (*models.Tender, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tender, ok := r.store.tenders[tenderID]
	if !ok {
		return nil, models.NewErrorResponse(models.ErrNotFound, "tender not found")
	}

	bidIndex := -1
	for i := range r.store.bids {
		if r.store.bids[i].ID == bidID {
			bidIndex = i
			break
		}
	}
	if bidIndex == -1 {
		return nil, models.NewErrorResponse(models.ErrNotFound, "bid not found")
	}

	updatedTender := cloneTender(tender)
	updatedBid := r.store.bids[bidIndex]
	if err := apply(updatedTender, &updatedBid); err != nil {
		return nil, err
	}

	r.store.tenders[tenderID] = updatedTender
	r.store.bids[bidIndex] = updatedBid
	return cloneTender(updatedTender), nil
}

// DeleteTender удаляет тендер вместе с его предложениями и платежами.
func (r *InMemoryTenderRepository) DeleteTender(_ context.Context, tenderID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tenders[tenderID]; !ok {
		return models.NewErrorResponse(models.ErrNotFound, "tender not found")
	}
	delete(r.store.tenders, tenderID)

	order := r.store.order[:0]
	for _, id := range r.store.order {
		if id != tenderID {
			order = append(order, id)
		}
	}
	r.store.order = order

	bids := r.store.bids[:0]
	for _, bid := range r.store.bids {
		if bid.TenderID != tenderID {
			bids = append(bids, bid)
		}
	}
	r.store.bids = bids

	payments := r.store.payments[:0]
	for _, payment := range r.store.payments {
		if payment.TenderID != tenderID {
			payments = append(payments, payment)
		}
	}
	r.store.payments = payments
	return nil
}

// paginateTenders применяет limit/offset к списку.
func paginateTenders(tenders []models.Tender, limit, offset int) []models.Tender {
	if offset >= len(tenders) {
		return nil
	}
	tenders = tenders[offset:]
	if limit > 0 && limit < len(tenders) {
		tenders = tenders[:limit]
	}
	return tenders
}

// InMemoryBidRepository - реализация BidRepository поверх MemoryStore.
type InMemoryBidRepository struct {
	store *MemoryStore
}

// NewInMemoryBidRepository создает новый экземпляр InMemoryBidRepository.
func NewInMemoryBidRepository(store *MemoryStore) *InMemoryBidRepository {
	return &InMemoryBidRepository{store: store}
}

// GetBids возвращает список всех предложений.
func (r *InMemoryBidRepository) GetBids(_ context.Context, limit, offset int) ([]models.Bid, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	bids := make([]models.Bid, len(r.store.bids))
	copy(bids, r.store.bids)
	return paginateBids(bids, limit, offset), nil
}

// GetTenderBids возвращает предложения по тендеру в порядке подачи.
func (r *InMemoryBidRepository) GetTenderBids(_ context.Context, tenderID string) ([]models.Bid, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.tenderBidsLocked(tenderID), nil
}

// GetContractorBids возвращает предложения подрядчика.
func (r *InMemoryBidRepository) GetContractorBids(_ context.Context, limit, offset int, contractorID string) ([]models.Bid, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var bids []models.Bid
	for _, bid := range r.store.bids {
		if bid.ContractorID == contractorID {
			bids = append(bids, bid)
		}
	}
	return paginateBids(bids, limit, offset), nil
}

// GetBidByID возвращает предложение по идентификатору.
func (r *InMemoryBidRepository) GetBidByID(_ context.Context, bidID string) (*models.Bid, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, bid := range r.store.bids {
		if bid.ID == bidID {
			found := bid
			return &found, nil
		}
	}
	return nil, models.NewErrorResponse(models.ErrNotFound, "bid not found")
}

// SubmitBid вставляет предложение, построенное build, и пересчитывает флаг
// минимального предложения по тендеру.
func (r *InMemoryBidRepository) SubmitBid(_ context.Context, tenderID string, build func(tender *models.Tender, existing []models.Bid) (*models.Bid, error)) (*models.Bid, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tender, ok := r.store.tenders[tenderID]
	if !ok {
		return nil, models.NewErrorResponse(models.ErrNotFound, "tender not found")
	}

	existing := r.store.tenderBidsLocked(tenderID)
	newBid, err := build(cloneTender(tender), existing)
	if err != nil {
		return nil, err
	}

	r.store.bids = append(r.store.bids, *newBid)

	all := r.store.tenderBidsLocked(tenderID)
	workflow.MarkLowestBid(all)
	flags := make(map[string]bool, len(all))
	for _, bid := range all {
		flags[bid.ID] = bid.IsLowest
	}
	for i := range r.store.bids {
		if r.store.bids[i].TenderID == tenderID {
			r.store.bids[i].IsLowest = flags[r.store.bids[i].ID]
		}
	}

	newBid.IsLowest = flags[newBid.ID]
	return newBid, nil
}

// paginateBids применяет limit/offset к списку.
func paginateBids(bids []models.Bid, limit, offset int) []models.Bid {
	if offset >= len(bids) {
		return nil
	}
	bids = bids[offset:]
	if limit > 0 && limit < len(bids) {
		bids = bids[:limit]
	}
	return bids
}

// InMemoryPaymentRepository - реализация PaymentRepository поверх MemoryStore.
type InMemoryPaymentRepository struct {
	store *MemoryStore
}

// NewInMemoryPaymentRepository создает новый экземпляр InMemoryPaymentRepository.
func NewInMemoryPaymentRepository(store *MemoryStore) *InMemoryPaymentRepository {
	return &InMemoryPaymentRepository{store: store}
}

// CreatePayment сохраняет новый платеж.
func (r *InMemoryPaymentRepository) CreatePayment(_ context.Context, payment *models.EMDPayment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.payments = append(r.store.payments, *payment)
	return nil
}

// HasSuccessfulPayment проверяет наличие успешного платежа по паре
// (тендер, подрядчик).
func (r *InMemoryPaymentRepository) HasSuccessfulPayment(_ context.Context, tenderID, contractorID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, payment := range r.store.payments {
		if payment.TenderID == tenderID && payment.ContractorID == contractorID && payment.Status == models.PaymentSuccess {
			return true, nil
		}
	}
	return false, nil
}

// GetContractorPayments возвращает платежи подрядчика.
func (r *InMemoryPaymentRepository) GetContractorPayments(_ context.Context, contractorID string) ([]models.EMDPayment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var payments []models.EMDPayment
	for _, payment := range r.store.payments {
		if payment.ContractorID == contractorID {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}
