package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/almacenpos/almacen_backend/internal/apperrors"
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	portsrepo "github.com/almacenpos/almacen_backend/internal/core/ports/repositories"
	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
	"github.com/almacenpos/almacen_backend/internal/dto"
	"github.com/almacenpos/almacen_backend/internal/middleware"
	"github.com/almacenpos/almacen_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var (
	// ErrPostingRejected marks validation failures: nothing was written.
	ErrPostingRejected = errors.New("posting rejected")
	// ErrPostingFailed marks write failures: the atomic unit rolled back.
	ErrPostingFailed = errors.New("posting failed")
	// ErrReversalRejected marks reversal precondition failures.
	ErrReversalRejected = errors.New("reversal rejected")
	// ErrReversalFailed marks reversal write failures.
	ErrReversalFailed = errors.New("reversal failed")
)

// totalTolerance is the maximum allowed absolute difference between the
// line items total and the payment splits total of one posting.
var totalTolerance = decimal.NewFromFloat(0.01)

const reversalDescriptionPrefix = "REVERSAL: "
const reversalLabelPrefix = "(Reversed) "

// ledgerService is the only write path into the transaction graph and its
// stock/balance accumulators.
type ledgerService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	productRepo portsrepo.ProductRepositoryFacade
	partyRepo   portsrepo.PartyRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, productRepo portsrepo.ProductRepositoryFacade, partyRepo portsrepo.PartyRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
		partyRepo:   partyRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateLinesAndPayments runs the structural checks in their contract
// order: lines first, then payments, then the totals match. It returns the
// rounded lines total on success.
func (s *ledgerService) validateLinesAndPayments(lines []dto.LineRequest, payments []dto.PaymentRequest) (decimal.Decimal, error) {
	if len(lines) == 0 {
		return decimal.Zero, fmt.Errorf("%w: at least one line item is required", ErrPostingRejected)
	}
	linesTotal := decimal.Zero
	for i, line := range lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, fmt.Errorf("%w: line %d quantity must be positive", ErrPostingRejected, i)
		}
		if line.UnitPrice.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, fmt.Errorf("%w: line %d unit price must be positive", ErrPostingRejected, i)
		}
		linesTotal = linesTotal.Add(line.Quantity.Mul(line.UnitPrice).Round(2))
	}

	if len(payments) == 0 {
		return decimal.Zero, fmt.Errorf("%w: at least one payment split is required", ErrPostingRejected)
	}
	paymentsTotal := decimal.Zero
	for i, payment := range payments {
		if !payment.Method.Valid() {
			return decimal.Zero, fmt.Errorf("%w: payment %d has unknown method %q", ErrPostingRejected, i, payment.Method)
		}
		if payment.Amount.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, fmt.Errorf("%w: payment %d amount must be positive", ErrPostingRejected, i)
		}
		paymentsTotal = paymentsTotal.Add(payment.Amount)
	}

	if linesTotal.Sub(paymentsTotal).Abs().GreaterThan(totalTolerance) {
		return decimal.Zero, fmt.Errorf("%w: payments total %s does not match lines total %s", ErrPostingRejected, paymentsTotal.String(), linesTotal.String())
	}
	return linesTotal, nil
}

// validateParty enforces the party rules for a posting: settlements and
// credit-bearing postings must reference a party, and the credit method
// must match the party's role.
func (s *ledgerService) validateParty(ctx context.Context, kind domain.TransactionKind, partyID *string, payments []dto.PaymentRequest) (*domain.Party, error) {
	hasCredit := false
	for _, p := range payments {
		if p.Method.IsCredit() {
			hasCredit = true
			break
		}
	}

	if partyID == nil {
		if kind.IsSettlement() {
			return nil, fmt.Errorf("%w: %s postings require a party", ErrPostingRejected, kind)
		}
		if hasCredit {
			return nil, fmt.Errorf("%w: credit payment methods require a party", ErrPostingRejected)
		}
		return nil, nil
	}

	party, err := s.partyRepo.FindPartyByID(ctx, *partyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: party %s not found", apperrors.ErrNotFound, *partyID)
		}
		return nil, fmt.Errorf("failed to fetch party %s: %w", *partyID, err)
	}
	if !party.IsActive {
		return nil, fmt.Errorf("%w: party %s is inactive", ErrPostingRejected, *partyID)
	}

	for _, p := range payments {
		if p.Method == domain.MethodCreditCustomer && party.Role != domain.RoleClient {
			return nil, fmt.Errorf("%w: %s requires a %s party", ErrPostingRejected, domain.MethodCreditCustomer, domain.RoleClient)
		}
		if p.Method == domain.MethodCreditProvider && party.Role != domain.RoleProvider {
			return nil, fmt.Errorf("%w: %s requires a %s party", ErrPostingRejected, domain.MethodCreditProvider, domain.RoleProvider)
		}
	}
	return party, nil
}

// Post validates and posts one commercial event as a single atomic unit.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) Post(ctx context.Context, req dto.PostTransactionRequest, creatorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", ErrPostingRejected, req.Kind)
	}

	linesTotal, err := s.validateLinesAndPayments(req.Lines, req.Payments)
	if err != nil {
		return nil, err
	}

	if _, err := s.validateParty(ctx, req.Kind, req.PartyID, req.Payments); err != nil {
		return nil, err
	}

	// Referenced products must exist before the write is attempted; the
	// repository locks and re-checks them inside the transaction.
	productIDs := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.ProductID != nil {
			productIDs = append(productIDs, *line.ProductID)
		}
	}
	if len(productIDs) > 0 {
		productsMap, err := s.productRepo.FindProductsByIDs(ctx, uniqueStrings(productIDs))
		if err != nil {
			logger.Error("Failed to fetch products for posting", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to fetch products: %w", err)
		}
		for _, id := range productIDs {
			product, found := productsMap[id]
			if !found {
				return nil, fmt.Errorf("%w: product %s not found", apperrors.ErrNotFound, id)
			}
			if !product.IsActive {
				return nil, fmt.Errorf("%w: product %s is inactive", ErrPostingRejected, id)
			}
		}
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorID,
	}

	items := make([]domain.LineItem, len(req.Lines))
	stockDirection := accounting.StockDirection(req.Kind)
	stockChanges := make(map[string]decimal.Decimal)
	for i, line := range req.Lines {
		items[i] = domain.LineItem{
			LineItemID:    uuid.NewString(),
			TransactionID: transactionID,
			ProductID:     line.ProductID,
			Label:         line.Label,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			TotalPrice:    line.Quantity.Mul(line.UnitPrice).Round(2),
			Position:      i,
			AuditFields:   audit,
		}
		if line.ProductID != nil && !stockDirection.IsZero() {
			stockChanges[*line.ProductID] = stockChanges[*line.ProductID].Add(stockDirection.Mul(line.Quantity))
		}
	}

	payments := make([]domain.PaymentSplit, len(req.Payments))
	for i, payment := range req.Payments {
		payments[i] = domain.PaymentSplit{
			PaymentID:     uuid.NewString(),
			TransactionID: transactionID,
			Method:        payment.Method,
			Amount:        payment.Amount,
			Position:      i,
			AuditFields:   audit,
		}
	}

	txn := domain.Transaction{
		TransactionID: transactionID,
		Kind:          req.Kind,
		TotalAmount:   linesTotal,
		Status:        domain.StatusCompleted,
		PartyID:       req.PartyID,
		Description:   req.Description,
		AuditFields:   audit,
	}

	// Credit splits raise the party's pending balance; settlements lower
	// it by the settled amount.
	balanceChange := computeBalanceChange(req.PartyID, req.Kind, payments, txn.TotalAmount)

	if err := s.ledgerRepo.SavePosting(ctx, txn, items, payments, req.IdempotencyKey, stockChanges, balanceChange); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate idempotency key on posting", slog.String("transaction_id", transactionID))
			return nil, fmt.Errorf("posting already recorded: %w", err)
		}
		logger.Error("Failed to save posting", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("%w: %v", ErrPostingFailed, err)
	}

	logger.Info("Transaction posted",
		slog.String("transaction_id", transactionID),
		slog.String("kind", string(txn.Kind)),
		slog.String("total_amount", txn.TotalAmount.String()),
	)
	txn.LineItems = items
	txn.Payments = payments
	return &txn, nil
}

// computeBalanceChange derives the party balance delta a posting carries.
// Nil when the posting references no party or the delta nets to zero.
func computeBalanceChange(partyID *string, kind domain.TransactionKind, payments []domain.PaymentSplit, totalAmount decimal.Decimal) *portsrepo.BalanceChange {
	if partyID == nil {
		return nil
	}
	delta := accounting.CreditTotal(payments)
	if kind.IsSettlement() {
		delta = delta.Sub(totalAmount)
	}
	if delta.IsZero() {
		return nil
	}
	return &portsrepo.BalanceChange{PartyID: *partyID, Delta: delta}
}

// Reverse emits a counter-entry against a prior positive transaction.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) Reverse(ctx context.Context, originalID string, reason string, creatorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: a reason is required", ErrReversalRejected)
	}

	original, err := s.ledgerRepo.FindTransactionByID(ctx, originalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: transaction %s not found", apperrors.ErrNotFound, originalID)
		}
		logger.Error("Failed to fetch original transaction for reversal", slog.String("error", err.Error()), slog.String("transaction_id", originalID))
		return nil, fmt.Errorf("%w: %v", ErrReversalFailed, err)
	}

	// Counter-entries carry a negative total; anything non-positive is
	// itself a reversal (or corrupt) and cannot be reversed again.
	if original.IsReversal() || original.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: transaction %s is a reversal and cannot be reversed", ErrReversalRejected, originalID)
	}

	if existing, err := s.ledgerRepo.FindReversalOf(ctx, originalID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: transaction %s was already reversed by %s", ErrReversalRejected, originalID, existing.TransactionID)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check for existing reversal", slog.String("error", err.Error()), slog.String("transaction_id", originalID))
		return nil, fmt.Errorf("%w: %v", ErrReversalFailed, err)
	}

	originalItems, err := s.ledgerRepo.FindLineItemsByTransactionID(ctx, originalID)
	if err != nil {
		logger.Error("Failed to fetch line items for reversal", slog.String("error", err.Error()), slog.String("transaction_id", originalID))
		return nil, fmt.Errorf("%w: %v", ErrReversalFailed, err)
	}
	originalPayments, err := s.ledgerRepo.FindPaymentSplitsByTransactionID(ctx, originalID)
	if err != nil {
		logger.Error("Failed to fetch payment splits for reversal", slog.String("error", err.Error()), slog.String("transaction_id", originalID))
		return nil, fmt.Errorf("%w: %v", ErrReversalFailed, err)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorID,
	}

	items := make([]domain.LineItem, len(originalItems))
	stockChanges := make(map[string]decimal.Decimal)
	// The inverse stock direction comes from the ORIGINAL kind, so signs
	// are applied exactly once.
	inverseDirection := accounting.StockDirection(original.Kind).Neg()
	for i, orig := range originalItems {
		items[i] = domain.LineItem{
			LineItemID:    uuid.NewString(),
			TransactionID: reversalID,
			ProductID:     orig.ProductID,
			Label:         reversalLabelPrefix + orig.Label,
			Quantity:      orig.Quantity.Neg(),
			UnitPrice:     orig.UnitPrice,
			TotalPrice:    orig.TotalPrice.Neg(),
			Position:      orig.Position,
			AuditFields:   audit,
		}
		if orig.ProductID != nil && !inverseDirection.IsZero() {
			stockChanges[*orig.ProductID] = stockChanges[*orig.ProductID].Add(inverseDirection.Mul(orig.Quantity))
		}
	}

	payments := make([]domain.PaymentSplit, len(originalPayments))
	for i, orig := range originalPayments {
		payments[i] = domain.PaymentSplit{
			PaymentID:     uuid.NewString(),
			TransactionID: reversalID,
			Method:        orig.Method,
			Amount:        orig.Amount.Neg(),
			Position:      orig.Position,
			AuditFields:   audit,
		}
	}

	reversal := domain.Transaction{
		TransactionID: reversalID,
		Kind:          original.Kind,
		TotalAmount:   original.TotalAmount.Neg(),
		Status:        domain.StatusCompleted,
		PartyID:       original.PartyID,
		ReversalOf:    &original.TransactionID,
		Description:   reversalDescriptionPrefix + reason,
		AuditFields:   audit,
	}

	// Only the credit-method increment is undone; non-credit originals
	// cause no balance change on reversal.
	var balanceChange *portsrepo.BalanceChange
	if original.PartyID != nil {
		creditTotal := accounting.CreditTotal(originalPayments)
		if !creditTotal.IsZero() {
			balanceChange = &portsrepo.BalanceChange{PartyID: *original.PartyID, Delta: creditTotal.Neg()}
		}
	}

	if err := s.ledgerRepo.SavePosting(ctx, reversal, items, payments, nil, stockChanges, balanceChange); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent reversal won the unique reversal_of index.
			return nil, fmt.Errorf("%w: transaction %s was already reversed", ErrReversalRejected, originalID)
		}
		logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("transaction_id", originalID))
		return nil, fmt.Errorf("%w: %v", ErrReversalFailed, err)
	}

	logger.Info("Transaction reversed",
		slog.String("original_id", originalID),
		slog.String("reversal_id", reversalID),
	)
	reversal.LineItems = items
	reversal.Payments = payments
	return &reversal, nil
}

// SettleDebt posts the settlement transaction matching the party's role.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) SettleDebt(ctx context.Context, partyID string, req dto.SettleDebtRequest, creatorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: settlement amount must be positive", ErrPostingRejected)
	}
	if req.Method.IsCredit() {
		return nil, fmt.Errorf("%w: settlements cannot be paid on credit", ErrPostingRejected)
	}

	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: party %s not found", apperrors.ErrNotFound, partyID)
		}
		logger.Error("Failed to fetch party for settlement", slog.String("error", err.Error()), slog.String("party_id", partyID))
		return nil, fmt.Errorf("failed to fetch party %s: %w", partyID, err)
	}

	kind := domain.KindDebtCollection
	label := fmt.Sprintf("Debt collection: %s", party.Name)
	if party.Role == domain.RoleProvider {
		kind = domain.KindDebtPayment
		label = fmt.Sprintf("Debt payment: %s", party.Name)
	}

	description := req.Note
	if description == "" {
		description = label
	}

	// Overpayment is allowed on purpose; the balance goes negative and
	// stays visible as money owed the other way.
	return s.Post(ctx, dto.PostTransactionRequest{
		Kind:        kind,
		Description: description,
		PartyID:     &party.PartyID,
		Lines: []dto.LineRequest{{
			Label:     label,
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: req.Amount,
		}},
		Payments: []dto.PaymentRequest{{
			Method: req.Method,
			Amount: req.Amount,
		}},
	}, creatorID)
}

// GetTransaction retrieves one transaction with details populated.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transaction by ID", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	items, err := s.ledgerRepo.FindLineItemsByTransactionID(ctx, transactionID)
	if err != nil {
		logger.Error("Failed to fetch line items for transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to retrieve line items for transaction %s: %w", transactionID, apperrors.ErrInternal)
	}
	payments, err := s.ledgerRepo.FindPaymentSplitsByTransactionID(ctx, transactionID)
	if err != nil {
		logger.Error("Failed to fetch payment splits for transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to retrieve payment splits for transaction %s: %w", transactionID, apperrors.ErrInternal)
	}

	txn.LineItems = items
	txn.Payments = payments
	return txn, nil
}

// ListTransactions retrieves a filtered, token-paginated page, newest first.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	filter := portsrepo.ListTransactionsFilter{
		Kind:             params.Kind,
		PartyID:          params.PartyID,
		ExcludeReversals: !params.IncludeReversals,
		From:             params.From,
		To:               params.To,
	}

	transactions, nextToken, err := s.ledgerRepo.ListTransactions(ctx, filter, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	if params.IncludeDetails {
		for i := range transactions {
			items, err := s.ledgerRepo.FindLineItemsByTransactionID(ctx, transactions[i].TransactionID)
			if err != nil {
				logger.Warn("Failed to fetch line items for listed transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactions[i].TransactionID))
				continue
			}
			payments, err := s.ledgerRepo.FindPaymentSplitsByTransactionID(ctx, transactions[i].TransactionID)
			if err != nil {
				logger.Warn("Failed to fetch payment splits for listed transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactions[i].TransactionID))
				continue
			}
			transactions[i].LineItems = items
			transactions[i].Payments = payments
		}
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		NextToken:    nextToken,
	}

	logger.Debug("Transactions listed", slog.Int("count", len(transactions)))
	return resp, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
