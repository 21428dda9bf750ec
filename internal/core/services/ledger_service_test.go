package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/almacenpos/almacen_backend/internal/apperrors"
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	portsrepo "github.com/almacenpos/almacen_backend/internal/core/ports/repositories"
	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
	"github.com/almacenpos/almacen_backend/internal/core/services"
	"github.com/almacenpos/almacen_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) SavePosting(ctx context.Context, txn domain.Transaction, items []domain.LineItem, payments []domain.PaymentSplit, idempotencyKey *string, stockChanges map[string]decimal.Decimal, balanceChange *portsrepo.BalanceChange) error {
	args := m.Called(ctx, txn, items, payments, idempotencyKey, stockChanges, balanceChange)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) FindLineItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.LineItem, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockLedgerRepository) FindPaymentSplitsByTransactionID(ctx context.Context, transactionID string) ([]domain.PaymentSplit, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentSplit), args.Error(1)
}

func (m *MockLedgerRepository) FindReversalOf(ctx context.Context, originalID string) (*domain.Transaction, error) {
	args := m.Called(ctx, originalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

// --- Mock ProductRepository ---
type MockProductRepository struct {
	mock.Mock
}

var _ portsrepo.ProductRepositoryFacade = (*MockProductRepository)(nil)

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, categoryID *string, limit, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, tx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProductRepository) AdjustStockInTx(ctx context.Context, tx pgx.Tx, stockChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, stockChanges, userID, now)
	return args.Error(0)
}

func (m *MockProductRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockProductRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

// --- Mock PartyRepository ---
type MockPartyRepository struct {
	mock.Mock
}

var _ portsrepo.PartyRepositoryFacade = (*MockPartyRepository)(nil)

func (m *MockPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) ListParties(ctx context.Context, role *domain.PartyRole, limit, offset int) ([]domain.Party, error) {
	args := m.Called(ctx, role, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Party), args.Error(1)
}

func (m *MockPartyRepository) FindPartyByIDForUpdate(ctx context.Context, tx pgx.Tx, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, tx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, partyID string, delta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, partyID, delta, userID, now)
	return args.Error(0)
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) ListPaymentsWithKind(ctx context.Context, from, to *time.Time) ([]domain.PaymentWithKind, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentWithKind), args.Error(1)
}

func (m *MockReportingRepository) ListSalesWithPayments(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockProductRepo *MockProductRepository
	mockPartyRepo   *MockPartyRepository
	service         portssvc.LedgerSvcFacade
	client          domain.Party
	provider        domain.Party
	product         domain.Product
	userID          string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockProductRepo, suite.mockPartyRepo)

	suite.userID = uuid.NewString()
	suite.client = domain.Party{
		PartyID:  uuid.NewString(),
		Name:     "Maria Lopez",
		Role:     domain.RoleClient,
		Balance:  decimal.Zero,
		IsActive: true,
	}
	suite.provider = domain.Party{
		PartyID:  uuid.NewString(),
		Name:     "Distribuidora Norte",
		Role:     domain.RoleProvider,
		Balance:  decimal.NewFromInt(200),
		IsActive: true,
	}
	suite.product = domain.Product{
		ProductID: uuid.NewString(),
		Name:      "Rice 1kg",
		Price:     decimal.NewFromInt(10),
		Stock:     decimal.NewFromInt(50),
		IsActive:  true,
	}
}

func (suite *LedgerServiceTestSuite) saleRequest() dto.PostTransactionRequest {
	return dto.PostTransactionRequest{
		Kind: domain.KindSale,
		Lines: []dto.LineRequest{
			{ProductID: &suite.product.ProductID, Label: "Rice 1kg", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
		},
		Payments: []dto.PaymentRequest{
			{Method: domain.MethodCash, Amount: decimal.NewFromInt(20)},
		},
	}
}

// --- Post ---

func (suite *LedgerServiceTestSuite) TestPost_SaleSuccess() {
	ctx := context.Background()
	req := suite.saleRequest()

	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()

	var savedStock map[string]decimal.Decimal
	var savedBalance *portsrepo.BalanceChange
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.LineItem"), mock.AnythingOfType("[]domain.PaymentSplit"), (*string)(nil), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedStock = args.Get(5).(map[string]decimal.Decimal)
			if args.Get(6) != nil {
				savedBalance = args.Get(6).(*portsrepo.BalanceChange)
			}
		}).
		Return(nil).Once()

	txn, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(domain.KindSale, txn.Kind)
	suite.True(txn.TotalAmount.Equal(decimal.NewFromInt(20)))
	suite.Equal(domain.StatusCompleted, txn.Status)
	suite.Equal(suite.userID, txn.CreatedBy)
	suite.Nil(txn.ReversalOf)

	// A sale moves goods out
	suite.Require().Contains(savedStock, suite.product.ProductID)
	suite.True(savedStock[suite.product.ProductID].Equal(decimal.NewFromInt(-2)))
	// Cash sales touch no balance
	suite.Nil(savedBalance)

	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPost_CreditSaleIncrementsBalance() {
	ctx := context.Background()
	req := dto.PostTransactionRequest{
		Kind:    domain.KindSale,
		PartyID: &suite.client.PartyID,
		Lines: []dto.LineRequest{
			{Label: "Groceries", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(30)},
		},
		Payments: []dto.PaymentRequest{
			{Method: domain.MethodCash, Amount: decimal.NewFromInt(10)},
			{Method: domain.MethodCreditCustomer, Amount: decimal.NewFromInt(20)},
		},
	}

	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.client.PartyID).Return(&suite.client, nil).Once()

	var savedBalance *portsrepo.BalanceChange
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.Anything, mock.Anything, mock.Anything, (*string)(nil), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			if args.Get(6) != nil {
				savedBalance = args.Get(6).(*portsrepo.BalanceChange)
			}
		}).
		Return(nil).Once()

	txn, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	// Only the credit split raises the party's pending balance
	suite.Require().NotNil(savedBalance)
	suite.Equal(suite.client.PartyID, savedBalance.PartyID)
	suite.True(savedBalance.Delta.Equal(decimal.NewFromInt(20)))

	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockPartyRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPost_TotalsMismatchRejected() {
	ctx := context.Background()
	req := suite.saleRequest()
	req.Payments = []dto.PaymentRequest{{Method: domain.MethodCash, Amount: decimal.NewFromFloat(19.50)}}

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPostingRejected)
	suite.Contains(err.Error(), "19.5")
	suite.Contains(err.Error(), "20")
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPost_TotalsWithinToleranceAccepted() {
	ctx := context.Background()
	req := suite.saleRequest()
	req.Payments = []dto.PaymentRequest{{Method: domain.MethodCash, Amount: decimal.NewFromFloat(19.99)}}

	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.Anything, mock.Anything, mock.Anything, (*string)(nil), mock.Anything, mock.Anything).Return(nil).Once()

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPost_ZeroUnitPriceRejected() {
	ctx := context.Background()
	req := suite.saleRequest()
	req.Lines[0].UnitPrice = decimal.Zero

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPostingRejected)
}

func (suite *LedgerServiceTestSuite) TestPost_ZeroQuantityRejected() {
	ctx := context.Background()
	req := suite.saleRequest()
	req.Lines[0].Quantity = decimal.Zero

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPostingRejected)
}

func (suite *LedgerServiceTestSuite) TestPost_NoPaymentsRejected() {
	ctx := context.Background()
	req := suite.saleRequest()
	req.Payments = nil

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPostingRejected)
}

func (suite *LedgerServiceTestSuite) TestPost_NoLinesRejected() {
	ctx := context.Background()
	req := suite.saleRequest()
	req.Lines = nil

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPostingRejected)
}

func (suite *LedgerServiceTestSuite) TestPost_UnknownKindRejected() {
	ctx := context.Background()
	req := suite.saleRequest()
	req.Kind = domain.TransactionKind("REFUND")

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPostingRejected)
}

func (suite *LedgerServiceTestSuite) TestPost_CreditWithoutPartyRejected() {
	ctx := context.Background()
	req := suite.saleRequest()
	req.Payments = []dto.PaymentRequest{{Method: domain.MethodCreditCustomer, Amount: decimal.NewFromInt(20)}}

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPostingRejected)
	suite.mockPartyRepo.AssertNotCalled(suite.T(), "FindPartyByID", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPost_CreditMethodRoleMismatchRejected() {
	ctx := context.Background()
	req := suite.saleRequest()
	req.PartyID = &suite.provider.PartyID
	req.Payments = []dto.PaymentRequest{{Method: domain.MethodCreditCustomer, Amount: decimal.NewFromInt(20)}}

	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.provider.PartyID).Return(&suite.provider, nil).Once()

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPostingRejected)
}

func (suite *LedgerServiceTestSuite) TestPost_MissingProductRejected() {
	ctx := context.Background()
	req := suite.saleRequest()

	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{}, nil).Once()

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestPost_DuplicateIdempotencyKey() {
	ctx := context.Background()
	key := uuid.NewString()
	req := suite.saleRequest()
	req.IdempotencyKey = &key

	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.Anything, mock.Anything, mock.Anything, &key, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *LedgerServiceTestSuite) TestPost_ExpenseIncrementsStock() {
	ctx := context.Background()
	req := dto.PostTransactionRequest{
		Kind: domain.KindExpense,
		Lines: []dto.LineRequest{
			{ProductID: &suite.product.ProductID, Label: "Rice 1kg restock", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(8)},
		},
		Payments: []dto.PaymentRequest{
			{Method: domain.MethodTransfer, Amount: decimal.NewFromInt(80)},
		},
	}

	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()

	var savedStock map[string]decimal.Decimal
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.Anything, mock.Anything, mock.Anything, (*string)(nil), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedStock = args.Get(5).(map[string]decimal.Decimal)
		}).
		Return(nil).Once()

	_, err := suite.service.Post(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(savedStock[suite.product.ProductID].Equal(decimal.NewFromInt(10)))
}

// --- Reverse ---

func (suite *LedgerServiceTestSuite) originalSale() (domain.Transaction, []domain.LineItem, []domain.PaymentSplit) {
	originalID := uuid.NewString()
	txn := domain.Transaction{
		TransactionID: originalID,
		Kind:          domain.KindSale,
		TotalAmount:   decimal.NewFromInt(30),
		Status:        domain.StatusCompleted,
		PartyID:       &suite.client.PartyID,
		Description:   "Groceries",
	}
	items := []domain.LineItem{
		{
			LineItemID:    uuid.NewString(),
			TransactionID: originalID,
			ProductID:     &suite.product.ProductID,
			Label:         "Rice 1kg",
			Quantity:      decimal.NewFromInt(3),
			UnitPrice:     decimal.NewFromInt(10),
			TotalPrice:    decimal.NewFromInt(30),
			Position:      0,
		},
	}
	payments := []domain.PaymentSplit{
		{PaymentID: uuid.NewString(), TransactionID: originalID, Method: domain.MethodCash, Amount: decimal.NewFromInt(10), Position: 0},
		{PaymentID: uuid.NewString(), TransactionID: originalID, Method: domain.MethodCreditCustomer, Amount: decimal.NewFromInt(20), Position: 1},
	}
	return txn, items, payments
}

func (suite *LedgerServiceTestSuite) TestReverse_Success() {
	ctx := context.Background()
	original, items, payments := suite.originalSale()

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(&original, nil).Once()
	suite.mockLedgerRepo.On("FindReversalOf", ctx, original.TransactionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("FindLineItemsByTransactionID", ctx, original.TransactionID).Return(items, nil).Once()
	suite.mockLedgerRepo.On("FindPaymentSplitsByTransactionID", ctx, original.TransactionID).Return(payments, nil).Once()

	var savedTxn domain.Transaction
	var savedItems []domain.LineItem
	var savedPayments []domain.PaymentSplit
	var savedStock map[string]decimal.Decimal
	var savedBalance *portsrepo.BalanceChange
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.Anything, mock.Anything, mock.Anything, (*string)(nil), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(1).(domain.Transaction)
			savedItems = args.Get(2).([]domain.LineItem)
			savedPayments = args.Get(3).([]domain.PaymentSplit)
			savedStock = args.Get(5).(map[string]decimal.Decimal)
			if args.Get(6) != nil {
				savedBalance = args.Get(6).(*portsrepo.BalanceChange)
			}
		}).
		Return(nil).Once()

	reversal, err := suite.service.Reverse(ctx, original.TransactionID, "customer returned goods", suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.KindSale, savedTxn.Kind)
	suite.True(savedTxn.TotalAmount.Equal(decimal.NewFromInt(-30)))
	suite.Require().NotNil(savedTxn.ReversalOf)
	suite.Equal(original.TransactionID, *savedTxn.ReversalOf)
	suite.Equal("REVERSAL: customer returned goods", savedTxn.Description)

	suite.Require().Len(savedItems, 1)
	suite.Equal("(Reversed) Rice 1kg", savedItems[0].Label)
	suite.True(savedItems[0].Quantity.Equal(decimal.NewFromInt(-3)))
	suite.True(savedItems[0].TotalPrice.Equal(decimal.NewFromInt(-30)))

	suite.Require().Len(savedPayments, 2)
	suite.True(savedPayments[0].Amount.Equal(decimal.NewFromInt(-10)))
	suite.True(savedPayments[1].Amount.Equal(decimal.NewFromInt(-20)))

	// Reversing a sale puts the goods back
	suite.True(savedStock[suite.product.ProductID].Equal(decimal.NewFromInt(3)))
	// Only the credit increment is undone
	suite.Require().NotNil(savedBalance)
	suite.True(savedBalance.Delta.Equal(decimal.NewFromInt(-20)))

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReverse_AlreadyReversedRejected() {
	ctx := context.Background()
	original, _, _ := suite.originalSale()
	existing := domain.Transaction{TransactionID: uuid.NewString(), ReversalOf: &original.TransactionID}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(&original, nil).Once()
	suite.mockLedgerRepo.On("FindReversalOf", ctx, original.TransactionID).Return(&existing, nil).Once()

	_, err := suite.service.Reverse(ctx, original.TransactionID, "again", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReversalRejected)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReverse_OfReversalRejected() {
	ctx := context.Background()
	originalID := uuid.NewString()
	counterEntry := domain.Transaction{
		TransactionID: uuid.NewString(),
		Kind:          domain.KindSale,
		TotalAmount:   decimal.NewFromInt(-30),
		ReversalOf:    &originalID,
	}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, counterEntry.TransactionID).Return(&counterEntry, nil).Once()

	_, err := suite.service.Reverse(ctx, counterEntry.TransactionID, "undo the undo", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReversalRejected)
}

func (suite *LedgerServiceTestSuite) TestReverse_EmptyReasonRejected() {
	ctx := context.Background()

	_, err := suite.service.Reverse(ctx, uuid.NewString(), "   ", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReversalRejected)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "FindTransactionByID", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReverse_NotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, missingID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Reverse(ctx, missingID, "typo", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- SettleDebt ---

func (suite *LedgerServiceTestSuite) TestSettleDebt_ClientCollection() {
	ctx := context.Background()
	req := dto.SettleDebtRequest{Amount: decimal.NewFromInt(50), Method: domain.MethodCash}

	// Fetched once to derive kind/label, once more inside Post
	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.client.PartyID).Return(&suite.client, nil).Twice()

	var savedTxn domain.Transaction
	var savedBalance *portsrepo.BalanceChange
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.Anything, mock.Anything, mock.Anything, (*string)(nil), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(1).(domain.Transaction)
			if args.Get(6) != nil {
				savedBalance = args.Get(6).(*portsrepo.BalanceChange)
			}
		}).
		Return(nil).Once()

	txn, err := suite.service.SettleDebt(ctx, suite.client.PartyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(domain.KindDebtCollection, savedTxn.Kind)
	suite.Equal("Debt collection: Maria Lopez", savedTxn.Description)
	suite.Require().NotNil(savedBalance)
	suite.True(savedBalance.Delta.Equal(decimal.NewFromInt(-50)))

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestSettleDebt_ProviderOverpaymentAllowed() {
	ctx := context.Background()
	// Provider is owed 200; paying 250 is recorded as-is
	req := dto.SettleDebtRequest{Amount: decimal.NewFromInt(250), Method: domain.MethodTransfer}

	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.provider.PartyID).Return(&suite.provider, nil).Twice()

	var savedTxn domain.Transaction
	var savedBalance *portsrepo.BalanceChange
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.Anything, mock.Anything, mock.Anything, (*string)(nil), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(1).(domain.Transaction)
			if args.Get(6) != nil {
				savedBalance = args.Get(6).(*portsrepo.BalanceChange)
			}
		}).
		Return(nil).Once()

	_, err := suite.service.SettleDebt(ctx, suite.provider.PartyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.KindDebtPayment, savedTxn.Kind)
	suite.Require().NotNil(savedBalance)
	suite.True(savedBalance.Delta.Equal(decimal.NewFromInt(-250)))
}

func (suite *LedgerServiceTestSuite) TestSettleDebt_NonPositiveAmountRejected() {
	ctx := context.Background()
	req := dto.SettleDebtRequest{Amount: decimal.Zero, Method: domain.MethodCash}

	_, err := suite.service.SettleDebt(ctx, suite.client.PartyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPostingRejected)
}

func (suite *LedgerServiceTestSuite) TestSettleDebt_CreditMethodRejected() {
	ctx := context.Background()
	req := dto.SettleDebtRequest{Amount: decimal.NewFromInt(10), Method: domain.MethodCreditCustomer}

	_, err := suite.service.SettleDebt(ctx, suite.client.PartyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPostingRejected)
}

// --- Queries ---

func (suite *LedgerServiceTestSuite) TestGetTransaction_PopulatesDetails() {
	ctx := context.Background()
	original, items, payments := suite.originalSale()

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(&original, nil).Once()
	suite.mockLedgerRepo.On("FindLineItemsByTransactionID", ctx, original.TransactionID).Return(items, nil).Once()
	suite.mockLedgerRepo.On("FindPaymentSplitsByTransactionID", ctx, original.TransactionID).Return(payments, nil).Once()

	txn, err := suite.service.GetTransaction(ctx, original.TransactionID)

	suite.Require().NoError(err)
	suite.Len(txn.LineItems, 1)
	suite.Len(txn.Payments, 2)
}

func (suite *LedgerServiceTestSuite) TestListTransactions_DefaultsLimit() {
	ctx := context.Background()
	original, _, _ := suite.originalSale()

	expectedFilter := portsrepo.ListTransactionsFilter{ExcludeReversals: false}
	suite.mockLedgerRepo.On("ListTransactions", ctx, expectedFilter, 20, (*string)(nil)).
		Return([]domain.Transaction{original}, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, dto.ListTransactionsParams{IncludeReversals: true})

	suite.Require().NoError(err)
	suite.Len(resp.Transactions, 1)
	suite.Nil(resp.NextToken)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
