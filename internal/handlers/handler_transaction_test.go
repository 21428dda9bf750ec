package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/almacenpos/almacen_backend/internal/apperrors"
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
	"github.com/almacenpos/almacen_backend/internal/core/services"
	"github.com/almacenpos/almacen_backend/internal/dto"
	"github.com/almacenpos/almacen_backend/internal/handlers"
	"github.com/almacenpos/almacen_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Post(ctx context.Context, req dto.PostTransactionRequest, creatorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) Reverse(ctx context.Context, originalID string, reason string, creatorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, originalID, reason, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) SettleDebt(ctx context.Context, partyID string, req dto.SettleDebtRequest, creatorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, partyID, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockLedgerService *MockLedgerService
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockLedgerService = new(MockLedgerService)

	v1 := suite.router.Group("/api/v1", middleware.CallerIdentityMiddleware())
	handlers.RegisterTransactionRoutes(v1, suite.mockLedgerService)
}

func (suite *TransactionHandlerTestSuite) postJSON(url string, body any, callerID string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if callerID != "" {
		req.Header.Set(middleware.CallerIDHeader, callerID)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func validPostRequest() dto.PostTransactionRequest {
	return dto.PostTransactionRequest{
		Kind: domain.KindSale,
		Lines: []dto.LineRequest{
			{Label: "Bread", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5)},
		},
		Payments: []dto.PaymentRequest{
			{Method: domain.MethodCash, Amount: decimal.NewFromInt(10)},
		},
	}
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestPostTransaction_Success() {
	callerID := uuid.NewString()
	expected := &domain.Transaction{
		TransactionID: uuid.NewString(),
		Kind:          domain.KindSale,
		TotalAmount:   decimal.NewFromInt(10),
		Status:        domain.StatusCompleted,
	}

	suite.mockLedgerService.On("Post", mock.Anything, mock.AnythingOfType("dto.PostTransactionRequest"), callerID).
		Return(expected, nil).Once()

	w := suite.postJSON("/api/v1/transactions", validPostRequest(), callerID)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.TransactionID, resp.TransactionID)
	suite.Equal(domain.KindSale, resp.Kind)

	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_AnonymousCaller() {
	expected := &domain.Transaction{TransactionID: uuid.NewString(), Kind: domain.KindSale}

	suite.mockLedgerService.On("Post", mock.Anything, mock.AnythingOfType("dto.PostTransactionRequest"), "anonymous").
		Return(expected, nil).Once()

	w := suite.postJSON("/api/v1/transactions", validPostRequest(), "")

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_ValidationRejected() {
	suite.mockLedgerService.On("Post", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: payments total does not match", services.ErrPostingRejected)).Once()

	w := suite.postJSON("/api/v1/transactions", validPostRequest(), uuid.NewString())

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_MissingProduct() {
	suite.mockLedgerService.On("Post", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: product missing", apperrors.ErrNotFound)).Once()

	w := suite.postJSON("/api/v1/transactions", validPostRequest(), uuid.NewString())

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_DuplicateConflict() {
	suite.mockLedgerService.On("Post", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("posting already recorded: %w", apperrors.ErrDuplicate)).Once()

	w := suite.postJSON("/api/v1/transactions", validPostRequest(), uuid.NewString())

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_InternalError() {
	suite.mockLedgerService.On("Post", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: db down", services.ErrPostingFailed)).Once()

	w := suite.postJSON("/api/v1/transactions", validPostRequest(), uuid.NewString())

	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_MalformedBody() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Post", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestReverseTransaction_Success() {
	callerID := uuid.NewString()
	originalID := uuid.NewString()
	expected := &domain.Transaction{
		TransactionID: uuid.NewString(),
		Kind:          domain.KindSale,
		TotalAmount:   decimal.NewFromInt(-10),
		ReversalOf:    &originalID,
	}

	suite.mockLedgerService.On("Reverse", mock.Anything, originalID, "wrong item", callerID).
		Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/transactions/%s/reverse", originalID)
	w := suite.postJSON(url, dto.ReverseTransactionRequest{Reason: "wrong item"}, callerID)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.ReversalOf)
	suite.Equal(originalID, *resp.ReversalOf)

	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestReverseTransaction_AlreadyReversedConflict() {
	originalID := uuid.NewString()

	suite.mockLedgerService.On("Reverse", mock.Anything, originalID, "again", mock.Anything).
		Return(nil, fmt.Errorf("%w: already reversed", services.ErrReversalRejected)).Once()

	url := fmt.Sprintf("/api/v1/transactions/%s/reverse", originalID)
	w := suite.postJSON(url, dto.ReverseTransactionRequest{Reason: "again"}, uuid.NewString())

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestReverseTransaction_NotFound() {
	originalID := uuid.NewString()

	suite.mockLedgerService.On("Reverse", mock.Anything, originalID, "typo", mock.Anything).
		Return(nil, fmt.Errorf("%w: no such transaction", apperrors.ErrNotFound)).Once()

	url := fmt.Sprintf("/api/v1/transactions/%s/reverse", originalID)
	w := suite.postJSON(url, dto.ReverseTransactionRequest{Reason: "typo"}, uuid.NewString())

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestReverseTransaction_MissingReason() {
	url := fmt.Sprintf("/api/v1/transactions/%s/reverse", uuid.NewString())
	w := suite.postJSON(url, gin.H{}, uuid.NewString())

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Reverse", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_Success() {
	expected := &domain.Transaction{
		TransactionID: uuid.NewString(),
		Kind:          domain.KindExpense,
		TotalAmount:   decimal.NewFromInt(80),
	}

	suite.mockLedgerService.On("GetTransaction", mock.Anything, expected.TransactionID).
		Return(expected, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions/"+expected.TransactionID, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.TransactionID, resp.TransactionID)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	missingID := uuid.NewString()

	suite.mockLedgerService.On("GetTransaction", mock.Anything, missingID).
		Return(nil, fmt.Errorf("not found: %w", apperrors.ErrNotFound)).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions/"+missingID, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_Success() {
	expected := &dto.ListTransactionsResponse{
		Transactions: []dto.TransactionResponse{
			{TransactionID: uuid.NewString(), Kind: domain.KindSale, TotalAmount: decimal.NewFromInt(10)},
		},
	}

	suite.mockLedgerService.On("ListTransactions", mock.Anything, mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
		return p.Limit == 5 && p.Kind != nil && *p.Kind == domain.KindSale
	})).Return(expected, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions?limit=5&kind=SALE", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)

	suite.mockLedgerService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
