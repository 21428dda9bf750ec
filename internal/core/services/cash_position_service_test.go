package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/almacenpos/almacen_backend/internal/core/domain"
	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
	"github.com/almacenpos/almacen_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CashPositionServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	service           portssvc.CashPositionSvcFacade
}

func (suite *CashPositionServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.service = services.NewCashPositionService(suite.mockReportingRepo)
}

func (suite *CashPositionServiceTestSuite) TestProject_BucketsByMethodAndKind() {
	ctx := context.Background()
	payments := []domain.PaymentWithKind{
		{Kind: domain.KindSale, Method: domain.MethodCash, Amount: decimal.NewFromInt(100)},
		{Kind: domain.KindSale, Method: domain.MethodTransfer, Amount: decimal.NewFromInt(40)},
		{Kind: domain.KindExpense, Method: domain.MethodCash, Amount: decimal.NewFromInt(30)},
		{Kind: domain.KindIncome, Method: domain.MethodQR, Amount: decimal.NewFromInt(15)},
		{Kind: domain.KindDebtPayment, Method: domain.MethodTransfer, Amount: decimal.NewFromInt(25)},
	}
	suite.mockReportingRepo.On("ListPaymentsWithKind", ctx, (*time.Time)(nil), (*time.Time)(nil)).
		Return(payments, nil).Once()

	pos, err := suite.service.Project(ctx, nil, nil)

	suite.Require().NoError(err)
	suite.True(pos.CashIn.Equal(decimal.NewFromInt(100)))
	suite.True(pos.CashOut.Equal(decimal.NewFromInt(30)))
	// QR settles into the transfer bucket alongside bank transfers
	suite.True(pos.TransferIn.Equal(decimal.NewFromInt(55)))
	suite.True(pos.TransferOut.Equal(decimal.NewFromInt(25)))
	suite.True(pos.NetCash().Equal(decimal.NewFromInt(70)))
	suite.True(pos.NetTransfer().Equal(decimal.NewFromInt(30)))

	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *CashPositionServiceTestSuite) TestProject_RepositoryError() {
	ctx := context.Background()
	suite.mockReportingRepo.On("ListPaymentsWithKind", ctx, (*time.Time)(nil), (*time.Time)(nil)).
		Return(nil, context.DeadlineExceeded).Once()

	_, err := suite.service.Project(ctx, nil, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, context.DeadlineExceeded)
}

func (suite *CashPositionServiceTestSuite) TestProject_WindowForwarded() {
	ctx := context.Background()
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC)
	suite.mockReportingRepo.On("ListPaymentsWithKind", ctx, &from, &to).
		Return([]domain.PaymentWithKind{}, nil).Once()

	pos, err := suite.service.Project(ctx, &from, &to)

	suite.Require().NoError(err)
	suite.True(pos.CashIn.IsZero())
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *CashPositionServiceTestSuite) TestProjectCashPosition_ReversalNetsToZero() {
	payments := []domain.PaymentWithKind{
		{Kind: domain.KindSale, Method: domain.MethodCash, Amount: decimal.NewFromInt(80)},
		{Kind: domain.KindSale, Method: domain.MethodQR, Amount: decimal.NewFromInt(20)},
		// The counter-entry keeps the original kind and carries negated amounts,
		// so it lands in the same buckets.
		{Kind: domain.KindSale, Method: domain.MethodCash, Amount: decimal.NewFromInt(-80)},
		{Kind: domain.KindSale, Method: domain.MethodQR, Amount: decimal.NewFromInt(-20)},
	}

	pos := services.ProjectCashPosition(payments)

	suite.True(pos.CashIn.IsZero())
	suite.True(pos.TransferIn.IsZero())
	suite.True(pos.NetCash().IsZero())
	suite.True(pos.NetTransfer().IsZero())
}

func (suite *CashPositionServiceTestSuite) TestProjectCashPosition_CreditTrackedSeparately() {
	payments := []domain.PaymentWithKind{
		{Kind: domain.KindSale, Method: domain.MethodCash, Amount: decimal.NewFromInt(10)},
		{Kind: domain.KindSale, Method: domain.MethodCreditCustomer, Amount: decimal.NewFromInt(90)},
		{Kind: domain.KindExpense, Method: domain.MethodCreditProvider, Amount: decimal.NewFromInt(60)},
	}

	pos := services.ProjectCashPosition(payments)

	// Credit never leaks into the cash or transfer buckets
	suite.True(pos.CashIn.Equal(decimal.NewFromInt(10)))
	suite.True(pos.TransferIn.IsZero())
	suite.True(pos.CreditIn.Equal(decimal.NewFromInt(90)))
	suite.True(pos.CreditOut.Equal(decimal.NewFromInt(60)))
	suite.True(pos.NetCash().Equal(decimal.NewFromInt(10)))
}

func (suite *CashPositionServiceTestSuite) TestProjectCashPosition_ReadIdempotent() {
	payments := []domain.PaymentWithKind{
		{Kind: domain.KindSale, Method: domain.MethodCash, Amount: decimal.NewFromInt(42)},
		{Kind: domain.KindDebtCollection, Method: domain.MethodTransfer, Amount: decimal.NewFromInt(13)},
	}

	first := services.ProjectCashPosition(payments)
	second := services.ProjectCashPosition(payments)

	suite.Equal(first, second)
}

func TestCashPositionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CashPositionServiceTestSuite))
}
