package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/repository/mocks"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

type accountFixture struct {
	accounts *mocks.MockAccountRepository
	payments *mocks.MockPaymentRepository
	plans    *mocks.MockPlanRepository
	sectors  *mocks.MockSectorRepository
	service  *AccountService
}

func newAccountFixture(today time.Time) *accountFixture {
	f := &accountFixture{
		accounts: &mocks.MockAccountRepository{},
		payments: &mocks.MockPaymentRepository{},
		plans:    &mocks.MockPlanRepository{},
		sectors:  &mocks.MockSectorRepository{},
	}
	f.service = NewAccountService(f.accounts, f.payments, f.plans, f.sectors, &mocks.Transactor{}, logger.NewNop())
	f.service.Now = fixedClock(today)
	return f
}

func TestAccountCreate_DerivesInitialStatus(t *testing.T) {
	tests := []struct {
		name           string
		initial        *domain.Date
		expected       domain.PaymentStatus
		expectedStatus domain.AccountStatus
	}{
		{name: "no initial date", initial: nil, expected: domain.PaymentStatusExpiring, expectedStatus: domain.AccountStatusActive},
		{name: "due next month", initial: lo.ToPtr(domain.NewDate(2024, time.February, 20)), expected: domain.PaymentStatusPaid, expectedStatus: domain.AccountStatusActive},
		{name: "due this week", initial: lo.ToPtr(domain.NewDate(2024, time.January, 25)), expected: domain.PaymentStatusExpiring, expectedStatus: domain.AccountStatusActive},
		{name: "overdue past suspension", initial: lo.ToPtr(domain.NewDate(2023, time.December, 1)), expected: domain.PaymentStatusSuspended, expectedStatus: domain.AccountStatusSuspended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAccountFixture(day(2024, time.January, 20))
			planID := uuid.New()
			req := &domain.CreateAccountRequest{
				FirstName:          "Ana",
				LastName:           "Quispe",
				DocumentID:         "70000001",
				PlanID:             &planID,
				InitialPaymentDate: tt.initial,
				AdvancePayment:     true,
			}

			f.accounts.On("GetByDocumentID", mock.Anything, "70000001").Return(nil, sql.ErrNoRows)
			f.plans.On("GetByID", mock.Anything, planID).Return(&domain.Plan{ID: planID}, nil)
			f.accounts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)

			account, err := f.service.Create(context.Background(), req)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, account.PaymentStatus)
			assert.Equal(t, tt.expectedStatus, account.Status)
			assert.True(t, account.AdvancePayment)
			assert.Equal(t, account.InitialPaymentDate, account.PaymentDate)
		})
	}
}

func TestAccountCreate_DuplicateDocument(t *testing.T) {
	f := newAccountFixture(day(2024, 1, 1))
	f.accounts.On("GetByDocumentID", mock.Anything, "70000001").Return(&domain.Account{ID: uuid.New()}, nil)

	_, err := f.service.Create(context.Background(), &domain.CreateAccountRequest{DocumentID: "70000001"})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicateDocument))
	assert.Equal(t, 409, apperrors.HTTPStatus(err))
	f.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountCreate_UnknownSector(t *testing.T) {
	f := newAccountFixture(day(2024, 1, 1))
	sectorID := uuid.New()
	f.accounts.On("GetByDocumentID", mock.Anything, "70000001").Return(nil, sql.ErrNoRows)
	f.sectors.On("GetByID", mock.Anything, sectorID).Return(nil, sql.ErrNoRows)

	_, err := f.service.Create(context.Background(), &domain.CreateAccountRequest{DocumentID: "70000001", SectorID: &sectorID})

	assert.True(t, apperrors.IsNotFound(err))
}

func TestAccountGet_ReturnsDerivedStatus(t *testing.T) {
	f := newAccountFixture(day(2024, time.March, 10))
	account := &domain.Account{
		ID:            uuid.New(),
		Status:        domain.AccountStatusActive,
		PaymentStatus: domain.PaymentStatusPaid,
		PaymentDate:   lo.ToPtr(day(2024, time.March, 5)),
	}
	f.accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	f.payments.On("GetLatestValid", mock.Anything, account.ID).Return(nil, nil)

	resp, err := f.service.Get(context.Background(), account.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, resp.PaymentStatus)
	assert.Equal(t, domain.PaymentStatusExpired, resp.DerivedPaymentStatus)
	require.NotNil(t, resp.DaysUntilDue)
	assert.Equal(t, -5, *resp.DaysUntilDue)
}

func TestAccountGet_NotFound(t *testing.T) {
	f := newAccountFixture(day(2024, 1, 1))
	id := uuid.New()
	f.accounts.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	_, err := f.service.Get(context.Background(), id)

	assert.True(t, apperrors.Is(err, apperrors.ErrAccountNotFound))
}

func TestAccountUpdate_RecomputesOnDateChange(t *testing.T) {
	f := newAccountFixture(day(2024, time.March, 10))
	account := &domain.Account{
		ID:            uuid.New(),
		DocumentID:    "70000001",
		Status:        domain.AccountStatusActive,
		PaymentStatus: domain.PaymentStatusPaid,
		PaymentDate:   lo.ToPtr(day(2024, time.April, 10)),
	}
	overdue := domain.NewDate(2024, time.January, 1)

	f.accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	f.payments.On("GetLatestValid", mock.Anything, account.ID).Return(nil, nil)
	f.accounts.On("Update", mock.Anything, account).Return(nil)

	updated, err := f.service.Update(context.Background(), account.ID, &domain.UpdateAccountRequest{
		PaymentDate: &overdue,
		FirstName:   lo.ToPtr("Rosa"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Rosa", updated.FirstName)
	assert.Equal(t, domain.PaymentStatusSuspended, updated.PaymentStatus)
	assert.Equal(t, domain.AccountStatusSuspended, updated.Status)
}

func TestAccountUpdate_DocumentTakenByAnother(t *testing.T) {
	f := newAccountFixture(day(2024, 1, 1))
	account := &domain.Account{ID: uuid.New(), DocumentID: "70000001"}
	f.accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	f.accounts.On("GetByDocumentID", mock.Anything, "70000002").Return(&domain.Account{ID: uuid.New()}, nil)

	_, err := f.service.Update(context.Background(), account.ID, &domain.UpdateAccountRequest{DocumentID: lo.ToPtr("70000002")})

	assert.True(t, apperrors.IsConflict(err))
	f.accounts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAccountUpdateStatus_ManualReconnect(t *testing.T) {
	f := newAccountFixture(day(2024, 1, 1))
	account := &domain.Account{ID: uuid.New(), Status: domain.AccountStatusSuspended}
	f.accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	f.accounts.On("Update", mock.Anything, account).Return(nil)

	updated, err := f.service.UpdateStatus(context.Background(), account.ID,
		&domain.UpdateAccountStatusRequest{Status: domain.AccountStatusActive})

	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusActive, updated.Status)
}

func TestAccountDelete(t *testing.T) {
	f := newAccountFixture(day(2024, 1, 1))
	gone := uuid.New()
	present := uuid.New()
	f.accounts.On("Delete", mock.Anything, gone).Return(sql.ErrNoRows)
	f.accounts.On("Delete", mock.Anything, present).Return(nil)

	assert.True(t, apperrors.IsNotFound(f.service.Delete(context.Background(), gone)))
	assert.NoError(t, f.service.Delete(context.Background(), present))
}

func TestAccountList_NormalizesPage(t *testing.T) {
	f := newAccountFixture(day(2024, 1, 1))
	filter := &domain.AccountFilter{ListFilter: domain.ListFilter{Limit: 10000}}
	f.accounts.On("List", mock.Anything, filter).Return([]*domain.Account{}, 0, nil)

	page, err := f.service.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, domain.MaxPageSize, page.Limit)
}
