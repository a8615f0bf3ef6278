package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
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
	"github.com/segyhp/isp-admin/internal/storage"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

type memoryFileStore struct {
	saved   map[string]string
	deleted []string
	err     error
}

func (m *memoryFileStore) Save(_ context.Context, originalName string, r io.Reader) (*storage.StoredFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, _ := io.ReadAll(r)
	if m.saved == nil {
		m.saved = map[string]string{}
	}
	name := "stored-" + originalName
	m.saved[name] = string(data)
	return &storage.StoredFile{Name: name, URL: storage.PublicPrefix + name, Size: int64(len(data))}, nil
}

func (m *memoryFileStore) Delete(name string) error {
	m.deleted = append(m.deleted, name)
	return nil
}

type installationFixture struct {
	installations *mocks.MockInstallationRepository
	accounts      *mocks.MockAccountRepository
	plans         *mocks.MockPlanRepository
	sectors       *mocks.MockSectorRepository
	files         *memoryFileStore
	service       *InstallationService
}

func newInstallationFixture(today time.Time) *installationFixture {
	f := &installationFixture{
		installations: &mocks.MockInstallationRepository{},
		accounts:      &mocks.MockAccountRepository{},
		plans:         &mocks.MockPlanRepository{},
		sectors:       &mocks.MockSectorRepository{},
		files:         &memoryFileStore{},
	}
	f.service = NewInstallationService(f.installations, f.accounts, f.plans, f.sectors, f.files, &mocks.Transactor{}, logger.NewNop())
	f.service.Now = fixedClock(today)
	return f
}

func TestInstallationCreate_WithPaymentConfig(t *testing.T) {
	f := newInstallationFixture(day(2024, time.June, 1))
	req := &domain.CreateInstallationRequest{
		AccountID: uuid.New(),
		PlanID:    uuid.New(),
		SectorID:  uuid.New(),
		Address:   "Av. Los Pinos 123",
		PaymentConfig: &domain.PaymentConfigRequest{
			InitialPaymentDate: lo.ToPtr(domain.NewDate(2024, time.June, 5)),
			AdvancePayment:     lo.ToPtr(domain.FlexBool(true)),
		},
	}

	f.accounts.On("GetByID", mock.Anything, req.AccountID).Return(&domain.Account{ID: req.AccountID}, nil)
	f.plans.On("GetByID", mock.Anything, req.PlanID).Return(&domain.Plan{ID: req.PlanID}, nil)
	f.sectors.On("GetByID", mock.Anything, req.SectorID).Return(&domain.Sector{ID: req.SectorID}, nil)
	f.installations.On("Create", mock.Anything, mock.AnythingOfType("*domain.Installation")).Return(nil)
	f.installations.On("UpsertPaymentConfig", mock.Anything, mock.AnythingOfType("*domain.PaymentConfig")).Return(nil)

	installation, err := f.service.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.InstallationStatusActive, installation.Status)
	require.NotNil(t, installation.PaymentConfig)
	assert.Equal(t, installation.ID, installation.PaymentConfig.InstallationID)
	assert.Equal(t, day(2024, time.June, 5), *installation.PaymentConfig.PaymentDate)
	assert.True(t, installation.PaymentConfig.AdvancePayment)
	assert.Equal(t, domain.PaymentStatusExpiring, installation.PaymentConfig.PaymentStatus)
}

func TestInstallationCreate_MissingReferences(t *testing.T) {
	f := newInstallationFixture(day(2024, 1, 1))
	req := &domain.CreateInstallationRequest{AccountID: uuid.New(), PlanID: uuid.New(), SectorID: uuid.New()}
	f.accounts.On("GetByID", mock.Anything, req.AccountID).Return(&domain.Account{}, nil)
	f.plans.On("GetByID", mock.Anything, req.PlanID).Return(nil, sql.ErrNoRows)

	_, err := f.service.Create(context.Background(), req)

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, apperrors.PublicMessage(err), "Plan")
	f.installations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInstallationUpdatePaymentConfig_UsesInstallationPolicy(t *testing.T) {
	f := newInstallationFixture(day(2024, time.June, 15))
	id := uuid.New()
	existing := &domain.PaymentConfig{
		ID:             uuid.New(),
		InstallationID: id,
		PaymentDate:    lo.ToPtr(day(2024, time.July, 30)),
		PaymentStatus:  domain.PaymentStatusPaid,
	}
	f.installations.On("GetByID", mock.Anything, id).Return(&domain.Installation{ID: id}, nil)
	f.installations.On("GetPaymentConfig", mock.Anything, id).Return(existing, nil)
	f.installations.On("UpsertPaymentConfig", mock.Anything, existing).Return(nil)

	config, err := f.service.UpdatePaymentConfig(context.Background(), id, &domain.PaymentConfigRequest{
		PaymentDate: lo.ToPtr(domain.NewDate(2024, time.June, 10)),
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, config.ID)
	assert.Equal(t, domain.PaymentStatusExpired, config.PaymentStatus)
}

func TestInstallationUploadReferenceImage_ReplacesPrevious(t *testing.T) {
	f := newInstallationFixture(day(2024, 1, 1))
	installation := &domain.Installation{ID: uuid.New(), ReferenceImage: lo.ToPtr("/content/old.png")}
	f.installations.On("GetByID", mock.Anything, installation.ID).Return(installation, nil)
	f.installations.On("Update", mock.Anything, installation).Return(nil)

	updated, err := f.service.UploadReferenceImage(context.Background(), installation.ID, "front.png", strings.NewReader("img"))

	require.NoError(t, err)
	assert.Equal(t, "/content/stored-front.png", *updated.ReferenceImage)
	assert.Equal(t, []string{"old.png"}, f.files.deleted)
}

func TestInstallationUploadReferenceImage_RejectedFile(t *testing.T) {
	f := newInstallationFixture(day(2024, 1, 1))
	f.files.err = apperrors.WrapUnsupportedFile("text/plain")
	installation := &domain.Installation{ID: uuid.New()}
	f.installations.On("GetByID", mock.Anything, installation.ID).Return(installation, nil)

	_, err := f.service.UploadReferenceImage(context.Background(), installation.ID, "a.txt", strings.NewReader("x"))

	assert.True(t, apperrors.IsValidation(err))
	f.installations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInstallationListByAccount(t *testing.T) {
	f := newInstallationFixture(day(2024, 1, 1))
	accountID := uuid.New()
	f.accounts.On("GetByID", mock.Anything, accountID).Return(&domain.Account{ID: accountID}, nil)
	f.installations.On("List", mock.Anything, mock.MatchedBy(func(filter *domain.InstallationFilter) bool {
		return filter.AccountID != nil && *filter.AccountID == accountID
	})).Return([]*domain.Installation{{ID: uuid.New()}, {ID: uuid.New()}}, 2, nil)

	page, err := f.service.ListByAccount(context.Background(), accountID, domain.ListFilter{})

	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestInstallationDelete_RemovesImage(t *testing.T) {
	f := newInstallationFixture(day(2024, 1, 1))
	installation := &domain.Installation{ID: uuid.New(), ReferenceImage: lo.ToPtr("/content/site.jpg")}
	f.installations.On("GetByID", mock.Anything, installation.ID).Return(installation, nil)
	f.installations.On("Delete", mock.Anything, installation.ID).Return(nil)

	require.NoError(t, f.service.Delete(context.Background(), installation.ID))
	assert.Equal(t, []string{"site.jpg"}, f.files.deleted)
}
