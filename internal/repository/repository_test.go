package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/repository"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

// These tests run against a disposable database named by TEST_DATABASE_URL
// and are skipped without one.
var testDB *sqlx.DB

func TestMain(m *testing.M) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		os.Exit(m.Run())
	}

	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}
	schema, err := os.ReadFile("../../migrations/0001_init.up.sql")
	if err != nil {
		panic(fmt.Sprintf("Failed to read migration: %v", err))
	}
	if _, err := db.Exec(string(schema)); err != nil {
		panic(fmt.Sprintf("Failed to apply migration: %v", err))
	}
	testDB = db

	code := m.Run()
	db.Close()
	os.Exit(code)
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	_, err := testDB.Exec(`TRUNCATE payment_histories, payments, devices, installation_payment_configs,
		installations, accounts, plans, sectors, employees, role_permissions, permissions, company`)
	require.NoError(t, err)
	return testDB
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newAccount(document string) *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Account{
		ID:            uuid.New(),
		FirstName:     "Ana",
		LastName:      "Quispe",
		DocumentID:    document,
		PaymentDate:   date(2024, time.March, 15),
		Status:        domain.AccountStatusActive,
		PaymentStatus: domain.PaymentStatusPaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newPayment(accountID uuid.UUID, code string, due *time.Time) *domain.Payment {
	now := time.Now().UTC()
	return &domain.Payment{
		ID:         uuid.New(),
		AccountID:  accountID,
		Code:       code,
		Amount:     decimal.NewFromInt(50),
		BaseAmount: decimal.NewFromInt(50),
		DueDate:    due,
		State:      domain.PaymentStatePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestAccountRepository_CreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	account := newAccount("70000001")
	require.NoError(t, repo.Create(ctx, account))

	byID, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "70000001", byID.DocumentID)
	assert.Equal(t, domain.PaymentStatusPaid, byID.PaymentStatus)
	assert.True(t, byID.PaymentDate.Equal(*date(2024, time.March, 15)))

	byDoc, err := repo.GetByDocumentID(ctx, "70000001")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byDoc.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAccountRepository_DuplicateDocumentIsConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAccount("70000001")))
	err := repo.Create(ctx, newAccount("70000001"))

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAccountRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	suspended := newAccount("70000002")
	suspended.FirstName = "Luis"
	suspended.Status = domain.AccountStatusSuspended
	suspended.PaymentStatus = domain.PaymentStatusSuspended
	require.NoError(t, repo.Create(ctx, newAccount("70000001")))
	require.NoError(t, repo.Create(ctx, suspended))

	status := domain.AccountStatusSuspended
	accounts, total, err := repo.List(ctx, &domain.AccountFilter{
		ListFilter: domain.ListFilter{Limit: 10},
		Status:     &status,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, accounts, 1)
	assert.Equal(t, suspended.ID, accounts[0].ID)

	_, total, err = repo.List(ctx, &domain.AccountFilter{ListFilter: domain.ListFilter{Limit: 10}, Search: "luis"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	ids, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestAccountRepository_UpdateMissingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewAccountRepository(db)

	err := repo.Update(context.Background(), newAccount("70000009"))

	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPaymentRepository_LatestValidSkipsVoided(t *testing.T) {
	db := setupTestDB(t)
	accounts := repository.NewAccountRepository(db)
	payments := repository.NewPaymentRepository(db)
	ctx := context.Background()

	account := newAccount("70000001")
	require.NoError(t, accounts.Create(ctx, account))

	latest, err := payments.GetLatestValid(ctx, account.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	march := newPayment(account.ID, "PGAQ-0001", date(2024, time.March, 15))
	april := newPayment(account.ID, "PGAQ-0002", date(2024, time.April, 15))
	require.NoError(t, payments.Create(ctx, march))
	require.NoError(t, payments.Create(ctx, april))

	latest, err = payments.GetLatestValid(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, april.ID, latest.ID)

	april.IsVoided = true
	april.State = domain.PaymentStateVoided
	require.NoError(t, payments.Update(ctx, april))

	latest, err = payments.GetLatestValid(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, march.ID, latest.ID)

	count, err := payments.CountByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, total, err := payments.List(ctx, &domain.PaymentFilter{ListFilter: domain.ListFilter{Limit: 10}, AccountID: &account.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	err = payments.Create(ctx, newPayment(account.ID, "PGAQ-0001", nil))
	assert.True(t, apperrors.IsConflict(err))
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	accounts := repository.NewAccountRepository(db)
	tx := repository.NewTransactor(db)
	ctx := context.Background()

	account := newAccount("70000001")
	err := tx.WithTx(ctx, func(ctx context.Context) error {
		if err := accounts.Create(ctx, account); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = accounts.GetByID(ctx, account.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, tx.WithTx(ctx, func(ctx context.Context) error {
		return accounts.Create(ctx, account)
	}))
	_, err = accounts.GetByID(ctx, account.ID)
	assert.NoError(t, err)
}

func TestPaymentRepository_HistoryHoldsPrefixedReference(t *testing.T) {
	db := setupTestDB(t)
	accounts := repository.NewAccountRepository(db)
	payments := repository.NewPaymentRepository(db)
	ctx := context.Background()

	account := newAccount("70000001")
	require.NoError(t, accounts.Create(ctx, account))
	payment := newPayment(account.ID, "PGAQ-0001", date(2024, time.March, 15))
	require.NoError(t, payments.Create(ctx, payment))

	reference := domain.VoidedReferencePrefix + strings.Repeat("r", domain.ReferenceMaxLength)
	require.NoError(t, payments.CreateHistory(ctx, &domain.PaymentHistory{
		ID:        uuid.New(),
		PaymentID: payment.ID,
		AccountID: account.ID,
		Action:    domain.PaymentHistoryVoided,
		Amount:    payment.Amount,
		State:     domain.PaymentStateVoided,
		Reference: &reference,
		CreatedAt: time.Now().UTC(),
	}))

	history, err := payments.ListHistory(ctx, payment.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, reference, *history[0].Reference)
}
