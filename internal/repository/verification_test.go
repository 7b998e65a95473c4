package repository

import (
	"errors"
	"testing"
	"time"

	"supplier-verify/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockRepo(t *testing.T) (VerificationRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewVerificationRepository(sqlxDB, zap.NewNop()), mock
}

func TestVerificationRepository_SaveRecord(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO supplier_verification`).
		WithArgs("Acme Solutions Inc.", 80, "approve").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	record := &models.VerificationRecord{
		SupplierName: "Acme Solutions Inc.",
		TrustScore:   80,
		Decision:     models.DecisionApprove,
	}
	require.NoError(t, repo.SaveRecord(record))

	assert.Equal(t, int64(7), record.ID)
	assert.Equal(t, now, record.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationRepository_SaveRecord_Error(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO supplier_verification`).
		WillReturnError(errors.New("connection refused"))

	err := repo.SaveRecord(&models.VerificationRecord{
		SupplierName: "Acme",
		TrustScore:   50,
		Decision:     models.DecisionFlagForReview,
	})
	require.Error(t, err)
}

func TestVerificationRepository_GetAllRecords(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "supplier_name", "trust_score", "decision", "created_at"}).
		AddRow(int64(2), "Global Suppliers LLC", 56, "flag for review", time.Now()).
		AddRow(int64(1), "Acme Solutions Inc.", 80, "approve", time.Now())
	mock.ExpectQuery(`SELECT id, supplier_name, trust_score, decision, created_at`).
		WillReturnRows(rows)

	records, err := repo.GetAllRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Global Suppliers LLC", records[0].SupplierName)
	assert.Equal(t, models.DecisionFlagForReview, records[0].Decision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationRepository_GetRecordByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, supplier_name, trust_score, decision, created_at`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "supplier_name", "trust_score", "decision", "created_at"}))

	record, err := repo.GetRecordByID(99)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestVerificationRepository_GetRecordsBySupplier(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "supplier_name", "trust_score", "decision", "created_at"}).
		AddRow(int64(3), "Acme Solutions Inc.", 42, "reject", time.Now()).
		AddRow(int64(1), "Acme Solutions Inc.", 80, "approve", time.Now())
	mock.ExpectQuery(`FROM supplier_verification WHERE supplier_name`).
		WithArgs("Acme Solutions Inc.").
		WillReturnRows(rows)

	records, err := repo.GetRecordsBySupplier("Acme Solutions Inc.")
	require.NoError(t, err)
	require.Len(t, records, 2, "repeat interviews accumulate separate rows")
	assert.NoError(t, mock.ExpectationsWereMet())
}
