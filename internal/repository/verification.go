package repository

import (
	"database/sql"

	"supplier-verify/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type VerificationRepository interface {
	SaveRecord(record *models.VerificationRecord) error
	GetAllRecords() ([]*models.VerificationRecord, error)
	GetRecordByID(id int64) (*models.VerificationRecord, error)
	GetRecordsBySupplier(supplierName string) ([]*models.VerificationRecord, error)
}

type verificationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewVerificationRepository(db *sqlx.DB, logger *zap.Logger) VerificationRepository {
	return &verificationRepository{db: db, logger: logger}
}

func (r *verificationRepository) SaveRecord(record *models.VerificationRecord) error {
	query := `INSERT INTO supplier_verification (supplier_name, trust_score, decision)
	          VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.db.QueryRowx(query, record.SupplierName, record.TrustScore, record.Decision).
		Scan(&record.ID, &record.CreatedAt)
}

func (r *verificationRepository) GetAllRecords() ([]*models.VerificationRecord, error) {
	var records []*models.VerificationRecord
	query := `SELECT id, supplier_name, trust_score, decision, created_at
	          FROM supplier_verification ORDER BY id DESC`
	err := r.db.Select(&records, query)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *verificationRepository) GetRecordByID(id int64) (*models.VerificationRecord, error) {
	var record models.VerificationRecord
	query := `SELECT id, supplier_name, trust_score, decision, created_at
	          FROM supplier_verification WHERE id = $1`
	err := r.db.Get(&record, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Record not found
		}
		return nil, err
	}
	return &record, nil
}

func (r *verificationRepository) GetRecordsBySupplier(supplierName string) ([]*models.VerificationRecord, error) {
	var records []*models.VerificationRecord
	query := `SELECT id, supplier_name, trust_score, decision, created_at
	          FROM supplier_verification WHERE supplier_name = $1 ORDER BY id DESC`
	err := r.db.Select(&records, query, supplierName)
	if err != nil {
		return nil, err
	}
	return records, nil
}
