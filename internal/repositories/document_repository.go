package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"khata-backend/internal/models"
)

type DocumentRepository struct {
	DB *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.DocumentRef) error {
	query := `
		INSERT INTO documents (reference_type, reference_id, file_path, file_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, upload_date
	`

	err := r.DB.QueryRow(ctx, query,
		doc.ReferenceType,
		doc.ReferenceID,
		doc.FilePath,
		doc.FileName,
	).Scan(&doc.ID, &doc.UploadDate)

	if err != nil {
		return fmt.Errorf("failed to create document reference: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Get(ctx context.Context, id int) (*models.DocumentRef, error) {
	doc := &models.DocumentRef{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, reference_type, reference_id, file_path, file_name, upload_date
		FROM documents
		WHERE id = $1
	`, id).Scan(
		&doc.ID,
		&doc.ReferenceType,
		&doc.ReferenceID,
		&doc.FilePath,
		&doc.FileName,
		&doc.UploadDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "document", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListFor returns the documents attached to one ledger record,
// in upload order.
func (r *DocumentRepository) ListFor(ctx context.Context, refType models.ReferenceType, refID int) ([]*models.DocumentRef, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, reference_type, reference_id, file_path, file_name, upload_date
		FROM documents
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY id
	`, refType, refID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.DocumentRef
	for rows.Next() {
		doc := &models.DocumentRef{}
		err := rows.Scan(
			&doc.ID,
			&doc.ReferenceType,
			&doc.ReferenceID,
			&doc.FilePath,
			&doc.FileName,
			&doc.UploadDate,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Delete removes one document reference. An unknown id is a NotFoundError.
func (r *DocumentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete document reference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &models.NotFoundError{Resource: "document", ID: id}
	}
	return nil
}
