package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"umroh-system/internal/entities"
	"umroh-system/pkg/database/postgresql"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
)

const documentColumns = `d.id, d.jamaah_id, d.document_type, d.file_name, d.file_path,
	d.file_size, d.mime_type, d.is_verified, d.verified_by, d.verification_date,
	d.uploaded_by, d.upload_date`

type DocumentRepositoryInterface interface {
	Create(ctx context.Context, doc *entities.Document) (*entities.Document, error)
	FindAll(ctx context.Context, filter types.Filter) ([]entities.Document, uint64, error)
	FindByID(ctx context.Context, id int) (*entities.Document, error)
	FindByJamaah(ctx context.Context, jamaahID int) ([]entities.Document, error)
	Verify(ctx context.Context, id int, verifiedBy int) error
	Delete(ctx context.Context, id int) error
	Statistics(ctx context.Context) (*entities.DocumentStatistics, error)
}

type DocumentRepository struct {
	ds     *postgresql.DataSource
	logger *zap.Logger
}

func NewDocumentRepository(ds *postgresql.DataSource, logger *zap.Logger) DocumentRepositoryInterface {
	return &DocumentRepository{ds: ds, logger: logger}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *entities.Document) (*entities.Document, error) {
	err := r.ds.Query(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			INSERT INTO documents (jamaah_id, document_type, file_name, file_path,
			                       file_size, mime_type, uploaded_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, is_verified, upload_date`,
			doc.JamaahID, doc.DocumentType, doc.FileName, doc.FilePath,
			doc.FileSize, doc.MimeType, doc.UploadedBy).
			Scan(&doc.ID, &doc.IsVerified, &doc.UploadDate)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound("jamaah")
		}
		return nil, apperrors.Internal(err)
	}
	return doc, nil
}

func (r *DocumentRepository) FindAll(ctx context.Context, filter types.Filter) ([]entities.Document, uint64, error) {
	base := psql.Select().
		From("documents d").
		Join("jamaah j ON j.id = d.jamaah_id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"j.name": pattern},
			sq.ILike{"d.file_name": pattern},
		})
	}
	if v, ok := filter.Filter["jamaah_id"]; ok {
		base = base.Where(sq.Eq{"d.jamaah_id": v})
	}
	if v, ok := filter.Filter["document_type"]; ok {
		base = base.Where(sq.Eq{"d.document_type": v})
	}
	if v, ok := filter.Filter["is_verified"]; ok {
		base = base.Where(sq.Eq{"d.is_verified": v == "true"})
	}

	query, args, err := base.
		Columns(documentColumns, "j.name AS jamaah_name").
		OrderBy("d.upload_date DESC", "d.id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	var docs []entities.Document
	var total uint64
	err = r.ds.ReadQuery(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var d entities.Document
			if err := rows.Scan(&d.ID, &d.JamaahID, &d.DocumentType, &d.FileName, &d.FilePath,
				&d.FileSize, &d.MimeType, &d.IsVerified, &d.VerifiedBy, &d.VerificationDate,
				&d.UploadedBy, &d.UploadDate, &d.JamaahName); err != nil {
				return err
			}
			docs = append(docs, d)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return q.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return docs, total, nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id int) (*entities.Document, error) {
	var doc entities.Document
	err := r.ds.ReadQuery(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			SELECT `+documentColumns+`, j.name
			FROM documents d
			JOIN jamaah j ON j.id = d.jamaah_id
			WHERE d.id = $1`, id).
			Scan(&doc.ID, &doc.JamaahID, &doc.DocumentType, &doc.FileName, &doc.FilePath,
				&doc.FileSize, &doc.MimeType, &doc.IsVerified, &doc.VerifiedBy, &doc.VerificationDate,
				&doc.UploadedBy, &doc.UploadDate, &doc.JamaahName)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("dokumen")
		}
		return nil, apperrors.Internal(err)
	}
	return &doc, nil
}

func (r *DocumentRepository) FindByJamaah(ctx context.Context, jamaahID int) ([]entities.Document, error) {
	var docs []entities.Document
	err := r.ds.ReadQuery(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, `
			SELECT `+documentColumns+`
			FROM documents d
			WHERE d.jamaah_id = $1
			ORDER BY d.upload_date DESC`, jamaahID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var d entities.Document
			if err := rows.Scan(&d.ID, &d.JamaahID, &d.DocumentType, &d.FileName, &d.FilePath,
				&d.FileSize, &d.MimeType, &d.IsVerified, &d.VerifiedBy, &d.VerificationDate,
				&d.UploadedBy, &d.UploadDate); err != nil {
				return err
			}
			docs = append(docs, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return docs, nil
}

// Verify stamps verification state in a single UPDATE.
func (r *DocumentRepository) Verify(ctx context.Context, id int, verifiedBy int) error {
	return r.ds.Query(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		tag, err := q.Exec(ctx, `
			UPDATE documents
			SET is_verified = TRUE, verified_by = $1, verification_date = NOW()
			WHERE id = $2`, verifiedBy, id)
		if err != nil {
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("dokumen")
		}
		return nil
	})
}

func (r *DocumentRepository) Delete(ctx context.Context, id int) error {
	return r.ds.Query(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
		if err != nil {
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("dokumen")
		}
		return nil
	})
}

func (r *DocumentRepository) Statistics(ctx context.Context) (*entities.DocumentStatistics, error) {
	var stats entities.DocumentStatistics
	err := r.ds.ReadQuery(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE is_verified),
			       COUNT(*) FILTER (WHERE NOT is_verified),
			       COUNT(*) FILTER (WHERE document_type = 'passport'),
			       COUNT(*) FILTER (WHERE document_type = 'visa'),
			       COUNT(*) FILTER (WHERE document_type = 'photo')
			FROM documents`).
			Scan(&stats.TotalDocuments, &stats.VerifiedDocuments, &stats.UnverifiedDocuments,
				&stats.PassportDocuments, &stats.VisaDocuments, &stats.PhotoDocuments)
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &stats, nil
}
