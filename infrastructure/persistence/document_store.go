package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/AayushMore1708/api-hub/domain/document"
	"github.com/AayushMore1708/api-hub/domain/storage"
	"github.com/AayushMore1708/api-hub/internal/database"
	"gorm.io/gorm"
)

// DocumentModel is the database row for a documentation chunk.
type DocumentModel struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement"`
	Library   string       `gorm:"column:library;index;not null"`
	Source    string       `gorm:"column:source"`
	URL       string       `gorm:"column:url"`
	Content   string       `gorm:"column:content"`
	Vector    Float64Slice `gorm:"column:vector;type:json"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for DocumentModel.
func (DocumentModel) TableName() string {
	return "api_docs"
}

// documentMapper converts between document.Document and DocumentModel.
type documentMapper struct{}

func (documentMapper) ToDomain(m DocumentModel) document.Document {
	return document.Restore(m.ID, m.Library, document.Source(m.Source), m.URL, m.Content, m.Vector, m.CreatedAt)
}

func (documentMapper) ToModel(d document.Document) DocumentModel {
	return DocumentModel{
		ID:      d.ID(),
		Library: d.Library(),
		Source:  string(d.Source()),
		URL:     d.URL(),
		Content: d.Content(),
		Vector:  d.Vector(),
	}
}

// DocumentStore implements document.Store on GORM.
type DocumentStore struct {
	db   database.Database
	repo database.Repository[document.Document, DocumentModel]
}

// NewDocumentStore creates a DocumentStore.
func NewDocumentStore(db database.Database) *DocumentStore {
	return &DocumentStore{
		db:   db,
		repo: database.NewRepository[document.Document, DocumentModel](db, documentMapper{}, "document"),
	}
}

// SaveAll persists a batch of documents in a single transaction so a
// half-written batch is never visible as a seeded library. Insertion order
// follows slice order.
func (s *DocumentStore) SaveAll(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	mapper := documentMapper{}
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		for i, d := range docs {
			model := mapper.ToModel(d)
			if err := tx.Create(&model).Error; err != nil {
				return fmt.Errorf("insert document %d/%d for %s: %w", i+1, len(docs), d.Library(), err)
			}
		}
		return nil
	})
}

// Find retrieves documents matching the given options, oldest first.
func (s *DocumentStore) Find(ctx context.Context, options ...storage.Option) ([]document.Document, error) {
	options = append(options, storage.WithOrderAsc("id"))
	return s.repo.Find(ctx, options...)
}

// CountByLibrary returns the number of stored documents for a library.
func (s *DocumentStore) CountByLibrary(ctx context.Context, library string) (int64, error) {
	return s.repo.Count(ctx, document.WithLibrary(library))
}

var _ document.Store = (*DocumentStore)(nil)
