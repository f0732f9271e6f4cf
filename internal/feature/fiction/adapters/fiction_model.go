package adapters

import (
	"time"

	"fiction_backend/internal/feature/fiction/domain/entity"
)

// FictionModel is the GORM model for the fictions table.
type FictionModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Title       string    `gorm:"size:200;not null"`
	Author      string    `gorm:"size:100;not null"`
	Genre       string    `gorm:"size:50;not null"`
	Description string    `gorm:"size:500;not null"`
	Content     string    `gorm:"type:text;not null"`
	CreatedBy   string    `gorm:"index;size:36;not null"`
	CreatedAt   time.Time `gorm:"index;not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (FictionModel) TableName() string {
	return "fictions"
}

// ToEntity converts the GORM model to a domain entity.
func (m *FictionModel) ToEntity() *entity.Fiction {
	return &entity.Fiction{
		ID:          m.ID,
		Title:       m.Title,
		Author:      m.Author,
		Genre:       m.Genre,
		Description: m.Description,
		Content:     m.Content,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// FictionModelFromEntity converts a domain entity to a GORM model.
func FictionModelFromEntity(f *entity.Fiction) *FictionModel {
	return &FictionModel{
		ID:          f.ID,
		Title:       f.Title,
		Author:      f.Author,
		Genre:       f.Genre,
		Description: f.Description,
		Content:     f.Content,
		CreatedBy:   f.CreatedBy,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// fictionDocument はfictionsコレクションのBSON表現です。
// キー名はusecase.Field*と一致させます。
type fictionDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Author      string    `bson:"author"`
	Genre       string    `bson:"genre"`
	Description string    `bson:"description"`
	Content     string    `bson:"content"`
	CreatedBy   string    `bson:"created_by"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d *fictionDocument) toEntity() *entity.Fiction {
	return &entity.Fiction{
		ID:          d.ID,
		Title:       d.Title,
		Author:      d.Author,
		Genre:       d.Genre,
		Description: d.Description,
		Content:     d.Content,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func fictionDocumentFromEntity(f *entity.Fiction) *fictionDocument {
	return &fictionDocument{
		ID:          f.ID,
		Title:       f.Title,
		Author:      f.Author,
		Genre:       f.Genre,
		Description: f.Description,
		Content:     f.Content,
		CreatedBy:   f.CreatedBy,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
