// Package adapters はfictionフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fiction_backend/internal/feature/fiction/domain/entity"
	"fiction_backend/internal/feature/fiction/usecase"
)

// fictionGorm はFictionRepositoryインターフェースのGORM実装です。
type fictionGorm struct {
	db *gorm.DB
}

var _ usecase.FictionRepository = (*fictionGorm)(nil)

// NewFictionGorm は指定されたgorm.DB接続でfictionGormの新しいインスタンスを生成します。
func NewFictionGorm(db *gorm.DB) *fictionGorm {
	return &fictionGorm{db: db}
}

// FindAll は作成日時の昇順で最大limit件を返します。
func (r *fictionGorm) FindAll(ctx context.Context, limit int) ([]*entity.Fiction, error) {
	var models []FictionModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.Fiction, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}

// FindByID はIDでフィクションを取得します。
func (r *fictionGorm) FindByID(ctx context.Context, id string) (*entity.Fiction, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByIDAndOwner はIDと作成者の両方が一致するフィクションを取得します。
func (r *fictionGorm) FindByIDAndOwner(ctx context.Context, id, owner string) (*entity.Fiction, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ? AND created_by = ?", id, owner))
}

func (r *fictionGorm) first(q *gorm.DB) (*entity.Fiction, error) {
	var m FictionModel
	if err := q.Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrFictionNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// Create はフィクションを追加します。
func (r *fictionGorm) Create(ctx context.Context, f *entity.Fiction) error {
	if f == nil {
		return errors.New("fiction is nil")
	}
	return r.db.WithContext(ctx).Create(FictionModelFromEntity(f)).Error
}

// UpdateFields はfieldsに含まれる列のみを1つのUPDATE文で更新します。
func (r *fictionGorm) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&FictionModel{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrFictionNotFound
	}
	return nil
}

// DeleteByIDAndOwner はIDと作成者が一致する行を削除し、削除件数を返します。
func (r *fictionGorm) DeleteByIDAndOwner(ctx context.Context, id, owner string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, owner).
		Delete(&FictionModel{})
	return res.RowsAffected, res.Error
}
