// Package usecase はfictionフィーチャーのビジネスロジックを提供します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fiction_backend/internal/feature/fiction/domain/entity"
)

// DefaultListLimit は一覧取得で返す最大件数のデフォルト値です。
const DefaultListLimit = 1000

// UpdateFieldsに渡すフィールド名です。ストアの列名・キー名と一致します。
const (
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldGenre       = "genre"
	FieldDescription = "description"
	FieldContent     = "content"
	FieldUpdatedAt   = "updated_at"
)

// FictionRepository はフィクションの永続化層を抽象化します。
type FictionRepository interface {
	// FindAll は最大limit件のフィクションを作成日時の昇順で返します。
	FindAll(ctx context.Context, limit int) ([]*entity.Fiction, error)

	// FindByID はIDでフィクションを取得します。存在しない場合はErrFictionNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.Fiction, error)

	// FindByIDAndOwner はIDと所有者の両方が一致するフィクションを取得します。
	// どちらかが一致しない場合はErrFictionNotFoundを返します。
	FindByIDAndOwner(ctx context.Context, id, owner string) (*entity.Fiction, error)

	// Create は新しいフィクションを保存します。
	Create(ctx context.Context, f *entity.Fiction) error

	// UpdateFields はfieldsのキーに対応するフィールドのみを単一ドキュメント操作で更新します。
	// 対象が存在しない場合はErrFictionNotFoundを返します。
	UpdateFields(ctx context.Context, id string, fields map[string]any) error

	// DeleteByIDAndOwner はIDと所有者が一致するフィクションを削除し、削除件数を返します。
	DeleteByIDAndOwner(ctx context.Context, id, owner string) (int64, error)
}

// CreateInput はフィクション作成の入力値です。
type CreateInput struct {
	Title       string
	Author      string
	Genre       string
	Description string
	Content     string
	CreatedBy   string
}

// FictionUpdate は部分更新の入力値です。nilのフィールドは変更しません。
type FictionUpdate struct {
	Title       *string
	Author      *string
	Genre       *string
	Description *string
	Content     *string
}

// Fields はnilでないフィールドのみを含む更新マップを返します。
func (u FictionUpdate) Fields() map[string]any {
	fields := make(map[string]any, 5)
	set := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	set(FieldTitle, u.Title)
	set(FieldAuthor, u.Author)
	set(FieldGenre, u.Genre)
	set(FieldDescription, u.Description)
	set(FieldContent, u.Content)
	return fields
}

type fictionUsecase struct {
	repo      FictionRepository
	listLimit int
	newID     func() string
	now       func() time.Time
}

// NewFictionUsecase はfictionUsecaseを生成します。listLimitが0以下の場合はDefaultListLimitを使います。
func NewFictionUsecase(repo FictionRepository, listLimit int) *fictionUsecase {
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	return &fictionUsecase{
		repo:      repo,
		listLimit: listLimit,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// List は最大listLimit件のフィクションを返します。
func (u *fictionUsecase) List(ctx context.Context) ([]*entity.Fiction, error) {
	fictions, err := u.repo.FindAll(ctx, u.listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list fictions: %w", err)
	}
	return fictions, nil
}

// Get はIDでフィクションを取得します。
func (u *fictionUsecase) Get(ctx context.Context, id string) (*entity.Fiction, error) {
	f, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrFictionNotFound) {
			return nil, ErrFictionNotFound
		}
		return nil, fmt.Errorf("failed to get fiction: %w", err)
	}
	return f, nil
}

// Create は呼び出し元を所有者としてフィクションを作成します。
func (u *fictionUsecase) Create(ctx context.Context, in CreateInput) (*entity.Fiction, error) {
	genre, ok := entity.NormalizeGenre(in.Genre)
	if !ok {
		return nil, ErrInvalidGenre
	}

	now := u.timestamp()
	f := &entity.Fiction{
		ID:          u.newID(),
		Title:       in.Title,
		Author:      in.Author,
		Genre:       genre,
		Description: in.Description,
		Content:     in.Content,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to create fiction: %w", err)
	}
	return f, nil
}

// Update は所有者のフィクションを部分更新し、更新後の状態を返します。
// 存在しない場合と所有者でない場合はどちらもErrFictionNotFoundOrForbiddenを返します。
// 空の更新かどうかは所有権の確認後に判定します。
func (u *fictionUsecase) Update(ctx context.Context, id, owner string, upd FictionUpdate) (*entity.Fiction, error) {
	if upd.Genre != nil {
		genre, ok := entity.NormalizeGenre(*upd.Genre)
		if !ok {
			return nil, ErrInvalidGenre
		}
		upd.Genre = &genre
	}

	if _, err := u.repo.FindByIDAndOwner(ctx, id, owner); err != nil {
		if errors.Is(err, ErrFictionNotFound) {
			return nil, ErrFictionNotFoundOrForbidden
		}
		return nil, fmt.Errorf("failed to look up fiction: %w", err)
	}

	fields := upd.Fields()
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	fields[FieldUpdatedAt] = u.timestamp()

	if err := u.repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, ErrFictionNotFound) {
			return nil, ErrFictionNotFoundOrForbidden
		}
		return nil, fmt.Errorf("failed to update fiction: %w", err)
	}

	// 確認と更新の間に別の書き込みがあった場合、その結果が返ることがある
	updated, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrFictionNotFound) {
			return nil, ErrFictionNotFound
		}
		return nil, fmt.Errorf("failed to reload fiction: %w", err)
	}
	return updated, nil
}

// Delete は所有者のフィクションを削除します。
func (u *fictionUsecase) Delete(ctx context.Context, id, owner string) error {
	deleted, err := u.repo.DeleteByIDAndOwner(ctx, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete fiction: %w", err)
	}
	if deleted == 0 {
		return ErrFictionNotFoundOrForbidden
	}
	return nil
}

// timestamp はミリ秒に丸めたUTC時刻を返します。MongoDBの保存精度に合わせます。
func (u *fictionUsecase) timestamp() time.Time {
	return u.now().UTC().Truncate(time.Millisecond)
}
