// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fiction_backend/internal/feature/auth/domain/entity"
	"fiction_backend/internal/feature/auth/usecase"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
// PostgreSQLとSQLiteの両方で動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// メールアドレスまたはユーザー名が一意制約に違反した場合、usecase.ErrUserAlreadyExistsを返します。
// 重複の判定にはgorm.ConfigのTranslateErrorが有効である必要があります。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if err := r.db.WithContext(ctx).Create(UserModelFromEntity(u)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// FindByEmailOrUsername はメールアドレスまたはユーザー名が一致するユーザーを取得します。
// 両方が別々のユーザーに一致する場合は、メールアドレスが一致するユーザーを返します。
func (r *userGorm) FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "CASE WHEN email = ? THEN 0 ELSE 1 END",
			Vars: []any{email},
		}}).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}
