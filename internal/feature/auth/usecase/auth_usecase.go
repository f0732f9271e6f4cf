package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fiction_backend/internal/feature/auth/domain/entity"
)

// dummyPasswordHash はユーザーが存在しない場合にも比較処理を行うためのbcryptハッシュです。
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// ストアが重複を検出した場合、ErrUserAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByEmailOrUsername はメールアドレスまたはユーザー名のいずれかが一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error)
}

// PasswordHasher はパスワードの一方向ハッシュ化と検証を定義します。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID string) (string, error)
}

// RegisterInput は新規登録の入力値です。バリデーション済みであることを前提とします。
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult は登録・ログイン成功時に返されるトークンとユーザーです。
type AuthResult struct {
	Token string
	User  *entity.User
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	hasher       PasswordHasher
	jwtGenerator JWTGenerator
	newID        func() string
	now          func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{
		users:        users,
		hasher:       hasher,
		jwtGenerator: jwtGenerator,
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// Register は新規ユーザーを登録し、発行したトークンとともに返します。
// メールアドレスとユーザー名が両方重複している場合はメールアドレスの重複を優先して報告します。
// 重複チェックと登録はアトミックではないため、同時登録は両方ともチェックを通過し得ます。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	existing, err := u.users.FindByEmailOrUsername(ctx, in.Email, in.Username)
	switch {
	case err == nil:
		return nil, conflictFor(existing, in.Email)
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:           u.newID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		CreatedAt:    u.now().UTC().Truncate(time.Millisecond),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			// 一意制約に阻まれた場合は、どちらが衝突したかを再度調べる
			if existing, findErr := u.users.FindByEmailOrUsername(ctx, in.Email, in.Username); findErr == nil {
				return nil, conflictFor(existing, in.Email)
			}
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u.issue(user)
}

// Login はユーザーを認証し、成功時にJWTトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	passwordHash := dummyPasswordHash
	if err == nil {
		passwordHash = user.PasswordHash
	}

	// ユーザー未検出とパスワード不一致は同じエラーを返す
	matched := u.hasher.Verify(password, passwordHash)
	if err != nil || !matched {
		return nil, ErrInvalidCredentials
	}

	return u.issue(user)
}

func (u *authUsecase) issue(user *entity.User) (*AuthResult, error) {
	token, err := u.jwtGenerator.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// conflictFor は既存ユーザーと入力メールアドレスから重複の種類を判定します。
func conflictFor(existing *entity.User, email string) error {
	if existing.Email == email {
		return ErrEmailAlreadyRegistered
	}
	return ErrUsernameTaken
}
