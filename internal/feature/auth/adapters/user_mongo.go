package adapters

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"fiction_backend/internal/feature/auth/domain/entity"
	"fiction_backend/internal/feature/auth/usecase"
)

// UsersCollection はユーザーを格納するコレクション名です。
const UsersCollection = "users"

// userMongo はUserRepositoryインターフェースのMongoDB実装です。
// コレクションには一意インデックスを作成しないため、重複チェックはユースケース側で行います。
type userMongo struct {
	coll *mongo.Collection
}

var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo は指定されたデータベースのusersコレクションを使うuserMongoを生成します。
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{coll: db.Collection(UsersCollection)}
}

// Create はユーザードキュメントを挿入します。
func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if _, err := r.coll.InsertOne(ctx, userDocumentFromEntity(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// FindByEmailOrUsername はメールアドレス、次にユーザー名の順で一致するユーザーを探します。
func (r *userMongo) FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	u, err := r.findOne(ctx, bson.D{{Key: "email", Value: email}})
	if !errors.Is(err, usecase.ErrUserNotFound) {
		return u, err
	}
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *userMongo) findOne(ctx context.Context, filter bson.D) (*entity.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}
