package adapters

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"fiction_backend/internal/feature/fiction/domain/entity"
	"fiction_backend/internal/feature/fiction/usecase"
)

// FictionsCollection はフィクションを格納するコレクション名です。
const FictionsCollection = "fictions"

// fictionMongo はFictionRepositoryインターフェースのMongoDB実装です。
// 各操作は単一ドキュメントに対するアトミックな操作です。
type fictionMongo struct {
	coll *mongo.Collection
}

var _ usecase.FictionRepository = (*fictionMongo)(nil)

// NewFictionMongo は指定されたデータベースのfictionsコレクションを使うfictionMongoを生成します。
func NewFictionMongo(db *mongo.Database) *fictionMongo {
	return &fictionMongo{coll: db.Collection(FictionsCollection)}
}

func (r *fictionMongo) FindAll(ctx context.Context, limit int) ([]*entity.Fiction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []fictionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*entity.Fiction, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

func (r *fictionMongo) FindByID(ctx context.Context, id string) (*entity.Fiction, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *fictionMongo) FindByIDAndOwner(ctx context.Context, id, owner string) (*entity.Fiction, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "created_by", Value: owner}})
}

func (r *fictionMongo) findOne(ctx context.Context, filter bson.D) (*entity.Fiction, error) {
	var doc fictionDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrFictionNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *fictionMongo) Create(ctx context.Context, f *entity.Fiction) error {
	if f == nil {
		return errors.New("fiction is nil")
	}
	_, err := r.coll.InsertOne(ctx, fictionDocumentFromEntity(f))
	return err
}

// UpdateFields は$setでfieldsのキーのみを更新します。
func (r *fictionMongo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.M(fields)}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrFictionNotFound
	}
	return nil
}

func (r *fictionMongo) DeleteByIDAndOwner(ctx context.Context, id, owner string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "created_by", Value: owner}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
