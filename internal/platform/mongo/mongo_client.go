// Package mongo はMongoDBクライアントの生成と設定読み込みを提供します。
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	defaultURI    = "mongodb://localhost:27017/fictions_db"
	defaultDBName = "fictions_db"
	pingTimeout   = 10 * time.Second
)

// Config はMongoDB接続設定です。
type Config struct {
	URI    string
	DBName string
}

// LoadConfigFromEnv は環境変数からMongoDB設定を読み込みます。
func LoadConfigFromEnv() Config {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = defaultURI
	}
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = defaultDBName
	}
	return Config{URI: uri, DBName: name}
}

// Connect はクライアントを生成し、pingで疎通を確認してからデータベースを返します。
// 呼び出し側は不要になったらDisconnectでクライアントを閉じる必要があります。
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		slog.Error("MongoDB connection failed", "database", cfg.DBName, "error", err)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	slog.Info("MongoDB connection successful", "database", cfg.DBName)
	return client, client.Database(cfg.DBName), nil
}
