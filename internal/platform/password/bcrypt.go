// Package password はパスワードの一方向ハッシュ化と検証を提供します。
package password

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// EnvKeyBcryptCost はbcryptのコストを指定する環境変数名です。
const EnvKeyBcryptCost = "BCRYPT_COST"

// Hasher はbcryptによるパスワードのハッシュ化と検証を行います。
// 生成されるハッシュにはランダムなソルトが含まれるため、同じ入力でも毎回異なる値になります。
type Hasher struct {
	cost int
}

// NewHasher は指定されたコストでHasherを生成します。
// 範囲外のコストはbcrypt.DefaultCostに置き換えられます。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// LoadCostFromEnv はBCRYPT_COSTを読み込みます。未設定または不正な値の場合はbcrypt.DefaultCostを返します。
func LoadCostFromEnv() int {
	n, err := strconv.Atoi(os.Getenv(EnvKeyBcryptCost))
	if err != nil {
		return bcrypt.DefaultCost
	}
	return n
}

// MaxPasswordBytes はbcryptが扱える入力の上限です。これを超える部分はHashとVerifyの両方で切り捨てます。
const MaxPasswordBytes = 72

// Hash はパスワードをソルト付きでハッシュ化します。
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify はpasswordがhashと一致する場合にのみtrueを返します。
// 不正な形式のハッシュに対してもエラーではなくfalseを返します。
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
