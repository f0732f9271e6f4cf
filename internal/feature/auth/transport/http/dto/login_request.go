package dto

// LoginReq は/auth/loginエンドポイントのリクエストボディを表します。
// パスワードは必須にしません。空のパスワードは他の誤った資格情報と同じく401になります。
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}
