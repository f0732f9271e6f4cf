package usecase

import "errors"

var (
	// ErrFictionNotFound はIDに一致するフィクションが存在しないことを示します。
	ErrFictionNotFound = errors.New("fiction not found")

	// ErrFictionNotFoundOrForbidden はフィクションが存在しないか、呼び出し元が所有者でないことを示します。
	// 2つのケースは意図的に区別しません。
	ErrFictionNotFoundOrForbidden = errors.New("fiction not found or not owned by caller")

	// ErrNoFieldsToUpdate は部分更新で変更対象のフィールドが1つもないことを示します。
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// ErrInvalidGenre はジャンルが許可リストに含まれないことを示します。
	ErrInvalidGenre = errors.New("invalid genre")
)
