package service

import "errors"

var (
	// ErrInvalidProduct — у нового товара пустое каноническое имя.
	ErrInvalidProduct = errors.New("product name is empty after normalization")

	// ErrUnknownProduct — товара с таким идентификатором нет в каталоге.
	ErrUnknownProduct = errors.New("unknown product id")
)
