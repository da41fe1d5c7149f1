package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Optional[T any] struct {
	Value     T
	IsPresent bool
}

func (p Optional[T]) String() string {
	if !p.IsPresent {
		return "[-]"
	}
	return fmt.Sprintf("[%v]", p.Value)
}

func (p Optional[T]) ValueOr(fallback T) T {
	if !p.IsPresent {
		return fallback
	}
	return p.Value
}

func (p Optional[T]) MarshalJSON() ([]byte, error) {
	if !p.IsPresent {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func NewOptional[T any](value T, isPresent bool) Optional[T] {
	return Optional[T]{Value: value, IsPresent: isPresent}
}

func FromPtr[T any](value *T) Optional[T] {
	if value == nil {
		return Optional[T]{}
	}
	return NewOptional(*value, true)
}

type Email string

func NewEmail(rawEmail string) Email {
	return Email(strings.ToLower(strings.TrimSpace(rawEmail)))
}
