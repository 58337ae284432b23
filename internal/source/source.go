// Package source описывает источники аудио, из которых скачиваются треки
package source

import (
	"context"
	"fmt"
	"io"
)

// Stream найденный аудиопоток
type Stream interface {
	// Title название, из которого формируется имя итогового файла
	Title() string
	// Open открывает поток для чтения
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Resolver находит аудиопоток по URL
type Resolver interface {
	// Match сообщает, умеет ли резолвер работать с URL
	Match(url string) bool
	Resolve(ctx context.Context, url string) (Stream, error)
}

// Chain перебирает резолверы по порядку и использует первый подходящий
type Chain []Resolver

// Match сообщает, подходит ли URL хотя бы одному резолверу
func (c Chain) Match(url string) bool {
	for _, r := range c {
		if r.Match(url) {
			return true
		}
	}
	return false
}

// Resolve находит поток первым подходящим резолвером
func (c Chain) Resolve(ctx context.Context, url string) (Stream, error) {
	for _, r := range c {
		if r.Match(url) {
			return r.Resolve(ctx, url)
		}
	}
	return nil, fmt.Errorf("неподдерживаемый URL: %s", url)
}
