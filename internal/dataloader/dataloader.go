package dataloader

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/UkralStul/blog-service/internal/domain"
	"github.com/UkralStul/blog-service/internal/storage"
	"github.com/graph-gophers/dataloader"
)

type contextKey string

const key = contextKey("dataloaders")

// Loaders содержит все дата-лоадеры приложения.
type Loaders struct {
	UserByID *dataloader.Loader
}

// NewLoaders создает лоадеры поверх хранилища. Кеш лоадеров живет один запрос.
func NewLoaders(store storage.Storage) *Loaders {
	// Батч-функция: один запрос к хранилищу на все накопленные ключи
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := make([]int64, len(keys))
		for i, k := range keys {
			id, err := strconv.ParseInt(k.String(), 10, 64)
			if err != nil {
				return failAll(len(keys), err)
			}
			ids[i] = id
		}

		users, err := store.GetUsersByIDs(ctx, ids)
		if err != nil {
			return failAll(len(keys), err)
		}

		// Формируем результат в том же порядке, что и ключи
		results := make([]*dataloader.Result, len(keys))
		for i, id := range ids {
			if u, ok := users[id]; ok {
				results[i] = &dataloader.Result{Data: u}
			} else {
				results[i] = &dataloader.Result{Error: domain.NotFound(domain.EntityUser, id)}
			}
		}
		return results
	}

	return &Loaders{
		UserByID: dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(time.Millisecond*1)),
	}
}

func failAll(n int, err error) []*dataloader.Result {
	results := make([]*dataloader.Result, n)
	for i := range results {
		results[i] = &dataloader.Result{Error: err}
	}
	return results
}

// User ставит загрузку пользователя в очередь и возвращает функцию ожидания результата.
func (l *Loaders) User(ctx context.Context, id int64) func() (*domain.User, error) {
	thunk := l.UserByID.Load(ctx, dataloader.StringKey(strconv.FormatInt(id, 10)))
	return func() (*domain.User, error) {
		data, err := thunk()
		if err != nil {
			return nil, err
		}
		return data.(*domain.User), nil
	}
}

// Middleware для внедрения лоадеров в контекст запроса.
func Middleware(store storage.Storage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), key, NewLoaders(store))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// For извлекает лоадеры из контекста.
func For(ctx context.Context) *Loaders {
	return ctx.Value(key).(*Loaders)
}
