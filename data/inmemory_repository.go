package data

import (
	"context"
	"fmt"
	"github.com/sirupsen/logrus"
	"reflect"
	"sync"
)

// InMemoryRepository keeps entities in creation order. A zero integer ID is assigned on Create.
type InMemoryRepository[T any, ID comparable] struct {
	mu                 sync.RWMutex
	database           map[ID]T
	order              []ID
	sequence           int64
	transactionManager TransactionManager
}

func NewInMemoryRepository[T any, ID comparable](transactionManager TransactionManager) *InMemoryRepository[T, ID] {
	return &InMemoryRepository[T, ID]{
		database:           make(map[ID]T),
		transactionManager: transactionManager,
	}
}

func (u *InMemoryRepository[T, ID]) FindOne(ctx context.Context, id ID) (T, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if v, ok := u.database[id]; ok {
		return v, nil
	}
	var v T
	return v, NotFoundError
}

func (u *InMemoryRepository[T, ID]) FindAll(ctx context.Context) ([]T, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	entities := make([]T, 0, len(u.order))
	for _, id := range u.order {
		entities = append(entities, u.database[id])
	}
	return entities, nil
}

func (u *InMemoryRepository[T, ID]) Create(ctx context.Context, entity T) (T, error) {
	logrus.Debugf("InMemoryRepository.Create: transaction [%v] entity [%+v]", u.transactionManager.Get(ctx), entity)
	u.mu.Lock()
	defer u.mu.Unlock()

	id, zero := findID[T, ID](entity)
	if zero {
		u.sequence++
		entity = assignID(entity, u.sequence)
		id, _ = findID[T, ID](entity)
	}
	if _, ok := u.database[id]; ok {
		var v T
		return v, fmt.Errorf("duplicated id %v", id)
	}
	u.database[id] = entity
	u.order = append(u.order, id)
	return entity, nil
}

func (u *InMemoryRepository[T, ID]) Update(ctx context.Context, entity T) (T, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	id, _ := findID[T, ID](entity)
	if _, ok := u.database[id]; !ok {
		var v T
		return v, NotFoundError
	}
	u.database[id] = entity
	return entity, nil
}

func (u *InMemoryRepository[T, ID]) Delete(ctx context.Context, entity T) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	id, _ := findID[T, ID](entity)
	if _, ok := u.database[id]; !ok {
		return NotFoundError
	}
	delete(u.database, id)
	for i, v := range u.order {
		if v == id {
			u.order = append(u.order[:i], u.order[i+1:]...)
			break
		}
	}
	return nil
}

func assignID[T any](entity T, sequence int64) T {
	value := reflect.ValueOf(&entity).Elem()
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	field := value.FieldByName("ID")
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		field.SetInt(sequence)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		field.SetUint(uint64(sequence))
	default:
		panic(fmt.Sprintf("ID field type '%s' of '%s' can not be generated", field.Type(), value.Type()))
	}
	return entity
}
