package data

import (
	"context"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DummyTransactionManager only tags the context with a transaction id. It pairs with InMemoryRepository.
type DummyTransactionManager struct {
}

func NewDummyTransactionManager() *DummyTransactionManager {
	return &DummyTransactionManager{}
}

type dummyTransactionKey struct{}

func (d *DummyTransactionManager) Do(ctx context.Context, f func(ctx context.Context) error) error {
	transactionID := uuid.New()
	logrus.Debugf("DummyTransactionManager.Do: transaction [%s]", transactionID)
	return f(context.WithValue(ctx, dummyTransactionKey{}, transactionID))
}

// Get returns the id of the running transaction, or uuid.Nil outside of Do.
func (d *DummyTransactionManager) Get(ctx context.Context) any {
	if tx, ok := ctx.Value(dummyTransactionKey{}).(uuid.UUID); ok {
		return tx
	}
	return uuid.Nil
}
