package data

import (
	"context"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type GormTransactionManager struct {
	db *gorm.DB
}

func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

type gormTransactionKey struct{}

func (g *GormTransactionManager) Do(ctx context.Context, f func(ctx context.Context) error) error {
	transactionID := uuid.New()
	tx := g.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	logrus.Debugf("GormTransactionManager.Do: begin transaction [%s]", transactionID)
	newCtx := context.WithValue(ctx, gormTransactionKey{}, tx)

	panicked := true
	defer func() {
		if panicked {
			logrus.Warnf("GormTransactionManager.Do: rollback transaction [%s] on panic", transactionID)
			tx.Rollback()
		}
	}()

	err := f(newCtx)
	panicked = false // if f is panicked, this statement is not executed.

	if err != nil {
		logrus.Debugf("GormTransactionManager.Do: rollback transaction [%s]: %v", transactionID, err)
		tx.Rollback()
		return err
	}
	logrus.Debugf("GormTransactionManager.Do: commit transaction [%s]", transactionID)
	return tx.Commit().Error
}

func (g *GormTransactionManager) Get(ctx context.Context) any {
	tx, ok := ctx.Value(gormTransactionKey{}).(*gorm.DB)
	if !ok {
		tx = g.db.WithContext(ctx)
	}
	return tx
}
