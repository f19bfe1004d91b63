package data

import (
	"gorm.io/gorm"
	"sync/atomic"
)

const queryCounterCallback = "select_related:count_queries"

// QueryCounter counts the SELECT statements a *gorm.DB runs, preload queries included.
type QueryCounter struct {
	count atomic.Int64
}

func NewQueryCounter() *QueryCounter {
	return &QueryCounter{}
}

// Register hooks the counter into db. Sessions derived from db share it.
func (c *QueryCounter) Register(db *gorm.DB) error {
	return db.Callback().Query().After("gorm:query").Register(queryCounterCallback, func(db *gorm.DB) {
		c.count.Add(1)
	})
}

func (c *QueryCounter) Count() int64 {
	return c.count.Load()
}

func (c *QueryCounter) Reset() {
	c.count.Store(0)
}
