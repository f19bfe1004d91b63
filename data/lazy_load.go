package data

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"reflect"
	"sync"
)

type Lazy[T any] interface {
	Get() T
	Err() error
}

type LazyLoad[T any] struct {
	m      sync.Mutex
	done   bool
	value  T
	err    error
	loadFn func() (any, error)
}

func LazyLoadFn[T any](load func() (any, error)) *LazyLoad[T] {
	return &LazyLoad[T]{loadFn: load}
}

func LazyLoadValue[T any](v T) *LazyLoad[T] {
	return &LazyLoad[T]{
		done:  true,
		value: v,
	}
}

// Get runs the load function once. A failed load leaves the zero value, see Err.
func (l *LazyLoad[T]) Get() T {
	l.m.Lock()
	defer l.m.Unlock()
	if l.done {
		return l.value
	}
	if l.loadFn == nil {
		l.done = true
		return l.value
	}
	var value any
	var ok bool
	value, l.err = l.loadFn()
	if l.err != nil {
		l.done = true
		return l.value
	}
	l.value, ok = value.(T)
	if !ok {
		panic(fmt.Sprintf("LazyLoad got %s, not %s", reflect.TypeOf(value), reflect.TypeOf(l.value)))
	}
	l.done = true
	return l.value
}

func (l *LazyLoad[T]) Err() error {
	l.m.Lock()
	defer l.m.Unlock()
	return l.err
}

// LazyLoadable is implemented by entities embedding LazyLoader.
type LazyLoadable interface {
	NewInstance()
	SetLoadFunc(entity string, fn func() (any, error))
	HasLoadFunc(entity string) bool
	DeleteLoadFunc(entity string)
	Load(name string) (any, error)
	Entities() []string
}

type LazyLoader struct {
	loaderMap map[string]func() (any, error)
}

func (l *LazyLoader) NewInstance() {
	l.loaderMap = make(map[string]func() (any, error))
}

func (l *LazyLoader) SetLoadFunc(entity string, fn func() (any, error)) {
	l.loaderMap[entity] = fn
}

func (l *LazyLoader) DeleteLoadFunc(entity string) {
	delete(l.loaderMap, entity)
}

func (l *LazyLoader) Entities() []string {
	entities := make([]string, 0, len(l.loaderMap))
	for k := range l.loaderMap {
		entities = append(entities, k)
	}
	return entities
}

func (l *LazyLoader) HasLoadFunc(entity string) bool {
	_, ok := l.loaderMap[entity]
	return ok
}

func (l *LazyLoader) Load(name string) (any, error) {
	if fn, ok := l.loaderMap[name]; ok {
		loaded, err := fn()
		logrus.Debugf("LazyLoader.Load: LazyLoader[%p] %s loaded[%p]", l, name, loaded)
		delete(l.loaderMap, name)
		return loaded, err
	} else {
		return nil, fmt.Errorf("lazy load function for %s is not set", name)
	}
}

// LazyLoadNow loads the association field called name into lazyLoader and returns it.
// Without a load function the field is returned as it is, which is the case for eager and join fetches.
func LazyLoadNow[T any](name string, lazyLoader LazyLoadable) (T, error) {
	var entity T
	child := reflect.Indirect(reflect.ValueOf(lazyLoader)).FieldByName(name)
	if !child.IsValid() {
		return entity, fmt.Errorf("LazyLoadNow: %s has not %s field", reflect.TypeOf(lazyLoader), name)
	}
	if !lazyLoader.HasLoadFunc(name) {
		return child.Interface().(T), nil
	}

	loaded, err := lazyLoader.Load(name)
	if err != nil {
		return entity, err
	}
	valueOfLoaded := reflect.ValueOf(loaded)
	if child.Type().Kind() == reflect.Pointer {
		child.Set(valueOfLoaded)
	} else {
		child.Set(reflect.Indirect(valueOfLoaded))
	}
	return child.Interface().(T), nil
}
