package data

import (
	"context"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"reflect"
)

// GormRepository is a Repository over GORM. Associations are fetched by the mode of their `fetch` tag
// (lazy by default) unless overridden by WithFetchMode.
type GormRepository[T any, ID comparable] struct {
	transactionManager TransactionManager
	fetchModes         map[string]FetchMode
}

func NewGormRepository[T any, ID comparable](transactionManager TransactionManager) *GormRepository[T, ID] {
	return &GormRepository[T, ID]{
		transactionManager: transactionManager,
		fetchModes:         make(map[string]FetchMode),
	}
}

// WithFetchMode returns a copy of the repository fetching the association called name by mode.
func (u *GormRepository[T, ID]) WithFetchMode(name string, mode FetchMode) *GormRepository[T, ID] {
	var entity T
	if _, ok := findAssociation(&entity, name); !ok {
		panic(fmt.Sprintf("WithFetchMode: %s has not association %s", reflect.TypeOf(entity), name))
	}
	fetchModes := make(map[string]FetchMode, len(u.fetchModes)+1)
	for k, v := range u.fetchModes {
		fetchModes[k] = v
	}
	fetchModes[name] = mode
	return &GormRepository[T, ID]{
		transactionManager: u.transactionManager,
		fetchModes:         fetchModes,
	}
}

func (u *GormRepository[T, ID]) db(ctx context.Context) *gorm.DB {
	return u.transactionManager.Get(ctx).(*gorm.DB)
}

func (u *GormRepository[T, ID]) associations(entity *T) []Association {
	associations := findAssociations(entity)
	for i := range associations {
		if mode, ok := u.fetchModes[associations[i].Name]; ok {
			associations[i].FetchMode = mode
		}
	}
	return associations
}

func currentTableColumn(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

func (u *GormRepository[T, ID]) query(ctx context.Context) *gorm.DB {
	var entity T
	db := u.db(ctx).Model(&entity)
	for _, v := range u.associations(&entity) {
		switch v.FetchMode {
		case FetchEagerMode:
			db = db.Preload(v.Name)
		case FetchJoinMode:
			// a join can only fold single valued associations into the row
			if v.Type == HasMany {
				db = db.Preload(v.Name)
			} else {
				db = db.Joins(v.Name)
			}
		}
	}
	return db
}

func (u *GormRepository[T, ID]) FindOne(ctx context.Context, id ID) (T, error) {
	var entity T

	if err := u.query(ctx).Where(clause.Eq{Column: currentTableColumn("id"), Value: id}).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity, NotFoundError
		} else {
			return entity, err
		}
	}
	u.setLoadFuncs(ctx, &entity, true)
	return entity, nil
}

func (u *GormRepository[T, ID]) FindAll(ctx context.Context) ([]T, error) {
	return u.find(ctx)
}

func (u *GormRepository[T, ID]) find(ctx context.Context, conds ...clause.Expression) ([]T, error) {
	var entities []T

	db := u.query(ctx)
	for _, cond := range conds {
		db = db.Where(cond)
	}
	if err := db.Order(clause.OrderByColumn{Column: currentTableColumn("id")}).Find(&entities).Error; err != nil {
		return entities, err
	}
	for i := 0; i < len(entities); i++ {
		u.setLoadFuncs(ctx, &entities[i], true)
	}
	return entities, nil
}

// FindBy lists the entities whose belong-to association called name refers to belongTo.
func (u *GormRepository[T, ID]) FindBy(ctx context.Context, name string, belongTo any) ([]T, error) {
	var entity T
	association, ok := findAssociation(&entity, name)
	if !ok || association.Type != BelongTo {
		panic(fmt.Sprintf("FindBy: %s has not belong-to association %s", reflect.TypeOf(entity), name))
	}
	foreignKeyValue := findIDValue(belongTo, "ID")
	if foreignKeyValue == nil {
		panic(fmt.Sprintf("FindBy: %s's ID field is empty", reflect.TypeOf(belongTo)))
	}
	foreignKey := toSnakeCase(fmt.Sprintf("%sID", name))
	logrus.Debugf("GormRepository.FindBy: %s by %s = %v", reflect.TypeOf(entity), foreignKey, foreignKeyValue)
	return u.find(ctx, clause.Eq{Column: currentTableColumn(foreignKey), Value: foreignKeyValue})
}

// Create writes entity's own columns only. Associations are referred to by their foreign keys.
func (u *GormRepository[T, ID]) Create(ctx context.Context, entity T) (T, error) {
	var created T
	if err := u.db(ctx).Omit(clause.Associations).Create(&entity).Error; err != nil {
		return created, err
	}
	created = entity
	u.setLoadFuncs(ctx, &created, false)
	return created, nil
}

func (u *GormRepository[T, ID]) Update(ctx context.Context, entity T) (T, error) {
	var updated T
	if _, zero := findID[T, ID](entity); zero {
		panic("entity.ID is missing")
	}
	result := u.db(ctx).Model(&entity).Select("*").Omit(clause.Associations).Updates(&entity)
	if result.Error != nil {
		return updated, result.Error
	}
	if result.RowsAffected == 0 {
		return updated, NotFoundError
	}
	updated = entity
	u.setLoadFuncs(ctx, &updated, false)
	return updated, nil
}

// Delete removes entity only. Dependent rows are left to the foreign key rules of the database.
func (u *GormRepository[T, ID]) Delete(ctx context.Context, entity T) error {
	if _, zero := findID[T, ID](entity); zero {
		panic("entity.ID is missing")
	}
	result := u.db(ctx).Delete(&entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError
	}
	return nil
}

// setLoadFuncs sets load functions on a LazyLoadable entity, for lazy associations only when onlyLazy is set.
func (u *GormRepository[T, ID]) setLoadFuncs(ctx context.Context, entity *T, onlyLazy bool) {
	lazyLoadable, ok := any(entity).(LazyLoadable)
	if !ok {
		return
	}
	lazyLoadable.NewInstance()
	id := findIDValue(entity, "ID")
	for _, v := range u.associations(entity) {
		if onlyLazy && v.FetchMode != FetchLazyMode {
			continue
		}
		switch v.Type {
		case BelongTo:
			logrus.Debugf("GormRepository.setLoadFuncs: SetLoadFunc belong-to entity [%p], association [%s], association_id [%v]", entity, v.Name, v.ID)
			if v.ID != nil {
				lazyLoadable.SetLoadFunc(v.Name, u.GetLazyLoadFuncOfBelongTo(ctx, v.PtrToEntity, v.ID))
			}
		case HasOne:
			logrus.Debugf("GormRepository.setLoadFuncs: SetLoadFunc has-one entity [%p], association [%s], foreignKey [%s], foreignKeyValue [%v]", entity, v.Name, v.ForeignKey, id)
			if id != nil {
				lazyLoadable.SetLoadFunc(v.Name, u.GetLazyLoadFuncOfHasOne(ctx, v.PtrToEntity, v.ForeignKey, id))
			}
		case HasMany:
			logrus.Debugf("GormRepository.setLoadFuncs: SetLoadFunc has-many entity [%p], association [%s], foreignKey [%s], foreignKeyValue [%v]", entity, v.Name, v.ForeignKey, id)
			if id != nil {
				lazyLoadable.SetLoadFunc(v.Name, u.GetLazyLoadFuncOfHasMany(ctx, v.PtrToEntity, v.ForeignKey, id))
			}
		}
	}
}

func (u *GormRepository[T, ID]) GetLazyLoadFuncOfBelongTo(ctx context.Context, entity any, id any) func() (any, error) {
	return func() (any, error) {
		idValue := reflect.ValueOf(id)
		if idValue.Type().Kind() == reflect.Pointer && idValue.IsNil() {
			return nil, gorm.ErrRecordNotFound
		}
		if idValue.IsZero() {
			return nil, gorm.ErrRecordNotFound
		}
		if err := u.db(ctx).Model(entity).First(entity, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return entity, nil
	}
}

func (u *GormRepository[T, ID]) GetLazyLoadFuncOfHasOne(ctx context.Context, entity any, foreignKey string, foreignKeyValue any) func() (any, error) {
	return func() (any, error) {
		if err := u.db(ctx).Model(entity).First(entity, fmt.Sprintf("%s = ?", foreignKey), foreignKeyValue).Error; err != nil {
			return nil, err
		}
		return entity, nil
	}
}

func (u *GormRepository[T, ID]) GetLazyLoadFuncOfHasMany(ctx context.Context, entity any, foreignKey string, foreignKeyValue any) func() (any, error) {
	return func() (any, error) {
		if err := u.db(ctx).Model(entity).Order("id").Find(entity, fmt.Sprintf("%s = ?", foreignKey), foreignKeyValue).Error; err != nil {
			return nil, err
		}
		return entity, nil
	}
}

type GormFindByRepository[T any, S any, ID comparable] struct {
	*GormRepository[T, ID]
}

func NewGormFindByRepository[T any, S any, ID comparable](gormRepository *GormRepository[T, ID]) *GormFindByRepository[T, S, ID] {
	return &GormFindByRepository[T, S, ID]{GormRepository: gormRepository}
}

func (u *GormFindByRepository[T, S, ID]) FindBy(ctx context.Context, name string, belongTo S) ([]T, error) {
	return u.GormRepository.FindBy(ctx, name, belongTo)
}
