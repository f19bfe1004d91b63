package data

import (
	"errors"
	"fmt"
	"gorm.io/gorm"
	"reflect"
	"strings"
)

var NotFoundError = errors.New("not found")

func findID[T any, ID comparable](entity T) (ID, bool) {
	valueOfEntity := reflect.ValueOf(entity)
	if valueOfEntity.Type().Kind() == reflect.Pointer {
		valueOfEntity = reflect.Indirect(valueOfEntity)
	}
	value := valueOfEntity.FieldByName("ID")
	if !value.IsValid() {
		panic(fmt.Sprintf("Entity '%s' has not ID field", valueOfEntity.Type()))
	}
	if !value.Comparable() {
		panic(fmt.Sprintf("ID field type '%s' of '%s' is not comparable", value.Type(), valueOfEntity.Type()))
	}
	v := value.Interface()
	switch v.(type) {
	case ID:
		return v.(ID), value.IsZero()
	default:
		panic("Entity's ID field type is different from ID type constraint")
	}
}

// findIDValue returns nil when the field is a nil pointer or holds its zero value.
func findIDValue(ptrToEntity any, fieldName string) any {
	valueOfEntity := reflect.ValueOf(ptrToEntity)
	if valueOfEntity.Type().Kind() == reflect.Pointer {
		valueOfEntity = reflect.Indirect(valueOfEntity)
	}
	if !valueOfEntity.IsValid() {
		return nil
	}
	value := valueOfEntity.FieldByName(fieldName)
	if !value.IsValid() {
		panic(fmt.Sprintf("Entity '%s' has not %s field", valueOfEntity.Type(), fieldName))
	}
	if value.Type().Kind() == reflect.Pointer && value.IsNil() {
		return nil
	}
	if value.IsZero() {
		return nil
	}
	return value.Interface()
}

type FetchMode string

const (
	FetchLazyMode  FetchMode = "lazy"
	FetchEagerMode FetchMode = "eager"
	FetchJoinMode  FetchMode = "join"
)

// ParseFetchMode accepts "", "lazy", "eager" and "join". An empty string means lazy.
func ParseFetchMode(m string) (FetchMode, error) {
	switch FetchMode(m) {
	case "", FetchLazyMode:
		return FetchLazyMode, nil
	case FetchEagerMode:
		return FetchEagerMode, nil
	case FetchJoinMode:
		return FetchJoinMode, nil
	default:
		return "", fmt.Errorf("wrong fetch-mode - %s", m)
	}
}

// ToFetchMode is ParseFetchMode for struct tags, where a wrong value is a programming error.
func ToFetchMode(m string) FetchMode {
	mode, err := ParseFetchMode(m)
	if err != nil {
		panic(err.Error())
	}
	return mode
}

type AssociationType int

const (
	BelongTo AssociationType = iota + 1
	HasOne
	HasMany
)

type Association struct {
	Name        string
	PtrToEntity any
	ID          any    // belong-to foreign key value
	ForeignKey  string // has-one, has-many foreign key column
	Type        AssociationType
	FetchMode   FetchMode
}

var systemStructTypes = []any{
	gorm.Model{},
	LazyLoader{},
}

var systemStructTypeMap map[string]bool

func init() {
	systemStructTypeMap = make(map[string]bool)
	for _, s := range systemStructTypes {
		typeName := reflect.TypeOf(s).String()
		systemStructTypeMap[typeName] = true
	}
}

func isSystemStructType(typeName reflect.Type) bool {
	return systemStructTypeMap[typeName.String()]
}

func toSnakeCase(camel string) string {
	var b strings.Builder
	diff := 'a' - 'A'
	l := len(camel)
	for i, v := range camel {
		// A is 65, a is 97
		if v >= 'a' {
			b.WriteRune(v)
			continue
		}
		if (i != 0 || i == l-1) && ( // head and tail
		(i > 0 && rune(camel[i-1]) >= 'a') || // pre
			(i < l-1 && rune(camel[i+1]) >= 'a')) { //next
			b.WriteRune('_')
		}
		b.WriteRune(v + diff)
	}
	return b.String()
}

// findAssociations detects associations by naming convention.
// A struct field X with a sibling XID is belong-to, a struct field whose type has <Entity>ID is has-one
// and a slice field whose element has <Entity>ID is has-many.
func findAssociations(ptrToEntity any) []Association {
	var associations []Association
	entityType := reflect.TypeOf(ptrToEntity)

	if entityType.Kind() == reflect.Pointer || entityType.Kind() == reflect.Slice {
		entityType = entityType.Elem()
		if entityType.Kind() == reflect.Slice {
			entityType = entityType.Elem()
		}
	}
	if entityType.Kind() != reflect.Struct {
		panic(fmt.Sprintf("findAssociation: entity[%s] is not struct type", entityType.String()))
	}
	numOfField := entityType.NumField()
	for i := 0; i < numOfField; i++ {
		field := entityType.Field(i)
		if isSystemStructType(field.Type) || field.Tag.Get("gorm") == "-" {
			continue
		}

		var association Association
		association.Name = field.Name
		association.FetchMode = ToFetchMode(field.Tag.Get("fetch"))

		belongToForeignKey := fmt.Sprintf("%sID", field.Name)
		hasForeignKey := fmt.Sprintf("%sID", entityType.Name())
		if field.Type.Kind() == reflect.Struct {
			association.PtrToEntity = reflect.New(field.Type).Interface()
			if _, ok := entityType.FieldByName(belongToForeignKey); ok {
				association.Type = BelongTo
				association.ID = findIDValue(ptrToEntity, belongToForeignKey)
			} else if _, ok := field.Type.FieldByName(hasForeignKey); ok {
				association.Type = HasOne
				association.ForeignKey = toSnakeCase(hasForeignKey)
			}
		} else if field.Type.Kind() == reflect.Pointer && field.Type.Elem().Kind() == reflect.Struct {
			association.PtrToEntity = reflect.New(field.Type.Elem()).Interface()
			if _, ok := entityType.FieldByName(belongToForeignKey); ok {
				association.Type = BelongTo
				association.ID = findIDValue(ptrToEntity, belongToForeignKey)
			} else if _, ok := field.Type.Elem().FieldByName(hasForeignKey); ok {
				association.Type = HasOne
				association.ForeignKey = toSnakeCase(hasForeignKey)
			}
		} else if field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() == reflect.Struct {
			association.PtrToEntity = reflect.New(field.Type).Interface()
			if _, ok := field.Type.Elem().FieldByName(hasForeignKey); ok {
				association.Type = HasMany
				association.ForeignKey = toSnakeCase(hasForeignKey)
			}
		}
		if association.Type == 0 {
			continue
		}

		associations = append(associations, association)
	}
	return associations
}

func findAssociation(ptrToEntity any, name string) (Association, bool) {
	for _, v := range findAssociations(ptrToEntity) {
		if v.Name == name {
			return v, true
		}
	}
	return Association{}, false
}
