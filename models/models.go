package models

// All lists every persisted model in parent-before-child order, the order
// AutoMigrate needs to create foreign keys.
func All() []any {
	return []any{&User{}, &Tierlist{}, &Category{}, &Element{}}
}
