package models

// All lists every persisted model in dependency order, used by AutoMigrate in
// tests and local tooling.
func All() []any {
	return []any{
		&Customer{},
		&Address{},
		&Category{},
		&Product{},
		&Cart{},
		&CartItem{},
	}
}
