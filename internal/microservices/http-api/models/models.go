package models

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&RefreshToken{},
		&Course{},
		&Section{},
		&Lesson{},
		&Enrollment{},
		&ProgressRecord{},
		&Review{},
		&WishlistItem{},
	}
}
