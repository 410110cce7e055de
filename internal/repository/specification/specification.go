package specification

import "gorm.io/gorm"

// Specification is one composable query condition.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
