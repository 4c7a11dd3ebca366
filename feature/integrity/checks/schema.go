package checks

import (
	"fmt"

	"offer-reconciler/core/database"

	"gorm.io/gorm"
)

// SchemaReport is the result of a schema check.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Issues  []database.SchemaIssue `json:"issues"`
}

// CheckSchema compares the live tables with the models.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	issues, err := database.CheckSchema(db)
	if err != nil {
		return nil, err
	}
	return &SchemaReport{Matched: len(issues) == 0, Issues: issues}, nil
}

// FixSchema migrates the schema and checks it again.
func FixSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return CheckSchema(db)
}
