package models

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

Set GENERATE_COLUMN_REPORT=true and start the binary. For every content table the
report lists columns present in the database that no model field maps to, and
model fields that have no column yet.

	=== COLUMN MISMATCH REPORT ===
	--- Table: posts ---
	All columns are accounted for in the model.

	=== SUMMARY ===
	Total mismatched columns across all tables: 0
*/

// All returns every persisted model in dependency order
func All() []any {
	return []any{
		&Post{},
		&Category{},
		&Tag{},
		&PostCategory{},
		&PostTag{},
		&Setting{},
	}
}

// Migrate creates or updates the content schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}

// GenerateModels migrates the schema and writes typed query helpers to ./generated
func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	fmt.Println("Migrating content models...")
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate content models: %w", err)
	}

	GenerateColumnMismatchReport(db)

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// ColumnMismatch lists the drift between one table and its model
type ColumnMismatch struct {
	Table         string
	ExtraColumns  []string // in the database, not in the model
	MissingFields []string // in the model, not in the database
}

// CompareColumns diffs the live columns of every content table against the models
func CompareColumns(db *gorm.DB) ([]ColumnMismatch, error) {
	cache := &sync.Map{}
	var report []ColumnMismatch

	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		if !db.Migrator().HasTable(s.Table) {
			report = append(report, ColumnMismatch{Table: s.Table, MissingFields: sortedCopy(s.DBNames)})
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("read columns of %s: %w", s.Table, err)
		}
		live := make(map[string]bool, len(columnTypes))
		for _, ct := range columnTypes {
			live[ct.Name()] = true
		}
		declared := make(map[string]bool, len(s.DBNames))
		for _, name := range s.DBNames {
			declared[name] = true
		}

		m := ColumnMismatch{Table: s.Table}
		for name := range live {
			if !declared[name] {
				m.ExtraColumns = append(m.ExtraColumns, name)
			}
		}
		for name := range declared {
			if !live[name] {
				m.MissingFields = append(m.MissingFields, name)
			}
		}
		sort.Strings(m.ExtraColumns)
		sort.Strings(m.MissingFields)
		report = append(report, m)
	}
	return report, nil
}

// GenerateColumnMismatchReport prints the result of CompareColumns
func GenerateColumnMismatchReport(db *gorm.DB) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	report, err := CompareColumns(db)
	if err != nil {
		fmt.Printf("Error building report: %v\n", err)
		return
	}

	total := 0
	for _, m := range report {
		fmt.Printf("\n--- Table: %s ---\n", m.Table)
		if len(m.ExtraColumns) == 0 && len(m.MissingFields) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}
		for _, col := range m.ExtraColumns {
			fmt.Printf("  + %s (not in model)\n", col)
		}
		for _, col := range m.MissingFields {
			fmt.Printf("  - %s (not in database)\n", col)
		}
		total += len(m.ExtraColumns) + len(m.MissingFields)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", total)
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
