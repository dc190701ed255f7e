package specification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type row struct {
	Id   string
	Slug string
}

func dryRun(t *testing.T, specs ...Specification) string {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost"}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	query := db.Table("contents")
	for _, s := range specs {
		query = s.Apply(query)
	}
	stmt := query.Find(&[]row{}).Statement
	return stmt.SQL.String()
}

func TestSpecificationsBuildSQL(t *testing.T) {
	sql := dryRun(t, BySlugLocale{Slug: "about", Locale: "en"}, OrderBy{Field: "updated_at", Desc: true}, Pagination{Limit: 10, Offset: 20})
	assert.Contains(t, sql, "slug = $1 AND locale = $2")
	assert.Contains(t, sql, "ORDER BY updated_at DESC")
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")
}

func TestOrderByIgnoresUnknownFields(t *testing.T) {
	sql := dryRun(t, OrderBy{Field: "1; DROP TABLE contents"})
	assert.NotContains(t, sql, "ORDER BY")
}
