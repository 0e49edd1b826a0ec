package dbtypes

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringArray maps a postgres text[] column through pq's array codec.
type StringArray []string

func (a *StringArray) Scan(src any) error {
	var inner pq.StringArray
	if err := inner.Scan(src); err != nil {
		return err
	}
	if inner == nil {
		inner = pq.StringArray{}
	}
	*a = StringArray(inner)
	return nil
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	return pq.StringArray(a).Value()
}

// GormDBDataType picks text[] on postgres and text elsewhere.
func (StringArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
