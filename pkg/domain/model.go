package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ModelType selects the column shape of a model's table.
// Extend by adding variants; ColumnSpec is the single switch point.
type ModelType string

const (
	// ModelTypeJSON stores the serialized payload in a single opaque
	// `content` column. This is the default and only first-class type.
	ModelTypeJSON ModelType = "json"
)

// ModelSpec maps to exactly one table in the Galaxy's store.
type ModelSpec struct {
	Name string    `mapstructure:"name" json:"name"`
	Type ModelType `mapstructure:"type" json:"type"`
}

var tablePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Table returns the store table name for the model: the lower-cased
// model name. An error is returned when the result is not a safe SQL
// identifier, since table names cannot be bound as statement parameters.
func (m ModelSpec) Table() (string, error) {
	name := strings.ToLower(strings.TrimSpace(m.Name))
	if !tablePattern.MatchString(name) {
		return "", fmt.Errorf("model name %q is not a valid table name", m.Name)
	}
	return name, nil
}

// ColumnSpec returns the payload column name and its DDL fragment for
// the model type. Unrecognized types fall back to a generic `data`
// column rather than failing, so older definitions keep loading.
func (t ModelType) ColumnSpec() (column, ddl string) {
	switch t {
	case ModelTypeJSON, "":
		return "content", "content TEXT NOT NULL"
	default:
		return "data", "data TEXT NOT NULL"
	}
}

// Record is one persisted row in a Galaxy's store. Rows are append-only;
// they are removed only through explicit maintenance commands.
type Record struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
}
