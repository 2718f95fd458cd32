package records

import (
	"fmt"

	"callscribe/internal/services"
	"callscribe/internal/topics"
)

// LoadCatalog reads a category catalog CSV with the main category at
// mainColumn and the subcategory at subColumn.
func LoadCatalog(path, charset string, mainColumn, subColumn int) (*topics.Catalog, error) {
	table, err := ReadTable(path, charset)
	if err != nil {
		return nil, err
	}
	if len(table.Header) < 2 {
		msg := fmt.Sprintf("%s: catalog needs at least 2 columns, found %d", path, len(table.Header))
		return nil, services.Wrap(services.ErrSchema, "records", "load catalog", msg, nil)
	}
	if err := requireColumn(table, mainColumn, "main category"); err != nil {
		return nil, err
	}
	if err := requireColumn(table, subColumn, "subcategory"); err != nil {
		return nil, err
	}

	entries := make([]topics.Entry, 0, len(table.Rows))
	for _, row := range table.Rows {
		entries = append(entries, topics.Entry{Main: row[mainColumn], Sub: row[subColumn]})
	}
	return topics.NewCatalog(entries), nil
}
