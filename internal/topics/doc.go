// Package topics classifies call summaries into three subcategories taken
// from a category catalog and resolves each to its main category.
//
// Model replies are read by locating the outermost brace span and decoding
// it; nothing is repaired. Labels are not deduplicated and not checked
// against the catalog, so an invented label keeps its slot with an empty
// main category.
package topics
