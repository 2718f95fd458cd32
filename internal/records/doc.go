// Package records reads call record tables from CSV, shapes them for the
// summary and classification stages, and writes enriched tables back out.
//
// Input charsets other than UTF-8 are decoded through golang.org/x/text.
// Output is written atomically under an exclusive lock on "<output>.lock".
package records
