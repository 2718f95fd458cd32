// Package batch drives the summary and classification stages over every
// row of a record frame.
//
// Rows run sequentially by default or on a bounded worker pool. Results are
// stored by row index, so output order always matches input order. A row
// never fails the batch; only context cancellation aborts it.
package batch
