// Package api serves the summary and classification operations over HTTP.
//
// Routes:
//
//	POST /v1/summaries         {"transcript": "..."} -> {"summary", "status"}
//	POST /v1/classifications   {"summary": "..."}    -> {"subcategories", "mainCategories", "status"}
//	GET  /v1/catalog           ordered catalog entries
//	GET  /v1/runs              recent batch runs from the history ledger
//	GET  /healthz              "ok"
//
// Classification and catalog routes answer 503 when no catalog is loaded;
// the runs route answers 503 without a history store. Model failures are not
// HTTP errors: they come back as 200 with a degraded status, exactly as the
// batch commands record them.
//
// DTOs use camelCase JSON tags. Timestamps are RFC3339 with milliseconds.
package api
