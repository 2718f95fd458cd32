// Package summary builds call-summary prompts and turns model replies into
// the summary column. Blank transcripts never reach the LLM; failed calls
// degrade to an ErrorMarker value so the batch keeps going.
package summary
