// Package services holds the error markers shared by the pipeline stages and
// the external integrations under it (currently the LLM client in
// services/llm).
//
// Wrap tags a failure with a marker such as ErrSchema or ErrConfiguration;
// Kind and ExitCode turn the marker back into a run-history label and a
// process exit status.
package services
