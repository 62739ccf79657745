// Package report serializes detection results in multiple output formats:
// delimited text for tool integration, human-readable text for terminals,
// JSON for programmatic consumers, and Markdown for documentation.
package report
