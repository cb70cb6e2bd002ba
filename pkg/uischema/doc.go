// Package uischema loads the UI overlay for the loan form: labels,
// placeholders, help text, field order and action labels. The overlay lives
// next to the OpenAPI document rather than inside it, so the model builder
// stays unaware of presentation.
package uischema
