// Package model defines the form model the loan adapters consume. The model
// is built from the loans OpenAPI document by package form and decorated with
// labels, help text and ordering from package uischema. Validation rules use
// canonical identifiers (min/max, minLength/maxLength, pattern) with string
// parameters so adapters can map them onto prompts or HTML attributes.
package model
