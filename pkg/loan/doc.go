// Package loan defines the loan application record exchanged with the
// /api/loans backend, its JSON wire shape, and the conversions between records
// and raw form values. Money is carried as shopspring decimals and encoded as
// JSON numbers; absent optional fields encode as null and render as the "N/A"
// placeholder in table cells.
package loan
