// Package extract pulls SEO fields out of rendered page markup.
//
// Extraction is total: every field of the schema gets a value for every
// page, with missing tags yielding empty strings. Only a markup that
// cannot be parsed at all produces a record flagged as failed.
package extract
