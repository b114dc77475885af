// Package mapping contains the field-mapping bounded context.
//
// A Config is the ordered table that tells the catalog transformer, for every
// canonical LR field, which source column to read from each marketplace
// export. The order of entries is the column order of every converted catalog.
//
// Key concepts:
//   - Marketplace: one of the fixed source systems (myntra, ajio, flipkart)
//   - Entry: one canonical field and its per-marketplace source column names
//   - Config: ordered, uniquely named entries
//   - EditRow: one row of the editable mapping grid
//   - Repository: port for persisting a Config (file, memory, S3, Redis adapters
//     live in the infrastructure layer)
//
// An empty source column name means the field is intentionally unmapped for
// that marketplace. It is never reported as a missing header.
package mapping
