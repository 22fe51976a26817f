package migrations

import "embed"

// Dir is the directory inside FS that goose reads from.
const Dir = "."

//go:embed *.sql
var FS embed.FS
