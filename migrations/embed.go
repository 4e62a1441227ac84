package migrations

import "embed"

// FS SQL-миграции, применяемые goose при старте сервиса
//
//go:embed *.sql
var FS embed.FS
