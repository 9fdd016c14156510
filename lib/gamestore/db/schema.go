package db

import _ "embed"

//go:embed schema.sql
var Schema string

// Table is the name of the only table in the schema.
const Table = "Game"
