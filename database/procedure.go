package database

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
)

// DefaultProcedure is the server-side routine that finalizes a record.
const DefaultProcedure = "sp_confirm_record"

var procedurePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

//go:embed procedure_postgres.sql
var procedureTemplate string

func procedureDDL(name string) string {
	return strings.ReplaceAll(procedureTemplate, DefaultProcedure, name)
}

func procedureCall(name string) string {
	return fmt.Sprintf("SELECT %s(?, ?, ?)", name)
}

// confirmationMessage mirrors the acknowledgement text of the postgres routine.
func confirmationMessage(id int64, status, confirmer string) string {
	return fmt.Sprintf("Record %d marked %s by %s", id, status, confirmer)
}
