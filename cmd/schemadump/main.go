// Command schemadump prints the DDL of the recordkeeper tables for a dialect,
// for use as an Atlas external schema.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"ariga.io/atlas-provider-gorm/gormschema"
	"github.com/ubuygold/recordkeeper/internal/db"
)

func main() {
	dialect := flag.String("dialect", "postgres", "target dialect: sqlite, postgres or mysql")
	flag.Parse()

	stmts, err := dump(*dialect)
	if err != nil {
		slog.Error("Failed to load GORM models", "error", err)
		os.Exit(1)
	}
	fmt.Println(stmts)
}

func dump(dialect string) (string, error) {
	switch dialect {
	case "sqlite", "postgres", "mysql":
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
	return gormschema.New(dialect).Load(db.Models()...)
}
