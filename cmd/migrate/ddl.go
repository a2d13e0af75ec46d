package main

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner/spansql"
)

// existingObjects returns the names of the tables and indexes created by
// the database's current DDL, keyed by objectKey.
func existingObjects(statements []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(statements) == 0 {
		return existing, nil
	}

	ddl, err := spansql.ParseDDL("database", strings.Join(statements, ";\n"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DDL: %w", err)
	}
	for _, stmt := range ddl.List {
		if key, ok := objectKey(stmt); ok {
			existing[key] = true
		}
	}
	return existing, nil
}

// pendingStatements parses a migration file and returns the statements
// whose table or index does not exist yet.
func pendingStatements(filename, content string, existing map[string]bool) ([]string, error) {
	ddl, err := spansql.ParseDDL(filename, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	var pending []string
	for _, stmt := range ddl.List {
		if key, ok := objectKey(stmt); ok && existing[key] {
			continue
		}
		pending = append(pending, stmt.SQL())
	}
	return pending, nil
}

func objectKey(stmt spansql.DDLStmt) (string, bool) {
	switch s := stmt.(type) {
	case *spansql.CreateTable:
		return "table:" + strings.ToLower(string(s.Name)), true
	case *spansql.CreateIndex:
		return "index:" + strings.ToLower(string(s.Name)), true
	}
	return "", false
}
