package storage

import (
	"strconv"
	"strings"
)

// intArray сериализует срез в литерал массива PostgreSQL.
// Параметр в запросе должен явно приводиться к INT[].
func intArray(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// textArray сериализует срез строк в литерал массива PostgreSQL.
// Значения экранируются и заключаются в кавычки.
func textArray(tags []string) string {
	parts := make([]string, len(tags))
	for i, tag := range tags {
		escaped := strings.ReplaceAll(tag, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		parts[i] = `"` + escaped + `"`
	}
	return "{" + strings.Join(parts, ",") + "}"
}
