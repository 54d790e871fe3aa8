package neo4j

import "github.com/neo4j/neo4j-go-driver/v5/neo4j"

// Value coercion for driver records. The bolt protocol delivers
// integers as int64 and lists as []any; absent properties come back as
// nil. Queries may legitimately return nulls from OPTIONAL MATCH, so
// every helper tolerates nil.

func recordValue(rec *neo4j.Record, key string) any {
	v, _ := rec.Get(key)
	return v
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	i, _ := v.(int64)
	return int(i)
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asStringList flattens a driver list into the non-empty strings it
// contains.
func asStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// asMapList returns the map entries of a driver list.
func asMapList(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
