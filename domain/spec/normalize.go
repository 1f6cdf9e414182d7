package spec

import "strings"

// Normalizer adapts a vendor-specific specification shape into a canonical
// paths map. Detect must be cheap; Paths is only called after Detect
// returns true.
type Normalizer interface {
	// Detect reports whether this normalizer understands the document shape.
	Detect(raw map[string]any) bool

	// Paths synthesizes a canonical paths map from the document.
	Paths(raw map[string]any) map[string]any
}

// normalizers are tried in order when a document lacks a paths map.
var normalizers = []Normalizer{
	flatOperations{},
}

// flatOperations handles vendor extensions that publish a flat operation
// list instead of a paths map: a top-level "x-*Operations" array whose
// entries carry "path" and "method" fields (e.g. x-stripeOperations).
type flatOperations struct{}

func (flatOperations) Detect(raw map[string]any) bool {
	return findOperationList(raw) != nil
}

func (flatOperations) Paths(raw map[string]any) map[string]any {
	ops := findOperationList(raw)
	paths := make(map[string]any)

	for _, entry := range ops {
		op, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		path, _ := op["path"].(string)
		if path == "" {
			continue
		}

		method := "get"
		if m, ok := op["method"].(string); ok && m != "" {
			method = strings.ToLower(m)
		}

		item, ok := paths[path].(map[string]any)
		if !ok {
			item = make(map[string]any)
			paths[path] = item
		}

		operation := make(map[string]any)
		if id, ok := op["operationId"].(string); ok && id != "" {
			operation["summary"] = id
		}
		if desc, ok := op["description"].(string); ok && desc != "" {
			operation["description"] = desc
		}
		item[method] = operation
	}

	return paths
}

// findOperationList locates the first top-level vendor-extension array
// whose entries look like flat operations.
func findOperationList(raw map[string]any) []any {
	for key, value := range raw {
		if !strings.HasPrefix(key, "x-") || !strings.HasSuffix(key, "Operations") {
			continue
		}
		list, ok := value.([]any)
		if !ok || len(list) == 0 {
			continue
		}
		if first, ok := list[0].(map[string]any); ok {
			if _, hasPath := first["path"]; hasPath {
				return list
			}
		}
	}
	return nil
}
