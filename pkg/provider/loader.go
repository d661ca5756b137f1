/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: loader.go
Description: Loads schema documents from glob patterns and follows their imports
through an IRI to path mapping.
*/

package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// LoadDocuments reads every document matched by patterns, resolves imports and
// returns a provider over the merged schema. The first matched document is the
// main ontology.
func LoadDocuments(patterns []string, mapping map[string]string) (*DocumentProvider, error) {
	var paths []string
	seenPath := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid schema pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("schema pattern %q matched no files", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, err
			}
			if !seenPath[abs] {
				seenPath[abs] = true
				paths = append(paths, abs)
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no schema files given")
	}

	var docs []*Document
	loaded := make(map[string]bool)
	queue := append([]string(nil), paths...)

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
		}
		doc, err := ParseDocument(data, path)
		if err != nil {
			return nil, err
		}
		if loaded[doc.IRI] {
			continue
		}
		loaded[doc.IRI] = true
		docs = append(docs, doc)

		for _, imp := range doc.Imports {
			if loaded[imp] {
				continue
			}
			target, ok := mapping[imp]
			if !ok {
				return nil, fmt.Errorf("%s: unresolved import %s", path, imp)
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(path), target)
			}
			queue = append(queue, target)
		}
	}

	return NewDocumentProvider(docs...)
}
