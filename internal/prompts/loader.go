// Package prompts holds the LLM prompt templates, embedded as JSON files.
//
// Each file is a flat object mapping a prompt name to its template.
// Templates use {{.Name}} placeholders filled by Format.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ResumeFile is the prompt file used by resume parsing
const ResumeFile = "resume.json"

//go:embed *.json
var embedded embed.FS

// library is every embedded prompt file, decoded on first use
var library = sync.OnceValues(func() (map[string]map[string]string, error) {
	names, err := fs.Glob(embedded, "*.json")
	if err != nil {
		return nil, err
	}

	lib := make(map[string]map[string]string, len(names))
	for _, name := range names {
		raw, err := embedded.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var set map[string]string
		if err := json.Unmarshal(raw, &set); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		lib[name] = set
	}
	return lib, nil
})

func lookupFile(name string) (map[string]string, error) {
	lib, err := library()
	if err != nil {
		return nil, err
	}
	set, ok := lib[name]
	if !ok {
		return nil, fmt.Errorf("failed to read prompt file %s: not embedded", name)
	}
	return set, nil
}

// Get returns the template stored under key in file
func Get(file, key string) (string, error) {
	set, err := lookupFile(file)
	if err != nil {
		return "", err
	}
	if tmpl, ok := set[key]; ok {
		return tmpl, nil
	}
	return "", fmt.Errorf("prompt %q not found in %s", key, file)
}

// MustGet panics when the prompt is missing
func MustGet(file, key string) string {
	tmpl, err := Get(file, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return tmpl
}

// Format fills {{.Name}} placeholders from data. Placeholders without a value stay in place.
func Format(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	oldnew := make([]string, 0, 2*len(data))
	for name, value := range data {
		oldnew = append(oldnew, "{{."+name+"}}", value)
	}
	return strings.NewReplacer(oldnew...).Replace(tmpl)
}

// List returns the prompt names in file, sorted
func List(file string) ([]string, error) {
	set, err := lookupFile(file)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(set)), nil
}
