// Package schemas embeds the JSON Schemas for the artifacts profile2pdf reads and writes.
package schemas

import "embed"

// Schema file names.
const (
	Resume      = "resume.schema.json"
	FetchResult = "fetch_result.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Load returns the content of the named schema.
func Load(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists every embedded schema.
func Names() []string {
	entries, _ := files.ReadDir(".")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
