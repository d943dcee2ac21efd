// Package doctor runs diagnostic sections for the stacktracer CLI.
package doctor

import (
	"fmt"
	"io"
)

// Section is one group of diagnostics.
type Section interface {
	// Name returns the section title (e.g., "Capture")
	Name() string

	// Print writes the section's findings to w. A returned error marks the
	// section as failed.
	Print(w io.Writer) error
}

// Registry holds sections in registration order.
type Registry struct {
	sections []Section
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a section to the registry.
func (r *Registry) Register(s Section) {
	r.sections = append(r.sections, s)
}

// Sections returns all registered sections.
func (r *Registry) Sections() []Section {
	return r.sections
}

// Run prints every section to w, each preceded by header(name). A failing
// section does not stop the rest. Run returns the names of failed sections.
func (r *Registry) Run(w io.Writer, header func(name string) string) []string {
	var failed []string
	for _, s := range r.sections {
		fmt.Fprintln(w, header(s.Name()))
		if err := s.Print(w); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			failed = append(failed, s.Name())
		}
		fmt.Fprintln(w)
	}
	return failed
}
