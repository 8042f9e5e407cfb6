package models

// State is the deployment state document for one environment. It follows the
// terraform state lifecycle: resources are declared, applied, referenced by
// ARN and eventually destroyed.
type State struct {
	Version     int        `json:"version"`
	Serial      int64      `json:"serial"`
	Lineage     string     `json:"lineage"`
	Environment string     `json:"environment"`
	Region      string     `json:"region"`
	Outputs     *Outputs   `json:"outputs"`
	Resources   []Resource `json:"resources"`
}

// Lookup returns the recorded resource with the given type and name, or nil.
func (s *State) Lookup(resourceType, name string) *Resource {
	for i := range s.Resources {
		if s.Resources[i].Type == resourceType && s.Resources[i].Name == name {
			return &s.Resources[i]
		}
	}
	return nil
}

// Put records a resource, replacing any existing entry with the same type and
// name so that reapplying never duplicates entries.
func (s *State) Put(r Resource) {
	for i := range s.Resources {
		if s.Resources[i].Type == r.Type && s.Resources[i].Name == r.Name {
			s.Resources[i] = r
			return
		}
	}
	s.Resources = append(s.Resources, r)
}

// Remove drops a resource entry. Removing an absent entry is a no-op.
func (s *State) Remove(resourceType, name string) {
	for i := range s.Resources {
		if s.Resources[i].Type == resourceType && s.Resources[i].Name == name {
			s.Resources = append(s.Resources[:i], s.Resources[i+1:]...)
			return
		}
	}
}
