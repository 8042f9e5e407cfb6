package models

// Resource is one managed cloud resource recorded in the state document.
// Type uses terraform-style type strings (aws_vpc, aws_instance, ...) so the
// document stays readable next to the infrastructure it mirrors. Adopted
// resources existed before clawctl ran and are never destroyed by it.
type Resource struct {
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	ID         string            `json:"id"`
	ARN        string            `json:"arn,omitempty"`
	Adopted    bool              `json:"adopted,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Attr returns a recorded attribute value, or the empty string.
func (r *Resource) Attr(key string) string {
	if r == nil || r.Attributes == nil {
		return ""
	}
	return r.Attributes[key]
}

// SetAttr records an attribute value, allocating the map on first use.
func (r *Resource) SetAttr(key, value string) {
	if r.Attributes == nil {
		r.Attributes = map[string]string{}
	}
	r.Attributes[key] = value
}
