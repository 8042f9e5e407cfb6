// Package policy implements the egress DNS firewall decision semantics: two
// prioritized rules, ALLOW for allowlisted domains at priority 100 and BLOCK
// with NXDOMAIN for everything else at priority 200. Lower priority evaluates
// first and the first match wins, so reversing the order would block
// everything. The policy filters name resolution only; a caller that already
// knows a destination IP bypasses it entirely.
package policy

import (
	"sort"
	"strings"

	"github.com/openclaw/clawctl/internal/clawerrors"
)

// Rule priorities as provisioned in the Route 53 Resolver firewall rule
// group. AllowPriority must stay below BlockPriority.
const (
	AllowPriority = 100
	BlockPriority = 200

	// BlockResponse is the DNS response returned for non-allowlisted queries.
	BlockResponse = "NXDOMAIN"
)

type Action int

const (
	ActionAllow Action = iota
	ActionBlock
)

func (a Action) String() string {
	if a == ActionAllow {
		return "ALLOW"
	}
	return "BLOCK"
}

// Decision is the outcome of evaluating one domain against the policy. There
// is no third outcome: a query either resolves or returns NXDOMAIN.
type Decision struct {
	Action   Action
	Priority int
	// Matched is the allowlist entry that matched, or "*" for the block rule.
	Matched string
	// Response is BlockResponse for blocked queries, empty otherwise.
	Response string
}

// Evaluate runs the two-rule policy for one query domain. The allow rule at
// priority 100 is checked before the block-all rule at priority 200.
func Evaluate(allowlist []string, domain string) Decision {
	d := Normalize(domain)
	for _, entry := range allowlist {
		if matches(Normalize(entry), d) {
			return Decision{Action: ActionAllow, Priority: AllowPriority, Matched: entry}
		}
	}
	return Decision{Action: ActionBlock, Priority: BlockPriority, Matched: "*", Response: BlockResponse}
}

// Normalize lowercases a domain and strips one trailing dot; matching is
// case-insensitive and a trailing dot is insignificant.
func Normalize(domain string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
}

// matches reports whether the query domain matches one allowlist pattern.
// A wildcard pattern *.suffix matches any subdomain of suffix but never the
// apex itself.
func matches(pattern, domain string) bool {
	if pattern == "*" {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
		return strings.HasSuffix(domain, "."+suffix)
	}
	return pattern == domain
}

// ValidateEntry rejects allowlist entries the DNS firewall cannot express.
func ValidateEntry(entry string) error {
	e := strings.TrimSpace(entry)
	switch {
	case e == "":
		return clawerrors.ErrInvalidAllowlistEntry{Entry: entry, Reason: "entry is empty"}
	case e == "*":
		return clawerrors.ErrInvalidAllowlistEntry{Entry: entry, Reason: "bare wildcard would allow all egress"}
	case strings.ContainsAny(e, " \t"):
		return clawerrors.ErrInvalidAllowlistEntry{Entry: entry, Reason: "entry contains whitespace"}
	case strings.Contains(e, "://") || strings.Contains(e, "/"):
		return clawerrors.ErrInvalidAllowlistEntry{Entry: entry, Reason: "entry must be a domain name, not a URL"}
	case strings.Contains(strings.TrimPrefix(e, "*."), "*"):
		return clawerrors.ErrInvalidAllowlistEntry{Entry: entry, Reason: "wildcard is only allowed as a leading *. label"}
	case strings.HasPrefix(e, "*.") && strings.TrimPrefix(e, "*.") == "":
		return clawerrors.ErrInvalidAllowlistEntry{Entry: entry, Reason: "wildcard needs a suffix"}
	}
	return nil
}

// ValidateAllowlist validates the whole configured allow set.
func ValidateAllowlist(entries []string) error {
	if len(entries) == 0 {
		return clawerrors.ErrEmptyAllowlist{}
	}
	for _, e := range entries {
		if err := ValidateEntry(e); err != nil {
			return err
		}
	}
	return nil
}

// DiffDomains computes the additions and removals that converge the currently
// provisioned domain set to the desired one. Both results are sorted so the
// firewall update calls are deterministic; an empty diff means reapply is a
// no-op.
func DiffDomains(current, desired []string) (add, remove []string) {
	cur := make(map[string]bool, len(current))
	for _, d := range current {
		cur[Normalize(d)] = true
	}
	des := make(map[string]bool, len(desired))
	for _, d := range desired {
		des[Normalize(d)] = true
	}
	for d := range des {
		if !cur[d] {
			add = append(add, d)
		}
	}
	for d := range cur {
		if !des[d] {
			remove = append(remove, d)
		}
	}
	sort.Strings(add)
	sort.Strings(remove)
	return add, remove
}
