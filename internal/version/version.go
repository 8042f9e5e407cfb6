package version

import (
	"github.com/masterminds/semver"

	"github.com/openclaw/clawctl/internal/clawerrors"
)

// Validate checks that a configured gateway version parses as semver.
func Validate(v string) error {
	if _, err := semver.NewVersion(v); err != nil {
		return clawerrors.ErrInvalidGatewayVersion{Version: v, Err: err}
	}
	return nil
}

// IsDowngrade reports whether desired is an older release than current.
// Unparseable versions (including the empty string and "latest") never count
// as a downgrade.
func IsDowngrade(current, desired string) bool {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	des, err := semver.NewVersion(desired)
	if err != nil {
		return false
	}
	return des.LessThan(cur)
}
