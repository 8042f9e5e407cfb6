package clawerrors

import "fmt"

type ErrInvalidRegion struct {
	Region string
}

func (e ErrInvalidRegion) Error() string {
	return fmt.Sprintf("region %q is not a valid AWS region name", e.Region)
}

type ErrInvalidEnvironment struct {
	Environment string
}

func (e ErrInvalidEnvironment) Error() string {
	return fmt.Sprintf("environment %q is not one of dev, staging, prod", e.Environment)
}

type ErrEmptyAllowlist struct{}

func (ErrEmptyAllowlist) Error() string {
	return "allowed_domains must contain at least one entry"
}

type ErrInvalidAllowlistEntry struct {
	Entry  string
	Reason string
}

func (e ErrInvalidAllowlistEntry) Error() string {
	return fmt.Sprintf("allowlist entry %q is invalid: %s", e.Entry, e.Reason)
}

type ErrInvalidGatewayVersion struct {
	Version string
	Err     error
}

func (e ErrInvalidGatewayVersion) Error() string {
	return fmt.Sprintf("gateway_version %q is not valid semver. Error: %v", e.Version, e.Err)
}
