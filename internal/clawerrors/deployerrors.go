package clawerrors

import "fmt"

type ErrPreflight struct {
	Err error
}

func (e ErrPreflight) Error() string {
	return fmt.Sprintf("Unable to reach AWS with the configured credentials. Error: %v", e.Err)
}

type ErrEnsure struct {
	Step string
	Err  error
}

func (e ErrEnsure) Error() string {
	return fmt.Sprintf("Unable to converge %s. Error: %v", e.Step, e.Err)
}

func (e ErrEnsure) Unwrap() error { return e.Err }

type ErrTeardown struct {
	Resource string
	Err      error
}

func (e ErrTeardown) Error() string {
	return fmt.Sprintf("Unable to destroy %s. Error: %v", e.Resource, e.Err)
}

func (e ErrTeardown) Unwrap() error { return e.Err }

type ErrStateNotFound struct {
	Environment string
}

func (e ErrStateNotFound) Error() string {
	return fmt.Sprintf("no deployment state found for environment %q, run `clawctl deploy` first", e.Environment)
}

type ErrUnknownSecretField struct {
	Field string
}

func (e ErrUnknownSecretField) Error() string {
	return fmt.Sprintf("unknown secret field %q, expected anthropic_api_key or openai_api_key", e.Field)
}

type ErrUnknownJanitorTask struct {
	Task string
}

func (e ErrUnknownJanitorTask) Error() string {
	return fmt.Sprintf("unknown janitor task %q, expected docker-prune or patch-scan", e.Task)
}
