package models

// Outputs are the operator-facing values produced by a deploy: the public
// endpoint, the identifiers needed for day-two operations, and ready-to-paste
// shell command strings wrapping the AWS CLI.
type Outputs struct {
	GatewayEndpoint  string `json:"gateway_endpoint" yaml:"gateway_endpoint"`
	DistributionID   string `json:"distribution_id" yaml:"distribution_id"`
	InstanceID       string `json:"instance_id" yaml:"instance_id"`
	SecretARN        string `json:"secret_arn" yaml:"secret_arn"`
	LogGroup         string `json:"log_group" yaml:"log_group"`
	TailLogsCommand  string `json:"tail_logs_command" yaml:"tail_logs_command"`
	SessionCommand   string `json:"session_command" yaml:"session_command"`
	PutSecretCommand string `json:"put_secret_command" yaml:"put_secret_command"`
}
