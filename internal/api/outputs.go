package api

import (
	"context"
	"fmt"

	"github.com/openclaw/clawctl/internal/clawerrors"
	"github.com/openclaw/clawctl/internal/models"
)

type outputsInput struct {
	Region             string
	DistributionID     string
	DistributionDomain string
	InstanceID         string
	SecretARN          string
	LogGroup           string
}

// buildOutputs assembles the post-deploy outputs, including the operational
// command strings: thin wrappers over the AWS CLI, not protocols of our own.
func buildOutputs(in outputsInput) *models.Outputs {
	return &models.Outputs{
		GatewayEndpoint: fmt.Sprintf("https://%s", in.DistributionDomain),
		DistributionID:  in.DistributionID,
		InstanceID:      in.InstanceID,
		SecretARN:       in.SecretARN,
		LogGroup:        in.LogGroup,
		TailLogsCommand: fmt.Sprintf("aws logs tail %s --follow --region %s", in.LogGroup, in.Region),
		SessionCommand:  fmt.Sprintf("aws ssm start-session --target %s --region %s", in.InstanceID, in.Region),
		PutSecretCommand: fmt.Sprintf(
			"aws secretsmanager put-secret-value --secret-id %s --secret-string '{\"anthropic_api_key\":\"...\",\"openai_api_key\":\"...\"}' --region %s",
			in.SecretARN, in.Region),
	}
}

// Outputs returns the outputs recorded by the last deploy.
func Outputs(ctx context.Context) (*models.Outputs, error) {
	d, err := NewDeployer(ctx)
	if err != nil {
		return nil, err
	}
	if d.state.Outputs == nil {
		return nil, clawerrors.ErrStateNotFound{Environment: d.cfg.Environment}
	}
	return d.state.Outputs, nil
}
