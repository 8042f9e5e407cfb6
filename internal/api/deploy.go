package api

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/sirupsen/logrus"

	"github.com/openclaw/clawctl/internal/clawerrors"
	"github.com/openclaw/clawctl/internal/version"
)

// Deploy converges the full gateway stack for the configured environment.
func Deploy(ctx context.Context) error {
	d, err := NewDeployer(ctx)
	if err != nil {
		return err
	}
	return d.Deploy(ctx)
}

type deployStep struct {
	name   string
	ensure func(context.Context) error
}

// Deploy runs the convergence steps in dependency order, saving state after
// every step. Convergence is fail-fast with no custom retry: readiness waits
// are delegated to the SDK waiters, everything else to AWS API validation.
func (d *Deployer) Deploy(ctx context.Context) error {
	if err := d.preflight(ctx); err != nil {
		return err
	}
	d.warnOnDowngrade()

	steps := []deployStep{
		{"network", d.ensureNetwork},
		{"egress firewall", d.ensureFirewall},
		{"secret", d.ensureSecret},
		{"identity", d.ensureIdentity},
		{"log groups", d.ensureLogGroups},
		{"compute", d.ensureCompute},
		{"ingress", d.ensureIngress},
		{"monitoring", d.ensureMonitoring},
		{"janitor", d.ensureJanitor},
	}
	for _, step := range steps {
		logrus.Infof("converging %s", step.name)
		if err := step.ensure(ctx); err != nil {
			// Whatever was created so far is in the saved state, so a
			// later destroy can clean it up.
			return clawerrors.ErrEnsure{Step: step.name, Err: err}
		}
	}

	if err := d.recordOutputs(); err != nil {
		return err
	}
	logrus.Infof("environment %s converged, %d resources", d.cfg.Environment, len(d.state.Resources))
	return nil
}

func (d *Deployer) preflight(ctx context.Context) error {
	out, err := d.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return clawerrors.ErrPreflight{Err: err}
	}
	d.account = aws.ToString(out.Account)
	logrus.Debugf("deploying as %s in account %s", aws.ToString(out.Arn), d.account)
	return nil
}

// warnOnDowngrade compares the configured gateway version against the one
// recorded in state. Deploying an older release is allowed but loud.
func (d *Deployer) warnOnDowngrade() {
	instance := d.state.Lookup("aws_instance", d.name("gateway"))
	if instance == nil || d.cfg.GatewayVersion == "" {
		return
	}
	recorded := instance.Attr("gateway_version")
	if version.IsDowngrade(recorded, d.cfg.GatewayVersion) {
		logrus.Warnf("gateway_version %s is older than the deployed %s", d.cfg.GatewayVersion, recorded)
	}
}

func (d *Deployer) recordOutputs() error {
	distribution := d.state.Lookup("aws_cloudfront_distribution", d.name("distribution"))
	instance := d.state.Lookup("aws_instance", d.name("gateway"))
	secret := d.state.Lookup("aws_secretsmanager_secret", d.name("gateway-keys"))
	logGroup := d.logGroupName("gateway")

	d.state.Outputs = buildOutputs(outputsInput{
		Region:             d.cfg.Region,
		DistributionID:     distribution.ID,
		DistributionDomain: distribution.Attr("domain_name"),
		InstanceID:         instance.ID,
		SecretARN:          secret.ARN,
		LogGroup:           logGroup,
	})
	if err := d.store.Save(d.state); err != nil {
		return fmt.Errorf("Unable to save outputs. Error: %v", err)
	}
	return nil
}
