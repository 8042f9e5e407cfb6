package api

import (
	"context"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/route53resolver"
	"github.com/sourcegraph/conc/pool"

	"github.com/openclaw/clawctl/internal/clawerrors"
	"github.com/openclaw/clawctl/internal/models"
)

// StatusRow is one live-status line for the status table.
type StatusRow struct {
	Resource string
	Name     string
	ID       string
	Status   string
}

// Status polls the key resources of the deployment concurrently and returns
// their live states sorted by resource type.
func Status(ctx context.Context) ([]StatusRow, error) {
	d, err := NewDeployer(ctx)
	if err != nil {
		return nil, err
	}
	return d.Status(ctx)
}

func (d *Deployer) Status(ctx context.Context) ([]StatusRow, error) {
	if d.state.Serial == 0 {
		return nil, clawerrors.ErrStateNotFound{Environment: d.cfg.Environment}
	}

	var mu sync.Mutex
	rows := make([]StatusRow, 0, len(d.state.Resources))
	appendRow := func(row StatusRow) {
		mu.Lock()
		rows = append(rows, row)
		mu.Unlock()
	}

	p := pool.New().WithErrors().WithContext(ctx)
	for i := range d.state.Resources {
		r := d.state.Resources[i]
		p.Go(func(ctx context.Context) error {
			status, err := d.resourceStatus(ctx, &r)
			if err != nil {
				return err
			}
			appendRow(StatusRow{Resource: r.Type, Name: r.Name, ID: r.ID, Status: status})
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Resource != rows[j].Resource {
			return rows[i].Resource < rows[j].Resource
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

// resourceStatus polls the services that expose a meaningful live state;
// everything else reports as recorded (created or adopted).
func (d *Deployer) resourceStatus(ctx context.Context, r *models.Resource) (string, error) {
	if r.Adopted {
		return "adopted", nil
	}
	switch r.Type {
	case "aws_instance":
		out, err := d.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{r.ID}})
		if err != nil || len(out.Reservations) == 0 || len(out.Reservations[0].Instances) == 0 {
			return statusOrError("unknown", err)
		}
		return string(out.Reservations[0].Instances[0].State.Name), nil
	case "aws_nat_gateway":
		out, err := d.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{NatGatewayIds: []string{r.ID}})
		if err != nil || len(out.NatGateways) == 0 {
			return statusOrError("unknown", err)
		}
		return string(out.NatGateways[0].State), nil
	case "aws_lb":
		out, err := d.elb.DescribeLoadBalancers(ctx, &elbv2.DescribeLoadBalancersInput{LoadBalancerArns: []string{r.ARN}})
		if err != nil || len(out.LoadBalancers) == 0 {
			return statusOrError("unknown", err)
		}
		return string(out.LoadBalancers[0].State.Code), nil
	case "aws_lb_target_group":
		out, err := d.elb.DescribeTargetHealth(ctx, &elbv2.DescribeTargetHealthInput{TargetGroupArn: aws.String(r.ARN)})
		if err != nil || len(out.TargetHealthDescriptions) == 0 {
			return statusOrError("unknown", err)
		}
		return string(out.TargetHealthDescriptions[0].TargetHealth.State), nil
	case "aws_cloudfront_distribution":
		out, err := d.cf.GetDistribution(ctx, &cloudfront.GetDistributionInput{Id: aws.String(r.ID)})
		if err != nil {
			return statusOrError("unknown", err)
		}
		return aws.ToString(out.Distribution.Status), nil
	case "aws_route53_resolver_firewall_rule_group_association":
		out, err := d.resolver.GetFirewallRuleGroupAssociation(ctx, &route53resolver.GetFirewallRuleGroupAssociationInput{
			FirewallRuleGroupAssociationId: aws.String(r.ID),
		})
		if err != nil {
			return statusOrError("unknown", err)
		}
		return string(out.FirewallRuleGroupAssociation.Status), nil
	default:
		return "created", nil
	}
}

// statusOrError keeps the table rendering even when one poll fails: gone
// resources show as unknown instead of failing the whole status run.
func statusOrError(fallback string, err error) (string, error) {
	if err != nil && !isNotFound(err) {
		return "", err
	}
	return fallback, nil
}
