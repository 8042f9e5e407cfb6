package api

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	waftypes "github.com/aws/aws-sdk-go-v2/service/wafv2/types"

	"github.com/openclaw/clawctl/internal/models"
)

// rateLimitPerFiveMinutes is the per-IP request ceiling of the rate rule.
const rateLimitPerFiveMinutes = 2000

// ensureWebACL converges the CLOUDFRONT-scope web ACL: a per-IP rate limit
// plus the AWS managed Common and KnownBadInputs rule groups. The ACL lives
// in us-east-1 whatever region the stack deploys to.
func (d *Deployer) ensureWebACL(ctx context.Context) (string, error) {
	name := d.name("web-acl")
	if r := d.state.Lookup("aws_wafv2_web_acl", name); r != nil {
		return r.ARN, nil
	}

	visibility := func(metric string) *waftypes.VisibilityConfig {
		return &waftypes.VisibilityConfig{
			CloudWatchMetricsEnabled: true,
			SampledRequestsEnabled:   true,
			MetricName:               aws.String(metric),
		}
	}

	rules := []waftypes.Rule{
		{
			Name:     aws.String("rate-limit"),
			Priority: 0,
			Statement: &waftypes.Statement{
				RateBasedStatement: &waftypes.RateBasedStatement{
					Limit:            aws.Int64(rateLimitPerFiveMinutes),
					AggregateKeyType: waftypes.RateBasedStatementAggregateKeyTypeIp,
				},
			},
			Action:           &waftypes.RuleAction{Block: &waftypes.BlockAction{}},
			VisibilityConfig: visibility("rate-limit"),
		},
		{
			Name:     aws.String("aws-common"),
			Priority: 1,
			Statement: &waftypes.Statement{
				ManagedRuleGroupStatement: &waftypes.ManagedRuleGroupStatement{
					VendorName: aws.String("AWS"),
					Name:       aws.String("AWSManagedRulesCommonRuleSet"),
				},
			},
			OverrideAction:   &waftypes.OverrideAction{None: &waftypes.NoneAction{}},
			VisibilityConfig: visibility("aws-common"),
		},
		{
			Name:     aws.String("aws-known-bad-inputs"),
			Priority: 2,
			Statement: &waftypes.Statement{
				ManagedRuleGroupStatement: &waftypes.ManagedRuleGroupStatement{
					VendorName: aws.String("AWS"),
					Name:       aws.String("AWSManagedRulesKnownBadInputsRuleSet"),
				},
			},
			OverrideAction:   &waftypes.OverrideAction{None: &waftypes.NoneAction{}},
			VisibilityConfig: visibility("aws-known-bad-inputs"),
		},
	}

	out, err := d.waf.CreateWebACL(ctx, &wafv2.CreateWebACLInput{
		Name:             aws.String(name),
		Scope:            waftypes.ScopeCloudfront,
		DefaultAction:    &waftypes.DefaultAction{Allow: &waftypes.AllowAction{}},
		Rules:            rules,
		VisibilityConfig: visibility(name),
	})
	if err != nil {
		return "", fmt.Errorf("Unable to create the web ACL. Error: %v", err)
	}
	arn := aws.ToString(out.Summary.ARN)
	return arn, d.record(models.Resource{Type: "aws_wafv2_web_acl", Name: name,
		ID: aws.ToString(out.Summary.Id), ARN: arn,
		Attributes: map[string]string{"scope": "CLOUDFRONT"}})
}

func (d *Deployer) deleteWebACL(ctx context.Context, r *models.Resource) error {
	got, err := d.waf.GetWebACL(ctx, &wafv2.GetWebACLInput{
		Id:    aws.String(r.ID),
		Name:  aws.String(r.Name),
		Scope: waftypes.ScopeCloudfront,
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("Unable to read the web ACL lock token. Error: %v", err)
	}
	_, err = d.waf.DeleteWebACL(ctx, &wafv2.DeleteWebACLInput{
		Id:        aws.String(r.ID),
		Name:      aws.String(r.Name),
		Scope:     waftypes.ScopeCloudfront,
		LockToken: got.LockToken,
	})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}
