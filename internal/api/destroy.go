package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/guardduty"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/inspector2"
	inspectortypes "github.com/aws/aws-sdk-go-v2/service/inspector2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/route53resolver"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/sirupsen/logrus"

	"github.com/openclaw/clawctl/internal/clawerrors"
	"github.com/openclaw/clawctl/internal/models"
)

// secretRecoveryDays is the default recovery window on secret deletion.
// Force-destroy skips the window entirely.
const secretRecoveryDays = 7

// Destroy tears down everything recorded in the environment's state document
// in exact reverse dependency order. Adopted resources are skipped. When the
// teardown completes the state document is removed.
func Destroy(ctx context.Context, force bool) error {
	d, err := NewDeployer(ctx)
	if err != nil {
		return err
	}
	return d.Destroy(ctx, force)
}

func (d *Deployer) Destroy(ctx context.Context, force bool) error {
	if d.state.Serial == 0 {
		return clawerrors.ErrStateNotFound{Environment: d.cfg.Environment}
	}
	if err := d.preflight(ctx); err != nil {
		return err
	}

	for i := len(d.state.Resources) - 1; i >= 0; i-- {
		r := d.state.Resources[i]
		if r.Adopted {
			logrus.Infof("skipping adopted %s %s", r.Type, r.ID)
			d.state.Remove(r.Type, r.Name)
			continue
		}
		logrus.Infof("destroying %s %s", r.Type, r.ID)
		if err := d.deleteResource(ctx, &r, force); err != nil {
			// Keep the entry so a rerun picks up where this one failed.
			if saveErr := d.store.Save(d.state); saveErr != nil {
				logrus.Errorf("unable to save state during teardown: %v", saveErr)
			}
			return clawerrors.ErrTeardown{Resource: fmt.Sprintf("%s %s", r.Type, r.Name), Err: err}
		}
		d.state.Remove(r.Type, r.Name)
		if err := d.store.Save(d.state); err != nil {
			return fmt.Errorf("Unable to save state during teardown. Error: %v", err)
		}
	}

	if err := d.store.Delete(d.cfg.Environment); err != nil {
		return err
	}
	logrus.Infof("environment %s destroyed", d.cfg.Environment)
	return nil
}

// deleteResource dispatches on the terraform-style type string. Not-found
// errors are success: the resource is already gone.
func (d *Deployer) deleteResource(ctx context.Context, r *models.Resource, force bool) error {
	var err error
	switch r.Type {
	case "aws_ssm_patch_baseline":
		err = d.deletePatchBaseline(ctx, r)
	case "aws_cloudwatch_event_rule":
		err = d.deleteEventRule(ctx, r)
	case "aws_lambda_function":
		_, err = d.lambda.DeleteFunction(ctx, &lambda.DeleteFunctionInput{FunctionName: aws.String(r.Name)})
	case "aws_inspector2_enabler":
		_, err = d.inspector.Disable(ctx, &inspector2.DisableInput{
			AccountIds:    []string{r.ID},
			ResourceTypes: []inspectortypes.ResourceScanType{inspectortypes.ResourceScanTypeEc2},
		})
	case "aws_guardduty_detector":
		_, err = d.guardduty.DeleteDetector(ctx, &guardduty.DeleteDetectorInput{DetectorId: aws.String(r.ID)})
	case "aws_cloudwatch_metric_alarm":
		_, err = d.cw.DeleteAlarms(ctx, &cloudwatch.DeleteAlarmsInput{AlarmNames: []string{r.ID}})
	case "aws_cloudwatch_log_group":
		_, err = d.logs.DeleteLogGroup(ctx, &cloudwatchlogs.DeleteLogGroupInput{LogGroupName: aws.String(r.ID)})
	case "aws_cloudfront_distribution":
		err = d.deleteDistribution(ctx, r)
	case "aws_cloudfront_vpc_origin":
		err = d.deleteVpcOrigin(ctx, r)
	case "aws_wafv2_web_acl":
		err = d.deleteWebACL(ctx, r)
	case "aws_lb_listener":
		_, err = d.elb.DeleteListener(ctx, &elbv2.DeleteListenerInput{ListenerArn: aws.String(r.ARN)})
	case "aws_lb_target_group":
		_, err = d.elb.DeleteTargetGroup(ctx, &elbv2.DeleteTargetGroupInput{TargetGroupArn: aws.String(r.ARN)})
	case "aws_lb":
		_, err = d.elb.DeleteLoadBalancer(ctx, &elbv2.DeleteLoadBalancerInput{LoadBalancerArn: aws.String(r.ARN)})
	case "aws_instance":
		err = d.terminateInstance(ctx, r)
	case "aws_security_group":
		_, err = d.ec2.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{GroupId: aws.String(r.ID)})
	case "aws_iam_instance_profile":
		err = d.deleteInstanceProfile(ctx, r)
	case "aws_iam_role":
		err = d.deleteRole(ctx, r)
	case "aws_secretsmanager_secret":
		err = d.deleteSecret(ctx, r, force)
	case "aws_route53_resolver_firewall_rule_group_association":
		_, err = d.resolver.DisassociateFirewallRuleGroup(ctx, &route53resolver.DisassociateFirewallRuleGroupInput{
			FirewallRuleGroupAssociationId: aws.String(r.ID),
		})
	case "aws_route53_resolver_firewall_rule_group":
		err = d.deleteRuleGroup(ctx, r)
	case "aws_route53_resolver_firewall_domain_list":
		_, err = d.resolver.DeleteFirewallDomainList(ctx, &route53resolver.DeleteFirewallDomainListInput{
			FirewallDomainListId: aws.String(r.ID),
		})
	case "aws_route_table":
		err = d.deleteRouteTable(ctx, r)
	case "aws_nat_gateway":
		err = d.deleteNatGateway(ctx, r)
	case "aws_eip":
		_, err = d.ec2.ReleaseAddress(ctx, &ec2.ReleaseAddressInput{AllocationId: aws.String(r.ID)})
	case "aws_internet_gateway":
		err = d.deleteInternetGateway(ctx, r)
	case "aws_subnet":
		_, err = d.ec2.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: aws.String(r.ID)})
	case "aws_vpc":
		_, err = d.ec2.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: aws.String(r.ID)})
	default:
		return fmt.Errorf("unknown resource type %s in state", r.Type)
	}
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func (d *Deployer) deletePatchBaseline(ctx context.Context, r *models.Resource) error {
	if group := r.Attr("patch_group"); group != "" {
		if _, err := d.ssm.DeregisterPatchBaselineForPatchGroup(ctx, &ssm.DeregisterPatchBaselineForPatchGroupInput{
			BaselineId: aws.String(r.ID),
			PatchGroup: aws.String(group),
		}); err != nil && !isNotFound(err) {
			return err
		}
	}
	_, err := d.ssm.DeletePatchBaseline(ctx, &ssm.DeletePatchBaselineInput{BaselineId: aws.String(r.ID)})
	return err
}

func (d *Deployer) deleteEventRule(ctx context.Context, r *models.Resource) error {
	if _, err := d.events.RemoveTargets(ctx, &eventbridge.RemoveTargetsInput{
		Rule: aws.String(r.ID),
		Ids:  []string{"janitor"},
	}); err != nil && !isNotFound(err) {
		return err
	}
	_, err := d.events.DeleteRule(ctx, &eventbridge.DeleteRuleInput{Name: aws.String(r.ID)})
	return err
}

// deleteDistribution disables the distribution first; CloudFront only deletes
// disabled, fully propagated distributions.
func (d *Deployer) deleteDistribution(ctx context.Context, r *models.Resource) error {
	got, err := d.cf.GetDistributionConfig(ctx, &cloudfront.GetDistributionConfigInput{Id: aws.String(r.ID)})
	if err != nil {
		return err
	}
	if aws.ToBool(got.DistributionConfig.Enabled) {
		got.DistributionConfig.Enabled = aws.Bool(false)
		updated, err := d.cf.UpdateDistribution(ctx, &cloudfront.UpdateDistributionInput{
			Id:                 aws.String(r.ID),
			IfMatch:            got.ETag,
			DistributionConfig: got.DistributionConfig,
		})
		if err != nil {
			return err
		}
		logrus.Infof("waiting for distribution %s to disable", r.ID)
		waiter := cloudfront.NewDistributionDeployedWaiter(d.cf)
		if err := waiter.Wait(ctx, &cloudfront.GetDistributionInput{Id: aws.String(r.ID)}, distributionDeployedWait); err != nil {
			return err
		}
		got.ETag = updated.ETag
	}
	_, err = d.cf.DeleteDistribution(ctx, &cloudfront.DeleteDistributionInput{
		Id:      aws.String(r.ID),
		IfMatch: got.ETag,
	})
	return err
}

func (d *Deployer) deleteVpcOrigin(ctx context.Context, r *models.Resource) error {
	got, err := d.cf.GetVpcOrigin(ctx, &cloudfront.GetVpcOriginInput{Id: aws.String(r.ID)})
	if err != nil {
		return err
	}
	_, err = d.cf.DeleteVpcOrigin(ctx, &cloudfront.DeleteVpcOriginInput{
		Id:      aws.String(r.ID),
		IfMatch: got.ETag,
	})
	return err
}

func (d *Deployer) terminateInstance(ctx context.Context, r *models.Resource) error {
	if _, err := d.ec2.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{r.ID},
	}); err != nil {
		return err
	}
	waiter := ec2.NewInstanceTerminatedWaiter(d.ec2)
	return waiter.Wait(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{r.ID}}, 10*time.Minute)
}

func (d *Deployer) deleteInstanceProfile(ctx context.Context, r *models.Resource) error {
	if role := r.Attr("role"); role != "" {
		if _, err := d.iam.RemoveRoleFromInstanceProfile(ctx, &iam.RemoveRoleFromInstanceProfileInput{
			InstanceProfileName: aws.String(r.ID),
			RoleName:            aws.String(role),
		}); err != nil && !isNotFound(err) {
			return err
		}
	}
	_, err := d.iam.DeleteInstanceProfile(ctx, &iam.DeleteInstanceProfileInput{InstanceProfileName: aws.String(r.ID)})
	return err
}

func (d *Deployer) deleteRole(ctx context.Context, r *models.Resource) error {
	if managed := r.Attr("managed_policy"); managed != "" {
		if _, err := d.iam.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
			RoleName:  aws.String(r.ID),
			PolicyArn: aws.String(managed),
		}); err != nil && !isNotFound(err) {
			return err
		}
	}
	if inline := r.Attr("inline_policy"); inline != "" {
		if _, err := d.iam.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
			RoleName:   aws.String(r.ID),
			PolicyName: aws.String(inline),
		}); err != nil && !isNotFound(err) {
			return err
		}
	}
	_, err := d.iam.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: aws.String(r.ID)})
	return err
}

func (d *Deployer) deleteSecret(ctx context.Context, r *models.Resource, force bool) error {
	in := &secretsmanager.DeleteSecretInput{SecretId: aws.String(r.ARN)}
	if force {
		in.ForceDeleteWithoutRecovery = aws.Bool(true)
	} else {
		in.RecoveryWindowInDays = aws.Int64(secretRecoveryDays)
	}
	_, err := d.secrets.DeleteSecret(ctx, in)
	return err
}

// deleteRuleGroup removes the two firewall rules before the group itself.
func (d *Deployer) deleteRuleGroup(ctx context.Context, r *models.Resource) error {
	for _, listAttr := range []string{"allow_domain_list_id", "block_domain_list_id"} {
		listID := r.Attr(listAttr)
		if listID == "" {
			continue
		}
		if _, err := d.resolver.DeleteFirewallRule(ctx, &route53resolver.DeleteFirewallRuleInput{
			FirewallRuleGroupId:  aws.String(r.ID),
			FirewallDomainListId: aws.String(listID),
		}); err != nil && !isNotFound(err) {
			return err
		}
	}
	_, err := d.resolver.DeleteFirewallRuleGroup(ctx, &route53resolver.DeleteFirewallRuleGroupInput{
		FirewallRuleGroupId: aws.String(r.ID),
	})
	return err
}

func (d *Deployer) deleteRouteTable(ctx context.Context, r *models.Resource) error {
	for key, assocID := range r.Attributes {
		if !strings.HasPrefix(key, "association_") {
			continue
		}
		if _, err := d.ec2.DisassociateRouteTable(ctx, &ec2.DisassociateRouteTableInput{
			AssociationId: aws.String(assocID),
		}); err != nil && !isNotFound(err) {
			return err
		}
	}
	_, err := d.ec2.DeleteRouteTable(ctx, &ec2.DeleteRouteTableInput{RouteTableId: aws.String(r.ID)})
	return err
}

func (d *Deployer) deleteNatGateway(ctx context.Context, r *models.Resource) error {
	if _, err := d.ec2.DeleteNatGateway(ctx, &ec2.DeleteNatGatewayInput{NatGatewayId: aws.String(r.ID)}); err != nil {
		return err
	}
	waiter := ec2.NewNatGatewayDeletedWaiter(d.ec2)
	return waiter.Wait(ctx, &ec2.DescribeNatGatewaysInput{NatGatewayIds: []string{r.ID}}, natGatewayWait)
}

func (d *Deployer) deleteInternetGateway(ctx context.Context, r *models.Resource) error {
	if vpcID := r.Attr("vpc_id"); vpcID != "" {
		if _, err := d.ec2.DetachInternetGateway(ctx, &ec2.DetachInternetGatewayInput{
			InternetGatewayId: aws.String(r.ID),
			VpcId:             aws.String(vpcID),
		}); err != nil && !isNotFound(err) {
			return err
		}
	}
	_, err := d.ec2.DeleteInternetGateway(ctx, &ec2.DeleteInternetGatewayInput{InternetGatewayId: aws.String(r.ID)})
	return err
}
