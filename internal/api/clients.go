package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/guardduty"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/inspector2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/route53resolver"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	"github.com/aws/smithy-go"

	"github.com/openclaw/clawctl/internal/clawerrors"
	"github.com/openclaw/clawctl/internal/config"
	"github.com/openclaw/clawctl/internal/models"
	"github.com/openclaw/clawctl/internal/state"
)

// wafRegion is fixed: web ACLs with CLOUDFRONT scope live on the us-east-1
// control plane regardless of the configured region.
const wafRegion = "us-east-1"

var httpClient = &http.Client{}

type ec2API interface {
	CreateVpc(ctx context.Context, params *ec2.CreateVpcInput, optFns ...func(*ec2.Options)) (*ec2.CreateVpcOutput, error)
	ModifyVpcAttribute(ctx context.Context, params *ec2.ModifyVpcAttributeInput, optFns ...func(*ec2.Options)) (*ec2.ModifyVpcAttributeOutput, error)
	DescribeAvailabilityZones(ctx context.Context, params *ec2.DescribeAvailabilityZonesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAvailabilityZonesOutput, error)
	CreateSubnet(ctx context.Context, params *ec2.CreateSubnetInput, optFns ...func(*ec2.Options)) (*ec2.CreateSubnetOutput, error)
	CreateInternetGateway(ctx context.Context, params *ec2.CreateInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.CreateInternetGatewayOutput, error)
	AttachInternetGateway(ctx context.Context, params *ec2.AttachInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.AttachInternetGatewayOutput, error)
	AllocateAddress(ctx context.Context, params *ec2.AllocateAddressInput, optFns ...func(*ec2.Options)) (*ec2.AllocateAddressOutput, error)
	CreateNatGateway(ctx context.Context, params *ec2.CreateNatGatewayInput, optFns ...func(*ec2.Options)) (*ec2.CreateNatGatewayOutput, error)
	DescribeNatGateways(ctx context.Context, params *ec2.DescribeNatGatewaysInput, optFns ...func(*ec2.Options)) (*ec2.DescribeNatGatewaysOutput, error)
	CreateRouteTable(ctx context.Context, params *ec2.CreateRouteTableInput, optFns ...func(*ec2.Options)) (*ec2.CreateRouteTableOutput, error)
	CreateRoute(ctx context.Context, params *ec2.CreateRouteInput, optFns ...func(*ec2.Options)) (*ec2.CreateRouteOutput, error)
	AssociateRouteTable(ctx context.Context, params *ec2.AssociateRouteTableInput, optFns ...func(*ec2.Options)) (*ec2.AssociateRouteTableOutput, error)
	CreateSecurityGroup(ctx context.Context, params *ec2.CreateSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error)
	AuthorizeSecurityGroupIngress(ctx context.Context, params *ec2.AuthorizeSecurityGroupIngressInput, optFns ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
	DescribeManagedPrefixLists(ctx context.Context, params *ec2.DescribeManagedPrefixListsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeManagedPrefixListsOutput, error)
	RunInstances(ctx context.Context, params *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
	DeleteSecurityGroup(ctx context.Context, params *ec2.DeleteSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSecurityGroupOutput, error)
	DisassociateRouteTable(ctx context.Context, params *ec2.DisassociateRouteTableInput, optFns ...func(*ec2.Options)) (*ec2.DisassociateRouteTableOutput, error)
	DeleteRouteTable(ctx context.Context, params *ec2.DeleteRouteTableInput, optFns ...func(*ec2.Options)) (*ec2.DeleteRouteTableOutput, error)
	DeleteNatGateway(ctx context.Context, params *ec2.DeleteNatGatewayInput, optFns ...func(*ec2.Options)) (*ec2.DeleteNatGatewayOutput, error)
	ReleaseAddress(ctx context.Context, params *ec2.ReleaseAddressInput, optFns ...func(*ec2.Options)) (*ec2.ReleaseAddressOutput, error)
	DetachInternetGateway(ctx context.Context, params *ec2.DetachInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.DetachInternetGatewayOutput, error)
	DeleteInternetGateway(ctx context.Context, params *ec2.DeleteInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.DeleteInternetGatewayOutput, error)
	DeleteSubnet(ctx context.Context, params *ec2.DeleteSubnetInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSubnetOutput, error)
	DeleteVpc(ctx context.Context, params *ec2.DeleteVpcInput, optFns ...func(*ec2.Options)) (*ec2.DeleteVpcOutput, error)
}

type elbAPI interface {
	CreateLoadBalancer(ctx context.Context, params *elbv2.CreateLoadBalancerInput, optFns ...func(*elbv2.Options)) (*elbv2.CreateLoadBalancerOutput, error)
	CreateTargetGroup(ctx context.Context, params *elbv2.CreateTargetGroupInput, optFns ...func(*elbv2.Options)) (*elbv2.CreateTargetGroupOutput, error)
	RegisterTargets(ctx context.Context, params *elbv2.RegisterTargetsInput, optFns ...func(*elbv2.Options)) (*elbv2.RegisterTargetsOutput, error)
	CreateListener(ctx context.Context, params *elbv2.CreateListenerInput, optFns ...func(*elbv2.Options)) (*elbv2.CreateListenerOutput, error)
	DescribeLoadBalancers(ctx context.Context, params *elbv2.DescribeLoadBalancersInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error)
	DescribeTargetHealth(ctx context.Context, params *elbv2.DescribeTargetHealthInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTargetHealthOutput, error)
	DeleteListener(ctx context.Context, params *elbv2.DeleteListenerInput, optFns ...func(*elbv2.Options)) (*elbv2.DeleteListenerOutput, error)
	DeleteTargetGroup(ctx context.Context, params *elbv2.DeleteTargetGroupInput, optFns ...func(*elbv2.Options)) (*elbv2.DeleteTargetGroupOutput, error)
	DeleteLoadBalancer(ctx context.Context, params *elbv2.DeleteLoadBalancerInput, optFns ...func(*elbv2.Options)) (*elbv2.DeleteLoadBalancerOutput, error)
}

type cloudfrontAPI interface {
	CreateVpcOrigin(ctx context.Context, params *cloudfront.CreateVpcOriginInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateVpcOriginOutput, error)
	GetVpcOrigin(ctx context.Context, params *cloudfront.GetVpcOriginInput, optFns ...func(*cloudfront.Options)) (*cloudfront.GetVpcOriginOutput, error)
	DeleteVpcOrigin(ctx context.Context, params *cloudfront.DeleteVpcOriginInput, optFns ...func(*cloudfront.Options)) (*cloudfront.DeleteVpcOriginOutput, error)
	CreateDistribution(ctx context.Context, params *cloudfront.CreateDistributionInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateDistributionOutput, error)
	GetDistribution(ctx context.Context, params *cloudfront.GetDistributionInput, optFns ...func(*cloudfront.Options)) (*cloudfront.GetDistributionOutput, error)
	GetDistributionConfig(ctx context.Context, params *cloudfront.GetDistributionConfigInput, optFns ...func(*cloudfront.Options)) (*cloudfront.GetDistributionConfigOutput, error)
	UpdateDistribution(ctx context.Context, params *cloudfront.UpdateDistributionInput, optFns ...func(*cloudfront.Options)) (*cloudfront.UpdateDistributionOutput, error)
	DeleteDistribution(ctx context.Context, params *cloudfront.DeleteDistributionInput, optFns ...func(*cloudfront.Options)) (*cloudfront.DeleteDistributionOutput, error)
}

type wafAPI interface {
	CreateWebACL(ctx context.Context, params *wafv2.CreateWebACLInput, optFns ...func(*wafv2.Options)) (*wafv2.CreateWebACLOutput, error)
	GetWebACL(ctx context.Context, params *wafv2.GetWebACLInput, optFns ...func(*wafv2.Options)) (*wafv2.GetWebACLOutput, error)
	DeleteWebACL(ctx context.Context, params *wafv2.DeleteWebACLInput, optFns ...func(*wafv2.Options)) (*wafv2.DeleteWebACLOutput, error)
}

type resolverAPI interface {
	CreateFirewallDomainList(ctx context.Context, params *route53resolver.CreateFirewallDomainListInput, optFns ...func(*route53resolver.Options)) (*route53resolver.CreateFirewallDomainListOutput, error)
	UpdateFirewallDomains(ctx context.Context, params *route53resolver.UpdateFirewallDomainsInput, optFns ...func(*route53resolver.Options)) (*route53resolver.UpdateFirewallDomainsOutput, error)
	ListFirewallDomains(ctx context.Context, params *route53resolver.ListFirewallDomainsInput, optFns ...func(*route53resolver.Options)) (*route53resolver.ListFirewallDomainsOutput, error)
	CreateFirewallRuleGroup(ctx context.Context, params *route53resolver.CreateFirewallRuleGroupInput, optFns ...func(*route53resolver.Options)) (*route53resolver.CreateFirewallRuleGroupOutput, error)
	CreateFirewallRule(ctx context.Context, params *route53resolver.CreateFirewallRuleInput, optFns ...func(*route53resolver.Options)) (*route53resolver.CreateFirewallRuleOutput, error)
	AssociateFirewallRuleGroup(ctx context.Context, params *route53resolver.AssociateFirewallRuleGroupInput, optFns ...func(*route53resolver.Options)) (*route53resolver.AssociateFirewallRuleGroupOutput, error)
	GetFirewallRuleGroupAssociation(ctx context.Context, params *route53resolver.GetFirewallRuleGroupAssociationInput, optFns ...func(*route53resolver.Options)) (*route53resolver.GetFirewallRuleGroupAssociationOutput, error)
	DisassociateFirewallRuleGroup(ctx context.Context, params *route53resolver.DisassociateFirewallRuleGroupInput, optFns ...func(*route53resolver.Options)) (*route53resolver.DisassociateFirewallRuleGroupOutput, error)
	DeleteFirewallRule(ctx context.Context, params *route53resolver.DeleteFirewallRuleInput, optFns ...func(*route53resolver.Options)) (*route53resolver.DeleteFirewallRuleOutput, error)
	DeleteFirewallRuleGroup(ctx context.Context, params *route53resolver.DeleteFirewallRuleGroupInput, optFns ...func(*route53resolver.Options)) (*route53resolver.DeleteFirewallRuleGroupOutput, error)
	DeleteFirewallDomainList(ctx context.Context, params *route53resolver.DeleteFirewallDomainListInput, optFns ...func(*route53resolver.Options)) (*route53resolver.DeleteFirewallDomainListOutput, error)
}

type secretsAPI interface {
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
}

type iamAPI interface {
	CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	AttachRolePolicy(ctx context.Context, params *iam.AttachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error)
	PutRolePolicy(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error)
	CreateInstanceProfile(ctx context.Context, params *iam.CreateInstanceProfileInput, optFns ...func(*iam.Options)) (*iam.CreateInstanceProfileOutput, error)
	AddRoleToInstanceProfile(ctx context.Context, params *iam.AddRoleToInstanceProfileInput, optFns ...func(*iam.Options)) (*iam.AddRoleToInstanceProfileOutput, error)
	RemoveRoleFromInstanceProfile(ctx context.Context, params *iam.RemoveRoleFromInstanceProfileInput, optFns ...func(*iam.Options)) (*iam.RemoveRoleFromInstanceProfileOutput, error)
	DeleteInstanceProfile(ctx context.Context, params *iam.DeleteInstanceProfileInput, optFns ...func(*iam.Options)) (*iam.DeleteInstanceProfileOutput, error)
	DetachRolePolicy(ctx context.Context, params *iam.DetachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DetachRolePolicyOutput, error)
	DeleteRolePolicy(ctx context.Context, params *iam.DeleteRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DeleteRolePolicyOutput, error)
	DeleteRole(ctx context.Context, params *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error)
}

type lambdaAPI interface {
	CreateFunction(ctx context.Context, params *lambda.CreateFunctionInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error)
	AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error)
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
	DeleteFunction(ctx context.Context, params *lambda.DeleteFunctionInput, optFns ...func(*lambda.Options)) (*lambda.DeleteFunctionOutput, error)
}

type eventsAPI interface {
	PutRule(ctx context.Context, params *eventbridge.PutRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutRuleOutput, error)
	PutTargets(ctx context.Context, params *eventbridge.PutTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutTargetsOutput, error)
	RemoveTargets(ctx context.Context, params *eventbridge.RemoveTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.RemoveTargetsOutput, error)
	DeleteRule(ctx context.Context, params *eventbridge.DeleteRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.DeleteRuleOutput, error)
}

type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	CreatePatchBaseline(ctx context.Context, params *ssm.CreatePatchBaselineInput, optFns ...func(*ssm.Options)) (*ssm.CreatePatchBaselineOutput, error)
	RegisterPatchBaselineForPatchGroup(ctx context.Context, params *ssm.RegisterPatchBaselineForPatchGroupInput, optFns ...func(*ssm.Options)) (*ssm.RegisterPatchBaselineForPatchGroupOutput, error)
	DeregisterPatchBaselineForPatchGroup(ctx context.Context, params *ssm.DeregisterPatchBaselineForPatchGroupInput, optFns ...func(*ssm.Options)) (*ssm.DeregisterPatchBaselineForPatchGroupOutput, error)
	DeletePatchBaseline(ctx context.Context, params *ssm.DeletePatchBaselineInput, optFns ...func(*ssm.Options)) (*ssm.DeletePatchBaselineOutput, error)
}

type guarddutyAPI interface {
	ListDetectors(ctx context.Context, params *guardduty.ListDetectorsInput, optFns ...func(*guardduty.Options)) (*guardduty.ListDetectorsOutput, error)
	CreateDetector(ctx context.Context, params *guardduty.CreateDetectorInput, optFns ...func(*guardduty.Options)) (*guardduty.CreateDetectorOutput, error)
	DeleteDetector(ctx context.Context, params *guardduty.DeleteDetectorInput, optFns ...func(*guardduty.Options)) (*guardduty.DeleteDetectorOutput, error)
}

type inspectorAPI interface {
	BatchGetAccountStatus(ctx context.Context, params *inspector2.BatchGetAccountStatusInput, optFns ...func(*inspector2.Options)) (*inspector2.BatchGetAccountStatusOutput, error)
	Enable(ctx context.Context, params *inspector2.EnableInput, optFns ...func(*inspector2.Options)) (*inspector2.EnableOutput, error)
	Disable(ctx context.Context, params *inspector2.DisableInput, optFns ...func(*inspector2.Options)) (*inspector2.DisableOutput, error)
}

type cloudwatchAPI interface {
	PutMetricAlarm(ctx context.Context, params *cloudwatch.PutMetricAlarmInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricAlarmOutput, error)
	DeleteAlarms(ctx context.Context, params *cloudwatch.DeleteAlarmsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.DeleteAlarmsOutput, error)
}

type logsAPI interface {
	CreateLogGroup(ctx context.Context, params *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	PutRetentionPolicy(ctx context.Context, params *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error)
	DeleteLogGroup(ctx context.Context, params *cloudwatchlogs.DeleteLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DeleteLogGroupOutput, error)
}

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Deployer converges the gateway stack for one environment. Service clients
// are held behind narrow interfaces so tests can substitute fakes.
type Deployer struct {
	cfg       config.Configuration
	account   string
	ec2       ec2API
	elb       elbAPI
	cf        cloudfrontAPI
	waf       wafAPI
	resolver  resolverAPI
	secrets   secretsAPI
	iam       iamAPI
	lambda    lambdaAPI
	events    eventsAPI
	ssm       ssmAPI
	guardduty guarddutyAPI
	inspector inspectorAPI
	cw        cloudwatchAPI
	logs      logsAPI
	sts       stsAPI
	store     *state.Store
	state     *models.State
}

// NewDeployer builds a Deployer from the active configuration, loading the
// environment's state document if one exists.
func NewDeployer(ctx context.Context) (*Deployer, error) {
	c := config.GetConfig()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.Region),
		awsconfig.WithHTTPClient(httpClient),
	}
	if c.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(c.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("Unable to load AWS configuration. Error: %v", err)
	}

	store, err := state.NewStore()
	if err != nil {
		return nil, err
	}

	st, err := store.Load(c.Environment)
	if err != nil {
		var notFound clawerrors.ErrStateNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
		st = store.New(c.Environment, c.Region)
	}

	globalEndpoint := func(o *wafv2.Options) { o.Region = wafRegion }
	return &Deployer{
		cfg:       c,
		ec2:       ec2.NewFromConfig(awsCfg),
		elb:       elbv2.NewFromConfig(awsCfg),
		cf:        cloudfront.NewFromConfig(awsCfg, func(o *cloudfront.Options) { o.Region = wafRegion }),
		waf:       wafv2.NewFromConfig(awsCfg, globalEndpoint),
		resolver:  route53resolver.NewFromConfig(awsCfg),
		secrets:   secretsmanager.NewFromConfig(awsCfg),
		iam:       iam.NewFromConfig(awsCfg),
		lambda:    lambda.NewFromConfig(awsCfg),
		events:    eventbridge.NewFromConfig(awsCfg),
		ssm:       ssm.NewFromConfig(awsCfg),
		guardduty: guardduty.NewFromConfig(awsCfg),
		inspector: inspector2.NewFromConfig(awsCfg),
		cw:        cloudwatch.NewFromConfig(awsCfg),
		logs:      cloudwatchlogs.NewFromConfig(awsCfg),
		sts:       sts.NewFromConfig(awsCfg),
		store:     store,
		state:     st,
	}, nil
}

// name derives the resource name for a suffix, e.g. openclaw-dev-vpc.
func (d *Deployer) name(suffix string) string {
	return fmt.Sprintf("openclaw-%s-%s", d.cfg.Environment, suffix)
}

// record writes a resource into the state document and saves it, so partial
// failures always leave whatever exists destroyable.
func (d *Deployer) record(r models.Resource) error {
	d.state.Put(r)
	return d.store.Save(d.state)
}

func (d *Deployer) ec2Tags(resourceType ec2types.ResourceType, name string) []ec2types.TagSpecification {
	return []ec2types.TagSpecification{{
		ResourceType: resourceType,
		Tags: []ec2types.Tag{
			{Key: aws.String("Name"), Value: aws.String(name)},
			{Key: aws.String("Environment"), Value: aws.String(d.cfg.Environment)},
			{Key: aws.String("ManagedBy"), Value: aws.String("clawctl")},
		},
	}}
}

var notFoundCodes = map[string]bool{
	"InvalidVpcID.NotFound":             true,
	"InvalidSubnetID.NotFound":          true,
	"InvalidInternetGatewayID.NotFound": true,
	"InvalidRouteTableID.NotFound":      true,
	"InvalidGroup.NotFound":             true,
	"InvalidAllocationID.NotFound":      true,
	"NatGatewayNotFound":                true,
	"InvalidInstanceID.NotFound":        true,
	"NoSuchEntity":                      true,
	"LoadBalancerNotFound":              true,
	"TargetGroupNotFound":               true,
	"ListenerNotFound":                  true,
	"NoSuchDistribution":                true,
	"EntityNotFound":                    true,
	"DoesNotExistException":             true,
}

// isNotFound classifies AWS API errors so deletes stay idempotent: destroying
// a resource that is already gone is success, not failure.
func isNotFound(err error) bool {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return false
	}
	code := ae.ErrorCode()
	return notFoundCodes[code] || strings.Contains(code, "NotFound")
}
