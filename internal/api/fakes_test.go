package api

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/guardduty"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/inspector2"
	inspectortypes "github.com/aws/aws-sdk-go-v2/service/inspector2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/route53resolver"
	resolvertypes "github.com/aws/aws-sdk-go-v2/service/route53resolver/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	waftypes "github.com/aws/aws-sdk-go-v2/service/wafv2/types"

	"github.com/openclaw/clawctl/internal/config"
	"github.com/openclaw/clawctl/internal/state"
)

const testAccount = "123456789012"

// callLog records the order of AWS calls across all fakes.
type callLog struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]error
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

// failOnce arms one call to return an injected error. The error is consumed
// on first use so a rerun proceeds normally.
func (l *callLog) failOnce(name string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failures == nil {
		l.failures = map[string]error{}
	}
	l.failures[name] = err
}

func (l *callLog) injected(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err, ok := l.failures[name]; ok {
		delete(l.failures, name)
		return err
	}
	return nil
}

func (l *callLog) has(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (l *callLog) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.calls {
		if c == name {
			n++
		}
	}
	return n
}

// indexOf returns the position of the first occurrence, or -1.
func (l *callLog) indexOf(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, c := range l.calls {
		if c == name {
			return i
		}
	}
	return -1
}

type fakes struct {
	log       *callLog
	ec2       *fakeEC2
	elb       *fakeELB
	cf        *fakeCloudFront
	waf       *fakeWAF
	resolver  *fakeResolver
	secrets   *fakeSecrets
	iam       *fakeIAM
	lambda    *fakeLambda
	events    *fakeEvents
	ssm       *fakeSSM
	guardduty *fakeGuardDuty
	inspector *fakeInspector
	cw        *fakeCloudWatch
	logs      *fakeLogs
	sts       *fakeSTS
}

func newFakes() *fakes {
	log := &callLog{}
	return &fakes{
		log:       log,
		ec2:       &fakeEC2{log: log},
		elb:       &fakeELB{log: log},
		cf:        &fakeCloudFront{log: log, distStatus: "Deployed", distEnabled: false},
		waf:       &fakeWAF{log: log},
		resolver:  &fakeResolver{log: log, domains: map[string][]string{}},
		secrets:   &fakeSecrets{log: log},
		iam:       &fakeIAM{log: log},
		lambda:    &fakeLambda{log: log, payload: []byte(`{"command_id":"cmd-1"}`)},
		events:    &fakeEvents{log: log},
		ssm:       &fakeSSM{log: log},
		guardduty: &fakeGuardDuty{log: log},
		inspector: &fakeInspector{log: log},
		cw:        &fakeCloudWatch{log: log},
		logs:      &fakeLogs{log: log},
		sts:       &fakeSTS{log: log},
	}
}

// newTestDeployer wires a Deployer onto fakes with a state store rooted in a
// temp home directory.
func newTestDeployer(t *testing.T, f *fakes) *Deployer {
	t.Helper()
	os.Setenv("HOME", t.TempDir())
	store, err := state.NewStore()
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Configuration{
		Region:         "us-east-1",
		Environment:    "dev",
		AllowedDomains: []string{"api.anthropic.com", "*.github.com"},
		InstanceType:   "t3.medium",
		GatewayPort:    18789,
		VpcCidr:        "10.0.0.0/16",
	}
	return &Deployer{
		cfg:       cfg,
		ec2:       f.ec2,
		elb:       f.elb,
		cf:        f.cf,
		waf:       f.waf,
		resolver:  f.resolver,
		secrets:   f.secrets,
		iam:       f.iam,
		lambda:    f.lambda,
		events:    f.events,
		ssm:       f.ssm,
		guardduty: f.guardduty,
		inspector: f.inspector,
		cw:        f.cw,
		logs:      f.logs,
		sts:       f.sts,
		store:     store,
		state:     store.New(cfg.Environment, cfg.Region),
	}
}

type fakeEC2 struct {
	log           *callLog
	natState      ec2types.NatGatewayState
	instanceState ec2types.InstanceStateName
	subnets       int
	routeTables   int
	groups        int
	lastRun       *ec2.RunInstancesInput
}

func (f *fakeEC2) CreateVpc(ctx context.Context, params *ec2.CreateVpcInput, optFns ...func(*ec2.Options)) (*ec2.CreateVpcOutput, error) {
	f.log.add("CreateVpc")
	return &ec2.CreateVpcOutput{Vpc: &ec2types.Vpc{VpcId: aws.String("vpc-123")}}, nil
}

func (f *fakeEC2) ModifyVpcAttribute(ctx context.Context, params *ec2.ModifyVpcAttributeInput, optFns ...func(*ec2.Options)) (*ec2.ModifyVpcAttributeOutput, error) {
	f.log.add("ModifyVpcAttribute")
	return &ec2.ModifyVpcAttributeOutput{}, nil
}

func (f *fakeEC2) DescribeAvailabilityZones(ctx context.Context, params *ec2.DescribeAvailabilityZonesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAvailabilityZonesOutput, error) {
	f.log.add("DescribeAvailabilityZones")
	return &ec2.DescribeAvailabilityZonesOutput{AvailabilityZones: []ec2types.AvailabilityZone{
		{ZoneName: aws.String("us-east-1a")},
		{ZoneName: aws.String("us-east-1b")},
	}}, nil
}

func (f *fakeEC2) CreateSubnet(ctx context.Context, params *ec2.CreateSubnetInput, optFns ...func(*ec2.Options)) (*ec2.CreateSubnetOutput, error) {
	f.log.add("CreateSubnet")
	f.subnets++
	return &ec2.CreateSubnetOutput{Subnet: &ec2types.Subnet{
		SubnetId: aws.String(fmt.Sprintf("subnet-%d", f.subnets)),
	}}, nil
}

func (f *fakeEC2) CreateInternetGateway(ctx context.Context, params *ec2.CreateInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.CreateInternetGatewayOutput, error) {
	f.log.add("CreateInternetGateway")
	return &ec2.CreateInternetGatewayOutput{InternetGateway: &ec2types.InternetGateway{
		InternetGatewayId: aws.String("igw-123"),
	}}, nil
}

func (f *fakeEC2) AttachInternetGateway(ctx context.Context, params *ec2.AttachInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.AttachInternetGatewayOutput, error) {
	f.log.add("AttachInternetGateway")
	if err := f.log.injected("AttachInternetGateway"); err != nil {
		return nil, err
	}
	return &ec2.AttachInternetGatewayOutput{}, nil
}

func (f *fakeEC2) AllocateAddress(ctx context.Context, params *ec2.AllocateAddressInput, optFns ...func(*ec2.Options)) (*ec2.AllocateAddressOutput, error) {
	f.log.add("AllocateAddress")
	return &ec2.AllocateAddressOutput{AllocationId: aws.String("eipalloc-123")}, nil
}

func (f *fakeEC2) CreateNatGateway(ctx context.Context, params *ec2.CreateNatGatewayInput, optFns ...func(*ec2.Options)) (*ec2.CreateNatGatewayOutput, error) {
	f.log.add("CreateNatGateway")
	f.natState = ec2types.NatGatewayStateAvailable
	return &ec2.CreateNatGatewayOutput{NatGateway: &ec2types.NatGateway{
		NatGatewayId: aws.String("nat-123"),
	}}, nil
}

func (f *fakeEC2) DescribeNatGateways(ctx context.Context, params *ec2.DescribeNatGatewaysInput, optFns ...func(*ec2.Options)) (*ec2.DescribeNatGatewaysOutput, error) {
	f.log.add("DescribeNatGateways")
	return &ec2.DescribeNatGatewaysOutput{NatGateways: []ec2types.NatGateway{
		{NatGatewayId: aws.String("nat-123"), State: f.natState},
	}}, nil
}

func (f *fakeEC2) CreateRouteTable(ctx context.Context, params *ec2.CreateRouteTableInput, optFns ...func(*ec2.Options)) (*ec2.CreateRouteTableOutput, error) {
	f.log.add("CreateRouteTable")
	f.routeTables++
	return &ec2.CreateRouteTableOutput{RouteTable: &ec2types.RouteTable{
		RouteTableId: aws.String(fmt.Sprintf("rtb-%d", f.routeTables)),
	}}, nil
}

func (f *fakeEC2) CreateRoute(ctx context.Context, params *ec2.CreateRouteInput, optFns ...func(*ec2.Options)) (*ec2.CreateRouteOutput, error) {
	f.log.add("CreateRoute")
	return &ec2.CreateRouteOutput{Return: aws.Bool(true)}, nil
}

func (f *fakeEC2) AssociateRouteTable(ctx context.Context, params *ec2.AssociateRouteTableInput, optFns ...func(*ec2.Options)) (*ec2.AssociateRouteTableOutput, error) {
	f.log.add("AssociateRouteTable")
	if err := f.log.injected("AssociateRouteTable"); err != nil {
		return nil, err
	}
	return &ec2.AssociateRouteTableOutput{AssociationId: aws.String("rtbassoc-123")}, nil
}

func (f *fakeEC2) CreateSecurityGroup(ctx context.Context, params *ec2.CreateSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error) {
	f.log.add("CreateSecurityGroup")
	f.groups++
	return &ec2.CreateSecurityGroupOutput{GroupId: aws.String(fmt.Sprintf("sg-%d", f.groups))}, nil
}

func (f *fakeEC2) AuthorizeSecurityGroupIngress(ctx context.Context, params *ec2.AuthorizeSecurityGroupIngressInput, optFns ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
	f.log.add("AuthorizeSecurityGroupIngress")
	if err := f.log.injected("AuthorizeSecurityGroupIngress"); err != nil {
		return nil, err
	}
	return &ec2.AuthorizeSecurityGroupIngressOutput{}, nil
}

func (f *fakeEC2) DescribeManagedPrefixLists(ctx context.Context, params *ec2.DescribeManagedPrefixListsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeManagedPrefixListsOutput, error) {
	f.log.add("DescribeManagedPrefixLists")
	return &ec2.DescribeManagedPrefixListsOutput{PrefixLists: []ec2types.ManagedPrefixList{
		{PrefixListId: aws.String("pl-cloudfront")},
	}}, nil
}

func (f *fakeEC2) RunInstances(ctx context.Context, params *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
	f.log.add("RunInstances")
	f.lastRun = params
	f.instanceState = ec2types.InstanceStateNameRunning
	return &ec2.RunInstancesOutput{Instances: []ec2types.Instance{
		{InstanceId: aws.String("i-123")},
	}}, nil
}

func (f *fakeEC2) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.log.add("DescribeInstances")
	return &ec2.DescribeInstancesOutput{Reservations: []ec2types.Reservation{{
		Instances: []ec2types.Instance{{
			InstanceId: aws.String("i-123"),
			State:      &ec2types.InstanceState{Name: f.instanceState},
		}},
	}}}, nil
}

func (f *fakeEC2) TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	f.log.add("TerminateInstances")
	f.instanceState = ec2types.InstanceStateNameTerminated
	return &ec2.TerminateInstancesOutput{}, nil
}

func (f *fakeEC2) DeleteSecurityGroup(ctx context.Context, params *ec2.DeleteSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSecurityGroupOutput, error) {
	f.log.add("DeleteSecurityGroup")
	return &ec2.DeleteSecurityGroupOutput{}, nil
}

func (f *fakeEC2) DisassociateRouteTable(ctx context.Context, params *ec2.DisassociateRouteTableInput, optFns ...func(*ec2.Options)) (*ec2.DisassociateRouteTableOutput, error) {
	f.log.add("DisassociateRouteTable")
	return &ec2.DisassociateRouteTableOutput{}, nil
}

func (f *fakeEC2) DeleteRouteTable(ctx context.Context, params *ec2.DeleteRouteTableInput, optFns ...func(*ec2.Options)) (*ec2.DeleteRouteTableOutput, error) {
	f.log.add("DeleteRouteTable")
	return &ec2.DeleteRouteTableOutput{}, nil
}

func (f *fakeEC2) DeleteNatGateway(ctx context.Context, params *ec2.DeleteNatGatewayInput, optFns ...func(*ec2.Options)) (*ec2.DeleteNatGatewayOutput, error) {
	f.log.add("DeleteNatGateway")
	f.natState = ec2types.NatGatewayStateDeleted
	return &ec2.DeleteNatGatewayOutput{}, nil
}

func (f *fakeEC2) ReleaseAddress(ctx context.Context, params *ec2.ReleaseAddressInput, optFns ...func(*ec2.Options)) (*ec2.ReleaseAddressOutput, error) {
	f.log.add("ReleaseAddress")
	return &ec2.ReleaseAddressOutput{}, nil
}

func (f *fakeEC2) DetachInternetGateway(ctx context.Context, params *ec2.DetachInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.DetachInternetGatewayOutput, error) {
	f.log.add("DetachInternetGateway")
	return &ec2.DetachInternetGatewayOutput{}, nil
}

func (f *fakeEC2) DeleteInternetGateway(ctx context.Context, params *ec2.DeleteInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.DeleteInternetGatewayOutput, error) {
	f.log.add("DeleteInternetGateway")
	return &ec2.DeleteInternetGatewayOutput{}, nil
}

func (f *fakeEC2) DeleteSubnet(ctx context.Context, params *ec2.DeleteSubnetInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSubnetOutput, error) {
	f.log.add("DeleteSubnet")
	return &ec2.DeleteSubnetOutput{}, nil
}

func (f *fakeEC2) DeleteVpc(ctx context.Context, params *ec2.DeleteVpcInput, optFns ...func(*ec2.Options)) (*ec2.DeleteVpcOutput, error) {
	f.log.add("DeleteVpc")
	return &ec2.DeleteVpcOutput{}, nil
}

type fakeELB struct {
	log *callLog
}

func (f *fakeELB) CreateLoadBalancer(ctx context.Context, params *elbv2.CreateLoadBalancerInput, optFns ...func(*elbv2.Options)) (*elbv2.CreateLoadBalancerOutput, error) {
	f.log.add("CreateLoadBalancer")
	return &elbv2.CreateLoadBalancerOutput{LoadBalancers: []elbtypes.LoadBalancer{{
		LoadBalancerArn: aws.String("arn:aws:elasticloadbalancing:us-east-1:" + testAccount + ":loadbalancer/app/openclaw-dev-alb/1"),
		DNSName:         aws.String("internal-openclaw-dev-alb.us-east-1.elb.amazonaws.com"),
	}}}, nil
}

func (f *fakeELB) CreateTargetGroup(ctx context.Context, params *elbv2.CreateTargetGroupInput, optFns ...func(*elbv2.Options)) (*elbv2.CreateTargetGroupOutput, error) {
	f.log.add("CreateTargetGroup")
	return &elbv2.CreateTargetGroupOutput{TargetGroups: []elbtypes.TargetGroup{{
		TargetGroupArn: aws.String("arn:aws:elasticloadbalancing:us-east-1:" + testAccount + ":targetgroup/openclaw-dev-gateway-tg/1"),
	}}}, nil
}

func (f *fakeELB) RegisterTargets(ctx context.Context, params *elbv2.RegisterTargetsInput, optFns ...func(*elbv2.Options)) (*elbv2.RegisterTargetsOutput, error) {
	f.log.add("RegisterTargets")
	if err := f.log.injected("RegisterTargets"); err != nil {
		return nil, err
	}
	return &elbv2.RegisterTargetsOutput{}, nil
}

func (f *fakeELB) CreateListener(ctx context.Context, params *elbv2.CreateListenerInput, optFns ...func(*elbv2.Options)) (*elbv2.CreateListenerOutput, error) {
	f.log.add("CreateListener")
	return &elbv2.CreateListenerOutput{Listeners: []elbtypes.Listener{{
		ListenerArn: aws.String("arn:aws:elasticloadbalancing:us-east-1:" + testAccount + ":listener/app/openclaw-dev-alb/1/1"),
	}}}, nil
}

func (f *fakeELB) DescribeLoadBalancers(ctx context.Context, params *elbv2.DescribeLoadBalancersInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error) {
	f.log.add("DescribeLoadBalancers")
	return &elbv2.DescribeLoadBalancersOutput{LoadBalancers: []elbtypes.LoadBalancer{{
		State: &elbtypes.LoadBalancerState{Code: elbtypes.LoadBalancerStateEnumActive},
	}}}, nil
}

func (f *fakeELB) DescribeTargetHealth(ctx context.Context, params *elbv2.DescribeTargetHealthInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTargetHealthOutput, error) {
	f.log.add("DescribeTargetHealth")
	return &elbv2.DescribeTargetHealthOutput{TargetHealthDescriptions: []elbtypes.TargetHealthDescription{{
		TargetHealth: &elbtypes.TargetHealth{State: elbtypes.TargetHealthStateEnumHealthy},
	}}}, nil
}

func (f *fakeELB) DeleteListener(ctx context.Context, params *elbv2.DeleteListenerInput, optFns ...func(*elbv2.Options)) (*elbv2.DeleteListenerOutput, error) {
	f.log.add("DeleteListener")
	return &elbv2.DeleteListenerOutput{}, nil
}

func (f *fakeELB) DeleteTargetGroup(ctx context.Context, params *elbv2.DeleteTargetGroupInput, optFns ...func(*elbv2.Options)) (*elbv2.DeleteTargetGroupOutput, error) {
	f.log.add("DeleteTargetGroup")
	return &elbv2.DeleteTargetGroupOutput{}, nil
}

func (f *fakeELB) DeleteLoadBalancer(ctx context.Context, params *elbv2.DeleteLoadBalancerInput, optFns ...func(*elbv2.Options)) (*elbv2.DeleteLoadBalancerOutput, error) {
	f.log.add("DeleteLoadBalancer")
	return &elbv2.DeleteLoadBalancerOutput{}, nil
}

type fakeCloudFront struct {
	log         *callLog
	distStatus  string
	distEnabled bool
	lastConfig  *cftypes.DistributionConfig
}

func (f *fakeCloudFront) CreateVpcOrigin(ctx context.Context, params *cloudfront.CreateVpcOriginInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateVpcOriginOutput, error) {
	f.log.add("CreateVpcOrigin")
	return &cloudfront.CreateVpcOriginOutput{VpcOrigin: &cftypes.VpcOrigin{
		Id:  aws.String("vo-123"),
		Arn: aws.String("arn:aws:cloudfront::" + testAccount + ":vpcorigin/vo-123"),
	}}, nil
}

func (f *fakeCloudFront) GetVpcOrigin(ctx context.Context, params *cloudfront.GetVpcOriginInput, optFns ...func(*cloudfront.Options)) (*cloudfront.GetVpcOriginOutput, error) {
	f.log.add("GetVpcOrigin")
	return &cloudfront.GetVpcOriginOutput{
		VpcOrigin: &cftypes.VpcOrigin{Id: aws.String("vo-123")},
		ETag:      aws.String("etag-vo"),
	}, nil
}

func (f *fakeCloudFront) DeleteVpcOrigin(ctx context.Context, params *cloudfront.DeleteVpcOriginInput, optFns ...func(*cloudfront.Options)) (*cloudfront.DeleteVpcOriginOutput, error) {
	f.log.add("DeleteVpcOrigin")
	return &cloudfront.DeleteVpcOriginOutput{}, nil
}

func (f *fakeCloudFront) CreateDistribution(ctx context.Context, params *cloudfront.CreateDistributionInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateDistributionOutput, error) {
	f.log.add("CreateDistribution")
	f.lastConfig = params.DistributionConfig
	f.distEnabled = true
	return &cloudfront.CreateDistributionOutput{Distribution: &cftypes.Distribution{
		Id:         aws.String("E123"),
		ARN:        aws.String("arn:aws:cloudfront::" + testAccount + ":distribution/E123"),
		DomainName: aws.String("d123.cloudfront.net"),
		Status:     aws.String(f.distStatus),
	}}, nil
}

func (f *fakeCloudFront) GetDistribution(ctx context.Context, params *cloudfront.GetDistributionInput, optFns ...func(*cloudfront.Options)) (*cloudfront.GetDistributionOutput, error) {
	f.log.add("GetDistribution")
	return &cloudfront.GetDistributionOutput{Distribution: &cftypes.Distribution{
		Id:     aws.String("E123"),
		Status: aws.String(f.distStatus),
	}}, nil
}

func (f *fakeCloudFront) GetDistributionConfig(ctx context.Context, params *cloudfront.GetDistributionConfigInput, optFns ...func(*cloudfront.Options)) (*cloudfront.GetDistributionConfigOutput, error) {
	f.log.add("GetDistributionConfig")
	return &cloudfront.GetDistributionConfigOutput{
		DistributionConfig: &cftypes.DistributionConfig{
			CallerReference: aws.String("ref"),
			Enabled:         aws.Bool(f.distEnabled),
		},
		ETag: aws.String("etag-dist"),
	}, nil
}

func (f *fakeCloudFront) UpdateDistribution(ctx context.Context, params *cloudfront.UpdateDistributionInput, optFns ...func(*cloudfront.Options)) (*cloudfront.UpdateDistributionOutput, error) {
	f.log.add("UpdateDistribution")
	f.distEnabled = aws.ToBool(params.DistributionConfig.Enabled)
	return &cloudfront.UpdateDistributionOutput{ETag: aws.String("etag-dist-2")}, nil
}

func (f *fakeCloudFront) DeleteDistribution(ctx context.Context, params *cloudfront.DeleteDistributionInput, optFns ...func(*cloudfront.Options)) (*cloudfront.DeleteDistributionOutput, error) {
	f.log.add("DeleteDistribution")
	return &cloudfront.DeleteDistributionOutput{}, nil
}

type fakeWAF struct {
	log       *callLog
	lastInput *wafv2.CreateWebACLInput
}

func (f *fakeWAF) CreateWebACL(ctx context.Context, params *wafv2.CreateWebACLInput, optFns ...func(*wafv2.Options)) (*wafv2.CreateWebACLOutput, error) {
	f.log.add("CreateWebACL")
	f.lastInput = params
	return &wafv2.CreateWebACLOutput{Summary: &waftypes.WebACLSummary{
		Id:  aws.String("acl-123"),
		ARN: aws.String("arn:aws:wafv2:us-east-1:" + testAccount + ":global/webacl/openclaw-dev-edge-acl/acl-123"),
	}}, nil
}

func (f *fakeWAF) GetWebACL(ctx context.Context, params *wafv2.GetWebACLInput, optFns ...func(*wafv2.Options)) (*wafv2.GetWebACLOutput, error) {
	f.log.add("GetWebACL")
	return &wafv2.GetWebACLOutput{LockToken: aws.String("lock-1")}, nil
}

func (f *fakeWAF) DeleteWebACL(ctx context.Context, params *wafv2.DeleteWebACLInput, optFns ...func(*wafv2.Options)) (*wafv2.DeleteWebACLOutput, error) {
	f.log.add("DeleteWebACL")
	return &wafv2.DeleteWebACLOutput{}, nil
}

type fakeResolver struct {
	log     *callLog
	mu      sync.Mutex
	domains map[string][]string
	lists   int
	rules   []*route53resolver.CreateFirewallRuleInput
}

func (f *fakeResolver) CreateFirewallDomainList(ctx context.Context, params *route53resolver.CreateFirewallDomainListInput, optFns ...func(*route53resolver.Options)) (*route53resolver.CreateFirewallDomainListOutput, error) {
	f.log.add("CreateFirewallDomainList")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	id := fmt.Sprintf("rslvr-fdl-%d", f.lists)
	f.domains[id] = nil
	return &route53resolver.CreateFirewallDomainListOutput{FirewallDomainList: &resolvertypes.FirewallDomainList{
		Id:  aws.String(id),
		Arn: aws.String("arn:aws:route53resolver:us-east-1:" + testAccount + ":firewall-domain-list/" + id),
	}}, nil
}

func (f *fakeResolver) UpdateFirewallDomains(ctx context.Context, params *route53resolver.UpdateFirewallDomainsInput, optFns ...func(*route53resolver.Options)) (*route53resolver.UpdateFirewallDomainsOutput, error) {
	f.log.add("UpdateFirewallDomains")
	f.mu.Lock()
	defer f.mu.Unlock()
	id := aws.ToString(params.FirewallDomainListId)
	switch params.Operation {
	case resolvertypes.FirewallDomainUpdateOperationAdd:
		f.domains[id] = append(f.domains[id], params.Domains...)
	case resolvertypes.FirewallDomainUpdateOperationRemove:
		kept := make([]string, 0, len(f.domains[id]))
		for _, d := range f.domains[id] {
			drop := false
			for _, rm := range params.Domains {
				if rm == d {
					drop = true
					break
				}
			}
			if !drop {
				kept = append(kept, d)
			}
		}
		f.domains[id] = kept
	}
	return &route53resolver.UpdateFirewallDomainsOutput{}, nil
}

func (f *fakeResolver) ListFirewallDomains(ctx context.Context, params *route53resolver.ListFirewallDomainsInput, optFns ...func(*route53resolver.Options)) (*route53resolver.ListFirewallDomainsOutput, error) {
	f.log.add("ListFirewallDomains")
	f.mu.Lock()
	defer f.mu.Unlock()
	return &route53resolver.ListFirewallDomainsOutput{
		Domains: append([]string(nil), f.domains[aws.ToString(params.FirewallDomainListId)]...),
	}, nil
}

func (f *fakeResolver) CreateFirewallRuleGroup(ctx context.Context, params *route53resolver.CreateFirewallRuleGroupInput, optFns ...func(*route53resolver.Options)) (*route53resolver.CreateFirewallRuleGroupOutput, error) {
	f.log.add("CreateFirewallRuleGroup")
	return &route53resolver.CreateFirewallRuleGroupOutput{FirewallRuleGroup: &resolvertypes.FirewallRuleGroup{
		Id:  aws.String("rslvr-frg-1"),
		Arn: aws.String("arn:aws:route53resolver:us-east-1:" + testAccount + ":firewall-rule-group/rslvr-frg-1"),
	}}, nil
}

func (f *fakeResolver) CreateFirewallRule(ctx context.Context, params *route53resolver.CreateFirewallRuleInput, optFns ...func(*route53resolver.Options)) (*route53resolver.CreateFirewallRuleOutput, error) {
	f.log.add("CreateFirewallRule")
	if err := f.log.injected("CreateFirewallRule"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, params)
	return &route53resolver.CreateFirewallRuleOutput{}, nil
}

func (f *fakeResolver) AssociateFirewallRuleGroup(ctx context.Context, params *route53resolver.AssociateFirewallRuleGroupInput, optFns ...func(*route53resolver.Options)) (*route53resolver.AssociateFirewallRuleGroupOutput, error) {
	f.log.add("AssociateFirewallRuleGroup")
	return &route53resolver.AssociateFirewallRuleGroupOutput{
		FirewallRuleGroupAssociation: &resolvertypes.FirewallRuleGroupAssociation{Id: aws.String("rslvr-frgassoc-1")},
	}, nil
}

func (f *fakeResolver) GetFirewallRuleGroupAssociation(ctx context.Context, params *route53resolver.GetFirewallRuleGroupAssociationInput, optFns ...func(*route53resolver.Options)) (*route53resolver.GetFirewallRuleGroupAssociationOutput, error) {
	f.log.add("GetFirewallRuleGroupAssociation")
	return &route53resolver.GetFirewallRuleGroupAssociationOutput{
		FirewallRuleGroupAssociation: &resolvertypes.FirewallRuleGroupAssociation{
			Status: resolvertypes.FirewallRuleGroupAssociationStatusComplete,
		},
	}, nil
}

func (f *fakeResolver) DisassociateFirewallRuleGroup(ctx context.Context, params *route53resolver.DisassociateFirewallRuleGroupInput, optFns ...func(*route53resolver.Options)) (*route53resolver.DisassociateFirewallRuleGroupOutput, error) {
	f.log.add("DisassociateFirewallRuleGroup")
	return &route53resolver.DisassociateFirewallRuleGroupOutput{}, nil
}

func (f *fakeResolver) DeleteFirewallRule(ctx context.Context, params *route53resolver.DeleteFirewallRuleInput, optFns ...func(*route53resolver.Options)) (*route53resolver.DeleteFirewallRuleOutput, error) {
	f.log.add("DeleteFirewallRule")
	return &route53resolver.DeleteFirewallRuleOutput{}, nil
}

func (f *fakeResolver) DeleteFirewallRuleGroup(ctx context.Context, params *route53resolver.DeleteFirewallRuleGroupInput, optFns ...func(*route53resolver.Options)) (*route53resolver.DeleteFirewallRuleGroupOutput, error) {
	f.log.add("DeleteFirewallRuleGroup")
	return &route53resolver.DeleteFirewallRuleGroupOutput{}, nil
}

func (f *fakeResolver) DeleteFirewallDomainList(ctx context.Context, params *route53resolver.DeleteFirewallDomainListInput, optFns ...func(*route53resolver.Options)) (*route53resolver.DeleteFirewallDomainListOutput, error) {
	f.log.add("DeleteFirewallDomainList")
	return &route53resolver.DeleteFirewallDomainListOutput{}, nil
}

type fakeSecrets struct {
	log        *callLog
	value      string
	lastDelete *secretsmanager.DeleteSecretInput
}

func (f *fakeSecrets) CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
	f.log.add("CreateSecret")
	f.value = aws.ToString(params.SecretString)
	return &secretsmanager.CreateSecretOutput{
		Name: params.Name,
		ARN:  aws.String("arn:aws:secretsmanager:us-east-1:" + testAccount + ":secret:" + aws.ToString(params.Name)),
	}, nil
}

func (f *fakeSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.log.add("GetSecretValue")
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.value)}, nil
}

func (f *fakeSecrets) PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	f.log.add("PutSecretValue")
	f.value = aws.ToString(params.SecretString)
	return &secretsmanager.PutSecretValueOutput{}, nil
}

func (f *fakeSecrets) DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error) {
	f.log.add("DeleteSecret")
	f.lastDelete = params
	return &secretsmanager.DeleteSecretOutput{}, nil
}

type fakeIAM struct {
	log      *callLog
	policies map[string]string
}

func (f *fakeIAM) CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	f.log.add("CreateRole")
	return &iam.CreateRoleOutput{Role: &iamtypes.Role{
		Arn: aws.String("arn:aws:iam::" + testAccount + ":role/" + aws.ToString(params.RoleName)),
	}}, nil
}

func (f *fakeIAM) AttachRolePolicy(ctx context.Context, params *iam.AttachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	f.log.add("AttachRolePolicy")
	return &iam.AttachRolePolicyOutput{}, nil
}

func (f *fakeIAM) PutRolePolicy(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error) {
	f.log.add("PutRolePolicy")
	if err := f.log.injected("PutRolePolicy"); err != nil {
		return nil, err
	}
	if f.policies == nil {
		f.policies = map[string]string{}
	}
	f.policies[aws.ToString(params.RoleName)] = aws.ToString(params.PolicyDocument)
	return &iam.PutRolePolicyOutput{}, nil
}

func (f *fakeIAM) CreateInstanceProfile(ctx context.Context, params *iam.CreateInstanceProfileInput, optFns ...func(*iam.Options)) (*iam.CreateInstanceProfileOutput, error) {
	f.log.add("CreateInstanceProfile")
	return &iam.CreateInstanceProfileOutput{InstanceProfile: &iamtypes.InstanceProfile{
		Arn: aws.String("arn:aws:iam::" + testAccount + ":instance-profile/" + aws.ToString(params.InstanceProfileName)),
	}}, nil
}

func (f *fakeIAM) AddRoleToInstanceProfile(ctx context.Context, params *iam.AddRoleToInstanceProfileInput, optFns ...func(*iam.Options)) (*iam.AddRoleToInstanceProfileOutput, error) {
	f.log.add("AddRoleToInstanceProfile")
	return &iam.AddRoleToInstanceProfileOutput{}, nil
}

func (f *fakeIAM) RemoveRoleFromInstanceProfile(ctx context.Context, params *iam.RemoveRoleFromInstanceProfileInput, optFns ...func(*iam.Options)) (*iam.RemoveRoleFromInstanceProfileOutput, error) {
	f.log.add("RemoveRoleFromInstanceProfile")
	return &iam.RemoveRoleFromInstanceProfileOutput{}, nil
}

func (f *fakeIAM) DeleteInstanceProfile(ctx context.Context, params *iam.DeleteInstanceProfileInput, optFns ...func(*iam.Options)) (*iam.DeleteInstanceProfileOutput, error) {
	f.log.add("DeleteInstanceProfile")
	return &iam.DeleteInstanceProfileOutput{}, nil
}

func (f *fakeIAM) DetachRolePolicy(ctx context.Context, params *iam.DetachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DetachRolePolicyOutput, error) {
	f.log.add("DetachRolePolicy")
	return &iam.DetachRolePolicyOutput{}, nil
}

func (f *fakeIAM) DeleteRolePolicy(ctx context.Context, params *iam.DeleteRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DeleteRolePolicyOutput, error) {
	f.log.add("DeleteRolePolicy")
	return &iam.DeleteRolePolicyOutput{}, nil
}

func (f *fakeIAM) DeleteRole(ctx context.Context, params *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	f.log.add("DeleteRole")
	return &iam.DeleteRoleOutput{}, nil
}

type fakeLambda struct {
	log     *callLog
	payload []byte
	fnErr   *string
}

func (f *fakeLambda) CreateFunction(ctx context.Context, params *lambda.CreateFunctionInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error) {
	f.log.add("CreateFunction")
	return &lambda.CreateFunctionOutput{
		FunctionArn: aws.String("arn:aws:lambda:us-east-1:" + testAccount + ":function:" + aws.ToString(params.FunctionName)),
	}, nil
}

func (f *fakeLambda) AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error) {
	f.log.add("AddPermission")
	return &lambda.AddPermissionOutput{}, nil
}

func (f *fakeLambda) Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.log.add("Invoke")
	return &lambda.InvokeOutput{
		StatusCode:    200,
		Payload:       f.payload,
		FunctionError: f.fnErr,
	}, nil
}

func (f *fakeLambda) DeleteFunction(ctx context.Context, params *lambda.DeleteFunctionInput, optFns ...func(*lambda.Options)) (*lambda.DeleteFunctionOutput, error) {
	f.log.add("DeleteFunction")
	return &lambda.DeleteFunctionOutput{}, nil
}

type fakeEvents struct {
	log *callLog
}

func (f *fakeEvents) PutRule(ctx context.Context, params *eventbridge.PutRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutRuleOutput, error) {
	f.log.add("PutRule")
	return &eventbridge.PutRuleOutput{
		RuleArn: aws.String("arn:aws:events:us-east-1:" + testAccount + ":rule/" + aws.ToString(params.Name)),
	}, nil
}

func (f *fakeEvents) PutTargets(ctx context.Context, params *eventbridge.PutTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutTargetsOutput, error) {
	f.log.add("PutTargets")
	return &eventbridge.PutTargetsOutput{}, nil
}

func (f *fakeEvents) RemoveTargets(ctx context.Context, params *eventbridge.RemoveTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.RemoveTargetsOutput, error) {
	f.log.add("RemoveTargets")
	return &eventbridge.RemoveTargetsOutput{}, nil
}

func (f *fakeEvents) DeleteRule(ctx context.Context, params *eventbridge.DeleteRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.DeleteRuleOutput, error) {
	f.log.add("DeleteRule")
	return &eventbridge.DeleteRuleOutput{}, nil
}

type fakeSSM struct {
	log *callLog
}

func (f *fakeSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.log.add("GetParameter")
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: aws.String("ami-123")}}, nil
}

func (f *fakeSSM) CreatePatchBaseline(ctx context.Context, params *ssm.CreatePatchBaselineInput, optFns ...func(*ssm.Options)) (*ssm.CreatePatchBaselineOutput, error) {
	f.log.add("CreatePatchBaseline")
	return &ssm.CreatePatchBaselineOutput{BaselineId: aws.String("pb-123")}, nil
}

func (f *fakeSSM) RegisterPatchBaselineForPatchGroup(ctx context.Context, params *ssm.RegisterPatchBaselineForPatchGroupInput, optFns ...func(*ssm.Options)) (*ssm.RegisterPatchBaselineForPatchGroupOutput, error) {
	f.log.add("RegisterPatchBaselineForPatchGroup")
	return &ssm.RegisterPatchBaselineForPatchGroupOutput{}, nil
}

func (f *fakeSSM) DeregisterPatchBaselineForPatchGroup(ctx context.Context, params *ssm.DeregisterPatchBaselineForPatchGroupInput, optFns ...func(*ssm.Options)) (*ssm.DeregisterPatchBaselineForPatchGroupOutput, error) {
	f.log.add("DeregisterPatchBaselineForPatchGroup")
	return &ssm.DeregisterPatchBaselineForPatchGroupOutput{}, nil
}

func (f *fakeSSM) DeletePatchBaseline(ctx context.Context, params *ssm.DeletePatchBaselineInput, optFns ...func(*ssm.Options)) (*ssm.DeletePatchBaselineOutput, error) {
	f.log.add("DeletePatchBaseline")
	return &ssm.DeletePatchBaselineOutput{}, nil
}

type fakeGuardDuty struct {
	log      *callLog
	existing []string
}

func (f *fakeGuardDuty) ListDetectors(ctx context.Context, params *guardduty.ListDetectorsInput, optFns ...func(*guardduty.Options)) (*guardduty.ListDetectorsOutput, error) {
	f.log.add("ListDetectors")
	return &guardduty.ListDetectorsOutput{DetectorIds: f.existing}, nil
}

func (f *fakeGuardDuty) CreateDetector(ctx context.Context, params *guardduty.CreateDetectorInput, optFns ...func(*guardduty.Options)) (*guardduty.CreateDetectorOutput, error) {
	f.log.add("CreateDetector")
	return &guardduty.CreateDetectorOutput{DetectorId: aws.String("det-new")}, nil
}

func (f *fakeGuardDuty) DeleteDetector(ctx context.Context, params *guardduty.DeleteDetectorInput, optFns ...func(*guardduty.Options)) (*guardduty.DeleteDetectorOutput, error) {
	f.log.add("DeleteDetector")
	return &guardduty.DeleteDetectorOutput{}, nil
}

type fakeInspector struct {
	log     *callLog
	enabled bool
}

func (f *fakeInspector) BatchGetAccountStatus(ctx context.Context, params *inspector2.BatchGetAccountStatusInput, optFns ...func(*inspector2.Options)) (*inspector2.BatchGetAccountStatusOutput, error) {
	f.log.add("BatchGetAccountStatus")
	status := inspectortypes.StatusDisabled
	if f.enabled {
		status = inspectortypes.StatusEnabled
	}
	return &inspector2.BatchGetAccountStatusOutput{Accounts: []inspectortypes.AccountState{{
		AccountId: aws.String(testAccount),
		State:     &inspectortypes.State{Status: status},
	}}}, nil
}

func (f *fakeInspector) Enable(ctx context.Context, params *inspector2.EnableInput, optFns ...func(*inspector2.Options)) (*inspector2.EnableOutput, error) {
	f.log.add("Enable")
	return &inspector2.EnableOutput{}, nil
}

func (f *fakeInspector) Disable(ctx context.Context, params *inspector2.DisableInput, optFns ...func(*inspector2.Options)) (*inspector2.DisableOutput, error) {
	f.log.add("Disable")
	return &inspector2.DisableOutput{}, nil
}

type fakeCloudWatch struct {
	log *callLog
}

func (f *fakeCloudWatch) PutMetricAlarm(ctx context.Context, params *cloudwatch.PutMetricAlarmInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricAlarmOutput, error) {
	f.log.add("PutMetricAlarm")
	return &cloudwatch.PutMetricAlarmOutput{}, nil
}

func (f *fakeCloudWatch) DeleteAlarms(ctx context.Context, params *cloudwatch.DeleteAlarmsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.DeleteAlarmsOutput, error) {
	f.log.add("DeleteAlarms")
	return &cloudwatch.DeleteAlarmsOutput{}, nil
}

type fakeLogs struct {
	log *callLog
}

func (f *fakeLogs) CreateLogGroup(ctx context.Context, params *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	f.log.add("CreateLogGroup")
	return &cloudwatchlogs.CreateLogGroupOutput{}, nil
}

func (f *fakeLogs) PutRetentionPolicy(ctx context.Context, params *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error) {
	f.log.add("PutRetentionPolicy")
	return &cloudwatchlogs.PutRetentionPolicyOutput{}, nil
}

func (f *fakeLogs) DeleteLogGroup(ctx context.Context, params *cloudwatchlogs.DeleteLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DeleteLogGroupOutput, error) {
	f.log.add("DeleteLogGroup")
	return &cloudwatchlogs.DeleteLogGroupOutput{}, nil
}

type fakeSTS struct {
	log *callLog
}

func (f *fakeSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	f.log.add("GetCallerIdentity")
	return &sts.GetCallerIdentityOutput{
		Account: aws.String(testAccount),
		Arn:     aws.String("arn:aws:iam::" + testAccount + ":user/test"),
	}, nil
}
