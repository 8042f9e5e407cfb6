package api

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openclaw/clawctl/internal/models"
)

const distributionDeployedWait = 25 * time.Minute

// Managed CloudFront policy IDs: caching disabled, all-viewer origin request.
const (
	cachingDisabledPolicyID = "4135ea2d-6df8-44a3-9df3-4b5a84be39ad"
	allViewerPolicyID       = "216adef6-5c7f-47e4-b989-5492eafa07d3"
)

// ensureIngress converges the public path: internal ALB in the private
// subnets, target group on the gateway port with a /health check, listener,
// the WAF web ACL, a CloudFront VPC origin addressing the ALB without
// exposing it, and the HTTPS-only distribution.
func (d *Deployer) ensureIngress(ctx context.Context) error {
	albArn, albDNS, err := d.ensureLoadBalancer(ctx)
	if err != nil {
		return err
	}
	tgArn, err := d.ensureTargetGroup(ctx)
	if err != nil {
		return err
	}
	if err := d.ensureListener(ctx, albArn, tgArn); err != nil {
		return err
	}
	aclArn, err := d.ensureWebACL(ctx)
	if err != nil {
		return err
	}
	originID, err := d.ensureVpcOrigin(ctx, albArn)
	if err != nil {
		return err
	}
	return d.ensureDistribution(ctx, albDNS, originID, aclArn)
}

func (d *Deployer) ensureLoadBalancer(ctx context.Context) (string, string, error) {
	name := d.name("alb")
	if r := d.state.Lookup("aws_lb", name); r != nil {
		return r.ARN, r.Attr("dns_name"), nil
	}
	albSG := d.state.Lookup("aws_security_group", d.name("alb-sg"))
	out, err := d.elb.CreateLoadBalancer(ctx, &elbv2.CreateLoadBalancerInput{
		Name:   aws.String(name),
		Scheme: elbtypes.LoadBalancerSchemeEnumInternal,
		Type:   elbtypes.LoadBalancerTypeEnumApplication,
		Subnets: []string{
			d.state.Lookup("aws_subnet", d.name("private-a")).ID,
			d.state.Lookup("aws_subnet", d.name("private-b")).ID,
		},
		SecurityGroups: []string{albSG.ID},
		Tags: []elbtypes.Tag{
			{Key: aws.String("Environment"), Value: aws.String(d.cfg.Environment)},
			{Key: aws.String("ManagedBy"), Value: aws.String("clawctl")},
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("Unable to create the internal ALB. Error: %v", err)
	}
	lb := out.LoadBalancers[0]
	arn, dns := aws.ToString(lb.LoadBalancerArn), aws.ToString(lb.DNSName)
	return arn, dns, d.record(models.Resource{Type: "aws_lb", Name: name, ID: arn, ARN: arn,
		Attributes: map[string]string{"dns_name": dns, "scheme": "internal"}})
}

func (d *Deployer) ensureTargetGroup(ctx context.Context) (string, error) {
	name := d.name("gateway-tg")
	r := d.state.Lookup("aws_lb_target_group", name)
	if r == nil {
		vpc := d.state.Lookup("aws_vpc", d.name("vpc"))
		out, err := d.elb.CreateTargetGroup(ctx, &elbv2.CreateTargetGroupInput{
			Name:            aws.String(name),
			Port:            aws.Int32(int32(d.cfg.GatewayPort)),
			Protocol:        elbtypes.ProtocolEnumHttp,
			VpcId:           aws.String(vpc.ID),
			TargetType:      elbtypes.TargetTypeEnumInstance,
			HealthCheckPath: aws.String("/health"),
		})
		if err != nil {
			return "", fmt.Errorf("Unable to create the target group. Error: %v", err)
		}
		tgArn := aws.ToString(out.TargetGroups[0].TargetGroupArn)
		if err := d.record(models.Resource{Type: "aws_lb_target_group", Name: name, ID: tgArn, ARN: tgArn,
			Attributes: map[string]string{"port": fmt.Sprint(d.cfg.GatewayPort)}}); err != nil {
			return "", err
		}
		r = d.state.Lookup("aws_lb_target_group", name)
	}
	if r.Attr("target") == "" {
		instance := d.state.Lookup("aws_instance", d.name("gateway"))
		if _, err := d.elb.RegisterTargets(ctx, &elbv2.RegisterTargetsInput{
			TargetGroupArn: aws.String(r.ARN),
			Targets:        []elbtypes.TargetDescription{{Id: aws.String(instance.ID)}},
		}); err != nil {
			return "", fmt.Errorf("Unable to register the gateway instance. Error: %v", err)
		}
		r.SetAttr("target", instance.ID)
		if err := d.record(*r); err != nil {
			return "", err
		}
	}
	return r.ARN, nil
}

func (d *Deployer) ensureListener(ctx context.Context, albArn, tgArn string) error {
	name := d.name("listener")
	if r := d.state.Lookup("aws_lb_listener", name); r != nil {
		return nil
	}
	out, err := d.elb.CreateListener(ctx, &elbv2.CreateListenerInput{
		LoadBalancerArn: aws.String(albArn),
		Port:            aws.Int32(80),
		Protocol:        elbtypes.ProtocolEnumHttp,
		DefaultActions: []elbtypes.Action{{
			Type:           elbtypes.ActionTypeEnumForward,
			TargetGroupArn: aws.String(tgArn),
		}},
	})
	if err != nil {
		return fmt.Errorf("Unable to create the ALB listener. Error: %v", err)
	}
	arn := aws.ToString(out.Listeners[0].ListenerArn)
	return d.record(models.Resource{Type: "aws_lb_listener", Name: name, ID: arn, ARN: arn})
}

func (d *Deployer) ensureVpcOrigin(ctx context.Context, albArn string) (string, error) {
	name := d.name("vpc-origin")
	if r := d.state.Lookup("aws_cloudfront_vpc_origin", name); r != nil {
		return r.ID, nil
	}
	out, err := d.cf.CreateVpcOrigin(ctx, &cloudfront.CreateVpcOriginInput{
		VpcOriginEndpointConfig: &cftypes.VpcOriginEndpointConfig{
			Arn:                  aws.String(albArn),
			Name:                 aws.String(name),
			HTTPPort:             aws.Int32(80),
			HTTPSPort:            aws.Int32(443),
			OriginProtocolPolicy: cftypes.OriginProtocolPolicyHttpOnly,
		},
	})
	if err != nil {
		return "", fmt.Errorf("Unable to create the CloudFront VPC origin. Error: %v", err)
	}
	id := aws.ToString(out.VpcOrigin.Id)
	return id, d.record(models.Resource{Type: "aws_cloudfront_vpc_origin", Name: name, ID: id,
		ARN: aws.ToString(out.VpcOrigin.Arn), Attributes: map[string]string{"alb_arn": albArn}})
}

func (d *Deployer) ensureDistribution(ctx context.Context, albDNS, vpcOriginID, webACLArn string) error {
	name := d.name("distribution")
	if r := d.state.Lookup("aws_cloudfront_distribution", name); r != nil {
		return nil
	}

	originID := "gateway-alb"
	cfg := &cftypes.DistributionConfig{
		CallerReference: aws.String(uuid.NewString()),
		Comment:         aws.String(fmt.Sprintf("OpenClaw gateway (%s)", d.cfg.Environment)),
		Enabled:         aws.Bool(true),
		WebACLId:        aws.String(webACLArn),
		Origins: &cftypes.Origins{
			Quantity: aws.Int32(1),
			Items: []cftypes.Origin{{
				Id:         aws.String(originID),
				DomainName: aws.String(albDNS),
				VpcOriginConfig: &cftypes.VpcOriginConfig{
					VpcOriginId: aws.String(vpcOriginID),
				},
			}},
		},
		DefaultCacheBehavior: &cftypes.DefaultCacheBehavior{
			TargetOriginId: aws.String(originID),
			// An API gateway has nothing cacheable: caching disabled,
			// everything forwarded to the origin.
			CachePolicyId:         aws.String(cachingDisabledPolicyID),
			OriginRequestPolicyId: aws.String(allViewerPolicyID),
			ViewerProtocolPolicy:  cftypes.ViewerProtocolPolicyHttpsOnly,
			AllowedMethods: &cftypes.AllowedMethods{
				Quantity: aws.Int32(7),
				Items: []cftypes.Method{
					cftypes.MethodGet, cftypes.MethodHead, cftypes.MethodOptions,
					cftypes.MethodPut, cftypes.MethodPost, cftypes.MethodPatch,
					cftypes.MethodDelete,
				},
				CachedMethods: &cftypes.CachedMethods{
					Quantity: aws.Int32(2),
					Items:    []cftypes.Method{cftypes.MethodGet, cftypes.MethodHead},
				},
			},
		},
		ViewerCertificate: &cftypes.ViewerCertificate{
			CloudFrontDefaultCertificate: aws.Bool(true),
		},
	}

	out, err := d.cf.CreateDistribution(ctx, &cloudfront.CreateDistributionInput{DistributionConfig: cfg})
	if err != nil {
		return fmt.Errorf("Unable to create the distribution. Error: %v", err)
	}
	id := aws.ToString(out.Distribution.Id)
	domain := aws.ToString(out.Distribution.DomainName)
	if err := d.record(models.Resource{Type: "aws_cloudfront_distribution", Name: name, ID: id,
		ARN:        aws.ToString(out.Distribution.ARN),
		Attributes: map[string]string{"domain_name": domain, "vpc_origin_id": vpcOriginID}}); err != nil {
		return err
	}

	logrus.Infof("waiting for distribution %s to deploy", id)
	waiter := cloudfront.NewDistributionDeployedWaiter(d.cf)
	if err := waiter.Wait(ctx, &cloudfront.GetDistributionInput{Id: aws.String(id)}, distributionDeployedWait); err != nil {
		return fmt.Errorf("distribution %s never finished deploying. Error: %v", id, err)
	}
	return nil
}
