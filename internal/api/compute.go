package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/sirupsen/logrus"

	"github.com/openclaw/clawctl/internal/api/embedded"
	"github.com/openclaw/clawctl/internal/models"
)

const (
	// al2023AmiParameter resolves the latest Amazon Linux 2023 AMI through
	// the public SSM parameter instead of a hardcoded image ID.
	al2023AmiParameter = "/aws/service/ami-amazon-linux-latest/al2023-ami-kernel-default-x86_64"

	cloudfrontOriginFacingPrefixList = "com.amazonaws.global.cloudfront.origin-facing"

	instanceRunningWait = 5 * time.Minute
	rootVolumeSizeGiB   = 30
)

var userDataTemplate = template.Must(template.New("userdata").Parse(embedded.UserDataTemplate))

// ensureCompute converges the two security groups (ALB and gateway) and the
// gateway instance itself: private subnet, no public IP, IMDSv2 required with
// a hop limit of 2 so containers can still reach the metadata service,
// encrypted gp3 root volume.
func (d *Deployer) ensureCompute(ctx context.Context) error {
	vpc := d.state.Lookup("aws_vpc", d.name("vpc"))

	albSG, err := d.ensureAlbSecurityGroup(ctx, vpc.ID)
	if err != nil {
		return err
	}
	gatewaySG, err := d.ensureGatewaySecurityGroup(ctx, vpc.ID, albSG)
	if err != nil {
		return err
	}
	return d.ensureInstance(ctx, gatewaySG)
}

// ensureAlbSecurityGroup admits 443 and 80 only from CloudFront's
// origin-facing managed prefix list, so the internal ALB is unreachable from
// anything but the distribution.
func (d *Deployer) ensureAlbSecurityGroup(ctx context.Context, vpcID string) (string, error) {
	name := d.name("alb-sg")
	r := d.state.Lookup("aws_security_group", name)
	if r == nil {
		prefixListID, err := d.cloudfrontPrefixList(ctx)
		if err != nil {
			return "", err
		}
		sgID, err := d.createSecurityGroup(ctx, vpcID, name, "OpenClaw internal ALB, CloudFront origin traffic only")
		if err != nil {
			return "", err
		}
		if err := d.record(models.Resource{Type: "aws_security_group", Name: name, ID: sgID,
			Attributes: map[string]string{"vpc_id": vpcID, "prefix_list_id": prefixListID}}); err != nil {
			return "", err
		}
		r = d.state.Lookup("aws_security_group", name)
	}
	if r.Attr("ingress") == "" {
		perms := make([]ec2types.IpPermission, 0, 2)
		for _, port := range []int32{443, 80} {
			perms = append(perms, ec2types.IpPermission{
				IpProtocol:    aws.String("tcp"),
				FromPort:      aws.Int32(port),
				ToPort:        aws.Int32(port),
				PrefixListIds: []ec2types.PrefixListId{{PrefixListId: aws.String(r.Attr("prefix_list_id"))}},
			})
		}
		if _, err := d.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       aws.String(r.ID),
			IpPermissions: perms,
		}); err != nil {
			return "", fmt.Errorf("Unable to authorize ALB ingress. Error: %v", err)
		}
		r.SetAttr("ingress", "authorized")
		if err := d.record(*r); err != nil {
			return "", err
		}
	}
	return r.ID, nil
}

// ensureGatewaySecurityGroup admits the gateway port from the ALB security
// group only.
func (d *Deployer) ensureGatewaySecurityGroup(ctx context.Context, vpcID, albSG string) (string, error) {
	name := d.name("gateway-sg")
	r := d.state.Lookup("aws_security_group", name)
	if r == nil {
		sgID, err := d.createSecurityGroup(ctx, vpcID, name, "OpenClaw gateway instance, ALB traffic only")
		if err != nil {
			return "", err
		}
		if err := d.record(models.Resource{Type: "aws_security_group", Name: name, ID: sgID,
			Attributes: map[string]string{"vpc_id": vpcID, "source_sg": albSG}}); err != nil {
			return "", err
		}
		r = d.state.Lookup("aws_security_group", name)
	}
	if r.Attr("ingress") == "" {
		if _, err := d.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId: aws.String(r.ID),
			IpPermissions: []ec2types.IpPermission{{
				IpProtocol:       aws.String("tcp"),
				FromPort:         aws.Int32(int32(d.cfg.GatewayPort)),
				ToPort:           aws.Int32(int32(d.cfg.GatewayPort)),
				UserIdGroupPairs: []ec2types.UserIdGroupPair{{GroupId: aws.String(albSG)}},
			}},
		}); err != nil {
			return "", fmt.Errorf("Unable to authorize gateway ingress. Error: %v", err)
		}
		r.SetAttr("ingress", "authorized")
		if err := d.record(*r); err != nil {
			return "", err
		}
	}
	return r.ID, nil
}

func (d *Deployer) createSecurityGroup(ctx context.Context, vpcID, name, description string) (string, error) {
	out, err := d.ec2.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:         aws.String(name),
		Description:       aws.String(description),
		VpcId:             aws.String(vpcID),
		TagSpecifications: d.ec2Tags(ec2types.ResourceTypeSecurityGroup, name),
	})
	if err != nil {
		return "", fmt.Errorf("Unable to create security group %s. Error: %v", name, err)
	}
	return aws.ToString(out.GroupId), nil
}

func (d *Deployer) cloudfrontPrefixList(ctx context.Context) (string, error) {
	out, err := d.ec2.DescribeManagedPrefixLists(ctx, &ec2.DescribeManagedPrefixListsInput{
		Filters: []ec2types.Filter{{
			Name:   aws.String("prefix-list-name"),
			Values: []string{cloudfrontOriginFacingPrefixList},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("Unable to look up the CloudFront origin-facing prefix list. Error: %v", err)
	}
	if len(out.PrefixLists) == 0 {
		return "", fmt.Errorf("prefix list %s not found in region %s", cloudfrontOriginFacingPrefixList, d.cfg.Region)
	}
	return aws.ToString(out.PrefixLists[0].PrefixListId), nil
}

func (d *Deployer) ensureInstance(ctx context.Context, gatewaySG string) error {
	name := d.name("gateway")
	if r := d.state.Lookup("aws_instance", name); r != nil {
		return nil
	}

	amiID, err := d.resolveAmi(ctx)
	if err != nil {
		return err
	}
	userData, err := d.renderUserData()
	if err != nil {
		return err
	}
	privateSubnet := d.state.Lookup("aws_subnet", d.name("private-a"))
	profile := d.state.Lookup("aws_iam_instance_profile", d.name("gateway-profile"))

	tags := d.ec2Tags(ec2types.ResourceTypeInstance, name)
	tags[0].Tags = append(tags[0].Tags, ec2types.Tag{
		Key: aws.String("Patch Group"), Value: aws.String(d.patchGroup()),
	})

	out, err := d.ec2.RunInstances(ctx, &ec2.RunInstancesInput{
		ImageId:          aws.String(amiID),
		InstanceType:     ec2types.InstanceType(d.cfg.InstanceType),
		MinCount:         aws.Int32(1),
		MaxCount:         aws.Int32(1),
		SubnetId:         aws.String(privateSubnet.ID),
		SecurityGroupIds: []string{gatewaySG},
		IamInstanceProfile: &ec2types.IamInstanceProfileSpecification{
			Name: aws.String(profile.ID),
		},
		UserData: aws.String(base64.StdEncoding.EncodeToString([]byte(userData))),
		MetadataOptions: &ec2types.InstanceMetadataOptionsRequest{
			HttpTokens:              ec2types.HttpTokensStateRequired,
			HttpPutResponseHopLimit: aws.Int32(2),
		},
		BlockDeviceMappings: []ec2types.BlockDeviceMapping{{
			DeviceName: aws.String("/dev/xvda"),
			Ebs: &ec2types.EbsBlockDevice{
				Encrypted:  aws.Bool(true),
				VolumeType: ec2types.VolumeTypeGp3,
				VolumeSize: aws.Int32(rootVolumeSizeGiB),
			},
		}},
		TagSpecifications: tags,
	})
	if err != nil {
		return fmt.Errorf("Unable to launch the gateway instance. Error: %v", err)
	}
	instanceID := aws.ToString(out.Instances[0].InstanceId)
	if err := d.record(models.Resource{Type: "aws_instance", Name: name, ID: instanceID,
		Attributes: map[string]string{
			"subnet_id":       privateSubnet.ID,
			"ami":             amiID,
			"instance_type":   d.cfg.InstanceType,
			"gateway_version": d.gatewayVersion(),
		}}); err != nil {
		return err
	}

	logrus.Infof("waiting for instance %s to run", instanceID)
	waiter := ec2.NewInstanceRunningWaiter(d.ec2)
	if err := waiter.Wait(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{instanceID}}, instanceRunningWait); err != nil {
		return fmt.Errorf("instance %s never reached running. Error: %v", instanceID, err)
	}
	return nil
}

func (d *Deployer) resolveAmi(ctx context.Context) (string, error) {
	out, err := d.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name: aws.String(al2023AmiParameter),
	})
	if err != nil {
		return "", fmt.Errorf("Unable to resolve the AL2023 AMI parameter. Error: %v", err)
	}
	return aws.ToString(out.Parameter.Value), nil
}

func (d *Deployer) renderUserData() (string, error) {
	secret := d.state.Lookup("aws_secretsmanager_secret", d.name("gateway-keys"))
	var sb strings.Builder
	err := userDataTemplate.Execute(&sb, struct {
		Port      int
		Region    string
		SecretARN string
		LogGroup  string
		Version   string
	}{
		Port:      d.cfg.GatewayPort,
		Region:    d.cfg.Region,
		SecretARN: secret.ARN,
		LogGroup:  d.logGroupName("gateway"),
		Version:   d.gatewayVersion(),
	})
	if err != nil {
		return "", fmt.Errorf("Unable to render the cloud-init script. Error: %v", err)
	}
	return sb.String(), nil
}

func (d *Deployer) gatewayVersion() string {
	if d.cfg.GatewayVersion == "" {
		return "latest"
	}
	return d.cfg.GatewayVersion
}

func (d *Deployer) patchGroup() string {
	return d.name("patch-group")
}
