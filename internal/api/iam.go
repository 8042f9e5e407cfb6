package api

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/openclaw/clawctl/internal/models"
)

const ssmCorePolicyArn = "arn:aws:iam::aws:policy/AmazonSSMManagedInstanceCore"

const ec2TrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"Service": "ec2.amazonaws.com"},
    "Action": "sts:AssumeRole"
  }]
}`

const lambdaTrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"Service": "lambda.amazonaws.com"},
    "Action": "sts:AssumeRole"
  }]
}`

// gatewayPolicy grants exactly what the instance needs: reading the one
// gateway secret and writing its own log group. %s fill-ins: secret ARN,
// log group ARN.
const gatewayPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": "secretsmanager:GetSecretValue",
      "Resource": "%s"
    },
    {
      "Effect": "Allow",
      "Action": ["logs:CreateLogStream", "logs:PutLogEvents"],
      "Resource": "%s"
    }
  ]
}`

// janitorPolicy lets the janitor lambdas send the two SSM commands to the
// gateway instance and write their own logs. %s fill-ins: region, account,
// instance ID, region, account.
const janitorPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": "ssm:SendCommand",
      "Resource": [
        "arn:aws:ec2:%s:%s:instance/%s",
        "arn:aws:ssm:*::document/AWS-RunPatchBaseline",
        "arn:aws:ssm:*::document/AWS-RunShellScript"
      ]
    },
    {
      "Effect": "Allow",
      "Action": ["logs:CreateLogGroup", "logs:CreateLogStream", "logs:PutLogEvents"],
      "Resource": "arn:aws:logs:%s:%s:*"
    }
  ]
}`

// ensureIdentity converges the instance role with its least-privilege inline
// policy, the instance profile, and the janitor lambda role.
func (d *Deployer) ensureIdentity(ctx context.Context) error {
	secret := d.state.Lookup("aws_secretsmanager_secret", d.name("gateway-keys"))
	logGroupArn := fmt.Sprintf("arn:aws:logs:%s:%s:log-group:%s:*", d.cfg.Region, d.account, d.logGroupName("gateway"))

	roleName := d.name("gateway-role")
	role := d.state.Lookup("aws_iam_role", roleName)
	if role == nil {
		arn, err := d.createRole(ctx, roleName, ec2TrustPolicy)
		if err != nil {
			return err
		}
		if err := d.record(models.Resource{Type: "aws_iam_role", Name: roleName, ID: roleName, ARN: arn}); err != nil {
			return err
		}
		role = d.state.Lookup("aws_iam_role", roleName)
	}
	if role.Attr("managed_policy") == "" {
		if _, err := d.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
			RoleName:  aws.String(roleName),
			PolicyArn: aws.String(ssmCorePolicyArn),
		}); err != nil {
			return fmt.Errorf("Unable to attach the SSM core policy. Error: %v", err)
		}
		role.SetAttr("managed_policy", ssmCorePolicyArn)
		if err := d.record(*role); err != nil {
			return err
		}
	}
	if role.Attr("inline_policy") == "" {
		if _, err := d.iam.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
			RoleName:       aws.String(roleName),
			PolicyName:     aws.String("gateway-least-privilege"),
			PolicyDocument: aws.String(fmt.Sprintf(gatewayPolicy, secret.ARN, logGroupArn)),
		}); err != nil {
			return fmt.Errorf("Unable to put the gateway inline policy. Error: %v", err)
		}
		role.SetAttr("inline_policy", "gateway-least-privilege")
		if err := d.record(*role); err != nil {
			return err
		}
	}

	profileName := d.name("gateway-profile")
	profile := d.state.Lookup("aws_iam_instance_profile", profileName)
	if profile == nil {
		out, err := d.iam.CreateInstanceProfile(ctx, &iam.CreateInstanceProfileInput{
			InstanceProfileName: aws.String(profileName),
		})
		if err != nil {
			return fmt.Errorf("Unable to create the instance profile. Error: %v", err)
		}
		if err := d.record(models.Resource{Type: "aws_iam_instance_profile", Name: profileName, ID: profileName,
			ARN: aws.ToString(out.InstanceProfile.Arn)}); err != nil {
			return err
		}
		profile = d.state.Lookup("aws_iam_instance_profile", profileName)
	}
	if profile.Attr("role") == "" {
		if _, err := d.iam.AddRoleToInstanceProfile(ctx, &iam.AddRoleToInstanceProfileInput{
			InstanceProfileName: aws.String(profileName),
			RoleName:            aws.String(roleName),
		}); err != nil {
			return fmt.Errorf("Unable to add the role to the instance profile. Error: %v", err)
		}
		profile.SetAttr("role", roleName)
		if err := d.record(*profile); err != nil {
			return err
		}
	}

	return nil
}

// ensureJanitorRole needs the instance ID, so it runs with the janitor step
// rather than with the rest of the identity resources.
func (d *Deployer) ensureJanitorRole(ctx context.Context, instanceID string) (string, error) {
	roleName := d.name("janitor-role")
	role := d.state.Lookup("aws_iam_role", roleName)
	if role == nil {
		arn, err := d.createRole(ctx, roleName, lambdaTrustPolicy)
		if err != nil {
			return "", err
		}
		if err := d.record(models.Resource{Type: "aws_iam_role", Name: roleName, ID: roleName, ARN: arn}); err != nil {
			return "", err
		}
		role = d.state.Lookup("aws_iam_role", roleName)
	}
	if role.Attr("inline_policy") == "" {
		if _, err := d.iam.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
			RoleName:       aws.String(roleName),
			PolicyName:     aws.String("janitor-ssm-command"),
			PolicyDocument: aws.String(fmt.Sprintf(janitorPolicy, d.cfg.Region, d.account, instanceID, d.cfg.Region, d.account)),
		}); err != nil {
			return "", fmt.Errorf("Unable to put the janitor inline policy. Error: %v", err)
		}
		role.SetAttr("inline_policy", "janitor-ssm-command")
		if err := d.record(*role); err != nil {
			return "", err
		}
	}
	return role.ARN, nil
}

func (d *Deployer) createRole(ctx context.Context, roleName, trustPolicy string) (string, error) {
	out, err := d.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(roleName),
		AssumeRolePolicyDocument: aws.String(trustPolicy),
		Tags: []iamtypes.Tag{
			{Key: aws.String("Environment"), Value: aws.String(d.cfg.Environment)},
			{Key: aws.String("ManagedBy"), Value: aws.String("clawctl")},
		},
	})
	if err != nil {
		return "", fmt.Errorf("Unable to create role %s. Error: %v", roleName, err)
	}
	return aws.ToString(out.Role.Arn), nil
}
