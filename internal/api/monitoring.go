package api

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/guardduty"
	"github.com/aws/aws-sdk-go-v2/service/inspector2"
	inspectortypes "github.com/aws/aws-sdk-go-v2/service/inspector2/types"
	"github.com/sirupsen/logrus"

	"github.com/openclaw/clawctl/internal/models"
)

const logRetentionDays = 30

func (d *Deployer) logGroupName(component string) string {
	return fmt.Sprintf("/openclaw/%s/%s", d.cfg.Environment, component)
}

// ensureLogGroups runs before compute so the instance's awslogs driver and
// the IAM inline policy have an existing group to point at.
func (d *Deployer) ensureLogGroups(ctx context.Context) error {
	for _, component := range []string{"gateway", "janitor"} {
		name := d.logGroupName(component)
		if r := d.state.Lookup("aws_cloudwatch_log_group", name); r != nil {
			continue
		}
		if _, err := d.logs.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
			LogGroupName: aws.String(name),
			Tags: map[string]string{
				"Environment": d.cfg.Environment,
				"ManagedBy":   "clawctl",
			},
		}); err != nil {
			return fmt.Errorf("Unable to create log group %s. Error: %v", name, err)
		}
		if _, err := d.logs.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
			LogGroupName:    aws.String(name),
			RetentionInDays: aws.Int32(logRetentionDays),
		}); err != nil {
			return fmt.Errorf("Unable to set retention on %s. Error: %v", name, err)
		}
		if err := d.record(models.Resource{Type: "aws_cloudwatch_log_group", Name: name, ID: name,
			Attributes: map[string]string{"retention_days": fmt.Sprint(logRetentionDays)}}); err != nil {
			return err
		}
	}
	return nil
}

// ensureMonitoring converges the instance alarms and adopts or enables the
// account-wide detection services. Adopted resources are flagged in state and
// never destroyed by clawctl.
func (d *Deployer) ensureMonitoring(ctx context.Context) error {
	if err := d.ensureAlarms(ctx); err != nil {
		return err
	}
	if err := d.ensureGuardDuty(ctx); err != nil {
		return err
	}
	return d.ensureInspector(ctx)
}

func (d *Deployer) ensureAlarms(ctx context.Context) error {
	instance := d.state.Lookup("aws_instance", d.name("gateway"))
	dimensions := []cwtypes.Dimension{{
		Name:  aws.String("InstanceId"),
		Value: aws.String(instance.ID),
	}}

	alarms := []struct {
		suffix     string
		metric     string
		statistic  cwtypes.Statistic
		threshold  float64
		comparison cwtypes.ComparisonOperator
	}{
		{"cpu-high", "CPUUtilization", cwtypes.StatisticAverage, 80, cwtypes.ComparisonOperatorGreaterThanThreshold},
		{"status-check-failed", "StatusCheckFailed_System", cwtypes.StatisticMaximum, 1, cwtypes.ComparisonOperatorGreaterThanOrEqualToThreshold},
	}
	for _, a := range alarms {
		name := d.name(a.suffix)
		if r := d.state.Lookup("aws_cloudwatch_metric_alarm", name); r != nil {
			continue
		}
		if _, err := d.cw.PutMetricAlarm(ctx, &cloudwatch.PutMetricAlarmInput{
			AlarmName:          aws.String(name),
			Namespace:          aws.String("AWS/EC2"),
			MetricName:         aws.String(a.metric),
			Statistic:          a.statistic,
			Period:             aws.Int32(300),
			EvaluationPeriods:  aws.Int32(2),
			Threshold:          aws.Float64(a.threshold),
			ComparisonOperator: a.comparison,
			Dimensions:         dimensions,
		}); err != nil {
			return fmt.Errorf("Unable to put alarm %s. Error: %v", name, err)
		}
		if err := d.record(models.Resource{Type: "aws_cloudwatch_metric_alarm", Name: name, ID: name,
			Attributes: map[string]string{"metric": a.metric, "instance_id": instance.ID}}); err != nil {
			return err
		}
	}
	return nil
}

func (d *Deployer) ensureGuardDuty(ctx context.Context) error {
	name := d.name("guardduty")
	if r := d.state.Lookup("aws_guardduty_detector", name); r != nil {
		return nil
	}
	existing, err := d.guardduty.ListDetectors(ctx, &guardduty.ListDetectorsInput{})
	if err != nil {
		return fmt.Errorf("Unable to list GuardDuty detectors. Error: %v", err)
	}
	if len(existing.DetectorIds) > 0 {
		logrus.Infof("adopting existing GuardDuty detector %s", existing.DetectorIds[0])
		return d.record(models.Resource{Type: "aws_guardduty_detector", Name: name,
			ID: existing.DetectorIds[0], Adopted: true})
	}
	out, err := d.guardduty.CreateDetector(ctx, &guardduty.CreateDetectorInput{
		Enable: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("Unable to create the GuardDuty detector. Error: %v", err)
	}
	return d.record(models.Resource{Type: "aws_guardduty_detector", Name: name,
		ID: aws.ToString(out.DetectorId)})
}

func (d *Deployer) ensureInspector(ctx context.Context) error {
	name := d.name("inspector")
	if r := d.state.Lookup("aws_inspector2_enabler", name); r != nil {
		return nil
	}
	status, err := d.inspector.BatchGetAccountStatus(ctx, &inspector2.BatchGetAccountStatusInput{
		AccountIds: []string{d.account},
	})
	if err != nil {
		return fmt.Errorf("Unable to read the Inspector account status. Error: %v", err)
	}
	for _, acct := range status.Accounts {
		if acct.State != nil && acct.State.Status == inspectortypes.StatusEnabled {
			logrus.Info("adopting already-enabled Inspector coverage")
			return d.record(models.Resource{Type: "aws_inspector2_enabler", Name: name,
				ID: d.account, Adopted: true})
		}
	}
	if _, err := d.inspector.Enable(ctx, &inspector2.EnableInput{
		AccountIds:    []string{d.account},
		ResourceTypes: []inspectortypes.ResourceScanType{inspectortypes.ResourceScanTypeEc2},
	}); err != nil {
		return fmt.Errorf("Unable to enable Inspector EC2 scanning. Error: %v", err)
	}
	return d.record(models.Resource{Type: "aws_inspector2_enabler", Name: name, ID: d.account})
}
