package api

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/openclaw/clawctl/internal/api/embedded"
	"github.com/openclaw/clawctl/internal/clawerrors"
	"github.com/openclaw/clawctl/internal/models"
)

// patchApproveAfterDays is how long a security patch waits in the baseline
// before auto-approval.
const patchApproveAfterDays = 7

type janitorTask struct {
	suffix   string
	handler  []byte
	schedule string
}

// janitorTasks: a daily patch scan and a weekly Docker prune, both one SSM
// command issued by a trivial embedded handler.
var janitorTasks = []janitorTask{
	{"patch-scan", embedded.PatchScanHandler, "cron(0 3 * * ? *)"},
	{"docker-prune", embedded.DockerPruneHandler, "cron(0 4 ? * SUN *)"},
}

// ensureJanitor converges the cleanup side channel: the janitor role, one
// Lambda per task with its EventBridge cron rule, and the AL2023 patch
// baseline registered to the environment's patch group.
func (d *Deployer) ensureJanitor(ctx context.Context) error {
	instance := d.state.Lookup("aws_instance", d.name("gateway"))
	roleArn, err := d.ensureJanitorRole(ctx, instance.ID)
	if err != nil {
		return err
	}
	for _, task := range janitorTasks {
		fnArn, err := d.ensureJanitorFunction(ctx, task, roleArn, instance.ID)
		if err != nil {
			return err
		}
		if err := d.ensureJanitorSchedule(ctx, task, fnArn); err != nil {
			return err
		}
	}
	return d.ensurePatchBaseline(ctx)
}

func (d *Deployer) ensureJanitorFunction(ctx context.Context, task janitorTask, roleArn, instanceID string) (string, error) {
	name := d.name(task.suffix)
	if r := d.state.Lookup("aws_lambda_function", name); r != nil {
		return r.ARN, nil
	}
	bundle, err := zipHandler(task.handler)
	if err != nil {
		return "", err
	}
	out, err := d.lambda.CreateFunction(ctx, &lambda.CreateFunctionInput{
		FunctionName: aws.String(name),
		Role:         aws.String(roleArn),
		Runtime:      lambdatypes.RuntimePython312,
		Handler:      aws.String("handler.lambda_handler"),
		Code:         &lambdatypes.FunctionCode{ZipFile: bundle},
		Timeout:      aws.Int32(60),
		Environment: &lambdatypes.Environment{
			Variables: map[string]string{"INSTANCE_ID": instanceID},
		},
		Tags: map[string]string{
			"Environment": d.cfg.Environment,
			"ManagedBy":   "clawctl",
		},
	})
	if err != nil {
		return "", fmt.Errorf("Unable to create janitor function %s. Error: %v", name, err)
	}
	arn := aws.ToString(out.FunctionArn)
	return arn, d.record(models.Resource{Type: "aws_lambda_function", Name: name, ID: name, ARN: arn,
		Attributes: map[string]string{"task": task.suffix}})
}

func (d *Deployer) ensureJanitorSchedule(ctx context.Context, task janitorTask, fnArn string) error {
	name := d.name(task.suffix + "-schedule")
	r := d.state.Lookup("aws_cloudwatch_event_rule", name)
	if r == nil {
		rule, err := d.events.PutRule(ctx, &eventbridge.PutRuleInput{
			Name:               aws.String(name),
			ScheduleExpression: aws.String(task.schedule),
			State:              ebtypes.RuleStateEnabled,
		})
		if err != nil {
			return fmt.Errorf("Unable to put schedule rule %s. Error: %v", name, err)
		}
		if err := d.record(models.Resource{Type: "aws_cloudwatch_event_rule", Name: name, ID: name,
			ARN: aws.ToString(rule.RuleArn), Attributes: map[string]string{"schedule": task.schedule}}); err != nil {
			return err
		}
		r = d.state.Lookup("aws_cloudwatch_event_rule", name)
	}
	if r.Attr("target") == "" {
		if _, err := d.events.PutTargets(ctx, &eventbridge.PutTargetsInput{
			Rule:    aws.String(name),
			Targets: []ebtypes.Target{{Id: aws.String("janitor"), Arn: aws.String(fnArn)}},
		}); err != nil {
			return fmt.Errorf("Unable to target the janitor function from %s. Error: %v", name, err)
		}
		r.SetAttr("target", fnArn)
		if err := d.record(*r); err != nil {
			return err
		}
	}
	if r.Attr("invoke_permission") == "" {
		if _, err := d.lambda.AddPermission(ctx, &lambda.AddPermissionInput{
			FunctionName: aws.String(d.name(task.suffix)),
			StatementId:  aws.String("eventbridge-" + task.suffix),
			Action:       aws.String("lambda:InvokeFunction"),
			Principal:    aws.String("events.amazonaws.com"),
			SourceArn:    aws.String(r.ARN),
		}); err != nil {
			return fmt.Errorf("Unable to permit EventBridge to invoke %s. Error: %v", d.name(task.suffix), err)
		}
		r.SetAttr("invoke_permission", "eventbridge-"+task.suffix)
		if err := d.record(*r); err != nil {
			return err
		}
	}
	return nil
}

func (d *Deployer) ensurePatchBaseline(ctx context.Context) error {
	name := d.name("patch-baseline")
	r := d.state.Lookup("aws_ssm_patch_baseline", name)
	if r == nil {
		out, err := d.ssm.CreatePatchBaseline(ctx, &ssm.CreatePatchBaselineInput{
			Name:            aws.String(name),
			OperatingSystem: ssmtypes.OperatingSystemAmazonLinux2023,
			ApprovalRules: &ssmtypes.PatchRuleGroup{
				PatchRules: []ssmtypes.PatchRule{{
					PatchFilterGroup: &ssmtypes.PatchFilterGroup{
						PatchFilters: []ssmtypes.PatchFilter{{
							Key:    ssmtypes.PatchFilterKeyClassification,
							Values: []string{"Security"},
						}},
					},
					ApproveAfterDays: aws.Int32(patchApproveAfterDays),
				}},
			},
		})
		if err != nil {
			return fmt.Errorf("Unable to create the patch baseline. Error: %v", err)
		}
		if err := d.record(models.Resource{Type: "aws_ssm_patch_baseline", Name: name,
			ID: aws.ToString(out.BaselineId)}); err != nil {
			return err
		}
		r = d.state.Lookup("aws_ssm_patch_baseline", name)
	}
	if r.Attr("patch_group") == "" {
		if _, err := d.ssm.RegisterPatchBaselineForPatchGroup(ctx, &ssm.RegisterPatchBaselineForPatchGroupInput{
			BaselineId: aws.String(r.ID),
			PatchGroup: aws.String(d.patchGroup()),
		}); err != nil {
			return fmt.Errorf("Unable to register the patch baseline. Error: %v", err)
		}
		r.SetAttr("patch_group", d.patchGroup())
		if err := d.record(*r); err != nil {
			return err
		}
	}
	return nil
}

// zipHandler builds an in-memory Lambda bundle holding one handler.py.
func zipHandler(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("handler.py")
	if err != nil {
		return nil, fmt.Errorf("Unable to build the lambda bundle. Error: %v", err)
	}
	if _, err := f.Write(source); err != nil {
		return nil, fmt.Errorf("Unable to write the lambda bundle. Error: %v", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("Unable to finish the lambda bundle. Error: %v", err)
	}
	return buf.Bytes(), nil
}

// InvokeJanitor runs one janitor task on demand instead of waiting for its
// schedule.
func InvokeJanitor(ctx context.Context, task string) (string, error) {
	d, err := NewDeployer(ctx)
	if err != nil {
		return "", err
	}
	return d.invokeJanitor(ctx, task)
}

func (d *Deployer) invokeJanitor(ctx context.Context, task string) (string, error) {
	known := false
	for _, t := range janitorTasks {
		if t.suffix == task {
			known = true
			break
		}
	}
	if !known {
		return "", clawerrors.ErrUnknownJanitorTask{Task: task}
	}
	fn := d.state.Lookup("aws_lambda_function", d.name(task))
	if fn == nil {
		return "", clawerrors.ErrStateNotFound{Environment: d.cfg.Environment}
	}
	out, err := d.lambda.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(fn.Name),
	})
	if err != nil {
		return "", fmt.Errorf("Unable to invoke %s. Error: %v", fn.Name, err)
	}
	if out.FunctionError != nil {
		return "", fmt.Errorf("janitor task %s failed: %s", task, string(out.Payload))
	}
	commandID := gjson.GetBytes(out.Payload, "command_id").String()
	logrus.Infof("janitor task %s dispatched SSM command %s", task, commandID)
	return commandID, nil
}
