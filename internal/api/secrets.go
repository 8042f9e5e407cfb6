package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/openclaw/clawctl/internal/clawerrors"
	"github.com/openclaw/clawctl/internal/models"
)

const placeholderValue = "REPLACE_ME"

// secretFields are the two string fields of the gateway secret blob.
var secretFields = []string{"anthropic_api_key", "openai_api_key"}

// ensureSecret creates the gateway API-key secret with placeholder values.
// Real values are injected out-of-band with `clawctl secret put`; deploy
// never reads or writes real key material.
func (d *Deployer) ensureSecret(ctx context.Context) error {
	name := d.name("gateway-keys")
	if r := d.state.Lookup("aws_secretsmanager_secret", name); r != nil {
		return nil
	}

	blob := map[string]string{}
	for _, f := range secretFields {
		blob[f] = placeholderValue
	}
	initial, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("Unable to marshal the initial secret blob. Error: %v", err)
	}

	out, err := d.secrets.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(name),
		Description:  aws.String("OpenClaw gateway model-provider API keys"),
		SecretString: aws.String(string(initial)),
	})
	if err != nil {
		return fmt.Errorf("Unable to create the gateway secret. Error: %v", err)
	}
	logrus.Infof("created secret %s with placeholder values", name)
	return d.record(models.Resource{
		Type: "aws_secretsmanager_secret", Name: name,
		ID: aws.ToString(out.Name), ARN: aws.ToString(out.ARN),
	})
}

// PutSecretField patches one field of the gateway secret JSON, leaving the
// other field untouched.
func PutSecretField(ctx context.Context, field, value string) error {
	d, err := NewDeployer(ctx)
	if err != nil {
		return err
	}
	return d.putSecretField(ctx, field, value)
}

func (d *Deployer) putSecretField(ctx context.Context, field, value string) error {
	known := false
	for _, f := range secretFields {
		if f == field {
			known = true
			break
		}
	}
	if !known {
		return clawerrors.ErrUnknownSecretField{Field: field}
	}

	r := d.state.Lookup("aws_secretsmanager_secret", d.name("gateway-keys"))
	if r == nil {
		return clawerrors.ErrStateNotFound{Environment: d.cfg.Environment}
	}

	got, err := d.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(r.ARN),
	})
	if err != nil {
		return fmt.Errorf("Unable to read the current secret value. Error: %v", err)
	}
	current := aws.ToString(got.SecretString)

	if gjson.Get(current, field).String() != placeholderValue {
		logrus.Warnf("secret field %s already holds a non-placeholder value, overwriting", field)
	}

	updated, err := sjson.Set(current, field, value)
	if err != nil {
		return fmt.Errorf("Unable to patch the secret blob. Error: %v", err)
	}
	if _, err := d.secrets.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:           aws.String(r.ARN),
		SecretString:       aws.String(updated),
		ClientRequestToken: aws.String(uuid.NewString()),
	}); err != nil {
		return fmt.Errorf("Unable to store the new secret version. Error: %v", err)
	}
	logrus.Infof("secret field %s updated", field)
	return nil
}
