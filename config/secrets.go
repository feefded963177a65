package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rpupo63/cms-backend/errs"
)

// ParameterReader is the subset of the SSM client used to resolve secrets
type ParameterReader interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewSSMReader builds an SSM client from the default AWS credential chain
func NewSSMReader(ctx context.Context, region string) (*ssm.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errs.NewConfigInvalidError("AWS_REGION", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// ResolveSecret returns the value of key. When <key>_SSM_PARAMETER names a
// parameter, the decrypted parameter value wins over the plain variable.
func ResolveSecret(ctx context.Context, c map[string]string, key string, reader ParameterReader) (string, error) {
	if param := GetString(c, key+"_SSM_PARAMETER", ""); param != "" && reader != nil {
		out, err := reader.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(param),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return "", errs.NewConfigInvalidError(key+"_SSM_PARAMETER", err)
		}
		if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
			return "", errs.NewConfigMissingError(param)
		}
		return aws.ToString(out.Parameter.Value), nil
	}

	if value := GetString(c, key, ""); value != "" {
		return value, nil
	}
	return "", errs.NewConfigMissingError(key)
}
