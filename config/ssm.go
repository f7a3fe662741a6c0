package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// SSMPrefix marks a config value that names an SSM Parameter Store entry
const SSMPrefix = "ssm:"

// ParameterGetter is the subset of the SSM client used to resolve secrets
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NeedsSSM reports whether any value in config references an SSM parameter
func NeedsSSM(config map[string]string) bool {
	for _, value := range config {
		if strings.HasPrefix(value, SSMPrefix) {
			return true
		}
	}
	return false
}

// NewSSMClient builds an SSM client from the default AWS credential chain
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// ResolveSSM replaces every "ssm:<name>" value in config with the decrypted parameter value.
// The map is updated in place.
func ResolveSSM(ctx context.Context, config map[string]string, client ParameterGetter) error {
	for key, value := range config {
		if !strings.HasPrefix(value, SSMPrefix) {
			continue
		}

		name := strings.TrimPrefix(value, SSMPrefix)
		if name == "" {
			return fmt.Errorf("config key %s: empty ssm parameter name", key)
		}

		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("config key %s: fetching ssm parameter %s: %w", key, name, err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return fmt.Errorf("config key %s: ssm parameter %s has no value", key, name)
		}

		config[key] = aws.ToString(out.Parameter.Value)
		log.Debug().Str("key", key).Str("parameter", name).Msg("resolved config value from ssm")
	}
	return nil
}
