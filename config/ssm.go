package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// LoadSSMParameters overlays Parameter Store values under SSM_PARAMETER_PATH onto
// cfg. The last path segment is the key. Values already present in the
// environment are left alone.
func LoadSSMParameters(ctx context.Context, cfg map[string]string) error {
	prefix := GetString(cfg, "SSM_PARAMETER_PATH", "")
	if prefix == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(GetString(cfg, "AWS_REGION", GetString(cfg, "S3_REGION", "us-east-1"))),
	)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	n, err := overlayParameters(ctx, ssm.NewFromConfig(awsCfg), prefix, cfg)
	if err != nil {
		return err
	}
	log.Info().Str("path", prefix).Int("parameters", n).Msg("Loaded SSM parameters")
	return nil
}

func overlayParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string, cfg map[string]string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	applied := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return applied, fmt.Errorf("get parameters by path %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			key := strings.ToUpper(path.Base(aws.ToString(p.Name)))
			if key == "" || key == "." || key == "/" {
				continue
			}
			if existing, ok := cfg[key]; ok && existing != "" {
				continue
			}
			cfg[key] = aws.ToString(p.Value)
			applied++
		}
	}
	return applied, nil
}
