package config

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
)

// NewAWSSession builds the session used for S3 presigning. Credentials come
// from the default AWS chain (env vars, shared config, instance role).
func NewAWSSession(cfg *Config) (*session.Session, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.AWSRegion)
	if cfg.S3Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.S3Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return sess, nil
}
