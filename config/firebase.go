package config

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/HSouheill/academy_backend/logger"
	"google.golang.org/api/option"
)

var errNoFirebaseCredentials = errors.New("no firebase credentials configured")

// InitFirebase initializes the Firebase Admin SDK from base64 encoded
// credentials or a service account file.
func InitFirebase(ctx context.Context, cfg *Config) (*firebase.App, error) {
	var opt option.ClientOption
	switch {
	case cfg.FirebaseCredentialsBase64 != "":
		logger.Log.Info("using Firebase credentials from base64 environment variable")
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseCredentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("decode firebase credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
	case cfg.FirebaseCredentialsFile != "":
		logger.Log.Info("using Firebase credentials file")
		opt = option.WithCredentialsFile(cfg.FirebaseCredentialsFile)
	default:
		return nil, errNoFirebaseCredentials
	}

	var fbConfig *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	return app, nil
}
