// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package cmd provides the zapcli command-line interface. Commands map
// error kinds from the client engine to process exit codes; all
// orchestration (retry, region following) happens here through
// client.Retry, never inside the engine.
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/LeeDigitalWorks/zapcli/pkg/client"
	"github.com/LeeDigitalWorks/zapcli/pkg/debug"
	"github.com/LeeDigitalWorks/zapcli/pkg/logger"
	"github.com/LeeDigitalWorks/zapcli/pkg/metrics"
	"github.com/LeeDigitalWorks/zapcli/pkg/s3err"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "zapcli",
	Short: "zapcli - an S3-compatible object storage client",
	Long: `zapcli is a command-line client for S3-compatible object storage.
It speaks the REST/XML protocol directly: put, get, delete, bulk delete,
paginated listing and multipart upload.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file")
	rootCmd.PersistentFlags().String("region", "", "Service region")
	rootCmd.PersistentFlags().String("endpoint", "", "Endpoint override for S3-compatible services")
	rootCmd.PersistentFlags().String("access_key", "", "Access key id (with --secret_key; default is the standard credential chain)")
	rootCmd.PersistentFlags().String("secret_key", "", "Secret access key")
	rootCmd.PersistentFlags().Int("retries", client.DefaultRetryAttempts, "Attempts per command across redirects and throttles")
	rootCmd.PersistentFlags().String("debug_addr", "", "Serve metrics and pprof on this address (e.g. 127.0.0.1:6060)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if path, _ := rootCmd.PersistentFlags().GetString("config"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(".zapcli")
		viper.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("ZAPCLI")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logger.Warn().Err(err).Msg("failed to read config file")
		}
	}
}

// newClient builds the engine client from flags, config file and env,
// in that precedence.
func newClient(cmd *cobra.Command) (*client.Client, error) {
	flags := NewFlagLoader(cmd)

	m := metrics.New()
	cfg := client.Config{
		Region:   flags.String("region"),
		Endpoint: flags.String("endpoint"),
		Metrics:  m,
	}

	if addr := flags.String("debug_addr"); addr != "" {
		if err := debug.Serve(addr, m.Registry()); err != nil {
			return nil, err
		}
	}

	accessKey := flags.String("access_key")
	secretKey := flags.String("secret_key")
	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(cmd.Context())
		if err != nil {
			return nil, err
		}
		cfg.Credentials = awsCfg.Credentials
		if cfg.Region == "" {
			cfg.Region = awsCfg.Region
		}
	}

	return client.New(cfg), nil
}

// retries returns the per-command attempt budget.
func retries(cmd *cobra.Command) int {
	return NewFlagLoader(cmd).Int("retries")
}

// exitCode maps an engine error to a process exit code.
func exitCode(err error) int {
	switch s3err.KindOf(err) {
	case 0:
		if err != nil {
			return 1
		}
		return 0
	case s3err.KindNotFound:
		return 2
	case s3err.KindThrottled:
		return 3
	case s3err.KindTransport:
		return 4
	default:
		return 1
	}
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(exitCode(err))
	}
}
