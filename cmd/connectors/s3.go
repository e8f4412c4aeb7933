package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/verityio/data-reconciler/cmd/compressors"
	"github.com/verityio/data-reconciler/cmd/recon"
)

// S3Config holds S3 connection settings
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" json:"endpoint"`
	Bucket    string `mapstructure:"bucket" json:"bucket"`
	AccessKey string `mapstructure:"access_key" json:"-"`
	SecretKey string `mapstructure:"secret_key" json:"-"`
	Region    string `mapstructure:"region" json:"region,omitempty"`
}

// S3Connector downloads one object and parses it as a delimited file,
// decompressing by key extension.
type S3Connector struct {
	config S3Config
	key    string
	logger *slog.Logger
}

// NewS3Connector creates a connector for one object key.
func NewS3Connector(config S3Config, key string, logger *slog.Logger) *S3Connector {
	return &S3Connector{config: config, key: key, logger: logger}
}

// Name identifies the source in logs and reports
func (c *S3Connector) Name() string {
	base := filepath.Base(compressors.TrimCompressionExt(c.key))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load downloads the object to a temp file and parses it.
func (c *S3Connector) Load(ctx context.Context) (*recon.Table, error) {
	downloader, err := c.newDownloader()
	if err != nil {
		return nil, err
	}

	tempFile, err := os.CreateTemp("", "reconcile-download-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if c.logger != nil {
		c.logger.Debug(fmt.Sprintf("Downloading s3://%s/%s", c.config.Bucket, c.key))
	}
	_, err = downloader.DownloadWithContext(ctx, tempFile, &s3.GetObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(c.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", c.config.Bucket, c.key, err)
	}
	if _, err := tempFile.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind temp file: %w", err)
	}

	return loadFile(tempFile, c.Name(), c.key)
}

func (c *S3Connector) newDownloader() (*s3manager.Downloader, error) {
	region := c.config.Region
	if region == "" {
		region = "auto"
	}
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(c.config.Endpoint),
		Region:           aws.String(region),
		Credentials:      credentials.NewStaticCredentials(c.config.AccessKey, c.config.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return s3manager.NewDownloader(sess), nil
}
