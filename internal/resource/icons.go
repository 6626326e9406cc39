package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

// ErrIconMissing is returned when no icon object exists for a resource
// name. Callers fall back to PlaceholderKey instead of failing.
var ErrIconMissing = fmt.Errorf("icon not found")

// PlaceholderKey is the icon substituted when a lookup misses.
const PlaceholderKey = "icons/placeholder.png"

// IconCategory namespaces icon keys per catalog kind.
type IconCategory string

const (
	KillerIcons   IconCategory = "killers"
	SurvivorIcons IconCategory = "survivors"
	ItemIcons     IconCategory = "items"
	AddonIcons    IconCategory = "addons"
	PerkIcons     IconCategory = "perks"
	OfferingIcons IconCategory = "offerings"
	MapIcons      IconCategory = "maps"
)

// IconStore resolves and mirrors icon assets. Widget-level consumers get a
// provider instance at construction instead of a process-wide table, so the
// store can be faked in tests.
type IconStore interface {
	// IconURL resolves a display name to a public icon URL. A miss yields
	// the placeholder URL and ErrIconMissing.
	IconURL(ctx context.Context, category IconCategory, displayName string) (string, error)

	// MirrorFromURL downloads an image and stores it under the canonical
	// key for the display name, returning the stored URL.
	MirrorFromURL(ctx context.Context, category IconCategory, displayName, sourceURL string) (string, error)

	TestConnection(ctx context.Context) error
}

type s3IconStore struct {
	s3     *s3.Client
	http   *http.Client
	bucket string
	region string
}

// NewS3IconStore builds an S3-backed icon store.
func NewS3IconStore(accessKey, secretKey, bucketName, region string) (IconStore, error) {
	credProvider := aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     accessKey,
			SecretAccessKey: secretKey,
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credProvider),
	)
	if err != nil {
		return nil, err
	}

	return &s3IconStore{
		s3:     s3.NewFromConfig(cfg),
		http:   &http.Client{Timeout: 30 * time.Second},
		bucket: bucketName,
		region: region,
	}, nil
}

func (s *s3IconStore) key(category IconCategory, displayName string) string {
	return fmt.Sprintf("icons/%s/%s.png", category, ToResourceName(displayName))
}

func (s *s3IconStore) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// IconURL resolves a display name to its stored icon URL.
func (s *s3IconStore) IconURL(ctx context.Context, category IconCategory, displayName string) (string, error) {
	key := s.key(category, displayName)
	_, err := s.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			log.Debug().
				Str("category", string(category)).
				Str("name", displayName).
				Str("key", key).
				Msg("Icon missing, using placeholder")
			return s.objectURL(PlaceholderKey), ErrIconMissing
		}
		return "", err
	}
	return s.objectURL(key), nil
}

// MirrorFromURL downloads an image and uploads it under the canonical key.
func (s *s3IconStore) MirrorFromURL(ctx context.Context, category IconCategory, displayName, sourceURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download icon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("icon download returned status %d", resp.StatusCode)
	}

	key := s.key(category, displayName)
	uploader := manager.NewUploader(s.s3)
	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   resp.Body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload icon: %w", err)
	}

	url := s.objectURL(key)
	log.Debug().
		Str("category", string(category)).
		Str("name", displayName).
		Str("url", url).
		Msg("Mirrored icon")
	return url, nil
}

func (s *s3IconStore) TestConnection(ctx context.Context) error {
	_, err := s.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(1), // Only fetch 1 key to minimize data transfer
	})
	log.Err(err).Msg("AWS S3 Test Connection")

	return err
}
