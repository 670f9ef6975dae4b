// Package storage archives completed transcripts to S3-compatible
// object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	appconfig "ytscribe/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type SpacesClient struct {
	client *s3.Client
	bucket string
}

func NewSpacesClient(cfg appconfig.SpacesConfig) (*SpacesClient, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: cfg.Endpoint,
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	return &SpacesClient{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
	}, nil
}

type transcriptObject struct {
	VideoID    string    `json:"video_id"`
	Transcript string    `json:"transcript"`
	Timestamp  time.Time `json:"timestamp"`
}

func transcriptKey(videoID string) string {
	return fmt.Sprintf("transcripts/%s.json", videoID)
}

// SaveTranscript uploads a completed transcript keyed by video ID.
func (s *SpacesClient) SaveTranscript(ctx context.Context, videoID, text string) error {
	jsonData, err := json.Marshal(transcriptObject{
		VideoID:    videoID,
		Transcript: text,
		Timestamp:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %v", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(transcriptKey(videoID)),
		Body:        bytes.NewReader(jsonData),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to save to Spaces: %v", err)
	}

	return nil
}

// GetTranscript fetches a previously archived transcript.
func (s *SpacesClient) GetTranscript(ctx context.Context, videoID string) (string, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(transcriptKey(videoID)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get from Spaces: %v", err)
	}
	defer result.Body.Close()

	var data transcriptObject
	if err := json.NewDecoder(result.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode transcript: %v", err)
	}

	return data.Transcript, nil
}
