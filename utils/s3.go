package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var ErrInvalidImage = errors.New("invalid base64 image")

// S3Uploader stores puppy photos in a bucket fronted by CloudFront.
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Uploader(ctx context.Context, region, bucket, cloudFrontURL string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config for s3: %w", err)
	}
	return &S3Uploader{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(cloudFrontURL, "/"),
	}, nil
}

// UploadBase64Image uploads a "data:<mime>;base64,<data>" payload and returns its public URL.
func (u *S3Uploader) UploadBase64Image(ctx context.Context, base64Data, filenamePrefix string) (string, error) {
	contentType, ext, imageData, err := DecodeDataURL(base64Data)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("puppy-photos/%s-%d%s", filenamePrefix, time.Now().UnixNano(), ext)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("%s/%s", u.baseURL, key), nil
}

// DecodeDataURL splits a data URL into content type, file extension and raw bytes.
func DecodeDataURL(base64Data string) (contentType, ext string, data []byte, err error) {
	meta, payload, ok := strings.Cut(base64Data, ",")
	if !ok {
		return "", "", nil, ErrInvalidImage
	}
	_, mediaType, ok := strings.Cut(meta, ":") // "image/jpeg;base64"
	if !ok {
		return "", "", nil, ErrInvalidImage
	}
	contentType, _, _ = strings.Cut(mediaType, ";")
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", nil, ErrInvalidImage
	}

	switch contentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	default:
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		} else if _, sub, ok := strings.Cut(contentType, "/"); ok {
			ext = "." + sub
		}
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return contentType, ext, data, nil
}
