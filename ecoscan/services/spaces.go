package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SpacesService stores product images in an S3-compatible bucket
// (DigitalOcean Spaces). Image URLs end up on products.image_url.
type SpacesService struct {
	client *s3.Client
	bucket string
	region string
	root   string
}

func NewSpacesService(key, secret, region, bucket, imageRoot string) (*SpacesService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load spaces config: %w", err)
	}

	return &SpacesService{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		root:   strings.Trim(imageRoot, "/"),
	}, nil
}

func (s *SpacesService) productKey(productID string) string {
	if s.root == "" {
		return fmt.Sprintf("products/%s.jpg", productID)
	}
	return fmt.Sprintf("%s/products/%s.jpg", s.root, productID)
}

// ProductImageURL returns the public URL an uploaded image will have.
func (s *SpacesService) ProductImageURL(productID string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, s.productKey(productID))
}

// UploadProductImage stores an image and returns its public URL.
func (s *SpacesService) UploadProductImage(ctx context.Context, productID string, body io.Reader, contentType string) (string, error) {
	key := s.productKey(productID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
		ACL:         "public-read",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload product image: %w", err)
	}
	return s.ProductImageURL(productID), nil
}

// DeleteProductImage removes a product's stored image.
func (s *SpacesService) DeleteProductImage(ctx context.Context, productID string) error {
	key := s.productKey(productID)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete product image: %w", err)
	}
	return nil
}
