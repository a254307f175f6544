package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/pagetalk/internal/common"
	sc "github.com/dmitrijs2005/pagetalk/internal/server/config"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const avatarUploadExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	headObject = func(c *s3.Client, ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
		return c.HeadObject(ctx, in, optFns...)
	}
)

// AvatarUpload tells the client where to PUT the image, the key to confirm
// afterwards and where the image will be served from.
type AvatarUpload struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	ImageURL  string    `json:"imageUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AvatarService hands out presigned upload URLs for user avatars stored in an
// S3-compatible bucket.
type AvatarService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewAvatarService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *AvatarService {
	return &AvatarService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// AvatarStorageKey returns a fresh object key under the user's avatar prefix.
func AvatarStorageKey(userID string) string {
	return fmt.Sprintf("%s%v", avatarPrefix(userID), uuid.New())
}

func avatarPrefix(userID string) string {
	return "avatars/" + userID + "/"
}

func (s *AvatarService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (s *AvatarService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}
	return newS3PresignClient(client), nil
}

// objectURL is the path-style URL the stored object is served from.
func (s *AvatarService) objectURL(key string) string {
	return strings.TrimRight(s.config.S3BaseEndpoint, "/") + "/" + s.config.S3Bucket + "/" + key
}

// PresignUpload issues a presigned PUT for a new avatar of userID. The user's
// image is left alone until ConfirmUpload sees the object in the bucket.
func (s *AvatarService) PresignUpload(ctx context.Context, userID string) (*AvatarUpload, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := AvatarStorageKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(avatarUploadExpiry))
	if err != nil {
		return nil, err
	}

	return &AvatarUpload{
		UploadURL: req.URL,
		Key:       key,
		ImageURL:  s.objectURL(key),
		ExpiresAt: time.Now().Add(avatarUploadExpiry),
	}, nil
}

// ConfirmUpload points the user's image at key once the object exists. Keys
// outside the user's avatar prefix are forbidden; a missing object yields
// common.ErrorNotFound.
func (s *AvatarService) ConfirmUpload(ctx context.Context, userID, key string) (string, error) {
	if userID == "" {
		return "", common.ErrorUnauthorized
	}
	if !strings.HasPrefix(key, avatarPrefix(userID)) || strings.Contains(key, "..") {
		return "", common.ErrorForbidden
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	if _, err := headObject(client, ctx, &s3.HeadObjectInput{Bucket: &bucket, Key: &key}); err != nil {
		if isObjectMissing(err) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error checking avatar object: %w", err)
	}

	imageURL := s.objectURL(key)
	if err := s.repomanager.Users(s.db).UpdateImage(ctx, userID, imageURL); err != nil {
		return "", fmt.Errorf("error updating user image: %w", err)
	}

	return imageURL, nil
}

func isObjectMissing(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var re interface{ HTTPStatusCode() int }
	return errors.As(err, &re) && re.HTTPStatusCode() == 404
}
