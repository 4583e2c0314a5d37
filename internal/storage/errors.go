package storage

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
	"github.com/minio/minio-go/v7"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return testimonial.ErrObjectNotFound
	case "NoSuchBucket":
		return testimonial.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return testimonial.ErrUnauthorized
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", testimonial.ErrInternal, err)
	}
}

func mapS3Err(err error) error {
	if err == nil {
		return nil
	}

	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	var noBucket *types.NoSuchBucket
	switch {
	case errors.As(err, &noKey), errors.As(err, &notFound):
		return testimonial.ErrObjectNotFound
	case errors.As(err, &noBucket):
		return testimonial.ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return testimonial.ErrObjectNotFound
		case "NoSuchBucket":
			return testimonial.ErrBucketNotFound
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return testimonial.ErrUnauthorized
		}
	}
	return fmt.Errorf("%w: %v", testimonial.ErrInternal, err)
}
