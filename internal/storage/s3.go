package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

var sseAlgorithm = "AES256"

// S3 is a Store that uses AWS S3
type S3 struct {
	s3     s3iface.S3API
	region string
	bucket string
	prefix string
}

// NewS3 returns a new Store that uses S3
func NewS3(awsSession *session.Session, bucket, prefix string) *S3 {
	return newS3(s3.New(awsSession), aws.StringValue(awsSession.Config.Region), bucket, prefix)
}

func newS3(api s3iface.S3API, region, bucket, prefix string) *S3 {
	// Make sure the path prefix starts and ends with /
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return &S3{s3: api, region: region, bucket: bucket, prefix: prefix}
}

// IDFromName returns a deterministic ID for a name.
func (s *S3) IDFromName(name string) string {
	return fmt.Sprintf("s3://%s/%s%s%s", s.region, s.bucket, s.prefix, name)
}

func (s *S3) Put(ctx context.Context, name string, data []byte, contentType string, meta map[string]string) (string, error) {
	var m map[string]*string
	if len(meta) != 0 {
		m = make(map[string]*string, len(meta))
		for k, v := range meta {
			m[k] = aws.String(v)
		}
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(s.prefix + name),
		Body:                 bytes.NewReader(data),
		ContentLength:        aws.Int64(int64(len(data))),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: aws.String(sseAlgorithm),
		Metadata:             m,
	})
	if err != nil {
		return "", fmt.Errorf("storage.S3: put %q: %w", name, err)
	}
	return s.IDFromName(name), nil
}

func (s *S3) Get(ctx context.Context, id string) ([]byte, http.Header, error) {
	bkt, path, err := s.parseURI(id)
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bkt),
		Key:    aws.String(path),
	})
	if isNotFound(err) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoObject, id)
	} else if err != nil {
		return nil, nil, err
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, nil, err
	}
	header := http.Header{}
	if obj.ContentType != nil {
		header.Set("Content-Type", *obj.ContentType)
	}
	header.Set("Content-Length", strconv.Itoa(len(data)))
	for k, v := range obj.Metadata {
		if v != nil {
			header.Set(k, *v)
		}
	}
	return data, header, nil
}

func (s *S3) Delete(ctx context.Context, id string) error {
	bkt, path, err := s.parseURI(id)
	if err != nil {
		return err
	}
	_, err = s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bkt),
		Key:    aws.String(path),
	})
	return err
}

func (s *S3) parseURI(uri string) (bucket string, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("storage: bad S3 id %q", uri)
	}
	p := strings.SplitN(u.Path, "/", 3)
	if len(p) < 3 {
		return "", "", fmt.Errorf("storage: bad S3 path %s", u.Path)
	}
	return p[1], "/" + p[2], nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if reqErr, ok := err.(awserr.RequestFailure); ok && reqErr.StatusCode() == http.StatusNotFound {
		return true
	}
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
		return true
	}
	return false
}
