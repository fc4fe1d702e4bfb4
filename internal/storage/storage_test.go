package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// Test non existent object
	if _, _, err := store.Get(ctx, "missing.pdf"); !errors.Is(err, ErrNoObject) {
		t.Fatalf("Expected ErrNoObject got %T %+v", err, err)
	}

	id, err := store.Put(ctx, "consultations/1/prescription.pdf", []byte("%PDF-1.3"), "application/pdf", map[string]string{"X-Patient-Id": "P001"})
	if err != nil {
		t.Fatal(err)
	}
	data, headers, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.3" {
		t.Fatalf("unexpected data %q", data)
	}
	if headers.Get("Content-Type") != "application/pdf" || headers.Get("Content-Length") != "8" || headers.Get("X-Patient-Id") != "P001" {
		t.Fatalf("unexpected headers %v", headers)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Get(ctx, id); !errors.Is(err, ErrNoObject) {
		t.Fatalf("Expected ErrNoObject after delete got %+v", err)
	}
}

func TestLocalStoreRejectsEscapingIDs(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"../outside.pdf", "a/../../outside.pdf", ""} {
		if _, err := store.Put(context.Background(), id, []byte("x"), "text/plain", nil); err == nil {
			t.Fatalf("expected error for id %q", id)
		}
	}
}

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+*in.Key] = b
	f.types[*in.Bucket+*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[*in.Bucket+*in.Key]
	if !ok {
		return nil, awserr.NewRequestFailure(awserr.New(s3.ErrCodeNoSuchKey, "not found", nil), http.StatusNotFound, "req-1")
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(b)),
		ContentType: aws.String(f.types[*in.Bucket+*in.Key]),
	}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Bucket+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	api := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	store := newS3(api, "us-east-1", "muawin-docs", "prescriptions")

	id, err := store.Put(ctx, "42.html", []byte("<html></html>"), "text/html", nil)
	if err != nil {
		t.Fatal(err)
	}
	if id != "s3://us-east-1/muawin-docs/prescriptions/42.html" {
		t.Fatalf("unexpected id %s", id)
	}
	if _, ok := api.objects["muawin-docs/prescriptions/42.html"]; !ok {
		t.Fatalf("object not stored under prefixed key: %v", api.objects)
	}

	data, headers, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<html></html>" || headers.Get("Content-Type") != "text/html" {
		t.Fatalf("unexpected object %q %v", data, headers)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Get(ctx, id); !errors.Is(err, ErrNoObject) {
		t.Fatalf("Expected ErrNoObject got %T %+v", err, err)
	}
	if _, _, err := store.Get(ctx, "https://example.com/x"); err == nil {
		t.Fatal("expected error for non-s3 id")
	}
}
