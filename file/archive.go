package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/walacor/walacor-go/relays"
	"github.com/walacor/walacor-go/utils"
)

// Object metadata written by ArchiveToS3.
const (
	MetaSHA256   = "sha256"
	MetaUID      = "walacor-uid"
	MetaFilename = "filename"
)

// ObjectStore is the subset of an S3 client used for archiving.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, map[string]string, error)
}

// ArchiveToS3 downloads the stored file uid and copies it into bucket,
// recording its sha256 in the object metadata. An empty key defaults to
// "<uid>/<filename>". The object key is returned.
func (s *Service) ArchiveToS3(ctx context.Context, uid, bucket, key string) (string, error) {
	if s.archive == nil {
		return "", fileErr("archive", ErrNoArchive)
	}
	tmp, err := os.MkdirTemp("", "walacor-archive-")
	if err != nil {
		return "", fileErr("archive", err)
	}
	defer os.RemoveAll(tmp)

	local, err := s.Download(ctx, uid, tmp)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(local)
	if err != nil {
		return "", fileErr("archive", err)
	}
	sum, err := utils.Sha256Sum(bytes.NewReader(data))
	if err != nil {
		return "", fileErr("archive", err)
	}

	name := filepath.Base(local)
	if key == "" {
		key = path.Join(uid, name)
	}
	metadata := map[string]string{
		MetaSHA256:   sum,
		MetaUID:      uid,
		MetaFilename: name,
	}
	if err := s.archive.PutObject(ctx, bucket, key, data, utils.GuessMimeType(name), metadata); err != nil {
		return "", s.failed("ArchiveToS3", "Archiving file failed", fileErr("archive", err))
	}
	s.relay.Info(relays.RlyService{Service: serviceName, Op: "ArchiveToS3", Msg: fmt.Sprintf("archived %s to s3://%s/%s", uid, bucket, key)})
	return key, nil
}

// VerifyFromS3 reads an archived object, checks it against its recorded
// sha256 and submits it for verification.
func (s *Service) VerifyFromS3(ctx context.Context, bucket, key string) (*VerifyResult, error) {
	if s.archive == nil {
		return nil, fileErr("verify", ErrNoArchive)
	}
	data, metadata, err := s.archive.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, s.failed("VerifyFromS3", "Reading archived file failed", fileErr("verify", err))
	}
	if sum := metadata[MetaSHA256]; sum != "" {
		if err := utils.Sha256SumVerify(bytes.NewReader(data), sum); err != nil {
			return nil, s.failed("VerifyFromS3", "Archived file is corrupt", fileErr("verify", err))
		}
	}
	name := metadata[MetaFilename]
	if name == "" {
		name = path.Base(key)
	}
	return s.VerifyReader(ctx, bytes.NewReader(data), name, "")
}
