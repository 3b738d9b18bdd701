package file

import (
	"context"
	"time"

	"github.com/walacor/walacor-go/dto"
)

// VerifyOption adjusts a VerifyRequest built by VerifyPath.
type VerifyOption func(*VerifyRequest)

// WithUploadProgress publishes upload updates to TransferListener(name).
func WithUploadProgress() VerifyOption {
	return func(r *VerifyRequest) { r.Progress = true }
}

// WithMimeType overrides the guessed content type.
func WithMimeType(mimeType string) VerifyOption {
	return func(r *VerifyRequest) { r.MimeType = mimeType }
}

// trackUpload wraps the request reader so reads while building the multipart
// body are reported as IN_PROGRESS updates keyed by the file name.
func (s *Service) trackUpload(ctx context.Context, in VerifyRequest) VerifyRequest {
	interval := s.cfg.DownloadCallbackInterval
	if interval <= 0 {
		interval = defaultCallbackInterval
	}
	s.publishTransferUpdate(dto.TransferNotification{
		Source:      in.Name,
		Destination: verifyPath,
		Status:      dto.IN_PROGRESS,
		TotalSize:   in.Size,
		Message:     "starting upload",
	})
	in.Reader = &progressReader{
		ctx:        ctx,
		reader:     in.Reader,
		total:      in.Size,
		interval:   interval,
		lastReport: time.Now(),
		onProgress: func(sent, total int64, percent float64) {
			s.publishTransferUpdate(dto.TransferNotification{
				Source:      in.Name,
				Destination: verifyPath,
				Status:      dto.IN_PROGRESS,
				Downloaded:  sent,
				TotalSize:   total,
				Percentage:  percent,
			})
		},
	}
	return in
}

func (s *Service) finishUpload(in VerifyRequest, err error) {
	n := dto.TransferNotification{Source: in.Name, Destination: verifyPath}
	if pr, ok := in.Reader.(*progressReader); ok {
		n.Downloaded = pr.readSoFar
		n.TotalSize = in.Size
	}
	if err != nil {
		n.Status = statusFor(err)
		n.Message = err.Error()
	} else {
		n.Status = dto.COMPLETE
		n.Percentage = 100
		n.Message = "upload complete"
		if n.TotalSize <= 0 {
			n.TotalSize = n.Downloaded
		}
	}
	s.publishTransferUpdate(n)
}
