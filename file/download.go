package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/walacor/walacor-go/config"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/relays"
	"github.com/walacor/walacor-go/utils"
)

const defaultCallbackInterval = 2 * time.Second

type downloadBody struct {
	UID string `json:"UID"`
}

// Download fetches the stored file uid and writes it to disk, returning the
// written path.
//
// When saveTo has a file extension it is used as the exact destination.
// Otherwise saveTo (or the configured download folder) is a directory and the
// file name comes from the stored metadata, the Content-Disposition header or
// the UID with an extension derived from the mime type, in that order.
func (s *Service) Download(ctx context.Context, uid, saveTo string) (string, error) {
	if uid == "" {
		err := errors.New("UID is required")
		s.publishTransferUpdate(dto.TransferNotification{Source: uid, Status: dto.ERROR, Message: err.Error()})
		return "", fileErr("download", err)
	}
	meta, err := s.metadata(ctx, uid)
	if err != nil {
		s.publishTransferUpdate(dto.TransferNotification{Source: uid, Status: statusFor(err), Message: err.Error()})
		return "", s.failed("Download", "File download failed", asFileErr("download", err))
	}

	req := dto.NewRequestConfig(http.MethodPost, downloadPath).
		WithBody(downloadBody{UID: uid}).
		WithStream(true)
	resp, err := s.client.Request(ctx, req)
	if err != nil {
		s.publishTransferUpdate(dto.TransferNotification{Source: uid, Status: statusFor(err), Message: err.Error()})
		return "", s.failed("Download", "File download failed", fileErr("download", err))
	}
	defer resp.Close()
	if resp.Stream == nil {
		err := errors.New("empty response body")
		s.publishTransferUpdate(dto.TransferNotification{Source: uid, Status: dto.ERROR, Message: err.Error()})
		return "", s.failed("Download", "File download failed", fileErr("download", err))
	}

	destination := s.resolveDestination(saveTo, meta, resp.Headers, uid)
	if err := s.writeStream(ctx, uid, destination, resp); err != nil {
		return "", s.failed("Download", "File download failed", fileErr("download", err))
	}
	s.relay.Info(relays.RlyService{Service: serviceName, Op: "Download", Msg: "File saved to " + destination})
	return destination, nil
}

func (s *Service) writeStream(ctx context.Context, uid, destination string, resp dto.Response) error {
	fail := func(status dto.TransferStatus, err error) error {
		s.publishTransferUpdate(dto.TransferNotification{
			Source:      uid,
			Destination: destination,
			Status:      status,
			Message:     err.Error(),
		})
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fail(dto.ERROR, fmt.Errorf("could not create destination folder %q: %w", filepath.Dir(destination), err))
	}
	out, err := os.Create(destination)
	if err != nil {
		return fail(dto.ERROR, fmt.Errorf("could not create output file %q: %w", destination, err))
	}
	defer out.Close()

	total := contentLength(resp.Headers)
	if total <= 0 {
		s.relay.Debug(relays.RlyFileTransfer{Source: uid, Destination: destination, Msg: "unknown file size"})
	}
	interval := s.cfg.DownloadCallbackInterval
	if interval <= 0 {
		interval = defaultCallbackInterval
	}

	s.publishTransferUpdate(dto.TransferNotification{
		Source:      uid,
		Destination: destination,
		Status:      dto.IN_PROGRESS,
		TotalSize:   total,
		Message:     "starting download",
	})
	pr := &progressReader{
		ctx:        ctx,
		reader:     resp.Stream,
		total:      total,
		interval:   interval,
		lastReport: time.Now(),
		onProgress: func(downloaded, total int64, percent float64) {
			s.publishTransferUpdate(dto.TransferNotification{
				Source:      uid,
				Destination: destination,
				Status:      dto.IN_PROGRESS,
				Downloaded:  downloaded,
				TotalSize:   total,
				Percentage:  percent,
			})
		},
	}

	buf := make([]byte, 64*1024)
	written, err := io.CopyBuffer(out, pr, buf)
	if err != nil {
		return fail(statusFor(err), fmt.Errorf("file transfer failed for %s: %w", uid, err))
	}
	if err := out.Sync(); err != nil {
		return fail(dto.ERROR, err)
	}

	s.publishTransferUpdate(dto.TransferNotification{
		Source:      uid,
		Destination: destination,
		Status:      dto.COMPLETE,
		Downloaded:  written,
		TotalSize:   written,
		Percentage:  100,
		Message:     "download complete",
	})
	return nil
}

func (s *Service) resolveDestination(saveTo string, meta *FileMetadata, headers http.Header, uid string) string {
	saveTo = expandHome(saveTo)
	if saveTo != "" && filepath.Ext(saveTo) != "" {
		return saveTo
	}

	dir := saveTo
	if dir == "" {
		dir = expandHome(s.cfg.DownloadDir)
	}
	if dir == "" {
		dir = config.DefaultDownloadDir()
	}
	return filepath.Join(dir, downloadName(meta, headers, uid))
}

func downloadName(meta *FileMetadata, headers http.Header, uid string) string {
	if meta != nil && meta.Name != "" {
		return filepath.Base(meta.Name)
	}
	if name, ok := utils.FilenameFromContentDisposition(headers.Get("Content-Disposition")); ok {
		return name
	}
	mimeType := ""
	if meta != nil {
		mimeType = meta.MimeType
	}
	return uid + utils.ExtensionForMimeType(mimeType)
}

func contentLength(headers http.Header) int64 {
	n, err := strconv.ParseInt(headers.Get("Content-Length"), 10, 64)
	if err != nil {
		return -1
	}
	return n
}

// statusFor maps a cancelled context to STOPPED so listeners close consistently.
func statusFor(err error) dto.TransferStatus {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return dto.STOPPED
	}
	return dto.ERROR
}

func asFileErr(op string, err error) error {
	var fe *dto.FileRequestError
	if errors.As(err, &fe) {
		return err
	}
	return fileErr(op, err)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
