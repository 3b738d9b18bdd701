// Package file verifies, stores, lists and downloads files on the platform.
//
// Every failure is returned as a *dto.FileRequestError naming the operation.
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
	"sync"

	"github.com/joy-dx/lockablemap"
	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/tidwall/gjson"
	"github.com/walacor/walacor-go/config"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/envelope"
	"github.com/walacor/walacor-go/relays"
	"github.com/walacor/walacor-go/utils"
)

const (
	verifyPath    = "v2/files/verify"
	storePath     = "v2/files/store"
	downloadPath  = "v2/files/download"
	listPath      = "query/get"
	fileEnvelope  = "17"
	statusStored  = "received"
	serviceName   = "file"
	duplicateKey  = "duplicateData"
	multipartName = "file"
)

var (
	ErrUnexpectedResponse = errors.New("unexpected verification response structure")
	ErrNoArchive          = errors.New("no archive store configured")
)

type Service struct {
	client  dto.Requester
	cfg     *config.Config
	relay   relayDTO.RelayInterface
	archive ObjectStore

	transferState  *lockablemap.LockableMap[string, dto.TransferNotification]
	muListeners    sync.Mutex
	listenersByUID map[string][]chan dto.TransferNotification
}

func NewService(client dto.Requester, cfg *config.Config) *Service {
	return &Service{
		client:         client,
		cfg:            cfg,
		relay:          cfg.Relay(),
		transferState:  lockablemap.NewLockableMap[string, dto.TransferNotification](),
		listenersByUID: make(map[string][]chan dto.TransferNotification),
	}
}

// WithArchive enables ArchiveToS3 and VerifyFromS3.
func (s *Service) WithArchive(store ObjectStore) *Service {
	s.archive = store
	return s
}

func fileErr(op string, err error) error {
	return &dto.FileRequestError{Op: op, Err: err}
}

// Verify uploads a file and reports either its verification receipt or the
// already stored duplicate. A 422 carrying duplicateData is a duplicate, not
// an error.
func (s *Service) Verify(ctx context.Context, in VerifyRequest) (*VerifyResult, error) {
	s.relay.Info(relays.RlyService{Service: serviceName, Op: "Verify", Msg: "Verifying " + in.Name})
	if in.Reader == nil {
		return nil, fileErr("verify", errors.New("no file content"))
	}
	if in.MimeType == "" {
		in.MimeType = utils.GuessMimeType(in.Name)
	}
	if !in.Progress {
		return s.verify(ctx, in)
	}
	in = s.trackUpload(ctx, in)
	res, err := s.verify(ctx, in)
	s.finishUpload(in, err)
	return res, err
}

func (s *Service) verify(ctx context.Context, in VerifyRequest) (*VerifyResult, error) {
	req := dto.NewRequestConfig(http.MethodPost, verifyPath).
		WithMultipart(&dto.MultipartFile{
			Field:       multipartName,
			FileName:    in.Name,
			ContentType: in.MimeType,
			Reader:      in.Reader,
		})
	resp, err := s.client.Request(ctx, req)
	if err != nil {
		return nil, s.failed("Verify", "File verification failed", fileErr("verify", err))
	}

	body := resp.Body
	if !gjson.ValidBytes(body) {
		return nil, s.failed("Verify", "File verification failed", fileErr("verify", envelope.ErrNotJSON))
	}
	if envelope.Success(body) {
		wrapper, err := envelope.Data[fileInfoWrapper](body)
		if err != nil {
			return nil, s.failed("Verify", "File verification failed", fileErr("verify", err))
		}
		return &VerifyResult{FileInfo: &wrapper.FileInfo}, nil
	}
	if envelope.Has(body, duplicateKey) {
		dup, err := envelope.Field[DuplicateData](body, duplicateKey)
		if err != nil {
			return nil, s.failed("Verify", "File verification failed", fileErr("verify", err))
		}
		s.relay.Info(relays.RlyService{Service: serviceName, Op: "Verify", Msg: "file already stored as " + dup.EId})
		return &VerifyResult{Duplicate: &dup}, nil
	}
	return nil, s.failed("Verify", "File verification failed", fileErr("verify", ErrUnexpectedResponse))
}

// VerifyPath verifies a file from disk.
func (s *Service) VerifyPath(ctx context.Context, path string, opts ...VerifyOption) (*VerifyResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fileErr("verify", fmt.Errorf("file does not exist: %w", err))
	}
	if !info.Mode().IsRegular() {
		return nil, fileErr("verify", fmt.Errorf("path is not a file: %s", path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fileErr("verify", err)
	}
	defer f.Close()
	in := VerifyRequest{Name: filepath.Base(path), Size: info.Size(), Reader: f}
	for _, opt := range opts {
		opt(&in)
	}
	return s.Verify(ctx, in)
}

// VerifyReader verifies in-memory content under the given file name.
func (s *Service) VerifyReader(ctx context.Context, r io.Reader, name, mimeType string) (*VerifyResult, error) {
	return s.Verify(ctx, VerifyRequest{Name: name, MimeType: mimeType, Reader: r})
}

// Store persists a previously verified file.
func (s *Service) Store(ctx context.Context, info FileInfo) (*StoreFileData, error) {
	req := dto.NewRequestConfig(http.MethodPost, storePath).
		WithBody(storeRequest{FileInfo: info})
	resp, err := s.client.Request(ctx, req)
	if err != nil {
		return nil, s.failed("Store", "Storing file failed", fileErr("store", err))
	}
	data, err := envelope.Data[StoreFileData](resp.Body)
	if err != nil {
		return nil, s.failed("Store", "File store request failed", fileErr("store", err))
	}
	return &data, nil
}

// ListFiles lists stored files, optionally only the one with opts.UID.
func (s *Service) ListFiles(ctx context.Context, opts ListFilesOptions) (*FileList, error) {
	path := utils.WithQuery(listPath,
		utils.Param("fromSummary", opts.FromSummary),
		utils.Param("totalReq", opts.TotalReq),
		utils.Param("pageSize", opts.PageSize),
		utils.Param("pageNo", opts.PageNo),
	)
	payload := map[string]string{}
	if opts.UID != "" {
		payload["UID"] = opts.UID
	}
	req := dto.NewRequestConfig(http.MethodPost, path).
		WithHeader("ETId", fileEnvelope).
		WithBody(payload)
	resp, err := s.client.Request(ctx, req)
	if err != nil {
		return nil, s.failed("ListFiles", "Failed to list files", fileErr("list files", err))
	}
	files, err := envelope.Data[[]FileMetadata](resp.Body)
	if err != nil {
		return nil, s.failed("ListFiles", "List files request failed", fileErr("list files", err))
	}
	total, err := envelope.Total(resp.Body)
	if err != nil {
		return nil, s.failed("ListFiles", "List files request failed", fileErr("list files", err))
	}
	s.relay.Info(relays.RlyService{Service: serviceName, Op: "ListFiles", Msg: "Received " + strconv.Itoa(total) + " file(s)"})
	return &FileList{Files: files, Total: total}, nil
}

// metadata returns the stored ("received") entry of uid.
func (s *Service) metadata(ctx context.Context, uid string) (*FileMetadata, error) {
	opts := DefaultListFilesOptions()
	opts.UID = uid
	list, err := s.ListFiles(ctx, opts)
	if err != nil {
		return nil, err
	}
	for i := range list.Files {
		if list.Files[i].Status == statusStored {
			return &list.Files[i], nil
		}
	}
	return nil, fileErr("download", fmt.Errorf("no metadata found for UID %q", uid))
}

func (s *Service) failed(op, msg string, err error) error {
	s.relay.Error(relays.RlyService{Service: serviceName, Op: op, Msg: msg, Err: err})
	return err
}
