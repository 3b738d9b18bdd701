package file

import "io"

// VerifyFile describes an uploaded file as the platform staged it.
type VerifyFile struct {
	Name         string `json:"name" validate:"required"`
	Encoding     string `json:"encoding"`
	MimeType     string `json:"mimetype" validate:"required"`
	TempFilePath string `json:"TempFilePath"`
	Size         int64  `json:"size" validate:"gte=0"`
	FolderName   string `json:"FolderName"`
	Status       string `json:"Status"`
	SL           string `json:"SL"`
	UID          string `json:"UID"`
	FH           string `json:"FH"`
}

// FileInfo is the verification receipt. It is sent back unchanged to Store.
type FileInfo struct {
	File                    VerifyFile `json:"file"`
	FileSignature           string     `json:"fileSignature" validate:"required"`
	FileHash                string     `json:"fileHash" validate:"required"`
	TotalEncryptedChunkFile int        `json:"totalEncryptedChunkFile"`
}

// DuplicateData identifies the already stored copy of a verified file.
type DuplicateData struct {
	EId           string   `json:"EId" validate:"required"`
	UID           []string `json:"UID" validate:"required"`
	DH            string   `json:"DH"`
	CreatedAt     int64    `json:"CreatedAt"`
	Signature     string   `json:"Signature"`
	SignatureType string   `json:"SignatureType"`
}

// VerifyResult holds exactly one of FileInfo or Duplicate.
type VerifyResult struct {
	FileInfo  *FileInfo
	Duplicate *DuplicateData
}

func (r *VerifyResult) IsDuplicate() bool {
	return r != nil && r.Duplicate != nil
}

type fileInfoWrapper struct {
	FileInfo FileInfo `json:"fileInfo"`
}

type storeRequest struct {
	FileInfo FileInfo `json:"fileInfo"`
}

type StoreFileData struct {
	UID []string `json:"UID" validate:"required"`
}

// VerifyRequest is one file to upload for verification.
type VerifyRequest struct {
	Name string
	// MimeType guessed from Name when empty
	MimeType string
	Reader   io.Reader
	// Size in bytes, used for progress percentages when known
	Size int64
	// Progress publishes upload updates to TransferListener(Name)
	Progress bool
}

// FileMetadata is one stored file as listed by the platform.
type FileMetadata struct {
	ID             string  `json:"_id" validate:"required"`
	Name           string  `json:"name"`
	Size           *int64  `json:"size,omitempty"`
	ORGId          string  `json:"ORGId"`
	SL             string  `json:"SL"`
	FH             *string `json:"FH,omitempty"`
	TempFilePath   *string `json:"tempFilePath,omitempty"`
	MimeType       string  `json:"mimetype"`
	Hash           *string `json:"Hash,omitempty"`
	EId            string  `json:"EId"`
	UID            string  `json:"UID" validate:"required"`
	LastModifiedBy string  `json:"LastModifiedBy"`
	SV             int     `json:"SV"`
	UpdatedAt      int64   `json:"UpdatedAt"`
	CreatedAt      int64   `json:"CreatedAt"`
	IsDeleted      bool    `json:"IsDeleted"`
	Status         string  `json:"Status" validate:"required"`
}

type FileList struct {
	Files []FileMetadata
	Total int
}

type ListFilesOptions struct {
	// UID filters to one file when set
	UID         string
	PageSize    int
	PageNo      int
	FromSummary bool
	TotalReq    bool
}

func DefaultListFilesOptions() ListFilesOptions {
	return ListFilesOptions{TotalReq: true}
}

func (VerifyFile) RequiredKeys() []string {
	return []string{"name", "encoding", "mimetype", "size"}
}

func (FileInfo) RequiredKeys() []string {
	return []string{"file", "fileSignature", "fileHash", "totalEncryptedChunkFile"}
}

func (fileInfoWrapper) RequiredKeys() []string {
	return []string{"fileInfo"}
}

func (DuplicateData) RequiredKeys() []string {
	return []string{"EId", "UID", "DH", "CreatedAt", "Signature", "SignatureType"}
}

func (StoreFileData) RequiredKeys() []string {
	return []string{"UID"}
}

func (FileMetadata) RequiredKeys() []string {
	return []string{
		"_id", "name", "ORGId", "SL", "mimetype", "EId", "UID",
		"LastModifiedBy", "SV", "UpdatedAt", "CreatedAt", "IsDeleted", "Status",
	}
}
