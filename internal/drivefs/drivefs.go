// Package drivefs wraps the file, comment and export operations of the
// Drive API that the document tools expose.
package drivefs

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/codefionn/docsmcp/internal/docerr"
	"github.com/codefionn/docsmcp/internal/gdocs"
	"github.com/codefionn/docsmcp/internal/logger"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	MimeDocument = "application/vnd.google-apps.document"
	MimeFolder   = "application/vnd.google-apps.folder"
	MimeHTML     = "text/html"
	MimePlain    = "text/plain"

	fileFields = "id,name,mimeType,modifiedTime,createdTime,webViewLink,parents,trashed,size,owners(displayName,emailAddress)"
	listFields = googleapi.Field("nextPageToken,files(" + fileFields + ")")

	// DefaultPageSize is used when a caller does not ask for a limit.
	DefaultPageSize = 20
	maxPageSize     = 1000

	// maxExportBytes bounds how much of an export is read into memory.
	maxExportBytes = 10 << 20
)

// File is the subset of Drive file metadata reported to callers.
type File struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType"`
	ModifiedTime string   `json:"modifiedTime,omitempty"`
	CreatedTime  string   `json:"createdTime,omitempty"`
	WebViewLink  string   `json:"webViewLink,omitempty"`
	Parents      []string `json:"parents,omitempty"`
	Owners       []string `json:"owners,omitempty"`
	Trashed      bool     `json:"trashed,omitempty"`
	Size         int64    `json:"size,omitempty"`
}

func fromDrive(f *drive.File) File {
	out := File{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		ModifiedTime: f.ModifiedTime,
		CreatedTime:  f.CreatedTime,
		WebViewLink:  f.WebViewLink,
		Parents:      f.Parents,
		Trashed:      f.Trashed,
		Size:         f.Size,
	}
	for _, o := range f.Owners {
		if o == nil {
			continue
		}
		name := o.DisplayName
		if o.EmailAddress != "" {
			name = fmt.Sprintf("%s <%s>", name, o.EmailAddress)
		}
		out.Owners = append(out.Owners, name)
	}
	return out
}

// Service performs Drive operations through a lazily opened client.
type Service struct {
	drive gdocs.Source[*drive.Service]
	log   *logger.Logger
}

// New creates a Service.
func New(src gdocs.Source[*drive.Service]) *Service {
	return &Service{drive: src, log: logger.Global().WithPrefix("drive")}
}

// OpenDrive returns an opener for gdocs.NewLazy that builds the Drive
// client from an authenticated HTTP client.
func OpenDrive(httpClient gdocs.HTTPClientFunc, opts ...option.ClientOption) func(context.Context) (*drive.Service, error) {
	return func(ctx context.Context) (*drive.Service, error) {
		hc, err := httpClient(ctx)
		if err != nil {
			return nil, err
		}
		all := append([]option.ClientOption{option.WithHTTPClient(hc)}, opts...)
		svc, err := drive.NewService(ctx, all...)
		if err != nil {
			return nil, fmt.Errorf("failed to create drive service: %w", err)
		}
		return svc, nil
	}
}

func (s *Service) client(ctx context.Context, fileID string) (*drive.Service, error) {
	svc, err := s.drive.Get(ctx)
	if err != nil {
		return nil, gdocs.Classify(err, fileID)
	}
	return svc, nil
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return docerr.New(docerr.KindInvalidArgument, "%s id must not be empty", kind)
	}
	return nil
}

// escapeQuery quotes a literal for use inside a Drive query string.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func pageSize(n int) int64 {
	switch {
	case n <= 0:
		return DefaultPageSize
	case n > maxPageSize:
		return maxPageSize
	default:
		return int64(n)
	}
}

func (s *Service) list(ctx context.Context, query string, limit int, orderBy string) ([]File, error) {
	svc, err := s.client(ctx, "")
	if err != nil {
		return nil, err
	}
	call := svc.Files.List().
		Q(query).
		PageSize(pageSize(limit)).
		Fields(listFields).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)
	if orderBy != "" {
		call = call.OrderBy(orderBy)
	}
	s.log.Debug("files.list q=%q", query)
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, gdocs.Classify(err, "")
	}
	files := make([]File, 0, len(resp.Files))
	for _, f := range resp.Files {
		files = append(files, fromDrive(f))
	}
	return files, nil
}

// ListDocuments returns the most recently modified documents.
func (s *Service) ListDocuments(ctx context.Context, limit int) ([]File, error) {
	q := fmt.Sprintf("mimeType='%s' and trashed=false", MimeDocument)
	return s.list(ctx, q, limit, "modifiedTime desc")
}

// SearchDocuments finds documents whose name or content contains text.
func (s *Service) SearchDocuments(ctx context.Context, text string, limit int) ([]File, error) {
	if strings.TrimSpace(text) == "" {
		return nil, docerr.New(docerr.KindInvalidArgument, "search query must not be empty")
	}
	lit := escapeQuery(text)
	q := fmt.Sprintf("mimeType='%s' and trashed=false and (name contains '%s' or fullText contains '%s')", MimeDocument, lit, lit)
	return s.list(ctx, q, limit, "")
}

// ListFolder lists the children of a folder. "root" names My Drive.
func (s *Service) ListFolder(ctx context.Context, folderID string, limit int) ([]File, error) {
	if folderID == "" {
		folderID = "root"
	}
	q := fmt.Sprintf("'%s' in parents and trashed=false", escapeQuery(folderID))
	return s.list(ctx, q, limit, "folder,name")
}

// GetInfo returns a file's metadata.
func (s *Service) GetInfo(ctx context.Context, fileID string) (File, error) {
	if err := requireID("file", fileID); err != nil {
		return File{}, err
	}
	svc, err := s.client(ctx, fileID)
	if err != nil {
		return File{}, err
	}
	f, err := svc.Files.Get(fileID).Fields(fileFields).SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return File{}, gdocs.Classify(err, fileID)
	}
	return fromDrive(f), nil
}

// CreateFolder creates a folder, optionally inside parentID.
func (s *Service) CreateFolder(ctx context.Context, name, parentID string) (File, error) {
	if strings.TrimSpace(name) == "" {
		return File{}, docerr.New(docerr.KindInvalidArgument, "folder name must not be empty")
	}
	svc, err := s.client(ctx, "")
	if err != nil {
		return File{}, err
	}
	meta := &drive.File{Name: name, MimeType: MimeFolder}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	f, err := svc.Files.Create(meta).Fields(fileFields).SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return File{}, gdocs.Classify(err, parentID)
	}
	s.log.Info("created folder %s (%s)", f.Name, f.Id)
	return fromDrive(f), nil
}

// Move reparents a file into folderID, removing it from its current parents.
func (s *Service) Move(ctx context.Context, fileID, folderID string) (File, error) {
	if err := requireID("file", fileID); err != nil {
		return File{}, err
	}
	if err := requireID("folder", folderID); err != nil {
		return File{}, err
	}
	svc, err := s.client(ctx, fileID)
	if err != nil {
		return File{}, err
	}
	current, err := svc.Files.Get(fileID).Fields("parents").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return File{}, gdocs.Classify(err, fileID)
	}
	f, err := svc.Files.Update(fileID, &drive.File{}).
		AddParents(folderID).
		RemoveParents(strings.Join(current.Parents, ",")).
		Fields(fileFields).
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return File{}, gdocs.Classify(err, fileID)
	}
	return fromDrive(f), nil
}

// Copy duplicates a file. An empty name lets Drive pick "Copy of ...".
func (s *Service) Copy(ctx context.Context, fileID, name, folderID string) (File, error) {
	if err := requireID("file", fileID); err != nil {
		return File{}, err
	}
	svc, err := s.client(ctx, fileID)
	if err != nil {
		return File{}, err
	}
	meta := &drive.File{Name: name}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}
	f, err := svc.Files.Copy(fileID, meta).Fields(fileFields).SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return File{}, gdocs.Classify(err, fileID)
	}
	return fromDrive(f), nil
}

// Rename changes a file's name.
func (s *Service) Rename(ctx context.Context, fileID, name string) (File, error) {
	if err := requireID("file", fileID); err != nil {
		return File{}, err
	}
	if strings.TrimSpace(name) == "" {
		return File{}, docerr.New(docerr.KindInvalidArgument, "new name must not be empty")
	}
	svc, err := s.client(ctx, fileID)
	if err != nil {
		return File{}, err
	}
	f, err := svc.Files.Update(fileID, &drive.File{Name: name}).Fields(fileFields).SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return File{}, gdocs.Classify(err, fileID)
	}
	return fromDrive(f), nil
}

// Delete moves a file to the trash, or removes it for good when permanent.
func (s *Service) Delete(ctx context.Context, fileID string, permanent bool) error {
	if err := requireID("file", fileID); err != nil {
		return err
	}
	svc, err := s.client(ctx, fileID)
	if err != nil {
		return err
	}
	if permanent {
		err = svc.Files.Delete(fileID).SupportsAllDrives(true).Context(ctx).Do()
	} else {
		_, err = svc.Files.Update(fileID, &drive.File{Trashed: true}).Fields("id,trashed").SupportsAllDrives(true).Context(ctx).Do()
	}
	if err != nil {
		return gdocs.Classify(err, fileID)
	}
	s.log.Info("deleted %s (permanent=%v)", fileID, permanent)
	return nil
}

// Export downloads a document converted to mimeType.
func (s *Service) Export(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	if err := requireID("file", fileID); err != nil {
		return nil, err
	}
	svc, err := s.client(ctx, fileID)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, gdocs.Classify(err, fileID)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxExportBytes+1))
	if err != nil {
		return nil, gdocs.Classify(err, fileID)
	}
	if len(data) > maxExportBytes {
		return nil, docerr.New(docerr.KindRejectedByRemote, "export is larger than %d bytes", maxExportBytes).WithDocument(fileID)
	}
	return data, nil
}
