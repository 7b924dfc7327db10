package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/govflow/internal/log"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/service/dao"
	"github.com/viant/govflow/service/dao/criteria"
)

// Service implements a filesystem-based workflow repository. Each workflow
// is stored as <baseURL>/<id>.json; any afs-supported scheme works.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

// Ensure Service implements dao.Service
var _ dao.Service[string, model.Workflow] = (*Service)(nil)

// Save persists a workflow snapshot.
func (s *Service) Save(ctx context.Context, workflow *model.Workflow) error {
	if workflow == nil {
		return dao.ErrNilEntity
	}
	if workflow.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(workflow)
	if err != nil {
		return errors.Wrap(err, "failed to marshal workflow")
	}
	URL := s.workflowURL(workflow.ID)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "failed to save workflow to %s", URL)
	}
	return nil
}

// Load retrieves a workflow or dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, id string) (*model.Workflow, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	URL := s.workflowURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check if workflow exists")
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read workflow file")
	}
	var workflow model.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal workflow")
	}
	return &workflow, nil
}

// Delete removes a workflow snapshot.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	URL := s.workflowURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return errors.Wrap(err, "failed to check if workflow exists")
	}
	if !exists {
		return dao.ErrNotFound
	}
	return errors.Wrap(s.fs.Delete(ctx, URL), "failed to delete workflow file")
}

// List returns all stored workflows, optionally filtered by "State".
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(false))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list workflow files")
	}

	var workflows []*model.Workflow
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			log.GetLogger().WithError(err).Warnf("skipping unreadable workflow file %s", object.URL())
			continue
		}
		var workflow model.Workflow
		if err := json.Unmarshal(data, &workflow); err != nil {
			log.GetLogger().WithError(err).Warnf("skipping malformed workflow file %s", object.URL())
			continue
		}
		if !criteria.FilterByState(string(workflow.CurrentState), parameters) {
			continue
		}
		workflows = append(workflows, &workflow)
	}
	return workflows, nil
}

func (s *Service) workflowURL(id string) string {
	return url.Join(s.baseURL, fmt.Sprintf("%s.json", path.Base(id)))
}

// New creates a filesystem workflow repository rooted at baseURL.
func New(ctx context.Context, baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	fs := afs.New()
	baseURL = url.Normalize(baseURL, file.Scheme)
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, errors.Wrap(err, "failed to create base directory")
		}
	}
	return &Service{baseURL: baseURL, fs: fs}, nil
}
