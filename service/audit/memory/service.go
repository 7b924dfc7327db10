package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/service/audit"
	"github.com/viant/govflow/service/event"
)

type record struct {
	event  *model.AuditEvent
	sealed []byte
}

type chain struct {
	records []*record
}

// Service is an in-memory audit log keeping one hash chain per workflow.
type Service struct {
	mu        sync.RWMutex
	chains    map[string]*chain
	ids       map[string]bool
	notifier  event.Notifier
	clock     clock.Clock
	exportURL string
	fs        afs.Service
}

var _ audit.Log = (*Service)(nil)

// New creates an empty audit log.
func New(options ...Option) *Service {
	ret := &Service{
		chains:   make(map[string]*chain),
		ids:      make(map[string]bool),
		notifier: event.Nop(),
		clock:    clock.System(),
	}
	for _, option := range options {
		option(ret)
	}
	if ret.exportURL != "" {
		ret.fs = afs.New()
	}
	return ret
}

// Append seals evt into its workflow chain.
func (s *Service) Append(ctx context.Context, evt *model.AuditEvent) (*model.AuditEvent, error) {
	if evt == nil || evt.ID == "" || evt.WorkflowID == "" {
		return nil, audit.ErrInvalidEvent
	}
	chained := evt.Clone()
	chained.Immutable = true
	chained.Details = audit.NormalizeDetails(chained.Details)

	s.mu.Lock()
	if s.ids[chained.ID] {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", audit.ErrDuplicateEvent, chained.ID)
	}
	c, ok := s.chains[chained.WorkflowID]
	if !ok {
		c = &chain{}
		s.chains[chained.WorkflowID] = c
	}
	chained.Sequence = len(c.records) + 1
	if n := len(c.records); n > 0 {
		chained.PreviousHash = c.records[n-1].event.Hash
	}
	hash, sealed, err := audit.Hash(chained)
	if err != nil {
		s.mu.Unlock()
		return nil, errors.Wrap(err, "failed to seal audit event")
	}
	chained.Hash = hash
	c.records = append(c.records, &record{event: chained, sealed: sealed})
	s.ids[chained.ID] = true
	s.mu.Unlock()

	ret := chained.Clone()
	s.notifier.Publish(ctx, event.New(event.TypeAuditEventGenerated, ret.WorkflowID, ret.Timestamp, ret.Clone()))
	return ret, nil
}

// Events returns copies of the chained events of workflowID.
func (s *Service) Events(_ context.Context, workflowID string) ([]*model.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chains[workflowID]
	if !ok {
		return []*model.AuditEvent{}, nil
	}
	ret := make([]*model.AuditEvent, len(c.records))
	for i, r := range c.records {
		ret[i] = r.event.Clone()
	}
	return ret, nil
}

// VerifyChainIntegrity recomputes every hash of the workflow chain.
func (s *Service) VerifyChainIntegrity(_ context.Context, workflowID string) (*audit.Verification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := &audit.Verification{WorkflowID: workflowID, Valid: true}
	c, ok := s.chains[workflowID]
	if !ok {
		return ret, nil
	}
	ret.EventCount = len(c.records)
	previous := ""
	for i, r := range c.records {
		e := r.event
		switch {
		case e.Sequence != i+1:
			return broken(ret, e.Sequence, fmt.Sprintf("sequence gap: expected %d, found %d", i+1, e.Sequence), ""), nil
		case e.PreviousHash != previous:
			return broken(ret, e.Sequence, "previous hash does not match predecessor", ""), nil
		}
		hash, current, err := audit.Hash(e)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to hash audit event %s", e.ID)
		}
		if hash != e.Hash {
			return broken(ret, e.Sequence, "record hash mismatch", audit.TamperDiff(e.ID, r.sealed, current)), nil
		}
		previous = e.Hash
	}
	return ret, nil
}

func broken(v *audit.Verification, at int, reason, diff string) *audit.Verification {
	v.Valid = false
	v.BrokenAt = at
	v.Reason = reason
	v.Diff = diff
	return v
}

// ExportArtifacts assembles the evidence bundle and uploads it when an
// export URL is configured.
func (s *Service) ExportArtifacts(ctx context.Context, workflowID string) (*audit.Bundle, error) {
	events, err := s.Events(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	verification, err := s.VerifyChainIntegrity(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(events)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode audit events")
	}
	bundle := &audit.Bundle{
		WorkflowID:   workflowID,
		ExportedAt:   s.clock.Now(),
		Events:       events,
		Verification: verification,
		Digest:       audit.Digest(data),
	}
	if s.exportURL == "" {
		return bundle, nil
	}
	location := url.Join(s.exportURL, workflowID+".json")
	bundle.Location = location
	payload, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode audit bundle")
	}
	if err = s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(payload)); err != nil {
		return nil, errors.Wrapf(err, "failed to upload audit bundle to %s", location)
	}
	return bundle, nil
}
