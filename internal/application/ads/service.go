package ads

import (
	"time"
)

type Service struct {
	store  Store
	clock  *Clock
	images ImageStore

	now   func() time.Time
	audit func(action string, fields map[string]string)
}

func New(store Store, clock *Clock, images ImageStore) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		images: images,
		now:    time.Now,
	}
}

// WithAudit installs a hook called after every successful mutation.
func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	s.audit = fn
	return s
}

func (s *Service) Clock() *Clock { return s.clock }

func (s *Service) emitAudit(action string, fields map[string]string) {
	if s.audit != nil {
		s.audit(action, fields)
	}
}

// publicURL maps a stored image key to its CDN form.
func (s *Service) publicURL(key *string) *string {
	if key == nil {
		return nil
	}
	u := s.images.PublicURL(*key)
	return &u
}
