package progress

import (
	"sync"

	"github.com/nayi-disha/backend/internal/models"
)

type sessionState struct {
	modules map[string]*models.ModuleProgress
	roadmap *models.Roadmap
}

// MemoryStore is the default single-process store. All methods deep-copy on
// read so callers can never alias internal state.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*sessionState)}
}

// module returns the progress container, creating session and module
// entries as needed. Callers must hold the write lock.
func (s *MemoryStore) module(sessionKey, moduleID string) *models.ModuleProgress {
	sess, ok := s.sessions[sessionKey]
	if !ok {
		sess = &sessionState{modules: make(map[string]*models.ModuleProgress)}
		s.sessions[sessionKey] = sess
	}
	mp, ok := sess.modules[moduleID]
	if !ok {
		mp = &models.ModuleProgress{}
		sess.modules[moduleID] = mp
	}
	return mp
}

func (s *MemoryStore) GetModuleProgress(sessionKey, moduleID string) (*models.ModuleProgress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionKey]
	if !ok {
		return nil, false, nil
	}
	mp, ok := sess.modules[moduleID]
	if !ok {
		return nil, false, nil
	}

	return copyProgress(mp), true, nil
}

func (s *MemoryStore) AppendQuestion(sessionKey, moduleID string, q models.QuestionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mp := s.module(sessionKey, moduleID)
	mp.Questions = append(mp.Questions, q)
	return nil
}

func (s *MemoryStore) AppendAnswer(sessionKey, moduleID string, a models.AnswerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mp := s.module(sessionKey, moduleID)
	mp.Answers = append(mp.Answers, a)
	return nil
}

func (s *MemoryStore) GetRecentAnswers(sessionKey, moduleID string, n int) ([]models.AnswerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionKey]
	if !ok {
		return nil, nil
	}
	mp, ok := sess.modules[moduleID]
	if !ok {
		return nil, nil
	}

	answers := mp.Answers
	if n > 0 && len(answers) > n {
		answers = answers[len(answers)-n:]
	}

	out := make([]models.AnswerRecord, len(answers))
	copy(out, answers)
	return out, nil
}

func (s *MemoryStore) MarkCompleted(sessionKey, moduleID string, report *models.ModuleReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mp := s.module(sessionKey, moduleID)
	mp.Completed = true
	if report != nil {
		r := *report
		mp.FinalReport = &r
		completedAt := r.CompletedAt
		mp.CompletedAt = &completedAt
	}
	return nil
}

func (s *MemoryStore) StoreRoadmap(sessionKey string, roadmap models.Roadmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionKey]
	if !ok {
		sess = &sessionState{modules: make(map[string]*models.ModuleProgress)}
		s.sessions[sessionKey] = sess
	}
	sess.roadmap = &roadmap
	return nil
}

func (s *MemoryStore) GetRoadmap(sessionKey string) (*models.Roadmap, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionKey]
	if !ok || sess.roadmap == nil {
		return nil, false, nil
	}

	r := *sess.roadmap
	return &r, true, nil
}

func (s *MemoryStore) ClearSession(sessionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionKey)
	return nil
}

func copyProgress(mp *models.ModuleProgress) *models.ModuleProgress {
	out := &models.ModuleProgress{
		Questions: make([]models.QuestionRecord, len(mp.Questions)),
		Answers:   make([]models.AnswerRecord, len(mp.Answers)),
		Completed: mp.Completed,
	}
	copy(out.Questions, mp.Questions)
	copy(out.Answers, mp.Answers)

	if mp.CompletedAt != nil {
		t := *mp.CompletedAt
		out.CompletedAt = &t
	}
	if mp.FinalReport != nil {
		r := *mp.FinalReport
		out.FinalReport = &r
	}
	return out
}
