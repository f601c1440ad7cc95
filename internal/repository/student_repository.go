package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/studentflow/studentflow-backend/internal/config"
	"github.com/studentflow/studentflow-backend/internal/model"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrDuplicateRollNo = errors.New("student with this roll number already exists")
)

// StudentRepository owns the collection. Every write loads the blob, applies
// the change and stores the whole collection back.
//
// The mutex only serializes writers inside this process. Two processes
// sharing a store overwrite each other (last write wins).
type StudentRepository struct {
	store BlobStore
	mu    sync.Mutex
	now   func() time.Time
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(store BlobStore) *StudentRepository {
	return &StudentRepository{store: store, now: time.Now}
}

// List returns the whole collection in stored order.
func (r *StudentRepository) List(ctx context.Context) ([]model.StudentRecord, error) {
	return r.load(ctx)
}

// Raw returns the stored blob, or nil when nothing has been stored.
func (r *StudentRepository) Raw(ctx context.Context) ([]byte, error) {
	raw, err := r.store.Get(ctx, config.StorageKey.Students)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	return raw, err
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*model.StudentRecord, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return nil, ErrStudentNotFound
	}
	s := records[i]
	return &s, nil
}

// Create assigns a fresh ID and appends the student. Roll numbers must be
// unique among existing records.
func (r *StudentRepository) Create(ctx context.Context, s *model.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	if rollNoTaken(records, s.RollNo, "") {
		return ErrDuplicateRollNo
	}

	s.ID = uuid.NewString()
	return r.persist(ctx, append(records, *s))
}

// Update replaces every field except the ID of an existing student.
func (r *StudentRepository) Update(ctx context.Context, s *model.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(records, s.ID)
	if i < 0 {
		return ErrStudentNotFound
	}
	// Imports may already hold repeated roll numbers; only a change is checked.
	if !strings.EqualFold(records[i].RollNo, s.RollNo) && rollNoTaken(records, s.RollNo, s.ID) {
		return ErrDuplicateRollNo
	}

	records[i] = *s
	return r.persist(ctx, records)
}

// Delete removes a student by ID.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(records, id)
	if i < 0 {
		return ErrStudentNotFound
	}

	return r.persist(ctx, append(records[:i], records[i+1:]...))
}

// ReplaceAll overwrites the collection. IDs repeated within records are
// replaced with fresh ones; the number of replacements is returned.
func (r *StudentRepository) ReplaceAll(ctx context.Context, records []model.StudentRecord) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	replacement := make([]model.StudentRecord, 0, len(records))
	reassigned := assignIDs(&replacement, records, map[string]struct{}{})
	return reassigned, r.persist(ctx, replacement)
}

// Append adds records after the existing ones. Incoming records whose ID is
// already taken (or repeated within the batch) get a new ID; the number of
// such reassignments is returned.
func (r *StudentRepository) Append(ctx context.Context, incoming []model.StudentRecord) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return 0, err
	}

	taken := make(map[string]struct{}, len(records)+len(incoming))
	for _, s := range records {
		taken[s.ID] = struct{}{}
	}

	reassigned := assignIDs(&records, incoming, taken)
	return reassigned, r.persist(ctx, records)
}

// assignIDs appends incoming to dst, giving a fresh ID to any record whose ID
// is empty or already in taken. Only collisions are counted.
func assignIDs(dst *[]model.StudentRecord, incoming []model.StudentRecord, taken map[string]struct{}) int {
	reassigned := 0
	for _, s := range incoming {
		if _, dup := taken[s.ID]; dup || s.ID == "" {
			if s.ID != "" {
				reassigned++
			}
			s.ID = uuid.NewString()
		}
		taken[s.ID] = struct{}{}
		*dst = append(*dst, s)
	}
	return reassigned
}

// Clear removes the collection and its timestamp.
func (r *StudentRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, config.StorageKey.Students); err != nil {
		return err
	}
	return r.store.Delete(ctx, config.StorageKey.LastUpdated)
}

// LastUpdated returns when the collection was last written, or nil if never.
func (r *StudentRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	return getTime(ctx, r.store, config.StorageKey.LastUpdated)
}

func (r *StudentRepository) load(ctx context.Context) ([]model.StudentRecord, error) {
	raw, err := r.store.Get(ctx, config.StorageKey.Students)
	if errors.Is(err, ErrKeyNotFound) {
		return []model.StudentRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}

	var records []model.StudentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}
	if records == nil {
		records = []model.StudentRecord{}
	}
	return records, nil
}

func (r *StudentRepository) persist(ctx context.Context, records []model.StudentRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode students: %w", err)
	}
	if err := r.store.Set(ctx, config.StorageKey.Students, raw); err != nil {
		return fmt.Errorf("store students: %w", err)
	}
	return setTime(ctx, r.store, config.StorageKey.LastUpdated, r.now())
}

func indexOf(records []model.StudentRecord, id string) int {
	for i, s := range records {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// rollNoTaken ignores case and the record identified by exceptID.
func rollNoTaken(records []model.StudentRecord, rollNo, exceptID string) bool {
	for _, s := range records {
		if s.ID != exceptID && strings.EqualFold(s.RollNo, rollNo) {
			return true
		}
	}
	return false
}
