package core

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"liminalcore/pkg/domain"

	"github.com/google/uuid"
)

type memoryState struct {
	guardians map[string]Guardian
	seedlings map[string]Seedling
	shelters  map[string]Shelter
}

func newMemoryState() memoryState {
	return memoryState{
		guardians: make(map[string]Guardian),
		seedlings: make(map[string]Seedling),
		shelters:  make(map[string]Shelter),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.guardians {
		cloned.guardians[k] = cloneGuardian(v)
	}
	for k, v := range s.seedlings {
		cloned.seedlings[k] = cloneSeedling(v)
	}
	for k, v := range s.shelters {
		cloned.shelters[k] = cloneShelter(v)
	}
	return cloned
}

func cloneGuardian(g Guardian) Guardian {
	cp := g
	cp.ChildIDs = append([]string(nil), g.ChildIDs...)
	cp.ShelterIDs = append([]string(nil), g.ShelterIDs...)
	cp.ResonanceLog = g.ResonanceLog.Clone()
	return cp
}

func cloneSeedling(s Seedling) Seedling {
	cp := s
	cp.EmotionalHistory = s.EmotionalHistory.Clone()
	cp.Milestones = s.Milestones.Clone()
	cp.CareInteractions = s.CareInteractions.Clone()
	return cp
}

func cloneShelter(sh Shelter) Shelter {
	cp := sh
	cp.EmotionalLog = sh.EmotionalLog.Clone()
	cp.AccessLog = sh.AccessLog.Clone()
	cp.TrustedEntities = make(map[string]bool, len(sh.TrustedEntities))
	for k, v := range sh.TrustedEntities {
		cp.TrustedEntities[k] = v
	}
	cp.BlockedEntities = make(map[string]bool, len(sh.BlockedEntities))
	for k, v := range sh.BlockedEntities {
		cp.BlockedEntities[k] = v
	}
	cp.Resources = make(map[string]domain.Resource, len(sh.Resources))
	for k, v := range sh.Resources {
		cp.Resources[k] = v
	}
	return cp
}

// MemoryStore provides an in-memory transactional store for the core domain.
// The time source and the uniform random source used by the learning engine
// are both injectable so outcomes are reproducible under test.
type MemoryStore struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
	randFn func() float64
}

// NewMemoryStore constructs an in-memory store backed by the provided rules
// engine. A nil engine disables rule evaluation side effects but keeps the
// transactional contract.
func NewMemoryStore(engine *RulesEngine) *MemoryStore {
	if engine == nil {
		engine = NewRulesEngine()
	}
	return &MemoryStore{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
		randFn: rand.Float64,
	}
}

// SetNowFunc overrides the store clock.
func (s *MemoryStore) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		s.nowFn = fn
	}
}

// SetRandFunc overrides the uniform random source consumed by probabilistic
// operations. The function must return values in [0,1).
func (s *MemoryStore) SetRandFunc(fn func() float64) {
	if fn != nil {
		s.randFn = fn
	}
}

func (s *MemoryStore) newID() string {
	return uuid.NewString()
}

// Transaction represents a mutation set applied to the store state.
type Transaction struct {
	store   *MemoryStore
	state   memoryState
	changes []Change
	now     time.Time
	randFn  func() float64
}

// Now returns the transaction timestamp. Every record written within the
// transaction carries the same instant.
func (tx *Transaction) Now() time.Time { return tx.now }

// Rand draws one value from the injected uniform source.
func (tx *Transaction) Rand() float64 { return tx.randFn() }

// TransactionView exposes a read-only snapshot of the transactional state to rules.
type TransactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return TransactionView{state: state}
}

// ListGuardians returns all guardians within the snapshot.
func (v TransactionView) ListGuardians() []Guardian {
	out := make([]Guardian, 0, len(v.state.guardians))
	for _, g := range v.state.guardians {
		out = append(out, cloneGuardian(g))
	}
	return out
}

// ListSeedlings returns all seedlings within the snapshot.
func (v TransactionView) ListSeedlings() []Seedling {
	out := make([]Seedling, 0, len(v.state.seedlings))
	for _, s := range v.state.seedlings {
		out = append(out, cloneSeedling(s))
	}
	return out
}

// ListShelters returns all shelters within the snapshot.
func (v TransactionView) ListShelters() []Shelter {
	out := make([]Shelter, 0, len(v.state.shelters))
	for _, sh := range v.state.shelters {
		out = append(out, cloneShelter(sh))
	}
	return out
}

// FindGuardian retrieves a guardian by ID from the snapshot.
func (v TransactionView) FindGuardian(id string) (Guardian, bool) {
	g, ok := v.state.guardians[id]
	if !ok {
		return Guardian{}, false
	}
	return cloneGuardian(g), true
}

// FindSeedling retrieves a seedling by ID from the snapshot.
func (v TransactionView) FindSeedling(id string) (Seedling, bool) {
	s, ok := v.state.seedlings[id]
	if !ok {
		return Seedling{}, false
	}
	return cloneSeedling(s), true
}

// FindShelter retrieves a shelter by ID from the snapshot.
func (v TransactionView) FindShelter(id string) (Shelter, bool) {
	sh, ok := v.state.shelters[id]
	if !ok {
		return Shelter{}, false
	}
	return cloneShelter(sh), true
}

// RunInTransaction executes fn within a transactional copy of the store state.
// Rules evaluate against the mutated snapshot before commit; blocking
// violations roll the transaction back.
func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(tx *Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{
		store:  s,
		state:  s.state.clone(),
		now:    s.nowFn(),
		randFn: s.randFn,
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *MemoryStore) View(ctx context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

func (tx *Transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// CreateGuardian stores a new guardian within the transaction.
func (tx *Transaction) CreateGuardian(g Guardian) (Guardian, error) {
	if g.ID == "" {
		g.ID = tx.store.newID()
	}
	if _, exists := tx.state.guardians[g.ID]; exists {
		return Guardian{}, fmt.Errorf("guardian %q already exists", g.ID)
	}
	g.CreatedAt = tx.now
	g.UpdatedAt = tx.now
	tx.state.guardians[g.ID] = cloneGuardian(g)
	tx.recordChange(Change{Entity: EntityGuardian, Action: ActionCreate, After: cloneGuardian(g)})
	return cloneGuardian(g), nil
}

// UpdateGuardian mutates a guardian using the provided mutator function.
func (tx *Transaction) UpdateGuardian(id string, mutator func(*Guardian) error) (Guardian, error) {
	current, ok := tx.state.guardians[id]
	if !ok {
		return Guardian{}, ErrNotFound{Entity: EntityGuardian, ID: id}
	}
	before := cloneGuardian(current)
	if err := mutator(&current); err != nil {
		return Guardian{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.guardians[id] = cloneGuardian(current)
	tx.recordChange(Change{Entity: EntityGuardian, Action: ActionUpdate, Before: before, After: cloneGuardian(current)})
	return cloneGuardian(current), nil
}

// CreateSeedling stores a new seedling within the transaction.
func (tx *Transaction) CreateSeedling(sd Seedling) (Seedling, error) {
	if sd.ID == "" {
		sd.ID = tx.store.newID()
	}
	if _, exists := tx.state.seedlings[sd.ID]; exists {
		return Seedling{}, fmt.Errorf("seedling %q already exists", sd.ID)
	}
	sd.CreatedAt = tx.now
	sd.UpdatedAt = tx.now
	tx.state.seedlings[sd.ID] = cloneSeedling(sd)
	tx.recordChange(Change{Entity: EntitySeedling, Action: ActionCreate, After: cloneSeedling(sd)})
	return cloneSeedling(sd), nil
}

// UpdateSeedling mutates a seedling using the provided mutator function.
func (tx *Transaction) UpdateSeedling(id string, mutator func(*Seedling) error) (Seedling, error) {
	current, ok := tx.state.seedlings[id]
	if !ok {
		return Seedling{}, ErrNotFound{Entity: EntitySeedling, ID: id}
	}
	before := cloneSeedling(current)
	if err := mutator(&current); err != nil {
		return Seedling{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.seedlings[id] = cloneSeedling(current)
	tx.recordChange(Change{Entity: EntitySeedling, Action: ActionUpdate, Before: before, After: cloneSeedling(current)})
	return cloneSeedling(current), nil
}

// CreateShelter stores a new shelter within the transaction.
func (tx *Transaction) CreateShelter(sh Shelter) (Shelter, error) {
	if sh.ID == "" {
		sh.ID = tx.store.newID()
	}
	if _, exists := tx.state.shelters[sh.ID]; exists {
		return Shelter{}, fmt.Errorf("shelter %q already exists", sh.ID)
	}
	sh.CreatedAt = tx.now
	sh.UpdatedAt = tx.now
	if sh.TrustedEntities == nil {
		sh.TrustedEntities = map[string]bool{}
	}
	if sh.BlockedEntities == nil {
		sh.BlockedEntities = map[string]bool{}
	}
	tx.state.shelters[sh.ID] = cloneShelter(sh)
	tx.recordChange(Change{Entity: EntityShelter, Action: ActionCreate, After: cloneShelter(sh)})
	return cloneShelter(sh), nil
}

// UpdateShelter mutates a shelter using the provided mutator function.
// CreatedBy and ForSeedling are immutable after construction.
func (tx *Transaction) UpdateShelter(id string, mutator func(*Shelter) error) (Shelter, error) {
	current, ok := tx.state.shelters[id]
	if !ok {
		return Shelter{}, ErrNotFound{Entity: EntityShelter, ID: id}
	}
	before := cloneShelter(current)
	if err := mutator(&current); err != nil {
		return Shelter{}, err
	}
	current.ID = id
	current.CreatedBy = before.CreatedBy
	current.ForSeedling = before.ForSeedling
	current.UpdatedAt = tx.now
	tx.state.shelters[id] = cloneShelter(current)
	tx.recordChange(Change{Entity: EntityShelter, Action: ActionUpdate, Before: before, After: cloneShelter(current)})
	return cloneShelter(current), nil
}

// FindGuardian retrieves a guardian from the transactional state.
func (tx *Transaction) FindGuardian(id string) (Guardian, bool) {
	g, ok := tx.state.guardians[id]
	if !ok {
		return Guardian{}, false
	}
	return cloneGuardian(g), true
}

// FindSeedling retrieves a seedling from the transactional state.
func (tx *Transaction) FindSeedling(id string) (Seedling, bool) {
	s, ok := tx.state.seedlings[id]
	if !ok {
		return Seedling{}, false
	}
	return cloneSeedling(s), true
}

// FindShelter retrieves a shelter from the transactional state.
func (tx *Transaction) FindShelter(id string) (Shelter, bool) {
	sh, ok := tx.state.shelters[id]
	if !ok {
		return Shelter{}, false
	}
	return cloneShelter(sh), true
}

// Read helpers ---------------------------------------------------------------

// GetGuardian retrieves a guardian by ID from committed state.
func (s *MemoryStore) GetGuardian(id string) (Guardian, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.state.guardians[id]
	if !ok {
		return Guardian{}, false
	}
	return cloneGuardian(g), true
}

// GetSeedling retrieves a seedling by ID from committed state.
func (s *MemoryStore) GetSeedling(id string) (Seedling, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sd, ok := s.state.seedlings[id]
	if !ok {
		return Seedling{}, false
	}
	return cloneSeedling(sd), true
}

// GetShelter retrieves a shelter by ID from committed state.
func (s *MemoryStore) GetShelter(id string) (Shelter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.state.shelters[id]
	if !ok {
		return Shelter{}, false
	}
	return cloneShelter(sh), true
}

// ListGuardians returns all guardians from committed state.
func (s *MemoryStore) ListGuardians() []Guardian {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Guardian, 0, len(s.state.guardians))
	for _, g := range s.state.guardians {
		out = append(out, cloneGuardian(g))
	}
	return out
}

// ListSeedlings returns all seedlings from committed state.
func (s *MemoryStore) ListSeedlings() []Seedling {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Seedling, 0, len(s.state.seedlings))
	for _, sd := range s.state.seedlings {
		out = append(out, cloneSeedling(sd))
	}
	return out
}

// ListShelters returns all shelters from committed state.
func (s *MemoryStore) ListShelters() []Shelter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Shelter, 0, len(s.state.shelters))
	for _, sh := range s.state.shelters {
		out = append(out, cloneShelter(sh))
	}
	return out
}
