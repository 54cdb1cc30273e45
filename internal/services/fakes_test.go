package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"musegen/internal/models/db_models"
	"musegen/internal/plans"
	"musegen/pkg/utils"
)

// In-memory repository fakes. The usage fake mirrors the store's atomic
// increment-or-insert primitive under a mutex so concurrency tests exercise
// the gate's logic rather than the database.

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*db_models.Account

	// wired for cascade deletes in webhook tests
	subs     *fakeSubscriptionRepo
	sessions *fakeSessionRepo
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*db_models.Account)}
}

func (f *fakeAccountRepo) Insert(ctx context.Context, account *db_models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	cp := *account
	f.accounts[account.ID] = &cp
	return nil
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) FindByExternalID(ctx context.Context, externalID string) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.ExternalID == externalID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) UpsertByExternalID(ctx context.Context, account *db_models.Account) (*db_models.Account, error) {
	f.mu.Lock()
	for _, a := range f.accounts {
		if a.ExternalID == account.ExternalID {
			if account.Email != "" {
				a.Email = account.Email
			}
			a.Name = account.Name
			cp := *a
			f.mu.Unlock()
			return &cp, nil
		}
	}
	// Accounts provisioned through the one-time-code flow are claimed by
	// email, matching the repository's identity merge.
	if account.Email != "" {
		for _, a := range f.accounts {
			if a.ExternalID == "" && a.Email == account.Email {
				a.ExternalID = account.ExternalID
				a.Name = account.Name
				cp := *a
				f.mu.Unlock()
				return &cp, nil
			}
		}
	}
	f.mu.Unlock()
	if err := f.Insert(ctx, account); err != nil {
		return nil, err
	}
	return f.FindByExternalID(ctx, account.ExternalID)
}

func (f *fakeAccountRepo) DeleteCascadeByExternalID(ctx context.Context, externalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.accounts {
		if a.ExternalID == externalID {
			delete(f.accounts, id)
			if f.subs != nil {
				f.subs.deleteByAccount(id)
			}
			if f.sessions != nil {
				f.sessions.deleteByAccount(id)
			}
		}
	}
	return nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*db_models.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[uuid.UUID]*db_models.Subscription)}
}

func (f *fakeSubscriptionRepo) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.subs[accountID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) UpsertByAccountID(ctx context.Context, sub *db_models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *sub
	f.subs[sub.AccountID] = &cp
	return nil
}

func (f *fakeSubscriptionRepo) deleteByAccount(accountID uuid.UUID) {
	delete(f.subs, accountID)
}

type fakeUsageRepo struct {
	mu      sync.Mutex
	records map[string]*db_models.UsageRecord
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{records: make(map[string]*db_models.UsageRecord)}
}

func usageKey(accountID uuid.UUID, day plans.DayKey) string {
	return accountID.String() + "/" + day.String()
}

func (f *fakeUsageRepo) FindForDay(ctx context.Context, accountID uuid.UUID, day plans.DayKey) (*db_models.UsageRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.records[usageKey(accountID, day)]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsageRepo) IncrementFeature(ctx context.Context, accountID uuid.UUID, day plans.DayKey, feature db_models.FeatureType) (*db_models.UsageRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := usageKey(accountID, day)
	r, ok := f.records[key]
	if !ok {
		r = &db_models.UsageRecord{AccountID: accountID, DayKey: day.String()}
		f.records[key] = r
	}
	switch feature {
	case db_models.FeatureVideo:
		r.VideosUsed++
	default:
		r.ImagesUsed++
	}
	cp := *r
	return &cp, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*db_models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*db_models.Session)}
}

func (f *fakeSessionRepo) Insert(ctx context.Context, session *db_models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *session
	f.sessions[session.Token] = &cp
	return nil
}

func (f *fakeSessionRepo) FindActiveByToken(ctx context.Context, token string) (*db_models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil || s.ExpiresAt <= time.Now().Unix() {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) RevokeByToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[token]; ok {
		now := time.Now().Unix()
		s.RevokedAt = &now
	}
	return nil
}

func (f *fakeSessionRepo) deleteByAccount(accountID uuid.UUID) {
	for token, s := range f.sessions {
		if s.AccountID == accountID {
			delete(f.sessions, token)
		}
	}
}

type fakeCodeRepo struct {
	mu    sync.Mutex
	codes []*db_models.OneTimeCode
}

func newFakeCodeRepo() *fakeCodeRepo { return &fakeCodeRepo{} }

func (f *fakeCodeRepo) Insert(ctx context.Context, code *db_models.OneTimeCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *code
	cp.CreatedAt = time.Now().UnixNano() + int64(len(f.codes)) // strictly increasing
	f.codes = append(f.codes, &cp)
	return nil
}

func (f *fakeCodeRepo) FindLatestByEmail(ctx context.Context, email string) (*db_models.OneTimeCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *db_models.OneTimeCode
	now := time.Now().Unix()
	for _, c := range f.codes {
		if c.Email != email || c.ExpiresAt <= now {
			continue
		}
		if latest == nil || c.CreatedAt > latest.CreatedAt {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeCodeRepo) DeleteAllForEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.codes[:0]
	for _, c := range f.codes {
		if c.Email != email {
			kept = append(kept, c)
		}
	}
	f.codes = kept
	return nil
}

type fakeGenerationRepo struct {
	mu      sync.Mutex
	records []*db_models.GenerationRecord
}

func newFakeGenerationRepo() *fakeGenerationRepo { return &fakeGenerationRepo{} }

func (f *fakeGenerationRepo) Insert(ctx context.Context, record *db_models.GenerationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	cp := *record
	f.records = append(f.records, &cp)
	return nil
}

func (f *fakeGenerationRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.GenerationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.GenerationRecord
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].AccountID == accountID {
			out = append(out, *f.records[i])
		}
	}
	return out, nil
}

func (f *fakeGenerationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type sentMail struct {
	to, code, name string
	welcome        bool
}

type fakeMailService struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (f *fakeMailService) SendOneTimeCode(to, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sentMail{to: to, code: code})
	return nil
}

func (f *fakeMailService) SendWelcome(to, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sentMail{to: to, name: name, welcome: true})
	return nil
}

func (f *fakeMailService) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if !f.sent[i].welcome {
			return f.sent[i].code
		}
	}
	return ""
}

type fakeIDPVerifier struct {
	claims *utils.IDPClaims
	err    error
}

func (f *fakeIDPVerifier) Verify(tokenString string) (*utils.IDPClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

// fakeCapability scripts Complete and PollOperation responses.
type fakeCapability struct {
	mu sync.Mutex

	completeResult *utils.GenerationResult
	completeErr    error
	completeCalls  int

	pollResults []*utils.GenerationResult
	pollErr     error
	pollCalls   int
}

func (f *fakeCapability) Complete(ctx context.Context, req utils.GenerationRequest) (*utils.GenerationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return f.completeResult, nil
}

func (f *fakeCapability) PollOperation(ctx context.Context, operationID string) (*utils.GenerationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pollCalls++
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	if len(f.pollResults) == 0 {
		return &utils.GenerationResult{OperationID: operationID}, nil
	}
	next := f.pollResults[0]
	if len(f.pollResults) > 1 {
		f.pollResults = f.pollResults[1:]
	}
	return next, nil
}

type fakeEnhancer struct {
	result string
	err    error
}

func (f *fakeEnhancer) Enhance(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}
