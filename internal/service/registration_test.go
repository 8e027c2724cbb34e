package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"skincare/internal/database"
	"skincare/internal/flash"
	"skincare/internal/model"
	"skincare/internal/store"
	"skincare/internal/worker"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

/* ---------- fakes ---------- */

type memStore struct {
	mu        sync.Mutex
	users     map[string]*model.User
	nextID    int
	existsErr error
	createErr error
	// skipExists makes EmailExists always report false, as a racing request would see it
	skipExists bool
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*model.User{}}
}

func (m *memStore) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	if m.skipExists {
		return false, nil
	}
	_, ok := m.users[email]
	return ok, nil
}

func (m *memStore) CreateUser(_ context.Context, u *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, ok := m.users[u.Email]; ok {
		return nil, fmt.Errorf("CreateUser: %w", store.ErrEmailTaken)
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.users[u.Email] = &cp
	return u, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type fakeHasher struct{ err error }

func (f fakeHasher) Hash(_ context.Context, pw string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "hashed:" + pw, nil
}

func newTestRegistration(users UserStore, hasher PasswordHasher) (*Registration, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	return NewRegistration(users, hasher, NewValidator(), logger), hook
}

func form(name, email, pw, confirm string) RegistrationForm {
	return RegistrationForm{Name: name, Email: email, Password: pw, ConfirmPassword: confirm}
}

/* ---------- tests ---------- */

func TestCustomValidatorBasic(t *testing.T) {
	cv := NewValidator()
	type s struct {
		Name string `validate:"required"`
	}
	require.NoError(t, cv.Validate(&s{Name: "ok"}))
	require.Error(t, cv.Validate(&s{}))
}

func TestRegisterRejections(t *testing.T) {
	long := strings.Repeat("a", 51)
	cases := []struct {
		name string
		in   RegistrationForm
		kind OutcomeKind
		msg  string
	}{
		{"password mismatch", form("Ann", "ann@example.com", "p1", "p2"), OutcomeInvalid, MsgPasswordMismatch},
		{"mismatch wins over blanks", form("", "", "p1", "p2"), OutcomeInvalid, MsgPasswordMismatch},
		{"blank name", form("", "ann@example.com", "p1", "p1"), OutcomeInvalid, MsgFieldsRequired},
		{"whitespace email", form("Ann", "   ", "p1", "p1"), OutcomeInvalid, MsgFieldsRequired},
		{"blank password and confirm", form("Ann", "ann@example.com", "", ""), OutcomeInvalid, MsgFieldsRequired},
		{"whitespace password", form("Ann", "ann@example.com", " \t", " \t"), OutcomeInvalid, MsgFieldsRequired},
		{"long name", form(long, "ann@example.com", "p1", "p1"), OutcomeInvalid, MsgFieldTooLong},
		{"long password", form("Ann", "ann@example.com", long, long), OutcomeInvalid, MsgFieldTooLong},
		{"long email", form("Ann", long+"@example.com", "p1", "p1"), OutcomeInvalid, MsgFieldTooLong},
		{"malformed email", form("Ann", "not-an-email", "p1", "p1"), OutcomeInvalid, MsgInvalidEmail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := newMemStore()
			reg, _ := newTestRegistration(users, fakeHasher{})

			out := reg.Register(context.Background(), tc.in)
			require.Equal(t, tc.kind, out.Kind)
			require.Equal(t, SignupPath, out.Redirect)
			require.Equal(t, flash.Error(tc.msg), out.Flash)
			require.Zero(t, users.count())
		})
	}
}

func TestRegisterSuccessStoresHash(t *testing.T) {
	p := worker.NewPool(1)
	t.Cleanup(p.Stop)
	users := newMemStore()
	reg, hook := newTestRegistration(users, NewPooledHasher(p))

	out := reg.Register(context.Background(), form("Ann", "ann@example.com", "p1", "p1"))
	require.Equal(t, OutcomeSuccess, out.Kind)
	require.Equal(t, LoginPath, out.Redirect)
	require.Equal(t, flash.Success(MsgRegistered), out.Flash)

	require.Equal(t, 1, users.count())
	stored := users.users["ann@example.com"]
	require.Equal(t, "Ann", stored.Name)
	require.NotEqual(t, "p1", stored.PasswordHash)
	require.NoError(t, ComparePassword(stored.PasswordHash, "p1"))

	require.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	require.Equal(t, "user registered", hook.LastEntry().Message)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newMemStore()
	reg, _ := newTestRegistration(users, fakeHasher{})
	ctx := context.Background()

	require.Equal(t, OutcomeSuccess, reg.Register(ctx, form("Ann", "ann@example.com", "p1", "p1")).Kind)

	// identical resubmission
	out := reg.Register(ctx, form("Ann", "ann@example.com", "p1", "p1"))
	require.Equal(t, OutcomeConflict, out.Kind)
	require.Equal(t, flash.Error(MsgEmailExists), out.Flash)
	require.Equal(t, SignupPath, out.Redirect)

	// different name and password, same email
	out = reg.Register(ctx, form("Annie", "ann@example.com", "other", "other"))
	require.Equal(t, OutcomeConflict, out.Kind)
	require.Equal(t, 1, users.count())
	require.Equal(t, "Ann", users.users["ann@example.com"].Name)
}

func TestRegisterEmailIsExactMatch(t *testing.T) {
	users := newMemStore()
	reg, _ := newTestRegistration(users, fakeHasher{})
	ctx := context.Background()

	require.Equal(t, OutcomeSuccess, reg.Register(ctx, form("Ann", "ann@example.com", "p1", "p1")).Kind)
	require.Equal(t, OutcomeSuccess, reg.Register(ctx, form("Ann", "Ann@example.com", "p1", "p1")).Kind)
	require.Equal(t, 2, users.count())
}

func TestRegisterUniqueConstraintDecidesRace(t *testing.T) {
	users := newMemStore()
	users.skipExists = true
	reg, _ := newTestRegistration(users, fakeHasher{})
	ctx := context.Background()

	require.Equal(t, OutcomeSuccess, reg.Register(ctx, form("Ann", "ann@example.com", "p1", "p1")).Kind)

	out := reg.Register(ctx, form("Ann", "ann@example.com", "p1", "p1"))
	require.Equal(t, OutcomeConflict, out.Kind)
	require.Equal(t, flash.Error(MsgEmailExists), out.Flash)
	require.Equal(t, 1, users.count())
}

func TestRegisterInternalFailures(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(*memStore)
		hasher PasswordHasher
	}{
		{"exists check fails", func(m *memStore) { m.existsErr = errors.New("connection refused") }, fakeHasher{}},
		{"insert fails", func(m *memStore) { m.createErr = errors.New("connection reset") }, fakeHasher{}},
		{"hash fails", func(*memStore) {}, fakeHasher{err: errors.New("pool stopped")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := newMemStore()
			tc.setup(users)
			reg, hook := newTestRegistration(users, tc.hasher)

			out := reg.Register(context.Background(), form("Ann", "ann@example.com", "p1", "p1"))
			require.Equal(t, OutcomeInternal, out.Kind)
			require.Equal(t, SignupPath, out.Redirect)
			require.Equal(t, flash.Error(MsgInternal), out.Flash)
			require.Zero(t, users.count())

			require.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
			require.NotNil(t, hook.LastEntry().Data[logrus.ErrorKey])
		})
	}
}

func TestRegisterPasswordOverBcryptLimit(t *testing.T) {
	users := newMemStore()
	reg, _ := newTestRegistration(users, fakeHasher{err: fmt.Errorf("hash: %w", bcrypt.ErrPasswordTooLong)})

	pw := strings.Repeat("密", 30)
	out := reg.Register(context.Background(), form("Ann", "ann@example.com", pw, pw))
	require.Equal(t, OutcomeInvalid, out.Kind)
	require.Equal(t, flash.Error(MsgFieldTooLong), out.Flash)
	require.Zero(t, users.count())
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "race.db")
	require.NoError(t, database.RunSQLiteMigrations(path))
	db, err := database.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	users := store.NewSQLiteUsers(db)

	reg, _ := newTestRegistration(users, fakeHasher{})

	const n = 8
	outcomes := make([]Outcome, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			outcomes[i] = reg.Register(context.Background(), form("Ann", "ann@example.com", "p1", "p1"))
		}(i)
	}
	close(start)
	wg.Wait()

	var success, conflict int
	for _, out := range outcomes {
		switch out.Kind {
		case OutcomeSuccess:
			success++
		case OutcomeConflict:
			conflict++
		}
	}
	require.Equal(t, 1, success)
	require.Equal(t, n-1, conflict)

	count, err := users.CountByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestOutcomeKindString(t *testing.T) {
	require.Equal(t, "success", OutcomeSuccess.String())
	require.Equal(t, "conflict", OutcomeConflict.String())
	require.Equal(t, "OutcomeKind(9)", OutcomeKind(9).String())
}
