// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/bazaar-api/internal/cache"
	"github.com/carterperez-dev/bazaar-api/internal/core"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]*UserInfo
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[string]*UserInfo)}
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Create(ctx context.Context, params CreateUserParams) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == params.Email {
			return nil, core.ErrDuplicateKey
		}
	}
	f.nextID++
	u := &UserInfo{
		ID:           fmt.Sprintf("user-%d", f.nextID),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         "user",
		IsVerified:   params.IsVerified,
		Avatar:       params.Avatar,
		Love:         []string{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.byID[u.ID] = u
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUsers) setBlocked(id string, blocked bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		u.IsBlocked = blocked
	}
}

type sentMail struct {
	To       string
	Template string
	Data     map[string]any
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(
	ctx context.Context,
	to, subject, templateName string,
	data map[string]any,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Template: templateName, Data: data})
	return nil
}

func (f *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("no mail was sent")
	}
	code, ok := f.sent[len(f.sent)-1].Data["Code"].(string)
	if !ok {
		t.Fatal("last mail carries no code")
	}
	return code
}

type authTestEnv struct {
	service *Service
	users   *fakeUsers
	mail    *fakeMailer
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	jwtCfg := testJWTConfig()
	jwtManager := newTestJWTManager(t, jwtCfg)

	users := newFakeUsers()
	mail := &fakeMailer{}
	sessions := NewSessionStore(cache.New(rdb), jwtCfg.RefreshTokenExpire)
	challenges := NewChallengeManager(testChallengeConfig(5 * time.Minute))

	return &authTestEnv{
		service: NewService(users, jwtManager, challenges, sessions, mail, jwtCfg),
		users:   users,
		mail:    mail,
	}
}

func registerAndVerify(t *testing.T, env *authTestEnv, email, password string) *AuthResponse {
	t.Helper()
	ctx := context.Background()

	challenge, err := env.service.Register(ctx, RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, _, err := env.service.Verify(ctx, VerificationRequest{
		Token: challenge.Token,
		Code:  env.mail.lastCode(t),
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	return resp
}

func TestRegisterVerifyLogin(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	resp := registerAndVerify(t, env, "ada@example.com", "s3cret-password")

	if resp.User.Email != "ada@example.com" {
		t.Errorf("verified email = %q", resp.User.Email)
	}
	if !resp.User.IsVerified {
		t.Error("redeemed account should be verified")
	}
	if resp.Tokens.AccessToken == "" {
		t.Error("verification should issue an access token")
	}

	login, refreshToken, err := env.service.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "s3cret-password",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Errorf("login user %q, want %q", login.User.ID, resp.User.ID)
	}
	if refreshToken == "" {
		t.Error("login should issue a refresh token")
	}
}

func TestRegisterExistingEmail(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	registerAndVerify(t, env, "ada@example.com", "s3cret-password")

	_, err := env.service.Register(ctx, RegisterRequest{
		Name:     "Imposter",
		Email:    "ada@example.com",
		Password: "other-password",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Register dup: got %v, want ErrEmailExists", err)
	}
}

func TestVerifyWrongCode(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	challenge, err := env.service.Register(ctx, RegisterRequest{
		Name:     "Test User",
		Email:    "ada@example.com",
		Password: "s3cret-password",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err = env.service.Verify(ctx, VerificationRequest{
		Token: challenge.Token,
		Code:  "000000",
	})
	if !errors.Is(err, core.ErrCodeMismatch) {
		t.Errorf("wrong code: got %v, want core.ErrCodeMismatch", err)
	}

	// No account exists until the real code is redeemed.
	if _, lookupErr := env.users.GetByEmail(ctx, "ada@example.com"); !errors.Is(lookupErr, core.ErrNotFound) {
		t.Error("failed verification must not provision an account")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	registerAndVerify(t, env, "ada@example.com", "s3cret-password")

	_, _, err := env.service.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}

	_, _, err = env.service.Login(ctx, LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginBlockedAccount(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	resp := registerAndVerify(t, env, "ada@example.com", "s3cret-password")
	env.users.setBlocked(resp.User.ID, true)

	_, _, err := env.service.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "s3cret-password",
	})
	if !errors.Is(err, ErrAccountBlocked) {
		t.Errorf("blocked login: got %v, want ErrAccountBlocked", err)
	}
}

func TestRefreshRequiresLiveSession(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	resp := registerAndVerify(t, env, "ada@example.com", "s3cret-password")

	_, refreshToken, err := env.service.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "s3cret-password",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, rotated, err := env.service.Refresh(ctx, refreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.User.ID != resp.User.ID {
		t.Errorf("refreshed user %q, want %q", refreshed.User.ID, resp.User.ID)
	}
	if rotated == "" {
		t.Error("refresh should rotate the refresh token")
	}

	// Logout drops the session; the still-valid token is now useless.
	env.service.Logout(ctx, resp.User.ID)

	_, _, err = env.service.Refresh(ctx, refreshToken)
	if !errors.Is(err, core.ErrTokenRevoked) {
		t.Errorf("refresh after logout: got %v, want core.ErrTokenRevoked", err)
	}
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	env := newAuthTestEnv(t)

	_, _, err := env.service.Refresh(context.Background(), "not-a-token")
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("garbage token: got %v, want core.ErrTokenInvalid", err)
	}
}

func TestForgotPasswordFlow(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	resp := registerAndVerify(t, env, "ada@example.com", "old-password")

	_, refreshToken, err := env.service.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "old-password",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	challenge, err := env.service.ForgotPassword(ctx, ForgotPasswordRequest{
		Email:       "ada@example.com",
		NewPassword: "new-password",
	})
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	code := env.mail.lastCode(t)

	if err := env.service.ConfirmChangedPassword(ctx, ConfirmPasswordRequest{
		Token: challenge.Token,
		Code:  code,
	}); err != nil {
		t.Fatalf("ConfirmChangedPassword: %v", err)
	}

	// Reset revokes the live session, so the old refresh token dies too.
	if _, _, refreshErr := env.service.Refresh(ctx, refreshToken); !errors.Is(refreshErr, core.ErrTokenRevoked) {
		t.Errorf("refresh after reset: got %v, want core.ErrTokenRevoked", refreshErr)
	}

	if _, _, err := env.service.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "old-password",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password after reset: got %v, want ErrInvalidCredentials", err)
	}

	login, _, err := env.service.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "new-password",
	})
	if err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Errorf("login user %q, want %q", login.User.ID, resp.User.ID)
	}
}

func TestForgotPasswordUnknownAccount(t *testing.T) {
	env := newAuthTestEnv(t)

	_, err := env.service.ForgotPassword(context.Background(), ForgotPasswordRequest{
		Email:       "nobody@example.com",
		NewPassword: "whatever",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown account: got %v, want core.ErrNotFound", err)
	}
}

func TestSocialAuthProvisionsOnce(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	first, _, err := env.service.SocialAuth(ctx, SocialAuthRequest{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	})
	if err != nil {
		t.Fatalf("SocialAuth: %v", err)
	}
	if !first.User.IsVerified {
		t.Error("social accounts arrive provider-verified")
	}

	second, _, err := env.service.SocialAuth(ctx, SocialAuthRequest{
		Name:  "Ada L.",
		Email: "ada@example.com",
	})
	if err != nil {
		t.Fatalf("SocialAuth repeat: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Errorf("repeat sign-in created a new account: %q vs %q",
			second.User.ID, first.User.ID)
	}
}

func TestRegisterMailFailureSurfaces(t *testing.T) {
	env := newAuthTestEnv(t)
	env.mail.err = errors.New("smtp down")

	_, err := env.service.Register(context.Background(), RegisterRequest{
		Name:     "Test User",
		Email:    "ada@example.com",
		Password: "s3cret-password",
	})
	if err == nil {
		t.Fatal("mail failure should fail registration")
	}
}
