// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bazaar-api/internal/auth"
	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/mailer"
	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

var (
	ErrAlreadyLoved   = errors.New("product already in love list")
	ErrNotLoved       = errors.New("product not in love list")
	ErrAlreadyBlocked = errors.New("account already blocked")
	ErrNotBlocked     = errors.New("account is not blocked")
)

// LoveCounter keeps a product's love_count in step with the per-user
// love sets. The product service implements it.
type LoveCounter interface {
	IncrementLove(ctx context.Context, productID string) error
	DecrementLove(ctx context.Context, productID string) error
}

type Service struct {
	repo         Repository
	sessions     *auth.SessionStore
	challenges   *auth.ChallengeManager
	mail         mailer.Sender
	store        storage.ObjectStorage
	loves        LoveCounter
	staffMailbox string
}

func NewService(
	repo Repository,
	sessions *auth.SessionStore,
	challenges *auth.ChallengeManager,
	mail mailer.Sender,
	store storage.ObjectStorage,
	staffMailbox string,
) *Service {
	return &Service{
		repo:         repo,
		sessions:     sessions,
		challenges:   challenges,
		mail:         mail,
		store:        store,
		staffMailbox: staffMailbox,
	}
}

// SetLoveCounter wires the product service in after construction;
// the two services reference each other through interfaces.
func (s *Service) SetLoveCounter(loves LoveCounter) {
	s.loves = loves
}

// --- auth.UserProvider ---

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, strings.ToLower(email))
}

func (s *Service) Create(
	ctx context.Context,
	params auth.CreateUserParams,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Name:         params.Name,
		Email:        strings.ToLower(params.Email),
		PasswordHash: params.PasswordHash,
		Role:         RoleUser,
		IsVerified:   params.IsVerified,
		Love:         []string{},
		Avatar:       core.NewJSONColumn(params.Avatar),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

var _ auth.UserProvider = (*Service)(nil)

// ResolveName returns the display name for an account.
func (s *Service) ResolveName(ctx context.Context, id string) (string, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Name, nil
}

// --- self service ---

// GetMe reads through the session cache before touching Postgres.
func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	if cached, ok, err := s.sessions.Get(ctx, userID); err == nil && ok {
		return fromUserInfo(cached), nil
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.sessions.Set(ctx, toUserInfo(user))

	return user, nil
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateMeRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.sessions.Set(ctx, toUserInfo(user))

	return user, nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID string,
	req UpdatePasswordRequest,
) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	valid, _, err := core.VerifyPasswordWithRehash(
		req.CurrentPassword,
		user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return core.UnauthorizedError("current password is incorrect")
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, newHash); err != nil {
		return err
	}

	return nil
}

// UpdateAvatar replaces the stored avatar, destroying the previous
// blob once the new one is uploaded.
func (s *Service) UpdateAvatar(
	ctx context.Context,
	userID string,
	data []byte,
	filename, contentType string,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	image, err := s.store.Upload(ctx, data, "avatars", filename, contentType)
	if err != nil {
		return nil, err
	}

	if old := user.Avatar.Val; old.ID != "" {
		//nolint:errcheck // orphaned blob is harmless, replacement already stored
		_ = s.store.Destroy(ctx, old.ID)
	}

	user.Avatar = core.NewJSONColumn(image)

	if err := s.repo.UpdateAvatar(ctx, userID, image); err != nil {
		return nil, err
	}

	s.sessions.Set(ctx, toUserInfo(user))

	return user, nil
}

// RequestEmailUpdate mails a one-time code to the prospective address
// and hands back the challenge token. Staff accounts use a separate
// challenge secret and the staff mailbox is notified.
func (s *Service) RequestEmailUpdate(
	ctx context.Context,
	userID string,
	req UpdateEmailRequest,
) (*ChallengeResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	newEmail := strings.ToLower(req.NewEmail)

	exists, err := s.repo.ExistsByEmail(ctx, newEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("request email update: %w", core.ErrDuplicateKey)
	}

	code, err := core.GenerateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	payload := map[string]string{
		"user_id":   user.ID,
		"new_email": newEmail,
		"old_email": user.Email,
	}

	purpose := auth.PurposeEmailUpdate
	template := mailer.TemplateEmailOTP
	if user.IsStaff() {
		purpose = auth.PurposeAdminEmail
		template = mailer.TemplateAdminEmailVerify
	}

	token, err := s.challenges.Create(purpose, payload, code)
	if err != nil {
		return nil, fmt.Errorf("create challenge: %w", err)
	}

	err = s.mail.Send(
		ctx,
		newEmail,
		"Confirm your new email address",
		template,
		map[string]any{"Name": user.Name, "Code": code},
	)
	if err != nil {
		return nil, fmt.Errorf("send verification mail: %w", err)
	}

	if user.IsStaff() {
		err = s.mail.Send(
			ctx,
			s.staffMailbox,
			"Staff email change requested",
			mailer.TemplateAdminEmailNotice,
			map[string]any{"Name": user.Name, "NewEmail": newEmail},
		)
		if err != nil {
			return nil, fmt.Errorf("send staff notice: %w", err)
		}
	}

	return &ChallengeResponse{Token: token}, nil
}

func (s *Service) ConfirmEmailUpdate(
	ctx context.Context,
	userID string,
	req ConfirmEmailRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	purpose := auth.PurposeEmailUpdate
	if user.IsStaff() {
		purpose = auth.PurposeAdminEmail
	}

	payload, err := s.challenges.Redeem(purpose, req.Token, req.Code)
	if err != nil {
		return nil, err
	}

	if payload["user_id"] != userID {
		return nil, core.ForbiddenError("challenge belongs to another account")
	}

	newEmail := payload["new_email"]

	if err := s.repo.UpdateEmail(ctx, userID, newEmail); err != nil {
		return nil, err
	}

	oldEmail := user.Email
	user.Email = newEmail

	s.sessions.Set(ctx, toUserInfo(user))

	err = s.mail.Send(
		ctx,
		oldEmail,
		"Your email address was changed",
		mailer.TemplateUpdateEmail,
		map[string]any{"Name": user.Name, "NewEmail": newEmail},
	)
	if err != nil {
		return nil, fmt.Errorf("send change notice: %w", err)
	}

	return user, nil
}

// RequestAccountDelete starts the self-deletion challenge.
func (s *Service) RequestAccountDelete(
	ctx context.Context,
	userID string,
) (*ChallengeResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	code, err := core.GenerateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	token, err := s.challenges.Create(
		auth.PurposeDelete,
		map[string]string{"user_id": user.ID},
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("create challenge: %w", err)
	}

	err = s.mail.Send(
		ctx,
		user.Email,
		"Confirm account deletion",
		mailer.TemplateDeleteOTP,
		map[string]any{"Name": user.Name, "Code": code},
	)
	if err != nil {
		return nil, fmt.Errorf("send deletion mail: %w", err)
	}

	return &ChallengeResponse{Token: token}, nil
}

func (s *Service) ConfirmAccountDelete(
	ctx context.Context,
	userID string,
	req ConfirmDeleteRequest,
) error {
	payload, err := s.challenges.Redeem(auth.PurposeDelete, req.Token, req.Code)
	if err != nil {
		return err
	}

	if payload["user_id"] != userID {
		return core.ForbiddenError("challenge belongs to another account")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if avatar := user.Avatar.Val; avatar.ID != "" {
		//nolint:errcheck // account removal proceeds even if the blob lingers
		_ = s.store.Destroy(ctx, avatar.ID)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.sessions.Delete(ctx, userID)

	err = s.mail.Send(
		ctx,
		user.Email,
		"Your account was deleted",
		mailer.TemplateConfirmDelete,
		map[string]any{"Name": user.Name},
	)
	if err != nil {
		return fmt.Errorf("send deletion notice: %w", err)
	}

	return nil
}

// AddLove records the product in the caller's love set and bumps the
// product's love_count.
func (s *Service) AddLove(
	ctx context.Context,
	userID, productID string,
) ([]string, error) {
	love, err := s.repo.AddLove(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrAlreadyLoved
		}
		return nil, err
	}

	if err := s.loves.IncrementLove(ctx, productID); err != nil {
		return nil, fmt.Errorf("sync love count: %w", err)
	}

	s.refreshSession(ctx, userID)

	return love, nil
}

func (s *Service) RemoveLove(
	ctx context.Context,
	userID, productID string,
) ([]string, error) {
	love, err := s.repo.RemoveLove(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrNotLoved
		}
		return nil, err
	}

	if err := s.loves.DecrementLove(ctx, productID); err != nil {
		return nil, fmt.Errorf("sync love count: %w", err)
	}

	s.refreshSession(ctx, userID)

	return love, nil
}

// --- staff operations ---

func (s *Service) ListUsers(
	ctx context.Context,
	viewerRole string,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, viewerRole, params)
}

func (s *Service) GetUser(
	ctx context.Context,
	actorRole, targetID string,
) (*User, error) {
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !CanActOn(actorRole, target.Role) {
		return nil, fmt.Errorf("get user: %w", core.ErrForbidden)
	}

	return target, nil
}

func (s *Service) BlockUser(
	ctx context.Context,
	actorRole, targetID string,
) (*User, error) {
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !CanActOn(actorRole, target.Role) {
		return nil, fmt.Errorf("block user: %w", core.ErrForbidden)
	}

	if target.IsBlocked {
		return nil, ErrAlreadyBlocked
	}

	if err := s.repo.SetBlocked(ctx, targetID, true); err != nil {
		return nil, err
	}

	target.IsBlocked = true
	target.BlockCount++

	// Blocking revokes the live session so refresh stops working.
	s.sessions.Delete(ctx, targetID)

	err = s.mail.Send(
		ctx,
		target.Email,
		"Your account was blocked",
		mailer.TemplateBlockUser,
		map[string]any{"Name": target.Name},
	)
	if err != nil {
		return nil, fmt.Errorf("send block notice: %w", err)
	}

	return target, nil
}

func (s *Service) UnblockUser(
	ctx context.Context,
	actorRole, targetID string,
) (*User, error) {
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !CanActOn(actorRole, target.Role) {
		return nil, fmt.Errorf("unblock user: %w", core.ErrForbidden)
	}

	if !target.IsBlocked {
		return nil, ErrNotBlocked
	}

	if err := s.repo.SetBlocked(ctx, targetID, false); err != nil {
		return nil, err
	}

	target.IsBlocked = false

	err = s.mail.Send(
		ctx,
		target.Email,
		"Your account was unblocked",
		mailer.TemplateUnblockUser,
		map[string]any{"Name": target.Name},
	)
	if err != nil {
		return nil, fmt.Errorf("send unblock notice: %w", err)
	}

	return target, nil
}

// UpdateUserRole reassigns a role. The actor must outrank both the
// target's current role and the role being assigned.
func (s *Service) UpdateUserRole(
	ctx context.Context,
	actorRole, targetID, role string,
) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !CanActOn(actorRole, target.Role) || !CanActOn(actorRole, role) {
		return nil, fmt.Errorf("update role: %w", core.ErrForbidden)
	}

	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}

	target.Role = role

	// Role is baked into the access token, so the old session must go.
	s.sessions.Delete(ctx, targetID)

	err = s.mail.Send(
		ctx,
		target.Email,
		"Your account role was changed",
		mailer.TemplateUpdateRole,
		map[string]any{"Name": target.Name, "Role": role},
	)
	if err != nil {
		return nil, fmt.Errorf("send role notice: %w", err)
	}

	return target, nil
}

func (s *Service) DeleteUser(
	ctx context.Context,
	actorRole, targetID string,
) error {
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if !CanActOn(actorRole, target.Role) {
		return fmt.Errorf("delete user: %w", core.ErrForbidden)
	}

	if avatar := target.Avatar.Val; avatar.ID != "" {
		//nolint:errcheck // account removal proceeds even if the blob lingers
		_ = s.store.Destroy(ctx, avatar.ID)
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		return err
	}

	s.sessions.Delete(ctx, targetID)

	err = s.mail.Send(
		ctx,
		target.Email,
		"Your account was removed",
		mailer.TemplateDeleteUser,
		map[string]any{"Name": target.Name},
	)
	if err != nil {
		return fmt.Errorf("send removal notice: %w", err)
	}

	return nil
}

func (s *Service) refreshSession(ctx context.Context, userID string) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return
	}
	s.sessions.Set(ctx, toUserInfo(user))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		Gender:       u.Gender,
		Role:         u.Role,
		IsVerified:   u.IsVerified,
		IsBlocked:    u.IsBlocked,
		BlockCount:   u.BlockCount,
		Love:         u.Love,
		Avatar:       u.Avatar.Val,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromUserInfo(info *auth.UserInfo) *User {
	return &User{
		ID:           info.ID,
		Name:         info.Name,
		Email:        info.Email,
		PasswordHash: info.PasswordHash,
		Phone:        info.Phone,
		Gender:       info.Gender,
		Role:         info.Role,
		IsVerified:   info.IsVerified,
		IsBlocked:    info.IsBlocked,
		BlockCount:   info.BlockCount,
		Love:         info.Love,
		Avatar:       core.NewJSONColumn(info.Avatar),
		CreatedAt:    info.CreatedAt,
		UpdatedAt:    info.UpdatedAt,
	}
}
