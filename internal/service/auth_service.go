package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shoptobd/internal/model"
	"shoptobd/internal/repository"
	"shoptobd/internal/security"
	"shoptobd/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mocks/auth_service_mock.go -package=mocks

// OTPSender delivers a one-time code to a phone number or email address.
type OTPSender interface {
	Send(ctx context.Context, destination, code string) error
}

// OTPThrottle limits how often a code may be issued for one destination.
type OTPThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type AuthOptions struct {
	OTPTTL                 time.Duration
	AllowAdminSelfRegister bool
}

// --- DTOs ---

type RegisterCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	AuthType string `json:"auth_type" binding:"required,oneof=Email Phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GenerateOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type GoogleLoginRequest struct {
	GoogleID string `json:"google_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

type RegisterAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin super_admin"`
}

type CustomerResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	AuthType string  `json:"auth_type"`
}

type AdminResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
}

// --- Interface ---

type AuthService interface {
	RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (CustomerResponse, error)
	LoginCustomer(ctx context.Context, req LoginRequest) (TokenResponse, error)
	GenerateOTP(ctx context.Context, req GenerateOTPRequest) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (TokenResponse, error)
	GoogleLogin(ctx context.Context, req GoogleLoginRequest) (TokenResponse, error)
	LoginAdmin(ctx context.Context, req LoginRequest) (TokenResponse, error)
	RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (AdminResponse, error)
	CreateAdmin(ctx context.Context, actor Actor, req CreateAdminRequest) (AdminResponse, error)
	BootstrapSuperAdmin(ctx context.Context, name, email, password string) error
}

type authService struct {
	customerRepo repository.CustomerRepository
	adminRepo    repository.AdminRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hasher       security.PasswordHasher
	tokens       security.TokenIssuer
	otpSender    OTPSender
	otpThrottle  OTPThrottle
	opts         AuthOptions
	now          func() time.Time
}

func NewAuthService(
	customerRepo repository.CustomerRepository,
	adminRepo repository.AdminRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hasher security.PasswordHasher,
	tokens security.TokenIssuer,
	otpSender OTPSender,
	otpThrottle OTPThrottle,
	opts AuthOptions,
) AuthService {
	return &authService{
		customerRepo: customerRepo,
		adminRepo:    adminRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hasher:       hasher,
		tokens:       tokens,
		otpSender:    otpSender,
		otpThrottle:  otpThrottle,
		opts:         opts,
		now:          time.Now,
	}
}

var errInvalidCredentials = apperror.NewUnauthorizedError("invalid email or password")

// --- Customers ---

func (s *authService) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (CustomerResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)

	var authData string
	switch req.AuthType {
	case model.AuthTypeEmail:
		if email == "" || len(req.Password) < 6 {
			return CustomerResponse{}, apperror.NewValidationError("email and a password of at least 6 characters are required")
		}
		authData = email
	case model.AuthTypePhone:
		if phone == "" {
			return CustomerResponse{}, apperror.NewValidationError("phone is required")
		}
		authData = phone
	default:
		return CustomerResponse{}, apperror.NewValidationError("auth_type must be Email or Phone")
	}

	if _, err := s.customerRepo.FindAuth(ctx, req.AuthType, authData); err == nil {
		return CustomerResponse{}, apperror.NewConflictError("user already exists with this email or phone")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return CustomerResponse{}, apperror.NewStorageError("failed to check existing user", err)
	}

	customer := model.Customer{Name: strings.TrimSpace(req.Name), Status: model.CustomerStatusActive}
	if email != "" {
		customer.Email = &email
	}
	if phone != "" {
		customer.PhonePrimary = &phone
	}
	auth := model.UserAuth{
		AuthType:      req.AuthType,
		AuthData:      authData,
		EmailVerified: req.AuthType == model.AuthTypeEmail,
	}
	if req.AuthType == model.AuthTypeEmail {
		hashed, err := s.hasher.Hash(req.Password)
		if err != nil {
			return CustomerResponse{}, apperror.NewStorageError("failed to hash password", err)
		}
		auth.PasswordHash = &hashed
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.customerRepo.CreateWithAuth(txCtx, &customer, &auth)
	})
	if err != nil {
		return CustomerResponse{}, storageErr("register customer", err)
	}

	return CustomerResponse{
		ID:       customer.ID.String(),
		Name:     customer.Name,
		Email:    customer.Email,
		Phone:    customer.PhonePrimary,
		AuthType: auth.AuthType,
	}, nil
}

func (s *authService) LoginCustomer(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	auth, err := s.customerRepo.FindAuth(ctx, model.AuthTypeEmail, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TokenResponse{}, errInvalidCredentials
	}
	if err != nil {
		return TokenResponse{}, apperror.NewStorageError("failed to load user", err)
	}
	if auth.PasswordHash == nil || !s.hasher.Verify(req.Password, *auth.PasswordHash) {
		return TokenResponse{}, errInvalidCredentials
	}
	return s.issue(auth.CustomerID, model.RoleCustomer)
}

// GenerateOTP stores a hashed code for a registered phone and hands the
// plain code to the sender. The code is never part of any response.
func (s *authService) GenerateOTP(ctx context.Context, req GenerateOTPRequest) error {
	phone := strings.TrimSpace(req.Phone)
	auth, err := s.customerRepo.FindAuth(ctx, model.AuthTypePhone, phone)
	if err != nil {
		return lookupErr(err, "user with this phone number")
	}

	if s.otpThrottle != nil {
		allowed, err := s.otpThrottle.Allow(ctx, "otp:"+phone)
		if err != nil {
			return apperror.NewStorageError("failed to check otp cooldown", err)
		}
		if !allowed {
			return apperror.NewRateLimitError("an OTP was sent recently, please wait before requesting another")
		}
	}

	code, err := security.GenerateOTP()
	if err != nil {
		return apperror.NewStorageError("failed to generate otp", err)
	}
	hashed, err := s.hasher.Hash(code)
	if err != nil {
		return apperror.NewStorageError("failed to hash otp", err)
	}

	expiry := s.now().Add(s.opts.OTPTTL)
	auth.OTPHash = &hashed
	auth.OTPExpiry = &expiry
	auth.OTPVerified = false
	if err := s.customerRepo.UpdateAuth(ctx, auth); err != nil {
		return apperror.NewStorageError("failed to store otp", err)
	}

	if err := s.otpSender.Send(ctx, phone, code); err != nil {
		return apperror.NewStorageError("failed to deliver otp", err)
	}
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (TokenResponse, error) {
	auth, err := s.customerRepo.FindAuth(ctx, model.AuthTypePhone, strings.TrimSpace(req.Phone))
	if err != nil {
		return TokenResponse{}, lookupErr(err, "user")
	}

	if auth.OTPHash == nil || auth.OTPExpiry == nil {
		return TokenResponse{}, apperror.NewValidationError("no OTP has been requested")
	}
	if s.now().After(*auth.OTPExpiry) {
		return TokenResponse{}, apperror.NewValidationError("OTP has expired")
	}
	if !s.hasher.Verify(req.OTP, *auth.OTPHash) {
		return TokenResponse{}, apperror.NewValidationError("invalid OTP")
	}

	// Codes are single use.
	auth.OTPHash = nil
	auth.OTPExpiry = nil
	auth.OTPVerified = true
	if err := s.customerRepo.UpdateAuth(ctx, auth); err != nil {
		return TokenResponse{}, apperror.NewStorageError("failed to update otp state", err)
	}
	return s.issue(auth.CustomerID, model.RoleCustomer)
}

// GoogleLogin signs in by Google id, creating the customer on first use.
// The submitted email is unverified, so an existing account with that email
// is never linked here.
func (s *authService) GoogleLogin(ctx context.Context, req GoogleLoginRequest) (TokenResponse, error) {
	auth, err := s.customerRepo.FindAuth(ctx, model.AuthTypeGoogle, req.GoogleID)
	if err == nil {
		return s.issue(auth.CustomerID, model.RoleCustomer)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return TokenResponse{}, apperror.NewStorageError("failed to load user", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var customerID uuid.UUID
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		link := &model.UserAuth{
			AuthType: model.AuthTypeGoogle,
			AuthData: req.GoogleID,
		}

		_, err := s.customerRepo.FindByEmail(txCtx, email)
		switch {
		case err == nil:
			return apperror.NewConflictError("email is already registered; sign in with your password")
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		customer := &model.Customer{Name: req.Name, Email: &email, Status: model.CustomerStatusActive}
		if err := s.customerRepo.CreateWithAuth(txCtx, customer, link); err != nil {
			return err
		}
		customerID = customer.ID
		return nil
	})
	if err != nil {
		return TokenResponse{}, storageErr("sign in with google", err)
	}
	return s.issue(customerID, model.RoleCustomer)
}

// --- Admins ---

func (s *authService) LoginAdmin(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TokenResponse{}, errInvalidCredentials
	}
	if err != nil {
		return TokenResponse{}, apperror.NewStorageError("failed to load admin", err)
	}
	if admin.Status != model.AdminStatusActive || !s.hasher.Verify(req.Password, admin.PasswordHash) {
		return TokenResponse{}, errInvalidCredentials
	}
	return s.issue(admin.ID, admin.Role.Name)
}

func (s *authService) RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (AdminResponse, error) {
	if !s.opts.AllowAdminSelfRegister {
		return AdminResponse{}, apperror.NewPermissionError("admin self-registration is disabled")
	}
	return s.createAdmin(ctx, Actor{}, req.Name, req.Email, req.Password, model.RoleAdmin)
}

func (s *authService) CreateAdmin(ctx context.Context, actor Actor, req CreateAdminRequest) (AdminResponse, error) {
	if !actor.IsSuperAdmin() {
		return AdminResponse{}, apperror.NewPermissionError("only a super admin can create admins")
	}
	return s.createAdmin(ctx, actor, req.Name, req.Email, req.Password, req.Role)
}

// BootstrapSuperAdmin makes sure the built-in roles and the configured super
// admin exist. It does nothing for an email that is already registered.
func (s *authService) BootstrapSuperAdmin(ctx context.Context, name, email, password string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.adminRepo.EnsureRole(txCtx, model.RoleSuperAdmin, "Full access including refunds and admin management"); err != nil {
			return err
		}
		if _, err := s.adminRepo.EnsureRole(txCtx, model.RoleAdmin, "Order, invoice and payment operations"); err != nil {
			return err
		}
		if email == "" || password == "" {
			return nil
		}

		_, err := s.adminRepo.FindByEmail(txCtx, strings.ToLower(email))
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		_, err = s.createAdmin(txCtx, Actor{}, name, email, password, model.RoleSuperAdmin)
		return err
	})
}

func (s *authService) createAdmin(ctx context.Context, actor Actor, name, email, password, roleName string) (AdminResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var admin model.AdminUser
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.adminRepo.FindByEmail(txCtx, email); err == nil {
			return apperror.NewConflictError("admin already exists with this email")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		role, err := s.adminRepo.FindRoleByName(txCtx, roleName)
		if err != nil {
			return lookupErr(err, "role "+roleName)
		}

		hashed, err := s.hasher.Hash(password)
		if err != nil {
			return err
		}

		admin = model.AdminUser{
			Name:         strings.TrimSpace(name),
			Email:        email,
			PasswordHash: hashed,
			RoleID:       role.ID,
			Role:         *role,
			Status:       model.AdminStatusActive,
		}
		if err := s.adminRepo.Create(txCtx, &admin); err != nil {
			return err
		}

		j := journal{auditRepo: s.auditRepo}
		return j.audit(txCtx, actor, model.ActionCreateAdminUser, admin.ID.String(), admin.Email, map[string]string{"role": roleName})
	})
	if err != nil {
		return AdminResponse{}, storageErr("create admin", err)
	}

	return AdminResponse{
		ID:    admin.ID.String(),
		Name:  admin.Name,
		Email: admin.Email,
		Role:  admin.Role.Name,
	}, nil
}

func (s *authService) issue(subject uuid.UUID, role string) (TokenResponse, error) {
	token, expiresAt, err := s.tokens.Issue(subject.String(), role)
	if err != nil {
		return TokenResponse{}, apperror.NewStorageError("failed to generate token", err)
	}
	return TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		UserID:    subject.String(),
		Role:      role,
	}, nil
}
