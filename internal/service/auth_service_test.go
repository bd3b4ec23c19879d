package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shoptobd/internal/model"
	"shoptobd/internal/repository/mocks"
	"shoptobd/internal/security"
	"shoptobd/internal/service"
	svcmocks "shoptobd/internal/service/mocks"
	"shoptobd/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authMocks struct {
	customers *mocks.MockCustomerRepository
	admins    *mocks.MockAdminRepository
	audit     *mocks.MockAuditRepository
	sender    *svcmocks.MockOTPSender
	throttle  *svcmocks.MockOTPThrottle
}

var (
	testHasher = security.NewBcryptHasher(bcrypt.MinCost)
	testTokens = security.NewJWTIssuer("test-secret", "shoptobd-test", time.Hour)
)

func newAuthService(ctrl *gomock.Controller, opts service.AuthOptions) (service.AuthService, authMocks) {
	m := authMocks{
		customers: mocks.NewMockCustomerRepository(ctrl),
		admins:    mocks.NewMockAdminRepository(ctrl),
		audit:     mocks.NewMockAuditRepository(ctrl),
		sender:    svcmocks.NewMockOTPSender(ctrl),
		throttle:  svcmocks.NewMockOTPThrottle(ctrl),
	}
	if opts.OTPTTL == 0 {
		opts.OTPTTL = 5 * time.Minute
	}
	svc := service.NewAuthService(m.customers, m.admins, m.audit, fakeTxManager{}, testHasher, testTokens, m.sender, m.throttle, opts)
	return svc, m
}

func TestAuthService_GenerateAndVerifyOTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newAuthService(ctrl, service.AuthOptions{})
	customerID := uuid.New()
	phone := "01711000000"
	stored := &model.UserAuth{CustomerID: customerID, AuthType: model.AuthTypePhone, AuthData: phone}

	var delivered string
	m.customers.EXPECT().FindAuth(gomock.Any(), model.AuthTypePhone, phone).Return(stored, nil).Times(3)
	m.throttle.EXPECT().Allow(gomock.Any(), "otp:"+phone).Return(true, nil)
	m.customers.EXPECT().UpdateAuth(gomock.Any(), stored).Return(nil).Times(2)
	m.sender.EXPECT().Send(gomock.Any(), phone, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, code string) error {
			delivered = code
			return nil
		})

	require.NoError(t, svc.GenerateOTP(context.Background(), service.GenerateOTPRequest{Phone: phone}))
	require.Len(t, delivered, 6)
	require.NotNil(t, stored.OTPHash)
	assert.NotEqual(t, delivered, *stored.OTPHash)

	tok, err := svc.VerifyOTP(context.Background(), service.VerifyOTPRequest{Phone: phone, OTP: delivered})
	require.NoError(t, err)
	assert.Equal(t, customerID.String(), tok.UserID)
	assert.Equal(t, model.RoleCustomer, tok.Role)
	assert.True(t, stored.OTPVerified)

	claims, err := testTokens.Parse(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, customerID.String(), claims.Subject)

	// A used code cannot be replayed.
	_, err = svc.VerifyOTP(context.Background(), service.VerifyOTPRequest{Phone: phone, OTP: delivered})
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestAuthService_GenerateOTP(t *testing.T) {
	phone := "01711000000"

	type testCase struct {
		name          string
		setupMock     func(m authMocks)
		wantErrorKind error
	}

	tests := []testCase{
		{
			name: "cooldown still running",
			setupMock: func(m authMocks) {
				m.customers.EXPECT().FindAuth(gomock.Any(), model.AuthTypePhone, phone).Return(&model.UserAuth{}, nil)
				m.throttle.EXPECT().Allow(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErrorKind: apperror.ErrRateLimited,
		},
		{
			name: "unknown phone",
			setupMock: func(m authMocks) {
				m.customers.EXPECT().FindAuth(gomock.Any(), model.AuthTypePhone, phone).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErrorKind: apperror.ErrNotFound,
		},
		{
			name: "delivery failure",
			setupMock: func(m authMocks) {
				m.customers.EXPECT().FindAuth(gomock.Any(), model.AuthTypePhone, phone).Return(&model.UserAuth{}, nil)
				m.throttle.EXPECT().Allow(gomock.Any(), gomock.Any()).Return(true, nil)
				m.customers.EXPECT().UpdateAuth(gomock.Any(), gomock.Any()).Return(nil)
				m.sender.EXPECT().Send(gomock.Any(), phone, gomock.Any()).Return(errors.New("gateway down"))
			},
			wantErrorKind: apperror.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newAuthService(ctrl, service.AuthOptions{})
			tt.setupMock(m)

			err := svc.GenerateOTP(context.Background(), service.GenerateOTPRequest{Phone: phone})
			require.ErrorIs(t, err, tt.wantErrorKind)
		})
	}
}

func TestAuthService_VerifyOTPRejectsExpiredCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newAuthService(ctrl, service.AuthOptions{})

	hash, err := testHasher.Hash("123456")
	require.NoError(t, err)
	expired := time.Now().Add(-time.Minute)
	m.customers.EXPECT().FindAuth(gomock.Any(), model.AuthTypePhone, "017").
		Return(&model.UserAuth{OTPHash: &hash, OTPExpiry: &expired}, nil)

	_, err = svc.VerifyOTP(context.Background(), service.VerifyOTPRequest{Phone: "017", OTP: "123456"})
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestAuthService_LoginCustomer(t *testing.T) {
	hash, err := testHasher.Hash("secret123")
	require.NoError(t, err)
	customerID := uuid.New()

	tests := []struct {
		name          string
		password      string
		found         bool
		wantErrorKind error
	}{
		{name: "valid password", password: "secret123", found: true},
		{name: "wrong password", password: "nope", found: true, wantErrorKind: apperror.ErrUnauthorized},
		{name: "unknown email", password: "secret123", wantErrorKind: apperror.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newAuthService(ctrl, service.AuthOptions{})
			if tt.found {
				m.customers.EXPECT().FindAuth(gomock.Any(), model.AuthTypeEmail, "a@b.com").
					Return(&model.UserAuth{CustomerID: customerID, PasswordHash: &hash}, nil)
			} else {
				m.customers.EXPECT().FindAuth(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
			}

			got, err := svc.LoginCustomer(context.Background(), service.LoginRequest{Email: " A@b.com ", Password: tt.password})
			if tt.wantErrorKind != nil {
				require.ErrorIs(t, err, tt.wantErrorKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, customerID.String(), got.UserID)
			assert.NotEmpty(t, got.Token)
		})
	}
}

func TestAuthService_RegisterCustomerDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newAuthService(ctrl, service.AuthOptions{})

	m.customers.EXPECT().FindAuth(gomock.Any(), model.AuthTypeEmail, "a@b.com").Return(&model.UserAuth{}, nil)

	_, err := svc.RegisterCustomer(context.Background(), service.RegisterCustomerRequest{
		Name: "Rahim", Email: "a@b.com", Password: "secret123", AuthType: model.AuthTypeEmail,
	})
	require.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	req := service.RegisterAdminRequest{Name: "Ops", Email: "ops@shop.test", Password: "password1"}

	t.Run("disabled by default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, _ := newAuthService(ctrl, service.AuthOptions{})

		_, err := svc.RegisterAdmin(context.Background(), req)
		require.ErrorIs(t, err, apperror.ErrPermission)
	})

	t.Run("enabled creates a plain admin", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, m := newAuthService(ctrl, service.AuthOptions{AllowAdminSelfRegister: true})
		role := &model.AdminRole{ID: uuid.New(), Name: model.RoleAdmin}

		m.admins.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(nil, gorm.ErrRecordNotFound)
		m.admins.EXPECT().FindRoleByName(gomock.Any(), model.RoleAdmin).Return(role, nil)
		m.admins.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.RegisterAdmin(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, got.Role)
	})
}

func TestAuthService_CreateAdminRequiresSuperAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _ := newAuthService(ctrl, service.AuthOptions{})

	_, err := svc.CreateAdmin(context.Background(), service.Actor{ID: uuid.New(), Role: model.RoleAdmin},
		service.CreateAdminRequest{Name: "x", Email: "x@y.z", Password: "password1", Role: model.RoleAdmin})
	require.ErrorIs(t, err, apperror.ErrPermission)
}

func TestAuthService_BootstrapSuperAdminSkipsExisting(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newAuthService(ctrl, service.AuthOptions{})

	m.admins.EXPECT().EnsureRole(gomock.Any(), model.RoleSuperAdmin, gomock.Any()).Return(&model.AdminRole{}, nil)
	m.admins.EXPECT().EnsureRole(gomock.Any(), model.RoleAdmin, gomock.Any()).Return(&model.AdminRole{}, nil)
	m.admins.EXPECT().FindByEmail(gomock.Any(), "root@shop.test").Return(&model.AdminUser{}, nil)

	require.NoError(t, svc.BootstrapSuperAdmin(context.Background(), "Root", "Root@shop.test", "password1"))
}

func TestAuthService_GoogleLogin(t *testing.T) {
	customerID := uuid.New()
	req := service.GoogleLoginRequest{GoogleID: "g-123", Name: "Rahim", Email: "Rahim@shop.test"}

	tests := []struct {
		name          string
		setupMock     func(m authMocks)
		wantErrorKind error
	}{
		{
			name: "known google id signs in",
			setupMock: func(m authMocks) {
				m.customers.EXPECT().FindAuth(gomock.Any(), model.AuthTypeGoogle, "g-123").
					Return(&model.UserAuth{CustomerID: customerID}, nil)
			},
		},
		{
			name: "new identity creates the customer",
			setupMock: func(m authMocks) {
				m.customers.EXPECT().FindAuth(gomock.Any(), model.AuthTypeGoogle, "g-123").Return(nil, gorm.ErrRecordNotFound)
				m.customers.EXPECT().FindByEmail(gomock.Any(), "rahim@shop.test").Return(nil, gorm.ErrRecordNotFound)
				m.customers.EXPECT().CreateWithAuth(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *model.Customer, a *model.UserAuth) error {
						assert.Equal(t, "g-123", a.AuthData)
						assert.False(t, a.EmailVerified)
						c.ID = customerID
						return nil
					})
			},
		},
		{
			name: "existing email is not linked to an unverified google id",
			setupMock: func(m authMocks) {
				m.customers.EXPECT().FindAuth(gomock.Any(), model.AuthTypeGoogle, "g-123").Return(nil, gorm.ErrRecordNotFound)
				m.customers.EXPECT().FindByEmail(gomock.Any(), "rahim@shop.test").Return(&model.Customer{ID: uuid.New()}, nil)
			},
			wantErrorKind: apperror.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newAuthService(ctrl, service.AuthOptions{})
			tt.setupMock(m)

			tok, err := svc.GoogleLogin(context.Background(), req)
			if tt.wantErrorKind != nil {
				require.ErrorIs(t, err, tt.wantErrorKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, customerID.String(), tok.UserID)
		})
	}
}
