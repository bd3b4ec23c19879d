package handler

import (
	"net/http"

	"shoptobd/internal/middleware"
	"shoptobd/internal/model"
	"shoptobd/internal/security"
	"shoptobd/internal/service"
	"shoptobd/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	tokens      security.TokenIssuer
	errorWriter
}

func NewAuthHandler(authService service.AuthService, tokens security.TokenIssuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		errorWriter: errorWriter{logger: logger},
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", h.RegisterCustomer)
		auth.POST("/login", h.LoginCustomer)
		auth.POST("/otp/generate", h.GenerateOTP)
		auth.POST("/otp/verify", h.VerifyOTP)
		auth.POST("/google", h.GoogleLogin)
	}

	admin := router.Group("/api/admin")
	{
		admin.POST("/login", h.LoginAdmin)
		admin.POST("/register", h.RegisterAdmin)
		admin.POST("/create", middleware.RequireRole(h.tokens, model.RoleSuperAdmin), h.CreateAdmin)
	}
}

// RegisterCustomer creates a customer account
// @Summary      Register customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterCustomerRequest  true  "Registration payload"
// @Success      201      {object}  response.Response{data=service.CustomerResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/auth/register [post]
func (h *AuthHandler) RegisterCustomer(c *gin.Context) {
	var req service.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	customer, err := h.authService.RegisterCustomer(c.Request.Context(), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, "Customer registered", customer))
}

// LoginCustomer authenticates a customer by email and password
// @Summary      Customer login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) LoginCustomer(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.authService.LoginCustomer(c.Request.Context(), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Login successful", token))
}

// GenerateOTP sends a one-time code to a registered phone number
// @Summary      Generate OTP
// @Description  The code is delivered out of band and never returned in the response.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.GenerateOTPRequest  true  "Phone"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/auth/otp/generate [post]
func (h *AuthHandler) GenerateOTP(c *gin.Context) {
	var req service.GenerateOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authService.GenerateOTP(c.Request.Context(), req); err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "OTP sent", nil))
}

// VerifyOTP exchanges a valid one-time code for an access token
// @Summary      Verify OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.VerifyOTPRequest  true  "Phone and code"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req service.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.authService.VerifyOTP(c.Request.Context(), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "OTP verified", token))
}

// GoogleLogin signs in or registers a customer with a Google identity
// @Summary      Google login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.GoogleLoginRequest  true  "Google identity"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req service.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.authService.GoogleLogin(c.Request.Context(), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Login successful", token))
}

// LoginAdmin authenticates an administrator
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      401      {object}  response.Response
// @Router       /api/admin/login [post]
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.authService.LoginAdmin(c.Request.Context(), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Login successful", token))
}

// RegisterAdmin self-registers an admin when the deployment allows it
// @Summary      Register admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterAdminRequest  true  "Admin payload"
// @Success      201      {object}  response.Response{data=service.AdminResponse}
// @Failure      403      {object}  response.Response
// @Router       /api/admin/register [post]
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req service.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	admin, err := h.authService.RegisterAdmin(c.Request.Context(), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, "Admin registered", admin))
}

// CreateAdmin lets a super admin create another admin account
// @Summary      Create admin
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateAdminRequest  true  "Admin payload"
// @Success      201      {object}  response.Response{data=service.AdminResponse}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/admin/create [post]
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req service.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	admin, err := h.authService.CreateAdmin(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, "Admin created", admin))
}
