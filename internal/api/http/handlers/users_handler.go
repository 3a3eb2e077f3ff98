package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-crm/internal/api/dto"
	"github.com/spec-kit/support-crm/internal/auth"
	"github.com/spec-kit/support-crm/internal/service"
	apperrors "github.com/spec-kit/support-crm/pkg/util"
)

// UsersHandler covers login, account provisioning, password reset, profiles
// and the admin user directory.
type UsersHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService) *UsersHandler {
	return &UsersHandler{authService: authService, userService: userService}
}

// Login POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.NewUserResponse(result.User),
	}})
}

// Register POST /api/auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.authService.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		Country:  req.Country,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ForgotPassword POST /api/auth/forgot-password.
func (h *UsersHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.authService.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password reset email sent"}})
}

// ResetPassword POST /api/auth/reset-password.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	token := c.Params("token")
	if token == "" {
		token = req.Token
	}
	if err := h.authService.ResetPassword(c.UserContext(), token, req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password updated"}})
}

// GetProfile GET /api/auth/profile.
func (h *UsersHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authorized")
	}
	profile, err := h.userService.GetProfile(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(profile)})
}

// UpdateProfile PUT /api/auth/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authorized")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.userService.UpdateProfile(c.UserContext(), user.ID, service.ProfileUpdateInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Country: req.Country,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(updated)})
}

// ListTechnicians GET /api/auth/technicians.
func (h *UsersHandler) ListTechnicians(c *fiber.Ctx) error {
	summaries, err := h.userService.ListTechnicians(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianSummaryResponse, 0, len(summaries))
	for i := range summaries {
		items = append(items, dto.TechnicianSummaryResponse{
			UserResponse:    dto.NewUserResponse(&summaries[i].User),
			TicketsAssigned: summaries[i].TicketsAssigned,
			TicketsResolved: summaries[i].TicketsResolved,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTechnician GET /api/auth/technicians/:id.
func (h *UsersHandler) GetTechnician(c *fiber.Ctx) error {
	detail, err := h.userService.GetTechnician(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	tickets := make([]dto.TicketResponse, 0, len(detail.Tickets))
	for i := range detail.Tickets {
		tickets = append(tickets, dto.NewTicketResponse(&detail.Tickets[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TechnicianDetailResponse{
		UserResponse: dto.NewUserResponse(&detail.User),
		Tickets:      tickets,
	}})
}

// ListStaff GET /api/auth/staff.
func (h *UsersHandler) ListStaff(c *fiber.Ctx) error {
	staff, err := h.userService.ListStaff(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(staff))
	for i := range staff {
		items = append(items, dto.NewUserResponse(&staff[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetStaff GET /api/auth/staff/:id.
func (h *UsersHandler) GetStaff(c *fiber.Ctx) error {
	staff, err := h.userService.GetStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(staff)})
}

// DeleteUser DELETE /api/auth/users/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authorized")
	}
	if err := h.userService.DeleteUser(c.UserContext(), actor.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "user deleted"}})
}
