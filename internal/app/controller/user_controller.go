package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abrefacil/briefing-backend/internal/app/service"
	apperrors "github.com/abrefacil/briefing-backend/internal/errors"
	"github.com/abrefacil/briefing-backend/internal/middleware"
)

// UserController is the admin-only account management surface
type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// List returns every registered account
// GET /api/v1/users
func (ctrl *UserController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	users, err := ctrl.userService.ListUsers()
	if err != nil {
		log.Error("Failed to list users", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetByID returns a single account
// GET /api/v1/users/:id
func (ctrl *UserController) GetByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	user, err := ctrl.userService.GetUser(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "usuário não encontrado")
			return
		}
		log.Error("Failed to get user", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Update changes name, role or active flag of an account
// PATCH /api/v1/users/:id
func (ctrl *UserController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "dados do usuário inválidos")
		return
	}

	actorID, _ := middleware.GetUserID(c)
	user, err := ctrl.userService.UpdateUser(id, input, actorID)
	if err != nil {
		var validation service.ValidationErrors
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "usuário não encontrado")
		case errors.Is(err, service.ErrCannotDemoteSelf):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "não é possível remover o próprio acesso")
		case errors.As(err, &validation):
			apperrors.RespondWithValidationError(c, validation)
		default:
			log.Error("Failed to update user", err, map[string]interface{}{
				"user_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user")
		}
		return
	}

	log.Info("User updated by admin", map[string]interface{}{
		"user_id":  user.ID,
		"actor_id": actorID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Usuário atualizado com sucesso",
		"user":    user,
	})
}

// Delete removes an account
// DELETE /api/v1/users/:id
func (ctrl *UserController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	actorID, _ := middleware.GetUserID(c)
	if err := ctrl.userService.DeleteUser(id, actorID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "usuário não encontrado")
		case errors.Is(err, service.ErrCannotDemoteSelf):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "não é possível excluir a própria conta")
		default:
			log.Error("Failed to delete user", err, map[string]interface{}{
				"user_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Usuário removido com sucesso",
	})
}
