package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_tracker/internal/config"
	"fleet_tracker/internal/httpx"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
	"fleet_tracker/internal/policy"
)

// ListUsers returns every account. Admin route.
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	httpx.OK(c, out)
}

// GetUser returns one account: admins may fetch anyone, others only
// themselves.
func GetUser(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	user, err := findUser(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	if !policy.CanManageUsers(actor) && user.ID != actor.ID {
		httpx.Fail(c, httpx.Forbidden("no access to this user"))
		return
	}

	httpx.OK(c, userResponse(user))
}

// CreateUser lets an admin provision an account with any role.
func CreateUser(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, httpx.Validation(err.Error()))
		return
	}

	if input.Role == "" {
		input.Role = models.RoleUser
	}
	if !models.ValidRole(input.Role) {
		httpx.Fail(c, httpx.Validation("invalid role"))
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     input.Role,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			httpx.Fail(c, httpx.Conflict("email already in use"))
			return
		}
		httpx.Fail(c, err)
		return
	}

	httpx.Created(c, userResponse(user))
}

type updateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// UpdateUser applies a sparse patch. Non-admins may only edit themselves
// and may not change roles.
func UpdateUser(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	user, err := findUser(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	if !policy.CanManageUsers(actor) && user.ID != actor.ID {
		httpx.Fail(c, httpx.Forbidden("no permission to update this user"))
		return
	}

	var input updateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, httpx.Validation(err.Error()))
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil {
		hashed, err := hashPassword(*input.Password)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		user.Password = hashed
	}
	if input.Role != nil {
		if !policy.CanManageUsers(actor) {
			httpx.Fail(c, httpx.Forbidden("only admins may change roles"))
			return
		}
		if !models.ValidRole(*input.Role) {
			httpx.Fail(c, httpx.Validation("invalid role"))
			return
		}
		user.Role = *input.Role
	}

	if err := config.DB.Save(&user).Error; err != nil {
		if isUniqueViolation(err) {
			httpx.Fail(c, httpx.Conflict("email already in use"))
			return
		}
		httpx.Fail(c, err)
		return
	}

	httpx.OK(c, userResponse(user))
}

// DeleteUser removes an account. Admin route.
func DeleteUser(c *gin.Context) {
	user, err := findUser(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	if err := config.DB.Delete(&user).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.Message(c, "user deleted")
}

func findUser(idParam string) (models.User, error) {
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		return models.User{}, httpx.Validation("invalid user id")
	}

	var user models.User
	if err := config.DB.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, httpx.NotFound("user not found")
		}
		return models.User{}, err
	}
	return user, nil
}
