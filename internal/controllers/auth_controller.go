package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleet_tracker/internal/config"
	"fleet_tracker/internal/httpx"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
)

type registerInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// Register creates an account and returns a session token. Role defaults
// to "user" when omitted.
func Register(c *gin.Context) {
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

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.Created(c, gin.H{"token": token, "user": userResponse(user)})
}

// Login checks credentials and issues a token. Unknown email and wrong
// password produce the same response so accounts cannot be enumerated.
func Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Fail(c, httpx.Validation(err.Error()))
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Fail(c, httpx.Unauthorized("invalid credentials"))
			return
		}
		httpx.Fail(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		httpx.Fail(c, httpx.Unauthorized("invalid credentials"))
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.OK(c, gin.H{"token": token, "user": userResponse(user)})
}

// Me returns the authenticated user's profile.
func Me(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var user models.User
	if err := config.DB.First(&user, actor.ID).Error; err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, gin.H{"user": userResponse(user)})
}

type profileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UpdateProfile applies a sparse patch to the actor's name and email.
func UpdateProfile(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var input profileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, httpx.Validation(err.Error()))
		return
	}

	var user models.User
	if err := config.DB.First(&user, actor.ID).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := config.DB.Save(&user).Error; err != nil {
		if isUniqueViolation(err) {
			httpx.Fail(c, httpx.Conflict("email already in use"))
			return
		}
		httpx.Fail(c, err)
		return
	}

	httpx.OK(c, gin.H{"user": userResponse(user)})
}

// ChangePassword verifies the current password before storing a new hash.
func ChangePassword(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var body struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Fail(c, httpx.Validation(err.Error()))
		return
	}

	var user models.User
	if err := config.DB.First(&user, actor.ID).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.CurrentPassword)); err != nil {
		httpx.Fail(c, httpx.Unauthorized("current password is incorrect"))
		return
	}

	hashed, err := hashPassword(body.NewPassword)
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	if err := config.DB.Model(&user).Update("password", hashed).Error; err != nil {
		httpx.Fail(c, err)
		return
	}

	httpx.Message(c, "password updated")
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// isUniqueViolation matches a duplicate-key failure. TranslateError is on,
// so every driver surfaces gorm.ErrDuplicatedKey; the raw postgres code is
// kept for statements that bypass gorm's translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func userResponse(user models.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}
